package bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Loom/internal/core/posts"
	"Loom/internal/core/replies"
)

// fakeReplyService records which handler methods the bindings invoke
type fakeReplyService struct {
	calls []string
}

func (f *fakeReplyService) record(call string) { f.calls = append(f.calls, call) }

func (f *fakeReplyService) Create(ctx context.Context, postID, parentID, userID, content string) (*replies.Reply, error) {
	return nil, nil
}
func (f *fakeReplyService) Update(ctx context.Context, replyID, userID, content string) (*replies.Reply, error) {
	return nil, nil
}
func (f *fakeReplyService) Delete(ctx context.Context, replyID, userID string) error { return nil }
func (f *fakeReplyService) GetByID(ctx context.Context, replyID string) (*replies.Reply, error) {
	return nil, nil
}
func (f *fakeReplyService) GetAllByPost(ctx context.Context, postID string) ([]*replies.Reply, error) {
	return nil, nil
}
func (f *fakeReplyService) GetAllByPosts(ctx context.Context, postIDs []string) (map[string][]*replies.Reply, error) {
	return nil, nil
}
func (f *fakeReplyService) GetSubtree(ctx context.Context, replyID string) ([]*replies.Reply, error) {
	return nil, nil
}
func (f *fakeReplyService) DeleteByUser(ctx context.Context, userID string) ([]string, error) {
	return nil, nil
}
func (f *fakeReplyService) DeleteByPost(ctx context.Context, postID string) error { return nil }

func (f *fakeReplyService) HandleUserCreated(ctx context.Context, userID string) error {
	f.record("user.created:" + userID)
	return nil
}

func (f *fakeReplyService) HandleUserDeleted(ctx context.Context, userID string) error {
	f.record("user.deleted:" + userID)
	return nil
}

func (f *fakeReplyService) HandlePostCreated(ctx context.Context, postID, userID string) error {
	f.record("post.created:" + postID + ":" + userID)
	return nil
}

func (f *fakeReplyService) HandlePostDeleted(ctx context.Context, postID string) error {
	f.record("post.deleted:" + postID)
	return nil
}

// fakePostService records media-service handler invocations
type fakePostService struct {
	calls []string
}

func (f *fakePostService) CreatePost(ctx context.Context, req posts.CreatePostRequest) (*posts.PostView, error) {
	return nil, nil
}
func (f *fakePostService) GetPost(ctx context.Context, postID string) (*posts.PostView, error) {
	return nil, nil
}
func (f *fakePostService) GetBatchPosts(ctx context.Context, postIDs []string) ([]*posts.PostView, error) {
	return nil, nil
}
func (f *fakePostService) GetPaginatedPosts(ctx context.Context, userID string, perPage int, next string) (*posts.PostPage, error) {
	return nil, nil
}
func (f *fakePostService) UpdatePost(ctx context.Context, req posts.UpdatePostRequest) (*posts.PostView, error) {
	return nil, nil
}
func (f *fakePostService) DeletePost(ctx context.Context, postID, userID string) error { return nil }

func (f *fakePostService) HandleUserCreated(ctx context.Context, userID string) error {
	f.calls = append(f.calls, "user.created:"+userID)
	return nil
}

func (f *fakePostService) HandleUserDeleted(ctx context.Context, userID string) error {
	f.calls = append(f.calls, "user.deleted:"+userID)
	return nil
}

func bindingFor(t *testing.T, bindings []Binding, queue string) Binding {
	t.Helper()
	for _, b := range bindings {
		if b.Queue == queue {
			return b
		}
	}
	t.Fatalf("no binding for queue %s", queue)
	return Binding{}
}

func TestInteractionBindingsTable(t *testing.T) {
	bindings := InteractionServiceBindings(&fakeReplyService{})
	require.Len(t, bindings, 4)

	expect := map[string][2]string{
		QueuePostDeletedInteraction: {PostExchange, RoutePostDeleted},
		QueuePostCreatedInteraction: {PostExchange, RoutePostCreated},
		QueueUserCreatedInteraction: {UserExchange, RouteUserCreated},
		QueueUserDeletedInteraction: {UserExchange, RouteUserDeleted},
	}
	for queue, pair := range expect {
		b := bindingFor(t, bindings, queue)
		assert.Equal(t, pair[0], b.Exchange)
		assert.Equal(t, pair[1], b.RoutingKey)
	}
}

func TestMediaBindingsTable(t *testing.T) {
	bindings := MediaServiceBindings(&fakePostService{})
	require.Len(t, bindings, 2)

	b := bindingFor(t, bindings, QueueUserCreatedMedia)
	assert.Equal(t, UserExchange, b.Exchange)
	assert.Equal(t, RouteUserCreated, b.RoutingKey)

	b = bindingFor(t, bindings, QueueUserDeletedMedia)
	assert.Equal(t, UserExchange, b.Exchange)
	assert.Equal(t, RouteUserDeleted, b.RoutingKey)
}

func TestBindingsRouteEvents(t *testing.T) {
	svc := &fakeReplyService{}
	bindings := InteractionServiceBindings(svc)
	ctx := context.Background()

	handler := bindingFor(t, bindings, QueueUserDeletedInteraction).Handler
	require.NoError(t, handler(ctx, []byte(`{"id":"01USERX0000000000000000000"}`)))

	handler = bindingFor(t, bindings, QueuePostCreatedInteraction).Handler
	require.NoError(t, handler(ctx, []byte(`{"id":"P","userId":"U"}`)))

	assert.Equal(t, []string{
		"user.deleted:01USERX0000000000000000000",
		"post.created:P:U",
	}, svc.calls)
}

func TestBindingsRejectMalformedPayload(t *testing.T) {
	bindings := InteractionServiceBindings(&fakeReplyService{})
	for _, b := range bindings {
		err := b.Handler(context.Background(), []byte(`{not json`))
		assert.True(t, errors.Is(err, ErrBadPayload), "queue %s must flag bad payloads", b.Queue)
	}
}
