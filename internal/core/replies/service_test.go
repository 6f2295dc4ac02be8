package replies

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Mock implementations for testing

// mockReplyRepo stores replies in a map and resolves subtrees by path prefix,
// the same predicate the SQL layer uses.
type mockReplyRepo struct {
	replies map[string]*Reply
}

func newMockReplyRepo() *mockReplyRepo {
	return &mockReplyRepo{replies: make(map[string]*Reply)}
}

func (m *mockReplyRepo) Create(ctx context.Context, reply *Reply) error {
	m.replies[reply.ID] = reply
	return nil
}

func (m *mockReplyRepo) GetByID(ctx context.Context, replyID string) (*Reply, error) {
	if r, ok := m.replies[replyID]; ok {
		return r, nil
	}
	return nil, ErrNotFound
}

func (m *mockReplyRepo) Update(ctx context.Context, replyID, content string) (*Reply, error) {
	r, ok := m.replies[replyID]
	if !ok {
		return nil, ErrNotFound
	}
	r.Content = content
	return r, nil
}

func (m *mockReplyRepo) GetAllByPost(ctx context.Context, postID string) ([]*Reply, error) {
	var result []*Reply
	for _, r := range m.replies {
		if r.RootID == postID {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *mockReplyRepo) GetAllByPosts(ctx context.Context, postIDs []string) (map[string][]*Reply, error) {
	result := make(map[string][]*Reply)
	for _, id := range postIDs {
		rs, _ := m.GetAllByPost(ctx, id)
		if len(rs) > 0 {
			result[id] = rs
		}
	}
	return result, nil
}

func (m *mockReplyRepo) GetSubtree(ctx context.Context, replyID string) ([]*Reply, error) {
	target, ok := m.replies[replyID]
	if !ok {
		return nil, ErrNotFound
	}
	result := []*Reply{target}
	for _, r := range m.replies {
		if strings.HasPrefix(r.Path, PathPrefix(target.Path)) {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *mockReplyRepo) DeleteSubtree(ctx context.Context, replyID string) ([]string, error) {
	subtree, err := m.GetSubtree(ctx, replyID)
	if err != nil {
		return nil, err
	}
	ids := CollectIDs(subtree)
	for _, id := range ids {
		delete(m.replies, id)
	}
	return ids, nil
}

func (m *mockReplyRepo) DeleteByUser(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	for id, r := range m.replies {
		if r.UserID == userID {
			ids = append(ids, id)
			delete(m.replies, id)
		}
	}
	return ids, nil
}

func (m *mockReplyRepo) DeleteByPost(ctx context.Context, postID string) ([]string, error) {
	var ids []string
	for id, r := range m.replies {
		if r.RootID == postID {
			ids = append(ids, id)
			delete(m.replies, id)
		}
	}
	return ids, nil
}

// mockExistence tracks the known-user and created-post sets
type mockExistence struct {
	users map[string]bool
	posts map[string]bool
}

func newMockExistence() *mockExistence {
	return &mockExistence{users: make(map[string]bool), posts: make(map[string]bool)}
}

func (m *mockExistence) UserKnown(ctx context.Context, userID string) (bool, error) {
	return m.users[userID], nil
}

func (m *mockExistence) AddUser(ctx context.Context, userID string) error {
	m.users[userID] = true
	return nil
}

func (m *mockExistence) RemoveUser(ctx context.Context, userID string) error {
	delete(m.users, userID)
	return nil
}

func (m *mockExistence) PostKnown(ctx context.Context, postID string) (bool, error) {
	return m.posts[postID], nil
}

func (m *mockExistence) AddPost(ctx context.Context, postID, userID string) error {
	m.posts[postID] = true
	return nil
}

func (m *mockExistence) RemovePost(ctx context.Context, postID string) error {
	delete(m.posts, postID)
	return nil
}

// mockPurger records which resource ids had interactions destroyed
type mockPurger struct {
	purged []string
}

func (m *mockPurger) DeleteInteractions(ctx context.Context, resourceID string) error {
	m.purged = append(m.purged, resourceID)
	return nil
}

func (m *mockPurger) DeleteManyInteractions(ctx context.Context, resourceIDs []string) error {
	m.purged = append(m.purged, resourceIDs...)
	return nil
}

// mockInvalidator records thread-cache invalidations by post id
type mockInvalidator struct {
	invalidated []string
}

func (m *mockInvalidator) InvalidatePost(ctx context.Context, postID string) error {
	m.invalidated = append(m.invalidated, postID)
	return nil
}

// mockReplyPublisher captures published events as "routingKey:replyId"
type mockReplyPublisher struct {
	events []string
}

func (m *mockReplyPublisher) ReplyCreated(ctx context.Context, replyID, postID, userID string) error {
	m.events = append(m.events, "reply.created:"+replyID)
	return nil
}

func (m *mockReplyPublisher) ReplyUpdated(ctx context.Context, replyID, postID, userID string) error {
	m.events = append(m.events, "reply.updated:"+replyID)
	return nil
}

func (m *mockReplyPublisher) ReplyDeleted(ctx context.Context, replyID, postID, userID string) error {
	m.events = append(m.events, "reply.deleted:"+replyID)
	return nil
}

type testDeps struct {
	repo      *mockReplyRepo
	existence *mockExistence
	purger    *mockPurger
	cache     *mockInvalidator
	pub       *mockReplyPublisher
}

func newTestReplyService() (Service, *testDeps) {
	deps := &testDeps{
		repo:      newMockReplyRepo(),
		existence: newMockExistence(),
		purger:    &mockPurger{},
		cache:     &mockInvalidator{},
		pub:       &mockReplyPublisher{},
	}
	svc := NewReplyService(deps.repo, deps.existence, deps.purger, deps.cache, deps.pub, zap.NewNop())
	return svc, deps
}

func seed(t *testing.T, deps *testDeps, userID, postID string) {
	t.Helper()
	require.NoError(t, deps.existence.AddUser(context.Background(), userID))
	require.NoError(t, deps.existence.AddPost(context.Background(), postID, userID))
}

func TestCreateTopLevelReply(t *testing.T) {
	svc, deps := newTestReplyService()
	ctx := context.Background()
	seed(t, deps, "u1", "p1")

	reply, err := svc.Create(ctx, "p1", "p1", "u1", "hi")
	require.NoError(t, err)

	assert.Equal(t, "p1", reply.RootID)
	assert.Equal(t, "p1", reply.ParentID)
	assert.Equal(t, ChildPath("p1", reply.ID), reply.Path)
	assert.Equal(t, []string{"p1"}, deps.cache.invalidated)
	assert.Equal(t, []string{"reply.created:" + reply.ID}, deps.pub.events)
}

func TestCreateNestedReplyExtendsParentPath(t *testing.T) {
	svc, deps := newTestReplyService()
	ctx := context.Background()
	seed(t, deps, "u1", "p1")

	parent, err := svc.Create(ctx, "p1", "p1", "u1", "top")
	require.NoError(t, err)
	child, err := svc.Create(ctx, "p1", parent.ID, "u1", "nested")
	require.NoError(t, err)

	assert.Equal(t, ChildPath(parent.Path, child.ID), child.Path)
	assert.True(t, strings.HasPrefix(child.Path, PathPrefix(parent.Path)))
	assert.True(t, strings.HasPrefix(child.Path, "p1"+PathSeparator))
}

func TestCreateReplyParentFromOtherPost(t *testing.T) {
	svc, deps := newTestReplyService()
	ctx := context.Background()
	seed(t, deps, "u1", "p1")
	seed(t, deps, "u1", "p2")

	parent, err := svc.Create(ctx, "p1", "p1", "u1", "top")
	require.NoError(t, err)

	_, err = svc.Create(ctx, "p2", parent.ID, "u1", "wrong post")
	assert.True(t, IsValidationError(err))
}

func TestCreateReplyUnknownUser(t *testing.T) {
	svc, deps := newTestReplyService()
	require.NoError(t, deps.existence.AddPost(context.Background(), "p1", "someone"))

	_, err := svc.Create(context.Background(), "p1", "p1", "ghost", "hi")
	assert.ErrorIs(t, err, ErrUserUnknown)
}

func TestCreateReplyUnknownPost(t *testing.T) {
	svc, deps := newTestReplyService()
	require.NoError(t, deps.existence.AddUser(context.Background(), "u1"))

	_, err := svc.Create(context.Background(), "p1", "p1", "u1", "hi")
	assert.ErrorIs(t, err, ErrPostUnknown)
}

func TestCreateReplyMissingParent(t *testing.T) {
	svc, deps := newTestReplyService()
	seed(t, deps, "u1", "p1")

	_, err := svc.Create(context.Background(), "p1", "missing", "u1", "hi")
	assert.ErrorIs(t, err, ErrParentNotFound)
}

func TestUpdateReplyOwnerOnly(t *testing.T) {
	svc, deps := newTestReplyService()
	ctx := context.Background()
	seed(t, deps, "u1", "p1")

	reply, err := svc.Create(ctx, "p1", "p1", "u1", "before")
	require.NoError(t, err)

	_, err = svc.Update(ctx, reply.ID, "u2", "hijack")
	assert.ErrorIs(t, err, ErrNotOwner)

	updated, err := svc.Update(ctx, reply.ID, "u1", "after")
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Content)
	assert.Contains(t, deps.pub.events, "reply.updated:"+reply.ID)
}

func TestDeleteCascadesSubtree(t *testing.T) {
	svc, deps := newTestReplyService()
	ctx := context.Background()
	seed(t, deps, "u1", "P")

	r1, err := svc.Create(ctx, "P", "P", "u1", "r1")
	require.NoError(t, err)
	r2, err := svc.Create(ctx, "P", r1.ID, "u1", "r2")
	require.NoError(t, err)
	r3, err := svc.Create(ctx, "P", r2.ID, "u1", "r3")
	require.NoError(t, err)
	other, err := svc.Create(ctx, "P", "P", "u1", "survives")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, r1.ID, "u1"))

	remaining, err := svc.GetAllByPost(ctx, "P")
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, other.ID, remaining[0].ID)

	assert.ElementsMatch(t, []string{r1.ID, r2.ID, r3.ID}, deps.purger.purged)
	assert.Contains(t, deps.pub.events, "reply.deleted:"+r1.ID)
}

func TestDeleteReplyNotOwner(t *testing.T) {
	svc, deps := newTestReplyService()
	ctx := context.Background()
	seed(t, deps, "u1", "p1")

	reply, err := svc.Create(ctx, "p1", "p1", "u1", "hi")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, reply.ID, "u2"), ErrNotOwner)
}

func TestHandleUserDeletedRemovesRepliesAndInteractions(t *testing.T) {
	svc, deps := newTestReplyService()
	ctx := context.Background()
	seed(t, deps, "u1", "p1")
	seed(t, deps, "u2", "p1")

	mine, err := svc.Create(ctx, "p1", "p1", "u1", "mine")
	require.NoError(t, err)
	theirs, err := svc.Create(ctx, "p1", "p1", "u2", "theirs")
	require.NoError(t, err)

	require.NoError(t, svc.HandleUserDeleted(ctx, "u1"))

	_, err = svc.GetByID(ctx, mine.ID)
	assert.True(t, IsNotFound(err))
	_, err = svc.GetByID(ctx, theirs.ID)
	assert.NoError(t, err)

	assert.Contains(t, deps.purger.purged, mine.ID)
	known, err := deps.existence.UserKnown(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, known)
}

func TestHandlePostCreatedDropsUnknownAuthor(t *testing.T) {
	svc, deps := newTestReplyService()
	ctx := context.Background()

	// post.created arrives before user.created: dropped without error.
	require.NoError(t, svc.HandlePostCreated(ctx, "P", "U"))
	known, err := deps.existence.PostKnown(ctx, "P")
	require.NoError(t, err)
	assert.False(t, known)

	// After user.created, a subsequent post.created is admitted.
	require.NoError(t, svc.HandleUserCreated(ctx, "U"))
	require.NoError(t, svc.HandlePostCreated(ctx, "P2", "U"))
	known, err = deps.existence.PostKnown(ctx, "P2")
	require.NoError(t, err)
	assert.True(t, known)
}

func TestHandlePostDeletedCascades(t *testing.T) {
	svc, deps := newTestReplyService()
	ctx := context.Background()
	seed(t, deps, "u1", "p1")

	reply, err := svc.Create(ctx, "p1", "p1", "u1", "hi")
	require.NoError(t, err)

	require.NoError(t, svc.HandlePostDeleted(ctx, "p1"))

	remaining, err := deps.repo.GetAllByPost(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, remaining)

	assert.Contains(t, deps.purger.purged, reply.ID)
	assert.Contains(t, deps.purger.purged, "p1")
	known, err := deps.existence.PostKnown(ctx, "p1")
	require.NoError(t, err)
	assert.False(t, known)
}
