package interaction

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"Loom/internal/api/middleware"
	"Loom/internal/core/interactions"
	"Loom/internal/core/replies"
)

// mockReplyService implements replies.Service with override funcs.
type mockReplyService struct {
	createFunc       func(ctx context.Context, postID, parentID, userID, content string) (*replies.Reply, error)
	deleteFunc       func(ctx context.Context, replyID, userID string) error
	getAllByPostFunc func(ctx context.Context, postID string) ([]*replies.Reply, error)
}

func (m *mockReplyService) Create(ctx context.Context, postID, parentID, userID, content string) (*replies.Reply, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, postID, parentID, userID, content)
	}
	return &replies.Reply{ID: "01REPLY", RootID: postID, ParentID: parentID, UserID: userID, Content: content}, nil
}

func (m *mockReplyService) Update(ctx context.Context, replyID, userID, content string) (*replies.Reply, error) {
	return &replies.Reply{ID: replyID, UserID: userID, Content: content}, nil
}

func (m *mockReplyService) Delete(ctx context.Context, replyID, userID string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, replyID, userID)
	}
	return nil
}

func (m *mockReplyService) GetByID(ctx context.Context, replyID string) (*replies.Reply, error) {
	return nil, replies.ErrNotFound
}

func (m *mockReplyService) GetAllByPost(ctx context.Context, postID string) ([]*replies.Reply, error) {
	if m.getAllByPostFunc != nil {
		return m.getAllByPostFunc(ctx, postID)
	}
	return nil, nil
}

func (m *mockReplyService) GetAllByPosts(ctx context.Context, postIDs []string) (map[string][]*replies.Reply, error) {
	return nil, nil
}

func (m *mockReplyService) GetSubtree(ctx context.Context, replyID string) ([]*replies.Reply, error) {
	return nil, nil
}

func (m *mockReplyService) DeleteByUser(ctx context.Context, userID string) ([]string, error) {
	return nil, nil
}

func (m *mockReplyService) DeleteByPost(ctx context.Context, postID string) error { return nil }

func (m *mockReplyService) HandleUserCreated(ctx context.Context, userID string) error { return nil }

func (m *mockReplyService) HandleUserDeleted(ctx context.Context, userID string) error { return nil }

func (m *mockReplyService) HandlePostCreated(ctx context.Context, postID, userID string) error {
	return nil
}

func (m *mockReplyService) HandlePostDeleted(ctx context.Context, postID string) error { return nil }

// mockCounters implements interactions.Counters over in-memory sets.
type mockCounters struct {
	likes map[string]map[string]bool
	views map[string]map[string]bool
}

func newMockCounters() *mockCounters {
	return &mockCounters{likes: map[string]map[string]bool{}, views: map[string]map[string]bool{}}
}

func add(sets map[string]map[string]bool, resourceID, userID string) bool {
	if sets[resourceID] == nil {
		sets[resourceID] = map[string]bool{}
	}
	if sets[resourceID][userID] {
		return false
	}
	sets[resourceID][userID] = true
	return true
}

func (m *mockCounters) Like(_ context.Context, resourceID, userID string) (bool, error) {
	return add(m.likes, resourceID, userID), nil
}

func (m *mockCounters) Unlike(_ context.Context, resourceID, userID string) (bool, error) {
	if m.likes[resourceID][userID] {
		delete(m.likes[resourceID], userID)
		return true, nil
	}
	return false, nil
}

func (m *mockCounters) IsLiked(_ context.Context, resourceID, userID string) (bool, error) {
	return m.likes[resourceID][userID], nil
}

func (m *mockCounters) LikeCount(_ context.Context, resourceID string) (int64, error) {
	return int64(len(m.likes[resourceID])), nil
}

func (m *mockCounters) IsManyLiked(_ context.Context, viewerID string, resourceIDs []string) (map[string]bool, error) {
	return map[string]bool{}, nil
}

func (m *mockCounters) GetManyLikes(_ context.Context, resourceIDs []string) (map[string]int64, error) {
	return map[string]int64{}, nil
}

func (m *mockCounters) View(_ context.Context, resourceID, userID string) (bool, error) {
	return add(m.views, resourceID, userID), nil
}

func (m *mockCounters) ViewCount(_ context.Context, resourceID string) (int64, error) {
	return int64(len(m.views[resourceID])), nil
}

func (m *mockCounters) GetManyViews(_ context.Context, resourceIDs []string) (map[string]int64, error) {
	return map[string]int64{}, nil
}

// mockExistence implements interactions.Existence.
type mockExistence struct {
	users map[string]bool
	posts map[string]bool
}

func (m *mockExistence) UserKnown(_ context.Context, userID string) (bool, error) {
	return m.users[userID], nil
}

func (m *mockExistence) PostKnown(_ context.Context, postID string) (bool, error) {
	return m.posts[postID], nil
}

type fixture struct {
	replies   *mockReplyService
	existence *mockExistence
	router    chi.Router
}

// authed wraps requests with a fixed token subject, mirroring what the JWT
// middleware injects.
func authed(userID string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.SetTestUserID(r.Context(), userID)))
		})
	}
}

func newFixture(t *testing.T, authUserID string) *fixture {
	t.Helper()
	f := &fixture{
		replies:   &mockReplyService{},
		existence: &mockExistence{users: map[string]bool{}, posts: map[string]bool{}},
	}
	h := NewHandler(f.replies, interactions.NewWriter(newMockCounters(), f.existence), zap.NewNop())

	r := chi.NewRouter()
	r.Use(authed(authUserID))
	r.Post("/api/posts/{postId}/replies", h.CreateReply)
	r.Delete("/api/posts/{postId}/replies/{replyId}", h.DeleteReply)
	r.Get("/api/posts/{postId}/replies", h.GetReplies)
	r.Post("/api/users/{userId}/likes/posts/{postId}", h.LikePost)
	r.Post("/api/users/{userId}/views/posts/{postId}", h.ViewPost)
	f.router = r
	return f
}

func TestCreateReplyCreated(t *testing.T) {
	f := newFixture(t, "01USER")

	body := strings.NewReader(`{"content":"hello"}`)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/posts/01POST/replies", body))

	require.Equal(t, http.StatusCreated, rec.Code)

	var reply replies.Reply
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	assert.Equal(t, "01POST", reply.RootID)
	assert.Equal(t, "01USER", reply.UserID)
	assert.Equal(t, "hello", reply.Content)
}

func TestCreateReplyUnknownPost(t *testing.T) {
	f := newFixture(t, "01USER")
	f.replies.createFunc = func(_ context.Context, _, _, _, _ string) (*replies.Reply, error) {
		return nil, replies.ErrPostUnknown
	}

	rec := httptest.NewRecorder()
	body := strings.NewReader(`{"content":"hello"}`)
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/posts/01MISSING/replies", body))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateReplyBadBody(t *testing.T) {
	f := newFixture(t, "01USER")

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/posts/01POST/replies", strings.NewReader("{")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteReplyNotOwner(t *testing.T) {
	f := newFixture(t, "01USER")
	f.replies.deleteFunc = func(_ context.Context, _, _ string) error {
		return replies.ErrNotOwner
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/posts/01POST/replies/01REPLY", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetRepliesReturnsNestedThread(t *testing.T) {
	f := newFixture(t, "")
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	f.replies.getAllByPostFunc = func(_ context.Context, postID string) ([]*replies.Reply, error) {
		return []*replies.Reply{
			{ID: "r1", RootID: postID, ParentID: postID, CreatedAt: base},
			{ID: "r2", RootID: postID, ParentID: "r1", CreatedAt: base.Add(time.Minute)},
		}, nil
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/posts/01POST/replies", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var thread []*replyNode
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &thread))
	require.Len(t, thread, 1)
	assert.Equal(t, "r1", thread[0].ID)
	require.Len(t, thread[0].Replies, 1)
	assert.Equal(t, "r2", thread[0].Replies[0].ID)
}

func TestLikePostPathUserMismatch(t *testing.T) {
	f := newFixture(t, "01USER")

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/users/01OTHER/likes/posts/01POST", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLikePostUnknownUser(t *testing.T) {
	f := newFixture(t, "01USER")
	f.existence.posts["01POST"] = true

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/users/01USER/likes/posts/01POST", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLikeThenViewPost(t *testing.T) {
	f := newFixture(t, "01USER")
	f.existence.users["01USER"] = true
	f.existence.posts["01POST"] = true

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/users/01USER/likes/posts/01POST", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp likeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Changed)

	// Second like is a no-op.
	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/users/01USER/likes/posts/01POST", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Changed)

	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/users/01USER/views/posts/01POST", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Changed)
}
