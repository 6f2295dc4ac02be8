package posts

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Mock implementations for testing

// mockPostRepo is a mock implementation of the post Repository interface
type mockPostRepo struct {
	posts    map[string]*Post
	users    map[string]bool
	listFunc func(ctx context.Context, userID string, limit int, cursor string) ([]*Post, error)
}

func newMockPostRepo() *mockPostRepo {
	return &mockPostRepo{
		posts: make(map[string]*Post),
		users: make(map[string]bool),
	}
}

func (m *mockPostRepo) Create(ctx context.Context, post *Post) error {
	m.posts[post.ID] = post
	return nil
}

func (m *mockPostRepo) GetByID(ctx context.Context, postID string) (*Post, error) {
	if p, ok := m.posts[postID]; ok {
		return p, nil
	}
	return nil, ErrNotFound
}

func (m *mockPostRepo) GetBatch(ctx context.Context, postIDs []string) ([]*Post, error) {
	result := make([]*Post, 0, len(postIDs))
	for _, id := range postIDs {
		if p, ok := m.posts[id]; ok {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *mockPostRepo) List(ctx context.Context, userID string, limit int, cursor string) ([]*Post, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, userID, limit, cursor)
	}
	var rows []*Post
	for _, p := range m.posts {
		if userID != "" && p.UserID != userID {
			continue
		}
		if cursor != "" && p.ID >= cursor {
			continue
		}
		rows = append(rows, p)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID > rows[j].ID })
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (m *mockPostRepo) Update(ctx context.Context, postID string, text *string, files []File, updatedAt time.Time) (*Post, error) {
	p, ok := m.posts[postID]
	if !ok {
		return nil, ErrNotFound
	}
	if text != nil {
		p.Text = *text
	}
	p.Files = append(p.Files, files...)
	p.UpdatedAt = updatedAt
	return p, nil
}

func (m *mockPostRepo) Delete(ctx context.Context, postID string) error {
	if _, ok := m.posts[postID]; !ok {
		return ErrNotFound
	}
	delete(m.posts, postID)
	return nil
}

func (m *mockPostRepo) DeleteByUser(ctx context.Context, userID string) ([]string, error) {
	var deleted []string
	for id, p := range m.posts {
		if p.UserID == userID {
			deleted = append(deleted, id)
			delete(m.posts, id)
		}
	}
	return deleted, nil
}

func (m *mockPostRepo) UserExists(ctx context.Context, userID string) (bool, error) {
	return m.users[userID], nil
}

func (m *mockPostRepo) AddUser(ctx context.Context, userID string) error {
	m.users[userID] = true
	return nil
}

func (m *mockPostRepo) RemoveUser(ctx context.Context, userID string) error {
	delete(m.users, userID)
	return nil
}

// mockBlobStore records puts and removes and presigns deterministic URLs
type mockBlobStore struct {
	stored  map[string]string
	removed []string
	putErr  error
}

func newMockBlobStore() *mockBlobStore {
	return &mockBlobStore{stored: make(map[string]string)}
}

func (m *mockBlobStore) Put(ctx context.Context, key string, upload Upload) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.stored[key] = upload.FileName
	return nil
}

func (m *mockBlobStore) Remove(ctx context.Context, key string) error {
	m.removed = append(m.removed, key)
	return nil
}

func (m *mockBlobStore) PresignedURL(ctx context.Context, key string) (string, time.Time, error) {
	return "https://blobs.test/" + key, time.Now().Add(15 * time.Minute), nil
}

// mockPublisher captures published events as "routingKey:postId"
type mockPublisher struct {
	events []string
}

func (m *mockPublisher) PostCreated(ctx context.Context, postID, userID string) error {
	m.events = append(m.events, "post.created:"+postID)
	return nil
}

func (m *mockPublisher) PostUpdated(ctx context.Context, postID, userID string) error {
	m.events = append(m.events, "post.updated:"+postID)
	return nil
}

func (m *mockPublisher) PostDeleted(ctx context.Context, postID, userID string) error {
	m.events = append(m.events, "post.deleted:"+postID)
	return nil
}

func newTestService(repo *mockPostRepo, blobs *mockBlobStore, pub *mockPublisher) Service {
	return NewPostService(repo, blobs, pub, zap.NewNop())
}

func TestCreatePost(t *testing.T) {
	repo := newMockPostRepo()
	blobs := newMockBlobStore()
	pub := &mockPublisher{}
	svc := newTestService(repo, blobs, pub)
	ctx := context.Background()

	require.NoError(t, repo.AddUser(ctx, "01USERAAAAAAAAAAAAAAAAAAA0"))

	view, err := svc.CreatePost(ctx, CreatePostRequest{
		UserID: "01USERAAAAAAAAAAAAAAAAAAA0",
		Text:   "hello",
		Media: []Upload{
			{FileName: "cat.png", ContentType: "image/png", Content: strings.NewReader("png")},
		},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, view.ID)
	assert.Equal(t, "01USERAAAAAAAAAAAAAAAAAAA0", view.UserID)
	assert.Equal(t, "hello", view.Text)
	require.Len(t, view.Files, 1)
	assert.Equal(t, "cat.png", view.Files[0].FileName)
	assert.Contains(t, view.Files[0].URL, view.ID)
	assert.False(t, view.Files[0].ExpiresAt.IsZero())

	assert.Len(t, blobs.stored, 1)
	assert.Equal(t, []string{"post.created:" + view.ID}, pub.events)
}

func TestCreatePostUnknownUser(t *testing.T) {
	svc := newTestService(newMockPostRepo(), newMockBlobStore(), &mockPublisher{})

	_, err := svc.CreatePost(context.Background(), CreatePostRequest{
		UserID: "01USERZZZZZZZZZZZZZZZZZZZ0",
		Text:   "hello",
	})
	assert.ErrorIs(t, err, ErrUserUnknown)
}

func TestCreatePostValidation(t *testing.T) {
	repo := newMockPostRepo()
	svc := newTestService(repo, newMockBlobStore(), &mockPublisher{})
	ctx := context.Background()
	require.NoError(t, repo.AddUser(ctx, "u1"))

	tests := []struct {
		name string
		req  CreatePostRequest
	}{
		{"missing user", CreatePostRequest{Text: "hi"}},
		{"empty post", CreatePostRequest{UserID: "u1"}},
		{"oversized text", CreatePostRequest{UserID: "u1", Text: strings.Repeat("a", maxTextLength+1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreatePost(ctx, tt.req)
			assert.True(t, IsValidationError(err), "expected validation error, got %v", err)
		})
	}
}

func TestUpdatePostAppendsFiles(t *testing.T) {
	repo := newMockPostRepo()
	blobs := newMockBlobStore()
	pub := &mockPublisher{}
	svc := newTestService(repo, blobs, pub)
	ctx := context.Background()

	repo.posts["p1"] = &Post{
		ID:     "p1",
		UserID: "u1",
		Text:   "original",
		Files:  []File{{ID: "f1", FileName: "old.png", StorageKey: "p1/f1"}},
	}

	newText := "edited"
	view, err := svc.UpdatePost(ctx, UpdatePostRequest{
		PostID: "p1",
		UserID: "u1",
		Text:   &newText,
		Media: []Upload{
			{FileName: "new.png", ContentType: "image/png", Content: strings.NewReader("png")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "edited", view.Text)
	require.Len(t, view.Files, 2)
	assert.Equal(t, "old.png", view.Files[0].FileName)
	assert.Equal(t, "new.png", view.Files[1].FileName)
	assert.Equal(t, []string{"post.updated:p1"}, pub.events)
}

func TestUpdatePostNotOwner(t *testing.T) {
	repo := newMockPostRepo()
	svc := newTestService(repo, newMockBlobStore(), &mockPublisher{})

	repo.posts["p1"] = &Post{ID: "p1", UserID: "u1"}

	_, err := svc.UpdatePost(context.Background(), UpdatePostRequest{PostID: "p1", UserID: "u2"})
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestDeletePostRemovesBlobs(t *testing.T) {
	repo := newMockPostRepo()
	blobs := newMockBlobStore()
	pub := &mockPublisher{}
	svc := newTestService(repo, blobs, pub)

	repo.posts["p1"] = &Post{
		ID:     "p1",
		UserID: "u1",
		Files:  []File{{ID: "f1", StorageKey: "p1/f1"}, {ID: "f2", StorageKey: "p1/f2"}},
	}

	require.NoError(t, svc.DeletePost(context.Background(), "p1", "u1"))

	assert.Empty(t, repo.posts)
	assert.ElementsMatch(t, []string{"p1/f1", "p1/f2"}, blobs.removed)
	assert.Equal(t, []string{"post.deleted:p1"}, pub.events)
}

func TestDeletePostNotFound(t *testing.T) {
	svc := newTestService(newMockPostRepo(), newMockBlobStore(), &mockPublisher{})
	err := svc.DeletePost(context.Background(), "missing", "u1")
	assert.True(t, IsNotFound(err))
}

func TestGetPaginatedPosts(t *testing.T) {
	repo := newMockPostRepo()
	svc := newTestService(repo, newMockBlobStore(), &mockPublisher{})
	ctx := context.Background()

	// ULID-shaped ids so the cursor validation passes.
	ids := []string{
		"01ARZ3NDEKTSV4RRFFQ69G5FA1",
		"01ARZ3NDEKTSV4RRFFQ69G5FA2",
		"01ARZ3NDEKTSV4RRFFQ69G5FA3",
	}
	for _, id := range ids {
		repo.posts[id] = &Post{ID: id, UserID: "u1", Text: "t"}
	}

	page, err := svc.GetPaginatedPosts(ctx, "", 2, "")
	require.NoError(t, err)
	require.Len(t, page.Posts, 2)
	assert.Equal(t, ids[2], page.Posts[0].ID)
	assert.Equal(t, ids[1], page.Posts[1].ID)
	require.NotEmpty(t, page.Next)

	second, err := svc.GetPaginatedPosts(ctx, "", 2, page.Next)
	require.NoError(t, err)
	require.Len(t, second.Posts, 1)
	assert.Equal(t, ids[0], second.Posts[0].ID)
	assert.Empty(t, second.Next)
}

func TestGetPaginatedPostsBadCursor(t *testing.T) {
	svc := newTestService(newMockPostRepo(), newMockBlobStore(), &mockPublisher{})
	_, err := svc.GetPaginatedPosts(context.Background(), "", 10, "not-a-ulid")
	assert.True(t, IsValidationError(err))
}

func TestGetBatchPostsSkipsMissing(t *testing.T) {
	repo := newMockPostRepo()
	svc := newTestService(repo, newMockBlobStore(), &mockPublisher{})

	repo.posts["p1"] = &Post{ID: "p1", UserID: "u1"}

	views, err := svc.GetBatchPosts(context.Background(), []string{"p1", "gone"})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "p1", views[0].ID)
}

func TestHandleUserDeletedCascades(t *testing.T) {
	repo := newMockPostRepo()
	pub := &mockPublisher{}
	svc := newTestService(repo, newMockBlobStore(), pub)
	ctx := context.Background()

	require.NoError(t, repo.AddUser(ctx, "u1"))
	repo.posts["p1"] = &Post{ID: "p1", UserID: "u1"}
	repo.posts["p2"] = &Post{ID: "p2", UserID: "u1"}
	repo.posts["p3"] = &Post{ID: "p3", UserID: "u2"}

	require.NoError(t, svc.HandleUserDeleted(ctx, "u1"))

	assert.Len(t, repo.posts, 1)
	assert.False(t, repo.users["u1"])
	assert.ElementsMatch(t, []string{"post.deleted:p1", "post.deleted:p2"}, pub.events)
}

func TestCreatePostBlobFailure(t *testing.T) {
	repo := newMockPostRepo()
	blobs := newMockBlobStore()
	blobs.putErr = errors.New("bucket unavailable")
	svc := newTestService(repo, blobs, &mockPublisher{})
	ctx := context.Background()
	require.NoError(t, repo.AddUser(ctx, "u1"))

	_, err := svc.CreatePost(ctx, CreatePostRequest{
		UserID: "u1",
		Text:   "hello",
		Media:  []Upload{{FileName: "a.png", Content: strings.NewReader("x")}},
	})
	require.Error(t, err)
	assert.Empty(t, repo.posts, "post must not be inserted when media storage fails")
}
