package posts

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

const (
	maxTextLength = 4096
	maxMediaParts = 10
	defaultPage   = 20
	maxPage       = 100
)

type postService struct {
	repo   Repository
	blobs  BlobStore
	events EventPublisher
	logger *zap.Logger
}

// NewPostService creates a new post service.
func NewPostService(repo Repository, blobs BlobStore, events EventPublisher, logger *zap.Logger) Service {
	return &postService{
		repo:   repo,
		blobs:  blobs,
		events: events,
		logger: logger,
	}
}

// CreatePost flow:
// 1. Validate input
// 2. Check the author against the known-user collection
// 3. Store each media part in the blob store
// 4. Insert the post record
// 5. Publish post.created (failure logged, not surfaced; the bus is
//    eventually consistent)
func (s *postService) CreatePost(ctx context.Context, req CreatePostRequest) (*PostView, error) {
	if req.UserID == "" {
		return nil, NewValidationError("userId", "user id is required")
	}
	if req.Text == "" && len(req.Media) == 0 {
		return nil, NewValidationError("text", "post must carry text or media")
	}
	if len(req.Text) > maxTextLength {
		return nil, NewValidationError("text", fmt.Sprintf("text exceeds %d characters", maxTextLength))
	}
	if len(req.Media) > maxMediaParts {
		return nil, NewValidationError("media", fmt.Sprintf("at most %d media parts per post", maxMediaParts))
	}

	exists, err := s.repo.UserExists(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check user existence: %w", err)
	}
	if !exists {
		return nil, ErrUserUnknown
	}

	postID := ulid.Make().String()
	files, err := s.storeUploads(ctx, postID, req.Media)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	post := &Post{
		ID:        postID,
		UserID:    req.UserID,
		Text:      req.Text,
		Files:     files,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	if err := s.events.PostCreated(ctx, post.ID, post.UserID); err != nil {
		s.logger.Error("failed to publish post.created",
			zap.String("postId", post.ID), zap.Error(err))
	}

	return s.hydrate(ctx, post)
}

func (s *postService) GetPost(ctx context.Context, postID string) (*PostView, error) {
	if postID == "" {
		return nil, NewValidationError("postId", "post id is required")
	}
	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	return s.hydrate(ctx, post)
}

func (s *postService) GetBatchPosts(ctx context.Context, postIDs []string) ([]*PostView, error) {
	if len(postIDs) == 0 {
		return []*PostView{}, nil
	}
	batch, err := s.repo.GetBatch(ctx, postIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch post batch: %w", err)
	}
	views := make([]*PostView, 0, len(batch))
	for _, post := range batch {
		view, err := s.hydrate(ctx, post)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *postService) GetPaginatedPosts(ctx context.Context, userID string, perPage int, next string) (*PostPage, error) {
	if perPage <= 0 {
		perPage = defaultPage
	}
	if perPage > maxPage {
		perPage = maxPage
	}
	if next != "" {
		if _, err := ulid.ParseStrict(next); err != nil {
			return nil, NewValidationError("next", "cursor must be a valid identifier")
		}
	}

	// Fetch one extra row to know whether another page exists.
	rows, err := s.repo.List(ctx, userID, perPage+1, next)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	page := &PostPage{Posts: make([]*PostView, 0, len(rows))}
	hasMore := len(rows) > perPage
	if hasMore {
		rows = rows[:perPage]
	}
	for _, post := range rows {
		view, err := s.hydrate(ctx, post)
		if err != nil {
			return nil, err
		}
		page.Posts = append(page.Posts, view)
	}
	if hasMore {
		page.Next = rows[len(rows)-1].ID
	}
	return page, nil
}

func (s *postService) UpdatePost(ctx context.Context, req UpdatePostRequest) (*PostView, error) {
	if req.PostID == "" {
		return nil, NewValidationError("postId", "post id is required")
	}
	if req.Text != nil && len(*req.Text) > maxTextLength {
		return nil, NewValidationError("text", fmt.Sprintf("text exceeds %d characters", maxTextLength))
	}
	if len(req.Media) > maxMediaParts {
		return nil, NewValidationError("media", fmt.Sprintf("at most %d media parts per update", maxMediaParts))
	}

	existing, err := s.repo.GetByID(ctx, req.PostID)
	if err != nil {
		return nil, err
	}
	if existing.UserID != req.UserID {
		return nil, ErrNotOwner
	}

	files, err := s.storeUploads(ctx, req.PostID, req.Media)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, req.PostID, req.Text, files, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	if err := s.events.PostUpdated(ctx, updated.ID, updated.UserID); err != nil {
		s.logger.Error("failed to publish post.updated",
			zap.String("postId", updated.ID), zap.Error(err))
	}
	return s.hydrate(ctx, updated)
}

func (s *postService) DeletePost(ctx context.Context, postID, userID string) error {
	if postID == "" {
		return NewValidationError("postId", "post id is required")
	}
	existing, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		return ErrNotOwner
	}

	if err := s.repo.Delete(ctx, postID); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	s.removeBlobs(ctx, existing)

	if err := s.events.PostDeleted(ctx, postID, userID); err != nil {
		s.logger.Error("failed to publish post.deleted",
			zap.String("postId", postID), zap.Error(err))
	}
	return nil
}

func (s *postService) HandleUserCreated(ctx context.Context, userID string) error {
	if userID == "" {
		return NewValidationError("userId", "user id is required")
	}
	if err := s.repo.AddUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to record user: %w", err)
	}
	return nil
}

func (s *postService) HandleUserDeleted(ctx context.Context, userID string) error {
	if userID == "" {
		return NewValidationError("userId", "user id is required")
	}
	deleted, err := s.repo.DeleteByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to cascade post deletion: %w", err)
	}
	for _, postID := range deleted {
		if err := s.events.PostDeleted(ctx, postID, userID); err != nil {
			s.logger.Error("failed to publish post.deleted",
				zap.String("postId", postID), zap.Error(err))
		}
	}
	if err := s.repo.RemoveUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to remove user: %w", err)
	}
	return nil
}

func (s *postService) storeUploads(ctx context.Context, postID string, uploads []Upload) ([]File, error) {
	files := make([]File, 0, len(uploads))
	for _, upload := range uploads {
		if upload.FileName == "" {
			return nil, NewValidationError("media", "media part is missing a file name")
		}
		fileID := ulid.Make().String()
		key := postID + "/" + fileID
		if err := s.blobs.Put(ctx, key, upload); err != nil {
			return nil, fmt.Errorf("failed to store media %s: %w", upload.FileName, err)
		}
		files = append(files, File{
			ID:          fileID,
			FileName:    upload.FileName,
			ContentType: upload.ContentType,
			StorageKey:  key,
		})
	}
	return files, nil
}

// removeBlobs is best effort. Orphaned objects are cheaper than a failed
// delete, so failures are logged and the post deletion stands.
func (s *postService) removeBlobs(ctx context.Context, post *Post) {
	for _, file := range post.Files {
		if err := s.blobs.Remove(ctx, file.StorageKey); err != nil {
			s.logger.Warn("failed to remove blob",
				zap.String("key", file.StorageKey), zap.Error(err))
		}
	}
}

func (s *postService) hydrate(ctx context.Context, post *Post) (*PostView, error) {
	view := &PostView{
		ID:        post.ID,
		UserID:    post.UserID,
		Text:      post.Text,
		Files:     make([]FileView, 0, len(post.Files)),
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
	for _, file := range post.Files {
		url, expiresAt, err := s.blobs.PresignedURL(ctx, file.StorageKey)
		if err != nil {
			return nil, fmt.Errorf("failed to presign %s: %w", file.StorageKey, err)
		}
		view.Files = append(view.Files, FileView{
			ID:          file.ID,
			FileName:    file.FileName,
			ContentType: file.ContentType,
			URL:         url,
			ExpiresAt:   expiresAt,
		})
	}
	return view, nil
}
