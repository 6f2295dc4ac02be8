package posts

import (
	"context"
	"time"
)

// Service defines the business logic interface for posts.
// Coordinates between Repository, the blob store, and the event publisher.
type Service interface {
	// CreatePost validates the author against the known-user collection,
	// stores the media, inserts the record, and publishes post.created.
	CreatePost(ctx context.Context, req CreatePostRequest) (*PostView, error)

	// GetPost returns one post with freshly presigned file URLs.
	GetPost(ctx context.Context, postID string) (*PostView, error)

	// GetBatchPosts returns the posts whose ids exist; missing ids are
	// silently skipped.
	GetBatchPosts(ctx context.Context, postIDs []string) ([]*PostView, error)

	// GetPaginatedPosts returns a cursor page of recent posts, newest
	// first. userID restricts the page to one author when non-empty.
	GetPaginatedPosts(ctx context.Context, userID string, perPage int, next string) (*PostPage, error)

	// UpdatePost appends media and/or replaces text. Only the owner may
	// update; appended files never replace existing entries.
	UpdatePost(ctx context.Context, req UpdatePostRequest) (*PostView, error)

	// DeletePost removes the post and publishes post.deleted. Only the
	// owner may delete.
	DeletePost(ctx context.Context, postID, userID string) error

	// HandleUserCreated records a user from a user.created event.
	HandleUserCreated(ctx context.Context, userID string) error

	// HandleUserDeleted cascades: removes the user and deletes every post
	// they authored, publishing post.deleted for each.
	HandleUserDeleted(ctx context.Context, userID string) error
}

// Repository defines the data access interface for posts.
type Repository interface {
	Create(ctx context.Context, post *Post) error
	GetByID(ctx context.Context, postID string) (*Post, error)
	GetBatch(ctx context.Context, postIDs []string) ([]*Post, error)

	// List returns up to limit posts ordered by id descending, starting
	// strictly after the cursor id when cursor is non-empty. userID
	// filters by author when non-empty.
	List(ctx context.Context, userID string, limit int, cursor string) ([]*Post, error)

	// Update replaces the text and appends files in one write, bumping
	// updated_at.
	Update(ctx context.Context, postID string, text *string, files []File, updatedAt time.Time) (*Post, error)

	Delete(ctx context.Context, postID string) error

	// DeleteByUser removes every post by the user and returns the deleted
	// ids.
	DeleteByUser(ctx context.Context, userID string) ([]string, error)

	// User existence collection, maintained from user.* events.
	UserExists(ctx context.Context, userID string) (bool, error)
	AddUser(ctx context.Context, userID string) error
	RemoveUser(ctx context.Context, userID string) error
}

// BlobStore abstracts the S3-compatible object store.
type BlobStore interface {
	Put(ctx context.Context, key string, upload Upload) error
	Remove(ctx context.Context, key string) error

	// PresignedURL returns a time-limited GET URL for the object.
	PresignedURL(ctx context.Context, key string) (string, time.Time, error)
}

// EventPublisher publishes post lifecycle events after the store is updated.
type EventPublisher interface {
	PostCreated(ctx context.Context, postID, userID string) error
	PostUpdated(ctx context.Context, postID, userID string) error
	PostDeleted(ctx context.Context, postID, userID string) error
}
