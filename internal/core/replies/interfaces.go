package replies

import "context"

// Service defines the business logic interface for reply threads.
type Service interface {
	// Create inserts a reply under parentID. A parent equal to postID
	// creates a top-level reply; otherwise the parent must already exist
	// under the same post.
	Create(ctx context.Context, postID, parentID, userID, content string) (*Reply, error)

	// Update replaces the content. Only the author may update.
	Update(ctx context.Context, replyID, userID, content string) (*Reply, error)

	// Delete removes the reply and its whole subtree, along with the
	// interaction state of every removed reply. Only the author may
	// delete.
	Delete(ctx context.Context, replyID, userID string) error

	GetByID(ctx context.Context, replyID string) (*Reply, error)

	// GetAllByPost returns the post's replies flat, in creation order.
	GetAllByPost(ctx context.Context, postID string) ([]*Reply, error)

	// GetAllByPosts buckets replies by root post id. Posts without
	// replies are absent from the map.
	GetAllByPosts(ctx context.Context, postIDs []string) (map[string][]*Reply, error)

	// GetSubtree returns the reply plus all its descendants, flat.
	GetSubtree(ctx context.Context, replyID string) ([]*Reply, error)

	// DeleteByUser removes every reply authored by the user and their
	// interaction state, returning the deleted ids. Driven by
	// user.deleted events.
	DeleteByUser(ctx context.Context, userID string) ([]string, error)

	// DeleteByPost removes every reply under the post. Driven by
	// post.deleted events.
	DeleteByPost(ctx context.Context, postID string) error

	// HandleUserCreated and HandlePostCreated maintain the existence
	// sets from bus events. HandlePostCreated drops posts whose author
	// is not yet known.
	HandleUserCreated(ctx context.Context, userID string) error
	HandleUserDeleted(ctx context.Context, userID string) error
	HandlePostCreated(ctx context.Context, postID, userID string) error
	HandlePostDeleted(ctx context.Context, postID string) error
}

// Repository defines the data access interface for the reply table.
type Repository interface {
	Create(ctx context.Context, reply *Reply) error
	GetByID(ctx context.Context, replyID string) (*Reply, error)
	Update(ctx context.Context, replyID, content string) (*Reply, error)

	GetAllByPost(ctx context.Context, postID string) ([]*Reply, error)
	GetAllByPosts(ctx context.Context, postIDs []string) (map[string][]*Reply, error)

	// GetSubtree returns the replies whose path has the target's path as
	// prefix, the target included, ordered by creation time.
	GetSubtree(ctx context.Context, replyID string) ([]*Reply, error)

	// DeleteSubtree removes the reply and all descendants in one
	// transaction and returns the deleted ids.
	DeleteSubtree(ctx context.Context, replyID string) ([]string, error)

	DeleteByUser(ctx context.Context, userID string) ([]string, error)
	DeleteByPost(ctx context.Context, postID string) ([]string, error)
}

// ExistenceSets is the known-user and created-post membership state kept in
// the cache layer and fed by bus events.
type ExistenceSets interface {
	UserKnown(ctx context.Context, userID string) (bool, error)
	AddUser(ctx context.Context, userID string) error
	RemoveUser(ctx context.Context, userID string) error

	PostKnown(ctx context.Context, postID string) (bool, error)
	AddPost(ctx context.Context, postID, userID string) error
	RemovePost(ctx context.Context, postID string) error
}

// InteractionPurger destroys like/view state for deleted resources.
type InteractionPurger interface {
	DeleteInteractions(ctx context.Context, resourceID string) error
	DeleteManyInteractions(ctx context.Context, resourceIDs []string) error
}

// ThreadCacheInvalidator clears cached composite answers for a post.
type ThreadCacheInvalidator interface {
	InvalidatePost(ctx context.Context, postID string) error
}

// EventPublisher publishes reply lifecycle events after the transaction
// commits.
type EventPublisher interface {
	ReplyCreated(ctx context.Context, replyID, postID, userID string) error
	ReplyUpdated(ctx context.Context, replyID, postID, userID string) error
	ReplyDeleted(ctx context.Context, replyID, postID, userID string) error
}
