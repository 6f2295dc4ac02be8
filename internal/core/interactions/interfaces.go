package interactions

import (
	"context"

	"Loom/internal/core/replies"
)

// ReplySource is the slice of the reply service the read surface consumes.
// replies.Service satisfies it.
type ReplySource interface {
	GetAllByPost(ctx context.Context, postID string) ([]*replies.Reply, error)
	GetAllByPosts(ctx context.Context, postIDs []string) (map[string][]*replies.Reply, error)
	GetSubtree(ctx context.Context, replyID string) ([]*replies.Reply, error)
}

// Counters is the slice of the interaction store the read surface and the
// HTTP write surface need.
type Counters interface {
	Like(ctx context.Context, resourceID, userID string) (bool, error)
	Unlike(ctx context.Context, resourceID, userID string) (bool, error)
	IsLiked(ctx context.Context, resourceID, userID string) (bool, error)
	LikeCount(ctx context.Context, resourceID string) (int64, error)
	IsManyLiked(ctx context.Context, viewerID string, resourceIDs []string) (map[string]bool, error)
	GetManyLikes(ctx context.Context, resourceIDs []string) (map[string]int64, error)
	View(ctx context.Context, resourceID, userID string) (bool, error)
	ViewCount(ctx context.Context, resourceID string) (int64, error)
	GetManyViews(ctx context.Context, resourceIDs []string) (map[string]int64, error)
}

// AnswerCache caches serialized composite answers per (post, viewer) pair.
type AnswerCache interface {
	Get(ctx context.Context, postID, viewerID string) ([]byte, bool, error)
	Set(ctx context.Context, postID, viewerID string, payload []byte) error
}

// Existence gates interaction writes on the known-user and created-post
// sets.
type Existence interface {
	UserKnown(ctx context.Context, userID string) (bool, error)
	PostKnown(ctx context.Context, postID string) (bool, error)
}
