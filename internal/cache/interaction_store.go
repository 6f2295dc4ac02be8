package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// InteractionStore keeps per-resource like sets and view HyperLogLogs. All
// operations are idempotent at the set/HLL level, so event redelivery and
// concurrent requests need no locking.
type InteractionStore struct {
	rdb *redis.Client
}

// NewInteractionStore creates an InteractionStore over the shared client.
func NewInteractionStore(rdb *redis.Client) *InteractionStore {
	return &InteractionStore{rdb: rdb}
}

// Like adds the user to the resource's like set. Returns true when the user
// was newly added.
func (s *InteractionStore) Like(ctx context.Context, resourceID, userID string) (bool, error) {
	added, err := s.rdb.SAdd(ctx, LikesKey(resourceID), userID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to add like: %w", err)
	}
	return added > 0, nil
}

// Unlike removes the user from the resource's like set. Returns true when
// the user was present.
func (s *InteractionStore) Unlike(ctx context.Context, resourceID, userID string) (bool, error) {
	removed, err := s.rdb.SRem(ctx, LikesKey(resourceID), userID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to remove like: %w", err)
	}
	return removed > 0, nil
}

// IsLiked reports whether the user has liked the resource.
func (s *InteractionStore) IsLiked(ctx context.Context, resourceID, userID string) (bool, error) {
	liked, err := s.rdb.SIsMember(ctx, LikesKey(resourceID), userID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check like: %w", err)
	}
	return liked, nil
}

// LikeCount returns the cardinality of the resource's like set.
func (s *InteractionStore) LikeCount(ctx context.Context, resourceID string) (int64, error) {
	count, err := s.rdb.SCard(ctx, LikesKey(resourceID)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}
	return count, nil
}

// IsManyLiked pipelines a membership check per resource for one viewer. The
// returned map is keyed by resource id. Empty input returns an empty map
// without touching the store.
func (s *InteractionStore) IsManyLiked(ctx context.Context, viewerID string, resourceIDs []string) (map[string]bool, error) {
	result := make(map[string]bool, len(resourceIDs))
	if len(resourceIDs) == 0 {
		return result, nil
	}

	pipe := s.rdb.Pipeline()
	cmds := make(map[string]*redis.BoolCmd, len(resourceIDs))
	for _, id := range resourceIDs {
		cmds[id] = pipe.SIsMember(ctx, LikesKey(id), viewerID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to check likes batch: %w", err)
	}
	for id, cmd := range cmds {
		result[id] = cmd.Val()
	}
	return result, nil
}

// GetManyLikes pipelines like counts for many resources, keyed by resource
// id.
func (s *InteractionStore) GetManyLikes(ctx context.Context, resourceIDs []string) (map[string]int64, error) {
	result := make(map[string]int64, len(resourceIDs))
	if len(resourceIDs) == 0 {
		return result, nil
	}

	pipe := s.rdb.Pipeline()
	cmds := make(map[string]*redis.IntCmd, len(resourceIDs))
	for _, id := range resourceIDs {
		cmds[id] = pipe.SCard(ctx, LikesKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to count likes batch: %w", err)
	}
	for id, cmd := range cmds {
		result[id] = cmd.Val()
	}
	return result, nil
}

// View records a distinct viewer. Returns true when the estimate grew.
// Views are additive only.
func (s *InteractionStore) View(ctx context.Context, resourceID, userID string) (bool, error) {
	changed, err := s.rdb.PFAdd(ctx, ViewsKey(resourceID), userID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to add view: %w", err)
	}
	return changed > 0, nil
}

// ViewCount returns the approximate distinct viewer count.
func (s *InteractionStore) ViewCount(ctx context.Context, resourceID string) (int64, error) {
	count, err := s.rdb.PFCount(ctx, ViewsKey(resourceID)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count views: %w", err)
	}
	return count, nil
}

// GetManyViews pipelines view estimates for many resources, keyed by
// resource id.
func (s *InteractionStore) GetManyViews(ctx context.Context, resourceIDs []string) (map[string]int64, error) {
	result := make(map[string]int64, len(resourceIDs))
	if len(resourceIDs) == 0 {
		return result, nil
	}

	pipe := s.rdb.Pipeline()
	cmds := make(map[string]*redis.IntCmd, len(resourceIDs))
	for _, id := range resourceIDs {
		cmds[id] = pipe.PFCount(ctx, ViewsKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to count views batch: %w", err)
	}
	for id, cmd := range cmds {
		result[id] = cmd.Val()
	}
	return result, nil
}

// DeleteInteractions destroys the like set and view counter for a resource
// in one batch.
func (s *InteractionStore) DeleteInteractions(ctx context.Context, resourceID string) error {
	if err := s.rdb.Del(ctx, LikesKey(resourceID), ViewsKey(resourceID)).Err(); err != nil {
		return fmt.Errorf("failed to delete interactions for %s: %w", resourceID, err)
	}
	return nil
}

// DeleteManyInteractions pipelines interaction deletion for many resources.
func (s *InteractionStore) DeleteManyInteractions(ctx context.Context, resourceIDs []string) error {
	if len(resourceIDs) == 0 {
		return nil
	}
	pipe := s.rdb.Pipeline()
	for _, id := range resourceIDs {
		pipe.Del(ctx, LikesKey(id), ViewsKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete interactions batch: %w", err)
	}
	return nil
}
