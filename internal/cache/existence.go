package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"Loom/internal/core/replies"
)

// ExistenceSets fronts the durable users/posts tables with Redis sets. Reads
// hit the set first and fall back to the durable store, re-populating the
// set on a hit; writes go through to both. Composed as a thin wrapper around
// the repository interface at startup.
type ExistenceSets struct {
	rdb     *redis.Client
	durable replies.ExistenceSets
}

// NewExistenceSets wraps the durable store with the Redis membership sets.
func NewExistenceSets(rdb *redis.Client, durable replies.ExistenceSets) *ExistenceSets {
	return &ExistenceSets{rdb: rdb, durable: durable}
}

func (s *ExistenceSets) UserKnown(ctx context.Context, userID string) (bool, error) {
	return s.known(ctx, knownUsersKey, userID, func() (bool, error) {
		return s.durable.UserKnown(ctx, userID)
	})
}

func (s *ExistenceSets) AddUser(ctx context.Context, userID string) error {
	if err := s.durable.AddUser(ctx, userID); err != nil {
		return err
	}
	if err := s.rdb.SAdd(ctx, knownUsersKey, userID).Err(); err != nil {
		return fmt.Errorf("failed to add user to known set: %w", err)
	}
	return nil
}

func (s *ExistenceSets) RemoveUser(ctx context.Context, userID string) error {
	if err := s.durable.RemoveUser(ctx, userID); err != nil {
		return err
	}
	if err := s.rdb.SRem(ctx, knownUsersKey, userID).Err(); err != nil {
		return fmt.Errorf("failed to remove user from known set: %w", err)
	}
	return nil
}

func (s *ExistenceSets) PostKnown(ctx context.Context, postID string) (bool, error) {
	return s.known(ctx, createdPostsKey, postID, func() (bool, error) {
		return s.durable.PostKnown(ctx, postID)
	})
}

func (s *ExistenceSets) AddPost(ctx context.Context, postID, userID string) error {
	if err := s.durable.AddPost(ctx, postID, userID); err != nil {
		return err
	}
	if err := s.rdb.SAdd(ctx, createdPostsKey, postID).Err(); err != nil {
		return fmt.Errorf("failed to add post to created set: %w", err)
	}
	return nil
}

func (s *ExistenceSets) RemovePost(ctx context.Context, postID string) error {
	if err := s.durable.RemovePost(ctx, postID); err != nil {
		return err
	}
	if err := s.rdb.SRem(ctx, createdPostsKey, postID).Err(); err != nil {
		return fmt.Errorf("failed to remove post from created set: %w", err)
	}
	return nil
}

func (s *ExistenceSets) known(ctx context.Context, key, member string, fallback func() (bool, error)) (bool, error) {
	inSet, err := s.rdb.SIsMember(ctx, key, member).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check %s membership: %w", key, err)
	}
	if inSet {
		return true, nil
	}
	exists, err := fallback()
	if err != nil {
		return false, err
	}
	if exists {
		if err := s.rdb.SAdd(ctx, key, member).Err(); err != nil {
			return false, fmt.Errorf("failed to repopulate %s: %w", key, err)
		}
	}
	return exists, nil
}
