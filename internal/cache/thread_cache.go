package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ThreadCache is the read-through cache for composite interaction answers.
// All entries live in one hash; each field carries its own TTL so a cold
// field expires independently of its neighbors.
type ThreadCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewThreadCache creates a ThreadCache with the configured per-field TTL.
func NewThreadCache(rdb *redis.Client, ttl time.Duration) *ThreadCache {
	return &ThreadCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached payload for (postID, viewerID). The second return
// is false on a miss.
func (c *ThreadCache) Get(ctx context.Context, postID, viewerID string) ([]byte, bool, error) {
	payload, err := c.rdb.HGet(ctx, repliesHashKey, RepliesField(postID, viewerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read thread cache: %w", err)
	}
	return payload, true, nil
}

// Set stores the payload and arms the field TTL.
func (c *ThreadCache) Set(ctx context.Context, postID, viewerID string, payload []byte) error {
	field := RepliesField(postID, viewerID)
	if err := c.rdb.HSet(ctx, repliesHashKey, field, payload).Err(); err != nil {
		return fmt.Errorf("failed to write thread cache: %w", err)
	}
	if err := c.rdb.HExpire(ctx, repliesHashKey, c.ttl, field).Err(); err != nil {
		return fmt.Errorf("failed to set thread cache ttl: %w", err)
	}
	return nil
}

// InvalidatePost deletes every field whose name contains the post id, which
// covers the viewerless entry and all per-viewer entries. The scan is cursor
// paged so one invalidation never holds the server for the whole hash.
func (c *ThreadCache) InvalidatePost(ctx context.Context, postID string) error {
	pattern := RepliesFieldPattern(postID)
	var cursor uint64
	for {
		fields, next, err := c.rdb.HScan(ctx, repliesHashKey, cursor, pattern, 256).Result()
		if err != nil {
			return fmt.Errorf("failed to scan thread cache: %w", err)
		}
		// HSCAN returns field/value pairs; fields sit at even offsets.
		if len(fields) > 0 {
			names := make([]string, 0, len(fields)/2)
			for i := 0; i < len(fields); i += 2 {
				names = append(names, fields[i])
			}
			if err := c.rdb.HDel(ctx, repliesHashKey, names...).Err(); err != nil {
				return fmt.Errorf("failed to invalidate thread cache: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
