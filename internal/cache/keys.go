// Package cache holds the Redis-backed interaction counters, the composite
// reply cache, and the existence sets fed by bus events.
package cache

import "strings"

const (
	likesSuffix = ":likes"
	viewsSuffix = ":views"
	keyPrefix   = "entity:"

	// repliesHashKey is the hash holding cached composite interaction
	// answers, one field per (viewer, post) pair.
	repliesHashKey = "user-interaction:replies"

	knownUsersKey   = "user-interaction:users"
	createdPostsKey = "user-interaction:posts"
)

// LikesKey returns the like-set key for a resource: entity:{id}:likes.
func LikesKey(resourceID string) string {
	return keyPrefix + resourceID + likesSuffix
}

// ViewsKey returns the HyperLogLog key for a resource: entity:{id}:views.
func ViewsKey(resourceID string) string {
	return keyPrefix + resourceID + viewsSuffix
}

// ResourceID recovers the resource id from a likes or views key.
func ResourceID(key string) string {
	key = strings.TrimPrefix(key, keyPrefix)
	key = strings.TrimSuffix(key, likesSuffix)
	key = strings.TrimSuffix(key, viewsSuffix)
	return key
}

// RepliesField names the hash field for a cached answer: {userId}-{postId}
// when a viewer is present, {postId} otherwise.
func RepliesField(postID, viewerID string) string {
	if viewerID == "" {
		return postID
	}
	return viewerID + "-" + postID
}

// RepliesFieldPattern is the wildcard matching every per-viewer field for a
// post, used by invalidation.
func RepliesFieldPattern(postID string) string {
	return "*" + postID + "*"
}
