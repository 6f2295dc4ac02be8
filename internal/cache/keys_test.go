package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResourceKeys(t *testing.T) {
	assert.Equal(t, "entity:p1:likes", LikesKey("p1"))
	assert.Equal(t, "entity:p1:views", ViewsKey("p1"))
}

func TestResourceIDRoundTrip(t *testing.T) {
	ids := []string{"p1", "01JABCDEFGHJKMNPQRSTVWXYZ0", "r-weird"}
	for _, id := range ids {
		assert.Equal(t, id, ResourceID(LikesKey(id)))
		assert.Equal(t, id, ResourceID(ViewsKey(id)))
	}
}

func TestRepliesField(t *testing.T) {
	assert.Equal(t, "p1", RepliesField("p1", ""))
	assert.Equal(t, "u1-p1", RepliesField("p1", "u1"))
}

func TestRepliesFieldPatternMatchesViewerVariants(t *testing.T) {
	// Invariant: every field whose name contains the post id matches the
	// invalidation pattern.
	assert.Equal(t, "*p1*", RepliesFieldPattern("p1"))
}
