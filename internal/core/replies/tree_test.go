package replies

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func replyAt(id, rootID, parentID, path string, offset time.Duration) *Reply {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &Reply{
		ID:        id,
		RootID:    rootID,
		ParentID:  parentID,
		Path:      path,
		CreatedAt: base.Add(offset),
	}
}

func TestBuildTreeNestsByParent(t *testing.T) {
	flat := []*Reply{
		replyAt("r1", "p", "p", "p/r1", 0),
		replyAt("r2", "p", "r1", "p/r1/r2", time.Minute),
		replyAt("r3", "p", "r1", "p/r1/r3", 2*time.Minute),
		replyAt("r4", "p", "p", "p/r4", 3*time.Minute),
	}

	roots := BuildTree(flat)
	require.Len(t, roots, 2)
	assert.Equal(t, "r1", roots[0].Reply.ID)
	assert.Equal(t, "r4", roots[1].Reply.ID)

	require.Len(t, roots[0].Children, 2)
	assert.Equal(t, "r2", roots[0].Children[0].Reply.ID)
	assert.Equal(t, "r3", roots[0].Children[1].Reply.ID)
	assert.Empty(t, roots[1].Children)
}

func TestBuildTreeOrphanBecomesTopLevel(t *testing.T) {
	// A subtree fetch returns r2 and r3 without their ancestor r1; r2 must
	// root the result.
	flat := []*Reply{
		replyAt("r2", "p", "r1", "p/r1/r2", 0),
		replyAt("r3", "p", "r2", "p/r1/r2/r3", time.Minute),
	}

	roots := BuildTree(flat)
	require.Len(t, roots, 1)
	assert.Equal(t, "r2", roots[0].Reply.ID)
	require.Len(t, roots[0].Children, 1)
	assert.Equal(t, "r3", roots[0].Children[0].Reply.ID)
}

func TestBuildTreeSiblingsInCreationOrder(t *testing.T) {
	flat := []*Reply{
		replyAt("rB", "p", "p", "p/rB", 2*time.Minute),
		replyAt("rA", "p", "p", "p/rA", 0),
		replyAt("rC", "p", "p", "p/rC", time.Minute),
	}

	roots := BuildTree(flat)
	require.Len(t, roots, 3)
	assert.Equal(t, "rA", roots[0].Reply.ID)
	assert.Equal(t, "rC", roots[1].Reply.ID)
	assert.Equal(t, "rB", roots[2].Reply.ID)
}

func TestBuildTreeEmpty(t *testing.T) {
	assert.Empty(t, BuildTree(nil))
}

func TestWalkVisitsEveryNode(t *testing.T) {
	flat := []*Reply{
		replyAt("r1", "p", "p", "p/r1", 0),
		replyAt("r2", "p", "r1", "p/r1/r2", time.Minute),
		replyAt("r3", "p", "r2", "p/r1/r2/r3", 2*time.Minute),
	}

	var visited []string
	Walk(BuildTree(flat), func(n *Node) {
		visited = append(visited, n.Reply.ID)
	})
	assert.Equal(t, []string{"r1", "r2", "r3"}, visited)
}

func TestPathHelpers(t *testing.T) {
	path := ChildPath("p", "r1")
	assert.Equal(t, "p/r1", path)
	assert.Equal(t, "p/r1/r2", ChildPath(path, "r2"))
	assert.Equal(t, "p/r1/", PathPrefix(path))

	assert.Equal(t, 1, Depth("p/r1"))
	assert.Equal(t, 3, Depth("p/r1/r2/r3"))
}
