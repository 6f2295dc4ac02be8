package replies

import (
	"sort"
	"strings"
	"time"
)

// PathSeparator joins id segments in a materialized path.
const PathSeparator = "/"

// Reply is one node in a post's reply tree.
//
// Path is the materialized path: the root post id, then every ancestor reply
// id in order, then this reply's own id, joined by PathSeparator. The path of
// any ancestor is a proper prefix of this path, which is what makes subtree
// reads and deletes single prefix scans.
type Reply struct {
	ID        string    `json:"id" db:"id"`
	RootID    string    `json:"postId" db:"root_id"`
	ParentID  string    `json:"parentId" db:"reply_to_id"`
	UserID    string    `json:"userId" db:"user_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	Path      string    `json:"-" db:"path"`
}

// ChildPath computes the path for a child of parentPath.
func ChildPath(parentPath, childID string) string {
	return parentPath + PathSeparator + childID
}

// PathPrefix returns the LIKE prefix matching path itself plus all
// descendants.
func PathPrefix(path string) string {
	return path + PathSeparator
}

// Node is a reply with its children attached, in creation order.
type Node struct {
	Reply    *Reply
	Children []*Node
}

// BuildTree nests a flat reply list. Grouping is by ParentID; a reply whose
// parent is absent from the input set becomes a top-level node, so a subtree
// fetched mid-tree still roots correctly. O(n) over the input plus sorting
// siblings by creation order.
func BuildTree(flat []*Reply) []*Node {
	if len(flat) == 0 {
		return []*Node{}
	}

	nodes := make(map[string]*Node, len(flat))
	for _, r := range flat {
		nodes[r.ID] = &Node{Reply: r}
	}

	var roots []*Node
	for _, r := range flat {
		node := nodes[r.ID]
		if parent, ok := nodes[r.ParentID]; ok {
			parent.Children = append(parent.Children, node)
		} else {
			roots = append(roots, node)
		}
	}

	sortSiblings(roots)
	for _, node := range nodes {
		sortSiblings(node.Children)
	}
	return roots
}

func sortSiblings(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].Reply.CreatedAt.Before(nodes[j].Reply.CreatedAt)
	})
}

// Walk visits every node in the forest depth-first.
func Walk(roots []*Node, visit func(*Node)) {
	for _, node := range roots {
		visit(node)
		Walk(node.Children, visit)
	}
}

// CollectIDs returns the ids of every reply in the flat list.
func CollectIDs(flat []*Reply) []string {
	ids := make([]string, len(flat))
	for i, r := range flat {
		ids[i] = r.ID
	}
	return ids
}

// Depth returns the nesting level encoded in the path: 1 for a top-level
// reply.
func Depth(path string) int {
	return strings.Count(path, PathSeparator)
}
