// Package composer is the aggregator's read-side composition engine. Each
// endpoint fans out to the downstream services, absorbs non-critical
// failures into isStale markers, and merges the results into one document.
package composer

import (
	"time"

	"Loom/internal/rpc"
)

// ComposedReply is a reply with its author summary resolved. Author points
// into the request's summary arena, so replies by the same user share one
// record.
type ComposedReply struct {
	ID             string           `json:"id"`
	PostID         string           `json:"postId"`
	ParentID       string           `json:"parentId"`
	Content        string           `json:"content"`
	CreatedAt      time.Time        `json:"createdAt"`
	Likes          int64            `json:"likes"`
	Views          int64            `json:"views"`
	UserInteracted bool             `json:"userInteracted"`
	User           *rpc.UserSummary `json:"user"`
	Replies        []*ComposedReply `json:"replies"`
}

// ComposedPost joins a post with its interactions and its author summary.
type ComposedPost struct {
	ID             string           `json:"id"`
	Text           string           `json:"text"`
	Files          []rpc.FileRef    `json:"files"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
	Likes          int64            `json:"likes"`
	Views          int64            `json:"views"`
	UserInteracted bool             `json:"userInteracted"`
	User           *rpc.UserSummary `json:"user"`
	Replies        []*ComposedReply `json:"replies"`
}

// PaginatedPostView is one page of composed posts. IsStale is true when a
// non-critical leg failed while assembling the page.
type PaginatedPostView struct {
	Posts   []*ComposedPost `json:"posts"`
	Next    string          `json:"next,omitempty"`
	IsStale bool            `json:"isStale"`
}

// PostDocument is a single composed post with its own staleness marker.
type PostDocument struct {
	*ComposedPost
	IsStale bool `json:"isStale"`
}

// RelationshipsView resolves each relationship bucket to user summaries.
type RelationshipsView struct {
	Followers []*rpc.UserSummary `json:"followers"`
	Following []*rpc.UserSummary `json:"following"`
	Friends   []*rpc.UserSummary `json:"friends"`
	IsStale   bool               `json:"isStale"`
}

// UserView is the composed profile document: the user, their recent posts,
// and their relationships, each section with its own staleness marker.
type UserView struct {
	User          *rpc.User          `json:"user"`
	Posts         *PaginatedPostView `json:"posts"`
	Relationships *RelationshipsView `json:"relationships"`
}
