package rpc

import "time"

// FileRef is one media attachment on a post. URL is presigned by the media
// service on every read and expires at ExpiresAt.
type FileRef struct {
	ID          string    `json:"id"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	URL         string    `json:"url"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Post is the media service's view of a post. Identifiers are ULIDs.
type Post struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Text      string    `json:"text"`
	Files     []FileRef `json:"files"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Reply is a node in a post's reply tree. Replies is populated after tree
// reconstruction; over the wire the interaction service returns the tree
// already nested.
type Reply struct {
	ID             string    `json:"id"`
	PostID         string    `json:"postId"`
	ParentID       string    `json:"parentId"`
	UserID         string    `json:"userId"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"createdAt"`
	Likes          int64     `json:"likes"`
	Views          int64     `json:"views"`
	UserInteracted bool      `json:"userInteracted"`
	Replies        []*Reply  `json:"replies"`
}

// PostInteraction aggregates everything the interaction service knows about
// one post: its reply tree and its counters. UserInteracted is only
// meaningful when the request carried a viewer id.
type PostInteraction struct {
	PostID         string   `json:"postId"`
	Replies        []*Reply `json:"replies"`
	Likes          int64    `json:"likes"`
	Views          int64    `json:"views"`
	UserInteracted bool     `json:"userInteracted"`
}

// ZeroInteraction returns the documented default used when no interaction
// entry exists for a post.
func ZeroInteraction(postID string) *PostInteraction {
	return &PostInteraction{PostID: postID, Replies: []*Reply{}}
}

// UserSummary is the minimal profile record hydrated into composite views.
type UserSummary struct {
	ID              string `json:"id"`
	DisplayName     string `json:"displayName"`
	ProfileImageURL string `json:"profileImageUrl"`
}

// User is the full profile returned by the user-profile collaborator.
type User struct {
	ID              string    `json:"id"`
	DisplayName     string    `json:"displayName"`
	ProfileImageURL string    `json:"profileImageUrl"`
	Bio             string    `json:"bio"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Relationships buckets the ids a user is connected to.
type Relationships struct {
	Followers []string `json:"followers"`
	Following []string `json:"following"`
	Friends   []string `json:"friends"`
}

// UserIDs returns the union of all relationship buckets.
func (r *Relationships) UserIDs() []string {
	if r == nil {
		return nil
	}
	ids := make([]string, 0, len(r.Followers)+len(r.Following)+len(r.Friends))
	ids = append(ids, r.Followers...)
	ids = append(ids, r.Following...)
	ids = append(ids, r.Friends...)
	return ids
}

// Request/response pairs. Field names mirror the published contract.

type GetPostByIDRequest struct {
	PostID string `json:"postId"`
}

type GetPaginatedPostsRequest struct {
	// UserID restricts the page to one author when non-empty.
	UserID  string `json:"userId,omitempty"`
	PerPage uint32 `json:"perPage"`
	Next    string `json:"next,omitempty"`
}

type PaginatedPosts struct {
	Posts []*Post `json:"posts"`
	Next  string  `json:"next,omitempty"`
}

type GetBatchPostsRequest struct {
	PostIDs []string `json:"postIds"`
}

type BatchPosts struct {
	Posts []*Post `json:"posts"`
}

type GetReplyByIDRequest struct {
	ReplyID      string `json:"replyId"`
	ViewerUserID string `json:"viewerUserId,omitempty"`
}

type GetPostInteractionsRequest struct {
	PostID       string `json:"postId"`
	ViewerUserID string `json:"viewerUserId,omitempty"`
}

type GetBatchOfPostInteractionsRequest struct {
	PostIDs      []string `json:"postIds"`
	ViewerUserID string   `json:"viewerUserId,omitempty"`
}

type BatchPostInteractions struct {
	Interactions []*PostInteraction `json:"interactions"`
}

type GetUserByIDRequest struct {
	UserID string `json:"userId"`
}

type GetBatchUsersSummaryRequest struct {
	UserIDs []string `json:"userIds"`
}

type BatchUsersSummary struct {
	Users []*UserSummary `json:"users"`
}

type GetProfilePictureRequest struct {
	UserID string `json:"userId"`
}

type ProfilePicture struct {
	URL string `json:"url"`
}

type GetUserRelationshipsRequest struct {
	UserID string `json:"userId"`
}

type GetPostsRecommendationsRequest struct {
	UserID  string `json:"userId"`
	PerPage uint32 `json:"perPage"`
	Next    string `json:"next,omitempty"`
}

type PostsRecommendations struct {
	PostIDs []string `json:"postIds"`
	Next    string   `json:"next,omitempty"`
}
