package posts

import (
	"io"
	"time"
)

// Post is the authoritative record for a post and its media attachments.
// IDs are ULIDs, so lexicographic order matches creation order.
type Post struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"userId" bson:"user_id"`
	Text      string    `json:"text" bson:"text"`
	Files     []File    `json:"files" bson:"files"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`
}

// File is one stored media object attached to a post. The storage key is
// internal; clients only ever see presigned URLs computed at read time.
type File struct {
	ID          string `json:"id" bson:"_id"`
	FileName    string `json:"fileName" bson:"file_name"`
	ContentType string `json:"contentType" bson:"content_type"`
	StorageKey  string `json:"-" bson:"storage_key"`
}

// FileView is a File with a presigned access URL attached.
type FileView struct {
	ID          string    `json:"id"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	URL         string    `json:"url"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// PostView is a Post hydrated with presigned file URLs, the shape returned
// over both HTTP and gRPC.
type PostView struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Text      string     `json:"text"`
	Files     []FileView `json:"files"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Upload is one incoming multipart media part.
type Upload struct {
	FileName    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// CreatePostRequest is the input for creating a post.
type CreatePostRequest struct {
	UserID string
	Text   string
	Media  []Upload
}

// UpdatePostRequest appends media and/or replaces the text body. Existing
// file entries are never mutated in place.
type UpdatePostRequest struct {
	PostID string
	UserID string
	Text   *string
	Media  []Upload
}

// PostPage is one cursor page of hydrated posts. Next is empty on the last
// page.
type PostPage struct {
	Posts []*PostView `json:"posts"`
	Next  string      `json:"next,omitempty"`
}
