// Package servers adapts the core services onto the published gRPC
// contracts, translating domain errors into status codes.
package servers

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"Loom/internal/core/posts"
	"Loom/internal/rpc"
)

// PostServer serves post_server.PostService over the media core service.
type PostServer struct {
	service posts.Service
}

// NewPostServer creates the gRPC adapter.
func NewPostServer(service posts.Service) *PostServer {
	return &PostServer{service: service}
}

var _ rpc.PostServiceServer = (*PostServer)(nil)

func (s *PostServer) GetPostByID(ctx context.Context, req *rpc.GetPostByIDRequest) (*rpc.Post, error) {
	if req.PostID == "" {
		return nil, status.Error(codes.InvalidArgument, "postId is required")
	}
	view, err := s.service.GetPost(ctx, req.PostID)
	if err != nil {
		return nil, mapPostError(err)
	}
	return toWirePost(view), nil
}

func (s *PostServer) GetPaginatedPosts(ctx context.Context, req *rpc.GetPaginatedPostsRequest) (*rpc.PaginatedPosts, error) {
	page, err := s.service.GetPaginatedPosts(ctx, req.UserID, int(req.PerPage), req.Next)
	if err != nil {
		return nil, mapPostError(err)
	}
	out := &rpc.PaginatedPosts{Posts: make([]*rpc.Post, 0, len(page.Posts)), Next: page.Next}
	for _, view := range page.Posts {
		out.Posts = append(out.Posts, toWirePost(view))
	}
	return out, nil
}

func (s *PostServer) GetBatchPosts(ctx context.Context, req *rpc.GetBatchPostsRequest) (*rpc.BatchPosts, error) {
	views, err := s.service.GetBatchPosts(ctx, req.PostIDs)
	if err != nil {
		return nil, mapPostError(err)
	}
	out := &rpc.BatchPosts{Posts: make([]*rpc.Post, 0, len(views))}
	for _, view := range views {
		out.Posts = append(out.Posts, toWirePost(view))
	}
	return out, nil
}

func toWirePost(view *posts.PostView) *rpc.Post {
	files := make([]rpc.FileRef, 0, len(view.Files))
	for _, f := range view.Files {
		files = append(files, rpc.FileRef{
			ID:          f.ID,
			FileName:    f.FileName,
			ContentType: f.ContentType,
			URL:         f.URL,
			ExpiresAt:   f.ExpiresAt,
		})
	}
	return &rpc.Post{
		ID:        view.ID,
		UserID:    view.UserID,
		Text:      view.Text,
		Files:     files,
		CreatedAt: view.CreatedAt,
		UpdatedAt: view.UpdatedAt,
	}
}

func mapPostError(err error) error {
	switch {
	case posts.IsNotFound(err):
		return status.Error(codes.NotFound, "post not found")
	case posts.IsValidationError(err):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
