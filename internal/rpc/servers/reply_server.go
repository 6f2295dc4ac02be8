package servers

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"Loom/internal/core/replies"
	"Loom/internal/rpc"
)

// ReplyServer serves reply_server.ReplyService over the interaction core
// service, mapping domain errors to status codes.
type ReplyServer struct {
	service rpc.ReplyServiceServer
}

// NewReplyServer wraps the interaction read service.
func NewReplyServer(service rpc.ReplyServiceServer) *ReplyServer {
	return &ReplyServer{service: service}
}

var _ rpc.ReplyServiceServer = (*ReplyServer)(nil)

func (s *ReplyServer) GetReplyByID(ctx context.Context, req *rpc.GetReplyByIDRequest) (*rpc.Reply, error) {
	if req.ReplyID == "" {
		return nil, status.Error(codes.InvalidArgument, "replyId is required")
	}
	reply, err := s.service.GetReplyByID(ctx, req)
	if err != nil {
		return nil, mapReplyError(err)
	}
	return reply, nil
}

func (s *ReplyServer) GetPostInteractions(ctx context.Context, req *rpc.GetPostInteractionsRequest) (*rpc.PostInteraction, error) {
	if req.PostID == "" {
		return nil, status.Error(codes.InvalidArgument, "postId is required")
	}
	inter, err := s.service.GetPostInteractions(ctx, req)
	if err != nil {
		return nil, mapReplyError(err)
	}
	return inter, nil
}

func (s *ReplyServer) GetBatchOfPostInteractions(ctx context.Context, req *rpc.GetBatchOfPostInteractionsRequest) (*rpc.BatchPostInteractions, error) {
	batch, err := s.service.GetBatchOfPostInteractions(ctx, req)
	if err != nil {
		return nil, mapReplyError(err)
	}
	return batch, nil
}

func mapReplyError(err error) error {
	switch {
	case replies.IsNotFound(err):
		return status.Error(codes.NotFound, "reply not found")
	case replies.IsValidationError(err):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
