package rpc

import (
	"context"

	"google.golang.org/grpc"
)

const replyServiceName = "reply_server.ReplyService"

// ReplyServiceServer is implemented by the user-interaction service.
type ReplyServiceServer interface {
	GetReplyByID(ctx context.Context, req *GetReplyByIDRequest) (*Reply, error)
	GetPostInteractions(ctx context.Context, req *GetPostInteractionsRequest) (*PostInteraction, error)
	GetBatchOfPostInteractions(ctx context.Context, req *GetBatchOfPostInteractionsRequest) (*BatchPostInteractions, error)
}

// ReplyServiceClient is the typed client used by the aggregator.
type ReplyServiceClient interface {
	GetReplyByID(ctx context.Context, req *GetReplyByIDRequest) (*Reply, error)
	GetPostInteractions(ctx context.Context, req *GetPostInteractionsRequest) (*PostInteraction, error)
	GetBatchOfPostInteractions(ctx context.Context, req *GetBatchOfPostInteractionsRequest) (*BatchPostInteractions, error)
}

type replyServiceClient struct {
	cc *grpc.ClientConn
}

// NewReplyServiceClient wraps a connection to the user-interaction service.
func NewReplyServiceClient(cc *grpc.ClientConn) ReplyServiceClient {
	return &replyServiceClient{cc: cc}
}

func (c *replyServiceClient) GetReplyByID(ctx context.Context, req *GetReplyByIDRequest) (*Reply, error) {
	out := new(Reply)
	if err := c.cc.Invoke(ctx, "/"+replyServiceName+"/GetReplyById", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *replyServiceClient) GetPostInteractions(ctx context.Context, req *GetPostInteractionsRequest) (*PostInteraction, error) {
	out := new(PostInteraction)
	if err := c.cc.Invoke(ctx, "/"+replyServiceName+"/GetPostInteractions", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *replyServiceClient) GetBatchOfPostInteractions(ctx context.Context, req *GetBatchOfPostInteractionsRequest) (*BatchPostInteractions, error) {
	out := new(BatchPostInteractions)
	if err := c.cc.Invoke(ctx, "/"+replyServiceName+"/GetBatchOfPostInteractions", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// RegisterReplyServiceServer registers srv on s under the published service
// name.
func RegisterReplyServiceServer(s *grpc.Server, srv ReplyServiceServer) {
	s.RegisterService(&replyServiceDesc, srv)
}

var replyServiceDesc = grpc.ServiceDesc{
	ServiceName: replyServiceName,
	HandlerType: (*ReplyServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetReplyById", Handler: replyGetReplyByIDHandler},
		{MethodName: "GetPostInteractions", Handler: replyGetPostInteractionsHandler},
		{MethodName: "GetBatchOfPostInteractions", Handler: replyGetBatchHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "internal/rpc/reply_service.go",
}

func replyGetReplyByIDHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetReplyByIDRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ReplyServiceServer).GetReplyByID(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + replyServiceName + "/GetReplyById"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ReplyServiceServer).GetReplyByID(ctx, req.(*GetReplyByIDRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func replyGetPostInteractionsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetPostInteractionsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ReplyServiceServer).GetPostInteractions(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + replyServiceName + "/GetPostInteractions"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ReplyServiceServer).GetPostInteractions(ctx, req.(*GetPostInteractionsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func replyGetBatchHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetBatchOfPostInteractionsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ReplyServiceServer).GetBatchOfPostInteractions(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + replyServiceName + "/GetBatchOfPostInteractions"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ReplyServiceServer).GetBatchOfPostInteractions(ctx, req.(*GetBatchOfPostInteractionsRequest))
	}
	return interceptor(ctx, in, info, handler)
}
