package rpc

import (
	"context"

	"google.golang.org/grpc"
)

const postServiceName = "post_server.PostService"

// PostServiceServer is implemented by the media service.
type PostServiceServer interface {
	GetPostByID(ctx context.Context, req *GetPostByIDRequest) (*Post, error)
	GetPaginatedPosts(ctx context.Context, req *GetPaginatedPostsRequest) (*PaginatedPosts, error)
	GetBatchPosts(ctx context.Context, req *GetBatchPostsRequest) (*BatchPosts, error)
}

// PostServiceClient is the typed client used by the aggregator.
type PostServiceClient interface {
	GetPostByID(ctx context.Context, req *GetPostByIDRequest) (*Post, error)
	GetPaginatedPosts(ctx context.Context, req *GetPaginatedPostsRequest) (*PaginatedPosts, error)
	GetBatchPosts(ctx context.Context, req *GetBatchPostsRequest) (*BatchPosts, error)
}

type postServiceClient struct {
	cc *grpc.ClientConn
}

// NewPostServiceClient wraps a connection to the media service.
func NewPostServiceClient(cc *grpc.ClientConn) PostServiceClient {
	return &postServiceClient{cc: cc}
}

func (c *postServiceClient) GetPostByID(ctx context.Context, req *GetPostByIDRequest) (*Post, error) {
	out := new(Post)
	if err := c.cc.Invoke(ctx, "/"+postServiceName+"/GetPostById", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *postServiceClient) GetPaginatedPosts(ctx context.Context, req *GetPaginatedPostsRequest) (*PaginatedPosts, error) {
	out := new(PaginatedPosts)
	if err := c.cc.Invoke(ctx, "/"+postServiceName+"/GetPaginatedPosts", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *postServiceClient) GetBatchPosts(ctx context.Context, req *GetBatchPostsRequest) (*BatchPosts, error) {
	out := new(BatchPosts)
	if err := c.cc.Invoke(ctx, "/"+postServiceName+"/GetBatchPosts", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// RegisterPostServiceServer registers srv on s under the published service
// name.
func RegisterPostServiceServer(s *grpc.Server, srv PostServiceServer) {
	s.RegisterService(&postServiceDesc, srv)
}

var postServiceDesc = grpc.ServiceDesc{
	ServiceName: postServiceName,
	HandlerType: (*PostServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetPostById", Handler: postGetPostByIDHandler},
		{MethodName: "GetPaginatedPosts", Handler: postGetPaginatedPostsHandler},
		{MethodName: "GetBatchPosts", Handler: postGetBatchPostsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "internal/rpc/post_service.go",
}

func postGetPostByIDHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetPostByIDRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PostServiceServer).GetPostByID(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + postServiceName + "/GetPostById"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PostServiceServer).GetPostByID(ctx, req.(*GetPostByIDRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func postGetPaginatedPostsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetPaginatedPostsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PostServiceServer).GetPaginatedPosts(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + postServiceName + "/GetPaginatedPosts"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PostServiceServer).GetPaginatedPosts(ctx, req.(*GetPaginatedPostsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func postGetBatchPostsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetBatchPostsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PostServiceServer).GetBatchPosts(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + postServiceName + "/GetBatchPosts"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PostServiceServer).GetBatchPosts(ctx, req.(*GetBatchPostsRequest))
	}
	return interceptor(ctx, in, info, handler)
}
