package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// Clients for the three external collaborators. Only the aggregator consumes
// these, so no server descriptors live here.

const (
	userProfileServiceName  = "user_profile_service.UserProfileService"
	relationshipServiceName = "relationship_service.RelationshipService"
	feedServiceName         = "feed_service.FeedService"
)

// UserProfileServiceClient reads profiles from the user-profile collaborator.
type UserProfileServiceClient interface {
	GetUserByID(ctx context.Context, req *GetUserByIDRequest) (*User, error)
	GetBatchUsersSummaryByIDs(ctx context.Context, req *GetBatchUsersSummaryRequest) (*BatchUsersSummary, error)
	GetProfilePicture(ctx context.Context, req *GetProfilePictureRequest) (*ProfilePicture, error)
}

type userProfileServiceClient struct {
	cc *grpc.ClientConn
}

// NewUserProfileServiceClient wraps a connection to the user-profile service.
func NewUserProfileServiceClient(cc *grpc.ClientConn) UserProfileServiceClient {
	return &userProfileServiceClient{cc: cc}
}

func (c *userProfileServiceClient) GetUserByID(ctx context.Context, req *GetUserByIDRequest) (*User, error) {
	out := new(User)
	if err := c.cc.Invoke(ctx, "/"+userProfileServiceName+"/GetUserById", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *userProfileServiceClient) GetBatchUsersSummaryByIDs(ctx context.Context, req *GetBatchUsersSummaryRequest) (*BatchUsersSummary, error) {
	out := new(BatchUsersSummary)
	if err := c.cc.Invoke(ctx, "/"+userProfileServiceName+"/GetBatchUsersSummaryByIds", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *userProfileServiceClient) GetProfilePicture(ctx context.Context, req *GetProfilePictureRequest) (*ProfilePicture, error) {
	out := new(ProfilePicture)
	if err := c.cc.Invoke(ctx, "/"+userProfileServiceName+"/GetProfilePicture", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// RelationshipServiceClient reads the social graph.
type RelationshipServiceClient interface {
	GetUserRelationships(ctx context.Context, req *GetUserRelationshipsRequest) (*Relationships, error)
}

type relationshipServiceClient struct {
	cc *grpc.ClientConn
}

// NewRelationshipServiceClient wraps a connection to the relationship
// service.
func NewRelationshipServiceClient(cc *grpc.ClientConn) RelationshipServiceClient {
	return &relationshipServiceClient{cc: cc}
}

func (c *relationshipServiceClient) GetUserRelationships(ctx context.Context, req *GetUserRelationshipsRequest) (*Relationships, error) {
	out := new(Relationships)
	if err := c.cc.Invoke(ctx, "/"+relationshipServiceName+"/GetUserRelationships", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// FeedServiceClient reads ranked post recommendations.
type FeedServiceClient interface {
	GetPostsRecommendations(ctx context.Context, req *GetPostsRecommendationsRequest) (*PostsRecommendations, error)
}

type feedServiceClient struct {
	cc *grpc.ClientConn
}

// NewFeedServiceClient wraps a connection to the feed-ranker service.
func NewFeedServiceClient(cc *grpc.ClientConn) FeedServiceClient {
	return &feedServiceClient{cc: cc}
}

func (c *feedServiceClient) GetPostsRecommendations(ctx context.Context, req *GetPostsRecommendationsRequest) (*PostsRecommendations, error) {
	out := new(PostsRecommendations)
	if err := c.cc.Invoke(ctx, "/"+feedServiceName+"/GetPostsRecommendations", req, out); err != nil {
		return nil, err
	}
	return out, nil
}
