package composer

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"Loom/internal/observability"
	"Loom/internal/rpc"
)

const profilePostsPerPage = 10

// Composer fans requests out to the five downstream services. Critical legs
// fail the whole composition with the downstream code mapped; non-critical
// legs degrade to defaults and set the relevant isStale marker. Trace
// context rides to every downstream call on the client connections.
type Composer struct {
	posts         rpc.PostServiceClient
	replies       rpc.ReplyServiceClient
	users         rpc.UserProfileServiceClient
	relationships rpc.RelationshipServiceClient
	feed          rpc.FeedServiceClient
	annotator     *observability.Annotator
	logger        *zap.Logger
}

// NewComposer wires the engine to its downstream clients.
func NewComposer(
	posts rpc.PostServiceClient,
	replies rpc.ReplyServiceClient,
	users rpc.UserProfileServiceClient,
	relationships rpc.RelationshipServiceClient,
	feed rpc.FeedServiceClient,
	annotator *observability.Annotator,
	logger *zap.Logger,
) *Composer {
	return &Composer{
		posts:         posts,
		replies:       replies,
		users:         users,
		relationships: relationships,
		feed:          feed,
		annotator:     annotator,
		logger:        logger,
	}
}

// GetPostsPage composes the recent-posts page. The post fetch is critical;
// interactions and user summaries degrade.
func (c *Composer) GetPostsPage(ctx context.Context, perPage uint32, next, viewerID string) (*PaginatedPostView, error) {
	var page *rpc.PaginatedPosts
	err := c.annotator.Observe(ctx, "post-service", "GetPaginatedPosts", func(ctx context.Context) error {
		var err error
		page, err = c.posts.GetPaginatedPosts(ctx, &rpc.GetPaginatedPostsRequest{PerPage: perPage, Next: next})
		return err
	})
	if err != nil {
		return nil, mapDownstream("post-service", err)
	}
	return c.composePage(ctx, page.Posts, page.Next, viewerID), nil
}

// GetPost composes one post document. The post fetch is critical;
// interactions and summaries degrade.
func (c *Composer) GetPost(ctx context.Context, postID, viewerID string) (*PostDocument, error) {
	var post *rpc.Post
	err := c.annotator.Observe(ctx, "post-service", "GetPostById", func(ctx context.Context) error {
		var err error
		post, err = c.posts.GetPostByID(ctx, &rpc.GetPostByIDRequest{PostID: postID})
		return err
	})
	if err != nil {
		return nil, mapDownstream("post-service", err)
	}

	interactions, stale := c.fetchInteractions(ctx, []string{postID}, viewerID)

	arena, summariesStale := c.hydrateSummaries(ctx, collectUserIDs([]*rpc.Post{post}, interactions))
	return &PostDocument{
		ComposedPost: composePost(post, interactions[postID], arena),
		IsStale:      stale || summariesStale,
	}, nil
}

// GetUser composes the profile document. Profile, the author's recent posts,
// and the final summary hydration are critical; relationships and
// interactions degrade with their own markers.
func (c *Composer) GetUser(ctx context.Context, userID, viewerID string) (*UserView, error) {
	var (
		user     *rpc.User
		page     *rpc.PaginatedPosts
		rels     *rpc.Relationships
		relStale bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := c.annotator.Observe(gctx, "user-profile-service", "GetUserById", func(ctx context.Context) error {
			var err error
			user, err = c.users.GetUserByID(ctx, &rpc.GetUserByIDRequest{UserID: userID})
			return err
		})
		if err != nil {
			return mapDownstream("user-profile-service", err)
		}
		return nil
	})
	g.Go(func() error {
		err := c.annotator.Observe(gctx, "post-service", "GetPaginatedPosts", func(ctx context.Context) error {
			var err error
			page, err = c.posts.GetPaginatedPosts(ctx, &rpc.GetPaginatedPostsRequest{
				UserID:  userID,
				PerPage: profilePostsPerPage,
			})
			return err
		})
		if err != nil {
			return mapDownstream("post-service", err)
		}
		return nil
	})
	g.Go(func() error {
		err := c.annotator.Observe(gctx, "relationship-service", "GetUserRelationships", func(ctx context.Context) error {
			var err error
			rels, err = c.relationships.GetUserRelationships(ctx, &rpc.GetUserRelationshipsRequest{UserID: userID})
			return err
		})
		if err != nil {
			c.logger.Warn("relationship leg degraded", zap.String("userId", userID), zap.Error(err))
			relStale = true
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var (
		interactions map[string]*rpc.PostInteraction
		postsStale   bool
	)
	if len(page.Posts) > 0 {
		interactions, postsStale = c.fetchInteractions(ctx, postIDs(page.Posts), viewerID)
	}

	// Summary hydration is critical here: without it the profile document
	// cannot be assembled.
	summaryIDs := collectUserIDs(page.Posts, interactions, rels.UserIDs()...)
	var batch *rpc.BatchUsersSummary
	if len(summaryIDs) > 0 {
		err := c.annotator.Observe(ctx, "user-profile-service", "GetBatchUsersSummaryByIds", func(ctx context.Context) error {
			var err error
			batch, err = c.users.GetBatchUsersSummaryByIDs(ctx, &rpc.GetBatchUsersSummaryRequest{UserIDs: summaryIDs})
			return err
		})
		if err != nil {
			return nil, mapDownstream("user-profile-service", err)
		}
	}
	arena := newSummaryArena(batch)

	postsView := &PaginatedPostView{
		Posts:   make([]*ComposedPost, 0, len(page.Posts)),
		Next:    page.Next,
		IsStale: postsStale,
	}
	for _, post := range page.Posts {
		postsView.Posts = append(postsView.Posts, composePost(post, interactions[post.ID], arena))
	}

	relView := &RelationshipsView{
		Followers: []*rpc.UserSummary{},
		Following: []*rpc.UserSummary{},
		Friends:   []*rpc.UserSummary{},
		IsStale:   relStale,
	}
	if rels != nil {
		relView.Followers = arena.lookupAll(rels.Followers)
		relView.Following = arena.lookupAll(rels.Following)
		relView.Friends = arena.lookupAll(rels.Friends)
	}

	return &UserView{User: user, Posts: postsView, Relationships: relView}, nil
}

// GetUserFeed composes the recommendation feed: the ranked id list and the
// post hydration are critical, the rest degrades.
func (c *Composer) GetUserFeed(ctx context.Context, userID string, perPage uint32, next string) (*PaginatedPostView, error) {
	var recs *rpc.PostsRecommendations
	err := c.annotator.Observe(ctx, "feed-service", "GetPostsRecommendations", func(ctx context.Context) error {
		var err error
		recs, err = c.feed.GetPostsRecommendations(ctx, &rpc.GetPostsRecommendationsRequest{
			UserID:  userID,
			PerPage: perPage,
			Next:    next,
		})
		return err
	})
	if err != nil {
		return nil, mapDownstream("feed-service", err)
	}
	if len(recs.PostIDs) == 0 {
		return &PaginatedPostView{Posts: []*ComposedPost{}, Next: recs.Next}, nil
	}

	var batch *rpc.BatchPosts
	err = c.annotator.Observe(ctx, "post-service", "GetBatchPosts", func(ctx context.Context) error {
		var err error
		batch, err = c.posts.GetBatchPosts(ctx, &rpc.GetBatchPostsRequest{PostIDs: recs.PostIDs})
		return err
	})
	if err != nil {
		return nil, mapDownstream("post-service", err)
	}

	view := c.composePage(ctx, batch.Posts, recs.Next, userID)
	return view, nil
}

// composePage runs the shared tail of the page compositions: interactions
// then summaries, both non-critical, then the merge.
func (c *Composer) composePage(ctx context.Context, postList []*rpc.Post, next, viewerID string) *PaginatedPostView {
	view := &PaginatedPostView{Posts: make([]*ComposedPost, 0, len(postList)), Next: next}
	if len(postList) == 0 {
		return view
	}

	interactions, stale := c.fetchInteractions(ctx, postIDs(postList), viewerID)
	view.IsStale = stale

	arena, summariesStale := c.hydrateSummaries(ctx, collectUserIDs(postList, interactions))
	view.IsStale = view.IsStale || summariesStale

	for _, post := range postList {
		view.Posts = append(view.Posts, composePost(post, interactions[post.ID], arena))
	}
	return view
}

// fetchInteractions is a non-critical leg: on failure it logs, returns an
// empty index, and reports staleness.
func (c *Composer) fetchInteractions(ctx context.Context, ids []string, viewerID string) (map[string]*rpc.PostInteraction, bool) {
	var batch *rpc.BatchPostInteractions
	err := c.annotator.Observe(ctx, "reply-service", "GetBatchOfPostInteractions", func(ctx context.Context) error {
		var err error
		batch, err = c.replies.GetBatchOfPostInteractions(ctx, &rpc.GetBatchOfPostInteractionsRequest{
			PostIDs:      ids,
			ViewerUserID: viewerID,
		})
		return err
	})
	if err != nil {
		c.logger.Warn("interaction leg degraded", zap.Error(err))
		return map[string]*rpc.PostInteraction{}, true
	}
	return indexInteractions(batch), false
}

// hydrateSummaries is the non-critical variant of summary hydration used by
// the page and single-post compositions.
func (c *Composer) hydrateSummaries(ctx context.Context, userIDs []string) (*summaryArena, bool) {
	if len(userIDs) == 0 {
		return newSummaryArena(nil), false
	}
	var batch *rpc.BatchUsersSummary
	err := c.annotator.Observe(ctx, "user-profile-service", "GetBatchUsersSummaryByIds", func(ctx context.Context) error {
		var err error
		batch, err = c.users.GetBatchUsersSummaryByIDs(ctx, &rpc.GetBatchUsersSummaryRequest{UserIDs: userIDs})
		return err
	})
	if err != nil {
		c.logger.Warn("user summary leg degraded", zap.Error(err))
		return newSummaryArena(nil), true
	}
	return newSummaryArena(batch), false
}

func postIDs(postList []*rpc.Post) []string {
	ids := make([]string, len(postList))
	for i, post := range postList {
		ids[i] = post.ID
	}
	return ids
}
