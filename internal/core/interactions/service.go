package interactions

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"Loom/internal/core/replies"
	"Loom/internal/rpc"
)

// Service answers the aggregator's interaction reads. Each read tries the
// answer cache first; on a miss it assembles the answer from the reply store
// and the counters, caches it, and returns it.
type Service struct {
	replySvc ReplySource
	counters Counters
	answers  AnswerCache
	logger   *zap.Logger
}

// NewService creates the interaction read service.
func NewService(replySvc ReplySource, counters Counters, answers AnswerCache, logger *zap.Logger) *Service {
	return &Service{
		replySvc: replySvc,
		counters: counters,
		answers:  answers,
		logger:   logger,
	}
}

// GetPostInteractions returns the post's nested reply tree and counters.
// UserInteracted is populated at post level and per reply when a viewer id
// is given.
func (s *Service) GetPostInteractions(ctx context.Context, req *rpc.GetPostInteractionsRequest) (*rpc.PostInteraction, error) {
	if req.PostID == "" {
		return nil, fmt.Errorf("post id is required")
	}
	if cached, ok := s.cachedAnswer(ctx, req.PostID, req.ViewerUserID); ok {
		return cached, nil
	}

	flat, err := s.replySvc.GetAllByPost(ctx, req.PostID)
	if err != nil {
		return nil, fmt.Errorf("failed to load replies: %w", err)
	}
	answers, err := s.assemble(ctx, map[string][]*replies.Reply{req.PostID: flat}, []string{req.PostID}, req.ViewerUserID)
	if err != nil {
		return nil, err
	}
	answer := answers[req.PostID]
	s.cacheAnswer(ctx, req.PostID, req.ViewerUserID, answer)
	return answer, nil
}

// GetBatchOfPostInteractions answers for many posts at once. Cached posts
// are served from the cache; the rest are assembled with one reply query and
// one pipelined counter pass, then cached individually.
func (s *Service) GetBatchOfPostInteractions(ctx context.Context, req *rpc.GetBatchOfPostInteractionsRequest) (*rpc.BatchPostInteractions, error) {
	result := &rpc.BatchPostInteractions{Interactions: make([]*rpc.PostInteraction, 0, len(req.PostIDs))}
	if len(req.PostIDs) == 0 {
		return result, nil
	}

	byPost := make(map[string]*rpc.PostInteraction, len(req.PostIDs))
	var misses []string
	for _, postID := range req.PostIDs {
		if cached, ok := s.cachedAnswer(ctx, postID, req.ViewerUserID); ok {
			byPost[postID] = cached
		} else {
			misses = append(misses, postID)
		}
	}

	if len(misses) > 0 {
		grouped, err := s.replySvc.GetAllByPosts(ctx, misses)
		if err != nil {
			return nil, fmt.Errorf("failed to load replies batch: %w", err)
		}
		assembled, err := s.assemble(ctx, grouped, misses, req.ViewerUserID)
		if err != nil {
			return nil, err
		}
		for postID, answer := range assembled {
			byPost[postID] = answer
			s.cacheAnswer(ctx, postID, req.ViewerUserID, answer)
		}
	}

	for _, postID := range req.PostIDs {
		result.Interactions = append(result.Interactions, byPost[postID])
	}
	return result, nil
}

// GetReplyByID returns one reply with its descendants nested and counters
// populated.
func (s *Service) GetReplyByID(ctx context.Context, req *rpc.GetReplyByIDRequest) (*rpc.Reply, error) {
	flat, err := s.replySvc.GetSubtree(ctx, req.ReplyID)
	if err != nil {
		return nil, err
	}

	ids := replies.CollectIDs(flat)
	counts, err := s.loadCounters(ctx, ids, req.ViewerUserID)
	if err != nil {
		return nil, err
	}

	roots := replies.BuildTree(flat)
	if len(roots) == 0 {
		return nil, replies.ErrNotFound
	}
	return s.toWire(roots[0], counts), nil
}

// counterSet is one pipelined pass of likes, views, and viewer membership.
type counterSet struct {
	likes  map[string]int64
	views  map[string]int64
	viewer map[string]bool
}

func (c *counterSet) apply(id string) (int64, int64, bool) {
	return c.likes[id], c.views[id], c.viewer[id]
}

func (s *Service) loadCounters(ctx context.Context, ids []string, viewerID string) (*counterSet, error) {
	likes, err := s.counters.GetManyLikes(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load like counts: %w", err)
	}
	views, err := s.counters.GetManyViews(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load view counts: %w", err)
	}
	set := &counterSet{likes: likes, views: views, viewer: map[string]bool{}}
	if viewerID != "" {
		set.viewer, err = s.counters.IsManyLiked(ctx, viewerID, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to load viewer likes: %w", err)
		}
	}
	return set, nil
}

// assemble builds answers for the given post ids from grouped flat replies.
// Posts absent from grouped get the documented zero value with empty
// replies.
func (s *Service) assemble(ctx context.Context, grouped map[string][]*replies.Reply, postIDs []string, viewerID string) (map[string]*rpc.PostInteraction, error) {
	// One counter pass covers the posts and every reply.
	ids := make([]string, 0, len(postIDs))
	ids = append(ids, postIDs...)
	for _, flat := range grouped {
		ids = append(ids, replies.CollectIDs(flat)...)
	}
	counts, err := s.loadCounters(ctx, ids, viewerID)
	if err != nil {
		return nil, err
	}

	result := make(map[string]*rpc.PostInteraction, len(postIDs))
	for _, postID := range postIDs {
		likes, views, interacted := counts.apply(postID)
		answer := &rpc.PostInteraction{
			PostID:         postID,
			Likes:          likes,
			Views:          views,
			UserInteracted: interacted,
			Replies:        []*rpc.Reply{},
		}
		for _, node := range replies.BuildTree(grouped[postID]) {
			answer.Replies = append(answer.Replies, s.toWire(node, counts))
		}
		result[postID] = answer
	}
	return result, nil
}

func (s *Service) toWire(node *replies.Node, counts *counterSet) *rpc.Reply {
	likes, views, interacted := counts.apply(node.Reply.ID)
	wire := &rpc.Reply{
		ID:             node.Reply.ID,
		PostID:         node.Reply.RootID,
		ParentID:       node.Reply.ParentID,
		UserID:         node.Reply.UserID,
		Content:        node.Reply.Content,
		CreatedAt:      node.Reply.CreatedAt,
		Likes:          likes,
		Views:          views,
		UserInteracted: interacted,
		Replies:        make([]*rpc.Reply, 0, len(node.Children)),
	}
	for _, child := range node.Children {
		wire.Replies = append(wire.Replies, s.toWire(child, counts))
	}
	return wire
}

func (s *Service) cachedAnswer(ctx context.Context, postID, viewerID string) (*rpc.PostInteraction, bool) {
	payload, hit, err := s.answers.Get(ctx, postID, viewerID)
	if err != nil {
		s.logger.Error("thread cache read failed", zap.String("postId", postID), zap.Error(err))
		return nil, false
	}
	if !hit {
		return nil, false
	}
	var answer rpc.PostInteraction
	if err := json.Unmarshal(payload, &answer); err != nil {
		s.logger.Error("thread cache entry corrupt", zap.String("postId", postID), zap.Error(err))
		return nil, false
	}
	return &answer, true
}

// cacheAnswer is best effort; a failed write only costs the next read a
// rebuild.
func (s *Service) cacheAnswer(ctx context.Context, postID, viewerID string, answer *rpc.PostInteraction) {
	payload, err := json.Marshal(answer)
	if err != nil {
		s.logger.Error("failed to marshal cached answer", zap.String("postId", postID), zap.Error(err))
		return
	}
	if err := s.answers.Set(ctx, postID, viewerID, payload); err != nil {
		s.logger.Error("thread cache write failed", zap.String("postId", postID), zap.Error(err))
	}
}
