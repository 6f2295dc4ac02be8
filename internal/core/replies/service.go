package replies

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

const maxContentLength = 2048

type replyService struct {
	repo         Repository
	existence    ExistenceSets
	interactions InteractionPurger
	threadCache  ThreadCacheInvalidator
	events       EventPublisher
	logger       *zap.Logger
}

// NewReplyService creates a new reply service.
func NewReplyService(
	repo Repository,
	existence ExistenceSets,
	interactions InteractionPurger,
	threadCache ThreadCacheInvalidator,
	events EventPublisher,
	logger *zap.Logger,
) Service {
	return &replyService{
		repo:         repo,
		existence:    existence,
		interactions: interactions,
		threadCache:  threadCache,
		events:       events,
		logger:       logger,
	}
}

// Create flow:
// 1. Validate input and check author / root post against the existence sets
// 2. Compute the materialized path: a parent equal to the post id roots the
//    reply at postId/newId, otherwise the parent's path is extended
// 3. Insert, invalidate the thread cache for the root post, publish
func (s *replyService) Create(ctx context.Context, postID, parentID, userID, content string) (*Reply, error) {
	if err := validateContent(content); err != nil {
		return nil, err
	}
	if postID == "" {
		return nil, NewValidationError("postId", "post id is required")
	}
	if parentID == "" {
		parentID = postID
	}

	known, err := s.existence.UserKnown(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check user: %w", err)
	}
	if !known {
		return nil, ErrUserUnknown
	}
	postKnown, err := s.existence.PostKnown(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to check post: %w", err)
	}
	if !postKnown {
		return nil, ErrPostUnknown
	}

	replyID := ulid.Make().String()
	var path string
	if parentID == postID {
		path = ChildPath(postID, replyID)
	} else {
		parent, err := s.repo.GetByID(ctx, parentID)
		if err != nil {
			if IsNotFound(err) {
				return nil, ErrParentNotFound
			}
			return nil, fmt.Errorf("failed to load parent reply: %w", err)
		}
		if parent.RootID != postID {
			return nil, NewValidationError("parentId", "parent reply belongs to a different post")
		}
		path = ChildPath(parent.Path, replyID)
	}

	reply := &Reply{
		ID:        replyID,
		RootID:    postID,
		ParentID:  parentID,
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
		Path:      path,
	}
	if err := s.repo.Create(ctx, reply); err != nil {
		return nil, fmt.Errorf("failed to create reply: %w", err)
	}

	s.invalidateThread(ctx, postID)
	if err := s.events.ReplyCreated(ctx, reply.ID, postID, userID); err != nil {
		s.logger.Error("failed to publish reply.created",
			zap.String("replyId", reply.ID), zap.Error(err))
	}
	return reply, nil
}

func (s *replyService) Update(ctx context.Context, replyID, userID, content string) (*Reply, error) {
	if err := validateContent(content); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetByID(ctx, replyID)
	if err != nil {
		return nil, err
	}
	if existing.UserID != userID {
		return nil, ErrNotOwner
	}

	updated, err := s.repo.Update(ctx, replyID, content)
	if err != nil {
		return nil, fmt.Errorf("failed to update reply: %w", err)
	}

	s.invalidateThread(ctx, updated.RootID)
	if err := s.events.ReplyUpdated(ctx, replyID, updated.RootID, userID); err != nil {
		s.logger.Error("failed to publish reply.updated",
			zap.String("replyId", replyID), zap.Error(err))
	}
	return updated, nil
}

func (s *replyService) Delete(ctx context.Context, replyID, userID string) error {
	existing, err := s.repo.GetByID(ctx, replyID)
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		return ErrNotOwner
	}

	deleted, err := s.repo.DeleteSubtree(ctx, replyID)
	if err != nil {
		return fmt.Errorf("failed to delete reply subtree: %w", err)
	}
	if err := s.interactions.DeleteManyInteractions(ctx, deleted); err != nil {
		s.logger.Error("failed to delete interaction state for subtree",
			zap.String("replyId", replyID), zap.Error(err))
	}

	s.invalidateThread(ctx, existing.RootID)
	if err := s.events.ReplyDeleted(ctx, replyID, existing.RootID, userID); err != nil {
		s.logger.Error("failed to publish reply.deleted",
			zap.String("replyId", replyID), zap.Error(err))
	}
	return nil
}

func (s *replyService) GetByID(ctx context.Context, replyID string) (*Reply, error) {
	if replyID == "" {
		return nil, NewValidationError("replyId", "reply id is required")
	}
	return s.repo.GetByID(ctx, replyID)
}

func (s *replyService) GetAllByPost(ctx context.Context, postID string) ([]*Reply, error) {
	if postID == "" {
		return nil, NewValidationError("postId", "post id is required")
	}
	return s.repo.GetAllByPost(ctx, postID)
}

func (s *replyService) GetAllByPosts(ctx context.Context, postIDs []string) (map[string][]*Reply, error) {
	if len(postIDs) == 0 {
		return map[string][]*Reply{}, nil
	}
	return s.repo.GetAllByPosts(ctx, postIDs)
}

func (s *replyService) GetSubtree(ctx context.Context, replyID string) ([]*Reply, error) {
	if replyID == "" {
		return nil, NewValidationError("replyId", "reply id is required")
	}
	return s.repo.GetSubtree(ctx, replyID)
}

func (s *replyService) DeleteByUser(ctx context.Context, userID string) ([]string, error) {
	deleted, err := s.repo.DeleteByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete replies for user %s: %w", userID, err)
	}
	if len(deleted) > 0 {
		if err := s.interactions.DeleteManyInteractions(ctx, deleted); err != nil {
			s.logger.Error("failed to delete interaction state for user replies",
				zap.String("userId", userID), zap.Error(err))
		}
	}
	return deleted, nil
}

func (s *replyService) DeleteByPost(ctx context.Context, postID string) error {
	deleted, err := s.repo.DeleteByPost(ctx, postID)
	if err != nil {
		return fmt.Errorf("failed to delete replies for post %s: %w", postID, err)
	}
	if len(deleted) > 0 {
		if err := s.interactions.DeleteManyInteractions(ctx, deleted); err != nil {
			s.logger.Error("failed to delete interaction state for post replies",
				zap.String("postId", postID), zap.Error(err))
		}
	}
	s.invalidateThread(ctx, postID)
	return nil
}

// HandleUserCreated records a user from a user.created event.
func (s *replyService) HandleUserCreated(ctx context.Context, userID string) error {
	if userID == "" {
		return NewValidationError("userId", "user id is required")
	}
	return s.existence.AddUser(ctx, userID)
}

// HandleUserDeleted cascades a user.deleted event: the user's replies go,
// their interaction keys go, and the user leaves the known-user set.
func (s *replyService) HandleUserDeleted(ctx context.Context, userID string) error {
	if userID == "" {
		return NewValidationError("userId", "user id is required")
	}
	if _, err := s.DeleteByUser(ctx, userID); err != nil {
		return err
	}
	return s.existence.RemoveUser(ctx, userID)
}

// HandlePostCreated admits the post into the created-post set only when the
// author is already known; unknown authors are logged and dropped, and a
// later replay after user.created succeeds.
func (s *replyService) HandlePostCreated(ctx context.Context, postID, userID string) error {
	if postID == "" {
		return NewValidationError("postId", "post id is required")
	}
	known, err := s.existence.UserKnown(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to check user: %w", err)
	}
	if !known {
		s.logger.Warn("dropping post.created for unknown user",
			zap.String("postId", postID), zap.String("userId", userID))
		return nil
	}
	return s.existence.AddPost(ctx, postID, userID)
}

// HandlePostDeleted cascades a post.deleted event: the reply tree goes, the
// post's own interaction keys go, and the post leaves the created-post set.
func (s *replyService) HandlePostDeleted(ctx context.Context, postID string) error {
	if postID == "" {
		return NewValidationError("postId", "post id is required")
	}
	if err := s.DeleteByPost(ctx, postID); err != nil {
		return err
	}
	if err := s.interactions.DeleteInteractions(ctx, postID); err != nil {
		return fmt.Errorf("failed to delete post interactions: %w", err)
	}
	return s.existence.RemovePost(ctx, postID)
}

func (s *replyService) invalidateThread(ctx context.Context, postID string) {
	if err := s.threadCache.InvalidatePost(ctx, postID); err != nil {
		s.logger.Error("failed to invalidate thread cache",
			zap.String("postId", postID), zap.Error(err))
	}
}

func validateContent(content string) error {
	if content == "" {
		return NewValidationError("content", "content is required")
	}
	if len(content) > maxContentLength {
		return NewValidationError("content", fmt.Sprintf("content exceeds %d characters", maxContentLength))
	}
	return nil
}
