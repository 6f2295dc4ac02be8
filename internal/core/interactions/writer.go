package interactions

import (
	"context"
	"fmt"
)

// Writer handles the HTTP-facing interaction writes. Every write is gated on
// the known-user set; post likes additionally require the post to exist in
// the created-post set.
type Writer struct {
	counters  Counters
	existence Existence
}

// NewWriter creates the interaction write service.
func NewWriter(counters Counters, existence Existence) *Writer {
	return &Writer{counters: counters, existence: existence}
}

// LikePost records a like. Returns true when the user had not liked the
// post before.
func (w *Writer) LikePost(ctx context.Context, postID, userID string) (bool, error) {
	if err := w.checkUser(ctx, userID); err != nil {
		return false, err
	}
	if err := w.checkPost(ctx, postID); err != nil {
		return false, err
	}
	return w.counters.Like(ctx, postID, userID)
}

// UnlikePost removes a like. Returns true when the like existed.
func (w *Writer) UnlikePost(ctx context.Context, postID, userID string) (bool, error) {
	if err := w.checkUser(ctx, userID); err != nil {
		return false, err
	}
	if err := w.checkPost(ctx, postID); err != nil {
		return false, err
	}
	return w.counters.Unlike(ctx, postID, userID)
}

// ViewPost records a distinct view. Returns true when the viewer was new.
func (w *Writer) ViewPost(ctx context.Context, postID, userID string) (bool, error) {
	if err := w.checkUser(ctx, userID); err != nil {
		return false, err
	}
	if err := w.checkPost(ctx, postID); err != nil {
		return false, err
	}
	return w.counters.View(ctx, postID, userID)
}

// LikeReply, UnlikeReply, and ViewReply mirror the post operations for
// per-reply counters. Reply existence is enforced by the reply store when
// the reply was created; a like on a since-deleted reply only touches keys
// that deleteInteractions already removed, which is harmless.
func (w *Writer) LikeReply(ctx context.Context, replyID, userID string) (bool, error) {
	if err := w.checkUser(ctx, userID); err != nil {
		return false, err
	}
	return w.counters.Like(ctx, replyID, userID)
}

func (w *Writer) UnlikeReply(ctx context.Context, replyID, userID string) (bool, error) {
	if err := w.checkUser(ctx, userID); err != nil {
		return false, err
	}
	return w.counters.Unlike(ctx, replyID, userID)
}

func (w *Writer) ViewReply(ctx context.Context, replyID, userID string) (bool, error) {
	if err := w.checkUser(ctx, userID); err != nil {
		return false, err
	}
	return w.counters.View(ctx, replyID, userID)
}

func (w *Writer) checkUser(ctx context.Context, userID string) error {
	known, err := w.existence.UserKnown(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to check user: %w", err)
	}
	if !known {
		return ErrUserUnknown
	}
	return nil
}

func (w *Writer) checkPost(ctx context.Context, postID string) error {
	known, err := w.existence.PostKnown(ctx, postID)
	if err != nil {
		return fmt.Errorf("failed to check post: %w", err)
	}
	if !known {
		return ErrPostUnknown
	}
	return nil
}
