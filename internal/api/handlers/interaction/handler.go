// Package interaction exposes the reply and like/view HTTP surface.
package interaction

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"Loom/internal/api/handlers/common"
	"Loom/internal/api/middleware"
	"Loom/internal/core/interactions"
	"Loom/internal/core/replies"
)

// Handler serves the user-interaction HTTP surface.
type Handler struct {
	replies replies.Service
	writer  *interactions.Writer
	logger  *zap.Logger
}

// NewHandler creates the interaction handler.
func NewHandler(replySvc replies.Service, writer *interactions.Writer, logger *zap.Logger) *Handler {
	return &Handler{replies: replySvc, writer: writer, logger: logger}
}

// writeReplyError maps reply service errors onto HTTP statuses.
func (h *Handler) writeReplyError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case replies.IsValidationError(err):
		common.WriteProblem(w, r, h.logger, http.StatusBadRequest, err.Error())
	case errors.Is(err, replies.ErrUserUnknown):
		common.WriteProblem(w, r, h.logger, http.StatusNotFound, "user unknown")
	case errors.Is(err, replies.ErrPostUnknown):
		common.WriteProblem(w, r, h.logger, http.StatusNotFound, "post unknown")
	case errors.Is(err, replies.ErrNotOwner):
		common.WriteProblem(w, r, h.logger, http.StatusForbidden, "reply belongs to another user")
	case replies.IsNotFound(err):
		common.WriteProblem(w, r, h.logger, http.StatusNotFound, err.Error())
	default:
		common.WriteProblem(w, r, h.logger, http.StatusInternalServerError, "internal error")
	}
}

// writeCounterError maps interaction write errors onto HTTP statuses.
func (h *Handler) writeCounterError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, interactions.ErrUserUnknown):
		common.WriteProblem(w, r, h.logger, http.StatusNotFound, "user unknown")
	case errors.Is(err, interactions.ErrPostUnknown):
		common.WriteProblem(w, r, h.logger, http.StatusNotFound, "post unknown")
	default:
		common.WriteProblem(w, r, h.logger, http.StatusInternalServerError, "internal error")
	}
}

// requirePathUser rejects requests where the path user does not match the
// token subject. Returns "" after writing the response on mismatch.
func (h *Handler) requirePathUser(w http.ResponseWriter, r *http.Request, pathUser string) string {
	authUserID := middleware.GetUserID(r.Context())
	if pathUser != authUserID {
		common.WriteProblem(w, r, h.logger, http.StatusForbidden, "cannot act on behalf of another user")
		return ""
	}
	return authUserID
}
