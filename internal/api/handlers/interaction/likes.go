package interaction

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"Loom/internal/api/handlers/common"
)

type likeResponse struct {
	Changed bool `json:"changed"`
}

// LikePost handles POST /api/users/{userId}/likes/posts/{postId}. The path
// user must be the token subject.
func (h *Handler) LikePost(w http.ResponseWriter, r *http.Request) {
	userID := h.requirePathUser(w, r, chi.URLParam(r, "userId"))
	if userID == "" {
		return
	}

	changed, err := h.writer.LikePost(r.Context(), chi.URLParam(r, "postId"), userID)
	if err != nil {
		h.writeCounterError(w, r, err)
		return
	}
	common.WriteJSON(w, h.logger, http.StatusOK, likeResponse{Changed: changed})
}

// UnlikePost handles DELETE /api/users/{userId}/likes/posts/{postId}.
func (h *Handler) UnlikePost(w http.ResponseWriter, r *http.Request) {
	userID := h.requirePathUser(w, r, chi.URLParam(r, "userId"))
	if userID == "" {
		return
	}

	changed, err := h.writer.UnlikePost(r.Context(), chi.URLParam(r, "postId"), userID)
	if err != nil {
		h.writeCounterError(w, r, err)
		return
	}
	common.WriteJSON(w, h.logger, http.StatusOK, likeResponse{Changed: changed})
}

// LikeReply handles POST /api/users/{userId}/likes/replies/{replyId}.
func (h *Handler) LikeReply(w http.ResponseWriter, r *http.Request) {
	userID := h.requirePathUser(w, r, chi.URLParam(r, "userId"))
	if userID == "" {
		return
	}

	changed, err := h.writer.LikeReply(r.Context(), chi.URLParam(r, "replyId"), userID)
	if err != nil {
		h.writeCounterError(w, r, err)
		return
	}
	common.WriteJSON(w, h.logger, http.StatusOK, likeResponse{Changed: changed})
}

// UnlikeReply handles DELETE /api/users/{userId}/likes/replies/{replyId}.
func (h *Handler) UnlikeReply(w http.ResponseWriter, r *http.Request) {
	userID := h.requirePathUser(w, r, chi.URLParam(r, "userId"))
	if userID == "" {
		return
	}

	changed, err := h.writer.UnlikeReply(r.Context(), chi.URLParam(r, "replyId"), userID)
	if err != nil {
		h.writeCounterError(w, r, err)
		return
	}
	common.WriteJSON(w, h.logger, http.StatusOK, likeResponse{Changed: changed})
}
