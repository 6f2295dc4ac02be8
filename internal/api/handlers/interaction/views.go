package interaction

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"Loom/internal/api/handlers/common"
)

// ViewPost handles POST /api/users/{userId}/views/posts/{postId}. Views are
// distinct per user; repeats are no-ops.
func (h *Handler) ViewPost(w http.ResponseWriter, r *http.Request) {
	userID := h.requirePathUser(w, r, chi.URLParam(r, "userId"))
	if userID == "" {
		return
	}

	changed, err := h.writer.ViewPost(r.Context(), chi.URLParam(r, "postId"), userID)
	if err != nil {
		h.writeCounterError(w, r, err)
		return
	}
	common.WriteJSON(w, h.logger, http.StatusOK, likeResponse{Changed: changed})
}

// ViewReply handles POST /api/users/{userId}/views/replies/{replyId}.
func (h *Handler) ViewReply(w http.ResponseWriter, r *http.Request) {
	userID := h.requirePathUser(w, r, chi.URLParam(r, "userId"))
	if userID == "" {
		return
	}

	changed, err := h.writer.ViewReply(r.Context(), chi.URLParam(r, "replyId"), userID)
	if err != nil {
		h.writeCounterError(w, r, err)
		return
	}
	common.WriteJSON(w, h.logger, http.StatusOK, likeResponse{Changed: changed})
}
