package media

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"Loom/internal/api/handlers/common"
)

// GetPost handles GET /api/posts/{postId}.
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postId")
	if postID == "" {
		common.WriteProblem(w, r, h.logger, http.StatusBadRequest, "postId is required")
		return
	}

	view, err := h.posts.GetPost(r.Context(), postID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	common.WriteJSON(w, h.logger, http.StatusOK, view)
}
