package media

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"Loom/internal/api/handlers/common"
	"Loom/internal/api/middleware"
)

// DeletePost handles DELETE /api/users/{userId}/posts/{postId}.
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	authUserID := middleware.GetUserID(r.Context())
	if chi.URLParam(r, "userId") != authUserID {
		common.WriteProblem(w, r, h.logger, http.StatusForbidden, "cannot delete another user's posts")
		return
	}

	if err := h.posts.DeletePost(r.Context(), chi.URLParam(r, "postId"), authUserID); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
