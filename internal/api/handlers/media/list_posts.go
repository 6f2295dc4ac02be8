package media

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"Loom/internal/api/handlers/common"
)

// ListPosts handles GET /api/posts and GET /api/users/{userId}/posts. The
// user-scoped form restricts the page to one author. Pages are newest first
// with an opaque `next` cursor.
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	page, err := h.posts.GetPaginatedPosts(
		r.Context(),
		chi.URLParam(r, "userId"),
		parsePerPage(r),
		r.URL.Query().Get("next"),
	)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	common.WriteJSON(w, h.logger, http.StatusOK, page)
}
