package aggregator

import (
	"net/http"

	"Loom/internal/api/handlers/common"
)

// GetPosts handles GET /api/posts. The optional userInteractionId query
// value personalizes the userInteracted markers.
func (h *Handler) GetPosts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, err := h.composition.GetPostsPage(
		r.Context(),
		parsePerPage(r),
		query.Get("next"),
		query.Get("userInteractionId"),
	)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	common.WriteJSON(w, h.logger, http.StatusOK, page)
}
