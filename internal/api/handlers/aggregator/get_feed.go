package aggregator

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"Loom/internal/api/handlers/common"
)

// GetFeed handles GET /api/users/{userId}/feed.
func (h *Handler) GetFeed(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if userID == "" {
		common.WriteProblem(w, r, h.logger, http.StatusBadRequest, "userId is required")
		return
	}

	page, err := h.composition.GetUserFeed(r.Context(), userID, parsePerPage(r), r.URL.Query().Get("next"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	common.WriteJSON(w, h.logger, http.StatusOK, page)
}
