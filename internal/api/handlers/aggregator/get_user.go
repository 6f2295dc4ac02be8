package aggregator

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"Loom/internal/api/handlers/common"
)

// GetUser handles GET /api/users/{userId}. The optional interactionUserId
// query value personalizes the interaction markers on the profile's posts.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if userID == "" {
		common.WriteProblem(w, r, h.logger, http.StatusBadRequest, "userId is required")
		return
	}

	view, err := h.composition.GetUser(r.Context(), userID, r.URL.Query().Get("interactionUserId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	common.WriteJSON(w, h.logger, http.StatusOK, view)
}
