package media

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"Loom/internal/api/handlers/common"
	"Loom/internal/api/middleware"
	"Loom/internal/core/posts"
)

// CreatePost handles POST /api/posts and POST /api/users/{userId}/posts.
// The body is multipart with a `text` field and repeated `media` parts.
// When the path names a user it must match the token subject.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	authUserID := middleware.GetUserID(r.Context())
	if pathUser := chi.URLParam(r, "userId"); pathUser != "" && pathUser != authUserID {
		common.WriteProblem(w, r, h.logger, http.StatusForbidden, "cannot create posts for another user")
		return
	}

	uploads, closeUploads, err := parseUploads(r)
	if err != nil {
		common.WriteProblem(w, r, h.logger, http.StatusBadRequest, "invalid multipart body")
		return
	}
	defer closeUploads()

	view, err := h.posts.CreatePost(r.Context(), posts.CreatePostRequest{
		UserID: authUserID,
		Text:   r.FormValue("text"),
		Media:  uploads,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	common.WriteJSON(w, h.logger, http.StatusCreated, view)
}
