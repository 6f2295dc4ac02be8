package media

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"Loom/internal/api/handlers/common"
	"Loom/internal/api/middleware"
	"Loom/internal/core/posts"
)

// UpdatePost handles PUT /api/users/{userId}/posts/{postId}. A present
// `text` field replaces the body; `media` parts are appended, never
// replacing existing files.
func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	authUserID := middleware.GetUserID(r.Context())
	if chi.URLParam(r, "userId") != authUserID {
		common.WriteProblem(w, r, h.logger, http.StatusForbidden, "cannot update another user's posts")
		return
	}

	uploads, closeUploads, err := parseUploads(r)
	if err != nil {
		common.WriteProblem(w, r, h.logger, http.StatusBadRequest, "invalid multipart body")
		return
	}
	defer closeUploads()

	var text *string
	if values, ok := r.MultipartForm.Value["text"]; ok && len(values) > 0 {
		text = &values[0]
	}

	view, err := h.posts.UpdatePost(r.Context(), posts.UpdatePostRequest{
		PostID: chi.URLParam(r, "postId"),
		UserID: authUserID,
		Text:   text,
		Media:  uploads,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	common.WriteJSON(w, h.logger, http.StatusOK, view)
}
