// Package media exposes the post authorship HTTP surface.
package media

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"Loom/internal/api/handlers/common"
	"Loom/internal/core/posts"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100

	// maxUploadMemory bounds the in-memory portion of multipart parsing;
	// larger parts spill to temp files.
	maxUploadMemory = 32 << 20
)

// Handler serves the media service HTTP surface.
type Handler struct {
	posts  posts.Service
	logger *zap.Logger
}

// NewHandler creates the media handler.
func NewHandler(service posts.Service, logger *zap.Logger) *Handler {
	return &Handler{posts: service, logger: logger}
}

// writeError maps service errors onto HTTP statuses.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case posts.IsValidationError(err):
		common.WriteProblem(w, r, h.logger, http.StatusBadRequest, err.Error())
	case errors.Is(err, posts.ErrUserUnknown):
		common.WriteProblem(w, r, h.logger, http.StatusNotFound, "user unknown")
	case errors.Is(err, posts.ErrNotOwner):
		common.WriteProblem(w, r, h.logger, http.StatusForbidden, "post belongs to another user")
	case posts.IsNotFound(err):
		common.WriteProblem(w, r, h.logger, http.StatusNotFound, "post not found")
	default:
		common.WriteProblem(w, r, h.logger, http.StatusInternalServerError, "internal error")
	}
}

// parseUploads reads the repeated `media` parts of a multipart form. The
// returned closer releases the part readers once the service has consumed
// them.
func parseUploads(r *http.Request) ([]posts.Upload, func(), error) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return nil, nil, err
	}

	var (
		uploads []posts.Upload
		open    []multipart.File
	)
	closeAll := func() {
		for _, f := range open {
			_ = f.Close()
		}
	}

	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["media"] {
			file, err := header.Open()
			if err != nil {
				closeAll()
				return nil, nil, err
			}
			open = append(open, file)
			uploads = append(uploads, posts.Upload{
				FileName:    header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Size:        header.Size,
				Content:     file,
			})
		}
	}
	return uploads, closeAll, nil
}

// parsePerPage reads the perPage query value, clamped to [1, 100] with a
// default of 20.
func parsePerPage(r *http.Request) int {
	raw := r.URL.Query().Get("perPage")
	if raw == "" {
		return defaultPerPage
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return defaultPerPage
	}
	if v > maxPerPage {
		return maxPerPage
	}
	return v
}
