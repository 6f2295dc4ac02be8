// Package aggregator exposes the composed read endpoints.
package aggregator

import (
	"context"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"Loom/internal/api/handlers/common"
	"Loom/internal/core/composer"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// Composition is the subset of the composer the handlers need.
type Composition interface {
	GetPostsPage(ctx context.Context, perPage uint32, next, viewerID string) (*composer.PaginatedPostView, error)
	GetPost(ctx context.Context, postID, viewerID string) (*composer.PostDocument, error)
	GetUser(ctx context.Context, userID, viewerID string) (*composer.UserView, error)
	GetUserFeed(ctx context.Context, userID string, perPage uint32, next string) (*composer.PaginatedPostView, error)
}

// Handler serves the aggregator HTTP surface.
type Handler struct {
	composition Composition
	logger      *zap.Logger
}

// NewHandler creates the aggregator handler.
func NewHandler(composition Composition, logger *zap.Logger) *Handler {
	return &Handler{composition: composition, logger: logger}
}

// writeError maps a composition error onto the RFC 7807 response.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	common.WriteProblem(w, r, h.logger, composer.HTTPStatus(err), err.Error())
}

// parsePerPage reads the perPage query value, clamped to [1, 100] with a
// default of 20.
func parsePerPage(r *http.Request) uint32 {
	raw := r.URL.Query().Get("perPage")
	if raw == "" {
		return defaultPerPage
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || v == 0 {
		return defaultPerPage
	}
	if v > maxPerPage {
		return maxPerPage
	}
	return uint32(v)
}
