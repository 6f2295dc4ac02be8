package routes

import (
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"

	"Loom/internal/api/handlers/aggregator"
)

// RegisterAggregatorRoutes registers the composed read endpoints. The
// viewer id arrives in query values, so no auth middleware is attached.
func RegisterAggregatorRoutes(r chi.Router, composition aggregator.Composition, logger *zap.Logger) {
	h := aggregator.NewHandler(composition, logger)

	r.Route("/api", func(r chi.Router) {
		// GET /api/posts?perPage=20&next=<ulid>&userInteractionId=<ulid>
		r.Get("/posts", h.GetPosts)

		// GET /api/posts/{postId}?userInteractionId=<ulid>
		r.Get("/posts/{postId}", h.GetPost)

		// GET /api/users/{userId}?interactionUserId=<ulid>
		r.Get("/users/{userId}", h.GetUser)

		// GET /api/users/{userId}/feed?perPage=20&next=<cursor>
		r.Get("/users/{userId}/feed", h.GetFeed)
	})
}
