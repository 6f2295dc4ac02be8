package routes

import (
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"

	"Loom/internal/api/handlers/media"
	"Loom/internal/api/middleware"
	"Loom/internal/core/posts"
)

// RegisterMediaRoutes registers the post authorship endpoints. Reads are
// public; every write requires a bearer token.
func RegisterMediaRoutes(r chi.Router, postService posts.Service, auth *middleware.JWTAuth, logger *zap.Logger) {
	h := media.NewHandler(postService, logger)

	r.Route("/api", func(r chi.Router) {
		// GET /api/posts?perPage=20&next=<ulid>
		r.Get("/posts", h.ListPosts)
		r.Get("/posts/{postId}", h.GetPost)

		// POST /api/posts, multipart: text + repeated media parts
		r.With(auth.RequireAuth).Post("/posts", h.CreatePost)

		r.Route("/users/{userId}/posts", func(r chi.Router) {
			r.Get("/", h.ListPosts)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAuth)
				r.Post("/", h.CreatePost)
				r.Put("/{postId}", h.UpdatePost)
				r.Delete("/{postId}", h.DeletePost)
			})
		})
	})
}
