package routes

import (
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"

	"Loom/internal/api/handlers/interaction"
	"Loom/internal/api/middleware"
	"Loom/internal/core/interactions"
	"Loom/internal/core/replies"
)

// RegisterInteractionRoutes registers the reply thread and like/view
// endpoints. Thread reads are public; everything else requires a bearer
// token with a subject matching the path user.
func RegisterInteractionRoutes(
	r chi.Router,
	replyService replies.Service,
	writer *interactions.Writer,
	auth *middleware.JWTAuth,
	logger *zap.Logger,
) {
	h := interaction.NewHandler(replyService, writer, logger)

	r.Route("/api", func(r chi.Router) {
		r.Route("/posts/{postId}/replies", func(r chi.Router) {
			// GET returns the nested thread, siblings in creation order.
			r.Get("/", h.GetReplies)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAuth)
				r.Post("/", h.CreateReply)
				r.Put("/{replyId}", h.UpdateReply)
				r.Delete("/{replyId}", h.DeleteReply)
			})
		})

		r.Route("/users/{userId}", func(r chi.Router) {
			r.Use(auth.RequireAuth)

			r.Post("/likes/posts/{postId}", h.LikePost)
			r.Delete("/likes/posts/{postId}", h.UnlikePost)
			r.Post("/views/posts/{postId}", h.ViewPost)

			r.Post("/likes/replies/{replyId}", h.LikeReply)
			r.Delete("/likes/replies/{replyId}", h.UnlikeReply)
			r.Post("/views/replies/{replyId}", h.ViewReply)
		})
	})
}
