// Package bus integrates the services with RabbitMQ: two durable direct
// exchanges, durable per-consumer queues, and JSON event payloads.
package bus

import "time"

// Exchange and routing key names shared by all services.
const (
	PostExchange = "post-exchange"
	UserExchange = "user-exchange"

	RoutePostCreated = "post.created"
	RoutePostUpdated = "post.updated"
	RoutePostDeleted = "post.deleted"

	RouteReplyCreated = "reply.created"
	RouteReplyUpdated = "reply.updated"
	RouteReplyDeleted = "reply.deleted"

	RouteUserCreated = "user.created"
	RouteUserDeleted = "user.deleted"
)

// Durable queue names, one per (consumer service, event) pair.
const (
	QueuePostDeletedInteraction = "post-deleted-user-interaction-queue"
	QueuePostCreatedInteraction = "post-created-user-interaction-queue"
	QueueUserCreatedInteraction = "user-created-user-interaction-queue"
	QueueUserDeletedInteraction = "user-deleted-user-interaction-queue"
	QueueUserCreatedMedia       = "user-created-media-service-queue"
	QueueUserDeletedMedia       = "user-deleted-media-service-queue"
)

// PostEvent is the payload of post.* events.
type PostEvent struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
}

// ReplyEvent is the payload of reply.* events.
type ReplyEvent struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	UserID    string    `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
}

// UserEvent is the payload of user.* events published by the external
// user-management service.
type UserEvent struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}
