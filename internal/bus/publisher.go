package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher sends lifecycle events on the shared publish channel. It
// satisfies both posts.EventPublisher and replies.EventPublisher.
type Publisher struct {
	bus *Bus
}

// NewPublisher creates a Publisher over the connected bus.
func NewPublisher(bus *Bus) *Publisher {
	return &Publisher{bus: bus}
}

func (p *Publisher) publish(ctx context.Context, exchange, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", routingKey, err)
	}
	err = p.bus.pubCh.PublishWithContext(ctx, exchange, routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", routingKey, err)
	}
	return nil
}

func (p *Publisher) PostCreated(ctx context.Context, postID, userID string) error {
	return p.publish(ctx, PostExchange, RoutePostCreated,
		PostEvent{ID: postID, UserID: userID, Timestamp: time.Now().UTC()})
}

func (p *Publisher) PostUpdated(ctx context.Context, postID, userID string) error {
	return p.publish(ctx, PostExchange, RoutePostUpdated,
		PostEvent{ID: postID, UserID: userID, Timestamp: time.Now().UTC()})
}

func (p *Publisher) PostDeleted(ctx context.Context, postID, userID string) error {
	return p.publish(ctx, PostExchange, RoutePostDeleted,
		PostEvent{ID: postID, UserID: userID, Timestamp: time.Now().UTC()})
}

func (p *Publisher) ReplyCreated(ctx context.Context, replyID, postID, userID string) error {
	return p.publish(ctx, PostExchange, RouteReplyCreated,
		ReplyEvent{ID: replyID, PostID: postID, UserID: userID, Timestamp: time.Now().UTC()})
}

func (p *Publisher) ReplyUpdated(ctx context.Context, replyID, postID, userID string) error {
	return p.publish(ctx, PostExchange, RouteReplyUpdated,
		ReplyEvent{ID: replyID, PostID: postID, UserID: userID, Timestamp: time.Now().UTC()})
}

func (p *Publisher) ReplyDeleted(ctx context.Context, replyID, postID, userID string) error {
	return p.publish(ctx, PostExchange, RouteReplyDeleted,
		ReplyEvent{ID: replyID, PostID: postID, UserID: userID, Timestamp: time.Now().UTC()})
}
