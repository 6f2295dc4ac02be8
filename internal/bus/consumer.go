package bus

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrBadPayload marks a message that could not be deserialized. Such
// messages are negatively acknowledged without requeue; redelivering them
// can never succeed.
var ErrBadPayload = errors.New("malformed event payload")

// Handler processes one event body. Returning an error wrapping
// ErrBadPayload drops the message; any other error is logged and the message
// is acknowledged so the queue keeps moving (at-least-once delivery with
// idempotent handlers).
type Handler func(ctx context.Context, body []byte) error

// Binding ties a durable queue to an (exchange, routing key) pair and its
// handler.
type Binding struct {
	Queue      string
	Exchange   string
	RoutingKey string
	Handler    Handler
}

// Consume declares the binding's queue, binds it, and starts a goroutine
// draining deliveries until the channel closes. Each binding gets its own
// channel.
func (b *Bus) Consume(ctx context.Context, binding Binding) error {
	ch, err := b.conn.Channel()
	if err != nil {
		return errWrap("failed to open consumer channel", binding.Queue, err)
	}

	queue, err := ch.QueueDeclare(
		binding.Queue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		return errWrap("failed to declare queue", binding.Queue, err)
	}
	if err := ch.QueueBind(queue.Name, binding.RoutingKey, binding.Exchange, false, nil); err != nil {
		ch.Close()
		return errWrap("failed to bind queue", binding.Queue, err)
	}

	deliveries, err := ch.Consume(
		queue.Name,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		return errWrap("failed to start consumer", binding.Queue, err)
	}

	b.trackConsumer(ch)
	logger := b.logger.With(zap.String("queue", binding.Queue))

	go func() {
		for delivery := range deliveries {
			err := binding.Handler(ctx, delivery.Body)
			switch {
			case err == nil:
				if ackErr := delivery.Ack(false); ackErr != nil {
					logger.Error("failed to ack message", zap.Error(ackErr))
				}
			case errors.Is(err, ErrBadPayload):
				logger.Error("dropping malformed message", zap.Error(err))
				if nackErr := delivery.Nack(false, false); nackErr != nil {
					logger.Error("failed to nack message", zap.Error(nackErr))
				}
			default:
				// Handlers are idempotent; acknowledging after a
				// failure keeps the queue moving instead of
				// redelivering forever.
				logger.Error("event handler failed", zap.Error(err))
				if ackErr := delivery.Ack(false); ackErr != nil {
					logger.Error("failed to ack message", zap.Error(ackErr))
				}
			}
		}
		logger.Info("consumer channel closed")
	}()
	return nil
}

func errWrap(msg, queue string, err error) error {
	return fmt.Errorf("%s %s: %w", msg, queue, err)
}
