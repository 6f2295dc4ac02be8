package bus

import (
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Bus owns the broker connection, one shared publish channel, and one
// channel per consumer. The consumer channels are tracked so shutdown can
// close them first, then the publisher, then the connection.
type Bus struct {
	conn   *amqp.Connection
	pubCh  *amqp.Channel
	logger *zap.Logger

	mu          sync.Mutex
	consumerChs []*amqp.Channel
}

// Connect dials the broker and declares both exchanges.
func Connect(uri string, logger *zap.Logger) (*Bus, error) {
	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker: %w", err)
	}
	pubCh, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open publish channel: %w", err)
	}

	for _, exchange := range []string{PostExchange, UserExchange} {
		if err := declareExchange(pubCh, exchange); err != nil {
			pubCh.Close()
			conn.Close()
			return nil, err
		}
	}

	return &Bus{conn: conn, pubCh: pubCh, logger: logger}, nil
}

func declareExchange(ch *amqp.Channel, name string) error {
	err := ch.ExchangeDeclare(
		name,
		"direct",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", name, err)
	}
	return nil
}

// Close tears the bus down in shutdown order: consumer channels, publisher
// channel, connection.
func (b *Bus) Close() {
	b.mu.Lock()
	consumers := b.consumerChs
	b.consumerChs = nil
	b.mu.Unlock()

	for _, ch := range consumers {
		if err := ch.Close(); err != nil {
			b.logger.Warn("failed to close consumer channel", zap.Error(err))
		}
	}
	if err := b.pubCh.Close(); err != nil {
		b.logger.Warn("failed to close publish channel", zap.Error(err))
	}
	if err := b.conn.Close(); err != nil {
		b.logger.Warn("failed to close broker connection", zap.Error(err))
	}
}

func (b *Bus) trackConsumer(ch *amqp.Channel) {
	b.mu.Lock()
	b.consumerChs = append(b.consumerChs, ch)
	b.mu.Unlock()
}
