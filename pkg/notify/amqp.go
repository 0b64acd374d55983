package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPNotifier publishes notifications to a RabbitMQ topic exchange.
// The email worker consumes them off the queue; delivery to the guest's
// inbox never blocks a booking operation.
type AMQPNotifier struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func NewAMQPNotifier(url, exchange string) (*AMQPNotifier, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	return &AMQPNotifier{conn: conn, ch: ch, exchange: exchange}, nil
}

type message struct {
	Kind       string         `json:"kind"`
	Recipient  string         `json:"recipient"`
	OccurredAt string         `json:"occurred_at"`
	Payload    map[string]any `json:"payload"`
}

// Notify publishes the notification with the kind as routing key.
func (n *AMQPNotifier) Notify(ctx context.Context, kind, recipient string, payload map[string]any) error {
	body, err := json.Marshal(message{
		Kind:       kind,
		Recipient:  recipient,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
		Payload:    payload,
	})
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	return n.ch.PublishWithContext(ctx, n.exchange, kind, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}

func (n *AMQPNotifier) Close() error {
	if n.ch != nil {
		_ = n.ch.Close()
	}
	if n.conn != nil {
		return n.conn.Close()
	}
	return nil
}
