package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPSink publishes events to a durable RabbitMQ queue so slow consumers can
// catch up after a restart. It dials per publish and never panics; any error
// is returned for the caller to log and ignore.
type AMQPSink struct {
	url   string
	queue string
}

// NewAMQPSink creates a sink targeting the given broker URL.
func NewAMQPSink(url string) *AMQPSink {
	return &AMQPSink{url: url, queue: "venue.events"}
}

type amqpEnvelope struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

func (s *AMQPSink) Publish(ctx context.Context, event string, payload any) error {
	conn, err := amqp.Dial(s.url)
	if err != nil {
		return fmt.Errorf("amqp dial failed: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("amqp channel open failed: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(s.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("amqp queue declare failed: %w", err)
	}

	body, err := json.Marshal(amqpEnvelope{Event: event, Payload: payload})
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event, err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", s.queue, false, false, pub); err != nil {
		return fmt.Errorf("amqp publish failed: %w", err)
	}
	return nil
}
