package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher delivers activity messages.
type Publisher interface {
	Publish(ctx context.Context, a EventActivity) error
}

// NopPublisher drops every message; used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, EventActivity) error { return nil }

// AMQPPublisher publishes activity to RabbitMQ.  It dials per message so a
// broker restart never leaves it holding a dead connection.
type AMQPPublisher struct {
	url string
}

func NewAMQPPublisher(url string) *AMQPPublisher { return &AMQPPublisher{url: url} }

// Publish sends a to the activity queue as a persistent JSON message.
func (p *AMQPPublisher) Publish(ctx context.Context, a EventActivity) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(ActivityQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	body, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal activity: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", ActivityQueue, false, false, pub); err != nil {
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	return nil
}
