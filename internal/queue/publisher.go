package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher emits marketplace events to RabbitMQ. Publishing is best-effort
// and synchronous within the request: errors are logged and returned so the
// caller can ignore them without interrupting the main flow. A nil Publisher
// is a valid no-op.
type Publisher struct {
	URL string
}

// NewPublisher returns a Publisher, or nil when no broker URL is configured
// so callers can skip publishing entirely.
func NewPublisher(url string) *Publisher {
	if url == "" {
		return nil
	}
	return &Publisher{URL: url}
}

// AccountRegistered publishes ev to the account.registered queue.
func (p *Publisher) AccountRegistered(ctx context.Context, ev AccountRegisteredEvent) error {
	return p.publish(ctx, QueueAccountRegistered, ev)
}

// ProductSoldOut publishes ev to the product.soldout queue.
func (p *Publisher) ProductSoldOut(ctx context.Context, ev ProductSoldOutEvent) error {
	return p.publish(ctx, QueueProductSoldOut, ev)
}

// publish dials the broker, declares the durable queue (idempotent) and
// sends one persistent JSON message. The connection is per-publish; event
// volume here is a handful per request at most.
func (p *Publisher) publish(ctx context.Context, queueName string, payload any) error {
	if p == nil {
		return nil
	}
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx,
		"",        // default exchange
		queueName, // routing key = queue name
		false,     // mandatory
		false,     // immediate
		pub,
	); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
