package queue

import (
	"context"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Consume drains the marketplace event queues and logs each delivery. It
// blocks until ctx is cancelled or the broker connection drops. The worker
// binary wraps this in its own reconnect loop.
func Consume(ctx context.Context, url string, queues ...string) error {
	conn, err := amqp.Dial(url)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	deliveries := make(chan amqp.Delivery)
	for _, q := range queues {
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			return err
		}
		msgs, err := ch.Consume(q, "", false, false, false, false, nil)
		if err != nil {
			return err
		}
		go func(q string, msgs <-chan amqp.Delivery) {
			for d := range msgs {
				deliveries <- d
			}
		}(q, msgs)
	}

	closed := conn.NotifyClose(make(chan *amqp.Error, 1))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-closed:
			return err
		case d := <-deliveries:
			log.Printf("event %s: %s", d.RoutingKey, d.Body)
			_ = d.Ack(false)
		}
	}
}
