package main

// Worker drains the marketplace event queues and logs each delivery. It
// reconnects with a fixed backoff when the broker connection drops.

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/raniadwi/recycle-market/internal/queue"
)

func main() {
	_ = godotenv.Load()

	url := os.Getenv("RABBITMQ_URL")
	if url == "" {
		log.Fatal("missing required env var: RABBITMQ_URL")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("worker consuming %s, %s", queue.QueueAccountRegistered, queue.QueueProductSoldOut)
	for {
		err := queue.Consume(ctx, url, queue.QueueAccountRegistered, queue.QueueProductSoldOut)
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Printf("consume: %v, reconnecting in 5s", err)
		select {
		case <-ctx.Done():
			return
		case <-time.After(5 * time.Second):
		}
	}
}
