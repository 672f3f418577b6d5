// Package queue defines marketplace events exchanged over the message broker
// and the best-effort publisher/consumer around them.
package queue

// Queue names. One durable queue per event type, bound to the default
// exchange.
const (
	QueueAccountRegistered = "account.registered"
	QueueProductSoldOut    = "product.soldout"
)

// AccountRegisteredEvent is published when a new seller account is created.
// Downstream consumers can use it for welcome mail or analytics without
// touching the primary database.
type AccountRegisteredEvent struct {
	AccountID    uint64 `json:"account_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	RegisteredAt string `json:"registered_at"`
}

// ProductSoldOutEvent is published when an update drops a product's stock to
// zero.
type ProductSoldOutEvent struct {
	ProductID uint64 `json:"product_id"`
	AccountID uint64 `json:"account_id"`
	Name      string `json:"name"`
	SoldOutAt string `json:"sold_out_at"`
}
