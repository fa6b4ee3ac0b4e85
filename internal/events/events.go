package events

import (
	"context"
	"time"
)

const (
	TopicProducts = "product_events"
	TopicCarts    = "cart_events"
	TopicOrders   = "order_events"
	TopicUsers    = "user_events"
)

type Event struct {
	Type   string    `json:"type"`
	ID     string    `json:"id"`
	UserID string    `json:"userId,omitempty"`
	Data   any       `json:"data,omitempty"`
	At     time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, topic, key string, ev Event) error
	Close() error
}

// Nop drops every event; used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, string, Event) error { return nil }
func (Nop) Close() error                                         { return nil }
