package port

import "context"

// Handler consumes one delivered message. Handlers for a given topic run
// sequentially in delivery order; handlers across topics may run
// concurrently. A returned error is logged by the adapter and does not stop
// the subscription, so handlers must be safe to invoke again.
type Handler func(ctx context.Context, topic string, payload string) error

// Subscription is the live registration of a handler on one topic. Close is
// idempotent; closing an already-closed subscription is a no-op.
type Subscription interface {
	Topic() string
	Close() error
}

// Bus is a fire-and-forget publish/subscribe channel. Delivery is
// at-least-once to currently registered subscribers only; messages published
// while nobody is subscribed are lost. Ordering is preserved per topic
// relative to a single publisher.
type Bus interface {
	Publish(ctx context.Context, topic string, payload string) error
	Subscribe(ctx context.Context, topic string, h Handler) (Subscription, error)
	Close() error
}
