package adapter

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/JEGHTNER/Zooting/internal/infrastructure/bus/port"
)

// MemoryBus is an in-process port.Bus for tests and single-node runs.
// Publish dispatches synchronously to the handlers registered at call time,
// which preserves per-topic ordering and makes test flows deterministic.
type MemoryBus struct {
	mu     sync.Mutex
	topics map[string][]*memorySubscription
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{topics: make(map[string][]*memorySubscription)}
}

var _ port.Bus = (*MemoryBus)(nil)

func (b *MemoryBus) Publish(ctx context.Context, topic string, payload string) error {
	b.mu.Lock()
	subs := make([]*memorySubscription, len(b.topics[topic]))
	copy(subs, b.topics[topic])
	b.mu.Unlock()

	// Dispatch outside the lock so handlers may subscribe/unsubscribe.
	for _, sub := range subs {
		sub.deliver(ctx, topic, payload)
	}
	return nil
}

func (b *MemoryBus) Subscribe(_ context.Context, topic string, h port.Handler) (port.Subscription, error) {
	sub := &memorySubscription{bus: b, topic: topic, handler: h}
	b.mu.Lock()
	b.topics[topic] = append(b.topics[topic], sub)
	b.mu.Unlock()
	return sub, nil
}

func (b *MemoryBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for topic, subs := range b.topics {
		for _, sub := range subs {
			sub.closed.Store(true)
		}
		delete(b.topics, topic)
	}
	return nil
}

func (b *MemoryBus) remove(target *memorySubscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.topics[target.topic]
	for i, sub := range subs {
		if sub == target {
			b.topics[target.topic] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(b.topics[target.topic]) == 0 {
		delete(b.topics, target.topic)
	}
}

type memorySubscription struct {
	bus     *MemoryBus
	topic   string
	handler port.Handler

	deliverMu sync.Mutex // serializes deliveries per subscription
	closed    atomic.Bool
}

func (s *memorySubscription) Topic() string { return s.topic }

// Close is safe to call from inside the subscription's own handler: it only
// flips the closed flag and detaches from the bus, never waiting on an
// in-flight delivery.
func (s *memorySubscription) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	s.bus.remove(s)
	return nil
}

func (s *memorySubscription) deliver(ctx context.Context, topic string, payload string) {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()
	if s.closed.Load() {
		return
	}
	if err := s.handler(ctx, topic, payload); err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("bus handler failed")
	}
}
