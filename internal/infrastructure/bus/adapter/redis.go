package adapter

import (
	"context"
	"fmt"
	"sync"

	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/JEGHTNER/Zooting/internal/infrastructure/bus/port"
)

// RedisBus satisfies port.Bus over Redis pub/sub. Each Subscribe opens its
// own PubSub connection whose receive loop dispatches messages to the
// handler one at a time, which gives the per-topic ordering the contract
// promises.
type RedisBus struct {
	client *redis.Client
}

func NewRedisBus(client *redis.Client) *RedisBus {
	return &RedisBus{client: client}
}

var _ port.Bus = (*RedisBus)(nil)

func (b *RedisBus) Publish(ctx context.Context, topic string, payload string) error {
	if err := b.client.Publish(ctx, topic, payload).Err(); err != nil {
		return fmt.Errorf("bus: publish %s: %w", topic, err)
	}
	return nil
}

func (b *RedisBus) Subscribe(ctx context.Context, topic string, h port.Handler) (port.Subscription, error) {
	ps := b.client.Subscribe(ctx, topic)
	// Force the SUBSCRIBE round-trip so a failing broker surfaces here
	// instead of silently dropping every message.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("bus: subscribe %s: %w", topic, err)
	}

	sub := &redisSubscription{topic: topic, ps: ps}
	go func() {
		for msg := range ps.Channel() {
			if err := h(context.Background(), msg.Channel, msg.Payload); err != nil {
				log.Error().Err(err).Str("topic", msg.Channel).Msg("bus handler failed")
			}
		}
	}()
	return sub, nil
}

func (b *RedisBus) Close() error {
	return b.client.Close()
}

type redisSubscription struct {
	topic string
	ps    *redis.PubSub
	once  sync.Once
}

func (s *redisSubscription) Topic() string { return s.topic }

func (s *redisSubscription) Close() error {
	var err error
	s.once.Do(func() { err = s.ps.Close() })
	return err
}
