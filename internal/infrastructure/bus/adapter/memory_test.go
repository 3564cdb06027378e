package adapter

import (
	"context"
	"testing"

	"github.com/JEGHTNER/Zooting/internal/infrastructure/bus/port"
)

func TestMemoryBusPublishSubscribe(t *testing.T) {
	ctx := context.Background()
	bus := NewMemoryBus()
	defer bus.Close()

	var got []string
	sub, err := bus.Subscribe(ctx, "hash:r1", func(_ context.Context, topic, payload string) error {
		got = append(got, topic+"|"+payload)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if sub.Topic() != "hash:r1" {
		t.Fatalf("topic = %q, want %q", sub.Topic(), "hash:r1")
	}

	if err := bus.Publish(ctx, "hash:r1", "REGISTER 1"); err != nil {
		t.Fatal(err)
	}
	if err := bus.Publish(ctx, "hash:other", "REGISTER 1"); err != nil {
		t.Fatal(err)
	}
	if err := bus.Publish(ctx, "hash:r1", "REGISTER 2"); err != nil {
		t.Fatal(err)
	}

	want := []string{"hash:r1|REGISTER 1", "hash:r1|REGISTER 2"}
	if len(got) != len(want) {
		t.Fatalf("deliveries = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("delivery %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestMemoryBusCloseStopsDelivery(t *testing.T) {
	ctx := context.Background()
	bus := NewMemoryBus()
	defer bus.Close()

	var count int
	sub, err := bus.Subscribe(ctx, "t", func(_ context.Context, _, _ string) error {
		count++
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	_ = bus.Publish(ctx, "t", "a")
	if err := sub.Close(); err != nil {
		t.Fatal(err)
	}
	// Close is idempotent.
	if err := sub.Close(); err != nil {
		t.Fatal(err)
	}
	_ = bus.Publish(ctx, "t", "b")

	if count != 1 {
		t.Fatalf("deliveries = %d, want 1", count)
	}
}

func TestMemoryBusCloseFromOwnHandler(t *testing.T) {
	ctx := context.Background()
	bus := NewMemoryBus()
	defer bus.Close()

	var count int
	var sub port.Subscription
	sub, err := bus.Subscribe(ctx, "t", func(_ context.Context, _, _ string) error {
		count++
		return sub.Close()
	})
	if err != nil {
		t.Fatal(err)
	}

	// Must not deadlock, and the second publish must not reach the handler.
	_ = bus.Publish(ctx, "t", "a")
	_ = bus.Publish(ctx, "t", "b")

	if count != 1 {
		t.Fatalf("deliveries = %d, want 1", count)
	}
}

func TestMemoryBusMultipleSubscribers(t *testing.T) {
	ctx := context.Background()
	bus := NewMemoryBus()
	defer bus.Close()

	var first, second int
	if _, err := bus.Subscribe(ctx, "t", func(_ context.Context, _, _ string) error {
		first++
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := bus.Subscribe(ctx, "t", func(_ context.Context, _, _ string) error {
		second++
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	_ = bus.Publish(ctx, "t", "x")
	if first != 1 || second != 1 {
		t.Fatalf("deliveries = (%d, %d), want (1, 1)", first, second)
	}
}
