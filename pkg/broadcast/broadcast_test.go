package broadcast

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryChannelDeliversInOrder(t *testing.T) {
	ch := NewMemoryChannel()
	var got []string
	ch.Subscribe(func(_ context.Context, change SeedChange) {
		got = append(got, "first")
		if change.Seed != 42 || change.Origin != "tab-a" {
			t.Fatalf("unexpected change %+v", change)
		}
		if change.At.IsZero() {
			t.Fatalf("expected timestamp to be stamped")
		}
	})
	ch.Subscribe(func(context.Context, SeedChange) { got = append(got, "second") })

	if err := ch.Publish(context.Background(), SeedChange{Seed: 42, Origin: " tab-a "}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(got) != 2 || got[0] != "first" || got[1] != "second" {
		t.Fatalf("unexpected delivery order %v", got)
	}
}

func TestMemoryChannelUnsubscribeRemovesOnlyThatRegistration(t *testing.T) {
	ch := NewMemoryChannel()
	calls := map[string]int{}
	handler := func(name string) Handler {
		return func(context.Context, SeedChange) { calls[name]++ }
	}
	unsubA := ch.Subscribe(handler("a"))
	ch.Subscribe(handler("b"))

	unsubA()
	unsubA()
	if ch.Len() != 1 {
		t.Fatalf("expected one subscriber left, got %d", ch.Len())
	}
	_ = ch.Publish(context.Background(), SeedChange{Seed: 3})
	if calls["a"] != 0 || calls["b"] != 1 {
		t.Fatalf("unexpected calls %v", calls)
	}
}

func TestMemoryChannelClose(t *testing.T) {
	ch := NewMemoryChannel()
	ch.Subscribe(func(context.Context, SeedChange) { t.Fatalf("closed channel must not deliver") })
	ch.Close()
	if err := ch.Publish(context.Background(), SeedChange{Seed: 2}); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if ch.Len() != 0 {
		t.Fatalf("expected no subscribers after close")
	}
}

func TestMemoryChannelNilHandler(t *testing.T) {
	ch := NewMemoryChannel()
	unsub := ch.Subscribe(nil)
	unsub()
	if ch.Len() != 0 {
		t.Fatalf("nil handler must not register")
	}
}
