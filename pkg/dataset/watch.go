package dataset

import (
	"context"
	"sync"

	"github.com/goliatone/go-variation/pkg/activity"
	"github.com/goliatone/go-variation/pkg/broadcast"
)

// Watch reloads the dataset whenever channel announces a seed change. A
// change without a seed reloads from the SeedSource or base seed. Watching
// stops when the returned func is called or ctx ends.
func (c *Coordinator[T]) Watch(ctx context.Context, channel broadcast.Channel) (stop func()) {
	if channel == nil {
		return func() {}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	unsubscribe := channel.Subscribe(func(hctx context.Context, change broadcast.SeedChange) {
		input := c.eventInput(change.Seed, c.Seed())
		if change.Origin != "" {
			input.Metadata = map[string]any{"origin": change.Origin}
		}
		c.emit(hctx, activity.BuildSeedChangedEvent(input))
		c.Reload(hctx, change.Seed)
	})

	done := make(chan struct{})
	var once sync.Once
	stop = func() {
		once.Do(func() {
			unsubscribe()
			close(done)
		})
	}
	go func() {
		select {
		case <-ctx.Done():
			stop()
		case <-done:
		}
	}()
	return stop
}
