package dataset

import (
	"context"
	"fmt"
	"sync"
	"time"

	variation "github.com/goliatone/go-variation"
	"github.com/goliatone/go-variation/pkg/activity"
)

// Coordinator owns the record list of one dataset domain.
//
// State changes are guarded by mu. Every replacement of the list and the
// notification that follows run under fanout, so subscribers see
// replacements in order and never interleaved. Subscribers run synchronously
// and must not call Load, Reload or Subscribe from inside the callback.
type Coordinator[T Record] struct {
	domain   string
	loader   Loader[T]
	settings settings

	fanout sync.Mutex

	mu       sync.Mutex
	records  []T
	lastGood []T
	cleared  bool
	ready    bool
	seed     int
	gate     *Gate
	inflight *Operation
	subs     []subscription[T]
	nextSub  uint64
}

type subscription[T any] struct {
	id uint64
	fn func([]T)
}

// New builds a coordinator for domain. It starts not ready; the first Load or
// Reload settles WhenReady.
func New[T Record](domain string, loader Loader[T], opts ...Option) *Coordinator[T] {
	s := defaultSettings()
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	return &Coordinator[T]{
		domain:   domain,
		loader:   loader,
		settings: s,
		gate:     newGate(),
	}
}

// Domain returns the dataset domain.
func (c *Coordinator[T]) Domain() string {
	return c.domain
}

// Ready reports whether the current load cycle has settled.
func (c *Coordinator[T]) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready
}

// Seed returns the seed of the last successful load, 0 before the first.
func (c *Coordinator[T]) Seed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seed
}

// WhenReady blocks until the current load cycle settles or ctx ends. Load
// failures settle the cycle too.
func (c *Coordinator[T]) WhenReady(ctx context.Context) error {
	c.mu.Lock()
	if c.ready {
		c.mu.Unlock()
		return nil
	}
	gate := c.gate
	c.mu.Unlock()
	return gate.Wait(ctx)
}

// Load fetches the records for seed and replaces the list. On failure the
// last successful list is kept, the coordinator is still marked ready and the
// error is returned to this caller only.
func (c *Coordinator[T]) Load(ctx context.Context, seed int) error {
	if c.loader == nil {
		c.fail(ctx, seed, ErrLoaderRequired, 0)
		return ErrLoaderRequired
	}
	seed = c.effectiveSeed(seed)
	start := time.Now()
	records, err := c.loader.Load(ctx, c.domain, seed)
	if err != nil {
		err = fmt.Errorf("dataset: load %s seed %d: %w", c.domain, seed, err)
		c.fail(ctx, seed, err, time.Since(start))
		return err
	}
	c.apply(ctx, seed, records, time.Since(start))
	return nil
}

// Reload switches the dataset to another seed. seed 0 means unspecified; the
// target is then taken from the SeedSource, the base seed or the canonical
// seed, in that order.
//
// Only one reload runs at a time: while one is in flight every call returns
// its Operation. When the target equals the loaded seed and the coordinator
// is ready, a completed Operation is returned. Otherwise the list is cleared
// and fanned out synchronously, and the fetch runs after the settle delay on
// a goroutine that ignores cancellation of ctx.
func (c *Coordinator[T]) Reload(ctx context.Context, seed int) *Operation {
	if ctx == nil {
		ctx = context.Background()
	}

	c.mu.Lock()
	if c.inflight != nil {
		op := c.inflight
		c.mu.Unlock()
		return op
	}
	target := c.target(seed)
	if target == c.seed && c.ready {
		c.mu.Unlock()
		return completedOperation(target)
	}
	op := newOperation(target)
	previous := c.seed
	c.inflight = op
	c.ready = false
	c.gate = newGate()
	c.mu.Unlock()

	c.clear()
	c.emit(ctx, activity.BuildDatasetReloadStartedEvent(c.eventInput(target, previous)))

	go func(ctx context.Context) {
		if delay := c.settings.settleDelay; delay > 0 {
			time.Sleep(delay)
		}
		err := c.Load(ctx, target)

		c.mu.Lock()
		c.inflight = nil
		c.mu.Unlock()
		op.finish(err)
	}(context.WithoutCancel(ctx))

	return op
}

// Subscribe replays the current list to fn, then calls it on every
// replacement. The returned func removes exactly this registration; calling
// it again is a no-op.
func (c *Coordinator[T]) Subscribe(fn func(records []T)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}

	c.fanout.Lock()
	c.mu.Lock()
	c.nextSub++
	id := c.nextSub
	c.subs = append(c.subs, subscription[T]{id: id, fn: fn})
	snapshot := cloneRecords(c.records)
	c.mu.Unlock()
	fn(snapshot)
	c.fanout.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			for i, sub := range c.subs {
				if sub.id == id {
					c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Subscribers returns the number of registrations.
func (c *Coordinator[T]) Subscribers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}

func (c *Coordinator[T]) apply(ctx context.Context, seed int, records []T, took time.Duration) {
	c.fanout.Lock()
	c.mu.Lock()
	previous := c.seed
	c.records = cloneRecords(records)
	c.lastGood = c.records
	c.cleared = false
	c.seed = seed
	c.ready = true
	gate := c.gate
	subs := append([]subscription[T](nil), c.subs...)
	current := c.records
	c.mu.Unlock()

	gate.resolve()
	notify(subs, current)
	c.fanout.Unlock()

	c.settings.logger.Log(variation.LogEvent{
		Level:     variation.LogLevelDebug,
		Component: "dataset",
		Message:   "dataset loaded",
		Seed:      seed,
		Key:       c.domain,
		Duration:  took,
		Fields:    map[string]any{"records": len(current)},
	})
	input := c.eventInput(seed, previous)
	input.Records = len(current)
	input.Duration = took
	c.emit(ctx, activity.BuildDatasetLoadedEvent(input))
}

func (c *Coordinator[T]) fail(ctx context.Context, seed int, err error, took time.Duration) {
	c.fanout.Lock()
	c.mu.Lock()
	restored := c.cleared
	if restored {
		c.records = c.lastGood
		c.cleared = false
	}
	c.ready = true
	gate := c.gate
	subs := append([]subscription[T](nil), c.subs...)
	current := c.records
	previous := c.seed
	c.mu.Unlock()

	gate.resolve()
	if restored {
		notify(subs, current)
	}
	c.fanout.Unlock()

	c.settings.logger.Log(variation.LogEvent{
		Level:     variation.LogLevelError,
		Component: "dataset",
		Message:   "dataset load failed",
		Seed:      seed,
		Key:       c.domain,
		Duration:  took,
		Err:       err,
		Fields:    map[string]any{"records": len(current), "restored": restored},
	})
	input := c.eventInput(seed, previous)
	input.Records = len(current)
	input.Duration = took
	input.Err = err
	c.emit(ctx, activity.BuildDatasetLoadFailedEvent(input))
}

func (c *Coordinator[T]) clear() {
	c.fanout.Lock()
	defer c.fanout.Unlock()

	c.mu.Lock()
	c.records = nil
	c.cleared = true
	subs := append([]subscription[T](nil), c.subs...)
	c.mu.Unlock()

	notify(subs, nil)
}

// target resolves the reload seed. Callers hold mu.
func (c *Coordinator[T]) target(seed int) int {
	if seed == 0 && c.settings.source != nil {
		if current, ok := c.settings.source.CurrentSeed(); ok {
			seed = current
		}
	}
	if seed == 0 {
		seed = c.settings.baseSeed
	}
	return c.effectiveSeed(seed)
}

func (c *Coordinator[T]) effectiveSeed(seed int) int {
	if c.settings.policy.Canonical(seed) {
		return variation.CanonicalSeed
	}
	return c.settings.policy.Normalize(seed)
}

func (c *Coordinator[T]) eventInput(seed, previous int) activity.DatasetEventInput {
	return activity.DatasetEventInput{
		ActorID:      c.settings.actorID,
		TenantID:     c.settings.tenantID,
		Domain:       c.domain,
		Seed:         seed,
		PreviousSeed: previous,
	}
}

func (c *Coordinator[T]) emit(ctx context.Context, event activity.Event) {
	if !c.settings.emitter.Enabled() {
		return
	}
	if err := c.settings.emitter.Emit(ctx, event); err != nil {
		c.settings.logger.Log(variation.LogEvent{
			Level:     variation.LogLevelWarn,
			Component: "dataset",
			Message:   "activity hook failed",
			Seed:      event.Seed,
			Key:       event.Verb,
			Err:       err,
		})
	}
}

func notify[T any](subs []subscription[T], records []T) {
	for _, sub := range subs {
		sub.fn(cloneRecords(records))
	}
}

func cloneRecords[T any](records []T) []T {
	out := make([]T, len(records))
	copy(out, records)
	return out
}
