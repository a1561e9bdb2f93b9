package dataset

import (
	"context"
	"sync"
)

// Gate is a one-shot readiness signal. It settles exactly once and is
// replaced, never reset, when a new load cycle starts.
type Gate struct {
	done chan struct{}
	once sync.Once
}

func newGate() *Gate {
	return &Gate{done: make(chan struct{})}
}

// Done is closed when the gate settles.
func (g *Gate) Done() <-chan struct{} {
	return g.done
}

// Settled reports whether the gate has settled.
func (g *Gate) Settled() bool {
	select {
	case <-g.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the gate settles or ctx ends.
func (g *Gate) Wait(ctx context.Context) error {
	select {
	case <-g.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (g *Gate) resolve() {
	g.once.Do(func() { close(g.done) })
}

// Operation is the pending result of a reload. Every caller coalesced into
// the same in-flight reload receives the same *Operation.
type Operation struct {
	seed int
	done chan struct{}
	err  error
}

func newOperation(seed int) *Operation {
	return &Operation{seed: seed, done: make(chan struct{})}
}

func completedOperation(seed int) *Operation {
	op := newOperation(seed)
	op.finish(nil)
	return op
}

// Seed is the target seed of the reload.
func (o *Operation) Seed() int {
	return o.seed
}

// Done is closed when the reload finished.
func (o *Operation) Done() <-chan struct{} {
	return o.done
}

// Wait blocks until the reload finishes and returns its load error, or the
// context error if ctx ends first.
func (o *Operation) Wait(ctx context.Context) error {
	select {
	case <-o.done:
		return o.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns the load error once Done is closed, nil before.
func (o *Operation) Err() error {
	select {
	case <-o.done:
		return o.err
	default:
		return nil
	}
}

func (o *Operation) finish(err error) {
	o.err = err
	close(o.done)
}
