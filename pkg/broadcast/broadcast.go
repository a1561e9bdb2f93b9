// Package broadcast carries "seed changed" notifications between dataset
// coordinators. Delivery is advisory: subscribers react by reloading, and a
// lost message only delays convergence.
package broadcast

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

// ErrClosed is returned by Publish after Close.
var ErrClosed = errors.New("broadcast: channel closed")

// SeedChange announces that the runtime seed moved.
type SeedChange struct {
	Seed   int
	Origin string
	At     time.Time
}

// Handler receives seed changes.
type Handler func(ctx context.Context, change SeedChange)

// Channel is the pub/sub contract injected into coordinators.
type Channel interface {
	Publish(ctx context.Context, change SeedChange) error
	Subscribe(handler Handler) (unsubscribe func())
}

// MemoryChannel is an in-process Channel. Handlers run synchronously on the
// publishing goroutine, in subscription order.
type MemoryChannel struct {
	mu       sync.Mutex
	next     uint64
	handlers []registration
	closed   bool
	now      func() time.Time
}

type registration struct {
	id      uint64
	handler Handler
}

// NewMemoryChannel returns an open channel.
func NewMemoryChannel() *MemoryChannel {
	return &MemoryChannel{now: time.Now}
}

// Publish delivers change to every current subscriber. A missing At is
// stamped with the current time.
func (c *MemoryChannel) Publish(ctx context.Context, change SeedChange) error {
	if ctx == nil {
		ctx = context.Background()
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	handlers := make([]Handler, len(c.handlers))
	for i, reg := range c.handlers {
		handlers[i] = reg.handler
	}
	c.mu.Unlock()

	change.Origin = strings.TrimSpace(change.Origin)
	if change.At.IsZero() {
		change.At = c.now()
	}
	for _, handler := range handlers {
		handler(ctx, change)
	}
	return nil
}

// Subscribe registers handler. The returned func removes exactly this
// registration and may be called more than once.
func (c *MemoryChannel) Subscribe(handler Handler) func() {
	if handler == nil {
		return func() {}
	}
	c.mu.Lock()
	c.next++
	id := c.next
	c.handlers = append(c.handlers, registration{id: id, handler: handler})
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			for i, reg := range c.handlers {
				if reg.id == id {
					c.handlers = append(c.handlers[:i:i], c.handlers[i+1:]...)
					return
				}
			}
		})
	}
}

// Len reports the number of subscribers.
func (c *MemoryChannel) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.handlers)
}

// Close drops every subscriber and rejects further publishes.
func (c *MemoryChannel) Close() {
	c.mu.Lock()
	c.closed = true
	c.handlers = nil
	c.mu.Unlock()
}
