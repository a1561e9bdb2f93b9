package dataset

import (
	"context"
	"errors"
)

// ErrLoaderRequired is returned when a coordinator is used without a loader.
var ErrLoaderRequired = errors.New("dataset: loader is required")

// Loader produces the records of domain for seed. It is opaque to the
// coordinator and may perform remote calls.
type Loader[T any] interface {
	Load(ctx context.Context, domain string, seed int) ([]T, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc[T any] func(ctx context.Context, domain string, seed int) ([]T, error)

// Load implements Loader.
func (fn LoaderFunc[T]) Load(ctx context.Context, domain string, seed int) ([]T, error) {
	if fn == nil {
		return nil, ErrLoaderRequired
	}
	return fn(ctx, domain, seed)
}

// SeedSource reports the seed currently observed at runtime, typically the
// one resolved for the active request or session.
type SeedSource interface {
	CurrentSeed() (int, bool)
}

// SeedSourceFunc adapts a function to SeedSource.
type SeedSourceFunc func() (int, bool)

// CurrentSeed implements SeedSource.
func (fn SeedSourceFunc) CurrentSeed() (int, bool) {
	if fn == nil {
		return 0, false
	}
	return fn()
}
