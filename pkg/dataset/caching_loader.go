package dataset

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	variation "github.com/goliatone/go-variation"
	"github.com/goliatone/go-variation/pkg/state"
)

// CachingLoader puts a snapshot store in front of a Loader. Concurrent loads
// of the same (domain, seed) share one fetch. The store is never
// authoritative: its errors are logged and the wrapped loader is used.
type CachingLoader[T any] struct {
	next   Loader[T]
	store  state.Store[[]T]
	logger variation.Logger
	group  singleflight.Group
	newID  func() string
}

// CachingOption configures a CachingLoader.
type CachingOption func(*cachingSettings)

type cachingSettings struct {
	logger variation.Logger
	newID  func() string
}

// WithCacheLogger sets the logger for cache errors and hits.
func WithCacheLogger(logger variation.Logger) CachingOption {
	return func(s *cachingSettings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSnapshotIDs overrides the snapshot ID generator. The default is a
// random UUID.
func WithSnapshotIDs(fn func() string) CachingOption {
	return func(s *cachingSettings) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// NewCachingLoader wraps next with store.
func NewCachingLoader[T any](next Loader[T], store state.Store[[]T], opts ...CachingOption) *CachingLoader[T] {
	s := cachingSettings{logger: variation.NopLogger(), newID: uuid.NewString}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	return &CachingLoader[T]{next: next, store: store, logger: s.logger, newID: s.newID}
}

// Load implements Loader.
func (l *CachingLoader[T]) Load(ctx context.Context, domain string, seed int) ([]T, error) {
	if l.next == nil {
		return nil, ErrLoaderRequired
	}
	ref := state.Ref{Domain: domain, Seed: seed}
	key, err := ref.Identifier()
	if err != nil || l.store == nil {
		return l.next.Load(ctx, domain, seed)
	}

	value, err, _ := l.group.Do(key, func() (any, error) {
		if cached, meta, ok, err := l.store.Load(ctx, ref); err != nil {
			l.log(variation.LogLevelWarn, "snapshot load failed", seed, key, err, nil)
		} else if ok {
			l.log(variation.LogLevelDebug, "snapshot hit", seed, key, nil, map[string]any{"snapshot_id": meta.SnapshotID})
			return cached, nil
		}

		records, err := l.next.Load(ctx, domain, seed)
		if err != nil {
			return nil, err
		}
		meta := state.Meta{
			SnapshotID: l.newID(),
			Extra:      map[string]string{"domain": domain, "records": fmt.Sprint(len(records))},
		}
		if _, err := l.store.Save(ctx, ref, records, meta); err != nil {
			l.log(variation.LogLevelWarn, "snapshot save failed", seed, key, err, nil)
		}
		return records, nil
	})
	if err != nil {
		return nil, err
	}
	return cloneRecords(value.([]T)), nil
}

// Invalidate drops the cached snapshot for (domain, seed) when the store
// supports deletion.
func (l *CachingLoader[T]) Invalidate(ctx context.Context, domain string, seed int) error {
	deleter, ok := l.store.(state.Deleter)
	if !ok {
		return nil
	}
	return deleter.Delete(ctx, state.Ref{Domain: domain, Seed: seed})
}

func (l *CachingLoader[T]) log(level variation.LogLevel, msg string, seed int, key string, err error, fields map[string]any) {
	l.logger.Log(variation.LogEvent{
		Level:     level,
		Component: "dataset.cache",
		Message:   msg,
		Seed:      seed,
		Key:       key,
		Err:       err,
		Fields:    fields,
	})
}
