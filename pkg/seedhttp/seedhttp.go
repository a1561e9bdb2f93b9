// Package seedhttp resolves the variation seed of an HTTP request and stores
// it in the request context.
//
// Sources are consulted in order: the chi URL parameter, the query
// parameter, then the header. Missing or invalid input resolves to the
// canonical seed.
package seedhttp

import (
	"context"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/go-chi/chi/v5"

	variation "github.com/goliatone/go-variation"
)

// Defaults for the request fields carrying a seed.
const (
	DefaultQueryParam = "seed"
	DefaultHeader     = "X-Variation-Seed"
	DefaultURLParam   = "seed"
)

type contextKey struct{}

// Resolver extracts seeds from requests.
type Resolver struct {
	Policy     variation.Policy
	QueryParam string
	Header     string
	URLParam   string
	// Tracker, when set, observes every resolved seed.
	Tracker *Tracker
}

// NewResolver returns a resolver using the default field names.
func NewResolver(policy variation.Policy) *Resolver {
	return &Resolver{
		Policy:     policy,
		QueryParam: DefaultQueryParam,
		Header:     DefaultHeader,
		URLParam:   DefaultURLParam,
	}
}

// Resolve returns the clamped seed of r. A disabled policy always yields the
// canonical seed.
func (res *Resolver) Resolve(r *http.Request) int {
	if !res.Policy.Enabled {
		return variation.CanonicalSeed
	}
	return res.Policy.Normalize(variation.ParseSeed(res.raw(r), res.Policy.MaxSeed))
}

func (res *Resolver) raw(r *http.Request) string {
	if res.URLParam != "" {
		if value := chi.URLParam(r, res.URLParam); value != "" {
			return value
		}
	}
	if res.QueryParam != "" {
		if value := r.URL.Query().Get(res.QueryParam); value != "" {
			return value
		}
	}
	if res.Header != "" {
		return r.Header.Get(res.Header)
	}
	return ""
}

// Middleware stores the resolved seed in the request context and echoes it
// in the response header.
func (res *Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seed := res.Resolve(r)
		res.Tracker.Observe(seed)
		if res.Header != "" {
			w.Header().Set(res.Header, strconv.Itoa(seed))
		}
		next.ServeHTTP(w, r.WithContext(WithSeed(r.Context(), seed)))
	})
}

// WithSeed returns a copy of ctx carrying seed.
func WithSeed(ctx context.Context, seed int) context.Context {
	return context.WithValue(ctx, contextKey{}, seed)
}

// FromContext returns the seed stored by Middleware, or CanonicalSeed.
func FromContext(ctx context.Context) int {
	if ctx == nil {
		return variation.CanonicalSeed
	}
	if seed, ok := ctx.Value(contextKey{}).(int); ok {
		return seed
	}
	return variation.CanonicalSeed
}

// Tracker remembers the seed of the most recent request seen by a
// Resolver's Middleware. It implements dataset.SeedSource, so a process-wide
// coordinator can follow the seed clients are browsing with.
type Tracker struct {
	seed atomic.Int64
}

// Observe records seed. Non-positive values are ignored.
func (t *Tracker) Observe(seed int) {
	if t == nil || seed <= 0 {
		return
	}
	t.seed.Store(int64(seed))
}

// CurrentSeed implements dataset.SeedSource. It reports false until a seed
// has been observed.
func (t *Tracker) CurrentSeed() (int, bool) {
	if t == nil {
		return 0, false
	}
	seed := t.seed.Load()
	return int(seed), seed > 0
}
