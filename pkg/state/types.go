package state

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrInvalidRef indicates a Ref without a domain or with a non-positive seed.
	ErrInvalidRef = errors.New("state: invalid ref")
	// ErrETagMismatch indicates a conditional save lost a race.
	ErrETagMismatch = errors.New("state: etag mismatch")
)

// Ref identifies one persisted snapshot.
type Ref struct {
	Domain string
	Seed   int
}

// Identifier returns the canonical storage key, "<domain>/seed-<n>".
func (r Ref) Identifier() (string, error) {
	domain := strings.TrimSpace(r.Domain)
	if domain == "" {
		return "", fmt.Errorf("%w: domain is required", ErrInvalidRef)
	}
	if strings.ContainsAny(domain, `/\`) {
		return "", fmt.Errorf("%w: domain %q contains a path separator", ErrInvalidRef, domain)
	}
	if domain == "." || domain == ".." {
		return "", fmt.Errorf("%w: domain %q is not a valid name", ErrInvalidRef, domain)
	}
	if r.Seed <= 0 {
		return "", fmt.Errorf("%w: seed must be positive, got %d", ErrInvalidRef, r.Seed)
	}
	return fmt.Sprintf("%s/seed-%d", domain, r.Seed), nil
}

// Meta is storage-owned metadata used for tracing and concurrency control.
type Meta struct {
	SnapshotID string            `json:"snapshot_id,omitempty"`
	ETag       string            `json:"etag,omitempty"`
	UpdatedAt  time.Time         `json:"updated_at,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// Store loads and saves one snapshot per Ref.
type Store[T any] interface {
	Load(ctx context.Context, ref Ref) (snapshot T, meta Meta, ok bool, err error)
	Save(ctx context.Context, ref Ref, snapshot T, meta Meta) (Meta, error)
}

// Deleter is implemented by stores that can drop a snapshot.
type Deleter interface {
	Delete(ctx context.Context, ref Ref) error
}

func cloneMeta(meta Meta) Meta {
	out := meta
	if meta.Extra == nil {
		return out
	}
	out.Extra = make(map[string]string, len(meta.Extra))
	for k, v := range meta.Extra {
		out.Extra[k] = v
	}
	return out
}

// checkETag enforces optimistic concurrency when both sides carry an ETag.
func checkETag(expected Meta, current Meta, exists bool) error {
	if expected.ETag == "" || !exists || current.ETag == "" {
		return nil
	}
	if expected.ETag != current.ETag {
		return fmt.Errorf("%w: expected %q, got %q", ErrETagMismatch, expected.ETag, current.ETag)
	}
	return nil
}
