package state

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type snapshot struct {
	Names []string `json:"names"`
}

func TestRefIdentifier(t *testing.T) {
	id, err := Ref{Domain: "hotels", Seed: 42}.Identifier()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "hotels/seed-42" {
		t.Fatalf("unexpected identifier %q", id)
	}

	for _, ref := range []Ref{{Seed: 1}, {Domain: "hotels"}, {Domain: "a/b", Seed: 2}, {Domain: "  ", Seed: 3}, {Domain: "..", Seed: 4}, {Domain: ".", Seed: 5}} {
		if _, err := ref.Identifier(); !errors.Is(err, ErrInvalidRef) {
			t.Fatalf("expected ErrInvalidRef for %+v, got %v", ref, err)
		}
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore[snapshot]()
	ref := Ref{Domain: "hotels", Seed: 7}

	if _, _, ok, err := store.Load(ctx, ref); err != nil || ok {
		t.Fatalf("expected empty store, ok=%v err=%v", ok, err)
	}

	meta, err := store.Save(ctx, ref, snapshot{Names: []string{"a"}}, Meta{SnapshotID: "s1", Extra: map[string]string{"k": "v"}})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if meta.ETag == "" || meta.UpdatedAt.IsZero() {
		t.Fatalf("expected etag and timestamp, got %+v", meta)
	}

	got, loaded, ok, err := store.Load(ctx, ref)
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if len(got.Names) != 1 || got.Names[0] != "a" {
		t.Fatalf("unexpected snapshot %+v", got)
	}
	if loaded.SnapshotID != "s1" || loaded.Extra["k"] != "v" {
		t.Fatalf("unexpected meta %+v", loaded)
	}

	loaded.Extra["k"] = "mutated"
	_, again, _, _ := store.Load(ctx, ref)
	if again.Extra["k"] != "v" {
		t.Fatalf("expected meta to be cloned, got %+v", again.Extra)
	}
}

func TestMemoryStoreETagMismatch(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore[snapshot]()
	ref := Ref{Domain: "hotels", Seed: 7}

	first, err := store.Save(ctx, ref, snapshot{}, Meta{})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := store.Save(ctx, ref, snapshot{}, Meta{ETag: first.ETag}); err != nil {
		t.Fatalf("conditional save with current etag: %v", err)
	}
	if _, err := store.Save(ctx, ref, snapshot{}, Meta{ETag: first.ETag}); !errors.Is(err, ErrETagMismatch) {
		t.Fatalf("expected ErrETagMismatch, got %v", err)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore[snapshot]()
	ref := Ref{Domain: "hotels", Seed: 3}
	if _, err := store.Save(ctx, ref, snapshot{}, Meta{}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if store.Len() != 1 {
		t.Fatalf("expected one record")
	}
	if err := store.Delete(ctx, ref); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected store to be empty")
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := NewFileStore[snapshot](dir)
	ref := Ref{Domain: "hotels", Seed: 12}

	if _, _, ok, err := store.Load(ctx, ref); err != nil || ok {
		t.Fatalf("expected miss, ok=%v err=%v", ok, err)
	}

	meta, err := store.Save(ctx, ref, snapshot{Names: []string{"x", "y"}}, Meta{SnapshotID: "snap"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if len(meta.ETag) != 64 {
		t.Fatalf("expected sha256 etag, got %q", meta.ETag)
	}
	if _, err := os.Stat(filepath.Join(dir, "hotels", "seed-12.json")); err != nil {
		t.Fatalf("expected snapshot file: %v", err)
	}

	got, loaded, ok, err := store.Load(ctx, ref)
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if len(got.Names) != 2 || got.Names[1] != "y" {
		t.Fatalf("unexpected snapshot %+v", got)
	}
	if loaded.ETag != meta.ETag || loaded.SnapshotID != "snap" {
		t.Fatalf("unexpected meta %+v", loaded)
	}

	if _, err := store.Save(ctx, ref, snapshot{}, Meta{ETag: "stale"}); !errors.Is(err, ErrETagMismatch) {
		t.Fatalf("expected ErrETagMismatch, got %v", err)
	}

	if err := store.Delete(ctx, ref); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(ctx, ref); err != nil {
		t.Fatalf("second delete should be a no-op: %v", err)
	}
	if _, _, ok, _ := store.Load(ctx, ref); ok {
		t.Fatalf("expected snapshot to be gone")
	}
}

func TestFileStoreRejectsCorruptFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "hotels"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "hotels", "seed-5.json"), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	store := NewFileStore[snapshot](dir)
	if _, _, _, err := store.Load(ctx, Ref{Domain: "hotels", Seed: 5}); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestFileStoreStaysInsideDir(t *testing.T) {
	ctx := context.Background()
	parent := t.TempDir()
	dir := filepath.Join(parent, "cache")
	store := NewFileStore[snapshot](dir)

	for _, domain := range []string{"..", "."} {
		if _, err := store.Save(ctx, Ref{Domain: domain, Seed: 1}, snapshot{}, Meta{}); !errors.Is(err, ErrInvalidRef) {
			t.Fatalf("expected ErrInvalidRef for domain %q, got %v", domain, err)
		}
	}
	if _, err := os.Stat(filepath.Join(parent, "seed-1.json")); !os.IsNotExist(err) {
		t.Fatalf("expected no file outside the store dir, got %v", err)
	}
}
