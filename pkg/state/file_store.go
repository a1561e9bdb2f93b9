package state

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileStore persists snapshots as JSON documents under Dir, one file per Ref:
// <Dir>/<domain>/seed-<n>.json. The ETag is the SHA-256 of the encoded
// snapshot.
type FileStore[T any] struct {
	Dir string

	mu sync.Mutex
}

type fileEnvelope[T any] struct {
	Meta     Meta `json:"meta"`
	Snapshot T    `json:"snapshot"`
}

// NewFileStore returns a store rooted at dir.
func NewFileStore[T any](dir string) *FileStore[T] {
	return &FileStore[T]{Dir: dir}
}

func (s *FileStore[T]) path(ref Ref) (string, error) {
	key, err := ref.Identifier()
	if err != nil {
		return "", err
	}
	if s.Dir == "" {
		return "", fmt.Errorf("state: file store directory is required")
	}
	return filepath.Join(s.Dir, filepath.FromSlash(key)+".json"), nil
}

// Load implements Store.
func (s *FileStore[T]) Load(_ context.Context, ref Ref) (T, Meta, bool, error) {
	var zero T
	path, err := s.path(ref)
	if err != nil {
		return zero, Meta{}, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	envelope, ok, err := s.read(path)
	if err != nil || !ok {
		return zero, Meta{}, false, err
	}
	return envelope.Snapshot, envelope.Meta, true, nil
}

// Save implements Store.
func (s *FileStore[T]) Save(_ context.Context, ref Ref, snapshot T, meta Meta) (Meta, error) {
	path, err := s.path(ref)
	if err != nil {
		return Meta{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists, err := s.read(path)
	if err != nil {
		return Meta{}, err
	}
	if err := checkETag(meta, current.Meta, exists); err != nil {
		return Meta{}, err
	}

	body, err := json.Marshal(snapshot)
	if err != nil {
		return Meta{}, fmt.Errorf("state: encode snapshot %q: %w", path, err)
	}
	sum := sha256.Sum256(body)
	saved := cloneMeta(meta)
	saved.ETag = hex.EncodeToString(sum[:])
	saved.UpdatedAt = time.Now().UTC()

	payload, err := json.MarshalIndent(fileEnvelope[T]{Meta: saved, Snapshot: snapshot}, "", "  ")
	if err != nil {
		return Meta{}, fmt.Errorf("state: encode envelope %q: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Meta{}, fmt.Errorf("state: create dir for %q: %w", path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return Meta{}, fmt.Errorf("state: write %q: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return Meta{}, fmt.Errorf("state: replace %q: %w", path, err)
	}
	return cloneMeta(saved), nil
}

// Delete implements Deleter. Missing files are not an error.
func (s *FileStore[T]) Delete(_ context.Context, ref Ref) error {
	path, err := s.path(ref)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("state: delete %q: %w", path, err)
	}
	return nil
}

func (s *FileStore[T]) read(path string) (fileEnvelope[T], bool, error) {
	var envelope fileEnvelope[T]
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return envelope, false, nil
	}
	if err != nil {
		return envelope, false, fmt.Errorf("state: read %q: %w", path, err)
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return envelope, false, fmt.Errorf("state: decode %q: %w", path, err)
	}
	return envelope, true, nil
}
