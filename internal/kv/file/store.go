// Package file implements kv.Store as a JSON file on local disk — the
// single-host analog of the browser console's local storage.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cloudbill/admind/internal/kv"
)

// Compile-time check: Store implements kv.Store.
var _ kv.Store = (*Store)(nil)

// Store implements kv.Store over a single JSON file. Writes go through a
// temp-file rename so a crash never leaves a half-written state file.
type Store struct {
	path string

	mu   sync.Mutex
	data map[string][]byte
}

// NewStore opens (or creates) the state file at path.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path, data: make(map[string][]byte)}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read state file %s: %w", s.path, err)
	}
	// A corrupt state file fails closed: start empty rather than refuse to start.
	var decoded map[string][]byte
	if err := json.Unmarshal(raw, &decoded); err == nil {
		s.data = decoded
	}
	return nil
}

func (s *Store) flushLocked() error {
	raw, err := json.Marshal(s.data)
	if err != nil {
		return &kv.Error{Op: kv.OpSet, Err: err}
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return &kv.Error{Op: kv.OpSet, Err: err}
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return &kv.Error{Op: kv.OpSet, Err: err}
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return &kv.Error{Op: kv.OpSet, Err: err}
	}
	return nil
}

// Get retrieves a value by key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &kv.Error{Op: kv.OpGet, Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return nil, kv.ErrKeyNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Set stores a value and flushes the file.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return &kv.Error{Op: kv.OpSet, Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	s.data[key] = v
	return s.flushLocked()
}

// Del removes a key and flushes the file. Missing keys are not an error.
func (s *Store) Del(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return &kv.Error{Op: kv.OpDel, Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; !ok {
		return nil
	}
	delete(s.data, key)
	return s.flushLocked()
}

// Ping verifies the state directory is writable.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return &kv.Error{Op: kv.OpPing, Err: err}
	}
	dir := filepath.Dir(s.path)
	if _, err := os.Stat(dir); err != nil && !os.IsNotExist(err) {
		return &kv.Error{Op: kv.OpPing, Err: err}
	}
	return nil
}

// Close is a no-op; every write is already flushed.
func (s *Store) Close() {}

// WaitForReady reports ready immediately; local files need no warm-up.
func (s *Store) WaitForReady(ctx context.Context, _ time.Duration) error {
	return s.Ping(ctx)
}
