// Package session persists the authentication flag — the only durable state
// of the service — through the kv abstraction.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudbill/admind/internal/domain"
	"github.com/cloudbill/admind/internal/kv"
)

// flagKey matches the key the admin console keeps in browser local storage.
const flagKey = "isAuthenticated"

// store is the consumer interface for session persistence (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
}

// Store reads and writes the persisted session flag.
type Store struct {
	store store
}

// New creates a session flag store.
func New(s store) *Store {
	return &Store{store: s}
}

// Load returns the persisted flag. An absent key or any value other than
// the literal "true" reads as unauthenticated (fail-closed); only a backend
// failure is surfaced as an error, and even then the flag is false.
func (s *Store) Load(ctx context.Context) (bool, error) {
	raw, err := s.store.Get(ctx, flagKey)
	if err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load session flag: %w: %w", domain.ErrTransient, err)
	}
	return string(raw) == "true", nil
}

// Save persists the flag. Signing out removes the key entirely, mirroring
// the console's local-storage behavior.
func (s *Store) Save(ctx context.Context, authenticated bool) error {
	if !authenticated {
		if err := s.store.Del(ctx, flagKey); err != nil {
			return fmt.Errorf("clear session flag: %w: %w", domain.ErrTransient, err)
		}
		return nil
	}
	if err := s.store.Set(ctx, flagKey, []byte("true")); err != nil {
		return fmt.Errorf("save session flag: %w: %w", domain.ErrTransient, err)
	}
	return nil
}
