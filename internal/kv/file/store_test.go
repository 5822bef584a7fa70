package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cloudbill/admind/internal/kv"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state.json")
	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s, path
}

func TestSetGet_Roundtrip(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "isAuthenticated", []byte("true")); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := s.Get(ctx, "isAuthenticated")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "true" {
		t.Errorf("value: %q", got)
	}
}

func TestGet_MissingKey(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.Get(context.Background(), "missing")
	if !errors.Is(err, kv.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestDel_RemovesKey(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Del(ctx, "k"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if _, err := s.Get(ctx, "k"); !errors.Is(err, kv.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound after del, got %v", err)
	}
	// Deleting again is not an error.
	if err := s.Del(ctx, "k"); err != nil {
		t.Errorf("repeat del: %v", err)
	}
}

func TestReopen_Persists(t *testing.T) {
	s, path := newTestStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "isAuthenticated", []byte("true")); err != nil {
		t.Fatalf("set: %v", err)
	}

	reopened, err := NewStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := reopened.Get(ctx, "isAuthenticated")
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if string(got) != "true" {
		t.Errorf("value after reopen: %q", got)
	}
}

func TestCorruptFile_StartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{garbage"), 0o600); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore on corrupt file: %v", err)
	}
	if _, err := s.Get(context.Background(), "isAuthenticated"); !errors.Is(err, kv.ErrKeyNotFound) {
		t.Errorf("corrupt file must read as empty, got %v", err)
	}
}

func TestCancelledContext(t *testing.T) {
	s, _ := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Set(ctx, "k", []byte("v")); !errors.Is(err, context.Canceled) {
		t.Errorf("set: expected context.Canceled, got %v", err)
	}
	if _, err := s.Get(ctx, "k"); !errors.Is(err, context.Canceled) {
		t.Errorf("get: expected context.Canceled, got %v", err)
	}
}

func TestGet_ReturnsCopy(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "k", []byte("abc")); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, _ := s.Get(ctx, "k")
	got[0] = 'z'

	again, _ := s.Get(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("mutating a returned value leaked into the store: %q", again)
	}
}
