// Package customer implements the in-memory customer store. It is the
// boundary a real billing backend must satisfy: every operation takes a
// context and may suspend, so callers already treat the store as remote.
package customer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cloudbill/admind/internal/domain"
	domcust "github.com/cloudbill/admind/internal/domain/customer"
)

// Repo holds the authoritative customer collection. Records are kept in
// insertion order. All mutations are serialized behind one mutex
// (single-writer model); reads return value snapshots, never live bindings.
type Repo struct {
	latency time.Duration

	mu    sync.RWMutex
	byID  map[string]domcust.Customer
	order []string
}

// New creates an empty in-memory customer repository.
func New() *Repo {
	return &Repo{byID: make(map[string]domcust.Customer)}
}

// WithLatency makes every operation wait the given duration before touching
// the collection, honoring context cancellation. Stands in for real backend
// round-trips so callers exercise their loading and cancellation paths.
func (r *Repo) WithLatency(d time.Duration) *Repo {
	r.latency = d
	return r
}

// wait simulates backend latency. Returns the context error when the caller
// has gone away, so a cancelled operation never touches shared state.
func (r *Repo) wait(ctx context.Context) error {
	if r.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(r.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Create stores a new customer. Fails with ErrAlreadyExists when the id or
// the business customer_id is already taken.
func (r *Repo) Create(ctx context.Context, c domcust.Customer) error {
	if err := r.wait(ctx); err != nil {
		return fmt.Errorf("create customer: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[c.ID()]; ok {
		return fmt.Errorf("customer %s: %w", c.ID(), domain.ErrAlreadyExists)
	}
	for _, id := range r.order {
		if r.byID[id].CustomerID() == c.CustomerID() {
			return fmt.Errorf("customer_id %s: %w", c.CustomerID(), domain.ErrAlreadyExists)
		}
	}

	r.byID[c.ID()] = c
	r.order = append(r.order, c.ID())
	return nil
}

// Get retrieves a customer by id.
func (r *Repo) Get(ctx context.Context, id string) (domcust.Customer, error) {
	if err := r.wait(ctx); err != nil {
		return domcust.Customer{}, fmt.Errorf("get customer: %w", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return domcust.Customer{}, fmt.Errorf("customer %s: %w", id, domain.ErrNotFound)
	}
	return c, nil
}

// List returns a fresh snapshot of all customers whose name or email
// contains filter (case-insensitive substring), in insertion order.
// An empty filter returns everything. The collection is never mutated.
func (r *Repo) List(ctx context.Context, filter string) ([]domcust.Customer, error) {
	if err := r.wait(ctx); err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domcust.Customer, 0, len(r.order))
	for _, id := range r.order {
		c := r.byID[id]
		if c.MatchesFilter(filter) {
			out = append(out, c)
		}
	}
	return out, nil
}

// Update replaces the stored record having the same id. The caller passes a
// fully validated merged record; the swap is atomic, so a failed update
// never leaves a partial write.
func (r *Repo) Update(ctx context.Context, c domcust.Customer) error {
	if err := r.wait(ctx); err != nil {
		return fmt.Errorf("update customer: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[c.ID()]; !ok {
		return fmt.Errorf("customer %s: %w", c.ID(), domain.ErrNotFound)
	}
	r.byID[c.ID()] = c
	return nil
}

// Delete removes a customer. A second delete of the same id fails with
// ErrNotFound rather than silently succeeding.
func (r *Repo) Delete(ctx context.Context, id string) error {
	if err := r.wait(ctx); err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return fmt.Errorf("customer %s: %w", id, domain.ErrNotFound)
	}
	delete(r.byID, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
