package customer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	domcust "github.com/cloudbill/admind/internal/domain/customer"
	"github.com/cloudbill/admind/internal/domain/customer/patch"
)

// Service handles customer CRUD operations. The clock and id generator are
// injectable so tests control timestamps and identity.
type Service struct {
	repo  Repository
	now   func() time.Time
	newID func() string
}

// New creates a customer service.
func New(repo Repository) *Service {
	return &Service{
		repo:  repo,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// WithClock overrides the clock.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// WithIDGenerator overrides the id generator.
func (s *Service) WithIDGenerator(newID func() string) *Service {
	s.newID = newID
	return s
}

// Create validates a draft and stores the new customer. The record is
// assigned a fresh id and business customer_id; createdAt == updatedAt.
func (s *Service) Create(ctx context.Context, d domcust.Draft) (domcust.Customer, error) {
	id := s.newID()
	c, err := domcust.New(id, businessID(id), d, s.now().UnixMilli())
	if err != nil {
		return domcust.Customer{}, fmt.Errorf("validate customer: %w", err)
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return domcust.Customer{}, fmt.Errorf("create customer: %w", err)
	}
	return c, nil
}

// Get retrieves a customer by id.
func (s *Service) Get(ctx context.Context, id string) (domcust.Customer, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return domcust.Customer{}, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

// List returns customers matching the filter (all of them when empty).
func (s *Service) List(ctx context.Context, filter string) ([]domcust.Customer, error) {
	cs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return cs, nil
}

// Update merges a patch onto the stored record, re-validates the merged
// record under the same rules as Create, and refreshes updatedAt. A failed
// validation rolls back entirely: nothing is written. updatedAt strictly
// increases even when the clock has not ticked between mutations.
func (s *Service) Update(ctx context.Context, id string, p patch.Patch) (domcust.Customer, error) {
	cur, err := s.repo.Get(ctx, id)
	if err != nil {
		return domcust.Customer{}, fmt.Errorf("update customer: %w", err)
	}

	now := s.now().UnixMilli()
	if now <= cur.UpdatedAt() {
		now = cur.UpdatedAt() + 1
	}

	merged, err := cur.Apply(p, now)
	if err != nil {
		return domcust.Customer{}, fmt.Errorf("validate customer: %w", err)
	}

	if err := s.repo.Update(ctx, merged); err != nil {
		return domcust.Customer{}, fmt.Errorf("update customer: %w", err)
	}
	return merged, nil
}

// Delete removes a customer. Hard delete, no cascade: the budget is owned
// by the record and goes with it.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	return nil
}

// businessID derives the external-facing customer id from the record id.
func businessID(id string) string {
	compact := strings.ReplaceAll(id, "-", "")
	if len(compact) > 12 {
		compact = compact[:12]
	}
	return "cust_" + compact
}
