package customer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/cloudbill/admind/internal/domain"
	domcust "github.com/cloudbill/admind/internal/domain/customer"
	"github.com/cloudbill/admind/internal/domain/customer/patch"
)

func f(v float64) *float64 { return &v }

// mockRepo is a map-backed Repository double.
type mockRepo struct {
	byID      map[string]domcust.Customer
	createErr error
	updateErr error
}

func newMockRepo() *mockRepo {
	return &mockRepo{byID: make(map[string]domcust.Customer)}
}

func (m *mockRepo) Create(_ context.Context, c domcust.Customer) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.byID[c.ID()]; ok {
		return domain.ErrAlreadyExists
	}
	m.byID[c.ID()] = c
	return nil
}

func (m *mockRepo) Get(_ context.Context, id string) (domcust.Customer, error) {
	c, ok := m.byID[id]
	if !ok {
		return domcust.Customer{}, domain.ErrNotFound
	}
	return c, nil
}

func (m *mockRepo) List(_ context.Context, filter string) ([]domcust.Customer, error) {
	var out []domcust.Customer
	for _, c := range m.byID {
		if c.MatchesFilter(filter) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockRepo) Update(_ context.Context, c domcust.Customer) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.byID[c.ID()]; !ok {
		return domain.ErrNotFound
	}
	m.byID[c.ID()] = c
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newService(repo *mockRepo) *Service {
	return New(repo).WithClock(fixedClock(1700000000000)).WithIDGenerator(sequentialIDs())
}

func TestCreate_ThenGetYieldsEqualRecord(t *testing.T) {
	svc := newService(newMockRepo())
	ctx := context.Background()

	d := domcust.Draft{
		Name:       "Acme Corp",
		Email:      "a@acme.com",
		SoftBudget: f(1000),
		HardBudget: f(1500),
		MaxBudget:  f(2000),
	}

	created, err := svc.Create(ctx, d)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.Get(ctx, created.ID())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name() != d.Name || got.Email() != d.Email {
		t.Errorf("fields: %s/%s", got.Name(), got.Email())
	}
	if got.Blocked() {
		t.Error("fresh customer must not be blocked")
	}
	if got.CreatedAt() != got.UpdatedAt() {
		t.Errorf("createdAt %d != updatedAt %d on a fresh record", got.CreatedAt(), got.UpdatedAt())
	}
	b, ok := got.Budget()
	if !ok || b.Soft() != 1000 || b.Hard() != 1500 {
		t.Errorf("budget not preserved")
	}
}

func TestCreate_AssignsBusinessID(t *testing.T) {
	svc := newService(newMockRepo())

	c, err := svc.Create(context.Background(), domcust.Draft{Name: "N", Email: "n@n.io"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.HasPrefix(c.CustomerID(), "cust_") {
		t.Errorf("customer id: %q", c.CustomerID())
	}
}

func TestCreate_InvalidDraftNotStored(t *testing.T) {
	repo := newMockRepo()
	svc := newService(repo)

	_, err := svc.Create(context.Background(), domcust.Draft{
		Name:       "Bad",
		Email:      "b@b.io",
		SoftBudget: f(1500),
		HardBudget: f(1000),
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(repo.byID) != 0 {
		t.Error("invalid draft must not reach the repository")
	}
}

func TestUpdate_EmptyPatchBumpsOnlyUpdatedAt(t *testing.T) {
	svc := newService(newMockRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, domcust.Draft{Name: "Acme Corp", Email: "a@acme.com"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Clock has not ticked; updatedAt must still strictly increase.
	got, err := svc.Update(ctx, created.ID(), patch.Patch{})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Name() != created.Name() || got.Email() != created.Email() || got.Blocked() != created.Blocked() {
		t.Error("empty patch changed a field")
	}
	if got.CreatedAt() != created.CreatedAt() {
		t.Error("createdAt changed")
	}
	if got.UpdatedAt() <= created.UpdatedAt() {
		t.Errorf("updatedAt did not increase: %d -> %d", created.UpdatedAt(), got.UpdatedAt())
	}
}

func TestUpdate_MonotonicAcrossMutations(t *testing.T) {
	svc := newService(newMockRepo())
	ctx := context.Background()

	created, _ := svc.Create(ctx, domcust.Draft{Name: "N", Email: "n@n.io"})
	prev := created.UpdatedAt()
	for i := 0; i < 3; i++ {
		got, err := svc.Update(ctx, created.ID(), patch.Patch{})
		if err != nil {
			t.Fatalf("update %d: %v", i, err)
		}
		if got.UpdatedAt() <= prev {
			t.Fatalf("updatedAt not strictly increasing: %d then %d", prev, got.UpdatedAt())
		}
		prev = got.UpdatedAt()
	}
}

func TestUpdate_InvalidMergeWritesNothing(t *testing.T) {
	repo := newMockRepo()
	svc := newService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, domcust.Draft{
		Name: "Acme Corp", Email: "a@acme.com",
		SoftBudget: f(1000), HardBudget: f(1500),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.Update(ctx, created.ID(), patch.Patch{HardBudget: f(10)})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	stored := repo.byID[created.ID()]
	b, _ := stored.Budget()
	if b.Hard() != 1500 {
		t.Errorf("partial write leaked: hard=%v", b.Hard())
	}
	if stored.UpdatedAt() != created.UpdatedAt() {
		t.Error("updatedAt changed on a rejected update")
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc := newService(newMockRepo())

	_, err := svc.Update(context.Background(), "missing", patch.Patch{})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete_RemovesRecord(t *testing.T) {
	svc := newService(newMockRepo())
	ctx := context.Background()

	created, _ := svc.Create(ctx, domcust.Draft{Name: "N", Email: "n@n.io"})

	if err := svc.Delete(ctx, created.ID()); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, created.ID()); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := svc.Delete(ctx, created.ID()); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound on repeated delete, got %v", err)
	}
}

func TestList_FiltersByName(t *testing.T) {
	svc := newService(newMockRepo())
	ctx := context.Background()

	for _, d := range []domcust.Draft{
		{Name: "Acme Corporation", Email: "admin@acme.com"},
		{Name: "TechStart Inc", Email: "contact@techstart.com"},
		{Name: "Global Solutions", Email: "info@globalsolutions.com"},
	} {
		if _, err := svc.Create(ctx, d); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	cs, err := svc.List(ctx, "acme")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(cs) != 1 || cs[0].Name() != "Acme Corporation" {
		t.Errorf("filter 'acme': got %d results", len(cs))
	}
}

func TestBusinessID_ShortID(t *testing.T) {
	// Injected test ids can be shorter than the uuid slice window.
	if got := businessID("ab"); got != "cust_ab" {
		t.Errorf("businessID: %q", got)
	}
}
