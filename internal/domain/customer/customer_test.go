package customer

import (
	"errors"
	"testing"

	"github.com/cloudbill/admind/internal/domain"
	"github.com/cloudbill/admind/internal/domain/customer/patch"
)

const testNow = int64(1700000000000)

func f(v float64) *float64 { return &v }
func str(s string) *string { return &s }

func validDraft() Draft {
	return Draft{
		Name:       "Acme Corp",
		Email:      "a@acme.com",
		SoftBudget: f(1000),
		HardBudget: f(1500),
		MaxBudget:  f(2000),
	}
}

func makeCustomer(t *testing.T) Customer {
	t.Helper()
	c, err := New("id-1", "cust_001", validDraft(), testNow)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNew_Valid(t *testing.T) {
	c := makeCustomer(t)

	if c.ID() != "id-1" || c.CustomerID() != "cust_001" {
		t.Errorf("identity: got %s/%s", c.ID(), c.CustomerID())
	}
	if c.Name() != "Acme Corp" || c.Email() != "a@acme.com" {
		t.Errorf("fields: got %s/%s", c.Name(), c.Email())
	}
	if c.Blocked() {
		t.Error("fresh customer must not be blocked")
	}
	if c.CreatedAt() != testNow || c.UpdatedAt() != testNow {
		t.Errorf("timestamps: created=%d updated=%d, want both %d", c.CreatedAt(), c.UpdatedAt(), testNow)
	}
	b, ok := c.Budget()
	if !ok {
		t.Fatal("expected a budget")
	}
	if b.Soft() != 1000 || b.Hard() != 1500 || b.Max() == nil || *b.Max() != 2000 {
		t.Errorf("budget: %v/%v/%v", b.Soft(), b.Hard(), b.Max())
	}
}

func TestNew_DefaultAPIBase(t *testing.T) {
	c := makeCustomer(t)
	if c.APIBase() != DefaultAPIBase {
		t.Errorf("api base: got %q, want %q", c.APIBase(), DefaultAPIBase)
	}
}

func TestNew_WithoutBudget(t *testing.T) {
	c, err := New("id-2", "cust_002", Draft{Name: "No Budget Ltd", Email: "n@b.io"}, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := c.Budget(); ok {
		t.Error("expected no budget")
	}
}

func TestNew_CollectsAllViolations(t *testing.T) {
	d := Draft{
		Name:       "",
		Email:      "",
		SoftBudget: f(-5),
		HardBudget: f(-10),
	}
	_, err := New("id-3", "cust_003", d, testNow)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	ve, _ := domain.AsValidation(err)
	fields := make(map[string]bool)
	for _, v := range ve.Violations {
		fields[v.Field] = true
	}
	for _, want := range []string{"customer_name", "email", "soft_budget", "hard_budget"} {
		if !fields[want] {
			t.Errorf("missing violation for %s in %v", want, ve.Violations)
		}
	}
}

func TestNew_InvalidEmailFormat(t *testing.T) {
	tests := []string{"not-an-email", "a b@c.io", "@acme.com", "admin@"}
	for _, email := range tests {
		t.Run(email, func(t *testing.T) {
			d := validDraft()
			d.Email = email

			_, err := New("id-9", "cust_009", d, testNow)
			if err == nil {
				t.Fatalf("expected validation error for %q", email)
			}
			ve, _ := domain.AsValidation(err)
			if len(ve.Violations) != 1 || ve.Violations[0].Field != "email" {
				t.Errorf("unexpected violations: %v", ve.Violations)
			}
		})
	}
}

func TestNew_PartialBudget(t *testing.T) {
	d := Draft{Name: "Half", Email: "h@h.io", SoftBudget: f(100)}
	_, err := New("id-4", "cust_004", d, testNow)
	if err == nil {
		t.Fatal("expected error when only soft_budget is provided")
	}
	ve, _ := domain.AsValidation(err)
	if len(ve.Violations) != 1 || ve.Violations[0].Field != "hard_budget" {
		t.Errorf("unexpected violations: %v", ve.Violations)
	}
}

func TestApply_EmptyPatch(t *testing.T) {
	c := makeCustomer(t)

	got, err := c.Apply(patch.Patch{}, testNow+500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name() != c.Name() || got.Email() != c.Email() || got.Blocked() != c.Blocked() {
		t.Error("empty patch must not change fields")
	}
	if got.UpdatedAt() != testNow+500 {
		t.Errorf("updatedAt: got %d, want %d", got.UpdatedAt(), testNow+500)
	}
	if got.CreatedAt() != testNow {
		t.Errorf("createdAt must not change: got %d", got.CreatedAt())
	}
}

func TestApply_FieldPatch(t *testing.T) {
	c := makeCustomer(t)
	blocked := true

	got, err := c.Apply(patch.Patch{
		Name:    str("Acme Corporation"),
		Blocked: &blocked,
	}, testNow+1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name() != "Acme Corporation" || !got.Blocked() {
		t.Errorf("patch not applied: %s blocked=%v", got.Name(), got.Blocked())
	}
	if got.Email() != c.Email() {
		t.Error("untouched field changed")
	}
	if got.ID() != c.ID() || got.CustomerID() != c.CustomerID() {
		t.Error("identity must be immutable")
	}
}

func TestApply_BudgetPatchOnBudgetless(t *testing.T) {
	c, err := New("id-5", "cust_005", Draft{Name: "Fresh", Email: "f@f.io"}, testNow)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, err := c.Apply(patch.Patch{SoftBudget: f(100), HardBudget: f(200)}, testNow+1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, ok := got.Budget()
	if !ok {
		t.Fatal("expected budget after patch")
	}
	if b.Soft() != 100 || b.Hard() != 200 {
		t.Errorf("budget: %v/%v", b.Soft(), b.Hard())
	}
}

func TestApply_InvalidMergeIsNoop(t *testing.T) {
	c := makeCustomer(t)

	// hard below existing soft: merged record is invalid
	_, err := c.Apply(patch.Patch{HardBudget: f(10)}, testNow+1)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	// receiver untouched
	b, _ := c.Budget()
	if b.Hard() != 1500 {
		t.Errorf("receiver mutated: hard=%v", b.Hard())
	}
	if c.UpdatedAt() != testNow {
		t.Errorf("receiver updatedAt mutated: %d", c.UpdatedAt())
	}
}

func TestMatchesFilter(t *testing.T) {
	c := makeCustomer(t)

	tests := []struct {
		filter string
		want   bool
	}{
		{"", true},
		{"acme", true},
		{"ACME", true},
		{"a@acme.com", true},
		{"techstart", false},
	}
	for _, tt := range tests {
		if got := c.MatchesFilter(tt.filter); got != tt.want {
			t.Errorf("MatchesFilter(%q): got %v, want %v", tt.filter, got, tt.want)
		}
	}
}
