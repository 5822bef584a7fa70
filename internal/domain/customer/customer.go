package customer

import (
	"regexp"
	"strings"

	"github.com/cloudbill/admind/internal/domain"
	"github.com/cloudbill/admind/internal/domain/customer/budget"
	"github.com/cloudbill/admind/internal/domain/customer/patch"
)

// DefaultAPIBase is the downstream gateway endpoint used when a customer
// has no explicit API base configured.
const DefaultAPIBase = "https://api.litellm.ai"

const maxNameLen = 256

// emailPattern matches the loose check an email form input performs:
// something@something, no whitespace.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+$`)

// Customer is the billable tenant aggregate (immutable value object).
// Identity (id, customerId) never changes after creation; every other
// mutation goes through Apply, which re-validates the merged record.
type Customer struct {
	id             string
	customerID     string
	name           string
	organizationID string
	email          string
	apiBase        string
	notes          string
	blocked        bool
	budget         budget.Budget
	hasBudget      bool
	createdAt      int64
	updatedAt      int64
}

// Draft carries the caller-supplied fields for a new customer. A customer is
// created together with its first budget by the create-budget form, but the
// budget itself stays optional at this level.
type Draft struct {
	Name           string
	Email          string
	OrganizationID string
	APIBase        string
	Notes          string
	Blocked        bool
	SoftBudget     *float64
	HardBudget     *float64
	MaxBudget      *float64
}

func validate(name, email string, softBudget, hardBudget, maxBudget *float64) []domain.Violation {
	var vs []domain.Violation
	if strings.TrimSpace(name) == "" {
		vs = append(vs, domain.Violation{Field: "customer_name", Reason: "is required"})
	} else if len(name) > maxNameLen {
		vs = append(vs, domain.Violation{Field: "customer_name", Reason: "too long (max 256)"})
	}
	if strings.TrimSpace(email) == "" {
		vs = append(vs, domain.Violation{Field: "email", Reason: "is required"})
	} else if !emailPattern.MatchString(email) {
		vs = append(vs, domain.Violation{Field: "email", Reason: "is not a valid address"})
	}
	switch {
	case softBudget == nil && hardBudget == nil && maxBudget == nil:
		// no budget at all is a valid state
	case softBudget == nil:
		vs = append(vs, domain.Violation{Field: "soft_budget", Reason: "is required when a budget is set"})
	case hardBudget == nil:
		vs = append(vs, domain.Violation{Field: "hard_budget", Reason: "is required when a budget is set"})
	default:
		vs = append(vs, budget.Violations(*softBudget, *hardBudget, maxBudget)...)
	}
	return vs
}

// New validates a draft and creates a Customer. The caller supplies identity
// and the creation timestamp (unix millis); createdAt == updatedAt on a
// fresh record. All violated fields are reported, not just the first.
func New(id, customerID string, d Draft, now int64) (Customer, error) {
	vs := validate(d.Name, d.Email, d.SoftBudget, d.HardBudget, d.MaxBudget)
	if id == "" {
		vs = append(vs, domain.Violation{Field: "id", Reason: "is required"})
	}
	if customerID == "" {
		vs = append(vs, domain.Violation{Field: "customer_id", Reason: "is required"})
	}
	if len(vs) > 0 {
		return Customer{}, domain.NewValidation(vs)
	}

	c := Customer{
		id:             id,
		customerID:     customerID,
		name:           d.Name,
		organizationID: d.OrganizationID,
		email:          d.Email,
		apiBase:        d.APIBase,
		notes:          d.Notes,
		blocked:        d.Blocked,
		createdAt:      now,
		updatedAt:      now,
	}
	if c.apiBase == "" {
		c.apiBase = DefaultAPIBase
	}
	if d.SoftBudget != nil && d.HardBudget != nil {
		c.budget = budget.Reconstruct(*d.SoftBudget, *d.HardBudget, d.MaxBudget)
		c.hasBudget = true
	}
	return c, nil
}

// Reconstruct creates a Customer without validation (storage hydration).
func Reconstruct(
	id, customerID, name, organizationID, email, apiBase, notes string,
	blocked bool, b *budget.Budget, createdAt, updatedAt int64,
) Customer {
	c := Customer{
		id:             id,
		customerID:     customerID,
		name:           name,
		organizationID: organizationID,
		email:          email,
		apiBase:        apiBase,
		notes:          notes,
		blocked:        blocked,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
	if c.apiBase == "" {
		c.apiBase = DefaultAPIBase
	}
	if b != nil {
		c.budget = *b
		c.hasBudget = true
	}
	return c
}

// Apply merges a patch onto the customer and re-validates the merged record
// under the same rules as New. On success the returned copy carries the new
// updatedAt; the receiver is never modified, so a failed Apply is a no-op
// for the caller (no partial write). Identity and createdAt are preserved.
func (c Customer) Apply(p patch.Patch, now int64) (Customer, error) {
	merged := c

	if p.Name != nil {
		merged.name = *p.Name
	}
	if p.OrganizationID != nil {
		merged.organizationID = *p.OrganizationID
	}
	if p.Email != nil {
		merged.email = *p.Email
	}
	if p.APIBase != nil {
		merged.apiBase = *p.APIBase
		if merged.apiBase == "" {
			merged.apiBase = DefaultAPIBase
		}
	}
	if p.Notes != nil {
		merged.notes = *p.Notes
	}
	if p.Blocked != nil {
		merged.blocked = *p.Blocked
	}

	soft, hard, max := mergedBudget(merged, p)
	if vs := validate(merged.name, merged.email, soft, hard, max); len(vs) > 0 {
		return Customer{}, domain.NewValidation(vs)
	}
	if soft != nil && hard != nil {
		merged.budget = budget.Reconstruct(*soft, *hard, max)
		merged.hasBudget = true
	}

	merged.updatedAt = now
	return merged, nil
}

// mergedBudget resolves the budget figures a patch yields on top of the
// current record. A patch on a budget-less customer creates the budget.
func mergedBudget(c Customer, p patch.Patch) (soft, hard, max *float64) {
	if c.hasBudget {
		s, h := c.budget.Soft(), c.budget.Hard()
		soft, hard, max = &s, &h, c.budget.Max()
	}
	if p.SoftBudget != nil {
		soft = p.SoftBudget
	}
	if p.HardBudget != nil {
		hard = p.HardBudget
	}
	if p.MaxBudget != nil {
		max = p.MaxBudget
	}
	return soft, hard, max
}

// ID returns the opaque stable identifier.
func (c Customer) ID() string { return c.id }

// CustomerID returns the external-facing business identifier.
func (c Customer) CustomerID() string { return c.customerID }

// Name returns the display name.
func (c Customer) Name() string { return c.name }

// OrganizationID returns the external organization reference (may be empty,
// never checked for existence).
func (c Customer) OrganizationID() string { return c.organizationID }

// Email returns the contact email.
func (c Customer) Email() string { return c.email }

// APIBase returns the downstream gateway URL for this customer.
func (c Customer) APIBase() string { return c.apiBase }

// Notes returns the free-text notes.
func (c Customer) Notes() string { return c.notes }

// Blocked reports whether the customer is blocked from service.
func (c Customer) Blocked() bool { return c.blocked }

// Budget returns the attached budget, if any.
func (c Customer) Budget() (budget.Budget, bool) { return c.budget, c.hasBudget }

// CreatedAt returns the creation timestamp (unix millis).
func (c Customer) CreatedAt() int64 { return c.createdAt }

// UpdatedAt returns the last mutation timestamp (unix millis).
// Always >= CreatedAt.
func (c Customer) UpdatedAt() int64 { return c.updatedAt }

// MatchesFilter reports whether name or email contains the filter
// (case-insensitive substring). An empty filter matches everything.
func (c Customer) MatchesFilter(filter string) bool {
	if filter == "" {
		return true
	}
	f := strings.ToLower(filter)
	return strings.Contains(strings.ToLower(c.name), f) ||
		strings.Contains(strings.ToLower(c.email), f)
}
