// Package patch defines partial customer updates. Nil fields are unchanged;
// an empty patch is legal and only refreshes updatedAt.
package patch

// Patch is a partial customer update. Identity fields (id, customer_id)
// are deliberately absent: they are immutable after creation.
type Patch struct {
	Name           *string
	OrganizationID *string
	Email          *string
	APIBase        *string
	Notes          *string
	Blocked        *bool
	SoftBudget     *float64
	HardBudget     *float64
	MaxBudget      *float64
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.OrganizationID == nil && p.Email == nil &&
		p.APIBase == nil && p.Notes == nil && p.Blocked == nil &&
		p.SoftBudget == nil && p.HardBudget == nil && p.MaxBudget == nil
}
