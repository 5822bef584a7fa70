package budget

import (
	"github.com/cloudbill/admind/internal/domain"
)

// Budget holds the monetary thresholds attached to a customer (immutable
// value object). Amounts are dollars. Thresholds are ordered: soft is the
// warning threshold, hard the service limit, max the absolute ceiling.
type Budget struct {
	soft float64
	hard float64
	max  *float64
}

// Violations checks every budget constraint and returns the full list of
// violated ones. Field names match the create-budget form.
func Violations(soft, hard float64, max *float64) []domain.Violation {
	var vs []domain.Violation
	if soft < 0 {
		vs = append(vs, domain.Violation{Field: "soft_budget", Reason: "must be >= 0"})
	}
	if hard < 0 {
		vs = append(vs, domain.Violation{Field: "hard_budget", Reason: "must be >= 0"})
	}
	if soft >= 0 && hard >= 0 && hard < soft {
		vs = append(vs, domain.Violation{Field: "hard_budget", Reason: "must be >= soft_budget"})
	}
	if max != nil {
		if *max < 0 {
			vs = append(vs, domain.Violation{Field: "max_budget", Reason: "must be >= 0"})
		} else if hard >= 0 && *max < hard {
			vs = append(vs, domain.Violation{Field: "max_budget", Reason: "must be >= hard_budget"})
		}
	}
	return vs
}

// New validates and creates a Budget.
func New(soft, hard float64, max *float64) (Budget, error) {
	if vs := Violations(soft, hard, max); len(vs) > 0 {
		return Budget{}, domain.NewValidation(vs)
	}
	return Budget{soft: soft, hard: hard, max: copyMax(max)}, nil
}

// Reconstruct creates a Budget without validation (storage hydration).
func Reconstruct(soft, hard float64, max *float64) Budget {
	return Budget{soft: soft, hard: hard, max: copyMax(max)}
}

// Soft returns the warning threshold.
func (b Budget) Soft() float64 { return b.soft }

// Hard returns the service-limiting threshold.
func (b Budget) Hard() float64 { return b.hard }

// Max returns the absolute ceiling, or nil if unset.
func (b Budget) Max() *float64 { return copyMax(b.max) }

func copyMax(max *float64) *float64 {
	if max == nil {
		return nil
	}
	m := *max
	return &m
}
