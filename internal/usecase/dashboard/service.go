// Package dashboard aggregates the summary numbers shown on the admin
// landing view.
package dashboard

import (
	"context"
	"fmt"
)

// Summary holds the dashboard counters.
type Summary struct {
	TotalCustomers   int
	ActiveBudgets    int
	BlockedCustomers int
	// CommittedHard is the sum of hard-budget limits across all customers
	// with a budget, in dollars.
	CommittedHard float64
}

// Service computes dashboard summaries.
type Service struct {
	customers CustomerLister
}

// New creates a dashboard service.
func New(customers CustomerLister) *Service {
	return &Service{customers: customers}
}

// Report aggregates over the full customer collection.
func (s *Service) Report(ctx context.Context) (Summary, error) {
	cs, err := s.customers.List(ctx, "")
	if err != nil {
		return Summary{}, fmt.Errorf("dashboard report: %w", err)
	}

	sum := Summary{TotalCustomers: len(cs)}
	for _, c := range cs {
		if c.Blocked() {
			sum.BlockedCustomers++
		}
		if b, ok := c.Budget(); ok {
			sum.ActiveBudgets++
			sum.CommittedHard += b.Hard()
		}
	}
	return sum, nil
}
