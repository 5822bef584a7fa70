// Package gateway checks the downstream LLM gateway configured as a
// customer's API base.
package gateway

import (
	"context"
	"fmt"
	"time"
)

// Status is the outcome of a gateway reachability check.
type Status struct {
	APIBase   string
	Reachable bool
	Latency   time.Duration
	// Reason carries the failure detail when the gateway is unreachable.
	Reason string
}

// Service resolves a customer and probes its API base.
type Service struct {
	customers CustomerGetter
	prober    Prober
}

// New creates a gateway check service.
func New(customers CustomerGetter, prober Prober) *Service {
	return &Service{customers: customers, prober: prober}
}

// Check probes the API base of the given customer. An unreachable gateway
// is a normal Status outcome; only a missing customer is an error.
func (s *Service) Check(ctx context.Context, customerID string) (Status, error) {
	c, err := s.customers.Get(ctx, customerID)
	if err != nil {
		return Status{}, fmt.Errorf("gateway check: %w", err)
	}

	st := Status{APIBase: c.APIBase()}
	start := time.Now()
	if err := s.prober.Probe(ctx, c.APIBase()); err != nil {
		st.Reason = err.Error()
		return st, nil
	}
	st.Reachable = true
	st.Latency = time.Since(start)
	return st, nil
}
