package gateway

import (
	"context"

	domcust "github.com/cloudbill/admind/internal/domain/customer"
)

// Prober checks whether an OpenAI-compatible gateway endpoint responds.
type Prober interface {
	Probe(ctx context.Context, baseURL string) error
}

// CustomerGetter reads a single customer record.
type CustomerGetter interface {
	Get(ctx context.Context, id string) (domcust.Customer, error)
}
