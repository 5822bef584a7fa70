package dashboard

import (
	"context"

	domcust "github.com/cloudbill/admind/internal/domain/customer"
)

// CustomerLister reads the customer collection for aggregation.
type CustomerLister interface {
	List(ctx context.Context, filter string) ([]domcust.Customer, error)
}
