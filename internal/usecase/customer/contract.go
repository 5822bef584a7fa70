package customer

import (
	"context"

	domcust "github.com/cloudbill/admind/internal/domain/customer"
)

// Repository defines the storage contract for customers. The in-memory
// repository satisfies it today; a billing backend integration must satisfy
// the same contract.
type Repository interface {
	Create(ctx context.Context, c domcust.Customer) error
	Get(ctx context.Context, id string) (domcust.Customer, error)
	List(ctx context.Context, filter string) ([]domcust.Customer, error)
	Update(ctx context.Context, c domcust.Customer) error
	Delete(ctx context.Context, id string) error
}
