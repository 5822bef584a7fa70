package health

import "context"

// StatePinger checks durable state store availability.
type StatePinger interface {
	Ping(ctx context.Context) error
}
