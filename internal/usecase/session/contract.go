package session

import "context"

// FlagStore persists the authentication flag across restarts.
type FlagStore interface {
	Load(ctx context.Context) (bool, error)
	Save(ctx context.Context, authenticated bool) error
}
