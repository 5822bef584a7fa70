// Package session implements the access gate guarding the admin surface.
// The model is a single process-wide flag: Unauthenticated or Authenticated,
// nothing in between. Absence of authorization is a normal outcome, never
// an error — the gate does not throw.
package session

import (
	"context"

	"go.uber.org/zap"
)

// Gate decides whether a caller may reach protected content.
type Gate struct {
	store  FlagStore
	logger *zap.Logger
}

// New creates a session gate backed by the given flag store.
func New(store FlagStore, logger *zap.Logger) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{store: store, logger: logger}
}

// IsAuthorized reports the current session state. A store failure or a
// malformed persisted value reads as unauthorized: the gate fails closed
// and protected content is never rendered on an incomplete check.
func (g *Gate) IsAuthorized(ctx context.Context) bool {
	ok, err := g.store.Load(ctx)
	if err != nil {
		g.logger.Warn("session flag unreadable, failing closed", zap.Error(err))
		return false
	}
	return ok
}

// SignIn transitions the gate to Authenticated and persists the flag.
func (g *Gate) SignIn(ctx context.Context) error {
	return g.store.Save(ctx, true)
}

// SignOut transitions the gate to Unauthenticated and persists the flag.
func (g *Gate) SignOut(ctx context.Context) error {
	return g.store.Save(ctx, false)
}
