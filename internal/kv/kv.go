// Package kv abstracts the durable key-value state of the service.
// The only state admind persists is tiny (the session flag), so the
// contract stays deliberately narrow; drivers cover the deployment ladder
// from a single host (file, sqlite) to shared deployments (redis).
package kv

import (
	"context"
	"time"
)

// Store is the key-value store contract.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}
