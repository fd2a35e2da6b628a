package storage

import (
	"context"
	"errors"
)

// ErrNotFound reports an absent key. Callers treat it as "use the default",
// never as a failure.
var ErrNotFound = errors.New("storage: key not found")

// Backend is the raw key-value contract underneath the gateway. Values are
// opaque byte slices; all encoding happens above this interface.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// BatchBackend is implemented by backends that can apply several writes as a
// single unit. Backends without it fall back to sequential Sets, leaving a
// partial-failure window between keys.
type BatchBackend interface {
	SetBatch(ctx context.Context, values map[string][]byte) error
}

// Pinger is implemented by backends with a remote dependency to check.
type Pinger interface {
	Ping(ctx context.Context) error
}
