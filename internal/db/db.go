package db

import (
	"context"
	"time"
)

// Warehouse is the SQL warehouse facade used by the composition root.
type Warehouse interface {
	Pinger
	Querier
	Close() error
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks backend connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Querier executes a statement and returns its full result set.
type Querier interface {
	Query(ctx context.Context, stmt *Statement) (*Table, error)
}

// Cache is the key-value facade backing the result cache.
type Cache interface {
	Pinger
	KVStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
