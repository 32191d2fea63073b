package db

import (
	"context"
	"time"
)

// Store is the database facade. Consumers depend on the narrow
// sub-interfaces, not on Store itself.
type Store interface {
	Pinger
	KVStore
	JSONReader
	Scanner
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// JSONReader reads JSON documents stored via JSON.SET.
type JSONReader interface {
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
}

// Scanner iterates keys matching a pattern.
type Scanner interface {
	Scan(ctx context.Context, pattern string) ([]string, error)
}
