package uistate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/glp-archive/scribe/internal/db"
	"github.com/glp-archive/scribe/internal/domain"
)

// Compile-time check: Redis implements Store.
var _ Store = (*Redis)(nil)

// Redis persists UI state in the document store as JSON arrays with a TTL,
// so abandoned browse sessions age out on their own.
type Redis struct {
	kv        db.KVStore
	keyPrefix string
	ttl       time.Duration
}

// NewRedis creates a Redis-backed store.
func NewRedis(kv db.KVStore, keyPrefix string, ttl time.Duration) *Redis {
	return &Redis{kv: kv, keyPrefix: keyPrefix, ttl: ttl}
}

// Get returns the values stored under key.
func (r *Redis) Get(ctx context.Context, key string) ([]string, error) {
	raw, err := r.kv.Get(ctx, r.keyPrefix+key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, domain.ErrStateNotFound
		}
		return nil, fmt.Errorf("get ui state %s: %w", key, err)
	}
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("parse ui state %s: %w", key, err)
	}
	return values, nil
}

// Put replaces the values stored under key.
func (r *Redis) Put(ctx context.Context, key string, values []string) error {
	raw, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("serialize ui state %s: %w", key, err)
	}
	if err := r.kv.SetWithTTL(ctx, r.keyPrefix+key, raw, r.ttl); err != nil {
		return fmt.Errorf("put ui state %s: %w", key, err)
	}
	return nil
}
