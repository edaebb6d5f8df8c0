// internal/common/cache/cache.go

// Package cache stores search responses keyed by the query that
// produced them, so repeated lookups for the same person cost no quota.
// Redis backs shared deployments, Badger backs single-host CLI use.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// ErrCacheMiss is returned by Get when the key is not in the cache.
var ErrCacheMiss = errors.New("cache miss")

// Cache is a byte store with a backend-owned TTL.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Key derives the cache key for a serialized query. The payload must
// not contain the API key: two accounts running the same query share
// the entry, and the key never touches the cache backend.
func Key(payload []byte) string {
	sum := sha256.Sum256(payload)
	return "pipl:search:" + hex.EncodeToString(sum[:])
}
