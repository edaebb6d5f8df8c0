// internal/common/cache/badger.go
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/piplapis/piplapis-go/internal/common/config"
)

// BadgerCache keeps search responses in an embedded store on local
// disk. It needs no external service, which suits one-off CLI runs.
type BadgerCache struct {
	db  *badger.DB
	ttl time.Duration
}

// NewBadgerCache opens (or creates) the store at the configured path.
func NewBadgerCache(cfg config.BadgerConfig, ttl time.Duration) (*BadgerCache, error) {
	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger store: %w", err)
	}
	return &BadgerCache{db: db, ttl: ttl}, nil
}

// Get retrieves a cached response by key
func (c *BadgerCache) Get(_ context.Context, key string) ([]byte, error) {
	var value []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("badger get failed: %w", err)
	}
	return value, nil
}

// Set stores a response under the key with the cache's TTL
func (c *BadgerCache) Set(_ context.Context, key string, value []byte) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), value)
		if c.ttl > 0 {
			entry = entry.WithTTL(c.ttl)
		}
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("badger set failed: %w", err)
	}
	return nil
}

// Close closes the store
func (c *BadgerCache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}
