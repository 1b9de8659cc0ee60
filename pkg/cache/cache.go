// Package cache provides byte caching for upstream HTTP responses.
package cache

import (
	"context"
	"log/slog"

	"sunviewgo/pkg/db"
)

// Cacher defines the caching interface.
type Cacher interface {
	GetCache(ctx context.Context, key string) ([]byte, bool)
	SetCache(ctx context.Context, key string, val []byte) error
}

// SQLiteCache implements Cacher on the cache table.
type SQLiteCache struct {
	db *db.DB
}

// NewSQLiteCache creates a new cache.
func NewSQLiteCache(d *db.DB) *SQLiteCache {
	return &SQLiteCache{db: d}
}

func (c *SQLiteCache) GetCache(ctx context.Context, key string) ([]byte, bool) {
	var val []byte
	err := c.db.QueryRowContext(ctx, "SELECT val FROM cache WHERE key = ?", key).Scan(&val)
	if err != nil {
		return nil, false
	}
	return val, true
}

func (c *SQLiteCache) SetCache(ctx context.Context, key string, val []byte) error {
	_, err := c.db.ExecContext(ctx, "INSERT OR REPLACE INTO cache (key, val) VALUES (?, ?)", key, val)
	if err != nil {
		slog.Error("Failed to write cache entry", "key", key, "error", err)
	}
	return err
}

// NopCache is a Cacher that never hits; used where persistence is unwanted
// (tests, ephemeral runs).
type NopCache struct{}

func (NopCache) GetCache(context.Context, string) ([]byte, bool) { return nil, false }
func (NopCache) SetCache(context.Context, string, []byte) error  { return nil }
