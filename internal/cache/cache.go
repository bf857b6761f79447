// Package cache stores fetched prospect pages so repeat captures within
// the TTL skip the network.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/prospectorhq/prospector/internal/model"
)

// Cache defines the interface for page caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// PageKey generates the cache key for a fetched URL
func PageKey(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "prospector:v1:" + hex.EncodeToString(hash[:])
}

// New builds the cache the fetcher should use for the given config:
// memory+disk when a directory is configured, memory only otherwise,
// nil when caching is disabled.
func New(cfg model.CacheConfig) Cache {
	if !cfg.Enabled {
		return nil
	}
	if cfg.Dir == "" {
		return NewMemoryCache(cfg.MemoryTTL, 10*time.Minute)
	}
	return NewLayeredCache(cfg.MemoryTTL, cfg.Dir, cfg.DiskTTL)
}
