// Package cache defines the explicit, externally-injected result cache used
// by the service layer. TTLs are configured per query type; there is no
// hidden module-level memoization.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache stores computed query results under string keys with per-entry TTLs.
type Cache interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{}, ttl time.Duration)
}

// Memory is an in-process Cache backed by go-cache
type Memory struct {
	store *gocache.Cache
}

// NewMemory creates a new in-process cache. Expired entries are purged
// every cleanupInterval.
func NewMemory(cleanupInterval time.Duration) *Memory {
	return &Memory{
		store: gocache.New(gocache.NoExpiration, cleanupInterval),
	}
}

func (m *Memory) Get(key string) (interface{}, bool) {
	return m.store.Get(key)
}

func (m *Memory) Set(key string, value interface{}, ttl time.Duration) {
	m.store.Set(key, value, ttl)
}
