package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is a process-local CacheService used when no memcached is configured
type MemoryCache struct {
	items *gocache.Cache
}

// NewMemoryCache creates an empty in-memory cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		items: gocache.New(gocache.NoExpiration, 10*time.Minute),
	}
}

// Get retrieves a value unless it has expired
func (m *MemoryCache) Get(key string) ([]byte, error) {
	item, ok := m.items.Get(key)
	if !ok {
		return nil, ErrMiss
	}
	return item.([]byte), nil
}

// Set stores a value; a zero expiration never expires
func (m *MemoryCache) Set(key string, value []byte, expiration time.Duration) error {
	if expiration <= 0 {
		expiration = gocache.NoExpiration
	}
	m.items.Set(key, append([]byte(nil), value...), expiration)
	return nil
}

// Delete removes a value
func (m *MemoryCache) Delete(key string) error {
	m.items.Delete(key)
	return nil
}
