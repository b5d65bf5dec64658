package cache

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
)

// Cache memoises parsed documents by key for a fixed time-to-live. Entries
// expire on time only; a corrected upload stays stale until its TTL passes.
type Cache struct {
	store *ristretto.Cache
	ttl   time.Duration
}

func New(ttl time.Duration) (*Cache, error) {
	store, err := ristretto.NewCache(&ristretto.Config{
		NumCounters:        1e4,
		MaxCost:            1 << 10,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}
	return &Cache{store: store, ttl: ttl}, nil
}

// Get returns the cached value for key.
func (c *Cache) Get(key string) (interface{}, bool) {
	if c == nil || c.ttl <= 0 {
		return nil, false
	}
	return c.store.Get(key)
}

// Set stores value for the configured TTL. Each entry costs 1.
func (c *Cache) Set(key string, value interface{}) {
	if c == nil || c.ttl <= 0 {
		return
	}
	c.store.SetWithTTL(key, value, 1, c.ttl)
	c.store.Wait()
}

// Delete drops key immediately.
func (c *Cache) Delete(key string) {
	if c == nil {
		return
	}
	c.store.Del(key)
}

// Close stops the cache's background goroutines.
func (c *Cache) Close() {
	if c == nil {
		return
	}
	c.store.Close()
}

// GetOrLoad returns the cached value for key, calling load on a miss and
// caching its result when load succeeds.
func GetOrLoad[T any](c *Cache, key string, load func() (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}

	value, err := load()
	if err != nil {
		return value, err
	}
	c.Set(key, value)
	return value, nil
}
