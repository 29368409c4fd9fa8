package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCache is an in-process implementation of the simulation cache. It
// suits single-instance deployments and tests; entries expire lazily on read.
type MemoryCache struct {
	mu    sync.Mutex
	items map[string]memoryItem
	lists map[string][]string
	now   func() time.Time
}

type memoryItem struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryCache creates an empty in-memory cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		items: make(map[string]memoryItem),
		lists: make(map[string][]string),
		now:   time.Now,
	}
}

// Get returns the value for key, reporting whether it was present and fresh
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[key]
	if !ok {
		return nil, false, nil
	}
	if !item.expiresAt.IsZero() && c.now().After(item.expiresAt) {
		delete(c.items, key)
		return nil, false, nil
	}
	value := make([]byte, len(item.value))
	copy(value, item.value)
	return value, true, nil
}

// SetWithTTL stores value under key, expiring it after ttl. A non-positive
// ttl stores the value without expiry.
func (c *MemoryCache) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)

	item := memoryItem{value: stored}
	if ttl > 0 {
		item.expiresAt = c.now().Add(ttl)
	}
	c.items[key] = item
	return nil
}

// PushTrim prepends value to the list at key and trims it to max entries
func (c *MemoryCache) PushTrim(ctx context.Context, key string, value string, max int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	list := append([]string{value}, c.lists[key]...)
	if max > 0 && len(list) > max {
		list = list[:max]
	}
	c.lists[key] = list
	return nil
}

// List returns the list at key, newest first
func (c *MemoryCache) List(ctx context.Context, key string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]string(nil), c.lists[key]...), nil
}
