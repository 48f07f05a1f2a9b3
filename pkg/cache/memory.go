package cache

import (
	"container/list"
	"context"
	"encoding/json"
	"sync"
	"time"

	"txreport/pkg/errors"
)

// MemoryCache is an in-process LRU with per-entry expiry. Values are stored
// JSON-encoded so callers observe the same copy semantics as RedisCache.
type MemoryCache struct {
	mu      sync.Mutex
	maxSize int
	items   map[string]*list.Element
	lru     *list.List
	now     func() time.Time
}

type memoryItem struct {
	key       string
	data      []byte
	expiresAt time.Time
}

// NewMemoryCache creates a MemoryCache holding at most maxSize entries.
func NewMemoryCache(maxSize int) *MemoryCache {
	if maxSize <= 0 {
		maxSize = 1
	}
	return &MemoryCache{
		maxSize: maxSize,
		items:   make(map[string]*list.Element),
		lru:     list.New(),
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	elem, ok := c.items[key]
	if !ok {
		c.mu.Unlock()
		return ErrMiss
	}
	item := elem.Value.(*memoryItem)
	if !item.expiresAt.IsZero() && c.now().After(item.expiresAt) {
		c.removeElement(elem)
		c.mu.Unlock()
		return ErrMiss
	}
	c.lru.MoveToFront(elem)
	data := item.data
	c.mu.Unlock()

	return json.Unmarshal(data, dest)
}

// Set stores value; a zero expiration keeps it until evicted.
func (c *MemoryCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, "failed to encode cache value")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	item := &memoryItem{key: key, data: data}
	if expiration > 0 {
		item.expiresAt = c.now().Add(expiration)
	}

	if elem, ok := c.items[key]; ok {
		elem.Value = item
		c.lru.MoveToFront(elem)
		return nil
	}

	c.items[key] = c.lru.PushFront(item)
	if c.lru.Len() > c.maxSize {
		if oldest := c.lru.Back(); oldest != nil {
			c.removeElement(oldest)
		}
	}
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.removeElement(elem)
	}
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

func (c *MemoryCache) removeElement(elem *list.Element) {
	delete(c.items, elem.Value.(*memoryItem).key)
	c.lru.Remove(elem)
}
