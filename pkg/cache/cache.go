// Package cache wraps ristretto with per-owner key tracking so that all
// cached reads belonging to one user can be dropped when that user writes.
package cache

import (
	"sync"

	"github.com/dgraph-io/ristretto/v2"
)

type Cache[V any] struct {
	inner *ristretto.Cache[string, V]

	mu   sync.Mutex
	keys map[string]map[string]struct{} // owner -> cache keys
}

func New[V any]() (*Cache[V], error) {
	inner, err := ristretto.NewCache(&ristretto.Config[string, V]{
		NumCounters: 10000,
		MaxCost:     10000,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}

	return &Cache[V]{
		inner: inner,
		keys:  make(map[string]map[string]struct{}),
	}, nil
}

func (c *Cache[V]) Get(key string) (V, bool) {
	return c.inner.Get(key)
}

func (c *Cache[V]) Set(owner, key string, value V) {
	c.mu.Lock()
	if c.keys[owner] == nil {
		c.keys[owner] = make(map[string]struct{})
	}
	c.keys[owner][key] = struct{}{}
	c.mu.Unlock()

	c.inner.Set(key, value, 1)
	c.inner.Wait()
}

// InvalidateOwner drops every key recorded for the owner.
func (c *Cache[V]) InvalidateOwner(owner string) {
	c.mu.Lock()
	keys := c.keys[owner]
	delete(c.keys, owner)
	c.mu.Unlock()

	for key := range keys {
		c.inner.Del(key)
	}
	c.inner.Wait()
}

func (c *Cache[V]) Close() {
	c.inner.Close()
}
