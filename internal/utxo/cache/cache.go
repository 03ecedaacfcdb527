// Package cache holds settled chain data in bounded LRU caches. Only entries
// deep enough in the best chain to survive practical reorganisations are
// admitted, and confirmation depth is recomputed on every read.
package cache

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ConfirmationThreshold is the minimum confirmation depth for an entry to be cached.
const ConfirmationThreshold = 6

// Observer receives cache events.
type Observer interface {
	Hit(cache string)
	Miss(cache string)
	Stored(cache string)
	Rejected(cache string)
	Evicted(cache string)
}

// Entry is a cached value together with the height of the block it belongs to.
type Entry[V any] struct {
	Value  V
	Height uint64
}

// Confirmations returns the depth of the entry below bestHeight, counting the
// entry's own block.
func (e Entry[V]) Confirmations(bestHeight uint64) int64 {
	return int64(bestHeight) - int64(e.Height) + 1
}

// Cache is a confirmation-gated LRU cache keyed by block hash. It is safe for
// concurrent use.
type Cache[V any] struct {
	name     string
	entries  *lru.Cache[string, Entry[V]]
	observer Observer
}

// New creates a cache bounded to capacity entries.
func New[V any](name string, capacity int, observer Observer) (*Cache[V], error) {
	if observer == nil {
		observer = nopObserver{}
	}
	c := &Cache[V]{name: name, observer: observer}
	entries, err := lru.NewWithEvict[string, Entry[V]](capacity, func(string, Entry[V]) {
		c.observer.Evicted(c.name)
	})
	if err != nil {
		return nil, fmt.Errorf("create %s cache: %w", name, err)
	}
	c.entries = entries
	return c, nil
}

// Get returns the entry stored under key.
func (c *Cache[V]) Get(key string) (Entry[V], bool) {
	entry, ok := c.entries.Get(key)
	if !ok {
		c.observer.Miss(c.name)
		return Entry[V]{}, false
	}
	c.observer.Hit(c.name)
	return entry, true
}

// Put stores value under key if it has at least ConfirmationThreshold
// confirmations and reports whether it was stored. Shallower entries are
// dropped so they are always rebuilt from the node.
func (c *Cache[V]) Put(key string, value V, height uint64, confirmations int64) bool {
	if confirmations < ConfirmationThreshold {
		c.observer.Rejected(c.name)
		return false
	}
	c.entries.Add(key, Entry[V]{Value: value, Height: height})
	c.observer.Stored(c.name)
	return true
}

// Len returns the number of cached entries.
func (c *Cache[V]) Len() int {
	return c.entries.Len()
}

type nopObserver struct{}

func (nopObserver) Hit(string)      {}
func (nopObserver) Miss(string)     {}
func (nopObserver) Stored(string)   {}
func (nopObserver) Rejected(string) {}
func (nopObserver) Evicted(string)  {}
