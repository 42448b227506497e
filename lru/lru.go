// Package lru provides a bounded in-memory cache with least-recently-used
// eviction. Capacity is limited by entry count and, optionally, by the sum
// of per-entry byte sizes.
package lru

import (
	"container/list"
	"sync"

	"github.com/AustinOrphan/docview"
)

type entry[V any] struct {
	key   string
	value V
	size  int64
}

// Cache is a fixed-capacity LRU cache keyed by string. All operations are
// synchronous and safe for concurrent use; none ever blocks on I/O.
//
// Recency is updated by Get and by Set of an existing key; a freshly
// inserted key is most-recently-used. Eviction always removes the
// least-recently-used entry regardless of which bound was exceeded.
type Cache[V any] struct {
	mu         sync.Mutex
	maxEntries int
	maxBytes   int64
	order      *list.List // front = most recent, back = least recent
	items      map[string]*list.Element
	bytes      int64
	onEvict    func(key string)
}

// New creates a cache holding at most maxEntries entries. maxBytes bounds
// the sum of entry sizes; zero means unbounded bytes.
func New[V any](maxEntries int, maxBytes int64) *Cache[V] {
	if maxEntries <= 0 {
		maxEntries = 1
	}
	return &Cache[V]{
		maxEntries: maxEntries,
		maxBytes:   maxBytes,
		order:      list.New(),
		items:      make(map[string]*list.Element),
	}
}

// Get returns the cached value and marks it most-recently-used.
// A miss has no side effect.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*entry[V]).value, true
}

// OnEvict registers fn to be called with the key of every entry removed to
// satisfy a capacity bound. It is not called for Delete, Clear or
// EvictOldest. The callback runs outside the cache's lock.
func (c *Cache[V]) OnEvict(fn func(key string)) {
	c.mu.Lock()
	c.onEvict = fn
	c.mu.Unlock()
}

// Set inserts or replaces a value, evicting least-recently-used entries
// until both bounds are satisfied. If size alone exceeds the byte bound the
// cache is left unchanged and an ETOOLARGE error is returned; one oversized
// item never flushes the rest of the cache.
func (c *Cache[V]) Set(key string, value V, size int64) error {
	c.mu.Lock()

	if c.maxBytes > 0 && size > c.maxBytes {
		c.mu.Unlock()
		return docview.Errorf(docview.ETOOLARGE, "entry %q (%d bytes) exceeds cache byte limit (%d)", key, size, c.maxBytes)
	}

	if el, ok := c.items[key]; ok {
		e := el.Value.(*entry[V])
		c.bytes += size - e.size
		e.value = value
		e.size = size
		c.order.MoveToFront(el)
	} else {
		el := c.order.PushFront(&entry[V]{key: key, value: value, size: size})
		c.items[key] = el
		c.bytes += size
	}

	var evicted []string
	for c.order.Len() > c.maxEntries || (c.maxBytes > 0 && c.bytes > c.maxBytes) {
		el := c.order.Back()
		evicted = append(evicted, el.Value.(*entry[V]).key)
		c.removeElement(el)
	}
	fn := c.onEvict
	c.mu.Unlock()

	if fn != nil {
		for _, key := range evicted {
			fn(key)
		}
	}
	return nil
}

// Has reports whether key is cached without touching recency.
func (c *Cache[V]) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok
}

// Delete removes an entry, reporting whether it was present.
func (c *Cache[V]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return false
	}
	c.removeElement(el)
	return true
}

// Clear removes all entries.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.items = make(map[string]*list.Element)
	c.bytes = 0
}

// Entry pairs a cached key with its value.
type Entry[V any] struct {
	Key   string
	Value V
}

// Entries returns all entries in least-recently-used-first order, matching
// the order in which eviction would remove them.
func (c *Cache[V]) Entries() []Entry[V] {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Entry[V], 0, c.order.Len())
	for el := c.order.Back(); el != nil; el = el.Prev() {
		e := el.Value.(*entry[V])
		out = append(out, Entry[V]{Key: e.key, Value: e.value})
	}
	return out
}

// EvictOldest removes up to n least-recently-used entries and returns the
// evicted keys.
func (c *Cache[V]) EvictOldest(n int) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var keys []string
	for i := 0; i < n; i++ {
		el := c.order.Back()
		if el == nil {
			break
		}
		keys = append(keys, el.Value.(*entry[V]).key)
		c.removeElement(el)
	}
	return keys
}

// Len returns the number of cached entries.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// MemoryUsage returns the sum of entry sizes.
func (c *Cache[V]) MemoryUsage() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bytes
}

// Capacity returns the configured bounds.
func (c *Cache[V]) Capacity() (maxEntries int, maxBytes int64) {
	return c.maxEntries, c.maxBytes
}

// Stats reports occupancy and bounds.
func (c *Cache[V]) Stats() docview.CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return docview.CacheStats{
		EntryCount: c.order.Len(),
		ByteUsage:  c.bytes,
		MaxEntries: c.maxEntries,
		MaxBytes:   c.maxBytes,
	}
}

// removeElement unlinks an entry. Caller holds the lock.
func (c *Cache[V]) removeElement(el *list.Element) {
	if el == nil {
		return
	}
	e := el.Value.(*entry[V])
	c.order.Remove(el)
	delete(c.items, e.key)
	c.bytes -= e.size
}
