// Package persist provides a write-through cache that mirrors in-memory
// entries to a durable key-value store, so a viewer session can warm-start
// after a restart. Storage failures degrade the cache to memory-only
// operation; they are logged, never surfaced to the caller's hot path.
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/AustinOrphan/docview"
	"github.com/AustinOrphan/docview/bloom"
	"github.com/AustinOrphan/docview/lru"
)

// DefaultNamespace prefixes durable keys so multiple viewers can share one
// store without collisions.
const DefaultNamespace = "docview"

// quotaEvictBatch is how many of the oldest durable entries are removed
// when a write hits the storage quota, before the single retry.
const quotaEvictBatch = 4

// Cache wraps an in-memory LRU cache with a durable backing store.
type Cache struct {
	mem       *lru.Cache[*docview.ProcessedDocument]
	store     docview.BlobStore
	namespace string
	maxAge    time.Duration
	logger    *slog.Logger
	now       func() time.Time

	mu      sync.Mutex
	written *bloom.Filter
	primed  bool

	wg sync.WaitGroup
}

// Option configures a Cache.
type Option func(*Cache)

// WithNamespace sets the durable key prefix.
// Defaults to DefaultNamespace.
func WithNamespace(ns string) Option {
	return func(c *Cache) {
		if ns != "" {
			c.namespace = ns
		}
	}
}

// WithMaxAge sets how old a durable entry may be before it is treated as
// absent. Zero means entries never go stale.
func WithMaxAge(d time.Duration) Option {
	return func(c *Cache) {
		c.maxAge = d
	}
}

// WithLogger sets the logger for storage warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

// WithNow overrides the clock used for staleness checks.
func WithNow(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// New creates a Cache layering mem over store. A nil store yields a
// memory-only cache with the same interface.
func New(mem *lru.Cache[*docview.ProcessedDocument], store docview.BlobStore, opts ...Option) *Cache {
	c := &Cache{
		mem:       mem,
		store:     store,
		namespace: DefaultNamespace,
		logger:    slog.Default(),
		now:       time.Now,
		written:   bloom.NewFilter(4096, 0.01),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Prime seeds the key filter from the durable store so subsequent cold
// misses for never-written keys skip the storage read. Until Prime succeeds
// every memory miss falls through to storage.
func (c *Cache) Prime(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	keys, err := c.store.Keys(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		c.written.Add(key)
	}
	c.primed = true
	return nil
}

// Get returns the cached document. A memory miss falls through to the
// durable store; a fresh durable entry is re-admitted to memory and
// returned. Stale durable entries are purged and reported as misses.
func (c *Cache) Get(ctx context.Context, key string) (*docview.ProcessedDocument, bool) {
	if doc, ok := c.mem.Get(key); ok {
		return doc, true
	}
	if c.store == nil {
		return nil, false
	}

	skey := c.storageKey(key)

	c.mu.Lock()
	if c.primed && !c.written.Test(skey) {
		c.mu.Unlock()
		return nil, false
	}
	c.mu.Unlock()

	raw, err := c.store.Get(ctx, skey)
	if err != nil {
		if docview.ErrorCode(err) != docview.ENOTFOUND {
			c.logger.Warn("persistent cache read failed", "key", key, "error", err)
		}
		return nil, false
	}

	var doc docview.ProcessedDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		c.logger.Warn("persistent cache entry corrupt, purging", "key", key, "error", err)
		c.purge(ctx, skey)
		return nil, false
	}

	if c.maxAge > 0 && c.now().Sub(doc.FetchedAt) > c.maxAge {
		// Refreshing a stale document is the loader's job; this layer
		// only purges and reports a miss.
		c.purge(ctx, skey)
		return nil, false
	}

	if err := c.mem.Set(key, &doc, doc.ByteSize); err != nil {
		// The document is still usable even if memory won't hold it.
		c.logger.Warn("re-admission to memory cache failed", "key", key, "error", err)
	}
	return &doc, true
}

// Set stores the document in memory and mirrors it to durable storage
// asynchronously. The memory insert error, if any, is returned; durable
// write failures are logged only.
func (c *Cache) Set(ctx context.Context, key string, doc *docview.ProcessedDocument) error {
	if err := c.mem.Set(key, doc, doc.ByteSize); err != nil {
		return err
	}
	if c.store == nil {
		return nil
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		c.logger.Warn("persistent cache serialization failed", "key", key, "error", err)
		return nil
	}

	// The durable write outlives the request that triggered it.
	writeCtx := context.WithoutCancel(ctx)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.writeThrough(writeCtx, key, raw)
	}()
	return nil
}

// writeThrough persists raw, recovering once from quota exhaustion by
// evicting the oldest durable entries.
func (c *Cache) writeThrough(ctx context.Context, key string, raw []byte) {
	skey := c.storageKey(key)

	err := c.store.Set(ctx, skey, raw)
	if err == nil {
		c.recordWrite(skey)
		return
	}
	if !errors.Is(err, docview.ErrQuotaExceeded) {
		c.logger.Warn("persistent cache write failed", "key", key, "error", err)
		return
	}

	c.evictOldestDurable(ctx, quotaEvictBatch)
	if err := c.store.Set(ctx, skey, raw); err != nil {
		c.logger.Warn("persistent cache write failed after quota eviction", "key", key, "error", err)
		return
	}
	c.recordWrite(skey)
}

func (c *Cache) recordWrite(skey string) {
	c.mu.Lock()
	c.written.Add(skey)
	c.mu.Unlock()
}

// evictOldestDurable removes up to n of the oldest durable entries.
func (c *Cache) evictOldestDurable(ctx context.Context, n int) {
	keys, err := c.store.Keys(ctx)
	if err != nil {
		c.logger.Warn("listing durable keys for quota eviction failed", "error", err)
		return
	}
	prefix := c.namespace + ":"
	evicted := 0
	for _, key := range keys {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if err := c.store.Delete(ctx, key); err != nil {
			c.logger.Warn("quota eviction delete failed", "key", key, "error", err)
		}
		if evicted++; evicted >= n {
			return
		}
	}
}

// Delete removes the document from both layers.
func (c *Cache) Delete(ctx context.Context, key string) {
	c.mem.Delete(key)
	if c.store != nil {
		c.purge(ctx, c.storageKey(key))
	}
}

// Clear removes all entries from both layers.
func (c *Cache) Clear(ctx context.Context) {
	c.mem.Clear()
	if c.store == nil {
		return
	}
	keys, err := c.store.Keys(ctx)
	if err != nil {
		c.logger.Warn("listing durable keys for clear failed", "error", err)
		return
	}
	prefix := c.namespace + ":"
	for _, key := range keys {
		if strings.HasPrefix(key, prefix) {
			c.purge(ctx, key)
		}
	}
}

// OnEvict registers fn with the memory layer's capacity-eviction hook.
func (c *Cache) OnEvict(fn func(key string)) {
	c.mem.OnEvict(fn)
}

// EvictOldest removes up to n least-recently-used entries from memory only;
// durable copies survive for the next warm start.
func (c *Cache) EvictOldest(n int) []string {
	return c.mem.EvictOldest(n)
}

// Len returns the number of in-memory entries.
func (c *Cache) Len() int {
	return c.mem.Len()
}

// Stats reports in-memory occupancy and bounds.
func (c *Cache) Stats() docview.CacheStats {
	return c.mem.Stats()
}

// Flush blocks until all pending durable writes have settled.
func (c *Cache) Flush() {
	c.wg.Wait()
}

func (c *Cache) storageKey(key string) string {
	return c.namespace + ":" + key
}

func (c *Cache) purge(ctx context.Context, skey string) {
	if err := c.store.Delete(ctx, skey); err != nil {
		c.logger.Warn("persistent cache purge failed", "key", skey, "error", err)
	}
}
