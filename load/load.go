// Package load provides the document loading orchestrator. It coordinates
// source strategies, the caching layers, retry with backoff, and memory
// pressure response, and coalesces concurrent requests for the same
// document into a single fetch.
package load

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"log/slog"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/AustinOrphan/docview"
	"github.com/AustinOrphan/docview/persist"
)

// DefaultConcurrency bounds parallel fetches in LoadAll.
const DefaultConcurrency = 8

// Sources maps a source type to the strategy that serves it.
type Sources map[docview.SourceType]docview.Source

// Ensure Loader implements docview.Loader at compile time.
var _ docview.Loader = (*Loader)(nil)

// Loader loads documents through the caching layers. One Loader owns its
// caches and memory monitor exclusively; independent viewer sessions get
// independent Loader instances.
type Loader struct {
	sources     Sources
	renderer    docview.Renderer
	cache       *persist.Cache
	monitor     *docview.MemoryMonitor
	retry       RetryConfig
	concurrency int
	logger      *slog.Logger

	mu       sync.Mutex
	inflight map[string]*inflight
}

// inflight is a pending load shared by all concurrent callers for one
// document ID. doc and err are written once, before done is closed.
type inflight struct {
	done    chan struct{}
	doc     *docview.ProcessedDocument
	err     error
	noCache bool // guarded by Loader.mu
}

func (f *inflight) wait(ctx context.Context) (*docview.ProcessedDocument, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-f.done:
		return f.doc, f.err
	}
}

// Option configures a Loader.
type Option func(*Loader)

// WithMonitor attaches a memory monitor. The loader records sizes of cached
// documents and responds to pressure changes with proactive eviction.
func WithMonitor(m *docview.MemoryMonitor) Option {
	return func(l *Loader) {
		l.monitor = m
	}
}

// WithRetry overrides the retry configuration.
func WithRetry(cfg RetryConfig) Option {
	return func(l *Loader) {
		l.retry = cfg.withDefaults()
	}
}

// WithConcurrency bounds parallel fetches in LoadAll.
// Defaults to DefaultConcurrency.
func WithConcurrency(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.concurrency = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// New creates a Loader for the given source strategies, renderer and cache.
func New(sources Sources, renderer docview.Renderer, cache *persist.Cache, opts ...Option) *Loader {
	l := &Loader{
		sources:     sources,
		renderer:    renderer,
		cache:       cache,
		retry:       DefaultRetryConfig(),
		concurrency: DefaultConcurrency,
		logger:      slog.Default(),
		inflight:    make(map[string]*inflight),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.With("session", uuid.New().String())

	if l.monitor != nil {
		l.cache.OnEvict(func(key string) {
			l.monitor.Release(key)
		})
		l.monitor.OnPressureChange(l.onPressure)
	}
	return l
}

// LoadDocument returns the processed document for doc. Concurrent calls for
// the same ID share one fetch: the in-flight map is checked and populated
// before any blocking work, so at most one fetch per ID is ever active.
func (l *Loader) LoadDocument(ctx context.Context, doc *docview.Document) (*docview.ProcessedDocument, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	if fl, ok := l.inflight[doc.ID]; ok {
		l.mu.Unlock()
		return fl.wait(ctx)
	}
	fl := &inflight{done: make(chan struct{})}
	l.inflight[doc.ID] = fl
	l.mu.Unlock()

	// The fetch is detached from the initiating caller's cancellation so
	// that abandoning a load never starves other waiters; source-level
	// timeouts still bound it.
	go l.run(context.WithoutCancel(ctx), doc, fl)

	return fl.wait(ctx)
}

func (l *Loader) run(ctx context.Context, doc *docview.Document, fl *inflight) {
	pdoc, err := l.load(ctx, doc, fl)

	l.mu.Lock()
	delete(l.inflight, doc.ID)
	l.mu.Unlock()

	fl.doc, fl.err = pdoc, err
	close(fl.done)
}

func (l *Loader) load(ctx context.Context, doc *docview.Document, fl *inflight) (*docview.ProcessedDocument, error) {
	if cached, ok := l.cache.Get(ctx, doc.ID); ok {
		// A hit hydrated from durable storage re-enters memory without
		// passing through the insert path below, so account for it here.
		// Record replaces any previous size, making this a no-op for
		// documents already tracked.
		if l.monitor != nil {
			l.monitor.Record(doc.ID, cached.ByteSize)
		}
		return cached, nil
	}

	res, err := l.fetchWithRetry(ctx, doc)
	if err != nil {
		return nil, err
	}

	html, err := l.renderer.Render(ctx, res.Content)
	if err != nil {
		return nil, docview.WrapErrorf(err, docview.EINTERNAL, "rendering document %q failed", doc.ID)
	}

	pdoc := &docview.ProcessedDocument{
		DocumentID:   doc.ID,
		RawContent:   res.Content,
		RenderedHTML: html,
		ByteSize:     int64(len(res.Content) + len(html)),
		FetchedAt:    time.Now().UTC(),
		ETag:         res.ETag,
		ContentHash:  hashContent(res.Content),
	}

	// The invalidation check and the insert must be one atomic step: an
	// Invalidate landing between them would delete from the cache and then
	// be overwritten by this insert.
	l.mu.Lock()
	if fl.noCache {
		l.mu.Unlock()
		return pdoc, nil
	}
	err = l.cache.Set(ctx, doc.ID, pdoc)
	if err == nil && l.monitor != nil {
		l.monitor.Record(doc.ID, pdoc.ByteSize)
	}
	l.mu.Unlock()

	if err != nil {
		// Memory safety wins over caching: serve the document uncached.
		l.logger.Warn("caching document failed", "id", doc.ID, "error", err)
	}
	return pdoc, nil
}

// fetchWithRetry invokes the matching source strategy, retrying transient
// failures with exponential backoff. Permanent failures surface immediately.
func (l *Loader) fetchWithRetry(ctx context.Context, doc *docview.Document) (*docview.SourceResult, error) {
	src, ok := l.sources[doc.SourceType]
	if !ok {
		return nil, docview.Errorf(docview.EINVALID, "no source registered for type %q", doc.SourceType)
	}

	var lastErr error
	for attempt := 1; attempt <= l.retry.MaxAttempts; attempt++ {
		res, err := src.FetchRaw(ctx, doc)
		if err == nil {
			return res, nil
		}
		lastErr = err

		if !docview.IsRetryable(err) {
			return nil, err
		}
		if attempt >= l.retry.MaxAttempts {
			break
		}

		delay := l.retry.delay(attempt)
		// A server-provided hint overrides the computed backoff.
		if hint := docview.RetryAfterHint(err); hint > delay {
			delay = min(hint, l.retry.MaxDelay)
		}
		l.logger.Debug("retrying document fetch",
			"id", doc.ID,
			"attempt", attempt,
			"delay", delay,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	return nil, docview.WrapErrorf(lastErr, docview.EEXHAUSTED,
		"loading document %q failed after %d attempts", doc.ID, l.retry.MaxAttempts)
}

// LoadAll loads every document, tolerating individual failures. Successes
// are returned in input order; each failed document contributes one entry
// to the failure list.
func (l *Loader) LoadAll(ctx context.Context, docs []*docview.Document) ([]*docview.ProcessedDocument, []docview.LoadFailure) {
	results := make([]*docview.ProcessedDocument, len(docs))
	errs := make([]error, len(docs))

	g := new(errgroup.Group)
	g.SetLimit(l.concurrency)
	for i, doc := range docs {
		g.Go(func() error {
			results[i], errs[i] = l.LoadDocument(ctx, doc)
			return nil
		})
	}
	_ = g.Wait()

	loaded := make([]*docview.ProcessedDocument, 0, len(docs))
	var failures []docview.LoadFailure
	for i, doc := range docs {
		if errs[i] != nil {
			failures = append(failures, docview.LoadFailure{DocumentID: doc.ID, Err: errs[i]})
			continue
		}
		loaded = append(loaded, results[i])
	}
	return loaded, failures
}

// Invalidate removes the document from both cache layers. A fetch in flight
// for the ID still resolves for its waiters, but its result is not cached.
func (l *Loader) Invalidate(documentID string) {
	l.mu.Lock()
	if fl, ok := l.inflight[documentID]; ok {
		fl.noCache = true
	}
	l.mu.Unlock()

	l.cache.Delete(context.Background(), documentID)
	if l.monitor != nil {
		l.monitor.Release(documentID)
	}
}

// Stats reports occupancy of the in-memory cache.
func (l *Loader) Stats() docview.CacheStats {
	return l.cache.Stats()
}

// onPressure sheds the least-recently-used quarter of the cache on warning
// and half on critical, before the hard cap forces thrashing at the boundary.
func (l *Loader) onPressure(level docview.PressureLevel) {
	var divisor int
	switch level {
	case docview.PressureWarning:
		divisor = 4
	case docview.PressureCritical:
		divisor = 2
	default:
		return
	}

	n := l.cache.Len() / divisor
	if n == 0 {
		n = 1
	}
	evicted := l.cache.EvictOldest(n)
	for _, key := range evicted {
		l.monitor.Release(key)
	}
	l.logger.Info("evicted documents under memory pressure",
		"level", level.String(),
		"count", len(evicted),
	)
}

// hashContent computes xxHash of content and returns a hex string.
func hashContent(content string) string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], xxhash.Sum64String(content))
	return hex.EncodeToString(b[:])
}
