package docview

import "context"

// SourceResult holds raw markdown retrieved from a source.
type SourceResult struct {
	// Content is the unrendered markdown text.
	Content string

	// ETag identifies the upstream revision, when the source exposes one.
	ETag string
}

// Source retrieves raw markdown for documents of one source type.
//
// Implementations return errors with these codes: ENOTFOUND when the
// resource does not exist, EFORBIDDEN on access denial, ERATELIMIT when
// throttled (optionally with a RetryAfter hint), EUNAVAILABLE on transient
// transport failures, and EINVALID for malformed descriptors or payloads.
type Source interface {
	FetchRaw(ctx context.Context, doc *Document) (*SourceResult, error)
}

// Ensure ContentSource implements Source at compile time.
var _ Source = (*ContentSource)(nil)

// ContentSource serves documents whose markdown is embedded in the
// descriptor itself. It performs no I/O.
type ContentSource struct{}

// FetchRaw returns the document's inline content.
func (*ContentSource) FetchRaw(_ context.Context, doc *Document) (*SourceResult, error) {
	if doc.Content == "" {
		return nil, Errorf(EINVALID, "document %q has no inline content", doc.ID)
	}
	return &SourceResult{Content: doc.Content}, nil
}
