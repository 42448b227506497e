package mock

import (
	"context"

	"github.com/AustinOrphan/docview"
)

var _ docview.Loader = (*Loader)(nil)

// Loader is a mock implementation of docview.Loader.
type Loader struct {
	LoadDocumentFn func(ctx context.Context, doc *docview.Document) (*docview.ProcessedDocument, error)
	LoadAllFn      func(ctx context.Context, docs []*docview.Document) ([]*docview.ProcessedDocument, []docview.LoadFailure)
	InvalidateFn   func(documentID string)
	StatsFn        func() docview.CacheStats
}

func (l *Loader) LoadDocument(ctx context.Context, doc *docview.Document) (*docview.ProcessedDocument, error) {
	return l.LoadDocumentFn(ctx, doc)
}

func (l *Loader) LoadAll(ctx context.Context, docs []*docview.Document) ([]*docview.ProcessedDocument, []docview.LoadFailure) {
	return l.LoadAllFn(ctx, docs)
}

func (l *Loader) Invalidate(documentID string) {
	l.InvalidateFn(documentID)
}

func (l *Loader) Stats() docview.CacheStats {
	return l.StatsFn()
}
