// Package mock provides function-field mock implementations of docview
// interfaces for testing.
package mock

import (
	"context"

	"github.com/AustinOrphan/docview"
)

var _ docview.Source = (*Source)(nil)

// Source is a mock implementation of docview.Source.
type Source struct {
	FetchRawFn func(ctx context.Context, doc *docview.Document) (*docview.SourceResult, error)
}

func (s *Source) FetchRaw(ctx context.Context, doc *docview.Document) (*docview.SourceResult, error) {
	return s.FetchRawFn(ctx, doc)
}
