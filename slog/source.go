// Package slog provides logging decorators for docview services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/AustinOrphan/docview"
)

// Ensure LoggingSource implements docview.Source.
var _ docview.Source = (*LoggingSource)(nil)

// LoggingSource wraps a Source with debug logging for every fetch.
type LoggingSource struct {
	next   docview.Source
	logger *slog.Logger
}

// NewLoggingSource creates a new LoggingSource.
func NewLoggingSource(next docview.Source, logger *slog.Logger) *LoggingSource {
	return &LoggingSource{next: next, logger: logger}
}

// FetchRaw delegates to the wrapped source and logs the outcome.
func (s *LoggingSource) FetchRaw(ctx context.Context, doc *docview.Document) (*docview.SourceResult, error) {
	begin := time.Now()
	res, err := s.next.FetchRaw(ctx, doc)
	duration := time.Since(begin)

	if err != nil {
		s.logger.Error("fetch",
			slog.String("doc", doc.ID),
			slog.String("source", string(doc.SourceType)),
			slog.Duration("duration", duration),
			slog.Any("err", err),
		)
		return nil, err
	}

	s.logger.Debug("fetch",
		slog.String("doc", doc.ID),
		slog.String("source", string(doc.SourceType)),
		slog.Int("bytes", len(res.Content)),
		slog.Duration("duration", duration),
	)
	return res, nil
}
