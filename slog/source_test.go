package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AustinOrphan/docview"
	"github.com/AustinOrphan/docview/mock"
	docslog "github.com/AustinOrphan/docview/slog"
)

func TestLoggingSource_FetchRaw(t *testing.T) {
	t.Parallel()

	t.Run("logs fetch with bytes and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		inner := &mock.Source{
			FetchRawFn: func(ctx context.Context, doc *docview.Document) (*docview.SourceResult, error) {
				return &docview.SourceResult{Content: "# markdown body"}, nil
			},
		}

		src := docslog.NewLoggingSource(inner, logger)
		res, err := src.FetchRaw(context.Background(), &docview.Document{
			ID:         "guide",
			SourceType: docview.SourceLocal,
			Path:       "guide.md",
		})

		require.NoError(t, err)
		assert.Equal(t, "# markdown body", res.Content)
		output := buf.String()
		assert.Contains(t, output, "fetch")
		assert.Contains(t, output, "doc=guide")
		assert.Contains(t, output, "source=local")
		assert.Contains(t, output, "bytes=15")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Source{
			FetchRawFn: func(ctx context.Context, doc *docview.Document) (*docview.SourceResult, error) {
				return nil, errors.New("network error")
			},
		}

		src := docslog.NewLoggingSource(inner, logger)
		_, err := src.FetchRaw(context.Background(), &docview.Document{
			ID:         "guide",
			SourceType: docview.SourceURL,
			URL:        "https://example.com/guide.md",
		})

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "fetch")
		assert.Contains(t, output, "err=\"network error\"")
	})
}
