package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AustinOrphan/docview"
	main "github.com/AustinOrphan/docview/cmd/docview"
	"github.com/AustinOrphan/docview/lru"
	"github.com/AustinOrphan/docview/persist"
)

func TestClearCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("requires force flag", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
		}

		cmd := &main.ClearCmd{}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, docview.EINVALID, docview.ErrorCode(err))
		assert.Contains(t, stderr.String(), "--force")
	})

	t.Run("clears the cache with force", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		cache := persist.New(lru.New[*docview.ProcessedDocument](10, 0), nil)
		require.NoError(t, cache.Set(ctx, "doc1", &docview.ProcessedDocument{DocumentID: "doc1"}))
		require.Equal(t, 1, cache.Len())

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    ctx,
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Cache:  cache,
		}

		cmd := &main.ClearCmd{Force: true}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Zero(t, cache.Len())
		assert.Contains(t, stdout.String(), "Cache cleared")
	})
}
