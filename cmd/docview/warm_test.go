package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AustinOrphan/docview"
	main "github.com/AustinOrphan/docview/cmd/docview"
	"github.com/AustinOrphan/docview/mock"
)

// writeManifest writes a manifest file into a temp dir and returns its path.
func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docs.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestWarmCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("loads all manifest documents", func(t *testing.T) {
		t.Parallel()

		manifest := writeManifest(t, `
[[docs]]
id = "intro"
title = "Introduction"
source = "content"
content = "# Intro"

[[docs]]
id = "guide"
title = "Guide"
source = "local"
path = "docs/guide.md"
`)

		var loadedIDs []string
		loader := &mock.Loader{
			LoadAllFn: func(_ context.Context, docs []*docview.Document) ([]*docview.ProcessedDocument, []docview.LoadFailure) {
				results := make([]*docview.ProcessedDocument, 0, len(docs))
				for _, d := range docs {
					loadedIDs = append(loadedIDs, d.ID)
					results = append(results, &docview.ProcessedDocument{DocumentID: d.ID})
				}
				return results, nil
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: stderr,
			Loader: loader,
		}

		cmd := &main.WarmCmd{Manifest: manifest}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, []string{"intro", "guide"}, loadedIDs)
		assert.Contains(t, stdout.String(), "Loaded 2 of 2 documents")
		assert.Empty(t, stderr.String())
	})

	t.Run("reports per-document failures and returns error", func(t *testing.T) {
		t.Parallel()

		manifest := writeManifest(t, `
[[docs]]
id = "good"
source = "content"
content = "ok"

[[docs]]
id = "bad"
source = "url"
url = "https://example.com/bad.md"
`)

		loader := &mock.Loader{
			LoadAllFn: func(_ context.Context, docs []*docview.Document) ([]*docview.ProcessedDocument, []docview.LoadFailure) {
				return []*docview.ProcessedDocument{{DocumentID: "good"}},
					[]docview.LoadFailure{{
						DocumentID: "bad",
						Err:        docview.Errorf(docview.EUNAVAILABLE, "connection refused"),
					}}
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: stderr,
			Loader: loader,
		}

		cmd := &main.WarmCmd{Manifest: manifest}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Contains(t, stdout.String(), "Loaded 1 of 2 documents")
		assert.Contains(t, stderr.String(), "bad")
		assert.Contains(t, stderr.String(), "connection refused")
	})

	t.Run("empty manifest is not an error", func(t *testing.T) {
		t.Parallel()

		manifest := writeManifest(t, "")

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
		}

		cmd := &main.WarmCmd{Manifest: manifest}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "no documents")
	})

	t.Run("missing manifest file returns error", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
		}

		cmd := &main.WarmCmd{Manifest: filepath.Join(t.TempDir(), "nope.toml")}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, docview.ENOTFOUND, docview.ErrorCode(err))
		assert.Contains(t, stderr.String(), "error:")
	})
}
