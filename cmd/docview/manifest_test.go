package main_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AustinOrphan/docview"
	main "github.com/AustinOrphan/docview/cmd/docview"
)

func TestLoadManifest(t *testing.T) {
	t.Parallel()

	t.Run("parses all document fields", func(t *testing.T) {
		t.Parallel()

		path := writeManifest(t, `
[[docs]]
id = "api"
title = "API Reference"
source = "github"
owner = "octocat"
repo = "hello"
ref = "main"
file_path = "docs/api.md"
category = "reference"
tags = ["api", "reference"]
order = 2
`)

		m, err := main.LoadManifest(path)
		require.NoError(t, err)
		require.Len(t, m.Docs, 1)

		docs := m.Documents()
		require.Len(t, docs, 1)
		doc := docs[0]
		assert.Equal(t, "api", doc.ID)
		assert.Equal(t, "API Reference", doc.Title)
		assert.Equal(t, docview.SourceGitHub, doc.SourceType)
		assert.Equal(t, "octocat", doc.Owner)
		assert.Equal(t, "hello", doc.Repo)
		assert.Equal(t, "main", doc.Ref)
		assert.Equal(t, "docs/api.md", doc.FilePath)
		assert.Equal(t, "reference", doc.Category)
		assert.Equal(t, []string{"api", "reference"}, doc.Tags)
		assert.Equal(t, 2, doc.Order)
		require.NoError(t, doc.Validate())
	})

	t.Run("generates an id when missing", func(t *testing.T) {
		t.Parallel()

		path := writeManifest(t, `
[[docs]]
title = "Untitled"
source = "content"
content = "body"
`)

		m, err := main.LoadManifest(path)
		require.NoError(t, err)

		docs := m.Documents()
		require.Len(t, docs, 1)
		assert.NotEmpty(t, docs[0].ID)
	})

	t.Run("invalid toml returns error", func(t *testing.T) {
		t.Parallel()

		path := writeManifest(t, "[[docs]\nbroken")

		_, err := main.LoadManifest(path)
		require.Error(t, err)
		assert.Equal(t, docview.EINVALID, docview.ErrorCode(err))
	})
}
