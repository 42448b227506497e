// Package fs provides the local source strategy, reading markdown files
// from a base directory on disk.
package fs

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/AustinOrphan/docview"
)

// Ensure Source implements docview.Source at compile time.
var _ docview.Source = (*Source)(nil)

// Source reads documents from files under a base directory. Locators are
// relative paths; paths that escape the base directory are rejected.
type Source struct {
	baseDir string
}

// NewSource creates a Source rooted at baseDir.
func NewSource(baseDir string) *Source {
	return &Source{baseDir: baseDir}
}

// FetchRaw reads the markdown file at the document's path.
func (s *Source) FetchRaw(_ context.Context, doc *docview.Document) (*docview.SourceResult, error) {
	rel := filepath.Clean(filepath.FromSlash(doc.Path))
	if filepath.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, docview.Errorf(docview.EFORBIDDEN, "document %q path escapes the base directory", doc.ID)
	}

	full := filepath.Join(s.baseDir, rel)
	data, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, docview.Errorf(docview.ENOTFOUND, "document %q not found at %s", doc.ID, rel)
		}
		if errors.Is(err, fs.ErrPermission) {
			return nil, docview.Errorf(docview.EFORBIDDEN, "document %q not readable at %s", doc.ID, rel)
		}
		return nil, docview.WrapErrorf(err, docview.EUNAVAILABLE, "reading document %q", doc.ID)
	}

	return &docview.SourceResult{Content: string(data)}, nil
}
