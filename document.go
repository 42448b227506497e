package docview

import (
	"context"
	"time"
)

// SourceType identifies which source strategy loads a document.
type SourceType string

// Source types supported by the loader.
const (
	SourceLocal   SourceType = "local"
	SourceURL     SourceType = "url"
	SourceGitHub  SourceType = "github"
	SourceContent SourceType = "content"
)

// Document describes a document to load. It is supplied by configuration
// and immutable once handed to a loader. ID is the primary key for all
// caching layers.
type Document struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	SourceType SourceType `json:"sourceType"`

	// Path locates a local document relative to the source's base directory.
	Path string `json:"path,omitempty"`

	// URL locates a remote document, absolute or relative to a base URL.
	URL string `json:"url,omitempty"`

	// Owner, Repo, Ref and FilePath locate a document in a GitHub repository.
	Owner    string `json:"owner,omitempty"`
	Repo     string `json:"repo,omitempty"`
	Ref      string `json:"ref,omitempty"`
	FilePath string `json:"filePath,omitempty"`

	// Content holds inline markdown for content-type documents.
	Content string `json:"content,omitempty"`

	// Presentation metadata. Not consulted by any caching logic.
	Category string   `json:"category,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Order    int      `json:"order,omitempty"`
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.ID == "" {
		return Errorf(EINVALID, "document ID required")
	}
	switch d.SourceType {
	case SourceLocal:
		if d.Path == "" {
			return Errorf(EINVALID, "document %q: path required for local source", d.ID)
		}
	case SourceURL:
		if d.URL == "" {
			return Errorf(EINVALID, "document %q: URL required for url source", d.ID)
		}
	case SourceGitHub:
		if d.Owner == "" || d.Repo == "" || d.FilePath == "" {
			return Errorf(EINVALID, "document %q: owner, repo and file path required for github source", d.ID)
		}
	case SourceContent:
		if d.Content == "" {
			return Errorf(EINVALID, "document %q: inline content required for content source", d.ID)
		}
	default:
		return Errorf(EINVALID, "document %q: unknown source type %q", d.ID, d.SourceType)
	}
	return nil
}

// ProcessedDocument is the cache value for a loaded document. Instances are
// replaced wholesale on reload; raw and rendered content are never mutated
// independently.
type ProcessedDocument struct {
	DocumentID   string    `json:"documentId"`
	RawContent   string    `json:"rawContent"`
	RenderedHTML string    `json:"renderedHtml"`
	ByteSize     int64     `json:"byteSize"`
	FetchedAt    time.Time `json:"fetchedAt"`
	ETag         string    `json:"etag,omitempty"`
	ContentHash  string    `json:"contentHash,omitempty"`
}

// CacheStats reports cache occupancy and configured bounds.
type CacheStats struct {
	EntryCount int   `json:"entryCount"`
	ByteUsage  int64 `json:"byteUsage"`
	MaxEntries int   `json:"maxEntries"`
	MaxBytes   int64 `json:"maxBytes"`
}

// LoadFailure pairs a document ID with the error that prevented its load.
type LoadFailure struct {
	DocumentID string `json:"documentId"`
	Err        error  `json:"-"`
}

// Loader loads documents through the caching layers.
type Loader interface {
	// LoadDocument returns the processed document for doc, fetching it at
	// most once regardless of how many callers request it concurrently.
	LoadDocument(ctx context.Context, doc *Document) (*ProcessedDocument, error)

	// LoadAll loads every document, tolerating individual failures.
	// Successes are returned in input order; failures are reported
	// alongside, one per failed document.
	LoadAll(ctx context.Context, docs []*Document) ([]*ProcessedDocument, []LoadFailure)

	// Invalidate removes the document from all cache layers. A fetch in
	// flight for the ID still resolves for its waiters but is not cached.
	Invalidate(documentID string)

	// Stats reports occupancy of the in-memory cache.
	Stats() CacheStats
}
