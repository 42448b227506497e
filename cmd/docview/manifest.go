package main

import (
	"os"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"

	"github.com/AustinOrphan/docview"
)

// Manifest lists the documents a viewer serves, parsed from TOML.
type Manifest struct {
	Docs []ManifestDoc `toml:"docs"`
}

// ManifestDoc is one document entry in a manifest file.
type ManifestDoc struct {
	ID       string   `toml:"id"`
	Title    string   `toml:"title"`
	Source   string   `toml:"source"`
	Path     string   `toml:"path"`
	URL      string   `toml:"url"`
	Owner    string   `toml:"owner"`
	Repo     string   `toml:"repo"`
	Ref      string   `toml:"ref"`
	FilePath string   `toml:"file_path"`
	Content  string   `toml:"content"`
	Category string   `toml:"category"`
	Tags     []string `toml:"tags"`
	Order    int      `toml:"order"`
}

// LoadManifest reads and parses a TOML manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, docview.WrapErrorf(err, docview.ENOTFOUND, "reading manifest %q", path)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, docview.WrapErrorf(err, docview.EINVALID, "parsing manifest %q", path)
	}
	return &m, nil
}

// Documents converts manifest entries to document descriptors. Entries
// without an explicit ID get a generated one.
func (m *Manifest) Documents() []*docview.Document {
	docs := make([]*docview.Document, 0, len(m.Docs))
	for _, d := range m.Docs {
		id := d.ID
		if id == "" {
			id = uuid.New().String()
		}
		docs = append(docs, &docview.Document{
			ID:         id,
			Title:      d.Title,
			SourceType: docview.SourceType(d.Source),
			Path:       d.Path,
			URL:        d.URL,
			Owner:      d.Owner,
			Repo:       d.Repo,
			Ref:        d.Ref,
			FilePath:   d.FilePath,
			Content:    d.Content,
			Category:   d.Category,
			Tags:       d.Tags,
			Order:      d.Order,
		})
	}
	return docs
}
