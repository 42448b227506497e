package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/AustinOrphan/docview"
)

// Run executes the render command.
func (c *RenderCmd) Run(deps *Dependencies) error {
	doc := docFromTarget(c.Target)

	pdoc, err := deps.Loader.LoadDocument(deps.Ctx, doc)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docview.ErrorMessage(err))
		return err
	}

	if c.Raw {
		fmt.Fprintln(deps.Stdout, pdoc.RawContent)
		return nil
	}
	fmt.Fprintln(deps.Stdout, pdoc.RenderedHTML)
	return nil
}

// docFromTarget builds an ad-hoc document descriptor for a file path or
// URL given on the command line.
func docFromTarget(target string) *docview.Document {
	id := uuid.New().String()
	if strings.Contains(target, "://") {
		return &docview.Document{
			ID:         id,
			Title:      target,
			SourceType: docview.SourceURL,
			URL:        target,
		}
	}
	return &docview.Document{
		ID:         id,
		Title:      filepath.Base(target),
		SourceType: docview.SourceLocal,
		Path:       target,
	}
}
