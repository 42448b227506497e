package main

import (
	"fmt"

	"github.com/AustinOrphan/docview"
)

// Run executes the warm command.
func (c *WarmCmd) Run(deps *Dependencies) error {
	manifest, err := LoadManifest(c.Manifest)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docview.ErrorMessage(err))
		return err
	}

	docs := manifest.Documents()
	if len(docs) == 0 {
		fmt.Fprintln(deps.Stdout, "Manifest has no documents.")
		return nil
	}

	loaded, failures := deps.Loader.LoadAll(deps.Ctx, docs)

	fmt.Fprintf(deps.Stdout, "Loaded %d of %d documents\n", len(loaded), len(docs))
	for _, f := range failures {
		fmt.Fprintf(deps.Stderr, "  %s: %s\n", f.DocumentID, docview.ErrorMessage(f.Err))
	}

	if len(failures) > 0 {
		return docview.Errorf(docview.EINTERNAL, "%d of %d documents failed to load", len(failures), len(docs))
	}
	return nil
}
