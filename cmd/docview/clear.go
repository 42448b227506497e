package main

import (
	"fmt"

	"github.com/AustinOrphan/docview"
)

// Run executes the clear command.
func (c *ClearCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm clearing the cache\n")
		return docview.Errorf(docview.EINVALID, "use --force to confirm clearing the cache")
	}

	deps.Cache.Clear(deps.Ctx)
	deps.Cache.Flush()
	fmt.Fprintln(deps.Stdout, "Cache cleared")
	return nil
}
