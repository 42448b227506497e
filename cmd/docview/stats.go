package main

import "fmt"

// Run executes the stats command.
func (c *StatsCmd) Run(deps *Dependencies) error {
	s := deps.Loader.Stats()
	fmt.Fprintf(deps.Stdout, "Entries: %d / %d\n", s.EntryCount, s.MaxEntries)
	fmt.Fprintf(deps.Stdout, "Bytes:   %d / %d\n", s.ByteUsage, s.MaxBytes)
	return nil
}
