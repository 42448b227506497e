package main

import (
	"context"
	"io"

	"github.com/AustinOrphan/docview"
	"github.com/AustinOrphan/docview/persist"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Loader docview.Loader
	Cache  *persist.Cache
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Render RenderCmd `cmd:"" help:"Render a document to HTML"`
	Warm   WarmCmd   `cmd:"" help:"Pre-load all documents from a manifest"`
	Stats  StatsCmd  `cmd:"" help:"Show cache occupancy"`
	Clear  ClearCmd  `cmd:"" help:"Clear the document cache"`
}

// RenderCmd is the "render" subcommand.
type RenderCmd struct {
	Target string `arg:"" help:"File path or URL to render"`
	Raw    bool   `short:"r" help:"Print the raw markdown instead of HTML"`
}

// WarmCmd is the "warm" subcommand.
type WarmCmd struct {
	Manifest string `arg:"" help:"Path to a TOML document manifest"`
}

// StatsCmd is the "stats" subcommand.
type StatsCmd struct{}

// ClearCmd is the "clear" subcommand.
type ClearCmd struct {
	Force bool `help:"Confirm clearing the cache"`
}
