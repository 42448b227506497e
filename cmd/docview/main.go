package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/AustinOrphan/docview"
	"github.com/AustinOrphan/docview/fs"
	"github.com/AustinOrphan/docview/github"
	"github.com/AustinOrphan/docview/goldmark"
	dochttp "github.com/AustinOrphan/docview/http"
	"github.com/AustinOrphan/docview/load"
	"github.com/AustinOrphan/docview/lru"
	"github.com/AustinOrphan/docview/persist"
	docslog "github.com/AustinOrphan/docview/slog"
	"github.com/AustinOrphan/docview/sqlite"
)

// Default cache bounds for the in-memory layer.
const (
	defaultMaxEntries    = 100
	defaultMaxBytes      = 50 << 20
	defaultMemoryCeiling = 64 << 20
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database backing the durable cache layer.
	DB *sqlite.DB

	// Services for end-to-end testing.
	Loader docview.Loader
	Cache  *persist.Cache
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program, draining pending cache writes first.
func (m *Main) Close() error {
	if m.Cache != nil {
		m.Cache.Flush()
	}
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	// Create Kong parser with dependency binding
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docview"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags using Kong
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'docview --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	// Parse arguments first to know which command and its flags
	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Open database
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set DOCVIEW_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: logLevel(),
	}))

	// Wire the caching layers
	mem := lru.New[*docview.ProcessedDocument](defaultMaxEntries, defaultMaxBytes)
	m.Cache = persist.New(mem, sqlite.NewBlobStore(m.DB), persist.WithLogger(logger))
	if err := m.Cache.Prime(ctx); err != nil {
		logger.Warn("priming cache index failed", "error", err)
	}

	// Wire the source strategies
	sources := load.Sources{
		docview.SourceLocal:   docslog.NewLoggingSource(fs.NewSource("."), logger),
		docview.SourceURL:     docslog.NewLoggingSource(dochttp.NewSource(), logger),
		docview.SourceGitHub:  docslog.NewLoggingSource(github.NewSource(github.WithToken(os.Getenv("GITHUB_TOKEN"))), logger),
		docview.SourceContent: &docview.ContentSource{},
	}

	monitor := docview.NewMemoryMonitor(defaultMemoryCeiling)
	m.Loader = load.New(sources, goldmark.NewRenderer(), m.Cache,
		load.WithMonitor(monitor),
		load.WithLogger(logger),
	)

	deps.Loader = m.Loader
	deps.Cache = m.Cache

	return kongCtx.Run(deps)
}

func logLevel() slog.Level {
	if os.Getenv("DOCVIEW_DEBUG") != "" {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

func defaultDBPath() string {
	if path := os.Getenv("DOCVIEW_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "docview.db"
	}
	dir := filepath.Join(home, ".docview")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "docview.db")
}
