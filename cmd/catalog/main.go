package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/catalog"
	"github.com/fwojciec/catalog/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	ProductService  catalog.ProductService
	CategoryService catalog.CategoryService
	StatsService    catalog.StatsService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments. Without a command the
// crawl runs with its defaults.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("catalog"),
		kong.Description("Crawl a product sitemap into a normalized SQLite catalog."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
		kong.Vars{"sitemap": DefaultSitemapURL},
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if (len(args) > 0 && args[0] == "help") || slices.ContainsFunc(args, isHelpFlag) {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if cli.DB != "" {
		m.DBPath = cli.DB
	}
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set CATALOG_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	m.ProductService = sqlite.NewProductService(m.DB)
	m.CategoryService = sqlite.NewCategoryService(m.DB)
	m.StatsService = sqlite.NewStatsService(m.DB)
	deps.DB = m.DB
	deps.Products = m.ProductService
	deps.Categories = m.CategoryService
	deps.Stats = m.StatsService

	return kongCtx.Run(deps)
}

func isHelpFlag(arg string) bool {
	return arg == "--help" || arg == "-h"
}

func defaultDBPath() string {
	if path := os.Getenv("CATALOG_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "catalog.db"
	}
	dir := filepath.Join(home, ".catalog")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "catalog.db")
}
