package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/catalog"
	"github.com/fwojciec/catalog/crawl"
	"github.com/fwojciec/catalog/sqlite"
)

// DefaultSitemapURL is the product sitemap crawled when none is configured.
const DefaultSitemapURL = "https://www.sepenatural.com.tr/xml/sitemap_product_1.xml"

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx        context.Context
	Stdout     io.Writer
	Stderr     io.Writer
	Logger     *slog.Logger
	DB         *sqlite.DB
	Products   catalog.ProductService
	Categories catalog.CategoryService
	Stats      catalog.StatsService
	// Crawler overrides the crawler built from the crawl flags.
	Crawler *crawl.Crawler
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB      string `name:"db" help:"Database path (default: ~/.catalog/catalog.db)"`
	Verbose bool   `short:"v" help:"Enable debug logging"`

	Crawl      CrawlCmd      `cmd:"" default:"withargs" help:"Crawl the product sitemap and store every product (default)"`
	Products   ProductsCmd   `cmd:"" help:"Print stored products with categories, attributes and ingredients as JSON"`
	Categories CategoriesCmd `cmd:"" help:"List known categories"`
	Stats      StatsCmd      `cmd:"" help:"Show row counts per table"`
	Export     ExportCmd     `cmd:"" help:"Export every table as CSV"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	Sitemap      string        `env:"CATALOG_SITEMAP_URL" default:"${sitemap}" help:"Product sitemap URL"`
	Interval     time.Duration `env:"CATALOG_INTERVAL" default:"1s" help:"Minimum delay between requests of one worker"`
	Concurrency  int           `short:"c" env:"CATALOG_CONCURRENCY" default:"1" help:"Concurrent page limit"`
	Timeout      time.Duration `default:"15s" help:"HTTP request timeout"`
	CategoryPath string        `default:"/kategori/" help:"URL fragment identifying category links"`
	Pushgateway  string        `env:"CATALOG_PUSHGATEWAY_URL" help:"Prometheus Pushgateway URL for crawl metrics"`
	Browser      bool          `env:"CATALOG_BROWSER" help:"Render pages in headless Chrome instead of plain HTTP"`
	WaitSelector string        `help:"CSS selector to wait for when rendering with --browser"`
}

// ProductsCmd is the "products" subcommand.
type ProductsCmd struct {
	Category string `help:"Only products linked to this category"`
	SKU      string `name:"sku" help:"Only the product with this SKU"`
	Limit    int    `help:"Maximum number of products"`
	Offset   int    `help:"Number of products to skip"`
}

// CategoriesCmd is the "categories" subcommand.
type CategoriesCmd struct{}

// StatsCmd is the "stats" subcommand.
type StatsCmd struct{}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Dir string `arg:"" type:"path" help:"Output directory"`
}
