package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/fwojciec/catalog"
	"github.com/fwojciec/catalog/crawl"
	"github.com/fwojciec/catalog/goquery"
	"github.com/fwojciec/catalog/htmltomarkdown"
	cathttp "github.com/fwojciec/catalog/http"
	"github.com/fwojciec/catalog/prometheus"
	"github.com/fwojciec/catalog/readability"
	"github.com/fwojciec/catalog/rod"
	catslog "github.com/fwojciec/catalog/slog"
	"github.com/fwojciec/catalog/trafilatura"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	crawler := deps.Crawler
	if crawler == nil {
		var err error
		crawler, err = c.newCrawler(deps)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", catalog.ErrorMessage(err))
			return err
		}
		defer crawler.Fetcher.Close()
	}

	metrics, err := prometheus.NewMetrics(nil)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", catalog.ErrorMessage(err))
		return err
	}

	progress := func(event crawl.ProgressEvent) {
		metrics.Observe(event)
		switch event.Type {
		case crawl.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "Found %d product URLs\n", event.Total)
		case crawl.ProgressCompleted:
			fmt.Fprintf(deps.Stdout, "  [%d/%d] %s\n", event.Completed, event.Total, crawl.TruncateURL(event.URL, 72))
		case crawl.ProgressFailed:
			deps.Logger.Warn("skip product",
				"url", event.URL,
				"stage", event.Stage,
				"err", event.Error,
			)
		}
	}

	result, err := crawler.Run(deps.Ctx, c.Sitemap, progress)
	if result != nil {
		metrics.Finish(result, err)
		for _, col := range result.Collisions {
			deps.Logger.Warn("identity collision",
				"identity", col.Identity,
				"urls", strings.Join(col.URLs, " "),
			)
		}
		fmt.Fprintln(deps.Stdout, crawl.FormatSummary(result))
	}

	if c.Pushgateway != "" {
		if perr := metrics.Push(deps.Ctx, c.Pushgateway, prometheus.DefaultJob); perr != nil {
			deps.Logger.Warn("metrics push failed", "url", c.Pushgateway, "err", perr)
		}
	}

	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", catalog.ErrorMessage(err))
		return err
	}
	return nil
}

// newCrawler wires the production crawler from the command flags.
func (c *CrawlCmd) newCrawler(deps *Dependencies) (*crawl.Crawler, error) {
	logger := deps.Logger

	var fetcher catalog.Fetcher = cathttp.NewFetcher(cathttp.WithTimeout(c.Timeout))
	if c.Browser {
		f, err := rod.NewFetcher(rod.WithFetchTimeout(c.Timeout), rod.WithWaitSelector(c.WaitSelector))
		if err != nil {
			return nil, catalog.Errorf(catalog.EUNAVAILABLE, "browser unavailable: %v", err)
		}
		fetcher = f
	}

	extractor := goquery.NewExtractor(
		goquery.WithCategoryPath(c.CategoryPath),
		goquery.WithDescriptionFallbacks(trafilatura.NewExtractor(), readability.NewExtractor()),
	)

	return &crawl.Crawler{
		Sitemaps:    catslog.NewLoggingSitemapService(cathttp.NewSitemapService(&http.Client{Timeout: c.Timeout}), logger),
		Fetcher:     catslog.NewLoggingFetcher(fetcher, logger),
		Extractor:   catslog.NewLoggingExtractor(extractor, logger),
		Converter:   htmltomarkdown.NewConverter(),
		Products:    catslog.NewLoggingProductService(deps.Products, logger),
		RateLimiter: crawl.NewIntervalLimiter(c.Interval, c.Concurrency),
		Concurrency: c.Concurrency,
		Logger:      logger,
	}, nil
}
