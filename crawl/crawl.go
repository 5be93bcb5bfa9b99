// Package crawl provides catalog crawling orchestration.
// It coordinates sitemap discovery, fetching, field extraction, ingredient
// parsing and storage of product pages.
package crawl

import (
	"context"
	"log/slog"
	"net/url"
	"slices"
	"time"

	"github.com/fwojciec/catalog"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency processes one page at a time.
const DefaultConcurrency = 1

// Crawler orchestrates the crawling of a product catalog.
//
// Converter, RateLimiter and Logger are optional. Without a Converter
// product descriptions get no plain-text rendition; without a RateLimiter
// pages are fetched as fast as the workers allow. Logger receives fetch
// retries.
type Crawler struct {
	Sitemaps    catalog.SitemapService
	Fetcher     catalog.Fetcher
	Extractor   catalog.ProductExtractor
	Converter   catalog.Converter
	Products    catalog.ProductService
	RateLimiter catalog.DomainLimiter
	Concurrency int
	RetryDelays []time.Duration
	Logger      *slog.Logger

	locks keyLock
}

// Stage names the pipeline step at which an item failed.
type Stage string

const (
	StageFetch   Stage = "fetch"
	StageExtract Stage = "extract"
	StagePersist Stage = "persist"
)

// Failure records one page that could not be processed.
type Failure struct {
	URL   string
	Stage Stage
	Err   error
}

// Collision records a product identity claimed by more than one URL.
type Collision struct {
	Identity string
	URLs     []string
}

// Result holds the outcome of a crawl run. Partial completion is a valid
// outcome: Saved counts the pages persisted, Failures lists the rest.
type Result struct {
	Total      int
	Saved      int
	Failed     int
	Failures   []Failure
	Collisions []Collision
	Duration   time.Duration
}

// ProgressEvent reports progress during a crawl run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Stage     Stage
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// itemResult holds the outcome of processing a single URL.
type itemResult struct {
	position int
	url      string
	identity string
	stage    Stage
	err      error
	// conflicts lists stored URLs that hold the identity of this page.
	conflicts []string
}

// Run crawls every page listed by the sitemap at sitemapURL and stores the
// extracted products. The progress callback, if provided, receives events
// as pages complete.
//
// A sitemap that cannot be read aborts the run with EUNAVAILABLE before
// anything is written. Failures of single pages are recorded on the result
// and never stop the run. If ctx is canceled, no further pages are started
// and the partial result is returned with the context error.
func (c *Crawler) Run(ctx context.Context, sitemapURL string, progress ProgressFunc) (*Result, error) {
	begin := time.Now()
	notify := func(e ProgressEvent) {
		if progress != nil {
			progress(e)
		}
	}

	urls, err := c.Sitemaps.DiscoverURLs(ctx, sitemapURL)
	if err != nil {
		return &Result{}, catalog.Errorf(catalog.EUNAVAILABLE, "sitemap %s unavailable: %v", sitemapURL, err)
	}

	result := &Result{Total: len(urls)}
	total := len(urls)
	notify(ProgressEvent{Type: ProgressStarted, Total: total})

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	resultCh := make(chan itemResult, len(urls))

	var g errgroup.Group
	g.SetLimit(concurrency)

	go func() {
		for i, u := range urls {
			// Go blocks while all workers are busy, so cancellation is
			// observed between items.
			if ctx.Err() != nil {
				break
			}
			g.Go(func() error {
				resultCh <- c.processURL(ctx, i, u)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	var items []itemResult
	for item := range resultCh {
		items = append(items, item)
		if item.err != nil {
			result.Failed++
			notify(ProgressEvent{
				Type:      ProgressFailed,
				Completed: len(items),
				Total:     total,
				URL:       item.url,
				Stage:     item.stage,
				Error:     item.err,
			})
			continue
		}
		result.Saved++
		notify(ProgressEvent{
			Type:      ProgressCompleted,
			Completed: len(items),
			Total:     total,
			URL:       item.url,
		})
	}

	slices.SortFunc(items, func(a, b itemResult) int { return a.position - b.position })
	for _, item := range items {
		if item.err != nil {
			result.Failures = append(result.Failures, Failure{URL: item.url, Stage: item.stage, Err: item.err})
		}
	}
	result.Collisions = collisions(items)
	result.Duration = time.Since(begin)

	notify(ProgressEvent{Type: ProgressFinished, Completed: len(items), Total: total})

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// collisions groups the URLs of items by product identity and returns the
// identities claimed by more than one URL, in order of first appearance.
func collisions(items []itemResult) []Collision {
	var order []string
	urls := make(map[string][]string)
	add := func(identity, u string) {
		if _, ok := urls[identity]; !ok {
			order = append(order, identity)
		}
		if !slices.Contains(urls[identity], u) {
			urls[identity] = append(urls[identity], u)
		}
	}
	for _, item := range items {
		if item.identity == "" {
			continue
		}
		for _, u := range item.conflicts {
			add(item.identity, u)
		}
		if item.err == nil || len(item.conflicts) > 0 {
			add(item.identity, item.url)
		}
	}

	var out []Collision
	for _, identity := range order {
		if len(urls[identity]) > 1 {
			out = append(out, Collision{Identity: identity, URLs: urls[identity]})
		}
	}
	return out
}

// processURL fetches, extracts and stores a single page.
func (c *Crawler) processURL(ctx context.Context, position int, pageURL string) itemResult {
	result := itemResult{
		position: position,
		url:      pageURL,
	}

	delays := c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	html, err := FetchWithRetryDelays(ctx, pageURL, c.fetch, c.Logger, delays)
	if err != nil {
		result.stage, result.err = StageFetch, err
		return result
	}

	extraction, err := c.Extractor.Extract(html, pageURL)
	if err == nil && (extraction == nil || extraction.Product == nil) {
		err = catalog.Errorf(catalog.EINTERNAL, "extractor returned no product")
	}
	if err != nil {
		result.stage, result.err = StageExtract, err
		return result
	}

	product := extraction.Product
	product.Ingredients = catalog.ParseIngredients(extraction.IngredientsText)
	product.DescriptionText = c.descriptionText(product.DescriptionHTML)
	product.ContentHash = ComputeHash(html)
	result.identity = product.Identity()

	unlock := c.locks.lock(result.identity)
	err = c.Products.UpsertProduct(ctx, product)
	unlock()
	if err != nil {
		result.stage, result.err = StagePersist, err
		if catalog.ErrorCode(err) == catalog.ECONFLICT {
			result.conflicts = c.conflictingURLs(ctx, product)
		}
	}
	return result
}

// fetch waits for the host's rate limiter before each attempt.
func (c *Crawler) fetch(ctx context.Context, pageURL string) (string, error) {
	if c.RateLimiter != nil {
		u, err := url.Parse(pageURL)
		if err != nil {
			return "", catalog.Errorf(catalog.EINVALID, "invalid URL %q", pageURL)
		}
		if err := c.RateLimiter.Wait(ctx, u.Host); err != nil {
			return "", err
		}
	}
	return c.Fetcher.Fetch(ctx, pageURL)
}

// descriptionText renders the description as Markdown, or "" if that is
// not possible.
func (c *Crawler) descriptionText(descriptionHTML string) string {
	if c.Converter == nil || descriptionHTML == "" {
		return ""
	}
	text, err := c.Converter.Convert(descriptionHTML)
	if err != nil {
		return ""
	}
	return text
}

// conflictingURLs returns the stored URLs holding the SKU or the URL of the
// product, for reporting.
func (c *Crawler) conflictingURLs(ctx context.Context, product *catalog.Product) []string {
	var out []string
	filters := []catalog.ProductFilter{{URL: &product.URL}}
	if product.HasSKU() {
		filters = append(filters, catalog.ProductFilter{SKU: &product.SKU})
	}
	for _, f := range filters {
		found, err := c.Products.FindProducts(ctx, f)
		if err != nil {
			continue
		}
		for _, p := range found {
			if !slices.Contains(out, p.URL) {
				out = append(out, p.URL)
			}
		}
	}
	return out
}
