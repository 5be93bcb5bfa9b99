// Package rod provides a catalog.Fetcher that renders pages in headless
// Chrome, for storefronts that build product markup with JavaScript.
package rod

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fwojciec/catalog"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds the rendering of a single page.
const DefaultFetchTimeout = 30 * time.Second

var errClosed = catalog.Errorf(catalog.EINVALID, "fetcher is closed")

// Ensure Fetcher implements catalog.Fetcher at compile time.
var _ catalog.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	browsers     *BrowserManager
	timeout      time.Duration
	maxPages     int
	waitSelector string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the time allowed for loading and rendering one
// page. Defaults to DefaultFetchTimeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithMaxPages sets how many pages are rendered before the browser is
// replaced. Defaults to DefaultMaxPages.
func WithMaxPages(n int) Option {
	return func(f *Fetcher) {
		f.maxPages = n
	}
}

// WithWaitSelector sets a CSS selector that must match before the HTML is
// read. Pages where it never matches are reported as not found.
func WithWaitSelector(selector string) Option {
	return func(f *Fetcher) {
		f.waitSelector = selector
	}
}

// NewFetcher launches a headless Chrome browser. Close must be called when
// the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{timeout: DefaultFetchTimeout}
	for _, opt := range opts {
		opt(f)
	}

	browsers, err := NewBrowserManager(f.maxPages)
	if err != nil {
		return nil, err
	}
	f.browsers = browsers
	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	browser, err := f.browsers.Acquire()
	if err != nil {
		return "", err
	}
	defer f.browsers.Release()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fmt.Errorf("opening page: %w", err)
	}
	defer page.Close()

	pageCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()
	page = page.Context(pageCtx)

	if err := page.Navigate(url); err != nil {
		return "", fmt.Errorf("navigating to %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", fmt.Errorf("loading %s: %w", url, err)
	}

	if f.waitSelector != "" {
		if _, err := page.Element(f.waitSelector); err != nil {
			if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
				return "", catalog.Errorf(catalog.ENOTFOUND, "no %q on %s", f.waitSelector, url)
			}
			return "", err
		}
	}

	return page.HTML()
}

// LauncherPID returns the process ID of the current browser launcher.
func (f *Fetcher) LauncherPID() int {
	return f.browsers.LauncherPID()
}

// Close releases browser resources. Close is safe to call more than once.
func (f *Fetcher) Close() error {
	return f.browsers.Close()
}
