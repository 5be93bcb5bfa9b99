package catalog

import "context"

// SitemapService discovers page URLs from sitemaps.
type SitemapService interface {
	// DiscoverURLs fetches the sitemap at sitemapURL and returns the page
	// URLs it lists, deduplicated in document order. Sitemap indexes are
	// resolved recursively. A sitemap listing no pages returns an empty
	// slice and no error.
	DiscoverURLs(ctx context.Context, sitemapURL string) ([]string, error)
}
