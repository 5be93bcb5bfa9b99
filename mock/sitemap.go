package mock

import (
	"context"

	"github.com/fwojciec/catalog"
)

var _ catalog.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of catalog.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, sitemapURL string) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, sitemapURL string) ([]string, error) {
	return s.DiscoverURLsFn(ctx, sitemapURL)
}
