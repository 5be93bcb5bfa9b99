package mock

import "github.com/fwojciec/catalog"

var _ catalog.ContentExtractor = (*ContentExtractor)(nil)

// ContentExtractor is a mock implementation of catalog.ContentExtractor.
type ContentExtractor struct {
	ExtractFn func(html string) (*catalog.ExtractResult, error)
}

func (e *ContentExtractor) Extract(html string) (*catalog.ExtractResult, error) {
	return e.ExtractFn(html)
}

var _ catalog.ProductExtractor = (*ProductExtractor)(nil)

// ProductExtractor is a mock implementation of catalog.ProductExtractor.
type ProductExtractor struct {
	ExtractFn func(html, url string) (*catalog.Extraction, error)
}

func (e *ProductExtractor) Extract(html, url string) (*catalog.Extraction, error) {
	return e.ExtractFn(html, url)
}
