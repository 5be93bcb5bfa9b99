// Package goquery extracts structured product fields from catalog pages
// using CSS selection over a parsed HTML document.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/catalog"
)

// DefaultCategoryPath is the URL fragment identifying category links when a
// page has no breadcrumb container.
const DefaultCategoryPath = "/kategori/"

// Ensure Extractor implements catalog.ProductExtractor at compile time.
var _ catalog.ProductExtractor = (*Extractor)(nil)

// Extractor reads product fields from HTML product pages.
//
// Each field is resolved by an ordered chain of rules and falls back to a
// default when no rule matches, so a sparse page still yields a record.
type Extractor struct {
	categoryPath string
	fallbacks    []catalog.ContentExtractor
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithCategoryPath sets the URL fragment used to recognize category links
// outside breadcrumb containers.
func WithCategoryPath(fragment string) Option {
	return func(e *Extractor) {
		e.categoryPath = fragment
	}
}

// WithDescriptionFallbacks sets content extractors consulted in order when
// a page has no recognizable description container.
func WithDescriptionFallbacks(extractors ...catalog.ContentExtractor) Option {
	return func(e *Extractor) {
		e.fallbacks = extractors
	}
}

// NewExtractor creates a new Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{categoryPath: DefaultCategoryPath}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract reads every product field from html. The url becomes the
// product URL and the fallback identity.
func (e *Extractor) Extract(html, url string) (*catalog.Extraction, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, catalog.Errorf(catalog.EINVALID, "failed to parse HTML: %v", err)
	}
	p := newPage(doc)

	product := &catalog.Product{
		URL:      url,
		Name:     catalog.NotAvailable,
		SKU:      catalog.NotAvailable,
		Barcode:  catalog.NotAvailable,
		Currency: catalog.DefaultCurrency,
	}

	nameSel := nameElement(p)
	if nameSel != nil {
		if name := compactText(nameSel); name != "" {
			product.Name = name
		}
	}

	product.Price, product.Currency = extractPrice(p)
	product.SKU, product.Barcode = extractIdentifiers(p)
	product.Categories = extractCategories(p, nameSel, e.categoryPath)
	product.UsageText = extractSection(p, usageKeywords)
	product.WarningsText = extractSection(p, warningKeywords)
	product.StorageText = extractSection(p, storageKeywords)
	product.DescriptionHTML = e.extractDescription(p, html)
	product.Attributes = extractAttributes(p)

	return &catalog.Extraction{
		Product:         product,
		IngredientsText: extractIngredientsText(p),
	}, nil
}

// nameElement returns the element holding the product name, or nil.
func nameElement(p *page) *goquery.Selection {
	for _, selector := range []string{"h1.product-name", "h1", "h2, h3, h4, h5, h6"} {
		if sel := p.doc.Find(selector).First(); sel.Length() > 0 {
			return sel
		}
	}
	return nil
}
