// Package readability adapts go-readability to catalog.ContentExtractor.
// It is the second description fallback after trafilatura.
package readability

import (
	"strings"

	"github.com/fwojciec/catalog"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements catalog.ContentExtractor at compile time.
var _ catalog.ContentExtractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*catalog.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, catalog.Errorf(catalog.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	return &catalog.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
