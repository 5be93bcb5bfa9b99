package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/catalog"
)

// Ensure LoggingExtractor implements catalog.ProductExtractor.
var _ catalog.ProductExtractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps a ProductExtractor with debug logging of the
// fields that most often degrade to defaults.
type LoggingExtractor struct {
	next   catalog.ProductExtractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next catalog.ProductExtractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the outcome.
func (e *LoggingExtractor) Extract(html, url string) (ext *catalog.Extraction, err error) {
	defer func(begin time.Time) {
		attrs := []any{"url", url}
		if ext != nil && ext.Product != nil {
			attrs = append(attrs,
				"sku", ext.Product.SKU,
				"price", ext.Product.Price.String(),
				"categories", len(ext.Product.Categories),
				"attributes", len(ext.Product.Attributes),
				"ingredients_bytes", len(ext.IngredientsText),
			)
		}
		attrs = append(attrs, "duration", time.Since(begin), "err", err)
		e.logger.Debug("extract", attrs...)
	}(time.Now())
	return e.next.Extract(html, url)
}
