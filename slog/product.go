package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/catalog"
)

// Ensure LoggingProductService implements catalog.ProductService.
var _ catalog.ProductService = (*LoggingProductService)(nil)

// LoggingProductService wraps a ProductService with logging of writes.
// Reads are delegated without logging.
type LoggingProductService struct {
	next   catalog.ProductService
	logger *slog.Logger
}

// NewLoggingProductService creates a new LoggingProductService.
func NewLoggingProductService(next catalog.ProductService, logger *slog.Logger) *LoggingProductService {
	return &LoggingProductService{next: next, logger: logger}
}

// UpsertProduct delegates to the wrapped service and logs the write.
func (s *LoggingProductService) UpsertProduct(ctx context.Context, product *catalog.Product) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("upsert product",
			"url", product.URL,
			"identity", product.Identity(),
			"id", product.ID,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.UpsertProduct(ctx, product)
}

// FindProductByID delegates to the wrapped service.
func (s *LoggingProductService) FindProductByID(ctx context.Context, id string) (*catalog.Product, error) {
	return s.next.FindProductByID(ctx, id)
}

// FindProducts delegates to the wrapped service.
func (s *LoggingProductService) FindProducts(ctx context.Context, filter catalog.ProductFilter) ([]*catalog.Product, error) {
	return s.next.FindProducts(ctx, filter)
}

// DeleteProduct delegates to the wrapped service and logs the removal.
func (s *LoggingProductService) DeleteProduct(ctx context.Context, id string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("delete product",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DeleteProduct(ctx, id)
}
