package mock

import (
	"context"

	"github.com/fwojciec/catalog"
)

var _ catalog.ProductService = (*ProductService)(nil)

// ProductService is a mock implementation of catalog.ProductService.
type ProductService struct {
	UpsertProductFn   func(ctx context.Context, product *catalog.Product) error
	FindProductByIDFn func(ctx context.Context, id string) (*catalog.Product, error)
	FindProductsFn    func(ctx context.Context, filter catalog.ProductFilter) ([]*catalog.Product, error)
	DeleteProductFn   func(ctx context.Context, id string) error
}

func (s *ProductService) UpsertProduct(ctx context.Context, product *catalog.Product) error {
	return s.UpsertProductFn(ctx, product)
}

func (s *ProductService) FindProductByID(ctx context.Context, id string) (*catalog.Product, error) {
	return s.FindProductByIDFn(ctx, id)
}

func (s *ProductService) FindProducts(ctx context.Context, filter catalog.ProductFilter) ([]*catalog.Product, error) {
	return s.FindProductsFn(ctx, filter)
}

func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	return s.DeleteProductFn(ctx, id)
}

var _ catalog.CategoryService = (*CategoryService)(nil)

// CategoryService is a mock implementation of catalog.CategoryService.
type CategoryService struct {
	FindCategoriesFn func(ctx context.Context) ([]*catalog.Category, error)
}

func (s *CategoryService) FindCategories(ctx context.Context) ([]*catalog.Category, error) {
	return s.FindCategoriesFn(ctx)
}

var _ catalog.StatsService = (*StatsService)(nil)

// StatsService is a mock implementation of catalog.StatsService.
type StatsService struct {
	StatsFn func(ctx context.Context) (*catalog.Stats, error)
}

func (s *StatsService) Stats(ctx context.Context) (*catalog.Stats, error) {
	return s.StatsFn(ctx)
}
