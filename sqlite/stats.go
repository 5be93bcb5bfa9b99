package sqlite

import (
	"context"
	"fmt"

	"github.com/fwojciec/catalog"
)

// Compile-time interface verification.
var _ catalog.StatsService = (*StatsService)(nil)

// StatsService implements catalog.StatsService using SQLite.
type StatsService struct {
	db *DB
}

// NewStatsService creates a new StatsService.
func NewStatsService(db *DB) *StatsService {
	return &StatsService{db: db}
}

// Stats counts the rows of every table.
func (s *StatsService) Stats(ctx context.Context) (*catalog.Stats, error) {
	var stats catalog.Stats
	counts := []struct {
		table string
		dst   *int
	}{
		{"products", &stats.Products},
		{"categories", &stats.Categories},
		{"product_categories", &stats.ProductCategories},
		{"product_attributes", &stats.ProductAttributes},
		{"product_ingredients", &stats.ProductIngredients},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+c.table).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", c.table, err)
		}
	}
	return &stats, nil
}
