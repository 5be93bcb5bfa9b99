package main

import (
	"fmt"

	"github.com/fwojciec/catalog"
)

// Run executes the stats command.
func (c *StatsCmd) Run(deps *Dependencies) error {
	stats, err := deps.Stats.Stats(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", catalog.ErrorMessage(err))
		return err
	}

	for _, row := range []struct {
		table string
		count int
	}{
		{"products", stats.Products},
		{"categories", stats.Categories},
		{"product_categories", stats.ProductCategories},
		{"product_attributes", stats.ProductAttributes},
		{"product_ingredients", stats.ProductIngredients},
	} {
		fmt.Fprintf(deps.Stdout, "%-20s %d\n", row.table, row.count)
	}
	return nil
}
