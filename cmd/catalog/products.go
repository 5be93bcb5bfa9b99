package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/catalog"
)

// Run executes the products command.
func (c *ProductsCmd) Run(deps *Dependencies) error {
	filter := catalog.ProductFilter{
		Limit:  c.Limit,
		Offset: c.Offset,
	}
	if c.Category != "" {
		filter.Category = &c.Category
	}
	if c.SKU != "" {
		filter.SKU = &c.SKU
	}

	products, err := deps.Products.FindProducts(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", catalog.ErrorMessage(err))
		return err
	}
	if products == nil {
		products = []*catalog.Product{}
	}

	enc := json.NewEncoder(deps.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(products)
}
