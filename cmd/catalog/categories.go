package main

import (
	"fmt"

	"github.com/fwojciec/catalog"
)

// Run executes the categories command.
func (c *CategoriesCmd) Run(deps *Dependencies) error {
	categories, err := deps.Categories.FindCategories(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", catalog.ErrorMessage(err))
		return err
	}

	if len(categories) == 0 {
		fmt.Fprintln(deps.Stdout, "No categories found. Use 'catalog crawl' to collect products.")
		return nil
	}

	names := make(map[string]string, len(categories))
	for _, cat := range categories {
		names[cat.ID] = cat.Name
	}
	for _, cat := range categories {
		if cat.ParentID != nil {
			fmt.Fprintf(deps.Stdout, "%s  %s > %s\n", cat.ID, names[*cat.ParentID], cat.Name)
			continue
		}
		fmt.Fprintf(deps.Stdout, "%s  %s\n", cat.ID, cat.Name)
	}
	return nil
}
