package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fwojciec/catalog"
	"github.com/fwojciec/catalog/fs"
	"github.com/fwojciec/catalog/sqlite"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	if err := os.MkdirAll(c.Dir, 0755); err != nil {
		fmt.Fprintf(deps.Stderr, "error: failed to create %s: %v\n", c.Dir, err)
		return err
	}

	for _, table := range sqlite.Tables {
		path := filepath.Join(c.Dir, table+".csv")
		n, err := exportTable(deps, table, path)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s: %s\n", table, catalog.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Wrote %d rows to %s\n", n, path)
	}
	return nil
}

// exportTable writes table to path. An existing file is replaced only once
// the whole table has been written.
func exportTable(deps *Dependencies, table, path string) (int, error) {
	f, err := fs.Create(path)
	if err != nil {
		return 0, err
	}
	n, err := deps.DB.ExportCSV(deps.Ctx, table, f)
	if err != nil {
		_ = f.Abort()
		return 0, err
	}
	return n, f.Commit()
}
