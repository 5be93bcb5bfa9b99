package sqlite

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"slices"

	"github.com/fwojciec/catalog"
)

// ExportCSV writes every row of table as CSV to w, header first, and
// returns the number of data rows written. NULL values become empty cells.
// Returns EINVALID if table is not part of the schema.
func (db *DB) ExportCSV(ctx context.Context, table string, w io.Writer) (n int, err error) {
	if !slices.Contains(Tables, table) {
		return 0, catalog.Errorf(catalog.EINVALID, "unknown table %q", table)
	}

	rows, err := db.QueryContext(ctx, "SELECT * FROM "+table+" ORDER BY rowid")
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return 0, err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}

	values := make([]sql.NullString, len(cols))
	dest := make([]any, len(cols))
	for i := range values {
		dest[i] = &values[i]
	}
	record := make([]string, len(cols))
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return n, err
		}
		for i, v := range values {
			record[i] = v.String
		}
		if err := cw.Write(record); err != nil {
			return n, fmt.Errorf("failed to write row: %w", err)
		}
		n++
	}
	if err := rows.Err(); err != nil {
		return n, err
	}

	cw.Flush()
	return n, cw.Error()
}
