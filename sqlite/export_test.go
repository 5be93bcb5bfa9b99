package sqlite_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/fwojciec/catalog"
	"github.com/fwojciec/catalog/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDB_ExportCSV(t *testing.T) {
	t.Parallel()

	t.Run("writes header and rows", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()
		require.NoError(t, sqlite.NewProductService(db).UpsertProduct(ctx, newProduct("https://shop.example/a", "SKU-A")))

		var buf bytes.Buffer
		n, err := db.ExportCSV(ctx, "product_ingredients", &buf)
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 4)
		assert.Equal(t, []string{"id", "product_id", "position", "raw_text", "name", "percentage", "amount", "unit"}, records[0])
		assert.Equal(t, "Vitamin C 1000 mg", records[1][3])
		// NULL amount becomes an empty cell.
		assert.Equal(t, "%95", records[3][5])
		assert.Equal(t, "", records[3][6])
	})

	t.Run("writes only the header for an empty table", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)

		var buf bytes.Buffer
		n, err := db.ExportCSV(context.Background(), "categories", &buf)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
		assert.Equal(t, "id,name,parent_id\n", buf.String())
	})

	t.Run("rejects unknown tables", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)

		_, err := db.ExportCSV(context.Background(), "sqlite_master", &bytes.Buffer{})
		require.Error(t, err)
		assert.Equal(t, catalog.EINVALID, catalog.ErrorCode(err))
	})
}
