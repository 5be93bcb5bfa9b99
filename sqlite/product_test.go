package sqlite_test

import (
	"context"
	"testing"

	"github.com/fwojciec/catalog"
	"github.com/fwojciec/catalog/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProduct(url, sku string) *catalog.Product {
	return &catalog.Product{
		SKU:             sku,
		Barcode:         "8680000000017",
		Name:            "Vitamin C 1000 mg",
		URL:             url,
		Price:           decimal.RequireFromString("249.90"),
		Currency:        "TL",
		DescriptionHTML: "<div class=\"description\"><p>Yüksek dozlu C vitamini.</p></div>",
		DescriptionText: "Yüksek dozlu C vitamini.",
		UsageText:       "Günde 1 tablet alınız.",
		WarningsText:    catalog.NotAvailable,
		StorageText:     catalog.NotAvailable,
		ContentHash:     "0123456789abcdef",
		Categories:      []string{"Takviye", "Vitaminler"},
		Attributes: map[string]string{
			"Marka":  "Acme",
			"Hacim":  "60 tablet",
			"Menşei": "Türkiye",
		},
		Ingredients: []catalog.Ingredient{
			{RawText: "Vitamin C 1000 mg", Name: "Vitamin C", Amount: "1000", Unit: "mg"},
			{RawText: "Çinko 15mg", Name: "Çinko", Amount: "15", Unit: "mg"},
			{RawText: "Zerdeçal %95", Name: "Zerdeçal", Percentage: "%95"},
		},
	}
}

func countRows(t *testing.T, db *sqlite.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestProductService_UpsertProduct(t *testing.T) {
	t.Parallel()

	t.Run("inserts new product with generated ID and timestamps", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewProductService(db)
		ctx := context.Background()

		product := newProduct("https://shop.example/vitamin-c", "VC-1000")
		require.NoError(t, svc.UpsertProduct(ctx, product))

		assert.NotEmpty(t, product.ID)
		assert.False(t, product.CreatedAt.IsZero())
		assert.False(t, product.UpdatedAt.IsZero())

		found, err := svc.FindProductByID(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, "VC-1000", found.SKU)
		assert.Equal(t, "8680000000017", found.Barcode)
		assert.Equal(t, "Vitamin C 1000 mg", found.Name)
		assert.Equal(t, "https://shop.example/vitamin-c", found.URL)
		assert.True(t, decimal.RequireFromString("249.90").Equal(found.Price))
		assert.Equal(t, "TL", found.Currency)
		assert.Equal(t, product.DescriptionHTML, found.DescriptionHTML)
		assert.Equal(t, "Yüksek dozlu C vitamini.", found.DescriptionText)
		assert.Equal(t, "Günde 1 tablet alınız.", found.UsageText)
		assert.Equal(t, catalog.NotAvailable, found.WarningsText)
		assert.Equal(t, "0123456789abcdef", found.ContentHash)
		assert.Equal(t, []string{"Takviye", "Vitaminler"}, found.Categories)
		assert.Equal(t, product.Attributes, found.Attributes)
		assert.Equal(t, product.Ingredients, found.Ingredients)
	})

	t.Run("returns error for invalid product", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewProductService(db)

		err := svc.UpsertProduct(context.Background(), &catalog.Product{Name: "no url"})
		require.Error(t, err)
		assert.Equal(t, catalog.EINVALID, catalog.ErrorCode(err))
		assert.Equal(t, 0, countRows(t, db, "products"))
	})

	t.Run("stores missing SKU as NULL so several products can lack one", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewProductService(db)
		ctx := context.Background()

		require.NoError(t, svc.UpsertProduct(ctx, newProduct("https://shop.example/a", catalog.NotAvailable)))
		require.NoError(t, svc.UpsertProduct(ctx, newProduct("https://shop.example/b", catalog.NotAvailable)))

		assert.Equal(t, 2, countRows(t, db, "products"))

		var nulls int
		err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products WHERE sku IS NULL").Scan(&nulls)
		require.NoError(t, err)
		assert.Equal(t, 2, nulls)

		products, err := svc.FindProducts(ctx, catalog.ProductFilter{})
		require.NoError(t, err)
		for _, p := range products {
			assert.Equal(t, catalog.NotAvailable, p.SKU)
		}
	})

	t.Run("updates the product with the same SKU even if the URL changed", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewProductService(db)
		ctx := context.Background()

		first := newProduct("https://shop.example/old", "VC-1000")
		require.NoError(t, svc.UpsertProduct(ctx, first))

		second := newProduct("https://shop.example/new", "VC-1000")
		second.Name = "Vitamin C 1000 mg 60 Tablet"
		require.NoError(t, svc.UpsertProduct(ctx, second))

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, 1, countRows(t, db, "products"))

		found, err := svc.FindProductByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "https://shop.example/new", found.URL)
		assert.Equal(t, "Vitamin C 1000 mg 60 Tablet", found.Name)
		assert.Equal(t, first.CreatedAt.Unix(), found.CreatedAt.Unix())
	})

	t.Run("updates the product with the same URL when no SKU was found", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewProductService(db)
		ctx := context.Background()

		first := newProduct("https://shop.example/a", catalog.NotAvailable)
		require.NoError(t, svc.UpsertProduct(ctx, first))

		second := newProduct("https://shop.example/a", catalog.NotAvailable)
		second.Price = decimal.RequireFromString("199.90")
		require.NoError(t, svc.UpsertProduct(ctx, second))

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, 1, countRows(t, db, "products"))

		found, err := svc.FindProductByID(ctx, first.ID)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("199.90").Equal(found.Price))
	})

	t.Run("returns conflict when SKU and URL belong to different products", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewProductService(db)
		ctx := context.Background()

		require.NoError(t, svc.UpsertProduct(ctx, newProduct("https://shop.example/a", "SKU-A")))
		require.NoError(t, svc.UpsertProduct(ctx, newProduct("https://shop.example/b", "SKU-B")))

		clash := newProduct("https://shop.example/b", "SKU-A")
		clash.Name = "Clash"
		err := svc.UpsertProduct(ctx, clash)
		require.Error(t, err)
		assert.Equal(t, catalog.ECONFLICT, catalog.ErrorCode(err))

		products, err := svc.FindProducts(ctx, catalog.ProductFilter{})
		require.NoError(t, err)
		require.Len(t, products, 2)
		for _, p := range products {
			assert.NotEqual(t, "Clash", p.Name)
		}
	})

	t.Run("replaces child rows to match the new extraction", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewProductService(db)
		ctx := context.Background()

		require.NoError(t, svc.UpsertProduct(ctx, newProduct("https://shop.example/a", "SKU-A")))

		updated := newProduct("https://shop.example/a", "SKU-A")
		updated.Categories = []string{"Takviye", "Mineraller"}
		updated.Attributes = map[string]string{"Marka": "Acme Plus"}
		updated.Ingredients = updated.Ingredients[:1]
		require.NoError(t, svc.UpsertProduct(ctx, updated))

		found, err := svc.FindProductByID(ctx, updated.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"Takviye", "Mineraller"}, found.Categories)
		assert.Equal(t, map[string]string{"Marka": "Acme Plus"}, found.Attributes)
		assert.Equal(t, updated.Ingredients, found.Ingredients)

		assert.Equal(t, 2, countRows(t, db, "product_categories"))
		assert.Equal(t, 1, countRows(t, db, "product_attributes"))
		assert.Equal(t, 1, countRows(t, db, "product_ingredients"))
		// Categories are shared and never removed.
		assert.Equal(t, 3, countRows(t, db, "categories"))
	})

	t.Run("clears child rows when the new extraction has none", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewProductService(db)
		ctx := context.Background()

		require.NoError(t, svc.UpsertProduct(ctx, newProduct("https://shop.example/a", "SKU-A")))

		bare := newProduct("https://shop.example/a", "SKU-A")
		bare.Categories = nil
		bare.Attributes = nil
		bare.Ingredients = nil
		require.NoError(t, svc.UpsertProduct(ctx, bare))

		found, err := svc.FindProductByID(ctx, bare.ID)
		require.NoError(t, err)
		assert.Empty(t, found.Categories)
		assert.Empty(t, found.Attributes)
		assert.Empty(t, found.Ingredients)
	})

	t.Run("leaves unchanged child rows untouched", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewProductService(db)
		ctx := context.Background()

		require.NoError(t, svc.UpsertProduct(ctx, newProduct("https://shop.example/a", "SKU-A")))
		before := rowIDs(t, db, "product_attributes")
		beforeIngredients := rowIDs(t, db, "product_ingredients")

		require.NoError(t, svc.UpsertProduct(ctx, newProduct("https://shop.example/a", "SKU-A")))

		assert.Equal(t, before, rowIDs(t, db, "product_attributes"))
		assert.Equal(t, beforeIngredients, rowIDs(t, db, "product_ingredients"))
	})

	t.Run("is idempotent for repeated writes", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewProductService(db)
		stats := sqlite.NewStatsService(db)
		ctx := context.Background()

		require.NoError(t, svc.UpsertProduct(ctx, newProduct("https://shop.example/a", "SKU-A")))
		first, err := stats.Stats(ctx)
		require.NoError(t, err)

		require.NoError(t, svc.UpsertProduct(ctx, newProduct("https://shop.example/a", "SKU-A")))
		second, err := stats.Stats(ctx)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("deduplicates repeated category names", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewProductService(db)
		ctx := context.Background()

		product := newProduct("https://shop.example/a", "SKU-A")
		product.Categories = []string{"Takviye", "Takviye", "Vitaminler"}
		require.NoError(t, svc.UpsertProduct(ctx, product))

		found, err := svc.FindProductByID(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"Takviye", "Vitaminler"}, found.Categories)
	})
}

func rowIDs(t *testing.T, db *sqlite.DB, table string) []int64 {
	t.Helper()
	rows, err := db.QueryContext(context.Background(), "SELECT id FROM "+table+" ORDER BY id")
	require.NoError(t, err)
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		require.NoError(t, rows.Scan(&id))
		ids = append(ids, id)
	}
	require.NoError(t, rows.Err())
	return ids
}

func TestProductService_FindProductByID(t *testing.T) {
	t.Parallel()

	t.Run("returns not found for unknown ID", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewProductService(db)

		_, err := svc.FindProductByID(context.Background(), "missing")
		require.Error(t, err)
		assert.Equal(t, catalog.ENOTFOUND, catalog.ErrorCode(err))
	})
}

func TestProductService_FindProducts(t *testing.T) {
	t.Parallel()

	seed := func(t *testing.T) *sqlite.ProductService {
		t.Helper()
		db := setupTestDB(t)
		svc := sqlite.NewProductService(db)
		ctx := context.Background()

		a := newProduct("https://shop.example/a", "SKU-A")
		b := newProduct("https://shop.example/b", "SKU-B")
		b.Categories = []string{"Takviye", "Mineraller"}
		c := newProduct("https://shop.example/c", catalog.NotAvailable)
		c.Categories = nil
		for _, p := range []*catalog.Product{a, b, c} {
			require.NoError(t, svc.UpsertProduct(ctx, p))
		}
		return svc
	}

	t.Run("returns all products without filter", func(t *testing.T) {
		t.Parallel()

		svc := seed(t)
		products, err := svc.FindProducts(context.Background(), catalog.ProductFilter{})
		require.NoError(t, err)
		assert.Len(t, products, 3)
	})

	t.Run("filters by SKU", func(t *testing.T) {
		t.Parallel()

		svc := seed(t)
		sku := "SKU-B"
		products, err := svc.FindProducts(context.Background(), catalog.ProductFilter{SKU: &sku})
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "https://shop.example/b", products[0].URL)
	})

	t.Run("filters by URL", func(t *testing.T) {
		t.Parallel()

		svc := seed(t)
		url := "https://shop.example/c"
		products, err := svc.FindProducts(context.Background(), catalog.ProductFilter{URL: &url})
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, catalog.NotAvailable, products[0].SKU)
		assert.Empty(t, products[0].Categories)
	})

	t.Run("filters by category name", func(t *testing.T) {
		t.Parallel()

		svc := seed(t)
		category := "Mineraller"
		products, err := svc.FindProducts(context.Background(), catalog.ProductFilter{Category: &category})
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "SKU-B", products[0].SKU)

		category = "Takviye"
		products, err = svc.FindProducts(context.Background(), catalog.ProductFilter{Category: &category})
		require.NoError(t, err)
		assert.Len(t, products, 2)
	})

	t.Run("applies limit and offset", func(t *testing.T) {
		t.Parallel()

		svc := seed(t)
		ctx := context.Background()

		page, err := svc.FindProducts(ctx, catalog.ProductFilter{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, page, 2)

		rest, err := svc.FindProducts(ctx, catalog.ProductFilter{Offset: 2})
		require.NoError(t, err)
		assert.Len(t, rest, 1)
	})

	t.Run("returns empty result for no matches", func(t *testing.T) {
		t.Parallel()

		svc := seed(t)
		sku := "missing"
		products, err := svc.FindProducts(context.Background(), catalog.ProductFilter{SKU: &sku})
		require.NoError(t, err)
		assert.Empty(t, products)
	})
}

func TestProductService_DeleteProduct(t *testing.T) {
	t.Parallel()

	t.Run("removes product and its child rows", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewProductService(db)
		ctx := context.Background()

		product := newProduct("https://shop.example/a", "SKU-A")
		require.NoError(t, svc.UpsertProduct(ctx, product))
		require.NoError(t, svc.DeleteProduct(ctx, product.ID))

		_, err := svc.FindProductByID(ctx, product.ID)
		assert.Equal(t, catalog.ENOTFOUND, catalog.ErrorCode(err))
		assert.Equal(t, 0, countRows(t, db, "product_categories"))
		assert.Equal(t, 0, countRows(t, db, "product_attributes"))
		assert.Equal(t, 0, countRows(t, db, "product_ingredients"))
		assert.Equal(t, 2, countRows(t, db, "categories"))
	})

	t.Run("returns not found for unknown ID", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewProductService(db)

		err := svc.DeleteProduct(context.Background(), "missing")
		require.Error(t, err)
		assert.Equal(t, catalog.ENOTFOUND, catalog.ErrorCode(err))
	})
}
