package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Compile-time interface verification.
var _ catalog.ProductService = (*ProductService)(nil)

// ProductService implements catalog.ProductService using SQLite.
type ProductService struct {
	db *DB
}

// NewProductService creates a new ProductService.
func NewProductService(db *DB) *ProductService {
	return &ProductService{db: db}
}

// UpsertProduct writes the product and reconciles its child rows inside a
// single transaction.
func (s *ProductService) UpsertProduct(ctx context.Context, product *catalog.Product) error {
	if err := product.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	existing, err := lookupIdentity(ctx, tx, product)
	if err != nil {
		return err
	}
	if len(existing) > 1 {
		return catalog.Errorf(catalog.ECONFLICT,
			"sku %q and url %q belong to different products", product.SKU, product.URL)
	}

	now := time.Now().UTC()
	if len(existing) == 1 {
		product.ID = existing[0].id
		product.CreatedAt = existing[0].createdAt
		product.UpdatedAt = now
		if err := updateProduct(ctx, tx, product); err != nil {
			return err
		}
	} else {
		product.ID = uuid.New().String()
		product.CreatedAt = now
		product.UpdatedAt = now
		if err := insertProduct(ctx, tx, product); err != nil {
			return err
		}
	}

	if err := reconcileCategories(ctx, tx, product.ID, product.Categories); err != nil {
		return err
	}
	if err := reconcileAttributes(ctx, tx, product.ID, product.Attributes); err != nil {
		return err
	}
	if err := reconcileIngredients(ctx, tx, product.ID, product.Ingredients); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit product: %w", err)
	}
	return nil
}

type storedIdentity struct {
	id        string
	createdAt time.Time
}

// lookupIdentity returns the stored products matching the SKU or the URL of
// the product. More than one match means the two keys disagree.
func lookupIdentity(ctx context.Context, tx *sql.Tx, product *catalog.Product) ([]storedIdentity, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id, created_at FROM products
		WHERE sku = ? OR url = ?
	`, skuValue(product), product.URL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var found []storedIdentity
	for rows.Next() {
		var id, createdAt string
		if err := rows.Scan(&id, &createdAt); err != nil {
			return nil, err
		}
		t, err := parseRFC3339(createdAt, "created_at")
		if err != nil {
			return nil, err
		}
		found = append(found, storedIdentity{id: id, createdAt: t})
	}
	return found, rows.Err()
}

func insertProduct(ctx context.Context, tx *sql.Tx, p *catalog.Product) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO products (id, sku, barcode, name, url, price, currency,
			description_html, description_text, usage_text, warnings_text, storage_text,
			content_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, skuValue(p), p.Barcode, p.Name, p.URL, p.Price.StringFixed(2), p.Currency,
		p.DescriptionHTML, p.DescriptionText, p.UsageText, p.WarningsText, p.StorageText,
		p.ContentHash, formatTime(p.CreatedAt), formatTime(p.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

func updateProduct(ctx context.Context, tx *sql.Tx, p *catalog.Product) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE products SET sku = ?, barcode = ?, name = ?, url = ?, price = ?, currency = ?,
			description_html = ?, description_text = ?, usage_text = ?, warnings_text = ?,
			storage_text = ?, content_hash = ?, updated_at = ?
		WHERE id = ?
	`, skuValue(p), p.Barcode, p.Name, p.URL, p.Price.StringFixed(2), p.Currency,
		p.DescriptionHTML, p.DescriptionText, p.UsageText, p.WarningsText,
		p.StorageText, p.ContentHash, formatTime(p.UpdatedAt), p.ID)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

// reconcileCategories makes the product's category links equal to names,
// keeping the breadcrumb order in the position column.
func reconcileCategories(ctx context.Context, tx *sql.Tx, productID string, names []string) error {
	ids, err := ensureCategories(ctx, tx, names)
	if err != nil {
		return err
	}
	want := make(map[string]int, len(ids))
	for i, id := range ids {
		if _, ok := want[id]; !ok {
			want[id] = i
		}
	}

	have := make(map[string]int)
	rows, err := tx.QueryContext(ctx,
		"SELECT category_id, position FROM product_categories WHERE product_id = ?", productID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var id string
		var pos int
		if err := rows.Scan(&id, &pos); err != nil {
			rows.Close()
			return err
		}
		have[id] = pos
	}
	if err := rows.Close(); err != nil {
		return err
	}

	for id := range have {
		if _, ok := want[id]; ok {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM product_categories WHERE product_id = ? AND category_id = ?", productID, id); err != nil {
			return fmt.Errorf("failed to unlink category: %w", err)
		}
	}
	for id, pos := range want {
		old, ok := have[id]
		switch {
		case !ok:
			_, err = tx.ExecContext(ctx,
				"INSERT INTO product_categories (product_id, category_id, position) VALUES (?, ?, ?)",
				productID, id, pos)
		case old != pos:
			_, err = tx.ExecContext(ctx,
				"UPDATE product_categories SET position = ? WHERE product_id = ? AND category_id = ?",
				pos, productID, id)
		default:
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to link category: %w", err)
		}
	}
	return nil
}

// reconcileAttributes makes the product's attribute rows equal to attrs.
// Unchanged rows are left untouched.
func reconcileAttributes(ctx context.Context, tx *sql.Tx, productID string, attrs map[string]string) error {
	have := make(map[string]string)
	rows, err := tx.QueryContext(ctx,
		"SELECT attribute_key, attribute_value FROM product_attributes WHERE product_id = ?", productID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var key, val string
		if err := rows.Scan(&key, &val); err != nil {
			rows.Close()
			return err
		}
		have[key] = val
	}
	if err := rows.Close(); err != nil {
		return err
	}

	for key := range have {
		if _, ok := attrs[key]; ok {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM product_attributes WHERE product_id = ? AND attribute_key = ?", productID, key); err != nil {
			return fmt.Errorf("failed to delete attribute: %w", err)
		}
	}
	for key, val := range attrs {
		if old, ok := have[key]; ok && old == val {
			continue
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO product_attributes (product_id, attribute_key, attribute_value)
			VALUES (?, ?, ?)
			ON CONFLICT (product_id, attribute_key) DO UPDATE SET attribute_value = excluded.attribute_value
		`, productID, key, val); err != nil {
			return fmt.Errorf("failed to save attribute: %w", err)
		}
	}
	return nil
}

// reconcileIngredients makes the product's ingredient rows equal to
// ingredients, keyed by position.
func reconcileIngredients(ctx context.Context, tx *sql.Tx, productID string, ingredients []catalog.Ingredient) error {
	have := make(map[int]catalog.Ingredient)
	rows, err := tx.QueryContext(ctx, `
		SELECT position, raw_text, name, percentage, amount, unit
		FROM product_ingredients WHERE product_id = ?
	`, productID)
	if err != nil {
		return err
	}
	for rows.Next() {
		pos, ing, err := scanIngredient(rows)
		if err != nil {
			rows.Close()
			return err
		}
		have[pos] = ing
	}
	if err := rows.Close(); err != nil {
		return err
	}

	for i, ing := range ingredients {
		old, ok := have[i]
		switch {
		case !ok:
			_, err = tx.ExecContext(ctx, `
				INSERT INTO product_ingredients (product_id, position, raw_text, name, percentage, amount, unit)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, productID, i, ing.RawText, ing.Name,
				nullString(ing.Percentage), nullString(ing.Amount), nullString(ing.Unit))
		case old != ing:
			_, err = tx.ExecContext(ctx, `
				UPDATE product_ingredients SET raw_text = ?, name = ?, percentage = ?, amount = ?, unit = ?
				WHERE product_id = ? AND position = ?
			`, ing.RawText, ing.Name,
				nullString(ing.Percentage), nullString(ing.Amount), nullString(ing.Unit), productID, i)
		default:
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to save ingredient: %w", err)
		}
	}

	if len(have) > len(ingredients) {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM product_ingredients WHERE product_id = ? AND position >= ?",
			productID, len(ingredients)); err != nil {
			return fmt.Errorf("failed to delete ingredients: %w", err)
		}
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanIngredient(row scanner) (int, catalog.Ingredient, error) {
	var pos int
	var ing catalog.Ingredient
	var percentage, amount, unit sql.NullString
	if err := row.Scan(&pos, &ing.RawText, &ing.Name, &percentage, &amount, &unit); err != nil {
		return 0, ing, err
	}
	ing.Percentage = percentage.String
	ing.Amount = amount.String
	ing.Unit = unit.String
	return pos, ing, nil
}

// FindProductByID retrieves a product by ID.
func (s *ProductService) FindProductByID(ctx context.Context, id string) (*catalog.Product, error) {
	products, err := s.FindProducts(ctx, catalog.ProductFilter{ID: &id})
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, catalog.Errorf(catalog.ENOTFOUND, "product not found")
	}
	return products[0], nil
}

// FindProducts retrieves products matching the filter, oldest first.
func (s *ProductService) FindProducts(ctx context.Context, filter catalog.ProductFilter) ([]*catalog.Product, error) {
	var query strings.Builder
	query.WriteString(`
		SELECT id, sku, barcode, name, url, price, currency,
			description_html, description_text, usage_text, warnings_text, storage_text,
			content_hash, created_at, updated_at
		FROM products
		WHERE 1=1
	`)
	var args []any

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.SKU != nil {
		query.WriteString(" AND sku = ?")
		args = append(args, *filter.SKU)
	}
	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}
	if filter.Category != nil {
		query.WriteString(` AND id IN (
			SELECT pc.product_id FROM product_categories pc
			JOIN categories c ON c.id = pc.category_id
			WHERE c.name = ?)`)
		args = append(args, *filter.Category)
	}

	query.WriteString(" ORDER BY created_at, url")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	products, err := s.queryProducts(ctx, query.String(), args)
	if err != nil {
		return nil, err
	}

	// Child rows are loaded after the product cursor is closed since the
	// pool holds a single connection.
	for _, p := range products {
		if err := s.loadChildren(ctx, p); err != nil {
			return nil, err
		}
	}
	return products, nil
}

func (s *ProductService) queryProducts(ctx context.Context, query string, args []any) ([]*catalog.Product, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*catalog.Product
	for rows.Next() {
		var p catalog.Product
		var sku sql.NullString
		var price, createdAt, updatedAt string

		if err := rows.Scan(&p.ID, &sku, &p.Barcode, &p.Name, &p.URL, &price, &p.Currency,
			&p.DescriptionHTML, &p.DescriptionText, &p.UsageText, &p.WarningsText, &p.StorageText,
			&p.ContentHash, &createdAt, &updatedAt); err != nil {
			return nil, err
		}

		p.SKU = skuFromNull(sku)
		p.Price, err = decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("failed to parse price: %w", err)
		}
		p.CreatedAt, err = parseRFC3339(createdAt, "created_at")
		if err != nil {
			return nil, err
		}
		p.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at")
		if err != nil {
			return nil, err
		}

		products = append(products, &p)
	}
	return products, rows.Err()
}

// loadChildren fills the categories, attributes and ingredients of p.
func (s *ProductService) loadChildren(ctx context.Context, p *catalog.Product) error {
	p.Categories = []string{}
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.name FROM product_categories pc
		JOIN categories c ON c.id = pc.category_id
		WHERE pc.product_id = ?
		ORDER BY pc.position
	`, p.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return err
		}
		p.Categories = append(p.Categories, name)
	}
	if err := rows.Close(); err != nil {
		return err
	}

	p.Attributes = make(map[string]string)
	rows, err = s.db.QueryContext(ctx,
		"SELECT attribute_key, attribute_value FROM product_attributes WHERE product_id = ?", p.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var key, val string
		if err := rows.Scan(&key, &val); err != nil {
			rows.Close()
			return err
		}
		p.Attributes[key] = val
	}
	if err := rows.Close(); err != nil {
		return err
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT position, raw_text, name, percentage, amount, unit
		FROM product_ingredients WHERE product_id = ?
		ORDER BY position
	`, p.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		_, ing, err := scanIngredient(rows)
		if err != nil {
			return err
		}
		p.Ingredients = append(p.Ingredients, ing)
	}
	return rows.Err()
}

// DeleteProduct permanently removes a product. Child rows are removed by
// cascade.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return catalog.Errorf(catalog.ENOTFOUND, "product not found")
	}

	return nil
}
