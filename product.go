package catalog

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// NotAvailable is stored for textual fields that could not be extracted.
const NotAvailable = "N/A"

// DefaultCurrency is used when a page does not declare a currency.
const DefaultCurrency = "TL"

// Product represents one extracted catalog page.
//
// A product is identified by its SKU when one was found and by its URL
// otherwise. A fresh extraction fully replaces what was stored before for
// the same identity, including categories, attributes and ingredients.
type Product struct {
	ID              string            `json:"id"`
	SKU             string            `json:"sku"`
	Barcode         string            `json:"barcode"`
	Name            string            `json:"name"`
	URL             string            `json:"url"`
	Price           decimal.Decimal   `json:"price"`
	Currency        string            `json:"currency"`
	DescriptionHTML string            `json:"descriptionHtml"`
	DescriptionText string            `json:"descriptionText"`
	UsageText       string            `json:"usageText"`
	WarningsText    string            `json:"warningsText"`
	StorageText     string            `json:"storageText"`
	ContentHash     string            `json:"contentHash"`
	Categories      []string          `json:"categories"`
	Attributes      map[string]string `json:"attributes"`
	Ingredients     []Ingredient      `json:"ingredients"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// HasSKU reports whether the product carries a real SKU.
func (p *Product) HasSKU() bool {
	return p.SKU != "" && p.SKU != NotAvailable
}

// Identity returns the key used to deduplicate products: the SKU when
// present, the URL otherwise.
func (p *Product) Identity() string {
	if p.HasSKU() {
		return p.SKU
	}
	return p.URL
}

// Validate returns an error if the product contains invalid fields.
func (p *Product) Validate() error {
	if p.URL == "" {
		return Errorf(EINVALID, "product URL required")
	}
	if p.Name == "" {
		return Errorf(EINVALID, "product name required")
	}
	if p.Price.IsNegative() {
		return Errorf(EINVALID, "product price must not be negative")
	}
	return nil
}

// Category represents a named product category. Categories are created the
// first time a name is seen and are never deleted.
type Category struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	ParentID *string `json:"parentId"`
}

// ProductService represents a service for managing products.
type ProductService interface {
	// UpsertProduct inserts the product or updates the stored product with
	// the same identity, then reconciles its categories, attributes and
	// ingredients so they match the given product exactly. The whole write
	// is atomic. On success the product ID and timestamps are set.
	// Returns ECONFLICT if the SKU and URL resolve to different products.
	UpsertProduct(ctx context.Context, product *Product) error

	// FindProductByID retrieves a product with all of its child records.
	// Returns ENOTFOUND if product does not exist.
	FindProductByID(ctx context.Context, id string) (*Product, error)

	// FindProducts retrieves products matching the filter with all of
	// their child records. An empty filter returns every product.
	FindProducts(ctx context.Context, filter ProductFilter) ([]*Product, error)

	// DeleteProduct permanently removes a product and its child records.
	// Returns ENOTFOUND if product does not exist.
	DeleteProduct(ctx context.Context, id string) error
}

// ProductFilter represents a filter for FindProducts.
type ProductFilter struct {
	ID       *string `json:"id"`
	SKU      *string `json:"sku"`
	URL      *string `json:"url"`
	Category *string `json:"category"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// CategoryService represents a service for reading categories.
type CategoryService interface {
	// FindCategories returns all known categories ordered by name.
	FindCategories(ctx context.Context) ([]*Category, error)
}

// Stats holds row counts for every table of the store.
type Stats struct {
	Products           int `json:"products"`
	Categories         int `json:"categories"`
	ProductCategories  int `json:"productCategories"`
	ProductAttributes  int `json:"productAttributes"`
	ProductIngredients int `json:"productIngredients"`
}

// StatsService reports store statistics.
type StatsService interface {
	Stats(ctx context.Context) (*Stats, error)
}
