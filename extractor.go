package catalog

// ExtractResult holds the main content of an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML.
	// Boilerplate (nav, footer, sidebar, ads) has been removed.
	ContentHTML string
}

// ContentExtractor extracts the main content from HTML pages, removing
// boilerplate. It backs the product description when a page has no
// recognizable description container.
type ContentExtractor interface {
	Extract(html string) (*ExtractResult, error)
}

// Extraction is the result of reading one product page.
type Extraction struct {
	// Product holds every extracted field. Ingredients are left empty;
	// they are parsed from IngredientsText by ParseIngredients.
	Product *Product

	// IngredientsText is the raw ingredient block, empty if none was found.
	IngredientsText string
}

// ProductExtractor turns a product page into structured fields.
type ProductExtractor interface {
	// Extract reads the page fetched from url. Every field degrades to its
	// default when it cannot be found, so content never causes an error.
	// Returns EINVALID only if the markup cannot be parsed at all.
	Extract(html, url string) (*Extraction, error)
}
