package goquery

import (
	"regexp"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/catalog"
)

var (
	infoAreaRe     = regexp.MustCompile(`(?i)codes|attributes|info`)
	// Labels must start a word; \b is ASCII only and would fail before Ü.
	skuLabelRe     = regexp.MustCompile(`(?i)(?:^|[^\p{L}\d])(?:SKU|Stok Kodu|Ürün Kodu|Kod|Stok)\s*:\s*([a-zA-Z\d-]+)`)
	barcodeLabelRe = regexp.MustCompile(`(?i)(?:^|[^\p{L}\d])(?:Barkod|Barcode|EAN|GTIN)\s*:\s*(\d+)`)
)

// identifierMarkers locate an element carrying a product code. The value of
// the first marker found seeds both SKU and barcode.
var identifierMarkers = []string{
	`[itemprop="sku"]`,
	`[itemprop="barcode"]`,
	`.product-barcode`,
}

// extractIdentifiers returns the SKU and barcode, each NotAvailable when
// absent. Labeled values in an info area override the marker value for
// their own identifier only.
func extractIdentifiers(p *page) (sku, barcode string) {
	sku, barcode = catalog.NotAvailable, catalog.NotAvailable

	for _, selector := range identifierMarkers {
		sel := p.doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		if v := markerValue(sel); v != "" {
			sku, barcode = v, v
			break
		}
	}

	if area := p.first("div, ul", "class", infoAreaRe); area != nil {
		info := area.Text()
		if m := skuLabelRe.FindStringSubmatch(info); m != nil {
			sku = m[1]
		}
		if m := barcodeLabelRe.FindStringSubmatch(info); m != nil {
			barcode = m[1]
		}
	}
	return sku, barcode
}

// markerValue prefers a content attribute, as used on meta elements, over
// element text.
func markerValue(sel *goquery.Selection) string {
	if v, ok := sel.Attr("content"); ok && v != "" {
		return v
	}
	return compactText(sel)
}
