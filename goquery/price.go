package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/catalog"
	"github.com/shopspring/decimal"
)

// Price rules in priority order. Structured metadata wins over displayed
// text.
var priceRules = []rule{
	attrRule(`meta[itemprop="price"]`, "content"),
	textRule(`[itemprop="price"]`),
	attrRule(`meta[property="product:price:amount"]`, "content"),
	textRule(`.product-price`),
	textRule(`[class*="price"]`),
}

var currencyRules = []rule{
	attrRule(`meta[itemprop="priceCurrency"]`, "content"),
	attrRule(`meta[property="product:price:currency"]`, "content"),
}

// extractPrice returns the product price and currency. A price that cannot
// be read is zero; a missing currency is DefaultCurrency unless the
// displayed price carries the lira sign.
func extractPrice(p *page) (decimal.Decimal, string) {
	price := decimal.Zero
	var raw string
	for _, r := range priceRules {
		v, ok := r(p)
		if !ok {
			continue
		}
		d, err := catalog.ParsePrice(v)
		if err != nil {
			continue
		}
		price, raw = d, v
		break
	}

	currency, ok := firstOf(p, currencyRules...)
	if !ok && strings.Contains(raw, "₺") {
		currency = "₺"
	}
	return price, catalog.NormalizeCurrency(currency)
}

// attrRule reads a non-empty attribute of the first element matching selector.
func attrRule(selector, attr string) rule {
	return func(p *page) (string, bool) {
		v, ok := p.doc.Find(selector).First().Attr(attr)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}
}

// textRule reads the text of the first element matching selector that has
// any text.
func textRule(selector string) rule {
	return func(p *page) (string, bool) {
		var v string
		p.doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			v = compactText(sel)
			return v == ""
		})
		return v, v != ""
	}
}
