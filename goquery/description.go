package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	descriptionIDRe    = regexp.MustCompile(`(?i)description|details|tab`)
	descriptionClassRe = regexp.MustCompile(`(?i)product-detail|product-feature|product-details|description`)
)

var descriptionRules = []func(p *page) *goquery.Selection{
	func(p *page) *goquery.Selection { return p.first("div", "id", descriptionIDRe) },
	func(p *page) *goquery.Selection { return p.first("div", "class", descriptionClassRe) },
	func(p *page) *goquery.Selection { return selection(p.doc.Find("div#product-details").First()) },
	func(p *page) *goquery.Selection { return selection(p.doc.Find("div.product-description").First()) },
}

// extractDescription returns the outer HTML of the description container.
// Pages without one fall back to the configured content extractors, which
// receive the raw page markup. Returns "" if nothing is found.
func (e *Extractor) extractDescription(p *page, rawHTML string) string {
	for _, r := range descriptionRules {
		sel := r(p)
		if sel == nil {
			continue
		}
		if h, err := goquery.OuterHtml(sel); err == nil {
			return h
		}
	}

	for _, fallback := range e.fallbacks {
		result, err := fallback.Extract(rawHTML)
		if err != nil || result == nil {
			continue
		}
		if h := strings.TrimSpace(result.ContentHTML); h != "" {
			return h
		}
	}
	return ""
}

// selection returns nil for an empty selection.
func selection(sel *goquery.Selection) *goquery.Selection {
	if sel.Length() == 0 {
		return nil
	}
	return sel
}
