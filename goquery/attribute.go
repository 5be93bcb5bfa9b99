package goquery

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// maxAttributeKeyLength rejects keys that are really sentences.
const maxAttributeKeyLength = 50

var (
	specTableClassRe = regexp.MustCompile(`(?i)specs|attributes`)
	specListClassRe  = regexp.MustCompile(`(?i)specs|features|attributes`)
	productInfoRe    = regexp.MustCompile(`(?i)product-info`)
)

// extractAttributes returns the key/value specification pairs of a page.
//
// Dedicated attribute rows are used when present. Otherwise the first
// specification container (a table, a list or a product-info block) is read
// row by row.
func extractAttributes(p *page) map[string]string {
	attrs := make(map[string]string)

	p.doc.Find("div.product-list-row").Each(func(_ int, row *goquery.Selection) {
		title := row.Find(".product-list-title").First()
		content := row.Find(".product-list-content").First()
		if title.Length() == 0 || content.Length() == 0 {
			return
		}
		addAttribute(attrs, text(title), text(content))
	})
	if len(attrs) > 0 {
		return attrs
	}

	var rows *goquery.Selection
	if table := p.first("table", "class", specTableClassRe); table != nil {
		rows = table.Find("tr")
	} else if list := p.first("ul", "class", specListClassRe); list != nil {
		rows = list.ChildrenFiltered("li")
	} else if info := p.first("div", "class", productInfoRe); info != nil {
		rows = info.Find("tr, li, div")
	}
	if rows == nil {
		return attrs
	}

	rows.Each(func(_ int, row *goquery.Selection) {
		cells := row.ChildrenFiltered("td, th")
		if cells.Length() < 2 {
			cells = row.Find("td, th, span, strong")
		}
		if cells.Length() >= 2 {
			addAttribute(attrs, text(cells.Eq(0)), text(cells.Eq(1)))
			return
		}
		if key, val, ok := strings.Cut(text(row), ":"); ok {
			addAttribute(attrs, key, val)
		}
	})
	return attrs
}

// addAttribute stores a pair after removing colons from the key. Empty
// values and overlong keys are dropped.
func addAttribute(attrs map[string]string, key, val string) {
	key = strings.TrimSpace(strings.ReplaceAll(key, ":", ""))
	val = strings.TrimSpace(val)
	if key == "" || val == "" || utf8.RuneCountInString(key) > maxAttributeKeyLength {
		return
	}
	attrs[key] = val
}
