package goquery

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var ingredientKeywords = []string{
	"İçindekiler", "Beher", "Bileşen", "İçerik",
	"Ingredients", "Supplement Facts", "Per Serving", "Composition",
}

var (
	ingredientMarkerTags = "div, span, strong, h3, h4"
	ingredientBlockTags  = tagSet("table", "ul", "div", "p")
	ingredientKeywordRe  = keywordPattern(ingredientKeywords)
)

// minIngredientBlockLength skips bare keyword mentions in the text search
// fallback.
const minIngredientBlockLength = 20

// extractIngredientsText returns the raw ingredient block of a page, or ""
// if none is found.
//
// The block is the first table, list or paragraph after a heading-like
// marker element. Table rows and list items become comma-separated
// fragments so each one parses as one ingredient. Without a marker, the
// parent of the first text mentioning a keyword is used if it holds enough
// text.
func extractIngredientsText(p *page) string {
	if markers := p.withString(ingredientMarkerTags, ingredientKeywordRe); len(markers) > 0 {
		marker := markers[0]
		container := p.next(marker, ingredientBlockTags)
		if container == nil {
			container = marker.Parent
		}
		if container == nil {
			return ""
		}
		sel := p.doc.FindNodes(container)
		switch container.Data {
		case "table":
			return tableRows(sel)
		case "ul":
			if items := listItems(sel); items != "" {
				return items
			}
		}
		return compactText(sel)
	}

	for _, kw := range ingredientKeywords {
		n := findText(p.doc.Nodes[0], kw)
		if n == nil || n.Parent == nil {
			continue
		}
		txt := compactText(goquery.NewDocumentFromNode(n.Parent).Selection)
		if utf8.RuneCountInString(txt) > minIngredientBlockLength {
			return txt
		}
	}
	return ""
}

// tableRows joins the cells of each row with spaces and the rows with
// commas.
func tableRows(table *goquery.Selection) string {
	var rows []string
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
			if c := compactText(cell); c != "" {
				cells = append(cells, c)
			}
		})
		if len(cells) == 0 {
			if c := compactText(tr); c != "" {
				cells = append(cells, c)
			}
		}
		if len(cells) > 0 {
			rows = append(rows, strings.Join(cells, " "))
		}
	})
	return strings.Join(rows, ", ")
}

// listItems joins the texts of list items with commas.
func listItems(list *goquery.Selection) string {
	var items []string
	list.Find("li").Each(func(_ int, li *goquery.Selection) {
		if c := compactText(li); c != "" {
			items = append(items, c)
		}
	})
	return strings.Join(items, ", ")
}

// findText returns the first text node under n containing keyword,
// compared after turkishFold. Script and style contents are skipped.
func findText(n *html.Node, keyword string) *html.Node {
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
		return nil
	}
	if n.Type == html.TextNode && strings.Contains(turkishFold(n.Data), turkishFold(keyword)) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findText(c, keyword); found != nil {
			return found
		}
	}
	return nil
}
