package goquery

import (
	"regexp"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var breadcrumbClassRe = regexp.MustCompile(`(?i)breadcrumb|path`)

// homeLabels are breadcrumb entries that point at the site root rather than
// a category.
var homeLabels = map[string]bool{
	"anasayfa":  true,
	"ana sayfa": true,
	"home":      true,
}

// extractCategories returns category names in discovery order without
// duplicates.
//
// Breadcrumb containers are tried first in document order, stopping at the
// first container that yields any category. Otherwise the ancestors of the
// name element are searched for links whose href contains categoryPath,
// stopping at the nearest ancestor with matches.
func extractCategories(p *page, nameSel *goquery.Selection, categoryPath string) []string {
	containers := p.all("div, nav, ul, ol", "class", breadcrumbClassRe).
		AddSelection(p.doc.Find(`[itemtype*="BreadcrumbList"], nav[aria-label*="readcrumb"]`))

	nodes := slices.Clone(containers.Nodes)
	slices.SortFunc(nodes, func(a, b *html.Node) int { return p.index[a] - p.index[b] })

	for _, n := range nodes {
		var names []string
		p.doc.FindNodes(n).Find("a").Each(func(_ int, a *goquery.Selection) {
			names = appendCategory(names, compactText(a))
		})
		if len(names) > 0 {
			return names
		}
	}

	if nameSel == nil || categoryPath == "" {
		return []string{}
	}
	for parent := nameSel.Parent(); parent.Length() > 0; parent = parent.Parent() {
		var names []string
		parent.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
			if href, _ := a.Attr("href"); strings.Contains(href, categoryPath) {
				names = appendCategory(names, compactText(a))
			}
		})
		if len(names) > 0 {
			return names
		}
	}
	return []string{}
}

// appendCategory appends name unless it is empty, a home label or already
// present.
func appendCategory(names []string, name string) []string {
	if name == "" || homeLabels[strings.ToLower(name)] {
		return names
	}
	for _, existing := range names {
		if existing == name {
			return names
		}
	}
	return append(names, name)
}
