package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// page is a parsed product page with a document-order index over its
// elements, used by rules that scan forward from an anchor element.
type page struct {
	doc   *goquery.Document
	nodes []*html.Node
	index map[*html.Node]int
}

func newPage(doc *goquery.Document) *page {
	nodes := doc.Find("*").Nodes
	index := make(map[*html.Node]int, len(nodes))
	for i, n := range nodes {
		index[n] = i
	}
	return &page{doc: doc, nodes: nodes, index: index}
}

// rule extracts one field value from a page. It reports false when it
// found nothing so the next rule in the chain can run.
type rule func(p *page) (string, bool)

// firstOf runs rules in order and returns the first value found.
func firstOf(p *page, rules ...rule) (string, bool) {
	for _, r := range rules {
		if v, ok := r(p); ok {
			return v, true
		}
	}
	return "", false
}

// first returns the first element matching any of tags whose attribute
// attr matches re, in document order.
func (p *page) first(tags, attr string, re *regexp.Regexp) *goquery.Selection {
	var found *goquery.Selection
	p.doc.Find(tags).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if v, ok := sel.Attr(attr); ok && re.MatchString(v) {
			found = sel
			return false
		}
		return true
	})
	return found
}

// all returns every element matching tags whose attribute attr matches re.
func (p *page) all(tags, attr string, re *regexp.Regexp) *goquery.Selection {
	return p.doc.Find(tags).FilterFunction(func(_ int, sel *goquery.Selection) bool {
		v, ok := sel.Attr(attr)
		return ok && re.MatchString(v)
	})
}

// withString returns the elements matching tags whose folded sole string
// content matches re, in document order.
func (p *page) withString(tags string, re *regexp.Regexp) []*html.Node {
	var out []*html.Node
	for _, n := range p.doc.Find(tags).Nodes {
		if s, ok := soleString(n); ok && re.MatchString(turkishFold(s)) {
			out = append(out, n)
		}
	}
	return out
}

// next returns the first element after n in document order whose tag is in
// tags. Descendants of n come after n.
func (p *page) next(n *html.Node, tags map[string]bool) *html.Node {
	i, ok := p.index[n]
	if !ok {
		return nil
	}
	for _, m := range p.nodes[i+1:] {
		if tags[m.Data] {
			return m
		}
	}
	return nil
}

// soleString returns the text of an element that has exactly one child,
// descending through single-child elements until a text node is reached.
func soleString(n *html.Node) (string, bool) {
	for {
		c := n.FirstChild
		if c == nil || c.NextSibling != nil {
			return "", false
		}
		switch c.Type {
		case html.TextNode:
			return c.Data, true
		case html.ElementNode:
			n = c
		default:
			return "", false
		}
	}
}

// text returns the trimmed text content of sel.
func text(sel *goquery.Selection) string {
	return strings.TrimSpace(sel.Text())
}

// compactText returns the text content of sel with all whitespace runs
// collapsed into single spaces.
func compactText(sel *goquery.Selection) string {
	return strings.Join(strings.Fields(sel.Text()), " ")
}

// keywordPattern builds a regexp matching any keyword in folded text.
func keywordPattern(keywords []string) *regexp.Regexp {
	quoted := make([]string, len(keywords))
	for i, k := range keywords {
		quoted[i] = regexp.QuoteMeta(turkishFold(k))
	}
	return regexp.MustCompile(`(?i)` + strings.Join(quoted, "|"))
}

// dottedIFolder maps both Turkish capital I forms and the dotless ı to i.
// strings.ToLower alone turns İ into i plus a combining dot and leaves ı.
var dottedIFolder = strings.NewReplacer("İ", "i", "I", "i", "ı", "i")

// turkishFold lowercases s for keyword matching, treating every i variant
// as the same letter.
func turkishFold(s string) string {
	return strings.ToLower(dottedIFolder.Replace(s))
}

func tagSet(tags ...string) map[string]bool {
	m := make(map[string]bool, len(tags))
	for _, t := range tags {
		m[t] = true
	}
	return m
}
