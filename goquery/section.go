package goquery

import (
	"regexp"
	"unicode/utf8"
)

// Keyword sets anchoring the free-text sections.
var (
	usageKeywords   = keywordPattern([]string{"Kullanım Önerisi", "Nasıl Kullanılır", "Kullanımı", "Suggested Use", "Directions"})
	warningKeywords = keywordPattern([]string{"Uyarılar", "Önemli Uyarılar", "Dikkat", "Warnings"})
	storageKeywords = keywordPattern([]string{"Muhafaza", "Saklama", "Depolama", "Storage"})
)

const (
	// sectionLookahead is how many candidate elements are read after
	// each anchor.
	sectionLookahead = 5

	// minSectionLength skips labels and other short fragments.
	minSectionLength = 15
)

var (
	sectionAnchorTags    = "span, strong, h1, h2, h3, h4, b, div, p"
	sectionCandidateTags = tagSet("div", "p", "span", "ul", "li")
	measurementRe        = regexp.MustCompile(`(?i)\d+\s*(mg|g|ml|%)`)
)

// extractSection returns the text following an anchor that matches
// keywords, choosing the candidate with the most measurements such as
// "500 mg" or "10%". Ties go to the earliest candidate. Returns "" if no
// candidate contains a measurement.
func extractSection(p *page, keywords *regexp.Regexp) string {
	var best string
	bestScore := 0
	for _, anchor := range p.withString(sectionAnchorTags, keywords) {
		curr := anchor
		for i := 0; i < sectionLookahead; i++ {
			next := p.next(curr, sectionCandidateTags)
			if next == nil {
				break
			}
			curr = next

			txt := compactText(p.doc.FindNodes(next))
			if utf8.RuneCountInString(txt) < minSectionLength {
				continue
			}
			if score := len(measurementRe.FindAllStringIndex(txt, -1)); score > bestScore {
				best, bestScore = txt, score
			}
		}
	}
	return best
}
