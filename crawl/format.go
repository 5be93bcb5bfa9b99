package crawl

import (
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
)

// ComputeHash computes a hash of the content using xxhash.
func ComputeHash(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}

// TruncateURL shortens a URL for display, keeping the end which is more informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		// Too short for "..." prefix, just return dots
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}

// FormatSummary renders the one-line outcome of a run.
func FormatSummary(r *Result) string {
	s := fmt.Sprintf("Saved %d of %d products", r.Saved, r.Total)
	if r.Failed > 0 {
		s += fmt.Sprintf(", %d failed", r.Failed)
	}
	if len(r.Collisions) > 0 {
		s += fmt.Sprintf(", %d identity collisions", len(r.Collisions))
	}
	return s + fmt.Sprintf(" (%s)", r.Duration.Round(time.Millisecond))
}
