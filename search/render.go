package search

import (
	"fmt"
	"strconv"
	"strings"
)

const gemUnsafePrefixChars = "`*=>#"

// sanitizeGemini strips markup characters a raw query or title could carry
// into a text/gemini document, so user-controlled text can't forge a
// heading or link line when echoed back into the body.
func sanitizeGemini(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\t", " ")
	s = strings.ReplaceAll(s, "```", " ")
	i := strings.IndexFunc(s, func(r rune) bool {
		return !strings.ContainsRune(gemUnsafePrefixChars, r)
	})
	if i < 0 {
		return s
	}
	return s[i:]
}

func renderSearchBody(title string, results []renderedResult, page, totalPages, totalResults int, verbose bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", sanitizeGemini(title))
	fmt.Fprintf(&b, "Found %d results (page %d of %d)\n\n", totalResults, page, totalPages)

	if len(results) == 0 {
		b.WriteString("No results found.\n")
	}
	for _, r := range results {
		preview := r.Preview
		if preview == "" {
			preview = "No preview provided"
		}
		fmt.Fprintf(&b, "=> %s %s\n", r.URL, sanitizeGemini(r.Title))
		if verbose {
			fmt.Fprintf(&b, "%s - %s bytes - %s\n", r.ContentType, strconv.FormatUint(r.Size, 10), r.LastCrawledAt)
		}
		fmt.Fprintf(&b, "%s\n\n", sanitizeGemini(preview))
	}
	return b.String()
}

func renderBacklinksBody(url string, internal, external []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Backlinks to %s\n\n", sanitizeGemini(url))

	b.WriteString("## Internal\n\n")
	for _, u := range internal {
		fmt.Fprintf(&b, "=> %s\n", u)
	}
	b.WriteString("\n## External\n\n")
	for _, u := range external {
		fmt.Fprintf(&b, "=> %s\n", u)
	}
	return b.String()
}

// renderedResult is a single result row ready for rendering: ranked,
// filtered, and enriched with its snippet.
type renderedResult struct {
	URL           string
	Title         string
	ContentType   string
	Size          uint64
	Preview       string
	LastCrawledAt string
}
