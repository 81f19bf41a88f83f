// Package query implements the search query mini-language: free text plus
// content_type:, domain:, and size: filter tokens, with NOT/not negation.
package query

import (
	"strconv"
	"strings"
)

// DomainFilter is a single domain: or content_type: constraint.
type DomainFilter struct {
	Value  string
	Negate bool
}

// SizeFilter is a single size: constraint, already resolved to bytes.
type SizeFilter struct {
	Bytes   uint64
	Greater bool
}

// Filter holds every filter token parsed out of a query, grouped by kind.
type Filter struct {
	ContentTypes []DomainFilter
	Domains      []DomainFilter
	Sizes        []SizeFilter
}

// unitScale maps a size: unit suffix (case-insensitive) to its byte multiplier.
var unitScale = map[string]uint64{
	"":     1,
	"b":    1,
	"byte": 1,
	"k":    1e3,
	"ki":   1024,
	"m":    1e6,
	"mi":   1024 * 1024,
	"g":    1e9,
	"gi":   1024 * 1024 * 1024,
}

// Parse splits raw into free text and a Filter. Filter tokens are
// content_type:X, domain:X, and size:<op><num><unit>; a NOT or not token
// negates the filter token immediately following it. Malformed size filters
// are dropped silently, though they still consume a pending negation.
func Parse(raw string) (string, Filter) {
	var text strings.Builder
	var f Filter
	negate := false

	tokens := strings.Fields(raw)
	for i, tok := range tokens {
		if tok == "NOT" || tok == "not" {
			nextIsFilter := false
			if i+1 < len(tokens) {
				_, _, nextIsFilter = splitFilterToken(tokens[i+1])
			}
			if nextIsFilter {
				negate = true
				continue
			}
			if text.Len() > 0 {
				text.WriteByte(' ')
			}
			text.WriteString(tok)
			continue
		}

		key, value, isFilter := splitFilterToken(tok)
		if !isFilter {
			if text.Len() > 0 {
				text.WriteByte(' ')
			}
			text.WriteString(tok)
			continue
		}

		pending := negate
		negate = false

		switch key {
		case "content_type":
			f.ContentTypes = append(f.ContentTypes, DomainFilter{Value: value, Negate: pending})
		case "domain":
			f.Domains = append(f.Domains, DomainFilter{Value: value, Negate: pending})
		case "size":
			if sf, ok := parseSizeFilter(value, pending); ok {
				f.Sizes = append(f.Sizes, sf)
			}
		}
	}

	return strings.TrimSpace(text.String()), f
}

// splitFilterToken reports whether tok is a recognized filter token
// (exactly one ':' with nonempty key and value, key in the reserved set).
func splitFilterToken(tok string) (key, value string, ok bool) {
	idx := strings.IndexByte(tok, ':')
	if idx <= 0 || idx == len(tok)-1 {
		return "", "", false
	}
	if strings.IndexByte(tok[idx+1:], ':') >= 0 {
		return "", "", false
	}
	key, value = tok[:idx], tok[idx+1:]
	switch key {
	case "content_type", "domain", "size":
		return key, value, true
	default:
		return "", "", false
	}
}

// parseSizeFilter parses "<op><num><unit>" where op is < or >, num is a
// decimal integer, and unit is one of unitScale's keys (case-insensitive).
func parseSizeFilter(value string, negate bool) (SizeFilter, bool) {
	if len(value) == 0 {
		return SizeFilter{}, false
	}
	op := value[0]
	if op != '<' && op != '>' {
		return SizeFilter{}, false
	}
	rest := value[1:]

	numEnd := 0
	for numEnd < len(rest) && rest[numEnd] >= '0' && rest[numEnd] <= '9' {
		numEnd++
	}
	if numEnd == 0 {
		return SizeFilter{}, false
	}
	num, err := strconv.ParseUint(rest[:numEnd], 10, 64)
	if err != nil {
		return SizeFilter{}, false
	}

	unit := strings.ToLower(rest[numEnd:])
	scale, ok := unitScale[unit]
	if !ok {
		return SizeFilter{}, false
	}

	return SizeFilter{
		Bytes:   num * scale,
		Greater: negate != (op == '>'),
	}, true
}
