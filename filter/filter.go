// Package filter evaluates a parsed query's content_type:, domain:, and
// size: constraints against a single candidate result.
package filter

import (
	"strings"

	"github.com/capsulesearch/engine/query"
)

// Matches reports whether a candidate with the given host, content type,
// and size passes filter. Each constraint category is OR-ed internally;
// all present categories must pass (AND across categories). An empty
// category is vacuously satisfied.
func Matches(host, contentType string, size uint64, f query.Filter) bool {
	return matchesSize(size, f.Sizes) &&
		matchesDomain(host, f.Domains) &&
		matchesContentType(contentType, f.ContentTypes)
}

func matchesSize(size uint64, constraints []query.SizeFilter) bool {
	if len(constraints) == 0 {
		return true
	}
	if size == 0 {
		return false
	}
	for _, sc := range constraints {
		if sc.Greater {
			if size > sc.Bytes {
				return true
			}
		} else if size < sc.Bytes {
			return true
		}
	}
	return false
}

func matchesDomain(host string, constraints []query.DomainFilter) bool {
	if len(constraints) == 0 {
		return true
	}
	for _, dc := range constraints {
		if dc.Negate != (host == dc.Value) {
			return true
		}
	}
	return false
}

func matchesContentType(contentType string, constraints []query.DomainFilter) bool {
	if len(constraints) == 0 {
		return true
	}
	for _, cc := range constraints {
		matched := contentType != "" && strings.HasPrefix(contentType, cc.Value)
		if cc.Negate != matched {
			return true
		}
	}
	return false
}
