// Package admission implements the crawler-facing admission filter: a
// composable, fast classifier that decides whether a Gemini URL is
// eligible for crawling.
package admission

import (
	"regexp"
	"strings"
	"sync"

	"github.com/capsulesearch/engine/geminiurl"
)

// commitLinkRe matches git-commit deep links of the form
// "commits/<alnum+>/...". Non-ASCII commit path segments are intentionally
// not matched; see spec §9's open question on this point.
var commitLinkRe = regexp.MustCompile(`commits/[a-zA-Z0-9]+/.*`)

// Blocklist is a process-wide, lazily-initialized admission filter. The
// zero value is usable; the prefix search structure is built on first call
// to Blocked, behind a one-shot guard, matching the concurrent lazy
// initialization design note (spec §9).
type Blocklist struct {
	// Domains is the exact-match domain blocklist. If nil, DefaultDomainBlocklist
	// is used.
	Domains map[string]struct{}

	// URLPrefixes is the URL-prefix blocklist. If nil, DefaultURLPrefixBlocklist
	// is used. It does not need to be pre-sorted; Blocklist loads it into a
	// prefix trie once on first use.
	URLPrefixes []string

	once    sync.Once
	trie    *prefixTrie
	domains map[string]struct{}
}

// Blocked reports whether url should not be crawled. It depends only on the
// url argument (spec §8 invariant 3): calling it twice with the same input
// returns the same result.
func (b *Blocklist) Blocked(url string) bool {
	b.once.Do(b.init)

	u, err := geminiurl.Parse(url)
	if err != nil {
		// An unparsable URL can't be crawled either way; let the caller's
		// own parsing surface the real error. Structural checks below that
		// only look at the raw string still apply.
		return hasControlChar(url) || containsAny(url, "gopher:/:/")
	}

	if _, blocked := b.domains[u.Host()]; blocked {
		return true
	}
	if b.trie.hasPrefixOf(u.String()) {
		return true
	}
	if u.Path() == "/robots.txt" || u.Path() == "/favicon.txt" {
		return true
	}
	if strings.HasPrefix(u.Host(), "127.0.0.") {
		return true
	}
	if strings.HasPrefix(u.Path(), "/git/") || strings.HasPrefix(u.Host(), "git.") {
		return true
	}
	if containsAny(u.String(), ".git/tree/", ".git/blob/") {
		return true
	}
	if strings.HasSuffix(u.Host(), ".onion") {
		return true
	}
	if containsAny(u.String(), "gopher:/:/") {
		return true
	}
	if hasControlChar(u.String()) {
		return true
	}
	if n := strings.Index(u.String(), "commits/"); n >= 0 && commitLinkRe.MatchString(u.String()[n:]) {
		return true
	}
	return false
}

func (b *Blocklist) init() {
	domains := b.Domains
	if domains == nil {
		domains = DefaultDomainBlocklist()
	}
	b.domains = domains

	prefixes := b.URLPrefixes
	if prefixes == nil {
		prefixes = DefaultURLPrefixBlocklist()
	}
	t := newPrefixTrie()
	for _, p := range prefixes {
		t.insert(p)
	}
	b.trie = t
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func hasControlChar(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x1A {
			return true
		}
	}
	return false
}
