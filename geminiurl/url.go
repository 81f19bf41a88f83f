// Package geminiurl parses and normalizes Gemini URLs.
package geminiurl

import (
	"net/url"
	"strings"

	"golang.org/x/xerrors"
)

// ErrInvalid is returned by Parse when the input string is not a well-formed
// Gemini URL.
var ErrInvalid = xerrors.New("invalid gemini url")

// URL is a parsed, normalized Gemini URL. The zero value is not valid; use
// Parse.
type URL struct {
	scheme string
	host   string
	port   string
	path   string
	raw    string
}

// Parse parses raw into a normalized URL. The host is lowercased; the path
// is left as-is (path comparisons are case-sensitive) and the query, if
// any, is kept. Parse rejects anything without a host. A scheme-less
// "host/path" input defaults to gemini; any other scheme is kept as given.
func Parse(raw string) (URL, error) {
	u, err := url.Parse(raw)
	if err == nil && u.Scheme == "" && u.Host == "" && !strings.HasPrefix(raw, "/") {
		// A scheme-less "host/path" parses as a bare path; reparse it as a
		// network-path reference so its first segment becomes the host.
		u, err = url.Parse("//" + raw)
	}
	if err != nil {
		return URL{}, xerrors.Errorf("parse %q: %w: %v", raw, ErrInvalid, err)
	}
	if u.Host == "" {
		return URL{}, xerrors.Errorf("parse %q: %w: missing host", raw, ErrInvalid)
	}

	scheme := u.Scheme
	if scheme == "" {
		scheme = "gemini"
	}

	host := strings.ToLower(u.Hostname())
	if strings.Contains(host, ":") {
		// net/url.Hostname() strips the brackets off an IPv6 literal;
		// put them back so the stored host round-trips and matches
		// bracketed blocklist entries like "[::1]".
		host = "[" + host + "]"
	}

	out := URL{
		scheme: scheme,
		host:   host,
		port:   u.Port(),
		path:   u.EscapedPath(),
	}
	out.raw = out.buildString()
	if u.ForceQuery || u.RawQuery != "" {
		out.raw += "?" + u.RawQuery
	}
	return out, nil
}

// Good reports whether s parses into a valid URL.
func Good(s string) bool {
	_, err := Parse(s)
	return err == nil
}

func (u URL) buildString() string {
	var b strings.Builder
	b.WriteString(u.scheme)
	b.WriteString("://")
	b.WriteString(u.host)
	if u.port != "" {
		b.WriteByte(':')
		b.WriteString(u.port)
	}
	b.WriteString(u.path)
	return b.String()
}

// Scheme returns the URL scheme, always "gemini" for crawled content.
func (u URL) Scheme() string { return u.scheme }

// Host returns the lowercased host, which may be a bracketed IPv6 literal.
func (u URL) Host() string { return u.host }

// Port returns the port, or the empty string if none was specified.
func (u URL) Port() string { return u.port }

// Path returns the URL path, leading "/" included when present.
func (u URL) Path() string { return u.path }

// String returns the normalized URL. Re-parsing String() always yields an
// equal URL (round-trip stability).
func (u URL) String() string { return u.raw }
