// Package store defines the page-store adapter interface used by the
// search orchestrator: lexical candidate retrieval, inbound cross-site
// links, snippet rendering, and backlink lookups.
package store

//go:generate mockgen -destination=mocks/mock_store.go -package=mocks github.com/capsulesearch/engine/store Store

import (
	"context"
	"time"

	"golang.org/x/xerrors"
)

// ErrNotFound is returned when a lookup finds no matching row.
var ErrNotFound = xerrors.New("store: not found")

// LexicalRow is a page matched by the full-text query, as returned by
// LexicalCandidates. Rank is strictly positive.
type LexicalRow struct {
	SourceURL      string
	CrossSiteLinks []string
	ContentType    string
	Size           uint64
	Rank           float32
}

// InboundRow is a cross-site link pointing at a page matched by the
// full-text query, as returned by InboundLinks. These form the HITS
// base-set and always carry Rank 0.
type InboundRow struct {
	DestURL     string
	SourceURL   string
	ContentType string
	Size        uint64
}

// SnippetRow is a rendered search-result row for a single URL, as returned
// by Snippets.
type SnippetRow struct {
	URL           string
	Size          uint64
	Title         string
	ContentType   string
	Preview       string
	LastCrawledAt time.Time
}

// BacklinkRow is a single inbound link to a page, as returned by Backlinks.
type BacklinkRow struct {
	URL         string
	IsCrossSite bool
}

// Store is the page-store adapter: a relational store with full-text
// search, reachable through three parameterized read operations plus a
// backlink lookup. Implementations may suspend; all methods take a
// context so callers can bound or cancel the call.
type Store interface {
	// LexicalCandidates returns the root set: pages whose search vector
	// matches the plain-text query q, ranked by a weighted combination of
	// title and body rank, capped at 50,000 rows.
	LexicalCandidates(ctx context.Context, q string) ([]LexicalRow, error)

	// InboundLinks returns the base set: cross-site links pointing at any
	// page matching q.
	InboundLinks(ctx context.Context, q string) ([]InboundRow, error)

	// Snippets computes a highlighted preview for each of urls, using q as
	// the highlight query. urls containing a single quote are dropped
	// rather than escaped.
	Snippets(ctx context.Context, q string, urls []string) ([]SnippetRow, error)

	// Backlinks returns every link whose destination is url.
	Backlinks(ctx context.Context, url string) ([]BacklinkRow, error)

	// Close releases any resources held by the store.
	Close() error
}
