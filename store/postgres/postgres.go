// Package postgres implements the page-store adapter against a PostgreSQL
// (or Postgres-wire-compatible) database using lib/pq and full-text search.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	_ "github.com/lib/pq"
	"golang.org/x/xerrors"

	"github.com/capsulesearch/engine/store"
)

const (
	lexicalCandidatesQuery = `
SELECT url AS source_url, cross_site_links, content_type, size,
       ts_rank_cd(pages.title_vector, plainto_tsquery($1))*50 + ts_rank_cd(pages.search_vector, plainto_tsquery($1)) AS rank
FROM pages
WHERE pages.search_vector @@ plainto_tsquery($1)
ORDER BY rank DESC
LIMIT 50000
`

	inboundLinksQuery = `
SELECT links.to_url AS dest_url, links.url AS source_url, content_type, size, 0 AS rank
FROM pages
JOIN links ON pages.url = links.to_url
WHERE links.is_cross_site = TRUE AND pages.search_vector @@ plainto_tsquery($1)
`

	backlinksQuery = `
SELECT url, is_cross_site FROM links WHERE links.to_url = $1
`

	snippetHighlightOpts = `StartSel="", StopSel="", MinWords=23, MaxWords=37, MaxFragments=1, FragmentDelimiter=" ... "`
)

// Store adapts database/sql plus lib/pq to the store.Store interface.
type Store struct {
	db *sql.DB
}

// Open connects to a Postgres-compatible database at dsn.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, xerrors.Errorf("open store: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) LexicalCandidates(ctx context.Context, q string) ([]store.LexicalRow, error) {
	rows, err := s.db.QueryContext(ctx, lexicalCandidatesQuery, q)
	if err != nil {
		return nil, xerrors.Errorf("lexical candidates: %w", err)
	}
	defer rows.Close()

	var out []store.LexicalRow
	for rows.Next() {
		var row store.LexicalRow
		var crossSiteLinks sql.NullString
		if err := rows.Scan(&row.SourceURL, &crossSiteLinks, &row.ContentType, &row.Size, &row.Rank); err != nil {
			return nil, xerrors.Errorf("lexical candidates: scan: %w", err)
		}
		if crossSiteLinks.Valid {
			if err := json.Unmarshal([]byte(crossSiteLinks.String), &row.CrossSiteLinks); err != nil {
				return nil, xerrors.Errorf("lexical candidates: decode cross_site_links: %w", err)
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, xerrors.Errorf("lexical candidates: %w", err)
	}
	return out, nil
}

func (s *Store) InboundLinks(ctx context.Context, q string) ([]store.InboundRow, error) {
	rows, err := s.db.QueryContext(ctx, inboundLinksQuery, q)
	if err != nil {
		return nil, xerrors.Errorf("inbound links: %w", err)
	}
	defer rows.Close()

	var out []store.InboundRow
	for rows.Next() {
		var row store.InboundRow
		var rank float32
		if err := rows.Scan(&row.DestURL, &row.SourceURL, &row.ContentType, &row.Size, &rank); err != nil {
			return nil, xerrors.Errorf("inbound links: scan: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, xerrors.Errorf("inbound links: %w", err)
	}
	return out, nil
}

// Snippets fetches a highlighted preview for each of urls. urls containing
// a single quote are dropped rather than escaped, since the IN (...)
// clause is built by string concatenation against already-stored URLs.
func (s *Store) Snippets(ctx context.Context, q string, urls []string) ([]store.SnippetRow, error) {
	clause := buildURLInClause(urls)
	if clause == "" {
		return nil, nil
	}

	query := "SELECT url, size, title, content_type, " +
		"ts_headline(SUBSTRING(content_body, 0, 5000), plainto_tsquery($1), '" + snippetHighlightOpts + "') AS preview, " +
		"last_crawled_at FROM pages WHERE url IN (" + clause + ")"

	rows, err := s.db.QueryContext(ctx, query, q)
	if err != nil {
		return nil, xerrors.Errorf("snippets: %w", err)
	}
	defer rows.Close()

	var out []store.SnippetRow
	for rows.Next() {
		var row store.SnippetRow
		if err := rows.Scan(&row.URL, &row.Size, &row.Title, &row.ContentType, &row.Preview, &row.LastCrawledAt); err != nil {
			return nil, xerrors.Errorf("snippets: scan: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, xerrors.Errorf("snippets: %w", err)
	}
	return out, nil
}

func (s *Store) Backlinks(ctx context.Context, url string) ([]store.BacklinkRow, error) {
	rows, err := s.db.QueryContext(ctx, backlinksQuery, url)
	if err != nil {
		return nil, xerrors.Errorf("backlinks: %w", err)
	}
	defer rows.Close()

	var out []store.BacklinkRow
	for rows.Next() {
		var row store.BacklinkRow
		if err := rows.Scan(&row.URL, &row.IsCrossSite); err != nil {
			return nil, xerrors.Errorf("backlinks: scan: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, xerrors.Errorf("backlinks: %w", err)
	}
	return out, nil
}

// buildURLInClause builds the literal list for a SQL IN (...) clause. URLs
// containing a single quote are dropped rather than escaped; see the open
// question on this policy.
func buildURLInClause(urls []string) string {
	var b strings.Builder
	first := true
	for _, u := range urls {
		if strings.IndexByte(u, '\'') >= 0 {
			continue
		}
		if !first {
			b.WriteString(", ")
		}
		first = false
		b.WriteByte('\'')
		b.WriteString(u)
		b.WriteByte('\'')
	}
	return b.String()
}
