// Package memory implements an in-process, bleve-backed page store used for
// local development and tests in place of a PostgreSQL full-text index.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/blevesearch/bleve"
	"golang.org/x/xerrors"

	"github.com/capsulesearch/engine/store"
)

// Page is a seeded document. LastCrawledAt defaults to the seed time if
// zero.
type Page struct {
	URL           string
	Title         string
	Body          string
	ContentType   string
	Size          uint64
	LastCrawledAt time.Time
}

// Link is a seeded edge between two pages.
type Link struct {
	SourceURL   string
	DestURL     string
	IsCrossSite bool
}

// Store is a dev/test page store backed by two bleve full-text indexes (one
// over titles, one over bodies) and an in-memory link graph.
type Store struct {
	mu            sync.RWMutex
	pages         map[string]*Page
	linksBySource map[string][]Link
	linksByDest   map[string][]Link

	titleIdx bleve.Index
	bodyIdx  bleve.Index
}

// New builds an empty store.
func New() (*Store, error) {
	titleIdx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, xerrors.Errorf("memory store: title index: %w", err)
	}
	bodyIdx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, xerrors.Errorf("memory store: body index: %w", err)
	}
	return &Store{
		pages:         make(map[string]*Page),
		linksBySource: make(map[string][]Link),
		linksByDest:   make(map[string][]Link),
		titleIdx:      titleIdx,
		bodyIdx:       bodyIdx,
	}, nil
}

// Seed loads pages and links into the store, replacing any prior content
// for the same URLs. It is the only write path: the store adapter is
// read-only from the orchestrator's point of view.
func (s *Store) Seed(pages []Page, links []Link) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for _, p := range pages {
		pcopy := p
		if pcopy.LastCrawledAt.IsZero() {
			pcopy.LastCrawledAt = now
		}
		s.pages[p.URL] = &pcopy
		if err := s.titleIdx.Index(p.URL, titleDoc{Title: p.Title}); err != nil {
			return xerrors.Errorf("memory store: seed title: %w", err)
		}
		if err := s.bodyIdx.Index(p.URL, bodyDoc{Body: p.Body}); err != nil {
			return xerrors.Errorf("memory store: seed body: %w", err)
		}
	}
	for _, l := range links {
		s.linksBySource[l.SourceURL] = append(s.linksBySource[l.SourceURL], l)
		s.linksByDest[l.DestURL] = append(s.linksByDest[l.DestURL], l)
	}
	return nil
}

func (s *Store) Close() error {
	var merr error
	if err := s.titleIdx.Close(); err != nil {
		merr = err
	}
	if err := s.bodyIdx.Close(); err != nil {
		merr = err
	}
	return merr
}

type titleDoc struct {
	Title string
}

type bodyDoc struct {
	Body string
}

// matchScores runs q against idx and returns a url -> score map.
func matchScores(idx bleve.Index, q string) (map[string]float64, error) {
	scores := make(map[string]float64)
	if strings.TrimSpace(q) == "" {
		return scores, nil
	}
	req := bleve.NewSearchRequest(bleve.NewMatchQuery(q))
	req.Size = 50000
	res, err := idx.Search(req)
	if err != nil {
		return nil, err
	}
	for _, hit := range res.Hits {
		scores[hit.ID] = hit.Score
	}
	return scores, nil
}

func (s *Store) LexicalCandidates(ctx context.Context, q string) ([]store.LexicalRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	titleScores, err := matchScores(s.titleIdx, q)
	if err != nil {
		return nil, xerrors.Errorf("lexical candidates: %w", err)
	}
	bodyScores, err := matchScores(s.bodyIdx, q)
	if err != nil {
		return nil, xerrors.Errorf("lexical candidates: %w", err)
	}

	var out []store.LexicalRow
	for url, page := range s.pages {
		rank := float32(titleScores[url]*50 + bodyScores[url])
		if rank <= 0 {
			continue
		}
		out = append(out, store.LexicalRow{
			SourceURL:      url,
			CrossSiteLinks: s.crossSiteLinksFrom(url),
			ContentType:    page.ContentType,
			Size:           page.Size,
			Rank:           rank,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rank > out[j].Rank })
	if len(out) > 50000 {
		out = out[:50000]
	}
	return out, nil
}

func (s *Store) InboundLinks(ctx context.Context, q string) ([]store.InboundRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	titleScores, err := matchScores(s.titleIdx, q)
	if err != nil {
		return nil, xerrors.Errorf("inbound links: %w", err)
	}
	bodyScores, err := matchScores(s.bodyIdx, q)
	if err != nil {
		return nil, xerrors.Errorf("inbound links: %w", err)
	}

	var out []store.InboundRow
	for url, page := range s.pages {
		if titleScores[url] <= 0 && bodyScores[url] <= 0 {
			continue
		}
		for _, link := range s.linksByDest[url] {
			if !link.IsCrossSite {
				continue
			}
			out = append(out, store.InboundRow{
				DestURL:     url,
				SourceURL:   link.SourceURL,
				ContentType: page.ContentType,
				Size:        page.Size,
			})
		}
	}
	return out, nil
}

func (s *Store) Snippets(ctx context.Context, q string, urls []string) ([]store.SnippetRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []store.SnippetRow
	for _, url := range urls {
		if strings.IndexByte(url, '\'') >= 0 {
			continue
		}
		page, ok := s.pages[url]
		if !ok {
			continue
		}
		out = append(out, store.SnippetRow{
			URL:           url,
			Size:          page.Size,
			Title:         page.Title,
			ContentType:   page.ContentType,
			Preview:       headline(page.Body, q),
			LastCrawledAt: page.LastCrawledAt,
		})
	}
	return out, nil
}

func (s *Store) Backlinks(ctx context.Context, url string) ([]store.BacklinkRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []store.BacklinkRow
	for _, link := range s.linksByDest[url] {
		out = append(out, store.BacklinkRow{URL: link.SourceURL, IsCrossSite: link.IsCrossSite})
	}
	return out, nil
}

func (s *Store) crossSiteLinksFrom(url string) []string {
	var out []string
	for _, l := range s.linksBySource[url] {
		if l.IsCrossSite {
			out = append(out, l.DestURL)
		}
	}
	return out
}

// headline extracts a window of at most 37 words of body, starting up to 11
// words before the first occurrence of a query term (or at the start of body
// when no term occurs), standing in for ts_headline with empty
// StartSel/StopSel. No minimum length is applied and no " ... " fragment
// delimiter is inserted.
func headline(body, q string) string {
	const minWords, maxWords = 23, 37
	words := strings.Fields(body)
	if len(words) == 0 {
		return ""
	}

	start := 0
	terms := strings.Fields(strings.ToLower(q))
outer:
	for i, w := range words {
		lw := strings.ToLower(w)
		for _, t := range terms {
			if strings.Contains(lw, t) {
				start = i - minWords/2
				if start < 0 {
					start = 0
				}
				break outer
			}
		}
	}

	end := start + maxWords
	if end > len(words) {
		end = len(words)
	}
	if end-start > maxWords {
		end = start + maxWords
	}
	return strings.Join(words[start:end], " ")
}
