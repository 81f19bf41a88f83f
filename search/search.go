package search

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"

	"github.com/capsulesearch/engine/filter"
	"github.com/capsulesearch/engine/geminiurl"
	"github.com/capsulesearch/engine/hits"
	"github.com/capsulesearch/engine/limiter"
	"github.com/capsulesearch/engine/query"
	"github.com/capsulesearch/engine/store"
)

// Search runs the ranked search pipeline for rawQuery and returns the
// page-th (1-indexed) slice of results. An empty parsed query text yields
// a status-10 prompt; an overloaded limiter yields status 44.
func (o *Orchestrator) Search(ctx context.Context, rawQuery string, page int, verbose bool) (Response, error) {
	reqID := uuid.New()
	log := o.cfg.Logger.WithField("request_id", reqID)

	count, release := o.cfg.Limiter.Acquire()
	defer release()
	if limiter.Overloaded(count) {
		return slowDownResponse(), nil
	}

	text, f := query.Parse(rawQuery)
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return inputResponse("Search for something"), nil
	}

	start := time.Now()
	cached := true
	val, err := o.cfg.Cache.FindOrBuild(text, func() (interface{}, error) {
		cached = false
		return o.buildRanked(ctx, text, log)
	})
	if err != nil {
		return Response{}, xerrors.Errorf("search: %w", err)
	}
	ranked := val.([]hits.Result)

	filtered := make([]hits.Result, 0, len(ranked))
	for _, r := range ranked {
		host := ""
		if u, err := geminiurl.Parse(r.URL); err == nil {
			host = u.Host()
		}
		if filter.Matches(host, r.ContentType, r.Size, f) {
			filtered = append(filtered, r)
		}
	}

	total := len(filtered)
	pageIndex := page - 1
	if pageIndex < 0 {
		pageIndex = 0
	}
	pageStart := pageIndex * resultsPerPage
	if pageStart > total {
		pageStart = total
	}
	pageEnd := pageStart + resultsPerPage
	if pageEnd > total {
		pageEnd = total
	}
	slice := filtered[pageStart:pageEnd]

	urls := make([]string, len(slice))
	for i, r := range slice {
		urls[i] = r.URL
	}
	snippetRows, err := o.cfg.Store.Snippets(ctx, text, urls)
	if err != nil {
		return Response{}, xerrors.Errorf("search: snippets: %w", err)
	}
	byURL := make(map[string]store.SnippetRow, len(snippetRows))
	for _, row := range snippetRows {
		byURL[row.URL] = row
	}

	rendered := make([]renderedResult, 0, len(slice))
	for _, r := range slice {
		row, ok := byURL[r.URL]
		if !ok {
			log.WithField("url", r.URL).Warn("search: result missing from snippet fetch")
			continue
		}
		rendered = append(rendered, renderedResult{
			URL:           r.URL,
			Title:         o.sanitizer.Sanitize(row.Title),
			ContentType:   row.ContentType,
			Size:          row.Size,
			Preview:       o.sanitizer.Sanitize(row.Preview),
			LastCrawledAt: row.LastCrawledAt.Format("2006-01-02 15:04:05"),
		})
	}

	totalPages := (total + resultsPerPage - 1) / resultsPerPage
	if totalPages == 0 {
		totalPages = 1
	}
	body := renderSearchBody(text, rendered, pageIndex+1, totalPages, total, verbose)

	log.WithFields(logrus.Fields{
		"query":   text,
		"cached":  cached,
		"elapsed": time.Since(start),
	}).Debug("search request completed")

	return successResponse(body), nil
}

// buildRanked fetches the root and base sets from the page store and runs
// HITS authority ranking. Its result is what the result cache stores.
func (o *Orchestrator) buildRanked(ctx context.Context, text string, log *logrus.Entry) ([]hits.Result, error) {
	lexical, err := o.cfg.Store.LexicalCandidates(ctx, text)
	if err != nil {
		return nil, xerrors.Errorf("lexical candidates: %w", err)
	}
	inbound, err := o.cfg.Store.InboundLinks(ctx, text)
	if err != nil {
		return nil, xerrors.Errorf("inbound links: %w", err)
	}
	g := hits.Build(lexical, inbound)
	return g.Rank(hits.AuthorityMode, log), nil
}
