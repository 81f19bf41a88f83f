package main

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/capsulesearch/engine/geminiurl"
	"github.com/capsulesearch/engine/search"
)

// server dispatches Gemini request lines to the search orchestrator.
type server struct {
	orch *search.Orchestrator
}

// handle implements gemini.Handler.
func (s *server) handle(ctx context.Context, rawURL string) (int, string, string) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return search.StatusInput, "Malformed request", ""
	}

	path := u.Path
	verbose := strings.HasPrefix(path, "/v/") || path == "/v"
	input := geminiurl.URLDecode(u.RawQuery)

	switch {
	case path == "/search" || path == "/v/search":
		return respond(s.orch.Search(ctx, input, 1, verbose))

	case strings.HasPrefix(path, "/search/") || strings.HasPrefix(path, "/v/search/"):
		page, err := strconv.Atoi(path[strings.LastIndex(path, "/")+1:])
		if err != nil {
			page = 1
		}
		return respond(s.orch.Search(ctx, input, page, verbose))

	case strings.HasPrefix(path, "/search_jump/") || strings.HasPrefix(path, "/v/search_jump/"):
		term := path[strings.LastIndex(path, "/")+1:]
		resp := s.orch.JumpSearch(term, input, verbose)
		return resp.Status, resp.Meta, resp.Body

	case path == "/backlinks":
		return respond(s.orch.Backlinks(ctx, input))

	default:
		return 51, "Not found", ""
	}
}

func respond(resp search.Response, err error) (int, string, string) {
	if err != nil {
		return search.StatusTempFailure, "Internal error", ""
	}
	return resp.Status, resp.Meta, resp.Body
}
