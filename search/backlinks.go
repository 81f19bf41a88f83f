package search

import (
	"context"

	"golang.org/x/xerrors"

	"github.com/capsulesearch/engine/geminiurl"
)

// Backlinks normalizes url (prepending gemini:// if needed to make it
// parseable) and reports every link that points at it, partitioned into
// same-host and cross-site.
func (o *Orchestrator) Backlinks(ctx context.Context, rawURL string) (Response, error) {
	if rawURL == "" {
		return inputResponse("Enter URL to a page"), nil
	}

	u, err := geminiurl.Parse(rawURL)
	if err != nil {
		u, err = geminiurl.Parse("gemini://" + rawURL)
		if err != nil {
			return inputResponse("Enter URL to a page"), nil
		}
	}

	rows, err := o.cfg.Store.Backlinks(ctx, u.String())
	if err != nil {
		return Response{}, xerrors.Errorf("backlinks: %w", err)
	}

	var internal, external []string
	for _, row := range rows {
		if row.IsCrossSite {
			external = append(external, row.URL)
		} else {
			internal = append(internal, row.URL)
		}
	}

	return successResponse(renderBacklinksBody(u.String(), internal, external)), nil
}
