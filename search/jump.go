package search

import (
	"fmt"
	"strconv"
)

// JumpSearch handles the page-jump round trip: the client first hits
// /search_jump/{term} with no page number and gets a status-10 prompt;
// once it resubmits with a page, this redirects to the paginated search
// route, carrying the original search term through as the query string.
func (o *Orchestrator) JumpSearch(term, pageInput string, verbose bool) Response {
	if pageInput == "" {
		return inputResponse("Go to page")
	}
	page, err := strconv.ParseUint(pageInput, 10, 64)
	if err != nil {
		return inputResponse("Go to page")
	}

	path := "/search"
	if verbose {
		path = "/v/search"
	}

	meta := path
	if page != 1 {
		meta = fmt.Sprintf("%s/%d", path, page)
	}
	meta = meta + "?" + term

	return redirectResponse(meta)
}
