package search

import (
	"context"
	"fmt"
	"strings"
	"testing"

	gc "gopkg.in/check.v1"

	"github.com/capsulesearch/engine/store/memory"
)

func Test(t *testing.T) { gc.TestingT(t) }

var _ = gc.Suite(new(SearchTestSuite))

type SearchTestSuite struct {
	orch *Orchestrator
}

func (s *SearchTestSuite) SetUpTest(c *gc.C) {
	st, err := memory.New()
	c.Assert(err, gc.IsNil)

	err = st.Seed(
		[]memory.Page{
			{URL: "gemini://a.example/", Title: "Cats everywhere", Body: "a gemini capsule all about cats and kittens roaming free", ContentType: "text/gemini", Size: 120},
			{URL: "gemini://b.example/", Title: "More cats", Body: "another capsule mentioning cats in passing", ContentType: "text/gemini", Size: 80},
		},
		[]memory.Link{
			{SourceURL: "gemini://a.example/", DestURL: "gemini://b.example/", IsCrossSite: true},
		},
	)
	c.Assert(err, gc.IsNil)

	orch, err := New(Config{Store: st})
	c.Assert(err, gc.IsNil)
	s.orch = orch
}

func (s *SearchTestSuite) TestEmptyQueryPrompts(c *gc.C) {
	resp, err := s.orch.Search(context.Background(), "", 1, false)
	c.Assert(err, gc.IsNil)
	c.Check(resp.Status, gc.Equals, StatusInput)
}

func (s *SearchTestSuite) TestSearchReturnsResults(c *gc.C) {
	resp, err := s.orch.Search(context.Background(), "cats", 1, false)
	c.Assert(err, gc.IsNil)
	c.Check(resp.Status, gc.Equals, StatusSuccess)
	c.Check(resp.Body != "", gc.Equals, true)
}

func (s *SearchTestSuite) TestDomainFilterExcludesOtherHosts(c *gc.C) {
	resp, err := s.orch.Search(context.Background(), "cats domain:b.example", 1, false)
	c.Assert(err, gc.IsNil)
	c.Check(resp.Status, gc.Equals, StatusSuccess)
	c.Check(strings.Contains(resp.Body, "=> gemini://b.example/ "), gc.Equals, true)
	c.Check(strings.Contains(resp.Body, "gemini://a.example/"), gc.Equals, false)
}

func (s *SearchTestSuite) TestOverloadedReturnsSlowDown(c *gc.C) {
	var releases []func()
	for i := 0; i < 121; i++ {
		_, release := s.orch.cfg.Limiter.Acquire()
		releases = append(releases, release)
	}
	resp, err := s.orch.Search(context.Background(), "cats", 1, false)
	c.Assert(err, gc.IsNil)
	c.Check(resp.Status, gc.Equals, StatusSlowDown)
	for _, r := range releases {
		r()
	}
}

func (s *SearchTestSuite) TestJumpSearchEmptyPagePrompts(c *gc.C) {
	resp := s.orch.JumpSearch("cats", "", false)
	c.Check(resp.Status, gc.Equals, StatusInput)
}

func (s *SearchTestSuite) TestJumpSearchRedirectsToPage(c *gc.C) {
	resp := s.orch.JumpSearch("cats", "3", false)
	c.Check(resp.Status, gc.Equals, StatusRedirect)
	c.Check(resp.Meta, gc.Equals, "/search/3?cats")
}

func (s *SearchTestSuite) TestJumpSearchPageOneOmitsSuffix(c *gc.C) {
	resp := s.orch.JumpSearch("cats", "1", false)
	c.Check(resp.Meta, gc.Equals, "/search?cats")
}

func (s *SearchTestSuite) TestJumpSearchVerbosePrefixesV(c *gc.C) {
	resp := s.orch.JumpSearch("cats", "2", true)
	c.Check(resp.Meta, gc.Equals, "/v/search/2?cats")
}

func (s *SearchTestSuite) TestBacklinksEmptyURLPrompts(c *gc.C) {
	resp, err := s.orch.Backlinks(context.Background(), "")
	c.Assert(err, gc.IsNil)
	c.Check(resp.Status, gc.Equals, StatusInput)
}

func (s *SearchTestSuite) TestBacklinksPartitionsByHost(c *gc.C) {
	resp, err := s.orch.Backlinks(context.Background(), "gemini://b.example/")
	c.Assert(err, gc.IsNil)
	c.Check(resp.Status, gc.Equals, StatusSuccess)
	c.Check(strings.Contains(resp.Body, "## Internal\n\n\n## External\n\n=> gemini://a.example/\n"), gc.Equals, true)
}

func (s *SearchTestSuite) TestBacklinksPrependsSchemeWhenMissing(c *gc.C) {
	resp, err := s.orch.Backlinks(context.Background(), "b.example")
	c.Assert(err, gc.IsNil)
	c.Check(resp.Status, gc.Equals, StatusSuccess)
}

// TestPaginationSlicesResultsByTenPerPage seeds 25 matching pages and
// checks the three-page split: 10 results on page 1, 10 on page 2
// (indices [10,20) of the ranked set), and the remaining 5 on page 3,
// with no result appearing on more than one page.
func (s *SearchTestSuite) TestPaginationSlicesResultsByTenPerPage(c *gc.C) {
	const total = 25

	var pages []memory.Page
	for i := 0; i < total; i++ {
		pages = append(pages, memory.Page{
			URL:         fmt.Sprintf("gemini://widgets.example/%d", i),
			Title:       fmt.Sprintf("Widget %d", i),
			Body:        "a widget page about widgets",
			ContentType: "text/gemini",
			Size:        10,
		})
	}

	st, err := memory.New()
	c.Assert(err, gc.IsNil)
	c.Assert(st.Seed(pages, nil), gc.IsNil)

	orch, err := New(Config{Store: st})
	c.Assert(err, gc.IsNil)

	urlsOnPage := func(page int) []string {
		resp, err := orch.Search(context.Background(), "widgets", page, false)
		c.Assert(err, gc.IsNil)
		c.Assert(resp.Status, gc.Equals, StatusSuccess)

		var urls []string
		for _, line := range strings.Split(resp.Body, "\n") {
			if !strings.HasPrefix(line, "=> ") {
				continue
			}
			fields := strings.Fields(line)
			urls = append(urls, fields[1])
		}
		return urls
	}

	page1 := urlsOnPage(1)
	page2 := urlsOnPage(2)
	page3 := urlsOnPage(3)

	c.Check(page1, gc.HasLen, 10)
	c.Check(page2, gc.HasLen, 10)
	c.Check(page3, gc.HasLen, 5)

	seen := make(map[string]bool, total)
	for _, u := range append(append(page1, page2...), page3...) {
		c.Check(seen[u], gc.Equals, false, gc.Commentf("url %q appeared on more than one page", u))
		seen[u] = true
	}
	c.Check(seen, gc.HasLen, total)
}
