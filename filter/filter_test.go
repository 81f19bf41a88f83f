package filter

import (
	"testing"

	gc "gopkg.in/check.v1"

	"github.com/capsulesearch/engine/query"
)

func Test(t *testing.T) { gc.TestingT(t) }

var _ = gc.Suite(new(FilterTestSuite))

type FilterTestSuite struct{}

func (s *FilterTestSuite) TestEmptyFilterPassesEverything(c *gc.C) {
	c.Check(Matches("host.example", "text/gemini", 42, query.Filter{}), gc.Equals, true)
}

func (s *FilterTestSuite) TestSizeRejectsZeroWhenConstrained(c *gc.C) {
	f := query.Filter{Sizes: []query.SizeFilter{{Bytes: 10, Greater: true}}}
	c.Check(Matches("h", "t", 0, f), gc.Equals, false)
}

func (s *FilterTestSuite) TestSizeGreaterConstraint(c *gc.C) {
	f := query.Filter{Sizes: []query.SizeFilter{{Bytes: 10, Greater: true}}}
	c.Check(Matches("h", "t", 20, f), gc.Equals, true)
	c.Check(Matches("h", "t", 5, f), gc.Equals, false)
}

func (s *FilterTestSuite) TestSizeLessConstraint(c *gc.C) {
	f := query.Filter{Sizes: []query.SizeFilter{{Bytes: 10, Greater: false}}}
	c.Check(Matches("h", "t", 5, f), gc.Equals, true)
	c.Check(Matches("h", "t", 20, f), gc.Equals, false)
}

func (s *FilterTestSuite) TestDomainPositiveMatch(c *gc.C) {
	f := query.Filter{Domains: []query.DomainFilter{{Value: "a.example", Negate: false}}}
	c.Check(Matches("a.example", "t", 1, f), gc.Equals, true)
	c.Check(Matches("b.example", "t", 1, f), gc.Equals, false)
}

func (s *FilterTestSuite) TestDomainNegatedMatch(c *gc.C) {
	f := query.Filter{Domains: []query.DomainFilter{{Value: "a.example", Negate: true}}}
	c.Check(Matches("a.example", "t", 1, f), gc.Equals, false)
	c.Check(Matches("b.example", "t", 1, f), gc.Equals, true)
}

func (s *FilterTestSuite) TestContentTypePrefixMatch(c *gc.C) {
	f := query.Filter{ContentTypes: []query.DomainFilter{{Value: "text/", Negate: false}}}
	c.Check(Matches("h", "text/gemini", 1, f), gc.Equals, true)
	c.Check(Matches("h", "image/png", 1, f), gc.Equals, false)
	c.Check(Matches("h", "", 1, f), gc.Equals, false)
}

func (s *FilterTestSuite) TestContentTypeNegatedMatch(c *gc.C) {
	f := query.Filter{ContentTypes: []query.DomainFilter{{Value: "text/", Negate: true}}}
	c.Check(Matches("h", "text/gemini", 1, f), gc.Equals, false)
	c.Check(Matches("h", "image/png", 1, f), gc.Equals, true)
}

func (s *FilterTestSuite) TestAllCategoriesMustPass(c *gc.C) {
	f := query.Filter{
		Domains:      []query.DomainFilter{{Value: "a.example", Negate: false}},
		ContentTypes: []query.DomainFilter{{Value: "text/", Negate: false}},
	}
	c.Check(Matches("a.example", "text/gemini", 1, f), gc.Equals, true)
	c.Check(Matches("a.example", "image/png", 1, f), gc.Equals, false)
	c.Check(Matches("b.example", "text/gemini", 1, f), gc.Equals, false)
}
