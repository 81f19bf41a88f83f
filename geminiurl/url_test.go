package geminiurl

import (
	"testing"

	gc "gopkg.in/check.v1"
)

func Test(t *testing.T) { gc.TestingT(t) }

var _ = gc.Suite(new(URLTestSuite))

type URLTestSuite struct{}

func (s *URLTestSuite) TestParseNormalizesHost(c *gc.C) {
	u, err := Parse("gemini://EXAMPLE.com/Foo/Bar")
	c.Assert(err, gc.IsNil)
	c.Check(u.Host(), gc.Equals, "example.com")
	c.Check(u.Path(), gc.Equals, "/Foo/Bar")
}

func (s *URLTestSuite) TestStringRoundTrips(c *gc.C) {
	u, err := Parse("gemini://host.example/a/b?q=1")
	c.Assert(err, gc.IsNil)
	reparsed, err := Parse(u.String())
	c.Assert(err, gc.IsNil)
	c.Check(reparsed.String(), gc.Equals, u.String())
}

func (s *URLTestSuite) TestSchemeDefaultsToGemini(c *gc.C) {
	u, err := Parse("host.example/a")
	c.Assert(err, gc.IsNil)
	c.Check(u.Scheme(), gc.Equals, "gemini")
}

func (s *URLTestSuite) TestMissingHostIsInvalid(c *gc.C) {
	_, err := Parse("gemini:///no-host")
	c.Check(err, gc.NotNil)
	c.Check(Good("gemini:///no-host"), gc.Equals, false)
}

func (s *URLTestSuite) TestPortPreserved(c *gc.C) {
	u, err := Parse("gemini://host.example:1966/path")
	c.Assert(err, gc.IsNil)
	c.Check(u.Port(), gc.Equals, "1966")
	c.Check(u.String(), gc.Equals, "gemini://host.example:1966/path")
}

func (s *URLTestSuite) TestEncodeDecodeRoundTrip(c *gc.C) {
	samples := []string{
		"cats domain:example.com",
		"hello world!",
		"weird chars: %&=?#",
		"",
		"100%-safe_value.tilde~",
	}
	for _, sample := range samples {
		enc := URLEncode(sample)
		c.Check(URLDecode(enc), gc.Equals, sample)
	}
}

func (s *URLTestSuite) TestEncodeUsesPlusForSpace(c *gc.C) {
	c.Check(URLEncode("a b"), gc.Equals, "a+b")
	c.Check(URLDecode("a+b"), gc.Equals, "a b")
}
