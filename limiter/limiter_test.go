package limiter

import (
	"testing"

	gc "gopkg.in/check.v1"
)

func Test(t *testing.T) { gc.TestingT(t) }

var _ = gc.Suite(new(LimiterTestSuite))

type LimiterTestSuite struct{}

func (s *LimiterTestSuite) TestFirstAcquireSeesZero(c *gc.C) {
	var l Limiter
	count, release := l.Acquire()
	defer release()
	c.Check(count, gc.Equals, int64(0))
}

func (s *LimiterTestSuite) TestReleaseIsUnconditionalAndIdempotent(c *gc.C) {
	var l Limiter
	_, release1 := l.Acquire()
	count2, release2 := l.Acquire()
	c.Check(count2, gc.Equals, int64(1))

	release1()
	release1() // double-release must not double-decrement
	count3, release3 := l.Acquire()
	c.Check(count3, gc.Equals, int64(1))
	release2()
	release3()
}

func (s *LimiterTestSuite) TestOverloadedThreshold(c *gc.C) {
	c.Check(Overloaded(120), gc.Equals, false)
	c.Check(Overloaded(121), gc.Equals, true)
}

func (s *LimiterTestSuite) TestManyAcquiresReflectInFlight(c *gc.C) {
	var l Limiter
	var releases []func()
	for i := 0; i < 125; i++ {
		_, release := l.Acquire()
		releases = append(releases, release)
	}
	count, release := l.Acquire()
	c.Check(Overloaded(count), gc.Equals, true)
	release()
	for _, r := range releases {
		r()
	}
}
