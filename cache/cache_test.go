package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	gc "gopkg.in/check.v1"
)

func Test(t *testing.T) { gc.TestingT(t) }

var _ = gc.Suite(new(CacheTestSuite))

type CacheTestSuite struct{}

func (s *CacheTestSuite) TestMissThenHit(c *gc.C) {
	ch := New(time.Minute)
	var calls int32

	build := func() (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		return "value", nil
	}

	v1, err := ch.FindOrBuild("key", build)
	c.Assert(err, gc.IsNil)
	c.Check(v1, gc.Equals, "value")

	v2, err := ch.FindOrBuild("key", build)
	c.Assert(err, gc.IsNil)
	c.Check(v2, gc.Equals, "value")
	c.Check(atomic.LoadInt32(&calls), gc.Equals, int32(1))
}

func (s *CacheTestSuite) TestTTLClampedToMinimum(c *gc.C) {
	ch := New(time.Second)
	c.Check(ch.TTL, gc.Equals, MinTTL)
}

func (s *CacheTestSuite) TestExpiryRebuildsWithInjectedClock(c *gc.C) {
	clk := testclock.NewClock(time.Now())
	ch := &Cache{TTL: time.Minute, Clock: clk, entries: make(map[string]*entry)}
	var calls int32
	build := func() (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		return "value", nil
	}

	_, err := ch.FindOrBuild("key", build)
	c.Assert(err, gc.IsNil)

	clk.Advance(2 * time.Minute)

	_, err = ch.FindOrBuild("key", build)
	c.Assert(err, gc.IsNil)
	c.Check(atomic.LoadInt32(&calls), gc.Equals, int32(2))
}

func (s *CacheTestSuite) TestConcurrentMissesCoalesce(c *gc.C) {
	ch := New(time.Minute)
	var calls int32
	var wg sync.WaitGroup
	start := make(chan struct{})

	build := func() (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(10 * time.Millisecond)
		return "value", nil
	}

	const n = 20
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			v, err := ch.FindOrBuild("shared-key", build)
			c.Check(err, gc.IsNil)
			c.Check(v, gc.Equals, "value")
		}()
	}
	close(start)
	wg.Wait()

	c.Check(atomic.LoadInt32(&calls), gc.Equals, int32(1))
}

func (s *CacheTestSuite) TestEvictExpiredRemovesStaleEntries(c *gc.C) {
	clk := testclock.NewClock(time.Now())
	ch := &Cache{TTL: time.Minute, Clock: clk, entries: make(map[string]*entry)}

	_, err := ch.FindOrBuild("key", func() (interface{}, error) { return "value", nil })
	c.Assert(err, gc.IsNil)

	c.Check(ch.evictExpired(), gc.Equals, 0)
	c.Check(ch.entries, gc.HasLen, 1)

	clk.Advance(2 * time.Minute)

	c.Check(ch.evictExpired(), gc.Equals, 1)
	c.Check(ch.entries, gc.HasLen, 0)
}

func (s *CacheTestSuite) TestJanitorStopsOnContextCancel(c *gc.C) {
	j := &Janitor{Cache: New(time.Minute)}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := j.Run(ctx)
	c.Check(err, gc.IsNil)
}

func (s *CacheTestSuite) TestJanitorName(c *gc.C) {
	j := &Janitor{}
	c.Check(j.Name(), gc.Equals, "cache-janitor")
}
