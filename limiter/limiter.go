// Package limiter implements the admission limiter: a process-wide
// in-flight request counter used to shed load once too many searches are
// running concurrently.
package limiter

import "sync/atomic"

// Threshold is the in-flight count above which Overloaded reports overload.
const Threshold = 120

// Limiter is a process-wide, monotonically-updated in-flight counter.
// The zero value is ready to use.
type Limiter struct {
	inFlight int64
}

// Acquire increments the in-flight counter and returns the pre-increment
// count plus a release function. release MUST be called exactly once,
// on every exit path including errors and cancellation, regardless of
// whether the caller proceeds past the threshold check.
func (l *Limiter) Acquire() (count int64, release func()) {
	count = atomic.AddInt64(&l.inFlight, 1) - 1
	var released int32
	release = func() {
		if atomic.CompareAndSwapInt32(&released, 0, 1) {
			atomic.AddInt64(&l.inFlight, -1)
		}
	}
	return count, release
}

// Overloaded reports whether count, as returned by Acquire, exceeds
// Threshold.
func Overloaded(count int64) bool {
	return count > Threshold
}
