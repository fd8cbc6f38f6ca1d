package syncx

import (
	"context"
	"math"
	"time"
)

// Infinite is the timeout value meaning "wait as long as it takes".
const Infinite time.Duration = 0

// Deadline is an absolute point in time computed once from a relative
// timeout. Blocking operations create one at entry and reuse it for the lock
// acquisition and for every condition wait that follows, so the total time
// spent blocked is bounded by the original timeout.
//
// The zero Deadline never expires.
type Deadline struct {
	at time.Time
}

// After converts a relative timeout into an absolute deadline.
// A timeout of zero (or less) yields a deadline that never expires.
func After(timeout time.Duration) Deadline {
	if timeout <= 0 {
		return Deadline{}
	}
	return Deadline{at: time.Now().Add(timeout)}
}

// At returns a deadline expiring at t.
func At(t time.Time) Deadline {
	return Deadline{at: t}
}

// Infinite reports whether the deadline never expires.
func (d Deadline) Infinite() bool {
	return d.at.IsZero()
}

// Time returns the absolute expiry time and false for an infinite deadline.
func (d Deadline) Time() (time.Time, bool) {
	return d.at, !d.at.IsZero()
}

// Remaining returns the time left before expiry, never negative.
// An infinite deadline reports the largest representable duration.
func (d Deadline) Remaining() time.Duration {
	if d.Infinite() {
		return time.Duration(math.MaxInt64)
	}
	return max(time.Until(d.at), 0)
}

// Expired reports whether a finite deadline has passed.
func (d Deadline) Expired() bool {
	return !d.Infinite() && !time.Now().Before(d.at)
}

// Context derives a context from parent that is done when the deadline
// expires. The returned cancel function must always be called.
func (d Deadline) Context(parent context.Context) (context.Context, context.CancelFunc) {
	if d.Infinite() {
		return context.WithCancel(parent)
	}
	return context.WithDeadline(parent, d.at)
}
