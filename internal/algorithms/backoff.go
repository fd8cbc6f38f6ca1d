package algorithms

import (
	"math/rand/v2"
	"sync"
	"time"
)

// maxShift caps the exponent so initial<<attempt cannot overflow.
const maxShift = 62

// BackoffType selects how a worker spaces out its retries after the task
// queue reports an unexpected failure.
type BackoffType int

const (
	// BackoffExponential doubles the delay on every attempt (default).
	BackoffExponential BackoffType = iota
	// BackoffJittered is exponential backoff scaled by a random factor.
	BackoffJittered
	// BackoffDecorrelated draws each delay from [initial, 3*previous].
	BackoffDecorrelated
)

func (b BackoffType) String() string {
	switch b {
	case BackoffExponential:
		return "exponential"
	case BackoffJittered:
		return "jittered"
	case BackoffDecorrelated:
		return "decorrelated"
	default:
		return "unknown"
	}
}

// Backoff produces the delay to sleep before retry number attempt, counted
// from zero. Reset forgets any history kept between attempts.
//
// Implementations are safe for concurrent use.
type Backoff interface {
	Next(attempt int) time.Duration
	Reset()
}

// NewBackoff builds the strategy for kind. Every delay it returns lies in
// [0, maxDelay]. jitter only applies to BackoffJittered and is clamped to
// [0, 1].
func NewBackoff(kind BackoffType, initial, maxDelay time.Duration, jitter float64) Backoff {
	if maxDelay < initial {
		maxDelay = initial
	}

	switch kind {
	case BackoffJittered:
		return &jittered{
			initial: initial,
			max:     maxDelay,
			factor:  min(max(jitter, 0), 1),
			rng:     newRand(),
		}
	case BackoffDecorrelated:
		return &decorrelated{
			initial: initial,
			max:     maxDelay,
			prev:    initial,
			rng:     newRand(),
		}
	default:
		return exponential{initial: initial, max: maxDelay}
	}
}

// exponential waits initial * 2^attempt, capped at max.
type exponential struct {
	initial, max time.Duration
}

func (e exponential) Next(attempt int) time.Duration {
	return doubling(attempt, e.initial, e.max)
}

func (exponential) Reset() {}

// jittered waits the exponential delay multiplied by 1 ± factor.
type jittered struct {
	initial, max time.Duration
	factor       float64

	mu  sync.Mutex
	rng *rand.Rand
}

func (j *jittered) Next(attempt int) time.Duration {
	base := doubling(attempt, j.initial, j.max)

	j.mu.Lock()
	scale := 1 + (j.rng.Float64()*2-1)*j.factor
	j.mu.Unlock()

	return min(max(time.Duration(float64(base)*scale), 0), j.max)
}

func (*jittered) Reset() {}

// decorrelated implements "decorrelated jitter": each delay depends on the
// previous one rather than on the attempt number, so workers that failed
// together drift apart.
type decorrelated struct {
	initial, max time.Duration

	mu   sync.Mutex
	prev time.Duration
	rng  *rand.Rand
}

func (d *decorrelated) Next(attempt int) time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()

	if attempt <= 0 {
		d.prev = d.initial
		return d.initial
	}

	upper := min(3*d.prev, d.max)
	span := upper - d.initial
	if span <= 0 {
		d.prev = d.initial
		return d.initial
	}

	d.prev = d.initial + time.Duration(d.rng.Int64N(int64(span)))
	return d.prev
}

func (d *decorrelated) Reset() {
	d.mu.Lock()
	d.prev = d.initial
	d.mu.Unlock()
}

func doubling(attempt int, initial, maxDelay time.Duration) time.Duration {
	switch {
	case attempt < 0, initial <= 0:
		return 0
	case attempt >= maxShift:
		return maxDelay
	}

	delay := initial << uint(attempt)
	if delay <= 0 || delay > maxDelay || delay>>uint(attempt) != initial {
		return maxDelay
	}
	return delay
}

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) // #nosec G404 -- jitter needs no crypto rand
}
