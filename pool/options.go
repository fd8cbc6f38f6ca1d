package pool

import (
	"runtime"
	"time"

	"github.com/utkarsh5026/threadkit/internal/algorithms"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// BackoffType selects how workers space out retries after the task queue
// fails unexpectedly.
type BackoffType = algorithms.BackoffType

const (
	BackoffExponential  = algorithms.BackoffExponential
	BackoffJittered     = algorithms.BackoffJittered
	BackoffDecorrelated = algorithms.BackoffDecorrelated
)

const (
	defaultName         = "threadkit"
	defaultBackoffStart = 10 * time.Millisecond
	defaultBackoffMax   = time.Second
)

// Option is a functional option for configuring a ThreadPool.
type Option func(*config)

type config struct {
	name     string
	size     int
	timeout  time.Duration
	logger   *zap.Logger
	limiter  *rate.Limiter
	affinity bool

	backoffType    BackoffType
	backoffInitial time.Duration
	backoffMax     time.Duration
	backoffJitter  float64

	// startHook runs on every worker goroutine before it starts serving.
	// An error aborts New.
	startHook func(workerID int) error
}

func defaultConfig() *config {
	return &config{
		name:           defaultName,
		size:           runtime.GOMAXPROCS(0),
		logger:         zap.NewNop(),
		backoffType:    BackoffExponential,
		backoffInitial: defaultBackoffStart,
		backoffMax:     defaultBackoffMax,
	}
}

// WithName names the pool in its log entries.
func WithName(name string) Option {
	return func(cfg *config) {
		if name != "" {
			cfg.name = name
		}
	}
}

// WithSize sets the number of workers. It must be positive; New rejects
// anything else with ErrInvalidArgs.
// If not specified, defaults to runtime.GOMAXPROCS(0).
func WithSize(size int) Option {
	return func(cfg *config) {
		cfg.size = size
	}
}

// WithTimeout bounds every blocking operation on the task queue. Workers
// treat an expired dequeue as an idle tick and poll again, so the timeout is
// also their liveness interval. Zero, the default, waits forever.
func WithTimeout(timeout time.Duration) Option {
	return func(cfg *config) {
		if timeout >= 0 {
			cfg.timeout = timeout
		}
	}
}

// WithLogger sets the logger used by the pool, its queue and its workers.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithRateLimit caps how fast the pool as a whole starts tasks.
// tasksPerSecond is the sustained rate and burst the number of tasks that
// may start back to back. If not specified, no rate limiting is applied.
//
// Example:
//
//	WithRateLimit(10, 5) // Allow 10 tasks/sec with burst of 5
func WithRateLimit(tasksPerSecond float64, burst int) Option {
	return func(cfg *config) {
		if tasksPerSecond > 0 && burst > 0 {
			cfg.limiter = rate.NewLimiter(rate.Limit(tasksPerSecond), burst)
		}
	}
}

// WithBackoff configures the delay a worker sleeps after an unexpected
// dequeue failure before trying again.
func WithBackoff(kind BackoffType, initialDelay, maxDelay time.Duration) Option {
	return func(cfg *config) {
		cfg.backoffType = kind
		if initialDelay > 0 {
			cfg.backoffInitial = initialDelay
		}
		if maxDelay > 0 {
			cfg.backoffMax = maxDelay
		}
	}
}

// WithJitteredBackoff is WithBackoff(BackoffJittered, ...) with an explicit
// jitter factor between 0 and 1.
func WithJitteredBackoff(initialDelay, maxDelay time.Duration, jitterFactor float64) Option {
	return func(cfg *config) {
		WithBackoff(BackoffJittered, initialDelay, maxDelay)(cfg)
		cfg.backoffJitter = jitterFactor
	}
}

// WithWorkerAffinity locks every worker to its own OS thread and pins that
// thread to a CPU where the platform supports it.
func WithWorkerAffinity() Option {
	return func(cfg *config) {
		cfg.affinity = true
	}
}

func withStartHook(hook func(workerID int) error) Option {
	return func(cfg *config) {
		cfg.startHook = hook
	}
}
