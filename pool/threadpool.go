package pool

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/utkarsh5026/threadkit/collections/synchronized"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

type poolState int32

const (
	stateCreated poolState = iota
	stateRunning
	stateClosing
	stateDestroyed
)

// ThreadPool runs submitted tasks on a fixed set of workers. Tasks wait in
// a priority queue; each worker takes the highest priority task, runs it
// and publishes the result in the task's future.
type ThreadPool struct {
	name    string
	size    int
	timeout time.Duration
	logger  *zap.Logger
	limiter *rate.Limiter

	queue *synchronized.BlockingQueue[*task]
	group *errgroup.Group

	mu      sync.Mutex
	workers []*worker

	state atomic.Int32

	closeOnce   sync.Once
	closeErr    error
	destroyOnce sync.Once
	destroyErr  error

	nextID    atomic.Uint64
	submitted atomic.Uint64
	executed  atomic.Uint64
	cancelled atomic.Uint64
	panicked  atomic.Uint64
}

// New starts a pool configured by opts. It fails with ErrInvalidArgs for a
// non-positive size and with ErrThreadError when a worker cannot start; in
// the latter case the workers already started are shut down first.
func New(opts ...Option) (*ThreadPool, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.size <= 0 {
		return nil, fmt.Errorf("%w: pool size must be positive, got %d", ErrInvalidArgs, cfg.size)
	}

	logger := cfg.logger.Named("thread_pool").With(zap.String("pool", cfg.name))
	tp := &ThreadPool{
		name:    cfg.name,
		size:    cfg.size,
		timeout: cfg.timeout,
		logger:  logger,
		limiter: cfg.limiter,
		queue: synchronized.New(synchronized.Options[*task]{
			PriorityComparer: compareTasks,
			Timeout:          cfg.timeout,
			Logger:           logger,
		}),
		workers: make([]*worker, 0, cfg.size),
	}

	g, ctx := errgroup.WithContext(context.Background())
	tp.group = g

	for id := range cfg.size {
		w := newWorker(id, tp, cfg)
		ready := make(chan error, 1)
		g.Go(func() error {
			return w.run(ctx, cfg, ready)
		})

		if err := <-ready; err != nil {
			logger.Error("worker failed to start, stopping started workers",
				zap.Int("worker", id),
				zap.Int("started", len(tp.workers)),
				zap.Error(err),
			)
			_ = tp.queue.Close()
			_ = g.Wait()
			_ = tp.queue.Destroy()
			return nil, fmt.Errorf("%w: worker %d: %w", ErrThreadError, id, err)
		}
		tp.workers = append(tp.workers, w)
	}

	tp.state.Store(int32(stateRunning))
	logger.Info("thread pool started",
		zap.Int("size", cfg.size),
		zap.Duration("timeout", cfg.timeout),
		zap.Bool("affinity", cfg.affinity),
		zap.Bool("rate_limited", cfg.limiter != nil),
	)
	return tp, nil
}

// Submit queues fn(args) at PriorityNormal and returns the future that will
// hold its result.
func Submit[A, R any](tp *ThreadPool, fn TaskFunc[A, R], args A) (*Future[R], error) {
	return SubmitPriorized(tp, fn, args, PriorityNormal)
}

// SubmitPriorized queues fn(args) at the given priority. Arguments are
// moved into the task; the returned future is shared between the caller and
// the worker that runs it. A queue that refuses the task, for instance
// because the pool is closed, yields an error wrapping both
// ErrQueueFailure and the queue's own error.
func SubmitPriorized[A, R any](tp *ThreadPool, fn TaskFunc[A, R], args A, priority Priority) (*Future[R], error) {
	if tp == nil || fn == nil {
		return nil, ErrInvalidArgs
	}
	if !priority.valid() {
		return nil, fmt.Errorf("%w: unknown priority %d", ErrInvalidArgs, int(priority))
	}

	if poolState(tp.state.Load()) >= stateClosing {
		return nil, fmt.Errorf("%w: %w", ErrQueueFailure, ErrClosed)
	}

	f := NewFuture[R]()
	t := newTask(tp.nextID.Add(1), priority, fn, args, f)
	if err := tp.queue.Enqueue(t); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueueFailure, err)
	}

	tp.submitted.Add(1)
	return f, nil
}

// Close stops accepting tasks, lets the workers drain the queue and waits
// for all of them to exit. Calling it again returns the first result.
func (tp *ThreadPool) Close() error {
	tp.closeOnce.Do(func() {
		tp.state.Store(int32(stateClosing))
		tp.logger.Debug("closing thread pool", zap.Int("pending", tp.queue.Len()))

		if err := tp.queue.Close(); err != nil {
			tp.closeErr = fmt.Errorf("close task queue: %w", err)
			return
		}
		if err := tp.group.Wait(); err != nil {
			tp.closeErr = fmt.Errorf("join workers: %w", err)
			return
		}

		tp.logger.Info("thread pool closed",
			zap.Uint64("submitted", tp.submitted.Load()),
			zap.Uint64("executed", tp.executed.Load()),
			zap.Uint64("cancelled", tp.cancelled.Load()),
		)
	})
	return tp.closeErr
}

// Destroy closes the pool, then releases the queue and drops the worker
// handles. Futures already handed out stay valid. Stats reports no
// per-worker counts afterwards.
func (tp *ThreadPool) Destroy() error {
	tp.destroyOnce.Do(func() {
		if err := tp.Close(); err != nil {
			tp.destroyErr = err
			return
		}
		if err := tp.queue.Destroy(); err != nil {
			tp.destroyErr = fmt.Errorf("destroy task queue: %w", err)
			return
		}
		tp.mu.Lock()
		tp.workers = nil
		tp.mu.Unlock()
		tp.state.Store(int32(stateDestroyed))
		tp.logger.Debug("thread pool destroyed")
	})
	return tp.destroyErr
}

func (tp *ThreadPool) Name() string { return tp.name }

// Size returns the number of workers the pool was started with.
func (tp *ThreadPool) Size() int { return tp.size }

// Timeout returns the per-operation queue timeout, zero meaning infinite.
func (tp *ThreadPool) Timeout() time.Duration { return tp.timeout }

// Stats is a point-in-time snapshot of the pool's counters. Executed counts
// every task whose function ran, Panicked included; Cancelled counts tasks
// skipped because their future was cancelled before they started.
type Stats struct {
	Submitted uint64
	Executed  uint64
	Cancelled uint64
	Panicked  uint64
	Pending   int
	PerWorker []uint64
}

func (tp *ThreadPool) Stats() Stats {
	tp.mu.Lock()
	defer tp.mu.Unlock()

	s := Stats{
		Submitted: tp.submitted.Load(),
		Executed:  tp.executed.Load(),
		Cancelled: tp.cancelled.Load(),
		Panicked:  tp.panicked.Load(),
		Pending:   tp.queue.Len(),
		PerWorker: make([]uint64, len(tp.workers)),
	}
	for i, w := range tp.workers {
		s.PerWorker[i] = w.executed.Load()
	}
	return s
}
