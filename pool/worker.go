package pool

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/utkarsh5026/threadkit/internal/algorithms"
	"github.com/utkarsh5026/threadkit/internal/cpu"
	"go.uber.org/zap"
)

type worker struct {
	id       int
	pool     *ThreadPool
	backoff  algorithms.Backoff
	logger   *zap.Logger
	executed atomic.Uint64
}

func newWorker(id int, tp *ThreadPool, cfg *config) *worker {
	return &worker{
		id:      id,
		pool:    tp,
		backoff: algorithms.NewBackoff(cfg.backoffType, cfg.backoffInitial, cfg.backoffMax, cfg.backoffJitter),
		logger:  tp.logger.Named("worker").With(zap.Int("worker", id)),
	}
}

// run is the body of a worker goroutine. It reports on ready whether the
// worker came up, then serves tasks until the queue is closed and drained.
func (w *worker) run(ctx context.Context, cfg *config, ready chan<- error) error {
	if cfg.affinity {
		core, release, err := cpu.SetupWorkerAffinity(w.id)
		if err != nil {
			ready <- err
			return nil
		}
		defer release()
		w.logger.Debug("worker pinned", zap.Int("cpu", core))
	}

	if cfg.startHook != nil {
		if err := cfg.startHook(w.id); err != nil {
			ready <- err
			return nil
		}
	}

	ready <- nil
	w.loop(ctx)
	return nil
}

func (w *worker) loop(ctx context.Context) {
	queue := w.pool.queue
	failures := 0

	for {
		t, err := queue.Dequeue()
		switch {
		case err == nil:
		case errors.Is(err, ErrClosed):
			w.logger.Debug("task queue closed, worker exiting")
			return
		case errors.Is(err, ErrTimeout):
			w.logger.Debug("dequeue timed out, polling again")
			continue
		default:
			delay := w.backoff.Next(failures)
			failures++
			w.logger.Warn("dequeue failed, backing off",
				zap.Error(err),
				zap.Int("failures", failures),
				zap.Duration("delay", delay),
			)
			if !sleep(ctx, delay) {
				return
			}
			continue
		}

		if failures > 0 {
			failures = 0
			w.backoff.Reset()
		}

		if limiter := w.pool.limiter; limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				w.logger.Warn("rate limiter wait failed", zap.Error(err))
			}
		}

		w.execute(t)
	}
}

func (w *worker) execute(t *task) {
	result, err := t.run()

	switch result {
	case outcomeCancelled:
		w.pool.cancelled.Add(1)
		w.logger.Debug("skipping cancelled task", zap.Uint64("task", t.id))
		return
	case outcomePanicked:
		w.pool.panicked.Add(1)
		w.logger.Error("task panicked",
			zap.Uint64("task", t.id),
			zap.Stringer("priority", t.priority),
			zap.Error(err),
		)
	}

	w.executed.Add(1)
	w.pool.executed.Add(1)
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
