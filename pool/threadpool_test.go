package pool

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func sumTask(_ *CancelToken, xs []int) (int, int) {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total, 0
}

func newTestPool(t *testing.T, opts ...Option) *ThreadPool {
	t.Helper()
	tp, err := New(opts...)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	t.Cleanup(func() { _ = tp.Destroy() })
	return tp
}

// blockWorker occupies a worker of tp until the returned release function
// is called.
func blockWorker(t *testing.T, tp *ThreadPool) (release func()) {
	t.Helper()
	started := make(chan struct{})
	gate := make(chan struct{})

	_, err := SubmitPriorized(tp, func(_ *CancelToken, _ struct{}) (struct{}, int) {
		close(started)
		<-gate
		return struct{}{}, 0
	}, struct{}{}, PriorityVeryHigh)
	if err != nil {
		t.Fatalf("submit blocker: %v", err)
	}

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("blocker did not start")
	}
	return func() { close(gate) }
}

func TestThreadPool_New(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		tp := newTestPool(t)
		if tp.Size() != runtime.GOMAXPROCS(0) {
			t.Errorf("expected %d workers, got %d", runtime.GOMAXPROCS(0), tp.Size())
		}
		if tp.Name() != defaultName {
			t.Errorf("expected name %q, got %q", defaultName, tp.Name())
		}
		if tp.Timeout() != 0 {
			t.Errorf("expected infinite timeout, got %v", tp.Timeout())
		}
	})

	t.Run("invalid size", func(t *testing.T) {
		for _, size := range []int{0, -1} {
			tp, err := New(WithSize(size))
			if !errors.Is(err, ErrInvalidArgs) {
				t.Errorf("size %d: expected ErrInvalidArgs, got %v", size, err)
			}
			if tp != nil {
				t.Errorf("size %d: expected nil pool", size)
			}
		}
	})

	t.Run("failed worker start rolls back", func(t *testing.T) {
		errBoom := errors.New("boom")
		var started atomic.Int32

		tp, err := New(WithSize(4), withStartHook(func(id int) error {
			if id == 2 {
				return errBoom
			}
			started.Add(1)
			return nil
		}))

		if !errors.Is(err, ErrThreadError) {
			t.Fatalf("expected ErrThreadError, got %v", err)
		}
		if !errors.Is(err, errBoom) {
			t.Errorf("expected cause to be wrapped, got %v", err)
		}
		if tp != nil {
			t.Error("expected nil pool")
		}
		if started.Load() != 2 {
			t.Errorf("expected 2 workers started before the failure, got %d", started.Load())
		}
	})

	t.Run("worker affinity", func(t *testing.T) {
		tp, err := New(WithSize(2), WithWorkerAffinity())
		if err != nil {
			t.Skipf("affinity unavailable: %v", err)
		}
		defer tp.Destroy()

		f, err := Submit(tp, sumTask, []int{1, 2, 3})
		if err != nil {
			t.Fatal(err)
		}
		if v, _, err := f.Wait(5 * time.Second); err != nil || v != 6 {
			t.Errorf("expected 6, got %d (%v)", v, err)
		}
	})
}

func TestThreadPool_Sum(t *testing.T) {
	tp := newTestPool(t, WithName("sum"), WithSize(10))

	const tasks = 50
	futures := make([]*Future[int], tasks)
	for i := range tasks {
		args := []int{i, i + 1, i + 2, i + 3, i + 4}
		f, err := Submit(tp, sumTask, args)
		if err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
		futures[i] = f
	}

	for i, f := range futures {
		v, status, err := f.Wait(30 * time.Second)
		if err != nil {
			t.Fatalf("task %d: %v", i, err)
		}
		if want := 5*i + 10; v != want || status != 0 {
			t.Errorf("task %d: expected (%d, 0), got (%d, %d)", i, want, v, status)
		}
	}

	if err := tp.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	stats := tp.Stats()
	if stats.Submitted != tasks || stats.Executed != tasks {
		t.Errorf("expected %d submitted and executed, got %+v", tasks, stats)
	}
	var perWorker uint64
	for _, n := range stats.PerWorker {
		perWorker += n
	}
	if perWorker != tasks {
		t.Errorf("per-worker counts sum to %d, want %d", perWorker, tasks)
	}
}

func TestThreadPool_Priority(t *testing.T) {
	tp := newTestPool(t, WithSize(1))
	release := blockWorker(t, tp)

	var (
		mu    sync.Mutex
		order []string
	)
	record := func(_ *CancelToken, name string) (string, int) {
		mu.Lock()
		order = append(order, name)
		mu.Unlock()
		return name, 0
	}

	submissions := []struct {
		name     string
		priority Priority
	}{
		{"low", PriorityLow},
		{"high-1", PriorityHigh},
		{"normal", PriorityNormal},
		{"very-low", PriorityVeryLow},
		{"high-2", PriorityHigh},
		{"very-high", PriorityVeryHigh},
	}
	for _, s := range submissions {
		if _, err := SubmitPriorized(tp, record, s.name, s.priority); err != nil {
			t.Fatalf("submit %s: %v", s.name, err)
		}
	}

	release()
	if err := tp.Close(); err != nil {
		t.Fatal(err)
	}

	want := []string{"very-high", "high-1", "high-2", "normal", "low", "very-low"}
	if fmt.Sprint(order) != fmt.Sprint(want) {
		t.Errorf("expected order %v, got %v", want, order)
	}
}

func TestThreadPool_Cancellation(t *testing.T) {
	t.Run("before start skips the task", func(t *testing.T) {
		tp := newTestPool(t, WithSize(1))
		release := blockWorker(t, tp)

		var called atomic.Bool
		f, err := Submit(tp, func(_ *CancelToken, _ int) (int, int) {
			called.Store(true)
			return 1, 0
		}, 0)
		if err != nil {
			t.Fatal(err)
		}

		if !f.Cancel() {
			t.Fatal("cancel of queued task must succeed")
		}
		release()
		if err := tp.Close(); err != nil {
			t.Fatal(err)
		}

		if called.Load() {
			t.Error("cancelled task must not run")
		}
		if _, _, err := f.Wait(time.Second); !errors.Is(err, ErrCancelled) {
			t.Errorf("expected ErrCancelled, got %v", err)
		}
		if c := tp.Stats().Cancelled; c != 1 {
			t.Errorf("expected 1 cancelled task, got %d", c)
		}
	})

	t.Run("running task observes token", func(t *testing.T) {
		tp := newTestPool(t, WithSize(1))

		running := make(chan struct{})
		observed := make(chan bool, 1)
		f, err := Submit(tp, func(token *CancelToken, _ int) (int, int) {
			close(running)
			select {
			case <-token.Done():
				observed <- token.IsCancelled()
			case <-time.After(5 * time.Second):
				observed <- false
			}
			return 99, 0
		}, 0)
		if err != nil {
			t.Fatal(err)
		}

		<-running
		if !f.Cancel() {
			t.Fatal("cancel of running task must succeed")
		}
		if _, _, err := f.Wait(time.Second); !errors.Is(err, ErrCancelled) {
			t.Errorf("expected ErrCancelled, got %v", err)
		}
		if !<-observed {
			t.Error("task must observe cancellation through its token")
		}

		_ = tp.Close()
		if _, _, err := f.Get(); !errors.Is(err, ErrCancelled) {
			t.Errorf("late result must be discarded, got %v", err)
		}
	})
}

func TestThreadPool_Panic(t *testing.T) {
	tp := newTestPool(t, WithSize(2))

	f, err := Submit(tp, func(_ *CancelToken, _ int) (int, int) {
		panic("task exploded")
	}, 0)
	if err != nil {
		t.Fatal(err)
	}

	v, status, err := f.Wait(5 * time.Second)
	if err != nil {
		t.Fatalf("expected no wait error, got %v", err)
	}
	if status != StatusPanicked || v != 0 {
		t.Errorf("expected (0, StatusPanicked), got (%d, %d)", v, status)
	}

	f2, err := Submit(tp, sumTask, []int{2, 3})
	if err != nil {
		t.Fatal(err)
	}
	if v, _, err := f2.Wait(5 * time.Second); err != nil || v != 5 {
		t.Errorf("pool must keep working after a panic, got %d (%v)", v, err)
	}

	_ = tp.Close()
	if p := tp.Stats().Panicked; p != 1 {
		t.Errorf("expected 1 panicked task, got %d", p)
	}
}

func TestThreadPool_Lifecycle(t *testing.T) {
	t.Run("close is idempotent", func(t *testing.T) {
		tp := newTestPool(t, WithSize(3))
		for range 3 {
			if err := tp.Close(); err != nil {
				t.Errorf("close: %v", err)
			}
		}
		if err := tp.Destroy(); err != nil {
			t.Errorf("destroy: %v", err)
		}
		if err := tp.Destroy(); err != nil {
			t.Errorf("second destroy: %v", err)
		}
		if n := len(tp.Stats().PerWorker); n != 0 {
			t.Errorf("destroyed pool must drop worker handles, got %d", n)
		}
	})

	t.Run("submit after close", func(t *testing.T) {
		tp := newTestPool(t, WithSize(1))
		_ = tp.Close()

		f, err := Submit(tp, sumTask, []int{1})
		if !errors.Is(err, ErrQueueFailure) || !errors.Is(err, ErrClosed) {
			t.Errorf("expected ErrQueueFailure wrapping ErrClosed, got %v", err)
		}
		if f != nil {
			t.Error("expected nil future")
		}
	})

	t.Run("close drains queued tasks", func(t *testing.T) {
		tp := newTestPool(t, WithSize(1))
		release := blockWorker(t, tp)

		futures := make([]*Future[int], 10)
		for i := range futures {
			f, err := Submit(tp, sumTask, []int{i})
			if err != nil {
				t.Fatal(err)
			}
			futures[i] = f
		}

		release()
		if err := tp.Close(); err != nil {
			t.Fatal(err)
		}
		for i, f := range futures {
			if !f.IsDone() {
				t.Errorf("task %d not run before close returned", i)
			}
		}
	})

	t.Run("invalid submissions", func(t *testing.T) {
		tp := newTestPool(t, WithSize(1))

		if _, err := Submit[int, int](nil, func(*CancelToken, int) (int, int) { return 0, 0 }, 0); !errors.Is(err, ErrInvalidArgs) {
			t.Errorf("nil pool: expected ErrInvalidArgs, got %v", err)
		}
		if _, err := Submit[int, int](tp, nil, 0); !errors.Is(err, ErrInvalidArgs) {
			t.Errorf("nil function: expected ErrInvalidArgs, got %v", err)
		}
		if _, err := SubmitPriorized(tp, sumTask, nil, Priority(42)); !errors.Is(err, ErrInvalidArgs) {
			t.Errorf("bad priority: expected ErrInvalidArgs, got %v", err)
		}
	})
}

func TestThreadPool_TimeoutPolling(t *testing.T) {
	tp := newTestPool(t, WithSize(2), WithTimeout(10*time.Millisecond))

	time.Sleep(50 * time.Millisecond)
	f, err := Submit(tp, sumTask, []int{4, 5})
	if err != nil {
		t.Fatal(err)
	}
	if v, _, err := f.Wait(5 * time.Second); err != nil || v != 9 {
		t.Errorf("idle workers must keep polling, got %d (%v)", v, err)
	}
}

func TestThreadPool_RateLimit(t *testing.T) {
	tp := newTestPool(t, WithSize(4), WithRateLimit(20, 1))

	const tasks = 5
	start := time.Now()
	futures := make([]*Future[int], tasks)
	for i := range tasks {
		f, err := Submit(tp, sumTask, []int{i})
		if err != nil {
			t.Fatal(err)
		}
		futures[i] = f
	}
	for _, f := range futures {
		if _, _, err := f.Wait(5 * time.Second); err != nil {
			t.Fatal(err)
		}
	}

	// Burst of one at 20/s: the last of five tasks starts about 200ms in.
	if elapsed := time.Since(start); elapsed < 150*time.Millisecond {
		t.Errorf("expected rate limiting to take at least 150ms, took %v", elapsed)
	}
}
