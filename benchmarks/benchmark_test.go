package benchmarks

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/utkarsh5026/threadkit/collections/synchronized"
	"github.com/utkarsh5026/threadkit/pool"
)

// =============================================================================
// Benchmark Workload Generators
// =============================================================================

// cpuBoundWork simulates a CPU-intensive operation
func cpuBoundWork(iterations int) pool.TaskFunc[int, int] {
	return func(_ *pool.CancelToken, task int) (int, int) {
		result := 0
		for i := range iterations {
			result += i * task
		}
		return result, 0
	}
}

// ioBoundWork simulates an I/O operation that honours cancellation
func ioBoundWork(delay time.Duration) pool.TaskFunc[int, int] {
	return func(token *pool.CancelToken, task int) (int, int) {
		select {
		case <-time.After(delay):
			return task * 2, 0
		case <-token.Done():
			return 0, 1
		}
	}
}

func runTasks(b *testing.B, tp *pool.ThreadPool, fn pool.TaskFunc[int, int], tasks int) {
	b.Helper()
	futures := make([]*pool.Future[int], tasks)
	for i := range tasks {
		f, err := pool.Submit(tp, fn, i)
		if err != nil {
			b.Fatalf("submit: %v", err)
		}
		futures[i] = f
	}
	for _, f := range futures {
		if _, _, err := f.Get(); err != nil {
			b.Fatalf("wait: %v", err)
		}
	}
}

// =============================================================================
// Thread Pool Throughput
// =============================================================================

func BenchmarkThreadPool_WorkerScaling(b *testing.B) {
	const taskCount = 1000

	for _, workers := range []int{1, 2, 4, 8, 16} {
		b.Run(fmt.Sprintf("Workers_%d", workers), func(b *testing.B) {
			tp, err := pool.New(pool.WithSize(workers))
			if err != nil {
				b.Fatal(err)
			}
			defer tp.Destroy()

			b.ReportAllocs()
			for b.Loop() {
				runTasks(b, tp, cpuBoundWork(1000), taskCount)
			}
		})
	}
}

func BenchmarkThreadPool_IOBound(b *testing.B) {
	for _, workers := range []int{4, 16, 64} {
		b.Run(fmt.Sprintf("Workers_%d", workers), func(b *testing.B) {
			tp, err := pool.New(pool.WithSize(workers))
			if err != nil {
				b.Fatal(err)
			}
			defer tp.Destroy()

			for b.Loop() {
				runTasks(b, tp, ioBoundWork(time.Millisecond), 128)
			}
		})
	}
}

func BenchmarkThreadPool_MixedPriorities(b *testing.B) {
	tp, err := pool.New(pool.WithSize(4))
	if err != nil {
		b.Fatal(err)
	}
	defer tp.Destroy()

	priorities := []pool.Priority{
		pool.PriorityVeryLow, pool.PriorityLow, pool.PriorityNormal, pool.PriorityHigh, pool.PriorityVeryHigh,
	}
	work := cpuBoundWork(100)

	b.ReportAllocs()
	for b.Loop() {
		futures := make([]*pool.Future[int], 0, 500)
		for i := range 500 {
			f, err := pool.SubmitPriorized(tp, work, i, priorities[i%len(priorities)])
			if err != nil {
				b.Fatal(err)
			}
			futures = append(futures, f)
		}
		for _, f := range futures {
			_, _, _ = f.Get()
		}
	}
}

// =============================================================================
// Blocking Queue vs Channel Baseline
// =============================================================================

func BenchmarkBlockingQueue_ProducerConsumer(b *testing.B) {
	for _, consumers := range []int{1, 4, 16} {
		b.Run(fmt.Sprintf("Consumers_%d", consumers), func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				q := synchronized.New(synchronized.Options[int]{MaximumLength: 256})

				var wg sync.WaitGroup
				for range consumers {
					wg.Go(func() {
						for {
							if _, err := q.Dequeue(); err != nil {
								return
							}
						}
					})
				}
				for i := range 10000 {
					_ = q.Enqueue(i)
				}
				_ = q.Close()
				wg.Wait()
			}
		})
	}
}

func BenchmarkChannel_ProducerConsumer(b *testing.B) {
	for _, consumers := range []int{1, 4, 16} {
		b.Run(fmt.Sprintf("Consumers_%d", consumers), func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				ch := make(chan int, 256)

				var wg sync.WaitGroup
				for range consumers {
					wg.Go(func() {
						for range ch {
						}
					})
				}
				for i := range 10000 {
					ch <- i
				}
				close(ch)
				wg.Wait()
			}
		})
	}
}
