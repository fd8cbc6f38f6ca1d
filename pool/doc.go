// Package pool provides a fixed-size thread pool whose workers pull tasks
// from a priority queue and publish their results into futures.
//
// # Basic Usage
//
//	tp, err := pool.New(pool.WithSize(4))
//	if err != nil {
//	    return err
//	}
//	defer tp.Destroy()
//
//	sum := func(_ *pool.CancelToken, xs []int) (int, int) {
//	    total := 0
//	    for _, x := range xs {
//	        total += x
//	    }
//	    return total, 0
//	}
//
//	f, err := pool.Submit(tp, sum, []int{1, 2, 3})
//	if err != nil {
//	    return err
//	}
//	total, status, err := f.Wait(time.Second)
//
// # Priorities
//
// SubmitPriorized places a task ahead of every queued task of lower
// priority. Tasks of equal priority keep their submission order:
//
//	pool.SubmitPriorized(tp, fn, args, pool.PriorityHigh)
//
// # Cancellation
//
// Future.Cancel marks the future cancelled and sets its CancelToken. A task
// that has not started yet is skipped without calling its function. A task
// already running sees the token and may stop early; its result is
// discarded either way.
//
// # Rate Limiting
//
// Control how fast the pool starts tasks:
//
//	tp, err := pool.New(
//	    pool.WithSize(10),
//	    pool.WithRateLimit(5.0, 10), // 5 tasks/sec, burst of 10
//	)
//
// # Shutdown
//
// Close stops accepting tasks, lets the workers finish everything already
// queued and waits for them. Destroy does the same and then releases the
// queue.
package pool
