// Package synchronized provides BlockingQueue, a thread-safe queue that
// can be bounded, ordered by priority and closed.
//
// Producers block while a bounded queue is full and consumers block while it
// is empty. Every blocking call is bounded by the queue's timeout, converted
// to an absolute deadline once when the call starts.
//
// Basic usage:
//
//	q := synchronized.New(synchronized.Options[int]{MaximumLength: 16})
//	defer q.Destroy()
//
//	go func() {
//	    for i := range 100 {
//	        _ = q.Enqueue(i)
//	    }
//	    _ = q.Close()
//	}()
//
//	for {
//	    v, err := q.Dequeue()
//	    if errors.Is(err, synchronized.ErrClosed) {
//	        break
//	    }
//	    process(v)
//	}
package synchronized
