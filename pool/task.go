package pool

import (
	"cmp"
	"fmt"
	"runtime"
)

// TaskFunc is the work a pool runs. It receives the cancellation token of
// its future and its arguments, and returns a value and an integer status.
// Status 0 means success by convention; other values are passed through to
// Wait untouched.
type TaskFunc[A, R any] func(token *CancelToken, args A) (R, int)

// Priority orders queued tasks. Higher priorities run first; tasks of equal
// priority run in submission order.
type Priority int

const (
	PriorityVeryLow Priority = iota
	PriorityLow
	PriorityNormal
	PriorityHigh
	PriorityVeryHigh
)

func (p Priority) String() string {
	switch p {
	case PriorityVeryLow:
		return "very-low"
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	case PriorityVeryHigh:
		return "very-high"
	default:
		return fmt.Sprintf("Priority(%d)", int(p))
	}
}

func (p Priority) valid() bool {
	return p >= PriorityVeryLow && p <= PriorityVeryHigh
}

type outcome int

const (
	outcomeExecuted outcome = iota
	outcomeCancelled
	outcomePanicked
)

// task is the queued unit of work. The pool owns it and drops it once a
// worker has run it; only the future is shared with the submitter.
type task struct {
	id       uint64
	priority Priority
	run      func() (outcome, error)
}

func compareTasks(a, b *task) int {
	return cmp.Compare(a.priority, b.priority)
}

func newTask[A, R any](id uint64, priority Priority, fn TaskFunc[A, R], args A, f *Future[R]) *task {
	return &task{
		id:       id,
		priority: priority,
		run: func() (outcome, error) {
			if !f.begin() {
				return outcomeCancelled, nil
			}

			value, status, err := invokeWithRecovery(fn, f.token, args)
			f.Complete(value, status)
			if err != nil {
				return outcomePanicked, err
			}
			return outcomeExecuted, nil
		},
	}
}

// invokeWithRecovery runs fn and converts a panic into StatusPanicked plus
// an error carrying the stack trace, so one task cannot kill its worker.
func invokeWithRecovery[A, R any](fn TaskFunc[A, R], token *CancelToken, args A) (value R, status int, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)

			var zero R
			value, status = zero, StatusPanicked
			err = fmt.Errorf("task panic: %v\nstack trace:\n%s", r, buf[:n])
		}
	}()

	value, status = fn(token, args)
	return value, status, nil
}
