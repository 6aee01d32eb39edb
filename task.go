package tasksched

import (
	"time"
)

// TaskFunc is the unit of work executed by a worker.
//
// Inputs must be captured by value: the function runs on another
// goroutine, possibly long after Submit returned.
type TaskFunc func() error

// Task represents a single unit of work submitted to the scheduler.
//
// Callers fill Fn, Priority and optionally Retry. EnqueuedAt and the
// submission sequence are stamped by the scheduler and never change
// afterwards.
type Task struct {
	Fn TaskFunc

	// Priority orders tasks in the queue. Higher values run first.
	Priority int

	// Retry enables re-attempts of a failing task. Nil means a single
	// attempt.
	Retry *RetryPolicy

	// EnqueuedAt records when the task entered the queue. Latency is
	// measured from this point to the end of execution.
	EnqueuedAt time.Time

	seq uint64
}

// Seq returns the submission sequence number used to break priority ties.
func (t Task) Seq() uint64 { return t.seq }

// before reports whether t must be dequeued ahead of o.
func (t Task) before(o Task) bool {
	if t.Priority != o.Priority {
		return t.Priority > o.Priority
	}
	return t.seq < o.seq
}
