package tasksched

import (
	"time"
)

const (
	defaultAttempts     = 1
	defaultInitialRetry = 200 * time.Millisecond
	defaultMaxRetry     = 5 * time.Second
)

// RetryPolicy describes how many times and how often a failing task is
// attempted. Zero values are treated as "use scheduler defaults".
//
// Tasks submitted without a policy run once.
type RetryPolicy struct {
	// Attempts is the maximum number of tries for a task.
	Attempts int

	// Initial is the first backoff duration.
	Initial time.Duration

	// Max is the cap for backoff duration.
	Max time.Duration
}

// merge overrides the non-zero fields of def with those of rp.
func (rp *RetryPolicy) merge(def RetryPolicy) RetryPolicy {
	pol := def
	if rp == nil {
		pol.Attempts = 1
		return pol
	}
	if rp.Attempts > 0 {
		pol.Attempts = rp.Attempts
	}
	if rp.Initial > 0 {
		pol.Initial = rp.Initial
	}
	if rp.Max > 0 {
		pol.Max = rp.Max
	}
	return pol
}
