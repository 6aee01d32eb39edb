package tasksched

import (
	"context"
)

// Options configure a Scheduler.
//
// Zero values other than Workers are replaced with defaults in
// FillDefaults. Workers is taken as given: zero is a valid, if
// degenerate, pool in which submitted tasks never run.
type Options struct {
	Workers int

	// QueueHint preallocates room for this many queued tasks.
	QueueHint int

	// Ctx carries the logger used by the scheduler. It never cancels
	// queued or running tasks.
	Ctx context.Context

	// Metrics receives live counter updates. Defaults to NoopMetrics.
	Metrics MetricsPolicy

	// DefaultRetry fills the zero fields of a task's RetryPolicy.
	DefaultRetry RetryPolicy

	// PinWorkers locks each worker to an OS thread bound to one CPU.
	PinWorkers bool

	// OnTaskError is called from the worker goroutine when a task's last
	// attempt fails or panics.
	OnTaskError func(error)

	// OnInternalError is called for failures that are not caused by a task.
	OnInternalError func(error)
}

func (o *Options) FillDefaults() {
	if o.QueueHint <= 0 {
		o.QueueHint = prioCap
	}
	if o.Ctx == nil {
		o.Ctx = context.Background()
	}
	if o.Metrics == nil {
		o.Metrics = &NoopMetrics{}
	}
	if o.DefaultRetry.Attempts <= 0 {
		o.DefaultRetry.Attempts = defaultAttempts
	}
	if o.DefaultRetry.Initial <= 0 {
		o.DefaultRetry.Initial = defaultInitialRetry
	}
	if o.DefaultRetry.Max <= 0 {
		o.DefaultRetry.Max = defaultMaxRetry
	}
}

func (o Options) validate() error {
	if o.Workers < 0 {
		return ErrInvalidWorkers
	}
	return nil
}
