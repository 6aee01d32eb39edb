package tasksched

import "errors"

var (
	// ErrClosed is returned by Submit and Start once Shutdown has been called.
	ErrClosed = errors.New("tasksched: scheduler closed")

	// ErrNotStarted is returned by Submit before Start.
	ErrNotStarted = errors.New("tasksched: scheduler not started")

	ErrAlreadyStarted = errors.New("tasksched: scheduler already started")

	// ErrNotStopped is returned by Summary while workers may still run.
	ErrNotStopped = errors.New("tasksched: scheduler not stopped")

	// ErrNilFunc is returned when a submitted Task has a nil Fn.
	ErrNilFunc = errors.New("tasksched: task func is nil")

	ErrInvalidWorkers = errors.New("tasksched: worker count must not be negative")

	// ErrTaskPanic wraps the value recovered from a panicking task.
	ErrTaskPanic = errors.New("tasksched: task panicked")

	ErrPinUnsupported = errors.New("tasksched: cpu pinning not supported on this platform")
)
