package tasksched

import (
	"sync/atomic"
	"time"
)

// MetricsPolicy defines hooks used by the scheduler to report queueing
// and execution activity while it runs.
//
// Implementations must be safe for concurrent use.
// All methods are expected to be lightweight and non-blocking.
type MetricsPolicy interface {
	// IncSubmitted is called once per accepted submission.
	IncSubmitted()

	// IncExecuted is called once per finished task, failed or not.
	IncExecuted()

	// IncFailed is called when a task's last attempt failed or panicked.
	IncFailed()

	// ObserveLatency receives the enqueue-to-completion duration of a task.
	ObserveLatency(d time.Duration)

	// SetQueued reports the queue length after a push or pop.
	SetQueued(n int)
}

// AtomicMetrics is a lock-free MetricsPolicy backed by atomics.
//
// Writes are optimized for hot paths.
// Reads are intended for cold-path observation.
type AtomicMetrics struct {
	submitted atomic.Uint64
	executed  atomic.Uint64
	failed    atomic.Uint64

	_ [40]byte // padding to avoid false sharing

	queued atomic.Int64
}

func (m *AtomicMetrics) Submitted() uint64 { return m.submitted.Load() }
func (m *AtomicMetrics) Executed() uint64  { return m.executed.Load() }
func (m *AtomicMetrics) Failed() uint64    { return m.failed.Load() }
func (m *AtomicMetrics) Queued() int64     { return m.queued.Load() }

func (m *AtomicMetrics) IncSubmitted()                  { m.submitted.Add(1) }
func (m *AtomicMetrics) IncExecuted()                   { m.executed.Add(1) }
func (m *AtomicMetrics) IncFailed()                     { m.failed.Add(1) }
func (m *AtomicMetrics) ObserveLatency(_ time.Duration) {}
func (m *AtomicMetrics) SetQueued(n int)                { m.queued.Store(int64(n)) }

//------------- NoopMetrics ----------------------------------

// NoopMetrics is a MetricsPolicy implementation that discards
// all metric updates.
type NoopMetrics struct{}

func (m *NoopMetrics) IncSubmitted()                  {}
func (m *NoopMetrics) IncExecuted()                   {}
func (m *NoopMetrics) IncFailed()                     {}
func (m *NoopMetrics) ObserveLatency(_ time.Duration) {}
func (m *NoopMetrics) SetQueued(_ int)                {}
