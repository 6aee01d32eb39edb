// Package tasksched provides a fixed-size worker pool that runs submitted
// tasks in priority order and reports their latency once it has stopped.
//
// Architecture overview
//
// The scheduler is composed of three layers sharing one critical section:
//
//  1. Queue
//     A binary max-heap of tasks. Higher priorities are served first;
//     tasks of equal priority are served in submission order.
//
//  2. Workers
//     A fixed number of goroutines started by Start. Each one waits on a
//     condition variable until the queue is non-empty or shutdown was
//     requested, takes one task and runs it outside the lock.
//
//  3. Lifecycle
//     Created, Running, Draining, Stopped. Stages only move forward.
//
// Wake-ups
//
// Submit wakes exactly one idle worker. Shutdown wakes all of them. A
// worker re-checks its wait condition after every wake-up.
//
// Shutdown
//
// Shutdown is graceful: tasks already queued when it is called still run.
// New submissions fail with ErrClosed. Shutdown is idempotent and may be
// called from several goroutines; each call waits for the same drain.
// A scheduler with zero workers accepts tasks but never runs them; its
// Shutdown returns immediately and reports them as dropped.
//
// A task that wants the scheduler to stop calls RequestStop, which does
// not wait; Shutdown, Stop and Close called from a task would wait for
// the calling worker itself.
//
// Use Run, or defer Stop or Close right after Start. A Scheduler that is
// dropped while running is stopped by a finalizer, at a time chosen by
// the garbage collector.
//
// Latency
//
// A task's latency is measured from Submit to the end of its execution,
// so it includes the time spent waiting in the queue. Summary reports
// the mean, maximum and minimum of these samples together with the wall
// time between Start and the exit of the last worker.
//
// Error handling
//
// A task that returns an error or panics fails alone. The failure is
// logged, passed to Options.OnTaskError and counted, and the worker
// moves on to the next task. Failed tasks still count as executed.
// Tasks are attempted once unless submitted with a RetryPolicy.
package tasksched
