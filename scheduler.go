package tasksched

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	lg "github.com/Andrej220/go-utils/zlog"
	"github.com/google/uuid"
)

// State is a lifecycle stage of a Scheduler. Stages only move forward.
type State int32

const (
	Created State = iota
	Running
	Draining
	Stopped
)

func (st State) String() string {
	switch st {
	case Created:
		return "Created"
	case Running:
		return "Running"
	case Draining:
		return "Draining"
	case Stopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// Scheduler runs submitted tasks on a fixed set of workers, highest
// priority first.
//
// A Scheduler is a handle around the state its workers share. Workers
// never reference the handle, so a Scheduler dropped without Shutdown
// becomes unreachable while they run; its finalizer then requests
// shutdown and the workers drain the queue and exit. Relying on this is
// a last resort: the collector decides when it happens.
type Scheduler struct {
	*scheduler
}

// scheduler is the state shared by a Scheduler and its workers.
//
// One mutex guards the queue, the stop flag, the latency samples and the
// lifecycle state. Workers wait on a condition variable bound to it and
// release it before running a task.
type scheduler struct {
	opts  Options
	runID string

	mu        sync.Mutex
	cond      *sync.Cond
	state     State
	stopping  bool
	queue     *prioQueue
	latencies []time.Duration
	nextSeq   uint64
	dropped   int

	executed atomic.Uint64
	failed   atomic.Uint64

	wg       sync.WaitGroup
	stopOnce sync.Once
	done     chan struct{}

	startedAt time.Time
	stoppedAt time.Time
}

// New creates a scheduler in the Created state. No worker runs until
// Start is called.
//
// Callers own the scheduler's lifetime: defer Stop or Close right after
// Start, or use Run.
func New(opts Options) (*Scheduler, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	opts.FillDefaults()

	core := &scheduler{
		opts:      opts,
		runID:     uuid.NewString(),
		queue:     newPrioQueue(opts.QueueHint),
		latencies: make([]time.Duration, 0, opts.QueueHint),
		done:      make(chan struct{}),
	}
	core.cond = sync.NewCond(&core.mu)

	h := &Scheduler{scheduler: core}
	runtime.SetFinalizer(h, func(h *Scheduler) {
		// must not block the finalizer goroutine
		h.RequestStop()
	})
	return h, nil
}

// Start spawns the configured number of workers and records the start
// time.
func (s *scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case Running:
		return ErrAlreadyStarted
	case Draining, Stopped:
		return ErrClosed
	}

	s.state = Running
	s.startedAt = time.Now()
	for i := 0; i < s.opts.Workers; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	lg.FromContext(s.opts.Ctx).Info("scheduler started",
		lg.String("run", s.runID),
		lg.Int("workers", s.opts.Workers),
	)
	return nil
}

// Submit queues fn with the given priority and wakes one idle worker.
// It never waits for fn to run.
func (s *scheduler) Submit(fn TaskFunc, priority int) error {
	return s.SubmitTask(Task{Fn: fn, Priority: priority})
}

// SubmitTask queues t. EnqueuedAt is overwritten with the current time.
func (s *scheduler) SubmitTask(t Task) error {
	if t.Fn == nil {
		return ErrNilFunc
	}

	s.mu.Lock()
	switch s.state {
	case Created:
		s.mu.Unlock()
		return ErrNotStarted
	case Draining, Stopped:
		s.mu.Unlock()
		return ErrClosed
	}
	t.seq = s.nextSeq
	s.nextSeq++
	t.EnqueuedAt = time.Now()
	s.queue.Push(t)
	// published under the lock so a worker's pop cannot be overwritten
	// by a stale length
	s.opts.Metrics.SetQueued(s.queue.Len())
	s.mu.Unlock()

	s.cond.Signal()

	s.opts.Metrics.IncSubmitted()
	return nil
}

// Shutdown stops accepting tasks, lets the workers drain the queue and
// waits for all of them to exit.
//
// The first call starts the shutdown; every call, first or later, waits
// for it to complete. If ctx ends first, ctx.Err() is returned and the
// workers keep draining in the background.
//
// A task must not call Shutdown, Stop or Close without a deadline: the
// worker running it would wait for its own exit. Tasks use RequestStop.
func (s *scheduler) Shutdown(ctx context.Context) error {
	s.stopOnce.Do(s.beginShutdown)

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RequestStop starts the shutdown like Shutdown but returns at once.
// Wait on Done for the drain to finish. It is safe to call from a task.
func (s *scheduler) RequestStop() {
	s.stopOnce.Do(s.beginShutdown)
}

func (s *scheduler) beginShutdown() {
	s.mu.Lock()
	prev := s.state
	s.stopping = true
	s.state = Draining
	if prev == Created {
		s.startedAt = time.Now()
	}
	pending := s.queue.Len()
	s.mu.Unlock()

	s.cond.Broadcast()

	lg.FromContext(s.opts.Ctx).Info("scheduler draining",
		lg.String("run", s.runID),
		lg.Int("pending", pending),
	)

	go s.join()
}

// join waits for every worker, then seals the run.
func (s *scheduler) join() {
	s.wg.Wait()

	s.mu.Lock()
	// only reachable with no workers: a live worker never exits while
	// tasks remain
	s.dropped = s.queue.Reset()
	s.stoppedAt = time.Now()
	s.state = Stopped
	dropped := s.dropped
	s.mu.Unlock()

	s.opts.Metrics.SetQueued(0)
	if dropped > 0 {
		lg.FromContext(s.opts.Ctx).Warn("tasks dropped: no workers to run them",
			lg.String("run", s.runID),
			lg.Int("dropped", dropped),
		)
	}
	lg.FromContext(s.opts.Ctx).Info("scheduler stopped",
		lg.String("run", s.runID),
		lg.Any("executed", s.executed.Load()),
		lg.String("elapsed", s.stoppedAt.Sub(s.startedAt).String()),
	)
	close(s.done)
}

// Stop is a blocking Shutdown without a deadline.
func (s *scheduler) Stop() { _ = s.Shutdown(context.Background()) }

// Close implements io.Closer.
func (s *scheduler) Close() error {
	return s.Shutdown(context.Background())
}

// Done is closed once the scheduler reaches Stopped.
func (s *scheduler) Done() <-chan struct{} { return s.done }

// Summary returns latency statistics and counters of the finished run.
func (s *scheduler) Summary() (Summary, error) {
	select {
	case <-s.done:
	default:
		return Summary{}, ErrNotStopped
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sum := summarize(s.latencies)
	sum.Executed = s.executed.Load()
	sum.Failed = s.failed.Load()
	sum.Dropped = s.dropped
	sum.Elapsed = s.stoppedAt.Sub(s.startedAt)
	return sum, nil
}

// Run starts a scheduler, calls fn with it and shuts it down before
// returning, also when fn fails or panics.
func Run(opts Options, fn func(*Scheduler) error) (sum Summary, err error) {
	s, err := New(opts)
	if err != nil {
		return Summary{}, err
	}
	if err := s.Start(); err != nil {
		return Summary{}, err
	}

	func() {
		defer s.Stop()
		err = fn(s)
	}()
	if err != nil {
		return Summary{}, fmt.Errorf("tasksched: run: %w", err)
	}
	return s.Summary()
}

func (s *scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Pending returns the number of queued tasks not yet picked by a worker.
func (s *scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Len()
}

// Executed returns the number of tasks that finished so far.
func (s *scheduler) Executed() uint64 { return s.executed.Load() }

func (s *scheduler) Workers() int { return s.opts.Workers }

// RunID identifies this scheduler in log records.
func (s *scheduler) RunID() string { return s.runID }
