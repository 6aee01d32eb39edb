package tasksched

import (
	"fmt"
	"runtime"
	"time"

	lg "github.com/Andrej220/go-utils/zlog"
)

// worker is the loop run by each of the scheduler's goroutines.
//
// It sleeps until the queue is non-empty or shutdown was requested, runs
// the highest-priority task outside the lock and records its latency.
// It exits only when shutdown was requested and the queue is empty.
func (s *scheduler) worker(id int) {
	defer s.wg.Done()

	if s.opts.PinWorkers {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		cpu := id % runtime.NumCPU()
		if err := PinToCPU(cpu); err != nil {
			s.reportInternalError(fmt.Errorf("tasksched: pin worker %d to cpu %d: %w", id, cpu, err))
		}
	}

	for {
		t, ok := s.next()
		if !ok {
			return
		}
		s.execute(t, id)
	}
}

// next blocks until a task is available and dequeues it. It returns
// false once shutdown was requested and nothing is left to drain.
func (s *scheduler) next() (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// the predicate is re-checked after every wake: wakeups may be
	// spurious and another worker may have taken the last task
	for !s.stopping && s.queue.Len() == 0 {
		s.cond.Wait()
	}
	t, ok := s.queue.Pop()
	if ok {
		s.opts.Metrics.SetQueued(s.queue.Len())
	}
	return t, ok
}

func (s *scheduler) execute(t Task, id int) {
	err := s.runTask(t, id)
	latency := time.Since(t.EnqueuedAt)

	s.mu.Lock()
	s.latencies = append(s.latencies, latency)
	s.mu.Unlock()
	s.executed.Add(1)

	s.opts.Metrics.ObserveLatency(latency)
	s.opts.Metrics.IncExecuted()

	if err != nil {
		s.failed.Add(1)
		s.opts.Metrics.IncFailed()
		lg.FromContext(s.opts.Ctx).Error("task failed",
			lg.String("run", s.runID),
			lg.Int("worker", id),
			lg.Int("priority", t.Priority),
			lg.Any("error", err),
		)
		s.reportTaskError(err)
	}
}
