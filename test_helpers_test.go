package tasksched_test

import (
	"runtime"
	"sync"
	"testing"
	"time"

	ts "github.com/azargarov/tasksched"
)

var (
	emptyWork = func() error { return nil }

	cpuWork = func() error {
		x := 0
		for i := range 1000 {
			x += i * i
		}
		_ = x
		return nil
	}
)

func newTestScheduler(t *testing.T, opts ts.Options) *ts.Scheduler {
	t.Helper()

	s, err := ts.New(opts)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(s.Stop)
	return s
}

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		runtime.Gosched()
	}
	t.Fatal("condition not satisfied before timeout")
}

// recorder collects labels in execution order.
type recorder struct {
	mu  sync.Mutex
	got []string
}

func (r *recorder) task(label string) ts.TaskFunc {
	return func() error {
		r.mu.Lock()
		r.got = append(r.got, label)
		r.mu.Unlock()
		return nil
	}
}

func (r *recorder) order() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.got...)
}
