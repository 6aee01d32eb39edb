package tasksched

import (
	"fmt"
	"time"

	boff "github.com/Andrej220/go-utils/backoff"
	lg "github.com/Andrej220/go-utils/zlog"
)

// runTask executes t on the calling worker and returns the error of its
// last attempt. Panics are recovered and returned as ErrTaskPanic.
func (s *scheduler) runTask(t Task, workerID int) error {
	pol := t.Retry.merge(s.opts.DefaultRetry)

	if pol.Attempts <= 1 {
		return attemptTask(t.Fn)
	}

	bo := boff.New(pol.Initial, pol.Max, time.Now().UnixNano())
	for attempt := 1; ; attempt++ {
		err := attemptTask(t.Fn)
		if err == nil {
			return nil
		}
		if attempt >= pol.Attempts {
			return err
		}

		delay := bo.Next()
		lg.FromContext(s.opts.Ctx).Warn("task attempt failed; backing off",
			lg.String("run", s.runID),
			lg.Int("worker", workerID),
			lg.Int("priority", t.Priority),
			lg.Int("attempt", attempt),
			lg.String("sleep", delay.String()),
			lg.Any("error", err),
		)
		time.Sleep(delay)
	}
}

// attemptTask runs fn once, converting a panic into an error.
func attemptTask(fn TaskFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrTaskPanic, r)
		}
	}()
	return fn()
}
