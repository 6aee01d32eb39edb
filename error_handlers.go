package tasksched

import lg "github.com/Andrej220/go-utils/zlog"

// reportInternalError logs a scheduler error that is not caused by a
// task, such as a failure to pin a worker, then passes it to
// OnInternalError if one is registered.
func (s *scheduler) reportInternalError(e error) {
	lg.FromContext(s.opts.Ctx).Warn("internal error",
		lg.String("run", s.runID),
		lg.Any("error", e),
	)
	if s.opts.OnInternalError != nil {
		s.opts.OnInternalError(e)
	}
}

// reportTaskError reports an error returned by a task or produced by
// panic recovery. It runs on the worker goroutine; the worker carries on
// with the next task afterwards.
func (s *scheduler) reportTaskError(err error) {
	if s.opts.OnTaskError != nil {
		s.opts.OnTaskError(err)
	}
}
