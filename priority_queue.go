package tasksched

import (
	"container/heap"
)

const (
	prioCap = 1024
)

// taskHeap is a max-heap by priority with FIFO order among equal
// priorities. It implements heap.Interface and must not be used directly.
type taskHeap []Task

func (h taskHeap) Len() int           { return len(h) }
func (h taskHeap) Less(i, j int) bool { return h[i].before(h[j]) }
func (h taskHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *taskHeap) Push(x any) {
	*h = append(*h, x.(Task))
}

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = Task{} // release the closure
	*h = old[:n-1]
	return t
}

// prioQueue is the ordered container behind the scheduler.
//
// It does no locking of its own: every call happens inside the
// scheduler's critical section, which also guards the stop flag and the
// latency samples.
type prioQueue struct {
	h taskHeap
}

// newPrioQueue creates an empty queue with room for hint tasks.
func newPrioQueue(hint int) *prioQueue {
	if hint <= 0 {
		hint = prioCap
	}
	q := &prioQueue{h: make(taskHeap, 0, hint)}
	heap.Init(&q.h)
	return q
}

// Push inserts a task in O(log n).
func (q *prioQueue) Push(t Task) {
	heap.Push(&q.h, t)
}

// Pop removes and returns the highest-priority task.
// If the queue is empty, Pop returns a zero Task and false.
func (q *prioQueue) Pop() (Task, bool) {
	if len(q.h) == 0 {
		return Task{}, false
	}
	return heap.Pop(&q.h).(Task), true
}

// Peek returns the task Pop would return without removing it.
func (q *prioQueue) Peek() (Task, bool) {
	if len(q.h) == 0 {
		return Task{}, false
	}
	return q.h[0], true
}

// Len returns the number of queued tasks.
func (q *prioQueue) Len() int { return len(q.h) }

// Reset drops every queued task and returns how many were removed.
func (q *prioQueue) Reset() int {
	n := len(q.h)
	clear(q.h)
	q.h = q.h[:0]
	return n
}
