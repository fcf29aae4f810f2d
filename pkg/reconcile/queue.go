package reconcile

import (
	"github.com/vango-dev/retain/internal/errors"
)

// TaskKind labels deferred work.
type TaskKind string

const (
	TaskMount     TaskKind = "mount"
	TaskUnmount   TaskKind = "unmount"
	TaskListeners TaskKind = "listeners"
)

// Task is one unit of deferred work collected during a render pass.
type Task struct {
	Kind TaskKind
	Run  func() error

	// Stale reports, at drain time, that the task has been superseded and
	// must be skipped. Nil means the task always runs.
	Stale func() bool
}

// Queue collects deferred work in FIFO order. A queue drains once; later
// pushes and drains are no-ops.
type Queue struct {
	tasks   []Task
	drained bool
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends t. Pushing onto a drained queue drops t.
func (q *Queue) Push(t Task) {
	if q.drained || t.Run == nil {
		return
	}
	q.tasks = append(q.tasks, t)
}

// Len returns the number of pending tasks.
func (q *Queue) Len() int {
	return len(q.tasks)
}

// Drained reports whether Drain has been called.
func (q *Queue) Drained() bool {
	return q.drained
}

// Kinds returns the kinds of the pending tasks in order.
func (q *Queue) Kinds() []TaskKind {
	kinds := make([]TaskKind, len(q.tasks))
	for i, t := range q.tasks {
		kinds[i] = t.Kind
	}
	return kinds
}

// DrainStats summarizes a drain.
type DrainStats struct {
	Ran     int
	Skipped int
	Failed  int

	// Errors holds one error per failed task, in queue order.
	Errors []error
}

// Drain runs every pending task in FIFO order. A failing or panicking task
// is recorded and does not stop the tasks after it.
func (q *Queue) Drain() DrainStats {
	var stats DrainStats
	if q.drained {
		return stats
	}
	q.drained = true
	tasks := q.tasks
	q.tasks = nil

	for _, t := range tasks {
		if t.Stale != nil && t.Stale() {
			stats.Skipped++
			continue
		}
		if err := runTask(t); err != nil {
			stats.Failed++
			stats.Errors = append(stats.Errors, err)
			continue
		}
		stats.Ran++
	}
	return stats
}

func runTask(t Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Recovered(r).(*errors.RetainError).Clone().WithOp(string(t.Kind))
		}
	}()
	if err := t.Run(); err != nil {
		return errors.FromError(err, "E131").Clone().WithOp(string(t.Kind))
	}
	return nil
}

func hookTask(kind TaskKind, fn func()) Task {
	return Task{Kind: kind, Run: func() error {
		fn()
		return nil
	}}
}
