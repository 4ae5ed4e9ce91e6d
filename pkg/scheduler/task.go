package scheduler

import (
	"context"
	"sync/atomic"
	"time"
)

type TaskID uint64

type TaskState int32

const (
	TaskQueued TaskState = iota
	TaskRunning
	TaskFinished
	TaskFailed
)

func (s TaskState) String() string {
	switch s {
	case TaskQueued:
		return "queued"
	case TaskRunning:
		return "running"
	case TaskFinished:
		return "finished"
	case TaskFailed:
		return "failed"
	default:
		return "unknown"
	}
}

func (s TaskState) Terminal() bool {
	return s == TaskFinished || s == TaskFailed
}

// Task is one scheduled unit of work. Only the Queue creates tasks; every
// mutable field is written under the queue lock.
type Task struct {
	id      TaskID
	request TaskRequest
	work    Work[any]

	ctx    context.Context
	cancel context.CancelFunc

	state      atomic.Int32
	enqueuedAt time.Time
	startedAt  time.Time
	finishedAt time.Time
	result     any
	err        error

	synchronous bool
	c           chan Result[any]
	released    bool
}

func newTask(id TaskID, req TaskRequest, work Work[any], ctx context.Context, cancel context.CancelFunc, now time.Time) *Task {
	t := &Task{
		id:         id,
		request:    req,
		work:       work,
		ctx:        ctx,
		cancel:     cancel,
		enqueuedAt: now,
		c:          make(chan Result[any], 1),
	}
	t.state.Store(int32(TaskQueued))
	return t
}

func (t *Task) ID() TaskID { return t.id }

func (t *Task) Request() TaskRequest { return t.request }

func (t *Task) State() TaskState { return TaskState(t.state.Load()) }

// transition moves the task to next. Callers hold the queue lock.
func (t *Task) transition(next TaskState, now time.Time) {
	cur := t.State()
	switch {
	case cur == TaskQueued && next == TaskRunning:
		t.startedAt = now
	case cur == TaskQueued && next == TaskFailed:
		t.finishedAt = now
	case cur == TaskRunning && next.Terminal():
		t.finishedAt = now
	default:
		panic(violation("task %d: illegal transition %s -> %s", t.id, cur, next))
	}
	t.state.Store(int32(next))
}

// release hands the outcome to the waiter, once.
func (t *Task) release(r Result[any]) {
	if t.released {
		return
	}
	t.released = true
	t.c <- r
}

// TaskInfo is a point-in-time copy of a task, safe to keep after the lock is released.
type TaskInfo struct {
	ID          TaskID
	Priority    Priority
	Subject     string
	Description string
	Site        string
	State       TaskState
	EnqueuedAt  time.Time
	StartedAt   time.Time
	FinishedAt  time.Time
	Err         error
}

func (t *Task) info() TaskInfo {
	return TaskInfo{
		ID:          t.id,
		Priority:    t.request.priority,
		Subject:     t.request.subject,
		Description: t.request.description,
		Site:        t.request.site,
		State:       t.State(),
		EnqueuedAt:  t.enqueuedAt,
		StartedAt:   t.startedAt,
		FinishedAt:  t.finishedAt,
		Err:         t.err,
	}
}

// QueueDelay is how long the task waited before it was dispatched.
func (i TaskInfo) QueueDelay() time.Duration {
	if i.StartedAt.IsZero() {
		return 0
	}
	return i.StartedAt.Sub(i.EnqueuedAt)
}

// Duration is how long the work ran.
func (i TaskInfo) Duration() time.Duration {
	if i.StartedAt.IsZero() || i.FinishedAt.IsZero() {
		return 0
	}
	return i.FinishedAt.Sub(i.StartedAt)
}
