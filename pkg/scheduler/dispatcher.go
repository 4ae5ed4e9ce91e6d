package scheduler

import "time"

// Dispatcher runs dispatched tasks off the caller's goroutine. Dispatch must
// invoke run exactly once; run executes the work and reports completion back
// to the queue.
type Dispatcher interface {
	Dispatch(task *Task, run func())
}

type DispatcherFunc func(task *Task, run func())

func (f DispatcherFunc) Dispatch(task *Task, run func()) { f(task, run) }

// GoDispatcher starts one goroutine per dispatched task.
func GoDispatcher() Dispatcher {
	return DispatcherFunc(func(_ *Task, run func()) {
		go run()
	})
}

// Clock is the time source used for task timestamps and wait timeouts.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time                         { return time.Now() }
func (systemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

func SystemClock() Clock { return systemClock{} }
