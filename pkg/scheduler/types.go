package scheduler

import (
	"context"
)

// Work is the unit of work handed to the queue. It is invoked at most once.
type Work[T any] func(ctx context.Context) (T, error)

type Result[T any] struct {
	Data T
	Err  error
}

// Future is returned by Schedule. C() receives exactly one Result once the
// task reaches a terminal state.
type Future[T any] struct {
	id     TaskID
	input  chan T
	cancel context.CancelFunc
}

func NewFuture[T any](id TaskID, input chan T, cancel context.CancelFunc) *Future[T] {
	f := &Future[T]{
		id:     id,
		input:  input,
		cancel: cancel,
	}

	return f
}

func (f *Future[T]) ID() TaskID {
	return f.id
}

func (f *Future[T]) C() <-chan T {
	return f.input
}

// Stop cancels the context passed to the work. The task itself keeps its
// place in the queue; the work decides how to react.
func (f *Future[T]) Stop() {
	f.cancel()
}
