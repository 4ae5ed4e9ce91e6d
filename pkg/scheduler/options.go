package scheduler

import (
	"time"

	"go.uber.org/zap"
)

// DefaultMaxActiveTasks is used when New receives a non-positive limit.
const DefaultMaxActiveTasks = 10

type Option func(*Queue)

func WithDispatcher(d Dispatcher) Option {
	return func(q *Queue) {
		if d != nil {
			q.dispatcher = d
		}
	}
}

func WithClock(c Clock) Option {
	return func(q *Queue) {
		if c != nil {
			q.clock = c
		}
	}
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(q *Queue) {
		if l != nil {
			q.log = l
		}
	}
}

// WithWaitTimeout bounds every ScheduleAndWait. The wait ends at the timeout
// or when the caller's context is done, whichever comes first. Zero disables
// it.
func WithWaitTimeout(d time.Duration) Option {
	return func(q *Queue) {
		if d > 0 {
			q.waitTimeout = d
		}
	}
}

// WithErrorHandler receives execution failures of fire-and-forget tasks.
// It runs on the dispatcher goroutine after the task has been released.
func WithErrorHandler(fn func(TaskInfo, error)) Option {
	return func(q *Queue) {
		q.onError = fn
	}
}

// WithLimitWarnInterval throttles the "active task limit exceeded" warning.
func WithLimitWarnInterval(d time.Duration) Option {
	return func(q *Queue) {
		if d > 0 {
			q.limitWarn.Interval = d
		}
	}
}
