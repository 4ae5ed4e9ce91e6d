package models

import "time"

type QueueStatus struct {
	Size           int
	MaxActiveTasks int
	PoolSize       int
	Queued         int
	Running        int
	Finished       int
	Closed         bool
	Broken         bool
}

// TaskEvent is one observed state change of a queued task.
type TaskEvent struct {
	ID          uint64
	Priority    string
	Subject     string
	Description string
	Site        string
	State       string
	EnqueuedAt  time.Time
	StartedAt   time.Time
	FinishedAt  time.Time
	QueueDelay  time.Duration
	Duration    time.Duration
	Error       string
}

// TaskFailure records a fire-and-forget task that failed with nobody waiting.
type TaskFailure struct {
	TaskID   uint64
	Priority string
	Subject  string
	Site     string
	Error    string
	FailedAt time.Time
}
