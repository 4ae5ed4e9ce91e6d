// Package scheduler implements the interface queue: a bounded-concurrency,
// priority-aware admission controller for work against a shared resource.
//
// A resource such as an embedded database connection tolerates only a small
// number of concurrent operations. Every caller submits its operation to a
// Queue instead of calling the resource directly. The Queue runs at most
// MaxActiveTasks operations at a time; the rest wait in a priority queue and
// are dispatched, highest priority first and FIFO within a priority, as
// running tasks complete.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────────┐
//	│                              Queue                                  │
//	│                                                                     │
//	│  ScheduleAndWait   ScheduleAndForget   Schedule   ScheduleAndReturn │
//	│         │                  │               │              │         │
//	│         └──────────────────┴───────┬───────┴──────────────┘         │
//	│                                    ▼                                │
//	│                               submit()                              │
//	│                                    │                                │
//	│           running < max ? ─────────┼───────── no                    │
//	│                 │ yes              │           │                    │
//	│                 ▼                  │           ▼                    │
//	│          startLocked()             │   ┌──────────────────────┐     │
//	│                 │                  │   │    PriorityQueue     │     │
//	│                 │                  │   │ urgent [t7]          │     │
//	│                 │                  │   │ high   [t3][t5]      │     │
//	│                 │                  │   │ normal [t1][t2][t4]  │     │
//	│                 │                  │   └──────────┬───────────┘     │
//	│                 │                  │              │ fillLocked()    │
//	│                 ▼                  │              ▼                 │
//	│            ┌─────────────────────────────────────────────┐          │
//	│            │                 Dispatcher                  │          │
//	│            │  (goroutine per task, or a worker Pool)     │          │
//	│            └─────────────────────┬───────────────────────┘          │
//	│                                  ▼                                  │
//	│                            work(ctx)                                │
//	│                                  │                                  │
//	│                                  ▼                                  │
//	│                             complete() ──► release waiter           │
//	│                                        ──► fillLocked()             │
//	└─────────────────────────────────────────────────────────────────────┘
//
// # Task Lifecycle
//
//	          submit                 dispatch                 work returns
//	  ────────────────► QUEUED ────────────────► RUNNING ───────────────────┐
//	                      │                                                 │
//	                      │ Close()                             ┌───────────┴───┐
//	                      ▼                                     ▼               ▼
//	                    FAILED                              FINISHED         FAILED
//	               (ErrQueueClosed)                        (err == nil)   (err != nil)
//
// Every task reaches exactly one terminal state and its waiter is released
// exactly once.
//
// # Counters
//
// The Queue keeps three observable counters, all mutated under the queue lock:
//
//   - queued: tasks waiting in the PriorityQueue
//   - running: dispatched tasks whose work has not returned
//   - finished: terminal tasks, never decreasing
//
// The order of mutation matters to listeners. On dispatch running is
// incremented before queued is decremented; on completion finished is
// incremented before running is decremented. A listener waiting for
// "running == 0 && queued == 0" therefore never fires while work is still
// in flight. WaitIdle is built on exactly that.
//
// # Waiting
//
// ScheduleAndWait blocks until the task completes, the caller's context is
// done, or the queue's wait timeout elapses. Giving up the wait never
// removes the task: it keeps its place and runs to completion. The work's
// context is detached from the caller's and is only cancelled by
// Future.Stop or Close.
//
// # Limits
//
// SetMaxActiveTasks may be called at any time. Raising the limit dispatches
// queued tasks immediately. Lowering it never interrupts running tasks; the
// queue waits for running to drop below the new limit. While running is
// above the limit a throttled warning is logged.
//
// # Invariant Violations
//
// A counter going negative, a task completed twice, or an illegal state
// transition means the bookkeeping can no longer be trusted. The Queue
// panics with *InvariantViolation. Before the panic propagates the queue is
// marked broken: every waiter is released with ErrQueueBroken, and later
// submissions fail with the same error.
//
// # Usage Example
//
//	q := scheduler.New(4)
//	defer q.Close()
//
//	req := scheduler.MustTaskRequest(scheduler.PriorityHigh, "tables", "list tables", site)
//	v, err := q.ScheduleAndWait(ctx, req, func(ctx context.Context) (any, error) {
//	    return db.QueryContext(ctx, "SELECT table_name FROM information_schema.tables")
//	})
package scheduler
