// Package services implements the business logic layer for the interface-queue service.
//
// Services sit between the HTTP handlers and the store. None of them touches
// the database directly: every read and write is a queued task run by the
// invoker, so the interface queue decides how many of them reach DuckDB at
// once and in which order.
//
// # Service Dependency Graph
//
//	Handlers (HTTP endpoints)
//	    │
//	    ▼
//	Services Layer
//	    ├── QueueService ─────► Invoker, Queue, Executor Pool
//	    ├── MetadataService ──► Invoker
//	    ├── StatementService ─► Invoker
//	    ├── FailureRecorder ──► Invoker (started after the queue exists)
//	    └── Reporter ─────────► QueueService.Status
//
// # QueueService
//
// Exposes the queue to operators.
//
//   - Status() returns counters, the active task limit and the pool size.
//   - SetMaxActiveTasks(ctx, n, site) persists the limit through an urgent
//     task, then applies it. A persisted limit wins over the configuration
//     file on the next start (RestoreMaxActiveTasks).
//   - ApplyMaxActiveTasks(n) applies a limit without persisting it. The
//     configuration file watcher uses it.
//   - History(limit, states...) returns the newest task lifecycle events
//     kept in a fixed size ring buffer.
//   - Failures(ctx, limit, subjects...) lists recorded background failures.
//
// The executor pool follows the limit upwards so raised limits are not
// capped by a smaller pool. It never shrinks.
//
// # MetadataService
//
// Lists and describes tables of the database. A page of tables and the
// total count are loaded by a single queued task.
//
//	result, err := metadata.ListTables(ctx, services.TableListParams{
//	    Schemas:  []string{"main"},
//	    Prefix:   "cust",
//	    Limit:    50,
//	    Priority: scheduler.PriorityHigh,
//	})
//
// # StatementService
//
// Runs caller supplied SQL. Synchronous statements return up to MaxRows
// rows. Asynchronous statements are queued fire-and-forget and return nil.
//
// # FailureRecorder
//
// The queue's error handler. Background task failures are buffered on a
// channel and written to task_failures by low priority tasks. Failures of
// the recording task itself are only logged.
//
//	rec := services.NewFailureRecorder()
//	queue := scheduler.New(n, scheduler.WithErrorHandler(rec.Record))
//	inv := invoker.New(queue, db)
//	rec.Start(inv)
//	defer rec.Stop()
//
// # Reporter
//
// Logs queue statistics on a cron schedule. A saturated queue is reported
// at warn level, a broken one at error level.
//
// # Error Translation
//
// Queue submission errors become service errors:
//
//	┌─────────────────────────────────────┬────────────────────────┐
//	│  Queue error                        │  Service error         │
//	├─────────────────────────────────────┼────────────────────────┤
//	│  ErrQueueClosed, ErrQueueBroken     │  UnavailableError      │
//	│  ErrInvalidRequest, ErrInvalidLimit │  InvalidArgumentError  │
//	└─────────────────────────────────────┴────────────────────────┘
//
// ErrWaitTimeout and errors returned by the work itself pass through.
package services
