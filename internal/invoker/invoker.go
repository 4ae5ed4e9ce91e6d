// Package invoker runs database work through the interface queue. Every unit
// of work leases its own connection from the pool for exactly as long as it
// runs, so the queue limit is also the number of connections in use.
package invoker

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kubev2v/interface-queue/internal/store"
	"github.com/kubev2v/interface-queue/pkg/scheduler"
)

// StoreFunc is database work against a store bound to a leased connection.
type StoreFunc[T any] func(ctx context.Context, s *store.Store) (T, error)

type Invoker struct {
	queue *scheduler.Queue
	db    *sql.DB
}

func New(queue *scheduler.Queue, db *sql.DB) *Invoker {
	return &Invoker{queue: queue, db: db}
}

func (i *Invoker) Queue() *scheduler.Queue {
	return i.queue
}

// Schedule queues fn and returns at once. Failures go to the queue's error
// handler.
func (i *Invoker) Schedule(req scheduler.TaskRequest, fn func(ctx context.Context, s *store.Store) error) error {
	return i.queue.ScheduleAndForget(req, func(ctx context.Context) (any, error) {
		return nil, i.withStore(ctx, fn)
	})
}

// Execute runs fn through the queue and waits for it.
func (i *Invoker) Execute(ctx context.Context, req scheduler.TaskRequest, fn func(ctx context.Context, s *store.Store) error) error {
	_, err := i.queue.ScheduleAndWait(ctx, req, func(ctx context.Context) (any, error) {
		return nil, i.withStore(ctx, fn)
	})
	return err
}

// Load runs fn through the queue and returns its result.
func Load[T any](ctx context.Context, i *Invoker, req scheduler.TaskRequest, fn StoreFunc[T]) (T, error) {
	return scheduler.ScheduleAndReturn(ctx, i.queue, req, func(ctx context.Context) (T, error) {
		var result T
		err := i.withStore(ctx, func(ctx context.Context, s *store.Store) error {
			var err error
			result, err = fn(ctx, s)
			return err
		})
		return result, err
	})
}

func (i *Invoker) withStore(ctx context.Context, fn func(ctx context.Context, s *store.Store) error) error {
	conn, err := i.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to lease connection: %w", err)
	}
	defer func() { _ = conn.Close() }()

	return fn(ctx, store.NewStore(store.WithQueryLogging(conn)))
}
