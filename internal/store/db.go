package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	_ "github.com/duckdb/duckdb-go/v2"
	"go.uber.org/zap"
)

const (
	MemoryPath = ":memory:"

	defaultOpenTimeout = 10 * time.Second
)

// QueryInterceptor is the query surface shared by *sql.DB, *sql.Conn and
// *sql.Tx. Stores are built on it so the same store can run on the pool or
// on a connection leased for one queued task.
type QueryInterceptor interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func NewDB(path string) (*sql.DB, error) {
	return Open(context.Background(), path, defaultOpenTimeout)
}

// Open opens the DuckDB database at path. A database file locked by another
// process is retried with exponential backoff until timeout.
func Open(ctx context.Context, path string, timeout time.Duration) (*sql.DB, error) {
	dsn := path
	if path == MemoryPath {
		dsn = ""
	}
	log := zap.S().Named("store")

	open := func() (*sql.DB, error) {
		db, err := sql.Open("duckdb", dsn)
		if err == nil {
			err = db.PingContext(ctx)
			if err != nil {
				_ = db.Close()
			}
		}
		if err == nil {
			return db, nil
		}
		if isLockError(err) {
			return nil, err
		}
		return nil, backoff.Permanent(err)
	}

	db, err := backoff.Retry(ctx, open,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(timeout),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Warnw("database locked, retrying", "path", path, "retry_in", next, "error", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	log.Debugw("database opened", "path", path)
	return db, nil
}

func isLockError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "could not set lock") || strings.Contains(msg, "conflicting lock")
}

type loggingInterceptor struct {
	next QueryInterceptor
	log  *zap.SugaredLogger
}

// WithQueryLogging logs every statement and its duration at debug level.
func WithQueryLogging(next QueryInterceptor) QueryInterceptor {
	return &loggingInterceptor{next: next, log: zap.S().Named("sql")}
}

func (l *loggingInterceptor) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := l.next.QueryContext(ctx, query, args...)
	l.log.Debugw("query", "sql", compact(query), "args", len(args), "duration", time.Since(start), "error", err)
	return rows, err
}

func (l *loggingInterceptor) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	row := l.next.QueryRowContext(ctx, query, args...)
	l.log.Debugw("query row", "sql", compact(query), "args", len(args), "duration", time.Since(start))
	return row
}

func (l *loggingInterceptor) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := l.next.ExecContext(ctx, query, args...)
	l.log.Debugw("exec", "sql", compact(query), "args", len(args), "duration", time.Since(start), "error", err)
	return res, err
}

func compact(query string) string {
	return strings.Join(strings.Fields(query), " ")
}
