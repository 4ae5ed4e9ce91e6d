package services

import (
	"context"
	"errors"
	"strings"

	"github.com/duckdb/duckdb-go/v2"

	"github.com/kubev2v/interface-queue/internal/invoker"
	"github.com/kubev2v/interface-queue/internal/models"
	"github.com/kubev2v/interface-queue/internal/store"
	srvErrors "github.com/kubev2v/interface-queue/pkg/errors"
	"github.com/kubev2v/interface-queue/pkg/scheduler"
)

const DefaultMaxRows = 1000

type StatementService struct {
	inv *invoker.Invoker
}

func NewStatementService(inv *invoker.Invoker) *StatementService {
	return &StatementService{inv: inv}
}

type StatementParams struct {
	SQL      string
	Async    bool
	MaxRows  int
	Priority scheduler.Priority
	Site     string
}

// Execute runs a statement through the queue. Async statements are queued
// and return a nil result at once; their failures are recorded by the
// queue's error handler.
func (s *StatementService) Execute(ctx context.Context, params StatementParams) (*models.StatementResult, error) {
	stmt := strings.TrimSpace(params.SQL)
	if stmt == "" {
		return nil, srvErrors.NewInvalidArgumentError("sql", "statement is empty")
	}
	maxRows := params.MaxRows
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}

	req, err := request(params.Priority, "statement", summarize(stmt), params.Site)
	if err != nil {
		return nil, err
	}

	if params.Async {
		err := s.inv.Schedule(req, func(ctx context.Context, st *store.Store) error {
			_, err := st.Statements().Exec(ctx, stmt)
			return err
		})
		return nil, queueError(err)
	}

	result, err := invoker.Load(ctx, s.inv, req, func(ctx context.Context, st *store.Store) (*models.StatementResult, error) {
		return st.Statements().Query(ctx, stmt, maxRows)
	})
	if err != nil {
		return nil, statementError(err)
	}
	return result, nil
}

// statementError reports errors raised by the database for the statement
// itself as invalid arguments.
func statementError(err error) error {
	var dbErr *duckdb.Error
	if errors.As(err, &dbErr) {
		return srvErrors.NewInvalidArgumentError("sql", "%s", dbErr.Msg)
	}
	return queueError(err)
}

func summarize(stmt string) string {
	stmt = strings.Join(strings.Fields(stmt), " ")
	if len(stmt) > 80 {
		return stmt[:77] + "..."
	}
	return stmt
}
