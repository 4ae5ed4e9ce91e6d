package store

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/kubev2v/interface-queue/internal/models"
)

// FailureStore keeps fire-and-forget task failures, which otherwise only
// reach the log.
type FailureStore struct {
	db QueryInterceptor
}

func NewFailureStore(db QueryInterceptor) *FailureStore {
	return &FailureStore{db: db}
}

func (s *FailureStore) Insert(ctx context.Context, f models.TaskFailure) error {
	_, err := s.db.ExecContext(ctx, queryInsertTaskFailure,
		int64(f.TaskID), f.Priority, f.Subject, f.Site, f.Error, f.FailedAt)
	return err
}

// Prune keeps only the newest keep failures.
func (s *FailureStore) Prune(ctx context.Context, keep int) error {
	_, err := s.db.ExecContext(ctx, queryPruneTaskFailures, keep)
	return err
}

// List returns failures, newest first.
func (s *FailureStore) List(ctx context.Context, opts ...ListOption) ([]models.TaskFailure, error) {
	builder := sq.Select("task_id", "priority", "subject", "site", "error", "failed_at").
		From("task_failures").
		OrderBy("id DESC")

	for _, opt := range opts {
		builder = opt(builder)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var failures []models.TaskFailure
	for rows.Next() {
		var (
			f  models.TaskFailure
			id int64
		)
		if err := rows.Scan(&id, &f.Priority, &f.Subject, &f.Site, &f.Error, &f.FailedAt); err != nil {
			return nil, err
		}
		f.TaskID = uint64(id)
		failures = append(failures, f)
	}

	return failures, rows.Err()
}

func BySubject(subjects ...string) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if len(subjects) == 0 {
			return b
		}
		return b.Where(sq.Eq{"subject": subjects})
	}
}
