package store

import (
	"context"

	"github.com/kubev2v/interface-queue/internal/models"
)

// StatementStore runs caller supplied SQL.
type StatementStore struct {
	db QueryInterceptor
}

func NewStatementStore(db QueryInterceptor) *StatementStore {
	return &StatementStore{db: db}
}

// Query runs stmt and returns at most maxRows rows (0 means all). Truncated
// is set when more rows were available.
func (s *StatementStore) Query(ctx context.Context, stmt string, maxRows int) (*models.StatementResult, error) {
	rows, err := s.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := &models.StatementResult{Columns: columns, Rows: [][]any{}}
	for rows.Next() {
		if maxRows > 0 && len(result.Rows) >= maxRows {
			result.Truncated = true
			break
		}
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		result.Rows = append(result.Rows, values)
	}

	return result, rows.Err()
}

func (s *StatementStore) Exec(ctx context.Context, stmt string) (int64, error) {
	res, err := s.db.ExecContext(ctx, stmt)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
