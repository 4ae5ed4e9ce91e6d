package store

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/kubev2v/interface-queue/internal/models"
	srvErrors "github.com/kubev2v/interface-queue/pkg/errors"
)

// MetadataStore reads the database catalog.
type MetadataStore struct {
	db QueryInterceptor
}

func NewMetadataStore(db QueryInterceptor) *MetadataStore {
	return &MetadataStore{db: db}
}

func (s *MetadataStore) ListTables(ctx context.Context, opts ...ListOption) ([]models.Table, error) {
	builder := sq.Select("table_schema", "table_name", "table_type").
		From("information_schema.tables").
		Where(sq.NotEq{"table_schema": []string{"information_schema", "pg_catalog"}}).
		OrderBy("table_schema", "table_name")

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

	var tables []models.Table
	for rows.Next() {
		var t models.Table
		if err := rows.Scan(&t.Schema, &t.Name, &t.Type); err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}

	return tables, rows.Err()
}

func (s *MetadataStore) CountTables(ctx context.Context, opts ...ListOption) (int, error) {
	builder := sq.Select("COUNT(*)").
		From("information_schema.tables").
		Where(sq.NotEq{"table_schema": []string{"information_schema", "pg_catalog"}})

	for _, opt := range opts {
		builder = opt(builder)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

func (s *MetadataStore) ListColumns(ctx context.Context, schema, table string) ([]models.Column, error) {
	query, args, err := sq.Select("column_name", "data_type", "is_nullable", "ordinal_position").
		From("information_schema.columns").
		Where(sq.Eq{"table_schema": schema, "table_name": table}).
		OrderBy("ordinal_position").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []models.Column
	for rows.Next() {
		var (
			c        models.Column
			nullable string
		)
		if err := rows.Scan(&c.Name, &c.DataType, &nullable, &c.Position); err != nil {
			return nil, err
		}
		c.Nullable = nullable == "YES"
		columns = append(columns, c)
	}

	return columns, rows.Err()
}

// Describe returns a table with its columns and row count.
func (s *MetadataStore) Describe(ctx context.Context, schema, table string) (*models.TableDetails, error) {
	tables, err := s.ListTables(ctx, BySchemas(schema), ByNames(table))
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		return nil, srvErrors.NewTableNotFoundError(schema, table)
	}

	columns, err := s.ListColumns(ctx, schema, table)
	if err != nil {
		return nil, err
	}

	details := &models.TableDetails{Table: tables[0], Columns: columns}
	if details.Type == "VIEW" {
		return details, nil
	}

	query := fmt.Sprintf("SELECT COUNT(*) FROM %s.%s", quoteIdent(schema), quoteIdent(table))
	if err := s.db.QueryRowContext(ctx, query).Scan(&details.Rows); err != nil {
		return nil, err
	}
	return details, nil
}

type ListOption func(sq.SelectBuilder) sq.SelectBuilder

func BySchemas(schemas ...string) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if len(schemas) == 0 {
			return b
		}
		return b.Where(sq.Eq{"table_schema": schemas})
	}
}

func ByNames(names ...string) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if len(names) == 0 {
			return b
		}
		return b.Where(sq.Eq{"table_name": names})
	}
}

func ByTableTypes(types ...string) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if len(types) == 0 {
			return b
		}
		return b.Where(sq.Eq{"table_type": types})
	}
}

func ByNamePrefix(prefix string) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if prefix == "" {
			return b
		}
		return b.Where(sq.Like{"table_name": prefix + "%"})
	}
}

func WithLimit(limit uint64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if limit == 0 {
			return b
		}
		return b.Limit(limit)
	}
}

func WithOffset(offset uint64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if offset == 0 {
			return b
		}
		return b.Offset(offset)
	}
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
