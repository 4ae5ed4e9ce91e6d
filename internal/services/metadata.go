package services

import (
	"context"
	"fmt"

	"github.com/kubev2v/interface-queue/internal/invoker"
	"github.com/kubev2v/interface-queue/internal/models"
	"github.com/kubev2v/interface-queue/internal/store"
	"github.com/kubev2v/interface-queue/pkg/scheduler"
)

type MetadataService struct {
	inv *invoker.Invoker
}

func NewMetadataService(inv *invoker.Invoker) *MetadataService {
	return &MetadataService{inv: inv}
}

type TableListParams struct {
	Schemas  []string
	Types    []string
	Prefix   string
	Limit    uint64
	Offset   uint64
	Priority scheduler.Priority
	Site     string
}

type TableListResult struct {
	Tables []models.Table
	Total  int
}

// ListTables loads the page and the total count in one queued task.
func (s *MetadataService) ListTables(ctx context.Context, params TableListParams) (*TableListResult, error) {
	req, err := request(params.Priority, "list tables", describeList(params), params.Site)
	if err != nil {
		return nil, err
	}

	filters := []store.ListOption{
		store.BySchemas(params.Schemas...),
		store.ByTableTypes(params.Types...),
		store.ByNamePrefix(params.Prefix),
	}
	page := append(filters[:len(filters):len(filters)], store.WithLimit(params.Limit), store.WithOffset(params.Offset))

	result, err := invoker.Load(ctx, s.inv, req, func(ctx context.Context, st *store.Store) (*TableListResult, error) {
		tables, err := st.Metadata().ListTables(ctx, page...)
		if err != nil {
			return nil, err
		}
		total, err := st.Metadata().CountTables(ctx, filters...)
		if err != nil {
			return nil, err
		}
		return &TableListResult{Tables: tables, Total: total}, nil
	})
	if err != nil {
		return nil, queueError(err)
	}
	if result.Tables == nil {
		result.Tables = []models.Table{}
	}
	return result, nil
}

func (s *MetadataService) DescribeTable(ctx context.Context, schema, table string, priority scheduler.Priority, site string) (*models.TableDetails, error) {
	req, err := request(priority, "describe table", fmt.Sprintf("%s.%s", schema, table), site)
	if err != nil {
		return nil, err
	}

	details, err := invoker.Load(ctx, s.inv, req, func(ctx context.Context, st *store.Store) (*models.TableDetails, error) {
		return st.Metadata().Describe(ctx, schema, table)
	})
	if err != nil {
		return nil, queueError(err)
	}
	return details, nil
}

func describeList(p TableListParams) string {
	d := "all tables"
	if len(p.Schemas) > 0 {
		d = fmt.Sprintf("tables in %v", p.Schemas)
	}
	if p.Prefix != "" {
		d += fmt.Sprintf(" named %s*", p.Prefix)
	}
	return d
}
