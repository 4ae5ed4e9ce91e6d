package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/kubev2v/interface-queue/api/v1"
	"github.com/kubev2v/interface-queue/internal/services"
	"github.com/kubev2v/interface-queue/internal/util"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ListTables returns tables and views with filtering and pagination
// (GET /tables)
func (h *Handler) ListTables(c *gin.Context, params v1.ListTablesParams) {
	priority, err := params.Priority.ToScheduler()
	if err != nil {
		badRequest(c, "priority", "%v", err)
		return
	}

	// Parse pagination
	page := 1
	if params.Page != nil && *params.Page > 0 {
		page = *params.Page
	}
	pageSize := defaultPageSize
	if params.PageSize != nil && *params.PageSize > 0 {
		pageSize = min(*params.PageSize, maxPageSize)
	}

	svcParams := services.TableListParams{
		Prefix:   util.Deref(params.Prefix, ""),
		Limit:    uint64(pageSize),
		Offset:   uint64((page - 1) * pageSize),
		Priority: priority,
		Site:     site(c),
	}
	if params.Schema != nil {
		svcParams.Schemas = *params.Schema
	}
	if params.Type != nil {
		svcParams.Types = *params.Type
	}

	result, err := h.metadataSrv.ListTables(c.Request.Context(), svcParams)
	if err != nil {
		fail(c, err, "failed to list tables")
		return
	}

	apiTables := make([]v1.Table, 0, len(result.Tables))
	for _, t := range result.Tables {
		apiTables = append(apiTables, v1.NewTableFromModel(t))
	}

	c.JSON(http.StatusOK, v1.TableListResponse{
		Page:      page,
		PageCount: util.PageCount(result.Total, pageSize),
		Total:     result.Total,
		Tables:    apiTables,
	})
}

// DescribeTable returns the columns and row count of a table
// (GET /tables/{schema}/{table})
func (h *Handler) DescribeTable(c *gin.Context, schema string, table string, params v1.DescribeTableParams) {
	priority, err := params.Priority.ToScheduler()
	if err != nil {
		badRequest(c, "priority", "%v", err)
		return
	}

	details, err := h.metadataSrv.DescribeTable(c.Request.Context(), schema, table, priority, site(c))
	if err != nil {
		fail(c, err, "failed to describe table")
		return
	}

	c.JSON(http.StatusOK, v1.NewTableDetailsFromModel(*details))
}
