package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// Queue counters and limits
	// (GET /queue)
	GetQueueStatus(c *gin.Context)
	// Failed background tasks, newest first
	// (GET /queue/failures)
	ListQueueFailures(c *gin.Context, params ListQueueFailuresParams)
	// Change and persist the active task limit
	// (PUT /queue/limit)
	SetQueueLimit(c *gin.Context)
	// Recent task lifecycle events, newest first
	// (GET /queue/tasks)
	ListQueueTasks(c *gin.Context, params ListQueueTasksParams)
	// Run a SQL statement through the queue
	// (POST /statements)
	ExecuteStatement(c *gin.Context)
	// Tables and views of the database
	// (GET /tables)
	ListTables(c *gin.Context, params ListTablesParams)
	// Columns and row count of a table
	// (GET /tables/{schema}/{table})
	DescribeTable(c *gin.Context, schema string, table string, params DescribeTableParams)
}

// ServerInterfaceWrapper converts contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler            ServerInterface
	HandlerMiddlewares []MiddlewareFunc
	ErrorHandler       func(*gin.Context, error, int)
}

type MiddlewareFunc func(c *gin.Context)

// GetQueueStatus operation middleware
func (siw *ServerInterfaceWrapper) GetQueueStatus(c *gin.Context) {

	for _, middleware := range siw.HandlerMiddlewares {
		middleware(c)
		if c.IsAborted() {
			return
		}
	}

	siw.Handler.GetQueueStatus(c)
}

// ListQueueFailures operation middleware
func (siw *ServerInterfaceWrapper) ListQueueFailures(c *gin.Context) {

	var err error

	// Parameter object where we will unmarshal all parameters from the context
	var params ListQueueFailuresParams

	// ------------- Optional query parameter "limit" -------------

	err = runtime.BindQueryParameter("form", true, false, "limit", c.Request.URL.Query(), &params.Limit)
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter limit: %w", err), http.StatusBadRequest)
		return
	}

	// ------------- Optional query parameter "subject" -------------

	err = runtime.BindQueryParameter("form", true, false, "subject", c.Request.URL.Query(), &params.Subject)
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter subject: %w", err), http.StatusBadRequest)
		return
	}

	for _, middleware := range siw.HandlerMiddlewares {
		middleware(c)
		if c.IsAborted() {
			return
		}
	}

	siw.Handler.ListQueueFailures(c, params)
}

// SetQueueLimit operation middleware
func (siw *ServerInterfaceWrapper) SetQueueLimit(c *gin.Context) {

	for _, middleware := range siw.HandlerMiddlewares {
		middleware(c)
		if c.IsAborted() {
			return
		}
	}

	siw.Handler.SetQueueLimit(c)
}

// ListQueueTasks operation middleware
func (siw *ServerInterfaceWrapper) ListQueueTasks(c *gin.Context) {

	var err error

	// Parameter object where we will unmarshal all parameters from the context
	var params ListQueueTasksParams

	// ------------- Optional query parameter "limit" -------------

	err = runtime.BindQueryParameter("form", true, false, "limit", c.Request.URL.Query(), &params.Limit)
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter limit: %w", err), http.StatusBadRequest)
		return
	}

	// ------------- Optional query parameter "state" -------------

	err = runtime.BindQueryParameter("form", true, false, "state", c.Request.URL.Query(), &params.State)
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter state: %w", err), http.StatusBadRequest)
		return
	}

	for _, middleware := range siw.HandlerMiddlewares {
		middleware(c)
		if c.IsAborted() {
			return
		}
	}

	siw.Handler.ListQueueTasks(c, params)
}

// ExecuteStatement operation middleware
func (siw *ServerInterfaceWrapper) ExecuteStatement(c *gin.Context) {

	for _, middleware := range siw.HandlerMiddlewares {
		middleware(c)
		if c.IsAborted() {
			return
		}
	}

	siw.Handler.ExecuteStatement(c)
}

// ListTables operation middleware
func (siw *ServerInterfaceWrapper) ListTables(c *gin.Context) {

	var err error

	// Parameter object where we will unmarshal all parameters from the context
	var params ListTablesParams

	// ------------- Optional query parameter "priority" -------------

	err = runtime.BindQueryParameter("form", true, false, "priority", c.Request.URL.Query(), &params.Priority)
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter priority: %w", err), http.StatusBadRequest)
		return
	}

	// ------------- Optional query parameter "schema" -------------

	err = runtime.BindQueryParameter("form", true, false, "schema", c.Request.URL.Query(), &params.Schema)
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter schema: %w", err), http.StatusBadRequest)
		return
	}

	// ------------- Optional query parameter "type" -------------

	err = runtime.BindQueryParameter("form", true, false, "type", c.Request.URL.Query(), &params.Type)
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter type: %w", err), http.StatusBadRequest)
		return
	}

	// ------------- Optional query parameter "prefix" -------------

	err = runtime.BindQueryParameter("form", true, false, "prefix", c.Request.URL.Query(), &params.Prefix)
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter prefix: %w", err), http.StatusBadRequest)
		return
	}

	// ------------- Optional query parameter "page" -------------

	err = runtime.BindQueryParameter("form", true, false, "page", c.Request.URL.Query(), &params.Page)
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter page: %w", err), http.StatusBadRequest)
		return
	}

	// ------------- Optional query parameter "pageSize" -------------

	err = runtime.BindQueryParameter("form", true, false, "pageSize", c.Request.URL.Query(), &params.PageSize)
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter pageSize: %w", err), http.StatusBadRequest)
		return
	}

	for _, middleware := range siw.HandlerMiddlewares {
		middleware(c)
		if c.IsAborted() {
			return
		}
	}

	siw.Handler.ListTables(c, params)
}

// DescribeTable operation middleware
func (siw *ServerInterfaceWrapper) DescribeTable(c *gin.Context) {

	var err error

	// ------------- Path parameter "schema" -------------
	var schema string

	err = runtime.BindStyledParameterWithOptions("simple", "schema", c.Param("schema"), &schema, runtime.BindStyledParameterOptions{Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter schema: %w", err), http.StatusBadRequest)
		return
	}

	// ------------- Path parameter "table" -------------
	var table string

	err = runtime.BindStyledParameterWithOptions("simple", "table", c.Param("table"), &table, runtime.BindStyledParameterOptions{Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter table: %w", err), http.StatusBadRequest)
		return
	}

	// Parameter object where we will unmarshal all parameters from the context
	var params DescribeTableParams

	// ------------- Optional query parameter "priority" -------------

	err = runtime.BindQueryParameter("form", true, false, "priority", c.Request.URL.Query(), &params.Priority)
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter priority: %w", err), http.StatusBadRequest)
		return
	}

	for _, middleware := range siw.HandlerMiddlewares {
		middleware(c)
		if c.IsAborted() {
			return
		}
	}

	siw.Handler.DescribeTable(c, schema, table, params)
}

// GinServerOptions provides options for the Gin server.
type GinServerOptions struct {
	BaseURL      string
	Middlewares  []MiddlewareFunc
	ErrorHandler func(*gin.Context, error, int)
}

// RegisterHandlers creates http.Handler with routing matching OpenAPI spec.
func RegisterHandlers(router gin.IRouter, si ServerInterface) {
	RegisterHandlersWithOptions(router, si, GinServerOptions{})
}

// RegisterHandlersWithOptions creates http.Handler with additional options
func RegisterHandlersWithOptions(router gin.IRouter, si ServerInterface, options GinServerOptions) {
	errorHandler := options.ErrorHandler
	if errorHandler == nil {
		errorHandler = func(c *gin.Context, err error, statusCode int) {
			c.JSON(statusCode, gin.H{"msg": err.Error()})
		}
	}

	wrapper := ServerInterfaceWrapper{
		Handler:            si,
		HandlerMiddlewares: options.Middlewares,
		ErrorHandler:       errorHandler,
	}

	router.GET(options.BaseURL+"/queue", wrapper.GetQueueStatus)
	router.GET(options.BaseURL+"/queue/failures", wrapper.ListQueueFailures)
	router.PUT(options.BaseURL+"/queue/limit", wrapper.SetQueueLimit)
	router.GET(options.BaseURL+"/queue/tasks", wrapper.ListQueueTasks)
	router.POST(options.BaseURL+"/statements", wrapper.ExecuteStatement)
	router.GET(options.BaseURL+"/tables", wrapper.ListTables)
	router.GET(options.BaseURL+"/tables/:schema/:table", wrapper.DescribeTable)
}
