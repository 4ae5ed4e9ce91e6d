// Package v1 holds the types and gin bindings of the interface-queue HTTP API.
//
// The declarations mirror the schemas and operations of openapi.yaml in the
// layout oapi-codegen uses, and are kept in sync with it by hand. The route
// table is checked against openapi.yaml by the package tests.
package v1

import (
	"time"
)

// Defines values for Priority.
const (
	High   Priority = "high"
	Low    Priority = "low"
	Normal Priority = "normal"
	Urgent Priority = "urgent"
)

// Defines values for TaskState.
const (
	Failed   TaskState = "failed"
	Finished TaskState = "finished"
	Queued   TaskState = "queued"
	Running  TaskState = "running"
)

// Column defines model for Column.
type Column struct {
	DataType string `json:"dataType"`
	Name     string `json:"name"`
	Nullable bool   `json:"nullable"`
	Position int    `json:"position"`
}

// Error defines model for Error.
type Error struct {
	Error     string  `json:"error"`
	RequestId *string `json:"requestId,omitempty"`
}

// Priority defines model for Priority.
type Priority string

// QueueLimitUpdate defines model for QueueLimitUpdate.
type QueueLimitUpdate struct {
	MaxActiveTasks int `json:"maxActiveTasks"`
}

// QueueStatus defines model for QueueStatus.
type QueueStatus struct {
	Broken         bool `json:"broken"`
	Closed         bool `json:"closed"`
	Finished       int  `json:"finished"`
	MaxActiveTasks int  `json:"maxActiveTasks"`
	PoolSize       int  `json:"poolSize"`
	Queued         int  `json:"queued"`
	Running        int  `json:"running"`
	Size           int  `json:"size"`
}

// StatementAccepted defines model for StatementAccepted.
type StatementAccepted struct {
	Accepted  bool   `json:"accepted"`
	RequestId string `json:"requestId"`
}

// StatementRequest defines model for StatementRequest.
type StatementRequest struct {
	Async    *bool     `json:"async,omitempty"`
	MaxRows  *int      `json:"maxRows,omitempty"`
	Priority *Priority `json:"priority,omitempty"`
	Sql      string    `json:"sql"`
}

// StatementResult defines model for StatementResult.
type StatementResult struct {
	Columns   []string        `json:"columns"`
	Rows      [][]interface{} `json:"rows"`
	Truncated *bool           `json:"truncated,omitempty"`
}

// Table defines model for Table.
type Table struct {
	Name   string `json:"name"`
	Schema string `json:"schema"`
	Type   string `json:"type"`
}

// TableDetails defines model for TableDetails.
type TableDetails struct {
	Columns []Column `json:"columns"`
	Name    string   `json:"name"`
	Rows    int64    `json:"rows"`
	Schema  string   `json:"schema"`
	Type    string   `json:"type"`
}

// TableListResponse defines model for TableListResponse.
type TableListResponse struct {
	Page      int     `json:"page"`
	PageCount int     `json:"pageCount"`
	Tables    []Table `json:"tables"`
	Total     int     `json:"total"`
}

// TaskEvent defines model for TaskEvent.
type TaskEvent struct {
	Description  *string    `json:"description,omitempty"`
	DurationMs   *int64     `json:"durationMs,omitempty"`
	EnqueuedAt   time.Time  `json:"enqueuedAt"`
	Error        *string    `json:"error,omitempty"`
	FinishedAt   *time.Time `json:"finishedAt,omitempty"`
	Id           int64      `json:"id"`
	Priority     Priority   `json:"priority"`
	QueueDelayMs *int64     `json:"queueDelayMs,omitempty"`
	Site         *string    `json:"site,omitempty"`
	StartedAt    *time.Time `json:"startedAt,omitempty"`
	State        TaskState  `json:"state"`
	Subject      string     `json:"subject"`
}

// TaskEventList defines model for TaskEventList.
type TaskEventList struct {
	Events []TaskEvent `json:"events"`
}

// TaskFailure defines model for TaskFailure.
type TaskFailure struct {
	Error    string    `json:"error"`
	FailedAt time.Time `json:"failedAt"`
	Priority Priority  `json:"priority"`
	Site     *string   `json:"site,omitempty"`
	Subject  string    `json:"subject"`
	TaskId   int64     `json:"taskId"`
}

// TaskFailureList defines model for TaskFailureList.
type TaskFailureList struct {
	Failures []TaskFailure `json:"failures"`
}

// TaskState defines model for TaskState.
type TaskState string

// ListQueueFailuresParams defines parameters for ListQueueFailures.
type ListQueueFailuresParams struct {
	Limit   *int      `form:"limit,omitempty" json:"limit,omitempty"`
	Subject *[]string `form:"subject,omitempty" json:"subject,omitempty"`
}

// ListQueueTasksParams defines parameters for ListQueueTasks.
type ListQueueTasksParams struct {
	Limit *int         `form:"limit,omitempty" json:"limit,omitempty"`
	State *[]TaskState `form:"state,omitempty" json:"state,omitempty"`
}

// ListTablesParams defines parameters for ListTables.
type ListTablesParams struct {
	Priority *Priority `form:"priority,omitempty" json:"priority,omitempty"`
	Schema   *[]string `form:"schema,omitempty" json:"schema,omitempty"`
	Type     *[]string `form:"type,omitempty" json:"type,omitempty"`
	Prefix   *string   `form:"prefix,omitempty" json:"prefix,omitempty"`
	Page     *int      `form:"page,omitempty" json:"page,omitempty"`
	PageSize *int      `form:"pageSize,omitempty" json:"pageSize,omitempty"`
}

// DescribeTableParams defines parameters for DescribeTable.
type DescribeTableParams struct {
	Priority *Priority `form:"priority,omitempty" json:"priority,omitempty"`
}

// SetQueueLimitJSONRequestBody defines body for SetQueueLimit for application/json ContentType.
type SetQueueLimitJSONRequestBody = QueueLimitUpdate

// ExecuteStatementJSONRequestBody defines body for ExecuteStatement for application/json ContentType.
type ExecuteStatementJSONRequestBody = StatementRequest
