package v1

import (
	"github.com/kubev2v/interface-queue/internal/models"
	"github.com/kubev2v/interface-queue/pkg/scheduler"
)

func (q *QueueStatus) FromModel(m models.QueueStatus) {
	q.Size = m.Size
	q.MaxActiveTasks = m.MaxActiveTasks
	q.PoolSize = m.PoolSize
	q.Queued = m.Queued
	q.Running = m.Running
	q.Finished = m.Finished
	q.Closed = m.Closed
	q.Broken = m.Broken
}

// NewTaskEventFromModel converts a models.TaskEvent to an API TaskEvent.
// Timestamps the task has not reached yet are omitted.
func NewTaskEventFromModel(e models.TaskEvent) TaskEvent {
	event := TaskEvent{
		Id:         int64(e.ID),
		Priority:   Priority(e.Priority),
		Subject:    e.Subject,
		State:      TaskState(e.State),
		EnqueuedAt: e.EnqueuedAt,
	}

	if e.Description != "" {
		event.Description = &e.Description
	}
	if e.Site != "" {
		event.Site = &e.Site
	}
	if e.Error != "" {
		event.Error = &e.Error
	}
	if !e.StartedAt.IsZero() {
		event.StartedAt = &e.StartedAt
		delay := e.QueueDelay.Milliseconds()
		event.QueueDelayMs = &delay
	}
	if !e.FinishedAt.IsZero() {
		event.FinishedAt = &e.FinishedAt
		if !e.StartedAt.IsZero() {
			duration := e.Duration.Milliseconds()
			event.DurationMs = &duration
		}
	}

	return event
}

func NewTaskFailureFromModel(f models.TaskFailure) TaskFailure {
	failure := TaskFailure{
		TaskId:   int64(f.TaskID),
		Priority: Priority(f.Priority),
		Subject:  f.Subject,
		Error:    f.Error,
		FailedAt: f.FailedAt,
	}
	if f.Site != "" {
		failure.Site = &f.Site
	}
	return failure
}

func NewTableFromModel(t models.Table) Table {
	return Table{Schema: t.Schema, Name: t.Name, Type: t.Type}
}

func NewTableDetailsFromModel(d models.TableDetails) TableDetails {
	details := TableDetails{
		Schema:  d.Schema,
		Name:    d.Name,
		Type:    d.Type,
		Rows:    d.Rows,
		Columns: make([]Column, 0, len(d.Columns)),
	}
	for _, c := range d.Columns {
		details.Columns = append(details.Columns, Column{
			Name:     c.Name,
			DataType: c.DataType,
			Nullable: c.Nullable,
			Position: c.Position,
		})
	}
	return details
}

func NewStatementResultFromModel(r models.StatementResult) StatementResult {
	result := StatementResult{Columns: r.Columns, Rows: r.Rows}
	if result.Rows == nil {
		result.Rows = [][]interface{}{}
	}
	if r.Truncated {
		result.Truncated = &r.Truncated
	}
	return result
}

// ToScheduler converts an optional API priority to a queue priority.
// Missing priorities default to normal.
func (p *Priority) ToScheduler() (scheduler.Priority, error) {
	if p == nil || *p == "" {
		return scheduler.PriorityNormal, nil
	}
	return scheduler.ParsePriority(string(*p))
}
