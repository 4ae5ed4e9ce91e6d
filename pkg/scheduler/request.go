package scheduler

import (
	"fmt"
	"strings"
)

// Priority orders pending tasks. Higher values are dispatched first.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
	PriorityUrgent
)

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	case PriorityUrgent:
		return "urgent"
	default:
		return fmt.Sprintf("priority(%d)", int(p))
	}
}

func (p Priority) Valid() bool {
	return p >= PriorityLow && p <= PriorityUrgent
}

func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return PriorityLow, nil
	case "", "normal":
		return PriorityNormal, nil
	case "high":
		return PriorityHigh, nil
	case "urgent":
		return PriorityUrgent, nil
	default:
		return PriorityNormal, fmt.Errorf("%w: unknown priority %q", ErrInvalidRequest, s)
	}
}

// TaskRequest describes a submission. It is a value type with unexported
// fields so it cannot change after NewTaskRequest returns.
type TaskRequest struct {
	priority    Priority
	subject     string
	description string
	site        string
}

// NewTaskRequest builds a request. subject, description and site are never
// interpreted by the queue; site is passed through for caller-side correlation.
func NewTaskRequest(priority Priority, subject, description, site string) (TaskRequest, error) {
	if !priority.Valid() {
		return TaskRequest{}, fmt.Errorf("%w: %s", ErrInvalidRequest, priority)
	}
	return TaskRequest{
		priority:    priority,
		subject:     subject,
		description: description,
		site:        site,
	}, nil
}

// MustTaskRequest is NewTaskRequest for callers using constant priorities.
func MustTaskRequest(priority Priority, subject, description, site string) TaskRequest {
	r, err := NewTaskRequest(priority, subject, description, site)
	if err != nil {
		panic(err)
	}
	return r
}

func (r TaskRequest) Priority() Priority  { return r.priority }
func (r TaskRequest) Subject() string     { return r.subject }
func (r TaskRequest) Description() string { return r.description }
func (r TaskRequest) Site() string        { return r.site }

func (r TaskRequest) valid() bool {
	return r.priority.Valid()
}
