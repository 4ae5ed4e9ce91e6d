package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/kubev2v/interface-queue/api/v1"
	"github.com/kubev2v/interface-queue/internal/util"
)

var taskStates = []v1.TaskState{v1.Queued, v1.Running, v1.Finished, v1.Failed}

// GetQueueStatus returns counters and limits of the queue
// (GET /queue)
func (h *Handler) GetQueueStatus(c *gin.Context) {
	var status v1.QueueStatus
	status.FromModel(h.queueSrv.Status())
	c.JSON(http.StatusOK, status)
}

// SetQueueLimit changes and persists the active task limit
// (PUT /queue/limit)
func (h *Handler) SetQueueLimit(c *gin.Context) {
	var body v1.SetQueueLimitJSONRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "body", "%v", err)
		return
	}

	if err := h.queueSrv.SetMaxActiveTasks(c.Request.Context(), body.MaxActiveTasks, site(c)); err != nil {
		fail(c, err, "failed to set max active tasks")
		return
	}

	var status v1.QueueStatus
	status.FromModel(h.queueSrv.Status())
	c.JSON(http.StatusOK, status)
}

// ListQueueTasks returns recent task events, newest first
// (GET /queue/tasks)
func (h *Handler) ListQueueTasks(c *gin.Context, params v1.ListQueueTasksParams) {
	limit := util.Deref(params.Limit, 0)
	if limit < 0 {
		badRequest(c, "limit", "must not be negative, got %d", limit)
		return
	}

	var states []v1.TaskState
	if params.State != nil {
		states = *params.State
	}
	for _, s := range states {
		if !util.Contains(taskStates, s) {
			badRequest(c, "state", "unknown task state %q", s)
			return
		}
	}

	events := h.queueSrv.History(limit, util.Strings(states)...)

	apiEvents := make([]v1.TaskEvent, 0, len(events))
	for _, e := range events {
		apiEvents = append(apiEvents, v1.NewTaskEventFromModel(e))
	}
	c.JSON(http.StatusOK, v1.TaskEventList{Events: apiEvents})
}

// ListQueueFailures returns failed background tasks, newest first
// (GET /queue/failures)
func (h *Handler) ListQueueFailures(c *gin.Context, params v1.ListQueueFailuresParams) {
	limit := util.Deref(params.Limit, defaultPageSize)
	if limit <= 0 {
		badRequest(c, "limit", "must be positive, got %d", limit)
		return
	}

	var subjects []string
	if params.Subject != nil {
		subjects = *params.Subject
	}

	failures, err := h.queueSrv.Failures(c.Request.Context(), uint64(limit), subjects...)
	if err != nil {
		fail(c, err, "failed to list task failures")
		return
	}

	apiFailures := make([]v1.TaskFailure, 0, len(failures))
	for _, f := range failures {
		apiFailures = append(apiFailures, v1.NewTaskFailureFromModel(f))
	}
	c.JSON(http.StatusOK, v1.TaskFailureList{Failures: apiFailures})
}
