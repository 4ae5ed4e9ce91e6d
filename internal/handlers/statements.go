package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/kubev2v/interface-queue/api/v1"
	"github.com/kubev2v/interface-queue/internal/services"
	"github.com/kubev2v/interface-queue/internal/util"
)

// ExecuteStatement runs a SQL statement through the queue. Asynchronous
// statements answer 202 as soon as they are queued.
// (POST /statements)
func (h *Handler) ExecuteStatement(c *gin.Context) {
	var body v1.ExecuteStatementJSONRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "body", "%v", err)
		return
	}

	priority, err := body.Priority.ToScheduler()
	if err != nil {
		badRequest(c, "priority", "%v", err)
		return
	}

	params := services.StatementParams{
		SQL:      body.Sql,
		Async:    util.Deref(body.Async, false),
		MaxRows:  util.Deref(body.MaxRows, 0),
		Priority: priority,
		Site:     site(c),
	}

	result, err := h.statementSrv.Execute(c.Request.Context(), params)
	if err != nil {
		fail(c, err, "failed to execute statement")
		return
	}

	if params.Async {
		c.JSON(http.StatusAccepted, v1.StatementAccepted{Accepted: true, RequestId: site(c)})
		return
	}
	c.JSON(http.StatusOK, v1.NewStatementResultFromModel(*result))
}
