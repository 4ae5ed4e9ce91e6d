package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	v1 "github.com/kubev2v/interface-queue/api/v1"
	"github.com/kubev2v/interface-queue/internal/services"
	srvErrors "github.com/kubev2v/interface-queue/pkg/errors"
	"github.com/kubev2v/interface-queue/pkg/scheduler"
)

// RequestIDHeader carries the caller's correlation id. It becomes the site
// of every task the request queues.
const RequestIDHeader = "X-Request-ID"

type Handler struct {
	queueSrv     *services.QueueService
	metadataSrv  *services.MetadataService
	statementSrv *services.StatementService
}

func New(queueSrv *services.QueueService, metadataSrv *services.MetadataService, statementSrv *services.StatementService) *Handler {
	return &Handler{
		queueSrv:     queueSrv,
		metadataSrv:  metadataSrv,
		statementSrv: statementSrv,
	}
}

var _ v1.ServerInterface = (*Handler)(nil)

// RequestID assigns a request id when the caller did not send one and
// echoes it in the response.
func RequestID(c *gin.Context) {
	id := c.GetHeader(RequestIDHeader)
	if id == "" {
		id = uuid.NewString()
		c.Request.Header.Set(RequestIDHeader, id)
	}
	c.Header(RequestIDHeader, id)
	c.Next()
}

// ErrorHandler renders parameter binding errors of the generated router.
func ErrorHandler(c *gin.Context, err error, status int) {
	c.JSON(status, v1.Error{Error: err.Error(), RequestId: requestID(c)})
}

func site(c *gin.Context) string {
	return c.GetHeader(RequestIDHeader)
}

func requestID(c *gin.Context) *string {
	if id := site(c); id != "" {
		return &id
	}
	return nil
}

// fail maps service errors to HTTP status codes. Unexpected errors are
// logged and reported with msg only.
func fail(c *gin.Context, err error, msg string) {
	status := http.StatusInternalServerError
	switch {
	case srvErrors.IsResourceNotFoundError(err):
		status = http.StatusNotFound
	case srvErrors.IsInvalidArgumentError(err):
		status = http.StatusBadRequest
	case srvErrors.IsUnavailableError(err):
		status = http.StatusServiceUnavailable
	case errors.Is(err, scheduler.ErrWaitTimeout), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}

	if status == http.StatusInternalServerError {
		zap.S().Named("handler").Errorw(msg, "path", c.FullPath(), "request_id", site(c), "error", err)
		c.JSON(status, v1.Error{Error: msg, RequestId: requestID(c)})
		return
	}
	c.JSON(status, v1.Error{Error: err.Error(), RequestId: requestID(c)})
}

func badRequest(c *gin.Context, field, format string, args ...any) {
	fail(c, srvErrors.NewInvalidArgumentError(field, format, args...), "")
}
