package services

import (
	"errors"

	srvErrors "github.com/kubev2v/interface-queue/pkg/errors"
	"github.com/kubev2v/interface-queue/pkg/scheduler"
)

// queueError translates submission errors of the queue into service errors.
// Errors returned by the work itself pass through unchanged.
func queueError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, scheduler.ErrQueueClosed), errors.Is(err, scheduler.ErrQueueBroken):
		return srvErrors.NewUnavailableError(err)
	case errors.Is(err, scheduler.ErrInvalidRequest), errors.Is(err, scheduler.ErrInvalidLimit):
		return srvErrors.NewInvalidArgumentError("request", "%v", err)
	default:
		return err
	}
}

func request(priority scheduler.Priority, subject, description, site string) (scheduler.TaskRequest, error) {
	req, err := scheduler.NewTaskRequest(priority, subject, description, site)
	if err != nil {
		return scheduler.TaskRequest{}, srvErrors.NewInvalidArgumentError("priority", "%v", err)
	}
	return req, nil
}
