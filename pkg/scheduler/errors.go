package scheduler

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRequest = errors.New("invalid task request")
	ErrInvalidLimit   = errors.New("max active tasks must be positive")
	ErrQueueClosed    = errors.New("interface queue closed")
	ErrQueueBroken    = errors.New("interface queue broken")
	ErrWaitTimeout    = errors.New("timed out waiting for task")
	ErrWorkPanicked   = errors.New("work panicked")
)

// InvariantViolation is the panic value raised when the queue's bookkeeping
// is inconsistent (counter underflow, double completion, illegal transition).
type InvariantViolation struct {
	Msg string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("interface queue invariant violated: %s", e.Msg)
}

func violation(format string, args ...any) *InvariantViolation {
	return &InvariantViolation{Msg: fmt.Sprintf(format, args...)}
}
