package errors

import (
	"errors"
	"fmt"
)

type ResourceNotFoundError struct {
	Kind string
	ID   string
}

func (e *ResourceNotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Kind)
	}
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func NewResourceNotFoundError(kind, id string) error {
	return &ResourceNotFoundError{Kind: kind, ID: id}
}

func NewConfigurationNotFoundError() error {
	return &ResourceNotFoundError{Kind: "configuration"}
}

func NewTableNotFoundError(schema, table string) error {
	return &ResourceNotFoundError{Kind: "table", ID: schema + "." + table}
}

func IsResourceNotFoundError(err error) bool {
	var e *ResourceNotFoundError
	return errors.As(err, &e)
}

type InvalidArgumentError struct {
	Field  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func NewInvalidArgumentError(field, format string, args ...any) error {
	return &InvalidArgumentError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func IsInvalidArgumentError(err error) bool {
	var e *InvalidArgumentError
	return errors.As(err, &e)
}

// UnavailableError is returned while the service cannot accept work, for
// instance during shutdown.
type UnavailableError struct {
	Reason error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("service unavailable: %v", e.Reason)
}

func (e *UnavailableError) Unwrap() error {
	return e.Reason
}

func NewUnavailableError(reason error) error {
	return &UnavailableError{Reason: reason}
}

func IsUnavailableError(err error) bool {
	var e *UnavailableError
	return errors.As(err, &e)
}
