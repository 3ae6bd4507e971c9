package domain

import (
	"errors"
	"fmt"
)

// ErrServiceUnavailable means the store could not be reached or the breaker is open.
var ErrServiceUnavailable = errors.New("database not available")

// ValidationError reports a missing, conflicting or malformed request parameter.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// QueryExecutionError is returned when the backing store rejects or fails a catalog query.
type QueryExecutionError struct {
	Query string
	Err   error
}

func (e *QueryExecutionError) Error() string {
	return fmt.Sprintf("query %s: %v", e.Query, e.Err)
}

func (e *QueryExecutionError) Unwrap() error {
	return e.Err
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsQueryExecution(err error) bool {
	var q *QueryExecutionError
	return errors.As(err, &q)
}
