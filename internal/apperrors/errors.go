package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrForbidden indicates that the resolved session lacks the required capability.
var ErrForbidden = errors.New("forbidden")

// ErrNoChanges indicates that an edit contained no field that differs from the stored record.
var ErrNoChanges = errors.New("no changes detected")

// ErrUnsavedChanges indicates that an edit session cannot be closed without confirming discard.
var ErrUnsavedChanges = errors.New("unsaved changes")

// ErrConflict indicates that the resource is busy with another operation (e.g. a save in flight).
var ErrConflict = errors.New("conflict")

// ErrPrecondition indicates that an operation was short-circuited because a precondition was not met.
var ErrPrecondition = errors.New("precondition failed")

// ErrUpstream indicates that the upstream CRM or document API failed.
var ErrUpstream = errors.New("upstream request failed")

// ErrUnavailable indicates that the opportunity collection has never been loaded successfully.
var ErrUnavailable = errors.New("data unavailable")

// AppError carries an HTTP-ish status code and a user facing message alongside the cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}
