package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a pelvilog error code.
type ErrorCode string

const (
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST" // 400
	ErrNotFound       ErrorCode = "NOT_FOUND"       // 404
	ErrFileNotFound   ErrorCode = "FILE_NOT_FOUND"  // 404
	ErrEmptyInput     ErrorCode = "EMPTY_INPUT"     // 422
	ErrCancelled      ErrorCode = "CANCELLED"       // 499
	ErrInternal       ErrorCode = "INTERNAL"        // 500
)

// PelviError represents a structured error with code, status, and details.
type PelviError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *PelviError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *PelviError {
	return &PelviError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for when a record cannot be found.
func NewNotFound(id string) *PelviError {
	return &PelviError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("record not found: %s", id),
		Details: map[string]any{"id": id},
	}
}

// NewFileNotFound creates a 404 error for a missing import file.
func NewFileNotFound(path string) *PelviError {
	return &PelviError{
		Code:    ErrFileNotFound,
		Status:  404,
		Message: fmt.Sprintf("file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewEmptyInput creates a 422 error when an import file has no data rows.
func NewEmptyInput(path string) *PelviError {
	return &PelviError{
		Code:    ErrEmptyInput,
		Status:  422,
		Message: "csv file is empty or has no data rows",
		Details: map[string]any{"path": path},
	}
}

// NewCancelled creates a 499 error when the caller's context ends mid-operation.
func NewCancelled(op string) *PelviError {
	return &PelviError{
		Code:    ErrCancelled,
		Status:  499,
		Message: fmt.Sprintf("%s cancelled", op),
		Details: map[string]any{"operation": op},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
// The cause is kept in Details for logging, not in the message.
func NewInternal(err error) *PelviError {
	details := map[string]any{}
	if err != nil {
		details["internal_error"] = err.Error()
	}
	return &PelviError{
		Code:    ErrInternal,
		Status:  500,
		Message: "an internal error occurred",
		Details: details,
	}
}

// Is checks if err, or any error it wraps, is a PelviError with the given code.
func Is(err error, code ErrorCode) bool {
	var pErr *PelviError
	if stderrors.As(err, &pErr) {
		return pErr.Code == code
	}
	return false
}

// As returns the PelviError in err's chain, if any.
func As(err error) (*PelviError, bool) {
	var pErr *PelviError
	ok := stderrors.As(err, &pErr)
	return pErr, ok
}
