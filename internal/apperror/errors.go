package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spendsight/backend/internal/dataset"
	"github.com/spendsight/backend/internal/repository"
)

// Sentinel errors for common cases
var (
	ErrNotFound   = errors.New("resource not found")
	ErrBadRequest = errors.New("bad request")
	ErrInternal   = errors.New("internal server error")
	ErrValidation = errors.New("validation error")
)

// AppError wraps errors with HTTP status and user-friendly message
type AppError struct {
	Err        error  // Original error (for logging)
	Message    string // User-friendly message
	StatusCode int    // HTTP status code
	Field      string // Optional field name for validation errors
}

func (e *AppError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource string) *AppError {
	return &AppError{
		Err:        ErrNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		StatusCode: http.StatusNotFound,
	}
}

func BadRequest(message string) *AppError {
	return &AppError{
		Err:        ErrBadRequest,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func ValidationError(field, message string) *AppError {
	return &AppError{
		Err:        ErrValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Field:      field,
	}
}

func Internal(err error) *AppError {
	return &AppError{
		Err:        err,
		Message:    "an internal error occurred",
		StatusCode: http.StatusInternalServerError,
	}
}

// FromError maps domain errors to their HTTP representation. "User not
// found" stays distinguishable from every other failure: the dataset and
// directory sentinels both become 404s, everything unrecognized a 500.
func FromError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var schemaErr *dataset.SchemaError
	switch {
	case errors.Is(err, dataset.ErrUserNotFound), errors.Is(err, repository.ErrUserNotFound):
		return NotFound("user")
	case errors.As(err, &schemaErr):
		return &AppError{Err: err, Message: "spending dataset is malformed", StatusCode: http.StatusInternalServerError}
	case errors.Is(err, dataset.ErrNotLoaded):
		return &AppError{Err: err, Message: "spending dataset not available", StatusCode: http.StatusServiceUnavailable}
	default:
		return Internal(err)
	}
}

// GetStatusCode extracts HTTP status from error, defaults to 500
func GetStatusCode(err error) int {
	return FromError(err).StatusCode
}

// GetMessage extracts user message from error
func GetMessage(err error) string {
	return FromError(err).Message
}
