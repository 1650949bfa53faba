package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeLoad represents dataset loading errors
	ErrorTypeLoad ErrorType = "load"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeRequest represents errors raised while serving a request
	ErrorTypeRequest ErrorType = "request"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// As lets errors.As reach the BaseError embedded in the typed errors below
func (e *BaseError) As(target any) bool {
	if t, ok := target.(**BaseError); ok {
		*t = e
		return true
	}
	return false
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Load Errors

// LoadReason says which stage of loading a dataset failed
type LoadReason string

const (
	LoadReasonMissing     LoadReason = "missing"
	LoadReasonUnreadable  LoadReason = "unreadable"
	LoadReasonUnsupported LoadReason = "unsupported format"
	LoadReasonNoTable     LoadReason = "no tabular structure"
	LoadReasonSchema      LoadReason = "missing required column"
)

// LoadError is returned when the tabular source cannot be turned into records.
// It is fatal at startup.
type LoadError struct {
	*BaseError
	Path   string
	Reason LoadReason
}

func NewLoadError(path string, reason LoadReason, err error) *LoadError {
	return &LoadError{
		BaseError: NewBaseError(ErrorTypeLoad, fmt.Sprintf("cannot load dataset %s (%s)", path, reason), err),
		Path:      path,
		Reason:    reason,
	}
}

// Config Errors

// ErrConfigValidationFailed is returned when configuration validation fails
type ErrConfigValidationFailed struct {
	*BaseError
	Field  string
	Reason string
}

func NewConfigValidationFailed(field, reason string) *ErrConfigValidationFailed {
	return &ErrConfigValidationFailed{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("config validation failed: %s - %s", field, reason), nil),
		Field:     field,
		Reason:    reason,
	}
}

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// Request Errors

// ErrRouteNotFound is returned for paths no handler is registered for
var ErrRouteNotFound = NewBaseError(ErrorTypeRequest, "not found", nil)

// Helper functions

// IsErrorType checks if an error, or any error it wraps, is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	var baseErr *BaseError
	if stderrors.As(err, &baseErr) {
		return baseErr.Type == errType
	}
	return false
}

// AsLoadError unwraps err to a *LoadError
func AsLoadError(err error) (*LoadError, bool) {
	var loadErr *LoadError
	if stderrors.As(err, &loadErr) {
		return loadErr, true
	}
	return nil, false
}
