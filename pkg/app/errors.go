package app

import (
	"errors"
	"fmt"
)

// ErrShutdown is returned when Run is called on an application that has
// already shut down
var ErrShutdown = errors.New("application has shut down")

// ErrorType represents different types of application errors
type ErrorType int

const (
	ErrorDevice ErrorType = iota
	ErrorInput
	ErrorConfig
	ErrorView
	ErrorHistory
)

// String returns the string representation of ErrorType
func (e ErrorType) String() string {
	types := []string{"device", "input", "config", "view", "history"}
	if int(e) < len(types) && e >= 0 {
		return types[e]
	}
	return "unknown"
}

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s", e.Type, e.Message, e.Cause.Error())
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new application error
func NewAppError(errorType ErrorType, code, message string, cause error) *AppError {
	return &AppError{
		Type:    errorType,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
