// Package errors defines common error types for the application.
package errors

import (
	"errors"
	"fmt"
)

// Error codes for the application.
const (
	CodeUnknown        = "UNKNOWN_ERROR"
	CodeParseError     = "PARSE_ERROR"
	CodeLockfileError  = "LOCKFILE_ERROR"
	CodeSerializeError = "SERIALIZE_ERROR"
	CodeInvalidInput   = "INVALID_INPUT"
	CodeConfigError    = "CONFIG_ERROR"
	CodeWriteError     = "WRITE_ERROR"
)

// AppError represents an application error with a code and message.
type AppError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is checks if the error matches the target.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new AppError.
func New(code string, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with an AppError.
func Wrap(code string, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error instances.
var (
	ErrParseError     = New(CodeParseError, "parse error")
	ErrLockfileError  = New(CodeLockfileError, "lockfile error")
	ErrSerializeError = New(CodeSerializeError, "serialize error")
	ErrInvalidInput   = New(CodeInvalidInput, "invalid input")
	ErrConfigError    = New(CodeConfigError, "configuration error")
	ErrWriteError     = New(CodeWriteError, "write error")
)

// IsParseError checks if the error is an input parse error.
func IsParseError(err error) bool {
	return errors.Is(err, ErrParseError)
}

// IsLockfileError checks if the error is a lockfile error.
func IsLockfileError(err error) bool {
	return errors.Is(err, ErrLockfileError)
}

// IsSerializeError checks if the error is a serialization error.
func IsSerializeError(err error) bool {
	return errors.Is(err, ErrSerializeError)
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// GetErrorMessage extracts the error message from an error.
func GetErrorMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
