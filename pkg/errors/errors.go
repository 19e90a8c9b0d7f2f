package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"
	ErrPermission   ErrorCode = "PERMISSION"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Protocol errors
	ErrProtocolNotFound ErrorCode = "PROTOCOL_NOT_FOUND"
	ErrProfileNotFound  ErrorCode = "PROFILE_NOT_FOUND"

	// Storage errors
	ErrBucketNotFound ErrorCode = "BUCKET_NOT_FOUND"
	ErrNotADirectory  ErrorCode = "NOT_A_DIRECTORY"
	ErrFileAccess     ErrorCode = "FILE_ACCESS"
)

// MegfileError represents a structured error with code and details
type MegfileError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *MegfileError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *MegfileError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *MegfileError) Is(target error) bool {
	var targetErr *MegfileError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new MegfileError with the given code and message
func New(code ErrorCode, message string) *MegfileError {
	return &MegfileError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new MegfileError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *MegfileError {
	return &MegfileError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a MegfileError
func Wrap(err error, code ErrorCode, message string) *MegfileError {
	if err == nil {
		return nil
	}
	return &MegfileError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *MegfileError {
	if err == nil {
		return nil
	}
	return &MegfileError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *MegfileError) WithDetail(key string, value interface{}) *MegfileError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *MegfileError) WithDetails(details map[string]interface{}) *MegfileError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var megfileErr *MegfileError
	if errors.As(err, &megfileErr) {
		return megfileErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a MegfileError
func GetErrorCode(err error) ErrorCode {
	var megfileErr *MegfileError
	if errors.As(err, &megfileErr) {
		return megfileErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a MegfileError
func GetErrorDetails(err error) map[string]interface{} {
	var megfileErr *MegfileError
	if errors.As(err, &megfileErr) {
		return megfileErr.Details
	}
	return nil
}
