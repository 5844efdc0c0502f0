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
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Configuration errors
	ErrConfigLoad     ErrorCode = "CONFIG_LOAD"
	ErrConfigParse    ErrorCode = "CONFIG_PARSE"
	ErrMissingPathKey ErrorCode = "MISSING_PATH_KEY"
	ErrUnknownOS      ErrorCode = "UNKNOWN_OS"
	ErrPathMapping    ErrorCode = "PATH_MAPPING"

	// Validation errors
	ErrSyntax           ErrorCode = "SYNTAX"
	ErrWildcardMismatch ErrorCode = "WILDCARD_MISMATCH"
	ErrBadExtension     ErrorCode = "BAD_EXTENSION"
	ErrNotDir           ErrorCode = "NOT_DIR"
	ErrDestConflict     ErrorCode = "DEST_CONFLICT"
	ErrUnknownApp       ErrorCode = "UNKNOWN_APPLICATION"

	// Execution errors
	ErrBadCommand        ErrorCode = "BAD_COMMAND"
	ErrMoveCommand       ErrorCode = "MOVE_COMMAND"
	ErrProgramFailed     ErrorCode = "PROGRAM_FAILED"
	ErrNoProgramOutput   ErrorCode = "NO_PROGRAM_OUTPUT"
	ErrExecutableMissing ErrorCode = "EXECUTABLE_MISSING"
	ErrTimeout           ErrorCode = "TIMEOUT"

	// FileSystem errors
	ErrFileAccess ErrorCode = "FILE_ACCESS"
	ErrFileWrite  ErrorCode = "FILE_WRITE"
	ErrDirCreate  ErrorCode = "DIR_CREATE"

	// Makelog errors
	ErrNoMakelog ErrorCode = "NO_MAKELOG"
)

// MakeError represents a structured error with code and details.
// Trace carries diagnostic text captured from an external process
// (usually its stderr) and is shown after the message.
type MakeError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Trace   string
	Wrapped error
}

// Error implements the error interface
func (e *MakeError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *MakeError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *MakeError) Is(target error) bool {
	var targetErr *MakeError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new MakeError with the given code and message
func New(code ErrorCode, message string) *MakeError {
	return &MakeError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new MakeError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *MakeError {
	return &MakeError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a MakeError
func Wrap(err error, code ErrorCode, message string) *MakeError {
	if err == nil {
		return nil
	}
	return &MakeError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *MakeError {
	if err == nil {
		return nil
	}
	return &MakeError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *MakeError) WithDetail(key string, value interface{}) *MakeError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithTrace attaches captured diagnostic output to the error
func (e *MakeError) WithTrace(trace string) *MakeError {
	e.Trace = trace
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var makeErr *MakeError
	if errors.As(err, &makeErr) {
		return makeErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a MakeError
func GetErrorCode(err error) ErrorCode {
	var makeErr *MakeError
	if errors.As(err, &makeErr) {
		return makeErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a MakeError
func GetErrorDetails(err error) map[string]interface{} {
	var makeErr *MakeError
	if errors.As(err, &makeErr) {
		return makeErr.Details
	}
	return nil
}

// GetTrace returns the trace of the outermost MakeError carrying one
func GetTrace(err error) string {
	for err != nil {
		var makeErr *MakeError
		if !errors.As(err, &makeErr) {
			return ""
		}
		if makeErr.Trace != "" {
			return makeErr.Trace
		}
		err = makeErr.Wrapped
	}
	return ""
}
