package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"
)

// Common sentinel errors for quick checks
var (
	// ErrMissingReport is returned when no discovery report exists yet.
	ErrMissingReport = errors.New("discovery report missing")

	// ErrReceiverNotFound is returned when a receiver token matches nothing.
	ErrReceiverNotFound = errors.New("receiver not found")

	// ErrInvalidInput is returned when user input is invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTimeout is returned when an operation times out.
	ErrTimeout = errors.New("operation timeout")

	// ErrNotRunning is returned when stopping a coordinator that never started.
	ErrNotRunning = errors.New("not running")

	// ErrAlreadyRunning is returned when starting a coordinator twice.
	ErrAlreadyRunning = errors.New("already running")

	// ErrInternal is returned when an internal error occurs.
	ErrInternal = errors.New("internal error")
)

// Error is the base interface for all custom errors in the system.
// It extends the standard error interface with additional context.
type Error interface {
	error
	// Code returns the error code
	Code() string
	// Message returns the human-readable error message
	Message() string
	// Unwrap returns the underlying cause
	Unwrap() error
}

// BaseError provides a foundation for all typed errors.
type BaseError struct {
	code    string
	message string
	cause   error
	stack   []uintptr
}

// Error implements the error interface.
func (e *BaseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Code returns the error code.
func (e *BaseError) Code() string {
	return e.code
}

// Message returns the error message.
func (e *BaseError) Message() string {
	return e.message
}

// Unwrap returns the underlying cause.
func (e *BaseError) Unwrap() error {
	return e.cause
}

// Stack returns the captured stack trace.
func (e *BaseError) Stack() []uintptr {
	return e.stack
}

// captureStack captures the current stack trace.
func captureStack(skip int) []uintptr {
	const maxDepth = 32
	stack := make([]uintptr, maxDepth)
	n := runtime.Callers(skip+2, stack)
	return stack[:n]
}

// StackTrace returns a formatted stack trace string.
func (e *BaseError) StackTrace() string {
	if len(e.stack) == 0 {
		return ""
	}

	var buf strings.Builder
	frames := runtime.CallersFrames(e.stack)
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			fmt.Fprintf(&buf, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		}
		if !more {
			break
		}
	}
	return buf.String()
}

// ValidationError represents an input validation error.
type ValidationError struct {
	*BaseError
	Field string
	Value interface{}
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		BaseError: &BaseError{
			code:    CodeValidation,
			message: message,
			stack:   captureStack(1),
		},
		Field: field,
		Value: value,
	}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.message)
	}
	return fmt.Sprintf("validation error: %s", e.message)
}

// MissingReportError is returned when the discovery report file does not exist.
type MissingReportError struct {
	*BaseError
	Path string
}

// NewMissingReportError creates a new missing report error.
func NewMissingReportError(path string, cause error) *MissingReportError {
	return &MissingReportError{
		BaseError: &BaseError{
			code:    CodeMissingReport,
			message: "no discovery report exists",
			cause:   cause,
			stack:   captureStack(1),
		},
		Path: path,
	}
}

// Error implements the error interface.
func (e *MissingReportError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("no discovery report exists at '%s'", e.Path)
	}
	return e.message
}

// StaleReportError describes a report older than the configured threshold.
// It is advisory: callers log it and carry on.
type StaleReportError struct {
	*BaseError
	Path      string
	Age       time.Duration
	Threshold time.Duration
}

// NewStaleReportError creates a new stale report error.
func NewStaleReportError(path string, age, threshold time.Duration) *StaleReportError {
	return &StaleReportError{
		BaseError: &BaseError{
			code:    CodeStaleReport,
			message: "discovery report is stale",
			stack:   captureStack(1),
		},
		Path:      path,
		Age:       age,
		Threshold: threshold,
	}
}

// Error implements the error interface.
func (e *StaleReportError) Error() string {
	return fmt.Sprintf("old discovery report (%.1f seconds)", e.Age.Seconds())
}

// ReceiverNotFoundError is returned when no index, id or name matches a token.
type ReceiverNotFoundError struct {
	*BaseError
	Token string
}

// NewReceiverNotFoundError creates a new receiver not found error.
func NewReceiverNotFoundError(token string) *ReceiverNotFoundError {
	return &ReceiverNotFoundError{
		BaseError: &BaseError{
			code:    CodeReceiverNotFound,
			message: "receiver does not exist",
			stack:   captureStack(1),
		},
		Token: token,
	}
}

// Error implements the error interface.
func (e *ReceiverNotFoundError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("receiver '%s' does not exist", e.Token)
	}
	return e.message
}

// MalformedServiceError is returned for a service record that cannot become a peer.
type MalformedServiceError struct {
	*BaseError
	Service string
	Reason  string
}

// NewMalformedServiceError creates a new malformed service error.
func NewMalformedServiceError(service, reason string) *MalformedServiceError {
	message := "malformed service record"
	if reason != "" {
		message = fmt.Sprintf("malformed service record: %s", reason)
	}
	return &MalformedServiceError{
		BaseError: &BaseError{
			code:    CodeMalformedService,
			message: message,
			stack:   captureStack(1),
		},
		Service: service,
		Reason:  reason,
	}
}

// Error implements the error interface.
func (e *MalformedServiceError) Error() string {
	if e.Service != "" {
		return fmt.Sprintf("%s (service '%s')", e.message, e.Service)
	}
	return e.message
}

// PersistError represents a failure reading or writing the discovery report.
type PersistError struct {
	*BaseError
	Op   string
	Path string
}

// NewPersistError creates a new persist error.
func NewPersistError(op, path string, cause error) *PersistError {
	return &PersistError{
		BaseError: &BaseError{
			code:    CodePersist,
			message: fmt.Sprintf("failed to %s discovery report %s", op, path),
			cause:   cause,
			stack:   captureStack(1),
		},
		Op:   op,
		Path: path,
	}
}

// InternalError represents an internal error.
type InternalError struct {
	*BaseError
	Operation string
}

// NewInternalError creates a new internal error.
func NewInternalError(message string, cause error) *InternalError {
	if message == "" {
		message = "internal error"
	}
	return &InternalError{
		BaseError: &BaseError{
			code:    CodeInternal,
			message: message,
			cause:   cause,
			stack:   captureStack(1),
		},
	}
}

// WithOperation sets the operation context.
func (e *InternalError) WithOperation(op string) *InternalError {
	e.Operation = op
	return e
}

// ProtocolError represents a failed exchange with a remote peer.
type ProtocolError struct {
	*BaseError
	Operation  string
	StatusCode int
}

// NewProtocolError creates a new protocol error.
func NewProtocolError(operation string, statusCode int, cause error) *ProtocolError {
	message := fmt.Sprintf("%s failed", operation)
	if statusCode != 0 {
		message = fmt.Sprintf("%s failed with status %d", operation, statusCode)
	}
	return &ProtocolError{
		BaseError: &BaseError{
			code:    CodeProtocol,
			message: message,
			cause:   cause,
			stack:   captureStack(1),
		},
		Operation:  operation,
		StatusCode: statusCode,
	}
}

// TimeoutError represents a timeout error.
type TimeoutError struct {
	*BaseError
	Operation string
	Duration  string
}

// NewTimeoutError creates a new timeout error.
func NewTimeoutError(operation, duration string) *TimeoutError {
	message := "operation timeout"
	if operation != "" {
		message = fmt.Sprintf("%s timeout", operation)
	}
	return &TimeoutError{
		BaseError: &BaseError{
			code:    CodeTimeout,
			message: message,
			stack:   captureStack(1),
		},
		Operation: operation,
		Duration:  duration,
	}
}

// Wrap wraps an error with additional context.
// If the error is already one of our custom types, it preserves the type
// and adds the cause chain. Otherwise, it creates an InternalError.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	// If it's already our error type, wrap it
	if e, ok := err.(Error); ok {
		return &BaseError{
			code:    e.Code(),
			message: message,
			cause:   err,
			stack:   captureStack(1),
		}
	}

	// Otherwise create an internal error
	return &InternalError{
		BaseError: &BaseError{
			code:    CodeInternal,
			message: message,
			cause:   err,
			stack:   captureStack(1),
		},
	}
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// New creates a new error with a message.
func New(message string) error {
	return &BaseError{
		code:    CodeInternal,
		message: message,
		stack:   captureStack(1),
	}
}

// Newf creates a new error with a formatted message.
func Newf(format string, args ...interface{}) error {
	return New(fmt.Sprintf(format, args...))
}
