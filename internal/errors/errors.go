// Package errors provides centralized error definitions and error handling utilities
// for bunkplan. It defines the projector's error conditions, failures reported by
// the attendance portal, semantic error types and classification helpers.
//
// # Error Types
//
// Domain-specific errors:
//   - ProjectionError: invalid arguments passed to the attendance projector
//   - PortalError: failures talking to the external attendance portal
//
// Semantic errors:
//   - NotFoundError: resource not found (e.g. an unknown course component)
//   - ValidationError: invalid input or configuration
//   - TimeoutError: operation timed out
//
// # Usage
//
//	err := errors.NewProjectionError(errors.KindInvalidTarget, "target must be below 1").
//		WithField("target").WithValue(1.0)
//
//	if errors.Is(err, errors.ErrInvalidTarget) { ... }
//
//	var portalErr *errors.PortalError
//	if errors.As(err, &portalErr) && portalErr.StatusCode == 401 { ... }
//
//	if errors.IsUserFacing(err) { ... }
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Projection sentinel errors
var (
	// ErrInvalidTarget indicates a target ratio outside (0, 1], or a target of 1
	// where the computation has no finite answer.
	ErrInvalidTarget = New("invalid target")
	// ErrNegativeInput indicates a negative lecture count or scenario delta.
	ErrNegativeInput = New("negative input")
	// ErrOutOfRange indicates a projection too large to represent as a count.
	ErrOutOfRange = New("projection out of range")
)

// Portal sentinel errors
var (
	// ErrUnauthorized indicates the portal rejected the session token.
	ErrUnauthorized = New("portal session rejected")
	// ErrMissingToken indicates an operation needed a token and none was given.
	ErrMissingToken = New("no portal token")
	// ErrMalformedResponse indicates the portal answered with an unexpected body.
	ErrMalformedResponse = New("malformed portal response")
)

// General sentinel errors
var (
	ErrTimeout      = New("operation timed out")
	ErrCanceled     = New("operation canceled")
	ErrInvalidInput = New("invalid input")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// BunkplanError is the base interface for all bunkplan errors.
type BunkplanError interface {
	error
	Unwrap() error
	Is(target error) bool
	Severity() Severity
	// IsRetryable reports whether repeating the operation may succeed.
	IsRetryable() bool
	// IsUserFacing reports whether the message is safe to print to users.
	IsUserFacing() bool
}

type baseError struct {
	message    string
	cause      error
	severity   Severity
	retryable  bool
	userFacing bool
}

func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *baseError) Unwrap() error { return e.cause }

func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

func (e *baseError) Severity() Severity { return e.severity }
func (e *baseError) IsRetryable() bool  { return e.retryable }
func (e *baseError) IsUserFacing() bool { return e.userFacing }

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// ProjectionKind classifies a ProjectionError.
type ProjectionKind int

const (
	// KindInvalidTarget: target ratio outside (0, 1] or unusable for the operation.
	KindInvalidTarget ProjectionKind = iota
	// KindNegativeInput: a count or delta below zero.
	KindNegativeInput
	// KindOutOfRange: the answer does not fit in an int.
	KindOutOfRange
)

// String returns the string representation of the kind.
func (k ProjectionKind) String() string {
	switch k {
	case KindInvalidTarget:
		return "invalid_target"
	case KindNegativeInput:
		return "negative_input"
	case KindOutOfRange:
		return "out_of_range"
	default:
		return "unknown"
	}
}

func (k ProjectionKind) sentinel() error {
	switch k {
	case KindInvalidTarget:
		return ErrInvalidTarget
	case KindNegativeInput:
		return ErrNegativeInput
	case KindOutOfRange:
		return ErrOutOfRange
	default:
		return nil
	}
}

// ProjectionError reports an argument the attendance projector refuses.
//
// Example:
//
//	err := errors.NewProjectionError(errors.KindNegativeInput, "count must be non-negative").
//		WithField("present").WithValue(-1)
//	fmt.Println(err) // "projection error [kind=negative_input, field=present, value=-1]: count must be non-negative"
type ProjectionError struct {
	baseError
	Kind  ProjectionKind
	Field string
	Value any
}

// NewProjectionError creates a new ProjectionError of the given kind.
func NewProjectionError(kind ProjectionKind, message string) *ProjectionError {
	return &ProjectionError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
		Kind: kind,
	}
}

// WithField adds the offending argument name to the error context.
func (e *ProjectionError) WithField(field string) *ProjectionError {
	e.Field = field
	return e
}

// WithValue adds the offending argument value to the error context.
func (e *ProjectionError) WithValue(value any) *ProjectionError {
	e.Value = value
	return e
}

// Error returns the formatted error message.
func (e *ProjectionError) Error() string {
	parts := []string{fmt.Sprintf("kind=%s", e.Kind)}
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}
	return fmt.Sprintf("projection error [%s]: %s", strings.Join(parts, ", "), e.message)
}

// Is matches any *ProjectionError, the sentinel for its kind and ErrInvalidInput.
func (e *ProjectionError) Is(target error) bool {
	if _, ok := target.(*ProjectionError); ok {
		return true
	}
	if target == ErrInvalidInput {
		return true
	}
	if s := e.Kind.sentinel(); s != nil && target == s {
		return true
	}
	return e.baseError.Is(target)
}

// PortalError represents a failed exchange with the attendance portal.
//
// Example:
//
//	err := errors.NewPortalError("fetch attendance", cause).
//		WithEndpoint("/api/attendance/course/component/student").
//		WithStatusCode(502)
type PortalError struct {
	baseError
	Endpoint   string
	StatusCode int
}

// NewPortalError creates a new PortalError.
func NewPortalError(message string, cause error) *PortalError {
	return &PortalError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			retryable:  false,
			userFacing: true,
		},
	}
}

// WithEndpoint adds the request path to the error context.
func (e *PortalError) WithEndpoint(endpoint string) *PortalError {
	e.Endpoint = endpoint
	return e
}

// WithStatusCode records the HTTP status. 5xx and 429 responses become retryable;
// 401 and 403 are tied to ErrUnauthorized unless another cause is already set.
func (e *PortalError) WithStatusCode(code int) *PortalError {
	e.StatusCode = code
	switch {
	case code == http.StatusTooManyRequests || code >= 500:
		e.retryable = true
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		if e.cause == nil {
			e.cause = ErrUnauthorized
		}
	}
	return e
}

// WithRetryable sets whether the error is retryable.
func (e *PortalError) WithRetryable(r bool) *PortalError {
	e.retryable = r
	return e
}

// WithUserFacing sets whether the message is safe to print to users.
// Responses the client could not decode carry raw parser output and are not.
func (e *PortalError) WithUserFacing(u bool) *PortalError {
	e.userFacing = u
	return e
}

// Error returns the formatted error message.
func (e *PortalError) Error() string {
	var parts []string
	if e.Endpoint != "" {
		parts = append(parts, fmt.Sprintf("endpoint=%s", e.Endpoint))
	}
	if e.StatusCode != 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}

	prefix := "portal error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("portal error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *PortalError) Is(target error) bool {
	if _, ok := target.(*PortalError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// NotFoundError represents a resource that could not be found.
//
// Example:
//
//	err := errors.NewNotFoundError("course component", "KCS501:LECTURE")
//	fmt.Println(err) // "course component 'KCS501:LECTURE' not found"
type NotFoundError struct {
	baseError
	ResourceType string
	ResourceID   string
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			message:    fmt.Sprintf("%s '%s' not found", resourceType, resourceID),
			severity:   SeverityWarning,
			userFacing: true,
		},
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
}

// WithCause adds a cause to the error.
func (e *NotFoundError) WithCause(cause error) *NotFoundError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *NotFoundError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s '%s' not found: %v", e.ResourceType, e.ResourceID, e.cause)
	}
	return fmt.Sprintf("%s '%s' not found", e.ResourceType, e.ResourceID)
}

// Is checks if this error matches the target.
func (e *NotFoundError) Is(target error) bool {
	if _, ok := target.(*NotFoundError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// ValidationError represents invalid input or state.
//
// Example:
//
//	err := errors.NewValidationError("target percentage must be in (0, 100]")
//	err = err.WithField("planner.target_percentage").WithValue(120)
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			userFacing: true,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// WithCause adds a cause to the error.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}

	prefix := "validation error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("validation error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	if errors.Is(target, ErrInvalidInput) {
		return true
	}
	return e.baseError.Is(target)
}

// TimeoutError represents an operation that timed out.
//
// Example:
//
//	err := errors.NewTimeoutError("fetching attendance", 15*time.Second)
//	fmt.Println(err) // "timeout error: fetching attendance (timeout: 15s)"
type TimeoutError struct {
	baseError
	Operation string
	Duration  time.Duration
}

// NewTimeoutError creates a new TimeoutError.
func NewTimeoutError(operation string, duration time.Duration) *TimeoutError {
	return &TimeoutError{
		baseError: baseError{
			message:    operation,
			severity:   SeverityWarning,
			retryable:  true,
			userFacing: true,
		},
		Operation: operation,
		Duration:  duration,
	}
}

// WithCause adds a cause to the error.
func (e *TimeoutError) WithCause(cause error) *TimeoutError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *TimeoutError) Error() string {
	base := fmt.Sprintf("timeout error: %s (timeout: %s)", e.Operation, e.Duration)
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", base, e.cause)
	}
	return base
}

// Is checks if this error matches the target.
func (e *TimeoutError) Is(target error) bool {
	if _, ok := target.(*TimeoutError); ok {
		return true
	}
	if errors.Is(target, ErrTimeout) {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsRetryable returns true if the error represents a transient condition
// that may succeed on retry.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var bpErr BunkplanError
	if As(err, &bpErr) {
		return bpErr.IsRetryable()
	}

	return Is(err, ErrTimeout)
}

// IsUserFacing returns true if the error message is safe to display to end users.
//
// Example:
//
//	if errors.IsUserFacing(err) {
//	    fmt.Fprintln(os.Stderr, err)
//	} else {
//	    fmt.Fprintln(os.Stderr, "an internal error occurred")
//	    logger.Error("internal error", "error", err.Error())
//	}
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	var bpErr BunkplanError
	if As(err, &bpErr) {
		return bpErr.IsUserFacing()
	}
	return false
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement BunkplanError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	var bpErr BunkplanError
	if As(err, &bpErr) {
		return bpErr.Severity()
	}
	return SeverityError
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap wraps an error with additional context message.
// Unlike fmt.Errorf with %w, this returns nil for a nil error.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
