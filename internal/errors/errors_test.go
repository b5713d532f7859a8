package errors

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

// -----------------------------------------------------------------------------
// Severity Tests
// -----------------------------------------------------------------------------

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityDebug, "debug"},
		{SeverityInfo, "info"},
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
		{SeverityCritical, "critical"},
		{Severity(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.severity.String(); got != tt.want {
				t.Errorf("Severity.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

// -----------------------------------------------------------------------------
// ProjectionError Tests
// -----------------------------------------------------------------------------

func TestProjectionKind_String(t *testing.T) {
	tests := []struct {
		kind ProjectionKind
		want string
	}{
		{KindInvalidTarget, "invalid_target"},
		{KindNegativeInput, "negative_input"},
		{KindOutOfRange, "out_of_range"},
		{ProjectionKind(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ProjectionKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestProjectionError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ProjectionError
		want string
	}{
		{
			name: "kind only",
			err:  NewProjectionError(KindInvalidTarget, "target must be below 1"),
			want: "projection error [kind=invalid_target]: target must be below 1",
		},
		{
			name: "field and value",
			err: NewProjectionError(KindNegativeInput, "count must be non-negative").
				WithField("present").WithValue(-1),
			want: "projection error [kind=negative_input, field=present, value=-1]: count must be non-negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProjectionError_Is(t *testing.T) {
	target := NewProjectionError(KindInvalidTarget, "bad target")
	negative := NewProjectionError(KindNegativeInput, "bad count")

	if !errors.Is(target, ErrInvalidTarget) {
		t.Error("invalid target error should match ErrInvalidTarget")
	}
	if errors.Is(target, ErrNegativeInput) {
		t.Error("invalid target error should not match ErrNegativeInput")
	}
	if !errors.Is(negative, ErrNegativeInput) {
		t.Error("negative input error should match ErrNegativeInput")
	}
	if !errors.Is(negative, ErrInvalidInput) {
		t.Error("projection errors should match ErrInvalidInput")
	}
	if !errors.Is(target, &ProjectionError{}) {
		t.Error("projection errors should match any *ProjectionError")
	}

	wrapped := fmt.Errorf("planning: %w", target)
	var projErr *ProjectionError
	if !errors.As(wrapped, &projErr) {
		t.Fatal("errors.As should find the wrapped ProjectionError")
	}
	if projErr.Kind != KindInvalidTarget {
		t.Errorf("Kind = %v, want %v", projErr.Kind, KindInvalidTarget)
	}
}

func TestProjectionError_Classification(t *testing.T) {
	err := NewProjectionError(KindOutOfRange, "too large")

	if IsRetryable(err) {
		t.Error("projection errors should not be retryable")
	}
	if !IsUserFacing(err) {
		t.Error("projection errors should be user facing")
	}
	if GetSeverity(err) != SeverityWarning {
		t.Errorf("GetSeverity() = %v, want %v", GetSeverity(err), SeverityWarning)
	}
	if !errors.Is(err, ErrOutOfRange) {
		t.Error("out of range error should match ErrOutOfRange")
	}
}

// -----------------------------------------------------------------------------
// PortalError Tests
// -----------------------------------------------------------------------------

func TestPortalError_WithStatusCode(t *testing.T) {
	tests := []struct {
		name         string
		code         int
		retryable    bool
		unauthorized bool
	}{
		{name: "ok", code: 200},
		{name: "bad request", code: 400},
		{name: "unauthorized", code: 401, unauthorized: true},
		{name: "forbidden", code: 403, unauthorized: true},
		{name: "rate limited", code: 429, retryable: true},
		{name: "server error", code: 500, retryable: true},
		{name: "bad gateway", code: 502, retryable: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewPortalError("fetch attendance", nil).WithStatusCode(tt.code)
			if got := IsRetryable(err); got != tt.retryable {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.retryable)
			}
			if got := errors.Is(err, ErrUnauthorized); got != tt.unauthorized {
				t.Errorf("errors.Is(err, ErrUnauthorized) = %v, want %v", got, tt.unauthorized)
			}
		})
	}
}

func TestPortalError_Error(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewPortalError("fetch summary", cause).
		WithEndpoint("/api/student/dashboard/attendance").
		WithStatusCode(502)

	want := "portal error [endpoint=/api/student/dashboard/attendance, status=502]: fetch summary: connection refused"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	bare := NewPortalError("login", nil)
	if got := bare.Error(); got != "portal error: login" {
		t.Errorf("Error() = %q, want %q", got, "portal error: login")
	}
}

func TestPortalError_KeepsExistingCause(t *testing.T) {
	err := NewPortalError("login", ErrMalformedResponse).WithStatusCode(401)
	if !errors.Is(err, ErrMalformedResponse) {
		t.Error("existing cause should be preserved")
	}
	if errors.Is(err, ErrUnauthorized) {
		t.Error("ErrUnauthorized should not replace an explicit cause")
	}
}

func TestPortalError_WithUserFacing(t *testing.T) {
	err := NewPortalError("decode data", ErrMalformedResponse)
	if !IsUserFacing(err) {
		t.Error("portal errors should be user facing by default")
	}
	err = err.WithUserFacing(false)
	if IsUserFacing(err) {
		t.Error("IsUserFacing() = true after WithUserFacing(false)")
	}
	if IsUserFacing(fmt.Errorf("fetch attendance: %w", err)) {
		t.Error("wrapping should not make the error user facing")
	}
	if got := GetSeverity(err); got != SeverityError {
		t.Errorf("GetSeverity() = %v, want %v", got, SeverityError)
	}
}

// -----------------------------------------------------------------------------
// Semantic Error Tests
// -----------------------------------------------------------------------------

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("course component", "KCS501:LECTURE")
	if got := err.Error(); got != "course component 'KCS501:LECTURE' not found" {
		t.Errorf("Error() = %q", got)
	}

	withCause := NewNotFoundError("course", "X").WithCause(ErrMalformedResponse)
	if !errors.Is(withCause, ErrMalformedResponse) {
		t.Error("NotFoundError should unwrap to its cause")
	}
	if !errors.Is(withCause, &NotFoundError{}) {
		t.Error("NotFoundError should match any *NotFoundError")
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("must be in (0, 100]").
		WithField("planner.target_percentage").
		WithValue(120)

	want := "validation error [field=planner.target_percentage, value=120]: must be in (0, 100]"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Error("ValidationError should match ErrInvalidInput")
	}
	if !IsUserFacing(err) {
		t.Error("ValidationError should be user facing")
	}
}

func TestTimeoutError(t *testing.T) {
	err := NewTimeoutError("fetching attendance", 15*time.Second)
	if got := err.Error(); got != "timeout error: fetching attendance (timeout: 15s)" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, ErrTimeout) {
		t.Error("TimeoutError should match ErrTimeout")
	}
	if !IsRetryable(err) {
		t.Error("TimeoutError should be retryable")
	}
}

// -----------------------------------------------------------------------------
// Helper Tests
// -----------------------------------------------------------------------------

func TestClassificationHelpers_PlainErrors(t *testing.T) {
	plain := errors.New("boom")

	if IsRetryable(plain) {
		t.Error("plain errors should not be retryable")
	}
	if IsUserFacing(plain) {
		t.Error("plain errors should not be user facing")
	}
	if GetSeverity(plain) != SeverityError {
		t.Errorf("GetSeverity(plain) = %v, want %v", GetSeverity(plain), SeverityError)
	}
	if GetSeverity(nil) != SeverityDebug {
		t.Errorf("GetSeverity(nil) = %v, want %v", GetSeverity(nil), SeverityDebug)
	}
	if !IsRetryable(fmt.Errorf("wrapped: %w", ErrTimeout)) {
		t.Error("errors wrapping ErrTimeout should be retryable")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "ctx") != nil {
		t.Error("Wrap(nil) should return nil")
	}
	if Wrapf(nil, "ctx %d", 1) != nil {
		t.Error("Wrapf(nil) should return nil")
	}

	err := Wrapf(ErrMissingToken, "fetch %s", "attendance")
	if err.Error() != "fetch attendance: no portal token" {
		t.Errorf("Wrapf() = %q", err.Error())
	}
	if !errors.Is(err, ErrMissingToken) {
		t.Error("wrapped error should match its cause")
	}
}
