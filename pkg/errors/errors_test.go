package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestValidationError(t *testing.T) {
	tests := []struct {
		name          string
		field         string
		message       string
		value         interface{}
		expectedError string
	}{
		{
			name:          "with field",
			field:         "discovery.report_path",
			message:       "must not be empty",
			value:         "",
			expectedError: "validation error: discovery.report_path: must not be empty",
		},
		{
			name:          "without field",
			field:         "",
			message:       "invalid input",
			value:         nil,
			expectedError: "validation error: invalid input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewValidationError(tt.field, tt.message, tt.value)
			if err.Error() != tt.expectedError {
				t.Errorf("Expected error %q, got %q", tt.expectedError, err.Error())
			}
			if err.Code() != CodeValidation {
				t.Errorf("Expected code %q, got %q", CodeValidation, err.Code())
			}
			if err.Field != tt.field {
				t.Errorf("Expected field %q, got %q", tt.field, err.Field)
			}
		})
	}
}

func TestMissingReportError(t *testing.T) {
	cause := errors.New("stat: no such file")
	err := NewMissingReportError("/tmp/discover.json", cause)

	if err.Error() != "no discovery report exists at '/tmp/discover.json'" {
		t.Errorf("Unexpected message %q", err.Error())
	}
	if err.Code() != CodeMissingReport {
		t.Errorf("Expected code %q, got %q", CodeMissingReport, err.Code())
	}
	if !errors.Is(err, cause) {
		t.Errorf("Expected cause to be reachable through Unwrap")
	}
}

func TestStaleReportError(t *testing.T) {
	err := NewStaleReportError("/tmp/r.json", 61500*time.Millisecond, time.Minute)

	if err.Error() != "old discovery report (61.5 seconds)" {
		t.Errorf("Unexpected message %q", err.Error())
	}
	if !IsAdvisory(err.Code()) {
		t.Errorf("Expected stale report to be advisory")
	}
}

func TestReceiverNotFoundError(t *testing.T) {
	tests := []struct {
		name          string
		token         string
		expectedError string
	}{
		{"with token", "Bob", "receiver 'Bob' does not exist"},
		{"without token", "", "receiver does not exist"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewReceiverNotFoundError(tt.token)
			if err.Error() != tt.expectedError {
				t.Errorf("Expected error %q, got %q", tt.expectedError, err.Error())
			}
			if err.Code() != CodeReceiverNotFound {
				t.Errorf("Expected code %q, got %q", CodeReceiverNotFound, err.Code())
			}
		})
	}
}

func TestMalformedServiceError(t *testing.T) {
	err := NewMalformedServiceError("abc._airdrop._tcp.local.", "missing address")
	expected := "malformed service record: missing address (service 'abc._airdrop._tcp.local.')"
	if err.Error() != expected {
		t.Errorf("Expected error %q, got %q", expected, err.Error())
	}
}

func TestPersistError(t *testing.T) {
	cause := errors.New("permission denied")
	err := NewPersistError("write", "/root/r.json", cause)

	if err.Error() != "failed to write discovery report /root/r.json: permission denied" {
		t.Errorf("Unexpected message %q", err.Error())
	}
	if err.Op != "write" || err.Path != "/root/r.json" {
		t.Errorf("Unexpected fields %+v", err)
	}
}

func TestProtocolError(t *testing.T) {
	if got := NewProtocolError("discover", 403, nil).Error(); got != "discover failed with status 403" {
		t.Errorf("Unexpected message %q", got)
	}
	if got := NewProtocolError("ask", 0, errors.New("refused")).Error(); got != "ask failed: refused" {
		t.Errorf("Unexpected message %q", got)
	}
}

func TestTimeoutError(t *testing.T) {
	err := NewTimeoutError("discover", "10s")

	if err.Error() != "discover timeout" {
		t.Errorf("Expected 'discover timeout', got %q", err.Error())
	}
	if err.Duration != "10s" {
		t.Errorf("Expected duration 10s, got %q", err.Duration)
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		message      string
		expectedCode string
	}{
		{
			name:         "wrap standard error",
			err:          errors.New("original error"),
			message:      "additional context",
			expectedCode: CodeInternal,
		},
		{
			name:         "wrap custom error",
			err:          NewReceiverNotFoundError("Bob"),
			message:      "resolving receiver",
			expectedCode: CodeReceiverNotFound,
		},
		{
			name:         "wrap nil error",
			err:          nil,
			message:      "should return nil",
			expectedCode: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := Wrap(tt.err, tt.message)
			if tt.err == nil {
				if wrapped != nil {
					t.Errorf("Expected nil, got %v", wrapped)
				}
				return
			}

			var customErr Error
			if !errors.As(wrapped, &customErr) {
				t.Fatalf("Expected wrapped error to implement Error interface")
			}
			if customErr.Code() != tt.expectedCode {
				t.Errorf("Expected code %q, got %q", tt.expectedCode, customErr.Code())
			}
			if !strings.Contains(wrapped.Error(), tt.message) {
				t.Errorf("Expected error to contain %q, got %q", tt.message, wrapped.Error())
			}
		})
	}
}

func TestErrorChaining(t *testing.T) {
	root := errors.New("disk full")
	level1 := NewPersistError("write", "/tmp/r.json", root)
	level2 := Wrap(level1, "flushing catalog")
	level3 := Wrap(level2, "stopping discovery")

	if !errors.Is(level3, root) {
		t.Errorf("Expected error chain to preserve root cause")
	}
	if !IsPersist(level3) {
		t.Errorf("Expected IsPersist to see through wrapping")
	}
	if Cause(level3) != root {
		t.Errorf("Expected Cause to return the root error")
	}
}

func TestStackTrace(t *testing.T) {
	err := NewInternalError("test error", nil)

	if len(err.Stack()) == 0 {
		t.Errorf("Expected stack trace to be captured")
	}

	trace := err.StackTrace()
	if !strings.Contains(trace, "TestStackTrace") {
		t.Errorf("Expected stack trace to contain test function name: %s", trace)
	}
}

func TestNewf(t *testing.T) {
	err := Newf("index %d out of range", 7)

	if err.Error() != "index 7 out of range" {
		t.Errorf("Unexpected message %q", err.Error())
	}
}

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrMissingReport", ErrMissingReport},
		{"ErrReceiverNotFound", ErrReceiverNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrTimeout", ErrTimeout},
		{"ErrNotRunning", ErrNotRunning},
		{"ErrAlreadyRunning", ErrAlreadyRunning},
		{"ErrInternal", ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("wrapped: %w", tt.err)
			if !errors.Is(wrapped, tt.err) {
				t.Errorf("Expected errors.Is to work with sentinel error")
			}
		})
	}
}
