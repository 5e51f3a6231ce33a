package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
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
// ValidationRejection Tests
// -----------------------------------------------------------------------------

func TestValidationRejection_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ValidationRejection
		want string
	}{
		{
			name: "with file and constraint",
			err:  NewValidationRejection("a.exe", ErrUnsupportedType).WithConstraint("allowed: PDF"),
			want: "a.exe rejected: unsupported file type (allowed: PDF)",
		},
		{
			name: "without file name",
			err:  NewValidationRejection("", ErrFileTooLarge),
			want: "file rejected: file too large",
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

func TestValidationRejection_IsAndClassification(t *testing.T) {
	err := NewValidationRejection("big.pdf", ErrFileTooLarge).WithConstraint("maximum size is 16 MiB")

	if !Is(err, ErrFileTooLarge) {
		t.Error("expected errors.Is to match the cause sentinel")
	}
	if !Is(err, &ValidationRejection{}) {
		t.Error("expected errors.Is to match the type")
	}
	if err.Is(ErrFileTooLarge) {
		t.Error("Is should only match the type; the cause is reached through Unwrap")
	}
	if Is(err, ErrUnsupportedType) {
		t.Error("expected no match for a different sentinel")
	}
	if IsRetryable(err) {
		t.Error("validation rejections are not retryable")
	}
	if !IsUserFacing(err) {
		t.Error("validation rejections are user facing")
	}
	if got := UserMessage(err); got != "File too large: maximum size is 16 MiB" {
		t.Errorf("UserMessage() = %q", got)
	}
	if GetSeverity(err) != SeverityWarning {
		t.Errorf("GetSeverity() = %v, want warning", GetSeverity(err))
	}
}

// -----------------------------------------------------------------------------
// TransportError Tests
// -----------------------------------------------------------------------------

func TestTransportError_UserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *TransportError
		want string
	}{
		{
			name: "server message wins",
			err:  NewTransportError(OpUpload, ErrServerRejected).WithStatus(400).WithServerMessage("unsupported encoding"),
			want: "unsupported encoding",
		},
		{
			name: "generic upload message",
			err:  NewTransportError(OpUpload, ErrServerRejected).WithStatus(500),
			want: "Upload failed",
		},
		{
			name: "generic analyze message",
			err:  NewTransportError(OpAnalyze, errors.New("connection refused")),
			want: "Analysis failed",
		},
		{
			name: "unknown operation",
			err:  NewTransportError(Operation("other"), nil),
			want: "Request failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.UserMessage(); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
			if got := UserMessage(fmt.Errorf("wrapped: %w", tt.err)); got != tt.want {
				t.Errorf("package UserMessage() through wrap = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTransportError_Retryable(t *testing.T) {
	tests := []struct {
		status int
		want   bool
	}{
		{0, true},
		{400, false},
		{404, false},
		{429, true},
		{500, true},
		{503, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.status), func(t *testing.T) {
			err := NewTransportError(OpAnalyze, ErrServerRejected).WithStatus(tt.status)
			if got := IsRetryable(err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTransportError_Error(t *testing.T) {
	err := NewTransportError(OpUpload, ErrServerRejected).WithStatus(400).WithServerMessage("bad")
	want := "upload failed [status=400]: bad: server rejected request"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !Is(err, ErrServerRejected) {
		t.Error("expected errors.Is to reach the cause")
	}
	var te *TransportError
	if !As(fmt.Errorf("context: %w", err), &te) || te.StatusCode != 400 {
		t.Error("expected errors.As through a wrapped error")
	}
}

// -----------------------------------------------------------------------------
// PreconditionError Tests
// -----------------------------------------------------------------------------

func TestPreconditionError(t *testing.T) {
	err := NewPreconditionError("export", ErrNoSession)

	if !strings.Contains(err.Error(), "precondition violated") {
		t.Errorf("Error() = %q", err.Error())
	}
	if !Is(err, ErrNoSession) {
		t.Error("expected cause to match")
	}
	if GetSeverity(err) != SeverityCritical {
		t.Error("preconditions are critical")
	}
	if got := UserMessage(err); got != "Cannot export: no active session" {
		t.Errorf("UserMessage() = %q", got)
	}
}

// -----------------------------------------------------------------------------
// Helper Tests
// -----------------------------------------------------------------------------

func TestHelpers_PlainErrors(t *testing.T) {
	plain := errors.New("boom")

	if IsRetryable(plain) {
		t.Error("plain errors are not retryable")
	}
	if !IsRetryable(fmt.Errorf("upload: %w", ErrTimeout)) {
		t.Error("timeouts are retryable")
	}
	if IsUserFacing(plain) {
		t.Error("plain errors are not user facing")
	}
	if got := UserMessage(plain); got != "Something went wrong" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(nil); got != "" {
		t.Errorf("UserMessage(nil) = %q", got)
	}
	if GetSeverity(plain) != SeverityError {
		t.Error("plain errors default to SeverityError")
	}
	if GetSeverity(nil) != SeverityDebug {
		t.Error("nil errors have the lowest severity")
	}
}
