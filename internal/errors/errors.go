// Package errors provides centralized error definitions and error handling utilities
// for contractlens. It defines the failure taxonomy of the analysis workflow,
// sentinel errors, error constructors with context wrapping, and classification
// helpers used to decide what the user sees.
//
// # Error Types
//
// Workflow failures fall into three typed categories:
//   - ValidationRejection: a locally selected file violates type or size policy.
//     Never reaches the network.
//   - TransportError: a non-2xx response or network failure from the analysis
//     service. Recovered by returning to an interactive stage.
//   - PreconditionError: an operation was attempted without the Session or
//     AnalysisResult it requires. Indicates a state machine bug.
//
// Missing optional fields in an analysis payload are not errors at all; the
// renderer degrades to documented fallbacks.
//
// # Usage
//
//	err := errors.NewTransportError(errors.OpUpload, cause).WithStatus(400).WithServerMessage("unsupported encoding")
//	if errors.IsUserFacing(err) {
//	    notify(errors.UserMessage(err))
//	}
//
//	if errors.Is(err, errors.ErrNoSession) { ... }
//
//	var te *errors.TransportError
//	if errors.As(err, &te) { ... }
package errors

import (
	"errors"
	"fmt"
	"strings"
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
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for invariant violations.
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

// Validation sentinel errors
var (
	// ErrFileTooLarge indicates the file exceeds the upload size ceiling.
	ErrFileTooLarge = New("file too large")
	// ErrUnsupportedType indicates neither the media type nor the extension is allowed.
	ErrUnsupportedType = New("unsupported file type")
	// ErrEmptyFileName indicates a file without a name was selected.
	ErrEmptyFileName = New("empty file name")
)

// Workflow sentinel errors
var (
	// ErrNoSession indicates an operation needs a contract id that has not been assigned.
	ErrNoSession = New("no active session")
	// ErrNoAnalysis indicates an operation needs an analysis result that is not loaded.
	ErrNoAnalysis = New("no analysis loaded")
	// ErrNoFile indicates an upload was requested without a selected file.
	ErrNoFile = New("no file selected")
	// ErrSequenceBusy indicates an upload/analyze sequence is already in flight.
	ErrSequenceBusy = New("analysis already in progress")
	// ErrStaleResponse indicates a response arrived for a superseded sequence.
	ErrStaleResponse = New("stale response discarded")
	// ErrIllegalTransition indicates an event that the current stage does not accept.
	ErrIllegalTransition = New("illegal stage transition")
)

// Transport sentinel errors
var (
	// ErrServerRejected indicates the service answered with a non-2xx status.
	ErrServerRejected = New("server rejected request")
	// ErrMalformedResponse indicates the response body did not match the expected shape.
	ErrMalformedResponse = New("malformed response")
	// ErrTimeout indicates that an operation timed out.
	ErrTimeout = New("operation timed out")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// LensError is the base interface for all contractlens errors.
type LensError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsRetryable returns true if the operation may succeed when repeated.
	IsRetryable() bool

	// IsUserFacing returns true if the error message is safe to display.
	IsUserFacing() bool

	// UserMessage returns the short message shown in a notification.
	UserMessage() string
}

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	retryable  bool
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsRetryable returns whether the error is retryable.
func (e *baseError) IsRetryable() bool {
	return e.retryable
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// UserMessage returns the bare message without the cause chain.
func (e *baseError) UserMessage() string {
	return e.message
}

// -----------------------------------------------------------------------------
// ValidationRejection
// -----------------------------------------------------------------------------

// ValidationRejection reports a selected file that violates upload policy.
//
// Example:
//
//	err := errors.NewValidationRejection("contract.exe", errors.ErrUnsupportedType).
//	    WithConstraint("allowed types: PDF, DOCX, TXT")
//	fmt.Println(err) // "contract.exe rejected: unsupported file type (allowed types: PDF, DOCX, TXT)"
type ValidationRejection struct {
	baseError
	FileName   string
	Constraint string
}

// NewValidationRejection creates a ValidationRejection for the named file.
// The cause is one of the validation sentinels.
func NewValidationRejection(fileName string, cause error) *ValidationRejection {
	msg := "invalid file"
	if cause != nil {
		msg = cause.Error()
	}
	return &ValidationRejection{
		baseError: baseError{
			message:    msg,
			cause:      cause,
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
		FileName: fileName,
	}
}

// WithConstraint records the policy the file violated.
func (e *ValidationRejection) WithConstraint(constraint string) *ValidationRejection {
	e.Constraint = constraint
	return e
}

// Error returns the formatted error message.
func (e *ValidationRejection) Error() string {
	var b strings.Builder
	if e.FileName != "" {
		b.WriteString(e.FileName)
		b.WriteString(" rejected: ")
	} else {
		b.WriteString("file rejected: ")
	}
	b.WriteString(e.message)
	if e.Constraint != "" {
		b.WriteString(" (")
		b.WriteString(e.Constraint)
		b.WriteString(")")
	}
	return b.String()
}

// UserMessage names the violated constraint.
func (e *ValidationRejection) UserMessage() string {
	if e.Constraint == "" {
		return capitalize(e.message)
	}
	return fmt.Sprintf("%s: %s", capitalize(e.message), e.Constraint)
}

// Is matches any *ValidationRejection target. Sentinel causes are reached
// through Unwrap, not here.
func (e *ValidationRejection) Is(target error) bool {
	if _, ok := target.(*ValidationRejection); ok {
		return true
	}
	return false
}

// -----------------------------------------------------------------------------
// TransportError
// -----------------------------------------------------------------------------

// Operation names a remote call made by the client.
type Operation string

// Remote operations.
const (
	OpUpload        Operation = "upload"
	OpAnalyze       Operation = "analyze"
	OpExport        Operation = "export"
	OpClauseInsight Operation = "clause insight"
	OpTemplate      Operation = "template"
	OpHealth        Operation = "health"
)

// genericMessages are shown when the server gives no error text.
var genericMessages = map[Operation]string{
	OpUpload:        "Upload failed",
	OpAnalyze:       "Analysis failed",
	OpExport:        "Export failed",
	OpClauseInsight: "Clause analysis failed",
	OpTemplate:      "Template generation failed",
	OpHealth:        "Service unavailable",
}

// TransportError represents a failed call to the analysis service.
//
// Example:
//
//	err := errors.NewTransportError(errors.OpUpload, errors.ErrServerRejected).
//	    WithStatus(400).WithServerMessage("unsupported encoding")
//	fmt.Println(err) // "upload failed [status=400]: unsupported encoding: server rejected request"
type TransportError struct {
	baseError
	Operation     Operation
	StatusCode    int
	ServerMessage string
	Details       string
	RequestID     string
}

// NewTransportError creates a TransportError for the given operation.
// Network failures (cause without a status) are retryable.
func NewTransportError(op Operation, cause error) *TransportError {
	msg, ok := genericMessages[op]
	if !ok {
		msg = "Request failed"
	}
	return &TransportError{
		baseError: baseError{
			message:    msg,
			cause:      cause,
			severity:   SeverityError,
			retryable:  true,
			userFacing: true,
		},
		Operation: op,
	}
}

// WithStatus records the HTTP status. 4xx responses are not retryable.
func (e *TransportError) WithStatus(code int) *TransportError {
	e.StatusCode = code
	e.retryable = code == 0 || code >= 500 || code == 429
	return e
}

// WithServerMessage records the server's error field.
func (e *TransportError) WithServerMessage(msg string) *TransportError {
	e.ServerMessage = strings.TrimSpace(msg)
	return e
}

// WithDetails records the server's details field.
func (e *TransportError) WithDetails(details string) *TransportError {
	e.Details = details
	return e
}

// WithRequestID records the correlation id sent with the request.
func (e *TransportError) WithRequestID(id string) *TransportError {
	e.RequestID = id
	return e
}

// Error returns the formatted error message.
func (e *TransportError) Error() string {
	prefix := fmt.Sprintf("%s failed", e.Operation)
	if e.StatusCode != 0 {
		prefix = fmt.Sprintf("%s [status=%d]", prefix, e.StatusCode)
	}

	msg := e.ServerMessage
	if msg == "" {
		msg = e.message
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, msg, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, msg)
}

// UserMessage returns the server's error text if present, else a generic message.
func (e *TransportError) UserMessage() string {
	if e.ServerMessage != "" {
		return e.ServerMessage
	}
	return e.message
}

// Is matches any *TransportError target.
func (e *TransportError) Is(target error) bool {
	_, ok := target.(*TransportError)
	return ok
}

// -----------------------------------------------------------------------------
// PreconditionError
// -----------------------------------------------------------------------------

// PreconditionError reports an operation attempted without the state it needs.
// The state machine is supposed to make these unreachable.
type PreconditionError struct {
	baseError
	Operation string
}

// NewPreconditionError creates a PreconditionError. The cause is typically
// ErrNoSession, ErrNoAnalysis or ErrNoFile.
func NewPreconditionError(operation string, cause error) *PreconditionError {
	return &PreconditionError{
		baseError: baseError{
			message:    fmt.Sprintf("cannot %s", operation),
			cause:      cause,
			severity:   SeverityCritical,
			retryable:  false,
			userFacing: true,
		},
		Operation: operation,
	}
}

// Error returns the formatted error message.
func (e *PreconditionError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("precondition violated: %s: %v", e.message, e.cause)
	}
	return "precondition violated: " + e.message
}

// UserMessage returns a short explanation.
func (e *PreconditionError) UserMessage() string {
	if e.cause != nil {
		return fmt.Sprintf("Cannot %s: %v", e.Operation, e.cause)
	}
	return capitalize(e.message)
}

// Is matches any *PreconditionError target.
func (e *PreconditionError) Is(target error) bool {
	_, ok := target.(*PreconditionError)
	return ok
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsRetryable returns true if the error represents a transient condition.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var lensErr LensError
	if As(err, &lensErr) {
		return lensErr.IsRetryable()
	}

	return Is(err, ErrTimeout)
}

// IsUserFacing returns true if the error message is safe to display to end users.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	var lensErr LensError
	if As(err, &lensErr) {
		return lensErr.IsUserFacing()
	}
	return false
}

// UserMessage returns the text to show in a notification. Errors that are not
// user facing collapse to a generic message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var lensErr LensError
	if As(err, &lensErr) && lensErr.IsUserFacing() {
		return lensErr.UserMessage()
	}
	if Is(err, ErrTimeout) {
		return "The request timed out"
	}
	return "Something went wrong"
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement LensError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	var lensErr LensError
	if As(err, &lensErr) {
		return lensErr.Severity()
	}

	return SeverityError
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
