package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// UsageError indicates missing or invalid command arguments
	UsageError ErrorCode = "USAGE_ERROR"
	// InputNotFound indicates the source path does not resolve to a readable file
	InputNotFound ErrorCode = "INPUT_NOT_FOUND"
	// ExternalParseFailed indicates the structural parse engine rejected the source
	ExternalParseFailed ErrorCode = "EXTERNAL_PARSE_FAILED"
	// EngineUnavailable indicates no structural parse engine is configured or reachable.
	// This is recoverable: the analyzer falls back to heuristic extraction.
	EngineUnavailable ErrorCode = "ENGINE_UNAVAILABLE"
	// InternalError indicates unexpected failure during extraction or assembly
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// Exit codes form the process contract: a caller can distinguish a usage
// mistake from a missing input from a genuine parse/extraction failure.
const (
	ExitOK           = 0
	ExitFailure      = 1
	ExitUsage        = 2
	ExitInputMissing = 3
)

// AnalyzerError represents a cobscan error with a stable code and a cause
type AnalyzerError struct {
	Code    ErrorCode
	Message string
	cause   error // underlying error, not exported to JSON
}

// New creates a new AnalyzerError
func New(code ErrorCode, message string, cause error) *AnalyzerError {
	return &AnalyzerError{Code: code, Message: message, cause: cause}
}

// Newf creates a new AnalyzerError with a formatted message and no cause
func Newf(code ErrorCode, format string, args ...interface{}) *AnalyzerError {
	return &AnalyzerError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Error implements the error interface
func (e *AnalyzerError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AnalyzerError) Unwrap() error {
	return e.cause
}

// ExitCode maps an error code to its process exit code
func (e *AnalyzerError) ExitCode() int {
	switch e.Code {
	case UsageError:
		return ExitUsage
	case InputNotFound:
		return ExitInputMissing
	default:
		return ExitFailure
	}
}

// CodeOf extracts the error code from err, or InternalError for foreign errors
func CodeOf(err error) ErrorCode {
	if ae, ok := err.(*AnalyzerError); ok {
		return ae.Code
	}
	return InternalError
}

// ExitCodeOf extracts the exit code from err, or ExitFailure for foreign errors
func ExitCodeOf(err error) int {
	if err == nil {
		return ExitOK
	}
	if ae, ok := err.(*AnalyzerError); ok {
		return ae.ExitCode()
	}
	return ExitFailure
}

// Sanitize collapses a message to a single line and strips control
// characters so it can be embedded in the JSON error artifact. Quote
// escaping is left to the JSON encoder.
func Sanitize(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", " ")
	msg = strings.ReplaceAll(msg, "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")
	var b strings.Builder
	b.Grow(len(msg))
	for _, r := range msg {
		if r < 0x20 || r == 0x7f {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
