package errors

import (
	"errors"
	"testing"
)

func TestAnalyzerError_Error(t *testing.T) {
	cause := errors.New("boom")
	err := New(ExternalParseFailed, "engine rejected source", cause)

	got := err.Error()
	want := "[EXTERNAL_PARSE_FAILED] engine rejected source: boom"
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestExitCodes(t *testing.T) {
	tests := []struct {
		name string
		code ErrorCode
		want int
	}{
		{"usage", UsageError, ExitUsage},
		{"input missing", InputNotFound, ExitInputMissing},
		{"parse failed", ExternalParseFailed, ExitFailure},
		{"internal", InternalError, ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Newf(tt.code, "test")
			if got := err.ExitCode(); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExitCodeOf(t *testing.T) {
	if got := ExitCodeOf(nil); got != ExitOK {
		t.Errorf("ExitCodeOf(nil) = %d, want %d", got, ExitOK)
	}
	if got := ExitCodeOf(errors.New("plain")); got != ExitFailure {
		t.Errorf("ExitCodeOf(plain) = %d, want %d", got, ExitFailure)
	}
	if got := ExitCodeOf(Newf(UsageError, "missing arg")); got != ExitUsage {
		t.Errorf("ExitCodeOf(usage) = %d, want %d", got, ExitUsage)
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "file not found", "file not found"},
		{"newlines", "line one\nline two\r\nline three", "line one line two line three"},
		{"control chars", "bad\x00\x1bparse", "bad  parse"},
		{"leading trailing", "  padded \n", "padded"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.in); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
