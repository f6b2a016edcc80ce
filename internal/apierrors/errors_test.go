package apierrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

// TestStatus_Mapping tests that each error kind maps to the expected HTTP status
func TestStatus_Mapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "validation error",
			err:      NewValidation("max_results must be between 1 and 1000, got %d", 0),
			expected: http.StatusBadRequest,
		},
		{
			name:     "not found error",
			err:      NewNotFound("gateway", "gw-123"),
			expected: http.StatusNotFound,
		},
		{
			name:     "duplicate resource error",
			err:      NewDuplicate("credential provider", "my-provider", "use a unique name"),
			expected: http.StatusConflict,
		},
		{
			name:     "download error",
			err:      &DownloadError{URL: "https://example.com/spec.json", Message: "status 404"},
			expected: http.StatusBadRequest,
		},
		{
			name:     "auth error",
			err:      &AuthError{Message: "token endpoint returned 401"},
			expected: http.StatusUnauthorized,
		},
		{
			name:     "upstream error",
			err:      NewUpstream("create gateway", errors.New("ThrottlingException")),
			expected: http.StatusInternalServerError,
		},
		{
			name:     "plain error",
			err:      errors.New("something broke"),
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Status(tt.err); got != tt.expected {
				t.Fatalf("Status() = %d, expected %d", got, tt.expected)
			}
		})
	}
}

// TestStatus_WrappedErrors tests that mapping survives fmt.Errorf wrapping
func TestStatus_WrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("registering tool: %w", NewDuplicate("target", "Weather", "use a unique name"))
	if got := Status(wrapped); got != http.StatusConflict {
		t.Fatalf("Status() on wrapped duplicate = %d, expected %d", got, http.StatusConflict)
	}
}

// TestUpstreamError_Unwrap tests that the underlying provider error is preserved
func TestUpstreamError_Unwrap(t *testing.T) {
	cause := errors.New("AccessDenied")
	err := NewUpstream("put role policy", cause)

	if !errors.Is(err, cause) {
		t.Fatal("expected errors.Is to find the underlying cause")
	}

	expected := "put role policy: AccessDenied"
	if err.Error() != expected {
		t.Fatalf("Error() = %q, expected %q", err.Error(), expected)
	}
}

// TestDuplicateResourceError_Hint tests the remediation hint formatting
func TestDuplicateResourceError_Hint(t *testing.T) {
	err := NewDuplicate("credential provider", "nasa-key", "use a unique name or manage provider updates out of band")
	msg := err.Error()

	if msg != "credential provider 'nasa-key' already exists: use a unique name or manage provider updates out of band" {
		t.Fatalf("unexpected message: %q", msg)
	}
}
