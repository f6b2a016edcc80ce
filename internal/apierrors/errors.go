package apierrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError indicates malformed or missing caller input. Never retried.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidation creates a ValidationError with a formatted message
func NewValidation(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError indicates a referenced gateway or target does not exist
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not found", e.Resource, e.ID)
}

// NewNotFound creates a NotFoundError for the given resource and identifier
func NewNotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// DuplicateResourceError indicates a name collision on a resource where
// idempotent reuse is intentionally disallowed (credential providers, targets)
type DuplicateResourceError struct {
	Resource string
	Name     string
	Hint     string
}

func (e *DuplicateResourceError) Error() string {
	msg := fmt.Sprintf("%s '%s' already exists", e.Resource, e.Name)
	if e.Hint != "" {
		msg += ": " + e.Hint
	}
	return msg
}

// NewDuplicate creates a DuplicateResourceError with a remediation hint
func NewDuplicate(resource, name, hint string) error {
	return &DuplicateResourceError{Resource: resource, Name: name, Hint: hint}
}

// DownloadError indicates an outbound descriptor fetch failed. The URL was
// caller-provided, so this surfaces as a 4xx.
type DownloadError struct {
	URL     string
	Message string
	Err     error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("failed to download OpenAPI spec from %s: %s", e.URL, e.Message)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

// AuthError indicates token issuance or OIDC discovery failed
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// UpstreamError wraps any other failure from a cloud collaborator
// (permissions, throttling, service fault). Surfaced as a 5xx with the
// underlying message attached.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// NewUpstream wraps an upstream provider failure with the failing operation
func NewUpstream(op string, err error) error {
	return &UpstreamError{Op: op, Err: err}
}

// Status maps a domain error to an HTTP status code
func Status(err error) int {
	var (
		validation *ValidationError
		notFound   *NotFoundError
		duplicate  *DuplicateResourceError
		download   *DownloadError
		auth       *AuthError
	)

	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &duplicate):
		return http.StatusConflict
	case errors.As(err, &download):
		return http.StatusBadRequest
	case errors.As(err, &auth):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
