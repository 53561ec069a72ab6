// Package apperr defines the error taxonomy shared by handlers, repositories,
// and the reconciliation engine. Handlers map these onto HTTP statuses in one
// place so repos and the engine stay transport-agnostic.
package apperr

import "errors"

var (
	// ErrAuthenticationRequired means no identity was presented (401).
	ErrAuthenticationRequired = errors.New("authentication required")

	// ErrForbidden means the identity is known but the role or base scope is
	// insufficient (403).
	ErrForbidden = errors.New("forbidden: insufficient role or scope")

	// ErrNotFound means a referenced base, equipment type, or user does not
	// exist (404).
	ErrNotFound = errors.New("not found")

	// ErrAmbiguousSelection means the dashboard filters resolved to zero or
	// more than one base/equipment type. The report refuses to guess (400).
	ErrAmbiguousSelection = errors.New("base or equipment type not found/ambiguous")
)

// ValidationError carries field-level messages for a 400 response.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "validation failed" }

// Validation builds a single-field ValidationError.
func Validation(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}
