package billing

import (
	"errors"
	"fmt"
)

// Sentinel errors raised by the billing core and the services built on it.
// Handlers map these to HTTP statuses; the core never formats user-facing
// messages beyond the wrapped detail.
var (
	// ErrNotFound is returned when an entity does not exist under the
	// requesting user's ownership. Absent and foreign rows are
	// indistinguishable so that other tenants' data is never leaked.
	ErrNotFound = errors.New("not found")

	// ErrPolicyViolation is returned when an operation contradicts the
	// entity's lifecycle state, e.g. converting a quote that is not
	// accepted, or editing the items of a paid invoice.
	ErrPolicyViolation = errors.New("policy violation")

	// ErrConflict is returned when a uniqueness constraint
	// (quote/invoice number) is violated at the storage layer.
	ErrConflict = errors.New("conflict")

	// ErrValidation is returned for malformed input that slipped past
	// request binding.
	ErrValidation = errors.New("validation failed")
)

// PolicyError wraps ErrPolicyViolation with the rule that was broken.
type PolicyError struct {
	Rule string
}

func (e *PolicyError) Error() string {
	return fmt.Sprintf("policy violation: %s", e.Rule)
}

func (e *PolicyError) Unwrap() error {
	return ErrPolicyViolation
}

// NewPolicyError creates a PolicyError for the given rule description.
func NewPolicyError(rule string) error {
	return &PolicyError{Rule: rule}
}
