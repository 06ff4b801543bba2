package ledger

import (
	"errors"
	"fmt"
)

// Common ledger errors
var (
	// ErrCustomerNameRequired is returned when a draft is saved without a
	// customer name.
	ErrCustomerNameRequired = errors.New("customer name is required")

	// ErrItemRequired is returned when a draft is saved with no line items.
	ErrItemRequired = errors.New("invoice needs at least one item")

	// ErrInvoiceNotFound is returned when an operation references a saved
	// invoice that does not exist.
	ErrInvoiceNotFound = errors.New("invoice not found")

	// ErrInvalidStatus is returned when a status update names a status that
	// cannot be stored on an invoice.
	ErrInvalidStatus = errors.New("invalid invoice status")
)

// ValidationError wraps a save-time validation failure with the offending
// field and a user-facing message. Callers match the underlying sentinel
// with errors.Is while the UI shows Message verbatim.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %v", e.Field, e.Err)
}

// Unwrap returns the underlying sentinel for error matching.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

func newValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: err}
}
