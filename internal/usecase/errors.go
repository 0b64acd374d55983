package usecase

import (
	"errors"
	"fmt"

	"hotel-booking/pkg/utils"
)

// Stable error kinds the boundary layer branches on. Services wrap these
// with context via fmt.Errorf("...: %w", ...); handlers unwrap with
// errors.Is / errors.As.
var (
	// ErrNotFound - unknown booking, hotel, user or payment intent.
	ErrNotFound = errors.New("not found")

	// ErrConflict - requested date range overlaps an active booking.
	ErrConflict = errors.New("room is not available for the selected dates")

	// ErrPermission - actor is neither the owner nor an admin.
	ErrPermission = errors.New("access denied")

	// ErrIllegalTransition - state machine guard rejected the change.
	ErrIllegalTransition = errors.New("illegal booking transition")

	// ErrTransientProvider - payment provider unreachable or timed out;
	// the caller may retry, no booking state was mutated.
	ErrTransientProvider = errors.New("payment provider unavailable")

	// ErrSecurity - webhook signature could not be verified. Never
	// retried, rejected before any lookup.
	ErrSecurity = errors.New("webhook signature verification failed")
)

// ValidationError carries field-level detail for malformed input.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", utils.FormatValidationErrors(e.Fields))
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}
