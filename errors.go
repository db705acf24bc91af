package timebill

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure scenarios.
var (
	// General errors
	ErrNotFound     = errors.New("timebill: not found")
	ErrInvalidInput = errors.New("timebill: invalid input")

	// Entry errors
	ErrEntryNotFound = errors.New("timebill: time entry not found or already billed")

	// Invoice errors
	ErrInvoiceNotFound = errors.New("timebill: invoice not found")
	ErrNoItems         = errors.New("timebill: invoice has no items")

	// Store errors
	ErrStoreClosed       = errors.New("timebill: store is closed")
	ErrTransactionFailed = errors.New("timebill: transaction failed")
	ErrCorruptData       = errors.New("timebill: corrupt persisted data")
)

// ValidationError represents a validation failure with details.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("timebill: validation failed for %s: %s", e.Field, e.Message)
}

// Is allows errors.Is(err, ErrInvalidInput) to match any ValidationError.
func (e ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrEntryNotFound) ||
		errors.Is(err, ErrInvoiceNotFound)
}

// IsValidation returns true if the error is a validation failure.
func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve) || errors.Is(err, ErrInvalidInput)
}
