// Package entry defines the billable time entry model.
package entry

import (
	"strings"
	"time"

	"github.com/solobill/timebill/id"
)

// TimeEntry is a single logged interval of billable work. Entries are
// immutable once created; their billed/unbilled status is tracked by the
// ledger, not on the entry itself.
type TimeEntry struct {
	ID          id.ID     `json:"id"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Hours       float64   `json:"hours"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Draft is the caller-supplied input for logging a new time entry.
// The ledger assigns the ID and creation timestamp.
type Draft struct {
	Date        time.Time
	Description string
	Hours       float64
}

// FieldError describes a single invalid Draft field.
// The root package wraps it into its validation taxonomy.
type FieldError struct {
	Field   string
	Message string
}

// Validate checks the draft and returns the first offending field, or nil.
// Fractional hours are allowed; quarter-hour increments are conventional
// but not enforced.
func (d Draft) Validate() *FieldError {
	if strings.TrimSpace(d.Description) == "" {
		return &FieldError{Field: "description", Message: "must not be empty"}
	}
	if d.Hours <= 0 {
		return &FieldError{Field: "hours", Message: "must be greater than zero"}
	}
	if d.Date.IsZero() {
		return &FieldError{Field: "date", Message: "must be set"}
	}
	return nil
}
