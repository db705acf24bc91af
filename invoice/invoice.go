// Package invoice defines the invoice model and its query options.
package invoice

import (
	"time"

	"github.com/solobill/timebill/entry"
	"github.com/solobill/timebill/id"
	"github.com/solobill/timebill/types"
)

// Invoice is a frozen snapshot of billed time entries. Items, totals and
// the client fields never change after creation; IsPaid is the only
// mutable field.
//
// TotalHours and TotalAmount are kept in the persisted wire shape (plain
// decimal numbers); TotalAmount is derived from TotalHours times the rate
// captured at creation and never recomputed afterwards.
type Invoice struct {
	ID            id.ID             `json:"id"`
	Number        string            `json:"number"`
	Date          time.Time         `json:"date"`
	ClientName    string            `json:"clientName"`
	ClientAddress string            `json:"clientAddress"`
	Items         []entry.TimeEntry `json:"items"`
	TotalHours    float64           `json:"totalHours"`
	TotalAmount   float64           `json:"totalAmount"`
	IsPaid        bool              `json:"isPaid"`
	CreatedAt     time.Time         `json:"createdAt"`
}

// Total returns the invoice total as integer-cent Money.
func (inv *Invoice) Total(currency string) types.Money {
	return types.FromFloat(inv.TotalAmount, currency)
}

// CreateRequest is the input for billing a set of unbilled entries into
// a new invoice.
type CreateRequest struct {
	Number        string
	ClientName    string
	ClientAddress string
	EntryIDs      []id.ID
	Rate          types.Money // hourly rate frozen into the invoice total
}

// ListOpts filters invoice listings. The zero value matches everything.
type ListOpts struct {
	// Since is an inclusive lower bound on the invoice date.
	// The zero time means all time.
	Since time.Time
	// Paid, when set, keeps only invoices with a matching paid status.
	Paid *bool
}

// Matches reports whether inv passes the filter.
func (o ListOpts) Matches(inv *Invoice) bool {
	if !o.Since.IsZero() && inv.Date.Before(o.Since) {
		return false
	}
	if o.Paid != nil && inv.IsPaid != *o.Paid {
		return false
	}
	return true
}

// AllTime matches every invoice.
func AllTime() ListOpts { return ListOpts{} }

// YearToDate matches invoices dated on or after January 1 of now's year.
func YearToDate(now time.Time) ListOpts {
	return ListOpts{Since: time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())}
}

// LastNDays matches invoices dated within the past n days, inclusive.
func LastNDays(now time.Time, n int) ListOpts {
	return ListOpts{Since: now.AddDate(0, 0, -n)}
}

// Summary aggregates a filtered invoice list for reporting.
type Summary struct {
	Count       int
	TotalHours  float64
	TotalBilled types.Money
	TotalPaid   types.Money
}

// Summarize folds a list of invoices into a Summary.
func Summarize(invoices []*Invoice, currency string) Summary {
	s := Summary{
		TotalBilled: types.Zero(currency),
		TotalPaid:   types.Zero(currency),
	}
	for _, inv := range invoices {
		s.Count++
		s.TotalHours += inv.TotalHours
		s.TotalBilled = s.TotalBilled.Add(inv.Total(currency))
		if inv.IsPaid {
			s.TotalPaid = s.TotalPaid.Add(inv.Total(currency))
		}
	}
	return s
}
