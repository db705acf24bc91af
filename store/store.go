// Package store defines the persistence capability consumed by the ledger.
package store

import (
	"context"

	"github.com/solobill/timebill/entry"
	"github.com/solobill/timebill/id"
	"github.com/solobill/timebill/invoice"
	"github.com/solobill/timebill/settings"
)

// Store is the unified storage interface for all timebill collections:
// the settings singleton, the unbilled entry set and the invoice list.
//
// Individual calls are synchronous and atomic in themselves, but the
// store is not transactional across calls — ApplyBilling exists so the
// ledger's billing transition (remove entries from the unbilled set,
// append the invoice) lands in one write.
type Store interface {
	// Settings singleton. GetSettings returns an empty value, not an
	// error, when nothing has been saved yet.
	SaveSettings(ctx context.Context, s *settings.Settings) error
	GetSettings(ctx context.Context) (*settings.Settings, error)

	// Unbilled entry set, in logging order.
	AppendUnbilled(ctx context.Context, e *entry.TimeEntry) error
	ListUnbilled(ctx context.Context) ([]*entry.TimeEntry, error)

	// ApplyBilling atomically removes every item of inv from the
	// unbilled set and appends inv to the invoice collection. On error
	// both collections are left exactly as they were.
	ApplyBilling(ctx context.Context, inv *invoice.Invoice) error

	// Invoice collection, in creation order.
	GetInvoice(ctx context.Context, invID id.ID) (*invoice.Invoice, error)
	ListInvoices(ctx context.Context, opts invoice.ListOpts) ([]*invoice.Invoice, error)
	SetInvoicePaid(ctx context.Context, invID id.ID, paid bool) (*invoice.Invoice, error)

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
