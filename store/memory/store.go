// Package memory provides an in-memory Store for tests and ephemeral use.
package memory

import (
	"context"
	"sync"

	timebill "github.com/solobill/timebill"
	"github.com/solobill/timebill/entry"
	"github.com/solobill/timebill/id"
	"github.com/solobill/timebill/invoice"
	"github.com/solobill/timebill/settings"
	"github.com/solobill/timebill/store"
)

// compile-time interface check
var _ store.Store = (*Store)(nil)

// Store keeps all collections in process memory. The unbilled set and
// the invoice collection are ordered slices so logging and creation
// order survive round-trips, matching the persistent stores.
type Store struct {
	mu sync.RWMutex

	settings *settings.Settings
	unbilled []entry.TimeEntry
	invoices []invoice.Invoice

	closed bool
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{}
}

func (s *Store) SaveSettings(_ context.Context, st *settings.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return timebill.ErrStoreClosed
	}
	cp := *st
	s.settings = &cp
	return nil
}

func (s *Store) GetSettings(_ context.Context) (*settings.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, timebill.ErrStoreClosed
	}
	if s.settings == nil {
		return &settings.Settings{}, nil
	}
	cp := *s.settings
	return &cp, nil
}

func (s *Store) AppendUnbilled(_ context.Context, e *entry.TimeEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return timebill.ErrStoreClosed
	}
	s.unbilled = append(s.unbilled, *e)
	return nil
}

func (s *Store) ListUnbilled(_ context.Context) ([]*entry.TimeEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, timebill.ErrStoreClosed
	}
	out := make([]*entry.TimeEntry, len(s.unbilled))
	for i := range s.unbilled {
		cp := s.unbilled[i]
		out[i] = &cp
	}
	return out, nil
}

func (s *Store) ApplyBilling(_ context.Context, inv *invoice.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return timebill.ErrStoreClosed
	}

	billed := make(map[string]bool, len(inv.Items))
	for i := range inv.Items {
		billed[inv.Items[i].ID.String()] = true
	}

	// Verify before touching anything so a bad id leaves both
	// collections untouched.
	found := 0
	for i := range s.unbilled {
		if billed[s.unbilled[i].ID.String()] {
			found++
		}
	}
	if found != len(billed) {
		return timebill.ErrEntryNotFound
	}

	remaining := s.unbilled[:0:0]
	for i := range s.unbilled {
		if !billed[s.unbilled[i].ID.String()] {
			remaining = append(remaining, s.unbilled[i])
		}
	}
	s.unbilled = remaining
	s.invoices = append(s.invoices, *inv)
	return nil
}

func (s *Store) GetInvoice(_ context.Context, invID id.ID) (*invoice.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, timebill.ErrStoreClosed
	}
	for i := range s.invoices {
		if s.invoices[i].ID.String() == invID.String() {
			cp := s.invoices[i]
			return &cp, nil
		}
	}
	return nil, timebill.ErrInvoiceNotFound
}

func (s *Store) ListInvoices(_ context.Context, opts invoice.ListOpts) ([]*invoice.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, timebill.ErrStoreClosed
	}
	result := make([]*invoice.Invoice, 0)
	for i := range s.invoices {
		if opts.Matches(&s.invoices[i]) {
			cp := s.invoices[i]
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (s *Store) SetInvoicePaid(_ context.Context, invID id.ID, paid bool) (*invoice.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, timebill.ErrStoreClosed
	}
	for i := range s.invoices {
		if s.invoices[i].ID.String() == invID.String() {
			s.invoices[i].IsPaid = paid
			cp := s.invoices[i]
			return &cp, nil
		}
	}
	return nil, timebill.ErrInvoiceNotFound
}

// Migrate is a no-op for the in-memory store.
func (s *Store) Migrate(_ context.Context) error { return nil }

// Ping reports whether the store is usable.
func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return timebill.ErrStoreClosed
	}
	return nil
}

// Close marks the store closed; subsequent calls fail.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}
