// Package file provides a Store persisted as a single JSON snapshot
// document. Every mutation rewrites the whole snapshot atomically (temp
// file + rename), which is what makes the multi-collection billing
// transition a single durable write.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
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

// snapshot is the persisted document. The three keys mirror the classic
// browser-storage layout of the data.
type snapshot struct {
	UserSettings  settings.Settings `json:"userSettings"`
	UnbilledItems []entry.TimeEntry `json:"unbilledItems"`
	Invoices      []invoice.Invoice `json:"invoices"`
}

// Store keeps the working copy in memory and writes the snapshot through
// on every mutation.
type Store struct {
	mu   sync.RWMutex
	path string
	snap snapshot

	loaded bool
	closed bool
}

// New creates a file store at path. The file is created on first write;
// call Migrate (or Ledger.Start) to load an existing snapshot.
func New(path string) *Store {
	return &Store{path: path}
}

// Migrate loads the snapshot from disk. A missing file yields an empty
// snapshot; a malformed file is backed up and reported as corrupt rather
// than propagating partial data.
func (s *Store) Migrate(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return timebill.ErrStoreClosed
	}

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.snap = snapshot{}
		s.loaded = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("file store: reading %s: %w", s.path, err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		// Back up the corrupt file so the user can recover it by hand.
		backup := s.path + ".corrupt"
		_ = os.Rename(s.path, backup)
		return fmt.Errorf("file store: %s (backed up to %s): %w: %v",
			s.path, backup, timebill.ErrCorruptData, err)
	}

	s.snap = snap
	s.loaded = true
	return nil
}

// flush writes the snapshot atomically: marshal, write a temp file in
// the same directory, rename over the target. Callers hold s.mu.
func (s *Store) flush() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("file store: creating directories: %w", err)
	}

	data, err := json.MarshalIndent(s.snap, "", "  ")
	if err != nil {
		return fmt.Errorf("file store: marshalling snapshot: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("file store: writing temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("file store: renaming temp file: %w", err)
	}
	return nil
}

func (s *Store) ready() error {
	if s.closed {
		return timebill.ErrStoreClosed
	}
	if !s.loaded {
		return fmt.Errorf("file store: %w: Migrate not run", timebill.ErrTransactionFailed)
	}
	return nil
}

func (s *Store) SaveSettings(_ context.Context, st *settings.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(); err != nil {
		return err
	}

	prev := s.snap.UserSettings
	s.snap.UserSettings = *st
	if err := s.flush(); err != nil {
		s.snap.UserSettings = prev
		return err
	}
	return nil
}

func (s *Store) GetSettings(_ context.Context) (*settings.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.ready(); err != nil {
		return nil, err
	}
	cp := s.snap.UserSettings
	return &cp, nil
}

func (s *Store) AppendUnbilled(_ context.Context, e *entry.TimeEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(); err != nil {
		return err
	}

	s.snap.UnbilledItems = append(s.snap.UnbilledItems, *e)
	if err := s.flush(); err != nil {
		s.snap.UnbilledItems = s.snap.UnbilledItems[:len(s.snap.UnbilledItems)-1]
		return err
	}
	return nil
}

func (s *Store) ListUnbilled(_ context.Context) ([]*entry.TimeEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.ready(); err != nil {
		return nil, err
	}
	out := make([]*entry.TimeEntry, len(s.snap.UnbilledItems))
	for i := range s.snap.UnbilledItems {
		cp := s.snap.UnbilledItems[i]
		out[i] = &cp
	}
	return out, nil
}

func (s *Store) ApplyBilling(_ context.Context, inv *invoice.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(); err != nil {
		return err
	}

	billed := make(map[string]bool, len(inv.Items))
	for i := range inv.Items {
		billed[inv.Items[i].ID.String()] = true
	}

	found := 0
	remaining := make([]entry.TimeEntry, 0, len(s.snap.UnbilledItems))
	for i := range s.snap.UnbilledItems {
		if billed[s.snap.UnbilledItems[i].ID.String()] {
			found++
			continue
		}
		remaining = append(remaining, s.snap.UnbilledItems[i])
	}
	if found != len(billed) {
		return timebill.ErrEntryNotFound
	}

	// Stage both collection changes, then land them in one file write.
	// A failed write restores the in-memory snapshot to the pre-call
	// state, so callers never observe a half-applied billing.
	prevUnbilled, prevInvoices := s.snap.UnbilledItems, s.snap.Invoices
	s.snap.UnbilledItems = remaining
	s.snap.Invoices = append(s.snap.Invoices, *inv)
	if err := s.flush(); err != nil {
		s.snap.UnbilledItems, s.snap.Invoices = prevUnbilled, prevInvoices
		return err
	}
	return nil
}

func (s *Store) GetInvoice(_ context.Context, invID id.ID) (*invoice.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.ready(); err != nil {
		return nil, err
	}
	for i := range s.snap.Invoices {
		if s.snap.Invoices[i].ID.String() == invID.String() {
			cp := s.snap.Invoices[i]
			return &cp, nil
		}
	}
	return nil, timebill.ErrInvoiceNotFound
}

func (s *Store) ListInvoices(_ context.Context, opts invoice.ListOpts) ([]*invoice.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.ready(); err != nil {
		return nil, err
	}
	result := make([]*invoice.Invoice, 0)
	for i := range s.snap.Invoices {
		if opts.Matches(&s.snap.Invoices[i]) {
			cp := s.snap.Invoices[i]
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (s *Store) SetInvoicePaid(_ context.Context, invID id.ID, paid bool) (*invoice.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(); err != nil {
		return nil, err
	}
	for i := range s.snap.Invoices {
		if s.snap.Invoices[i].ID.String() != invID.String() {
			continue
		}

		prev := s.snap.Invoices[i].IsPaid
		s.snap.Invoices[i].IsPaid = paid
		if err := s.flush(); err != nil {
			s.snap.Invoices[i].IsPaid = prev
			return nil, err
		}
		cp := s.snap.Invoices[i]
		return &cp, nil
	}
	return nil, timebill.ErrInvoiceNotFound
}

// Ping reports whether the store is usable.
func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.ready()
}

// Close marks the store closed; the snapshot on disk is already current.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}
