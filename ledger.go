package timebill

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/solobill/timebill/entry"
	"github.com/solobill/timebill/hook"
	"github.com/solobill/timebill/id"
	"github.com/solobill/timebill/invoice"
	"github.com/solobill/timebill/layout"
	"github.com/solobill/timebill/render"
	"github.com/solobill/timebill/settings"
	"github.com/solobill/timebill/store"
)

// Ledger is the billing engine. It owns the unbilled entry set and the
// invoice collection, and guarantees that a time entry is billed at most
// once: mutating operations are serialized per instance and the billing
// transition lands in a single store write.
type Ledger struct {
	store  store.Store
	hooks  *hook.Registry
	logger *slog.Logger
	now    func() time.Time

	// mu serializes mutating operations. Interleaving two
	// read-modify-write cycles on the unbilled set is exactly the race
	// that would bill an entry twice.
	mu sync.Mutex
}

// New creates a new Ledger instance on the given store.
func New(s store.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:  s,
		hooks:  hook.NewRegistry(),
		logger: slog.Default(),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Option configures a Ledger instance.
type Option func(*Ledger)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
		l.hooks.WithLogger(logger)
	}
}

// WithHook registers a lifecycle hook.
func WithHook(h hook.Hook) Option {
	return func(l *Ledger) {
		l.hooks.Register(h)
	}
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// Start prepares the underlying store (runs migrations).
func (l *Ledger) Start(ctx context.Context) error {
	if err := l.store.Migrate(ctx); err != nil {
		return err
	}

	l.logger.Info("ledger started")
	return nil
}

// Stop releases the underlying store.
func (l *Ledger) Stop() error {
	return l.store.Close()
}

// ──────────────────────────────────────────────────
// Time Entries
// ──────────────────────────────────────────────────

// LogTime validates the draft, assigns identity and creation time, and
// appends the entry to the unbilled set.
func (l *Ledger) LogTime(ctx context.Context, d entry.Draft) (*entry.TimeEntry, error) {
	if fe := d.Validate(); fe != nil {
		return nil, ValidationError{Field: fe.Field, Message: fe.Message}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	e := &entry.TimeEntry{
		ID:          id.NewTimeEntryID(),
		Date:        d.Date,
		Description: d.Description,
		Hours:       d.Hours,
		CreatedAt:   l.now().UTC(),
	}

	if err := l.store.AppendUnbilled(ctx, e); err != nil {
		return nil, fmt.Errorf("log time: %w", err)
	}

	l.hooks.EmitEntryLogged(ctx, e)
	l.logger.Debug("time entry logged", "id", e.ID.String(), "hours", e.Hours)
	return e, nil
}

// Unbilled returns the unbilled entry set in logging order.
func (l *Ledger) Unbilled(ctx context.Context) ([]*entry.TimeEntry, error) {
	return l.store.ListUnbilled(ctx)
}

// SelectForBilling resolves entry ids against the unbilled set and
// returns the matches in their original logging order. Any id that is
// unknown or already billed fails the whole call.
func (l *Ledger) SelectForBilling(ctx context.Context, ids []id.ID) ([]*entry.TimeEntry, error) {
	unbilled, err := l.store.ListUnbilled(ctx)
	if err != nil {
		return nil, err
	}
	return selectEntries(unbilled, ids)
}

// selectEntries filters unbilled down to the requested ids, preserving
// logging order and rejecting ids that are not present.
func selectEntries(unbilled []*entry.TimeEntry, ids []id.ID) ([]*entry.TimeEntry, error) {
	if len(ids) == 0 {
		return nil, ValidationError{Field: "items", Message: "must not be empty"}
	}

	byID := make(map[string]*entry.TimeEntry, len(unbilled))
	for _, e := range unbilled {
		byID[e.ID.String()] = e
	}

	requested := make(map[string]bool, len(ids))
	for _, entryID := range ids {
		if _, ok := byID[entryID.String()]; !ok {
			return nil, fmt.Errorf("select entry %s: %w", entryID.String(), ErrEntryNotFound)
		}
		requested[entryID.String()] = true
	}

	selected := make([]*entry.TimeEntry, 0, len(ids))
	for _, e := range unbilled {
		if requested[e.ID.String()] {
			selected = append(selected, e)
		}
	}
	return selected, nil
}

// ──────────────────────────────────────────────────
// Invoices
// ──────────────────────────────────────────────────

// CreateInvoice freezes the selected unbilled entries into a new invoice.
// The selected entries leave the unbilled set and the invoice is appended
// in one atomic store write; on any failure the ledger is unchanged.
// TotalAmount is captured from the request rate and never recomputed.
func (l *Ledger) CreateInvoice(ctx context.Context, req invoice.CreateRequest) (*invoice.Invoice, error) {
	if req.Number == "" {
		return nil, ValidationError{Field: "number", Message: "must not be empty"}
	}
	if req.ClientName == "" {
		return nil, ValidationError{Field: "clientName", Message: "must not be empty"}
	}
	if !req.Rate.IsPositive() {
		return nil, ValidationError{Field: "rate", Message: "must be greater than zero"}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	unbilled, err := l.store.ListUnbilled(ctx)
	if err != nil {
		return nil, err
	}
	items, err := selectEntries(unbilled, req.EntryIDs)
	if err != nil {
		return nil, err
	}

	totalHours := 0.0
	snapshot := make([]entry.TimeEntry, len(items))
	for i, e := range items {
		snapshot[i] = *e
		totalHours += e.Hours
	}

	now := l.now().UTC()
	inv := &invoice.Invoice{
		ID:            id.NewInvoiceID(),
		Number:        req.Number,
		Date:          now,
		ClientName:    req.ClientName,
		ClientAddress: req.ClientAddress,
		Items:         snapshot,
		TotalHours:    totalHours,
		TotalAmount:   req.Rate.MulHours(totalHours).Major(),
		IsPaid:        false,
		CreatedAt:     now,
	}

	if err := l.store.ApplyBilling(ctx, inv); err != nil {
		return nil, fmt.Errorf("create invoice %s: %w", req.Number, err)
	}

	l.hooks.EmitInvoiceCreated(ctx, inv)
	l.logger.Info("invoice created",
		"id", inv.ID.String(),
		"number", inv.Number,
		"items", len(inv.Items),
		"total_hours", inv.TotalHours,
	)
	return inv, nil
}

// Invoice retrieves an invoice by ID.
func (l *Ledger) Invoice(ctx context.Context, invID id.ID) (*invoice.Invoice, error) {
	return l.store.GetInvoice(ctx, invID)
}

// Invoices lists invoices matching opts, in creation order.
func (l *Ledger) Invoices(ctx context.Context, opts invoice.ListOpts) ([]*invoice.Invoice, error) {
	return l.store.ListInvoices(ctx, opts)
}

// SetInvoicePaid toggles the paid flag, the only field mutable after
// invoice creation.
func (l *Ledger) SetInvoicePaid(ctx context.Context, invID id.ID, paid bool) (*invoice.Invoice, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	inv, err := l.store.SetInvoicePaid(ctx, invID, paid)
	if err != nil {
		return nil, err
	}

	l.hooks.EmitInvoicePaid(ctx, inv, paid)
	l.logger.Info("invoice paid status changed", "id", invID.String(), "paid", paid)
	return inv, nil
}

// ──────────────────────────────────────────────────
// Settings
// ──────────────────────────────────────────────────

// Settings returns the saved sender settings, or an empty value when
// nothing has been saved yet.
func (l *Ledger) Settings(ctx context.Context) (*settings.Settings, error) {
	return l.store.GetSettings(ctx)
}

// SaveSettings replaces the sender settings.
func (l *Ledger) SaveSettings(ctx context.Context, s *settings.Settings) error {
	if s.HourlyRate < 0 {
		return ValidationError{Field: "hourlyRate", Message: "must not be negative"}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return l.store.SaveSettings(ctx, s)
}

// ──────────────────────────────────────────────────
// Rendering
// ──────────────────────────────────────────────────

// RenderInvoice composes the invoice document and streams it through r.
// The invoice record is unaffected by a rendering failure; the error
// carries the invoice number so the caller can retry.
func (l *Ledger) RenderInvoice(ctx context.Context, invID id.ID, g layout.Geometry, r render.Renderer, w io.Writer) error {
	inv, err := l.store.GetInvoice(ctx, invID)
	if err != nil {
		return err
	}
	st, err := l.store.GetSettings(ctx)
	if err != nil {
		return err
	}

	doc, err := layout.Compose(inv, st, g)
	if err != nil {
		return err
	}

	if err := r.Render(doc, w); err != nil {
		return &render.Error{Invoice: inv.Number, Err: err}
	}
	return nil
}
