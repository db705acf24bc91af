package timebill_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	timebill "github.com/solobill/timebill"
	"github.com/solobill/timebill/entry"
	"github.com/solobill/timebill/id"
	"github.com/solobill/timebill/invoice"
	"github.com/solobill/timebill/layout"
	"github.com/solobill/timebill/render/text"
	"github.com/solobill/timebill/settings"
	"github.com/solobill/timebill/store/memory"
)

func newTestLedger(t *testing.T, opts ...timebill.Option) *timebill.Ledger {
	t.Helper()
	l := timebill.New(memory.New(), opts...)
	if err := l.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { l.Stop() })
	return l
}

func logEntry(t *testing.T, l *timebill.Ledger, desc string, hours float64) *entry.TimeEntry {
	t.Helper()
	e, err := l.LogTime(context.Background(), entry.Draft{
		Date:        time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		Description: desc,
		Hours:       hours,
	})
	if err != nil {
		t.Fatalf("LogTime(%q): %v", desc, err)
	}
	return e
}

func TestBillingFlow(t *testing.T) {
	fixed := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	l := newTestLedger(t, timebill.WithClock(func() time.Time { return fixed }))
	ctx := context.Background()

	design := logEntry(t, l, "Design work", 2)
	call := logEntry(t, l, "Client call", 1.5)

	inv, err := l.CreateInvoice(ctx, invoice.CreateRequest{
		Number:        "INV-001",
		ClientName:    "Jane Doe",
		ClientAddress: "1 Main St\nSpringfield",
		EntryIDs:      []id.ID{design.ID, call.ID},
		Rate:          timebill.USD(100_00),
	})
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}

	if inv.Number != "INV-001" {
		t.Errorf("Number = %q, want INV-001", inv.Number)
	}
	if inv.TotalHours != 3.5 {
		t.Errorf("TotalHours = %v, want 3.5", inv.TotalHours)
	}
	if inv.TotalAmount != 350 {
		t.Errorf("TotalAmount = %v, want 350", inv.TotalAmount)
	}
	if inv.IsPaid {
		t.Error("new invoice IsPaid = true, want false")
	}
	if !inv.Date.Equal(fixed) {
		t.Errorf("Date = %v, want %v", inv.Date, fixed)
	}
	if len(inv.Items) != 2 || inv.Items[0].Description != "Design work" {
		t.Errorf("Items = %+v, want both entries in logging order", inv.Items)
	}

	unbilled, err := l.Unbilled(ctx)
	if err != nil {
		t.Fatalf("Unbilled: %v", err)
	}
	if len(unbilled) != 0 {
		t.Errorf("len(unbilled) = %d, want 0 after billing", len(unbilled))
	}

	got, err := l.Invoice(ctx, inv.ID)
	if err != nil {
		t.Fatalf("Invoice: %v", err)
	}
	if got.TotalAmount != inv.TotalAmount {
		t.Errorf("stored TotalAmount = %v, want %v", got.TotalAmount, inv.TotalAmount)
	}
}

func TestEntryBilledAtMostOnce(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	e := logEntry(t, l, "Work", 1)
	req := invoice.CreateRequest{
		Number:     "INV-001",
		ClientName: "Acme Corp",
		EntryIDs:   []id.ID{e.ID},
		Rate:       timebill.USD(100_00),
	}
	if _, err := l.CreateInvoice(ctx, req); err != nil {
		t.Fatalf("first CreateInvoice: %v", err)
	}

	req.Number = "INV-002"
	if _, err := l.CreateInvoice(ctx, req); !errors.Is(err, timebill.ErrEntryNotFound) {
		t.Fatalf("re-billing: err = %v, want ErrEntryNotFound", err)
	}
	if _, err := l.SelectForBilling(ctx, []id.ID{e.ID}); !errors.Is(err, timebill.ErrEntryNotFound) {
		t.Errorf("SelectForBilling billed entry: err = %v, want ErrEntryNotFound", err)
	}

	invs, err := l.Invoices(ctx, invoice.AllTime())
	if err != nil {
		t.Fatalf("Invoices: %v", err)
	}
	if len(invs) != 1 {
		t.Errorf("len(invoices) = %d, want 1 after rejected re-billing", len(invs))
	}
}

func TestCreateInvoiceValidation(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	e := logEntry(t, l, "Work", 1)

	valid := invoice.CreateRequest{
		Number:     "INV-001",
		ClientName: "Acme Corp",
		EntryIDs:   []id.ID{e.ID},
		Rate:       timebill.USD(100_00),
	}

	tests := []struct {
		name    string
		mutate  func(r *invoice.CreateRequest)
		wantErr func(error) bool
	}{
		{
			name:    "empty number",
			mutate:  func(r *invoice.CreateRequest) { r.Number = "" },
			wantErr: timebill.IsValidation,
		},
		{
			name:    "empty client name",
			mutate:  func(r *invoice.CreateRequest) { r.ClientName = "" },
			wantErr: timebill.IsValidation,
		},
		{
			name:    "zero rate",
			mutate:  func(r *invoice.CreateRequest) { r.Rate = timebill.USD(0) },
			wantErr: timebill.IsValidation,
		},
		{
			name:    "no entries",
			mutate:  func(r *invoice.CreateRequest) { r.EntryIDs = nil },
			wantErr: timebill.IsValidation,
		},
		{
			name:   "unknown entry",
			mutate: func(r *invoice.CreateRequest) { r.EntryIDs = []id.ID{id.NewTimeEntryID()} },
			wantErr: func(err error) bool {
				return errors.Is(err, timebill.ErrEntryNotFound)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			if _, err := l.CreateInvoice(ctx, req); err == nil || !tt.wantErr(err) {
				t.Errorf("CreateInvoice: err = %v, want rejection", err)
			}
		})
	}

	// Every rejection must have left the ledger untouched.
	unbilled, err := l.Unbilled(ctx)
	if err != nil {
		t.Fatalf("Unbilled: %v", err)
	}
	if len(unbilled) != 1 {
		t.Errorf("len(unbilled) = %d, want 1 after rejected attempts", len(unbilled))
	}
	invs, err := l.Invoices(ctx, invoice.AllTime())
	if err != nil {
		t.Fatalf("Invoices: %v", err)
	}
	if len(invs) != 0 {
		t.Errorf("len(invoices) = %d, want 0 after rejected attempts", len(invs))
	}
}

func TestLogTimeValidation(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		draft entry.Draft
	}{
		{"empty description", entry.Draft{Date: time.Now(), Hours: 1}},
		{"zero hours", entry.Draft{Date: time.Now(), Description: "Work"}},
		{"negative hours", entry.Draft{Date: time.Now(), Description: "Work", Hours: -1}},
		{"zero date", entry.Draft{Description: "Work", Hours: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := l.LogTime(ctx, tt.draft); !timebill.IsValidation(err) {
				t.Errorf("LogTime: err = %v, want validation error", err)
			}
		})
	}
}

func TestSetInvoicePaid(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	e := logEntry(t, l, "Work", 1)
	inv, err := l.CreateInvoice(ctx, invoice.CreateRequest{
		Number:     "INV-001",
		ClientName: "Acme Corp",
		EntryIDs:   []id.ID{e.ID},
		Rate:       timebill.USD(100_00),
	})
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}

	paid, err := l.SetInvoicePaid(ctx, inv.ID, true)
	if err != nil {
		t.Fatalf("SetInvoicePaid: %v", err)
	}
	if !paid.IsPaid {
		t.Error("IsPaid = false, want true")
	}
	if paid.TotalAmount != inv.TotalAmount || paid.Number != inv.Number {
		t.Error("SetInvoicePaid changed frozen fields")
	}

	if _, err := l.SetInvoicePaid(ctx, id.NewInvoiceID(), true); !timebill.IsNotFound(err) {
		t.Errorf("unknown invoice: err = %v, want not-found", err)
	}
	invs, _ := l.Invoices(ctx, invoice.AllTime())
	if len(invs) != 1 || !invs[0].IsPaid {
		t.Errorf("invoices after failed update = %+v, want single paid invoice", invs)
	}
}

func TestInvoiceFilters(t *testing.T) {
	clock := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	l := newTestLedger(t, timebill.WithClock(func() time.Time { return clock }))
	ctx := context.Background()

	mkInvoice := func(num string, date time.Time, paid bool) {
		t.Helper()
		clock = date
		e := logEntry(t, l, "Work for "+num, 1)
		inv, err := l.CreateInvoice(ctx, invoice.CreateRequest{
			Number:     num,
			ClientName: "Acme Corp",
			EntryIDs:   []id.ID{e.ID},
			Rate:       timebill.USD(100_00),
		})
		if err != nil {
			t.Fatalf("CreateInvoice(%s): %v", num, err)
		}
		if paid {
			if _, err := l.SetInvoicePaid(ctx, inv.ID, true); err != nil {
				t.Fatal(err)
			}
		}
	}

	mkInvoice("INV-001", time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC), true)
	mkInvoice("INV-002", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), false)
	mkInvoice("INV-003", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), true)

	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	ytd, err := l.Invoices(ctx, invoice.YearToDate(now))
	if err != nil {
		t.Fatalf("Invoices ytd: %v", err)
	}
	if len(ytd) != 2 {
		t.Errorf("year to date = %d invoices, want 2", len(ytd))
	}

	recent, err := l.Invoices(ctx, invoice.LastNDays(now, 30))
	if err != nil {
		t.Fatalf("Invoices 30d: %v", err)
	}
	if len(recent) != 1 || recent[0].Number != "INV-003" {
		t.Errorf("last 30 days = %+v, want only INV-003", recent)
	}

	unpaid := false
	open, err := l.Invoices(ctx, invoice.ListOpts{Paid: &unpaid})
	if err != nil {
		t.Fatalf("Invoices unpaid: %v", err)
	}
	if len(open) != 1 || open[0].Number != "INV-002" {
		t.Errorf("unpaid = %+v, want only INV-002", open)
	}

	// Filtering is a pure read: run it again and expect identical results.
	again, err := l.Invoices(ctx, invoice.LastNDays(now, 30))
	if err != nil {
		t.Fatal(err)
	}
	if len(again) != len(recent) || again[0].ID.String() != recent[0].ID.String() {
		t.Error("repeated filter returned different results")
	}
}

// recordHook captures events for assertions.
type recordHook struct {
	mu      sync.Mutex
	entries int
	created []string
	paid    []bool
}

func (h *recordHook) Name() string { return "record" }

func (h *recordHook) OnEntryLogged(_ context.Context, _ any) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries++
	return nil
}

func (h *recordHook) OnInvoiceCreated(_ context.Context, inv any) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if v, ok := inv.(*invoice.Invoice); ok {
		h.created = append(h.created, v.Number)
	}
	return nil
}

func (h *recordHook) OnInvoicePaid(_ context.Context, _ any, paid bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.paid = append(h.paid, paid)
	return nil
}

func TestHooks(t *testing.T) {
	rec := &recordHook{}
	l := newTestLedger(t, timebill.WithHook(rec))
	ctx := context.Background()

	e := logEntry(t, l, "Work", 2)
	inv, err := l.CreateInvoice(ctx, invoice.CreateRequest{
		Number:     "INV-001",
		ClientName: "Acme Corp",
		EntryIDs:   []id.ID{e.ID},
		Rate:       timebill.USD(100_00),
	})
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}
	if _, err := l.SetInvoicePaid(ctx, inv.ID, true); err != nil {
		t.Fatalf("SetInvoicePaid: %v", err)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.entries != 1 {
		t.Errorf("entry events = %d, want 1", rec.entries)
	}
	if len(rec.created) != 1 || rec.created[0] != "INV-001" {
		t.Errorf("created events = %v, want [INV-001]", rec.created)
	}
	if len(rec.paid) != 1 || !rec.paid[0] {
		t.Errorf("paid events = %v, want [true]", rec.paid)
	}
}

func TestSaveSettings(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	if err := l.SaveSettings(ctx, &settings.Settings{Name: "Jane", HourlyRate: -1}); !timebill.IsValidation(err) {
		t.Errorf("negative rate: err = %v, want validation error", err)
	}

	want := settings.Settings{Name: "Jane Doe", Address: "1 Main St", HourlyRate: 100}
	if err := l.SaveSettings(ctx, &want); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}
	got, err := l.Settings(ctx)
	if err != nil {
		t.Fatalf("Settings: %v", err)
	}
	if *got != want {
		t.Errorf("settings = %+v, want %+v", *got, want)
	}
}

func TestRenderInvoice(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	if err := l.SaveSettings(ctx, &settings.Settings{Name: "Jane Doe", HourlyRate: 100}); err != nil {
		t.Fatal(err)
	}
	e := logEntry(t, l, "Design work", 2)
	inv, err := l.CreateInvoice(ctx, invoice.CreateRequest{
		Number:     "INV-001",
		ClientName: "Acme Corp",
		EntryIDs:   []id.ID{e.ID},
		Rate:       timebill.USD(100_00),
	})
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}

	var buf bytes.Buffer
	if err := l.RenderInvoice(ctx, inv.ID, layout.A4(), text.New(), &buf); err != nil {
		t.Fatalf("RenderInvoice: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"INVOICE", "INV-001", "Acme Corp"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered output missing %q", want)
		}
	}

	if err := l.RenderInvoice(ctx, id.NewInvoiceID(), layout.A4(), text.New(), &buf); !timebill.IsNotFound(err) {
		t.Errorf("render unknown invoice: err = %v, want not-found", err)
	}
}
