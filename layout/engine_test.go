package layout

import (
	"strings"
	"testing"
	"time"

	"github.com/solobill/timebill/entry"
	"github.com/solobill/timebill/id"
	"github.com/solobill/timebill/invoice"
	"github.com/solobill/timebill/settings"
)

func testSettings() *settings.Settings {
	return &settings.Settings{
		Name:       "Jane Doe",
		Address:    "1 Main St\nSpringfield",
		HourlyRate: 100,
	}
}

func testInvoice(items ...entry.TimeEntry) *invoice.Invoice {
	totalHours := 0.0
	for _, it := range items {
		totalHours += it.Hours
	}
	return &invoice.Invoice{
		ID:            id.NewInvoiceID(),
		Number:        "INV-001",
		Date:          time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC),
		ClientName:    "Acme Co",
		ClientAddress: "2 Oak Ave",
		Items:         items,
		TotalHours:    totalHours,
		TotalAmount:   totalHours * 100,
		CreatedAt:     time.Now(),
	}
}

func testItem(hours float64, desc string) entry.TimeEntry {
	return entry.TimeEntry{
		ID:          id.NewTimeEntryID(),
		Date:        time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
		Description: desc,
		Hours:       hours,
		CreatedAt:   time.Now(),
	}
}

func textOps(p Page) []TextOp {
	var out []TextOp
	for _, op := range p.Ops {
		if t, ok := op.(TextOp); ok {
			out = append(out, t)
		}
	}
	return out
}

func findText(p Page, s string) *TextOp {
	for _, t := range textOps(p) {
		if t.Text == s {
			return &t
		}
	}
	return nil
}

func TestComposeSinglePage(t *testing.T) {
	inv := testInvoice(testItem(2, "Design review"), testItem(1.5, "Bug fixes"))
	doc, err := Compose(inv, testSettings(), A4())
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if len(doc.Pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(doc.Pages))
	}

	page := doc.Pages[0]
	for _, want := range []string{
		"INVOICE",
		"Invoice #: INV-001",
		"Date: March 14, 2026",
		"From:", "To:",
		"Jane Doe", "1 Main St", "Springfield",
		"Acme Co", "2 Oak Ave",
		"Hours", "Rate", "Amount",
		"2.00", "1.50",
		"$350.00", // total amount
		"3.50",    // total hours
		"Thank you for your business",
	} {
		if findText(page, want) == nil {
			t.Errorf("missing text %q on page", want)
		}
	}

	// Per-row money comes from hours × rate, formatted as currency.
	if findText(page, "$200.00") == nil || findText(page, "$150.00") == nil {
		t.Error("missing row amounts")
	}
}

func TestComposePaidMarker(t *testing.T) {
	inv := testInvoice(testItem(1, "Work"))
	inv.IsPaid = true

	doc, err := Compose(inv, testSettings(), A4())
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	page := doc.Pages[len(doc.Pages)-1]

	paid := findText(page, "PAID")
	if paid == nil {
		t.Fatal("missing PAID marker")
	}
	if paid.Align != AlignCenter {
		t.Error("PAID marker should be centered")
	}
	if paid.Color == (RGB{}) {
		t.Error("PAID marker should be colored")
	}
	if findText(page, "Thank you for your business") != nil {
		t.Error("courtesy line must not appear on a paid invoice")
	}
}

func TestComposeFromToCursorMerge(t *testing.T) {
	// A client address much longer than the sender's must push the table
	// header below the end of the longer column.
	short := testInvoice(testItem(1, "Work"))
	long := testInvoice(testItem(1, "Work"))
	long.ClientAddress = strings.Repeat("Line\n", 12)

	dShort, err := Compose(short, testSettings(), A4())
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	dLong, err := Compose(long, testSettings(), A4())
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	headerY := func(d *Document) float64 {
		op := findText(d.Pages[0], "Description")
		if op == nil {
			t.Fatal("missing table header")
		}
		return op.Y
	}
	if headerY(dLong) <= headerY(dShort) {
		t.Errorf("long client address did not push the table down: %.1f vs %.1f",
			headerY(dLong), headerY(dShort))
	}
}

func TestComposePagination(t *testing.T) {
	g := A4()
	var items []entry.TimeEntry
	for i := 0; i < 40; i++ {
		items = append(items, testItem(1, "Recurring maintenance work"))
	}
	inv := testInvoice(items...)

	doc, err := Compose(inv, testSettings(), g)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if len(doc.Pages) < 2 {
		t.Fatalf("expected multiple pages for 40 rows, got %d", len(doc.Pages))
	}

	// Every item appears exactly once across all pages, in order.
	var dates []TextOp
	for _, page := range doc.Pages {
		for _, op := range textOps(page) {
			if op.Text == "03/02/2026" {
				dates = append(dates, op)
			}
		}
	}
	if len(dates) != len(items) {
		t.Errorf("expected %d row date cells, got %d", len(items), len(dates))
	}

	// No row may start past the break threshold, and rows on a page must
	// advance monotonically.
	for pi, page := range doc.Pages {
		prevY := 0.0
		for _, op := range textOps(page) {
			if op.Text != "03/02/2026" {
				continue
			}
			if op.Y > g.BreakAt {
				t.Errorf("page %d: row at y=%.1f exceeds break threshold %.1f", pi, op.Y, g.BreakAt)
			}
			if op.Y <= prevY {
				t.Errorf("page %d: rows not monotonically descending: %.1f after %.1f", pi, op.Y, prevY)
			}
			prevY = op.Y
		}
	}

	// The table header band is emitted only on the first page.
	for pi, page := range doc.Pages[1:] {
		if findText(page, "Description") != nil {
			t.Errorf("continuation page %d repeats the table header", pi+1)
		}
	}
}

func TestComposeWrappedRowAdvancesByLineCount(t *testing.T) {
	longDesc := strings.Repeat("implementation detail ", 12)
	inv := testInvoice(testItem(1, longDesc), testItem(1, "next"))

	doc, err := Compose(inv, testSettings(), A4())
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	page := doc.Pages[0]

	first := findText(page, "03/02/2026")
	next := findText(page, "next")
	if first == nil || next == nil {
		t.Fatal("missing rows")
	}
	// The wrapped first row must push the second row further down than a
	// single minimum-height row would.
	if next.Y-first.Y <= A4().RowPitch {
		t.Errorf("wrapped row did not grow: gap %.1f", next.Y-first.Y)
	}
}

func TestComposeColumnNonOverlap(t *testing.T) {
	g := A4()
	for _, width := range []float64{150, 180, 210, 297} {
		g.PageWidth = width
		c := g.deriveColumns()

		if c.descWidth <= 0 {
			t.Fatalf("width %.0f: description span collapsed", width)
		}
		// The description x-extent must end left of the room reserved
		// for the right-aligned Hours numerals.
		if c.desc+c.descWidth >= c.hours-g.NumReserve+g.Gutter {
			t.Errorf("width %.0f: description extent reaches into the Hours column", width)
		}
		if !(c.hours < c.rate && c.rate < c.amount) {
			t.Errorf("width %.0f: numeric columns out of order", width)
		}
	}
}

func TestComposeGeometryTooSmall(t *testing.T) {
	inv := testInvoice(testItem(1, "Work"))

	tests := []struct {
		name   string
		mutate func(*Geometry)
	}{
		{"break above margin", func(g *Geometry) { g.BreakAt = g.Margin }},
		{"page too narrow", func(g *Geometry) { g.PageWidth = 60 }},
		{"nil measurer", func(g *Geometry) { g.Measure = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := A4()
			tt.mutate(&g)
			if _, err := Compose(inv, testSettings(), g); err == nil {
				t.Error("expected geometry error")
			}
		})
	}
}

func TestComposeDeterministic(t *testing.T) {
	inv := testInvoice(testItem(2, "Design review"), testItem(1.5, "Bug fixes"))
	st := testSettings()

	a, err := Compose(inv, st, A4())
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	b, err := Compose(inv, st, A4())
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	if len(a.Pages) != len(b.Pages) {
		t.Fatalf("page count differs: %d vs %d", len(a.Pages), len(b.Pages))
	}
	for i := range a.Pages {
		if len(a.Pages[i].Ops) != len(b.Pages[i].Ops) {
			t.Fatalf("page %d op count differs", i)
		}
		for j := range a.Pages[i].Ops {
			if a.Pages[i].Ops[j] != b.Pages[i].Ops[j] {
				t.Errorf("page %d op %d differs: %#v vs %#v", i, j, a.Pages[i].Ops[j], b.Pages[i].Ops[j])
			}
		}
	}
}
