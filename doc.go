// Package timebill provides an embeddable billable-hours ledger with a
// deterministic invoice document engine.
//
// Timebill is designed as a library, not a service. Import it directly
// into your Go application. It provides:
//
//   - A billing ledger that guarantees a time entry is billed at most once
//   - Atomic invoice creation: entries leave the unbilled set and the
//     invoice appears in a single store write
//   - A pure, renderer-agnostic page layout engine for invoice documents
//   - Pluggable persistence (in-memory, JSON file snapshot, SQLite)
//   - Pluggable output rendering (PDF built-in, plain text for previews)
//
// # Quick Start
//
// Create a ledger instance with your preferred store:
//
//	import (
//	    "github.com/solobill/timebill"
//	    "github.com/solobill/timebill/store/file"
//	)
//
//	st := file.New("/home/jane/.timebill/data.json")
//
//	l := timebill.New(st)
//	if err := l.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer l.Stop()
//
// Log work and bill it:
//
//	e, err := l.LogTime(ctx, entry.Draft{
//	    Date:        today,
//	    Description: "Code review",
//	    Hours:       1.5,
//	})
//
//	inv, err := l.CreateInvoice(ctx, invoice.CreateRequest{
//	    Number:     "INV-001",
//	    ClientName: "Acme Co",
//	    EntryIDs:   []id.ID{e.ID},
//	    Rate:       timebill.USD(10000), // $100.00/h
//	})
//
// Render the invoice to PDF:
//
//	f, _ := os.Create(render.Filename(inv, pdf.New()))
//	err = l.RenderInvoice(ctx, inv.ID, layout.A4(), pdf.New(), f)
//
// # Core Concepts
//
// Time entries are immutable once logged; only their membership in the
// unbilled set changes. Creating an invoice freezes the selected entries
// as the invoice's item snapshot, computes TotalHours and TotalAmount
// from the rate at creation time, and removes the entries from the
// unbilled set atomically. Later rate changes never alter an existing
// invoice, and IsPaid is the only field mutable after creation.
//
// The layout engine is a pure function from (invoice, settings, page
// geometry) to a paginated draw-instruction stream. It performs no I/O
// and owns all positioning math, so output is byte-identical across
// hosts and renderers stay trivial.
//
// All monetary calculation uses integer cents via the Money type; the
// single rounding point is the hours-times-rate multiplication, rounded
// half-up to a whole cent.
//
// # TypeID
//
// Entities use TypeID for globally unique, type-safe identifiers:
//
//	te_01h2xcejqtf2nbrexx3vqjhp41   // Time entry ID
//	inv_01h455vb4pex5vsknk084sn02q  // Invoice ID
//
// TypeIDs are K-sortable, giving natural time-ordering of entities.
package timebill
