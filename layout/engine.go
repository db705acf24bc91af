// Package layout computes the page-by-page visual layout of an invoice
// document. It is a pure function of the invoice, the sender settings and
// a page geometry: no I/O, no shared state, identical output on every
// host. Renderers consume the resulting instruction stream.
package layout

import (
	"fmt"
	"strings"

	"github.com/solobill/timebill/invoice"
	"github.com/solobill/timebill/settings"
	"github.com/solobill/timebill/types"
)

const (
	headerDateFormat = "January 2, 2006"
	rowDateFormat    = "01/02/2006"

	paidMarker   = "PAID"
	courtesyLine = "Thank you for your business"
)

var (
	headerFill = RGB{R: 240, G: 240, B: 240}
	paidGreen  = RGB{R: 0, G: 128, B: 0}
)

// Compose lays out inv as a paginated document. The sender block and the
// per-row rate come from st; totals come from the frozen invoice fields.
func Compose(inv *invoice.Invoice, st *settings.Settings, g Geometry) (*Document, error) {
	if err := g.validate(); err != nil {
		return nil, fmt.Errorf("layout: compose invoice %s: %w", inv.Number, err)
	}

	c := g.deriveColumns()
	rate := st.Rate(g.Currency)
	mid := g.PageWidth / 2

	doc := &Document{Geometry: g}
	var ops []Op
	y := g.Margin

	text := func(op TextOp) { ops = append(ops, op) }
	newPage := func() {
		doc.Pages = append(doc.Pages, Page{Ops: ops})
		ops = nil
		y = g.Margin
	}

	// Title block and invoice metadata.
	text(TextOp{X: c.left, Y: y, Text: "INVOICE", Size: g.TitleSize, Style: StyleBold})
	y += 10
	text(TextOp{X: c.left, Y: y, Text: "Invoice #: " + inv.Number, Size: g.BodySize})
	y += 6
	text(TextOp{X: c.left, Y: y, Text: "Date: " + inv.Date.Format(headerDateFormat), Size: g.BodySize})
	y += 15

	// From/To block. Each column advances its own cursor; the shared
	// cursor resumes at the lower of the two so neither address can
	// overlap the item table.
	text(TextOp{X: c.left, Y: y, Text: "From:", Size: g.SectionSize, Style: StyleBold})
	text(TextOp{X: mid, Y: y, Text: "To:", Size: g.SectionSize, Style: StyleBold})
	y += 7

	leftY, rightY := y, y
	text(TextOp{X: c.left, Y: leftY, Text: st.Name, Size: g.BodySize})
	leftY += g.LinePitch
	for _, line := range st.AddressLines() {
		text(TextOp{X: c.left, Y: leftY, Text: line, Size: g.BodySize})
		leftY += g.LinePitch
	}
	text(TextOp{X: mid, Y: rightY, Text: inv.ClientName, Size: g.BodySize})
	rightY += g.LinePitch
	for _, line := range addressLines(inv.ClientAddress) {
		text(TextOp{X: mid, Y: rightY, Text: line, Size: g.BodySize})
		rightY += g.LinePitch
	}
	y = max(leftY, rightY) + 10

	// Table header band. Emitted once; continuation pages carry rows only.
	ops = append(ops, RectOp{X: c.left, Y: y, W: c.right - c.left, H: g.HeaderHeight, Fill: headerFill})
	text(TextOp{X: c.date, Y: y + 6, Text: "Date", Size: g.BodySize, Style: StyleBold})
	text(TextOp{X: c.desc, Y: y + 6, Text: "Description", Size: g.BodySize, Style: StyleBold})
	text(TextOp{X: c.hours, Y: y + 6, Text: "Hours", Size: g.BodySize, Style: StyleBold, Align: AlignRight})
	text(TextOp{X: c.rate, Y: y + 6, Text: "Rate", Size: g.BodySize, Style: StyleBold, Align: AlignRight})
	text(TextOp{X: c.amount, Y: y + 6, Text: "Amount", Size: g.BodySize, Style: StyleBold, Align: AlignRight})
	y += g.HeaderHeight

	// Item rows, in the invoice's stored order.
	for i := range inv.Items {
		item := &inv.Items[i]
		lines := wrapText(item.Description, c.descWidth, g.BodySize, g.Measure)
		rowHeight := max(g.RowPitch, float64(len(lines))*g.DescPitch)

		// Pagination check before placing: the row moves whole to a
		// fresh page rather than straddling the break.
		if y+rowHeight > g.BreakAt {
			newPage()
		}

		text(TextOp{X: c.date, Y: y + 5, Text: item.Date.Format(rowDateFormat), Size: g.BodySize})
		for j, line := range lines {
			text(TextOp{X: c.desc, Y: y + 5 + float64(j)*g.DescPitch, Text: line, Size: g.BodySize})
		}
		text(TextOp{X: c.hours, Y: y + 5, Text: types.FormatHours(item.Hours), Size: g.BodySize, Align: AlignRight})
		text(TextOp{X: c.rate, Y: y + 5, Text: rate.String(), Size: g.BodySize, Align: AlignRight})
		amount := rate.MulHours(item.Hours)
		text(TextOp{X: c.amount, Y: y + 5, Text: amount.String(), Size: g.BodySize, Align: AlignRight})

		y += rowHeight
	}

	// Totals.
	ops = append(ops, LineOp{X1: c.left, Y1: y, X2: c.right, Y2: y})
	y += 7
	text(TextOp{X: c.hours, Y: y, Text: "Total Hours:", Size: g.BodySize, Style: StyleBold, Align: AlignRight})
	text(TextOp{X: c.rate, Y: y, Text: types.FormatHours(inv.TotalHours), Size: g.BodySize, Style: StyleBold, Align: AlignRight})
	y += 7
	text(TextOp{X: c.hours, Y: y, Text: "Total Amount:", Size: g.BodySize, Style: StyleBold, Align: AlignRight})
	text(TextOp{X: c.amount, Y: y, Text: inv.Total(g.Currency).String(), Size: g.BodySize, Style: StyleBold, Align: AlignRight})

	// Payment status.
	y += 15
	if inv.IsPaid {
		text(TextOp{X: mid, Y: y, Text: paidMarker, Size: g.SectionSize, Align: AlignCenter, Color: paidGreen})
	} else {
		text(TextOp{X: mid, Y: y, Text: courtesyLine, Size: g.SectionSize, Align: AlignCenter})
	}

	doc.Pages = append(doc.Pages, Page{Ops: ops})
	return doc, nil
}

// addressLines splits a multi-line address into its non-empty segments.
func addressLines(address string) []string {
	var lines []string
	for _, line := range strings.Split(address, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}
