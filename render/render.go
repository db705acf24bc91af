// Package render defines the document renderer capability consumed when
// an invoice layout is turned into bytes.
package render

import (
	"fmt"
	"io"

	"github.com/solobill/timebill/invoice"
	"github.com/solobill/timebill/layout"
)

// Renderer consumes a composed layout document and writes the encoded
// output. Implementations must not mutate the document.
type Renderer interface {
	// Ext returns the renderer's native file extension, with dot.
	Ext() string
	// Render encodes doc and writes it to w.
	Render(doc *layout.Document, w io.Writer) error
}

// Error wraps a renderer failure with the invoice it was rendering, so
// callers can retry without guessing. Rendering happens after the invoice
// exists; a render failure never rolls back or duplicates the invoice.
type Error struct {
	Invoice string // invoice number
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("render: invoice %s: %v", e.Invoice, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Filename derives the output file name for an invoice:
// "Invoice-{number}" plus the renderer's native extension.
func Filename(inv *invoice.Invoice, r Renderer) string {
	return "Invoice-" + inv.Number + r.Ext()
}
