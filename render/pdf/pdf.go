// Package pdf renders composed invoice layouts to PDF.
package pdf

import (
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/solobill/timebill/layout"
)

// Renderer encodes layout documents with fpdf. It draws exactly the
// instruction stream it is given; all positioning decisions were already
// made by the layout engine.
type Renderer struct{}

// New creates a PDF renderer.
func New() *Renderer { return &Renderer{} }

// Ext implements render.Renderer.
func (*Renderer) Ext() string { return ".pdf" }

// Render implements render.Renderer.
func (*Renderer) Render(doc *layout.Document, w io.Writer) error {
	g := doc.Geometry
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: g.PageWidth, Ht: g.PageHeight},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	for _, page := range doc.Pages {
		pdf.AddPage()
		for _, op := range page.Ops {
			drawOp(pdf, op)
		}
	}

	return pdf.Output(w)
}

func drawOp(pdf *fpdf.Fpdf, op layout.Op) {
	switch v := op.(type) {
	case layout.TextOp:
		style := ""
		if v.Style == layout.StyleBold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, v.Size)
		pdf.SetTextColor(int(v.Color.R), int(v.Color.G), int(v.Color.B))

		x := v.X
		switch v.Align {
		case layout.AlignRight:
			x -= pdf.GetStringWidth(v.Text)
		case layout.AlignCenter:
			x -= pdf.GetStringWidth(v.Text) / 2
		}
		pdf.Text(x, v.Y, v.Text)

	case layout.LineOp:
		pdf.SetDrawColor(0, 0, 0)
		pdf.Line(v.X1, v.Y1, v.X2, v.Y2)

	case layout.RectOp:
		pdf.SetFillColor(int(v.Fill.R), int(v.Fill.G), int(v.Fill.B))
		pdf.Rect(v.X, v.Y, v.W, v.H, "F")
	}
}
