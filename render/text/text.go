// Package text renders composed invoice layouts as plain text. It exists
// for terminal previews and for exercising the full compose-render path
// in tests without a PDF library.
package text

import (
	"fmt"
	"io"
	"strings"

	"github.com/solobill/timebill/layout"
)

// Cell size of the character grid, in millimeters. A 2mm-wide column and
// 4mm-tall row keep the A4 layout legible on an ordinary terminal.
const (
	cellW = 2.0
	cellH = 4.0
)

// Renderer projects the millimeter coordinate space onto a character
// grid. Overlapping text clobbers in op order, matching draw order.
type Renderer struct{}

// New creates a plain-text renderer.
func New() *Renderer { return &Renderer{} }

// Ext implements render.Renderer.
func (*Renderer) Ext() string { return ".txt" }

// Render implements render.Renderer.
func (*Renderer) Render(doc *layout.Document, w io.Writer) error {
	g := doc.Geometry
	cols := int(g.PageWidth/cellW) + 1
	rows := int(g.PageHeight/cellH) + 1

	for pageNo, page := range doc.Pages {
		if pageNo > 0 {
			if _, err := fmt.Fprintf(w, "\n--- page %d ---\n", pageNo+1); err != nil {
				return err
			}
		}

		grid := make([][]rune, rows)
		for i := range grid {
			grid[i] = []rune(strings.Repeat(" ", cols))
		}

		for _, op := range page.Ops {
			drawOp(grid, op)
		}

		for _, line := range grid {
			if _, err := fmt.Fprintln(w, strings.TrimRight(string(line), " ")); err != nil {
				return err
			}
		}
	}
	return nil
}

func drawOp(grid [][]rune, op layout.Op) {
	switch v := op.(type) {
	case layout.TextOp:
		col := int(v.X / cellW)
		switch v.Align {
		case layout.AlignRight:
			col -= len([]rune(v.Text))
		case layout.AlignCenter:
			col -= len([]rune(v.Text)) / 2
		}
		putText(grid, int(v.Y/cellH), col, v.Text)

	case layout.LineOp:
		row := int(v.Y1 / cellH)
		from, to := int(v.X1/cellW), int(v.X2/cellW)
		putText(grid, row, from, strings.Repeat("-", max(to-from, 0)))

	case layout.RectOp:
		// A filled band reads as a ruled header row in text output.
		row := int(v.Y / cellH)
		from := int(v.X / cellW)
		width := int(v.W / cellW)
		putText(grid, row, from, strings.Repeat("_", max(width, 0)))
	}
}

func putText(grid [][]rune, row, col int, text string) {
	if row < 0 || row >= len(grid) {
		return
	}
	for i, r := range []rune(text) {
		c := col + i
		if c < 0 || c >= len(grid[row]) {
			continue
		}
		grid[row][c] = r
	}
}
