package layout

import "errors"

// ErrGeometry is returned when a page geometry is too small to place even
// a single header row. It signals a configuration fault, not bad user data.
var ErrGeometry = errors.New("layout: page geometry too small")

// Geometry is the fixed page model for invoice composition. All lengths
// are millimeters; the origin is the top-left corner of the physical page
// and y grows downward.
type Geometry struct {
	PageWidth  float64 // physical page width
	PageHeight float64 // physical page height
	Margin     float64 // uniform margin on all sides
	BreakAt    float64 // cursor value beyond which no row may start

	LinePitch float64 // advance per address/metadata line
	RowPitch  float64 // minimum item row height
	DescPitch float64 // advance per wrapped description line

	HeaderHeight float64 // table header band height
	ColSpacing   float64 // spacing between the numeric columns
	NumReserve   float64 // horizontal room kept clear left of the Hours column
	Gutter       float64 // gap between the description span and the Hours column

	TitleSize    float64 // pt
	BodySize     float64 // pt
	SectionSize  float64 // pt, From/To labels and payment status
	Currency     string  // currency code used for all amount formatting
	Measure      Measure // text width estimator used for wrapping
}

// A4 returns the default portrait A4 geometry matching the classic
// 20mm-margin invoice layout.
func A4() Geometry {
	return Geometry{
		PageWidth:    210,
		PageHeight:   297,
		Margin:       20,
		BreakAt:      250,
		LinePitch:    5,
		RowPitch:     10,
		DescPitch:    7,
		HeaderHeight: 10,
		ColSpacing:   25,
		NumReserve:   18,
		Gutter:       4,
		TitleSize:    24,
		BodySize:     12,
		SectionSize:  14,
		Currency:     "usd",
		Measure:      ApproxHelvetica,
	}
}

// columns holds the derived x-positions of the five table columns.
// Hours, Rate and Amount are anchored by their right edge.
type columns struct {
	left, right float64
	date        float64
	desc        float64
	hours       float64
	rate        float64
	amount      float64
	descWidth   float64
}

// deriveColumns computes column x-positions from the page width so the
// table adapts to any page size. The three numeric columns pack against
// the right margin with uniform spacing; the description occupies the
// remaining span between the Date column and the Hours column.
func (g Geometry) deriveColumns() columns {
	c := columns{
		left:  g.Margin,
		right: g.PageWidth - g.Margin,
	}
	c.date = c.left + 5
	c.desc = c.left + 30
	c.amount = c.right
	c.rate = c.amount - g.ColSpacing
	c.hours = c.rate - g.ColSpacing
	c.descWidth = c.hours - g.NumReserve - g.Gutter - c.desc
	return c
}

// validate rejects geometries that cannot fit the title block, the table
// header and at least one item row, or whose description span collapses.
func (g Geometry) validate() error {
	if g.Measure == nil {
		return ErrGeometry
	}
	if g.BreakAt > g.PageHeight || g.BreakAt <= g.Margin+g.HeaderHeight+g.RowPitch {
		return ErrGeometry
	}
	if c := g.deriveColumns(); c.descWidth <= 0 {
		return ErrGeometry
	}
	return nil
}
