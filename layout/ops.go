package layout

// The layout engine emits a flat instruction stream per page. A renderer
// walks the ops in order and draws them; it never needs to re-measure or
// re-position anything.

// Align is the horizontal anchoring of a text op relative to its X.
type Align int

const (
	AlignLeft   Align = iota // X is the left edge of the text
	AlignRight               // X is the right edge of the text
	AlignCenter              // X is the horizontal center of the text
)

// Style selects the font weight of a text op.
type Style int

const (
	StyleRegular Style = iota
	StyleBold
)

// RGB is a 24-bit color. The zero value is black.
type RGB struct {
	R, G, B uint8
}

// Op is a single draw instruction.
type Op interface {
	isOp()
}

// TextOp places a single line of text. Y is the text baseline.
type TextOp struct {
	X, Y  float64
	Text  string
	Size  float64 // pt
	Style Style
	Align Align
	Color RGB
}

// LineOp draws a straight line.
type LineOp struct {
	X1, Y1, X2, Y2 float64
}

// RectOp fills a rectangle.
type RectOp struct {
	X, Y, W, H float64
	Fill       RGB
}

func (TextOp) isOp() {}
func (LineOp) isOp() {}
func (RectOp) isOp() {}

// Page is an ordered draw-instruction list for one physical page.
type Page struct {
	Ops []Op
}

// Document is the composed, renderer-agnostic invoice layout.
type Document struct {
	Geometry Geometry
	Pages    []Page
}
