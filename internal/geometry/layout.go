// Package geometry sizes the HUD panel around its content and places it on
// screen. Everything here is pure and measured in terminal cells.
package geometry

import "github.com/charmbracelet/x/cellbuf"

type Size struct {
	W, H int
}

func (s Size) Empty() bool {
	return s.W <= 0 || s.H <= 0
}

// Spacing between the panel edge, the content and the label.
type Spacing struct {
	Horizontal int
	Vertical   int
	Label      int
}

var (
	DefaultSpacing      = Spacing{Horizontal: 2, Vertical: 1, Label: 1}
	DefaultMinimumSize  = Size{W: 11, H: 5}
	DefaultLabelMaxSize = Size{W: 40, H: 10}
)

// Input describes what the panel has to hold.
type Input struct {
	// Content is the size of the one visible spinner, ring or glyph; zero
	// when nothing is shown.
	Content     Size
	Label       Label
	MinimumSize Size
	Spacing     Spacing
}

// Metrics is derived on every content or constraint change and never stored
// as the source of truth. Rects are local to the panel.
type Metrics struct {
	PanelSize   Size
	ContentRect cellbuf.Rectangle
	LabelRect   cellbuf.Rectangle
}

func (m Metrics) ContentCenter() cellbuf.Position {
	return center(m.ContentRect)
}

func (m Metrics) LabelCenter() cellbuf.Position {
	return center(m.LabelRect)
}

// ComputeLayout measures the panel in two passes: the label is already
// measured under its bounding box, then the panel grows to fit content and
// label and never shrinks below the minimum size.
func ComputeLayout(in Input) Metrics {
	sp := in.Spacing
	content := in.Content
	if content.Empty() {
		content = Size{}
	}
	hasContent := !content.Empty()
	hasLabel := !in.Label.Empty()

	width := sp.Horizontal*2 + max(in.Label.Width, content.W)
	height := sp.Vertical*2 + content.H + in.Label.Height
	if hasContent && hasLabel {
		height += sp.Label
	}
	panel := Size{
		W: max(in.MinimumSize.W, width),
		H: max(in.MinimumSize.H, height),
	}

	var contentTop int
	if hasLabel {
		contentTop = max(sp.Vertical, (in.MinimumSize.H-content.H-sp.Label-in.Label.Height)/2)
	} else {
		contentTop = (panel.H - content.H) / 2
	}
	contentRect := cellbuf.Rect((panel.W-content.W)/2, contentTop, content.W, content.H)

	var labelTop int
	if hasContent {
		labelTop = contentRect.Max.Y + sp.Label
	} else {
		labelTop = (panel.H - in.Label.Height) / 2
	}
	labelRect := cellbuf.Rect((panel.W-in.Label.Width)/2, labelTop, in.Label.Width, in.Label.Height)

	return Metrics{
		PanelSize:   panel,
		ContentRect: contentRect,
		LabelRect:   labelRect,
	}
}

// RingSize is the cell box of a ring or flat spinner. Cells are roughly twice
// as tall as they are wide, so the box is twice as wide as it is tall.
func RingSize(radius, thickness int) Size {
	if radius <= 0 {
		return Size{}
	}
	thickness = max(thickness, 1)
	return Size{W: 2*radius + thickness, H: radius + thickness}
}

func center(r cellbuf.Rectangle) cellbuf.Position {
	return cellbuf.Pos(r.Min.X+r.Dx()/2, r.Min.Y+r.Dy()/2)
}
