package overlay

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/idursun/termhud/internal/geometry"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAppearing
	PhaseVisible
	PhaseDisappearing
)

func (p Phase) String() string {
	switch p {
	case PhaseAppearing:
		return "appearing"
	case PhaseVisible:
		return "visible"
	case PhaseDisappearing:
		return "disappearing"
	default:
		return "idle"
	}
}

// Kind is the one visual shown inside the panel.
type Kind int

const (
	KindNone Kind = iota
	KindSpinner
	KindRing
	KindGlyph
)

func (k Kind) String() string {
	switch k {
	case KindSpinner:
		return "spinner"
	case KindRing:
		return "ring"
	case KindGlyph:
		return "glyph"
	default:
		return "none"
	}
}

type GlyphKind int

const (
	GlyphImage GlyphKind = iota
	GlyphInfo
	GlyphSuccess
	GlyphError
)

// Glyph is a small piece of cell art. An empty glyph occupies no space.
type Glyph struct {
	Kind GlyphKind
	Art  string
	// Color paints the art; empty keeps the terminal default.
	Color lipgloss.Color
}

func (g Glyph) Empty() bool {
	return g.Art == ""
}

var (
	InfoGlyph    = Glyph{Kind: GlyphInfo, Art: "╭───╮\n│ i │\n╰───╯"}
	SuccessGlyph = Glyph{Kind: GlyphSuccess, Art: "╭───╮\n│ ✓ │\n╰───╯"}
	ErrorGlyph   = Glyph{Kind: GlyphError, Art: "╭───╮\n│ ✗ │\n╰───╯"}
)

// Content is what the panel currently shows.
type Content struct {
	Kind Kind
	// Progress is the ring stroke fraction in [0,1].
	Progress float64
	Glyph    Glyph
	// Status is the label text; empty means no label.
	Status string
}

// NativeSpinnerSize is the cell box of the native spinner.
var NativeSpinnerSize = geometry.Size{W: 1, H: 1}

// contentSize is the box of the active visual.
func contentSize(c Content, a Appearance) geometry.Size {
	radius := a.RingNoTextRadius
	if c.Status != "" {
		radius = a.RingRadius
	}
	switch c.Kind {
	case KindSpinner:
		if a.AnimationType == AnimationNative {
			return NativeSpinnerSize
		}
		return geometry.RingSize(radius, a.RingThickness)
	case KindRing:
		return geometry.RingSize(radius, a.RingThickness)
	case KindGlyph:
		if c.Glyph.Empty() {
			return geometry.Size{}
		}
		return a.ImageSize
	}
	return geometry.Size{}
}
