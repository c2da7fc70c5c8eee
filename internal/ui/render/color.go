package render

import (
	"image/color"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

var (
	black = colorful.Color{}
	white = colorful.Color{R: 1, G: 1, B: 1}
)

// ParseColor converts a terminal colour to RGB. Hex lipgloss colours are
// parsed directly; other colours go through their RGBA value.
func ParseColor(c color.Color) (colorful.Color, bool) {
	if c == nil {
		return colorful.Color{}, false
	}
	if lc, ok := c.(lipgloss.Color); ok {
		if cc, err := colorful.Hex(string(lc)); err == nil {
			return cc, true
		}
	}
	return colorful.MakeColor(c)
}

// Blend mixes to into from by t in [0,1]. Unparseable colours count as
// black.
func Blend(from, to color.Color, t float64) colorful.Color {
	a, ok := ParseColor(from)
	if !ok {
		a = black
	}
	b, ok := ParseColor(to)
	if !ok {
		b = black
	}
	return a.BlendRgb(b, min(max(t, 0), 1)).Clamped()
}

// BlendHex is Blend as a lipgloss colour.
func BlendHex(from, to color.Color, t float64) lipgloss.Color {
	return lipgloss.Color(Blend(from, to, t).Hex())
}

// Backdrop is the colour assumed behind cells that have no background.
func Backdrop(dark bool) colorful.Color {
	if dark {
		return black
	}
	return white
}
