package geometry

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

const ellipsis = "…"

// Label is a status text wrapped into lines.
type Label struct {
	Lines  []string
	Width  int
	Height int
}

func (l Label) Empty() bool {
	return len(l.Lines) == 0
}

// MeasureLabel wraps text to fit inside bounds. Words break at spaces and
// hyphens, overlong words are split, and text that needs more lines than
// bounds allows is cut with an ellipsis on the last visible line.
func MeasureLabel(text string, bounds Size) Label {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if strings.TrimSpace(text) == "" {
		return Label{}
	}
	if bounds.Empty() {
		bounds = DefaultLabelMaxSize
	}

	wrapped := ansi.Wrap(text, bounds.W, " -")
	lines := strings.Split(wrapped, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}

	if len(lines) > bounds.H {
		lines = lines[:bounds.H]
		last := lines[len(lines)-1]
		if ansi.StringWidth(last)+runewidth.StringWidth(ellipsis) > bounds.W {
			last = runewidth.Truncate(ansi.Strip(last), bounds.W, ellipsis)
		} else {
			last += ellipsis
		}
		lines[len(lines)-1] = last
	}

	width := 0
	for _, line := range lines {
		width = max(width, ansi.StringWidth(line))
	}
	return Label{Lines: lines, Width: width, Height: len(lines)}
}

// ArtSize measures multi-line glyph art by grapheme cluster width.
func ArtSize(art string) Size {
	if art == "" {
		return Size{}
	}
	lines := strings.Split(art, "\n")
	width := 0
	for _, line := range lines {
		width = max(width, uniseg.StringWidth(line))
	}
	return Size{W: width, H: len(lines)}
}
