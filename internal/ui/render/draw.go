package render

import (
	"github.com/charmbracelet/x/cellbuf"
)

// Draw places rendered ANSI content in a rectangle.
type Draw struct {
	Rect    cellbuf.Rectangle
	Content string
	Z       int
}
