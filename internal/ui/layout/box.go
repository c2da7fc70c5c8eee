// Package layout carves the terminal into the regions the HUD host uses.
package layout

import "github.com/charmbracelet/x/cellbuf"

// Box wraps a rectangle with cutting helpers.
type Box struct {
	R cellbuf.Rectangle
}

func NewBox(r cellbuf.Rectangle) Box {
	return Box{R: r}
}

func (b Box) Empty() bool {
	return b.R.Empty()
}

// CutTop takes h rows off the top.
func (b Box) CutTop(h int) (top, rest Box) {
	h = clamp(h, 0, b.R.Dy())
	y := b.R.Min.Y + h
	top = Box{R: cellbuf.Rectangle{Min: b.R.Min, Max: cellbuf.Pos(b.R.Max.X, y)}}
	rest = Box{R: cellbuf.Rectangle{Min: cellbuf.Pos(b.R.Min.X, y), Max: b.R.Max}}
	return
}

// CutBottom takes h rows off the bottom.
func (b Box) CutBottom(h int) (rest, bottom Box) {
	h = clamp(h, 0, b.R.Dy())
	y := b.R.Max.Y - h
	rest = Box{R: cellbuf.Rectangle{Min: b.R.Min, Max: cellbuf.Pos(b.R.Max.X, y)}}
	bottom = Box{R: cellbuf.Rectangle{Min: cellbuf.Pos(b.R.Min.X, y), Max: b.R.Max}}
	return
}

// Regions splits the screen into status rows, the content area and the
// input bar docked at the bottom.
type Regions struct {
	Status  Box
	Content Box
	Input   Box
}

func Carve(screen cellbuf.Rectangle, statusRows, inputRows int) Regions {
	status, rest := NewBox(screen).CutTop(statusRows)
	content, input := rest.CutBottom(inputRows)
	return Regions{Status: status, Content: content, Input: input}
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
