package render

import (
	"image/color"
	"math"

	"github.com/charmbracelet/x/cellbuf"
)

// Effect post-processes cells that were already drawn.
type Effect interface {
	Apply(buf *cellbuf.Buffer)
	GetZ() int
	GetRect() cellbuf.Rectangle
}

// DimEffect sets the faint attribute.
type DimEffect struct {
	Rect cellbuf.Rectangle
	Z    int
}

func (e DimEffect) Apply(buf *cellbuf.Buffer) {
	iterateCells(buf, e.Rect, func(_, _ int, cell *cellbuf.Cell) *cellbuf.Cell {
		if cell == nil {
			return nil
		}
		newCell := cell.Clone()
		newCell.Style.Faint(true)
		return newCell
	})
}

func (e DimEffect) GetZ() int                  { return e.Z }
func (e DimEffect) GetRect() cellbuf.Rectangle { return e.Rect }

// TintEffect mixes Color into the background of every cell by Alpha. Cells
// without a background are mixed starting from Base.
type TintEffect struct {
	Rect  cellbuf.Rectangle
	Color color.Color
	Alpha float64
	Base  color.Color
	Z     int
}

func (e TintEffect) Apply(buf *cellbuf.Buffer) {
	if e.Alpha <= 0 {
		return
	}
	iterateCells(buf, e.Rect, func(_, _ int, cell *cellbuf.Cell) *cellbuf.Cell {
		return tintCell(cell, e.Base, e.Color, e.Alpha)
	})
}

func (e TintEffect) GetZ() int                  { return e.Z }
func (e TintEffect) GetRect() cellbuf.Rectangle { return e.Rect }

// GradientEffect tints like TintEffect, weakest at Center and strongest at
// the corners of Rect.
type GradientEffect struct {
	Rect   cellbuf.Rectangle
	Center cellbuf.Position
	Color  color.Color
	Alpha  float64
	Base   color.Color
	Z      int
}

func (e GradientEffect) Apply(buf *cellbuf.Buffer) {
	if e.Alpha <= 0 {
		return
	}
	// cells are about twice as tall as wide
	far := math.Hypot(float64(e.Rect.Dx())/2, float64(e.Rect.Dy()))
	if far == 0 {
		return
	}
	iterateCells(buf, e.Rect, func(x, y int, cell *cellbuf.Cell) *cellbuf.Cell {
		d := math.Hypot(float64(x-e.Center.X)/2, float64(y-e.Center.Y)) / far
		return tintCell(cell, e.Base, e.Color, e.Alpha*min(d, 1))
	})
}

func (e GradientEffect) GetZ() int                  { return e.Z }
func (e GradientEffect) GetRect() cellbuf.Rectangle { return e.Rect }

func tintCell(cell *cellbuf.Cell, base, tint color.Color, alpha float64) *cellbuf.Cell {
	if cell == nil || alpha <= 0 {
		return nil
	}
	newCell := cell.Clone()
	bg := newCell.Style.Bg
	if bg == nil {
		bg = base
	}
	newCell.Style.Bg = Blend(bg, tint, alpha)
	if newCell.Style.Fg != nil {
		newCell.Style.Fg = Blend(newCell.Style.Fg, tint, alpha)
	}
	return newCell
}

// iterateCells applies transform to every cell of rect inside the buffer and
// writes back the cells it returns.
func iterateCells(buf *cellbuf.Buffer, rect cellbuf.Rectangle, transform func(x, y int, cell *cellbuf.Cell) *cellbuf.Cell) {
	rect = rect.Intersect(buf.Bounds())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if newCell := transform(x, y, buf.Cell(x, y)); newCell != nil {
				buf.SetCell(x, y, newCell)
			}
		}
	}
}
