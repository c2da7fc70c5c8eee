package hudview

import (
	"math"
	"sort"

	"github.com/charmbracelet/x/cellbuf"
)

// ringCells returns the cells of an elliptical ring filling a w×h box,
// ordered clockwise starting at the top.
func ringCells(w, h, thickness int) []cellbuf.Position {
	if w <= 0 || h <= 0 {
		return nil
	}
	thickness = max(thickness, 1)
	rx, ry := float64(w)/2, float64(h)/2
	ix, iy := rx-float64(thickness), ry-float64(thickness)

	type cell struct {
		pos   cellbuf.Position
		angle float64
	}
	var cells []cell
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx := float64(x) + 0.5 - rx
			dy := float64(y) + 0.5 - ry
			if math.Hypot(dx/rx, dy/ry) > 1 {
				continue
			}
			if ix > 0 && iy > 0 && math.Hypot(dx/ix, dy/iy) < 1 {
				continue
			}
			angle := math.Atan2(dx/rx, -dy/ry)
			if angle < 0 {
				angle += 2 * math.Pi
			}
			cells = append(cells, cell{pos: cellbuf.Pos(x, y), angle: angle})
		}
	}
	sort.SliceStable(cells, func(i, j int) bool {
		return cells[i].angle < cells[j].angle
	})

	result := make([]cellbuf.Position, len(cells))
	for i, c := range cells {
		result[i] = c.pos
	}
	return result
}

// strokeCount is how many ring cells a stroke fraction lights up.
func strokeCount(n int, progress float64) int {
	progress = min(max(progress, 0), 1)
	return int(math.Ceil(progress * float64(n)))
}

// arcLit reports whether ring cell i belongs to the spinner arc at step.
func arcLit(i, n, step int) bool {
	if n == 0 {
		return false
	}
	arc := max(n/3, 1)
	return ((i-step)%n+n)%n < arc
}
