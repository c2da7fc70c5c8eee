package geometry

import (
	"math"

	"github.com/charmbracelet/x/cellbuf"
)

type Orientation int

const (
	Portrait Orientation = iota
	Landscape
)

func (o Orientation) String() string {
	if o == Landscape {
		return "landscape"
	}
	return "portrait"
}

// OrientationOf reports landscape when the area is wider than it is tall.
func OrientationOf(r cellbuf.Rectangle) Orientation {
	if r.Dx() > r.Dy() {
		return Landscape
	}
	return Portrait
}

// verticalBias places the panel slightly above the middle of the usable
// area.
const verticalBias = 0.45

type PlacementInput struct {
	// Screen is the frame of the window the HUD is attached to.
	Screen          cellbuf.Rectangle
	KeyboardHeight  int
	StatusBarHeight int
	Offset          cellbuf.Position
	// Container is the frame of a custom host view; when set the panel is
	// centered in it and keyboard avoidance does not apply.
	Container *cellbuf.Rectangle
}

type Placement struct {
	Center      cellbuf.Position
	Orientation Orientation
}

// Place returns the panel center for the current screen and keyboard.
func Place(in PlacementInput) Placement {
	if in.Container != nil {
		c := center(*in.Container)
		return Placement{
			Center:      c.Add(in.Offset),
			Orientation: OrientationOf(*in.Container),
		}
	}

	active := in.Screen.Dy()
	if in.KeyboardHeight > 0 {
		active += in.StatusBarHeight * 2
	}
	active -= in.KeyboardHeight

	x := in.Screen.Min.X + in.Screen.Dx()/2
	y := in.Screen.Min.Y + int(math.Floor(float64(active)*verticalBias))
	return Placement{
		Center:      cellbuf.Pos(x, y).Add(in.Offset),
		Orientation: OrientationOf(in.Screen),
	}
}

// PanelRect is the frame of a panel of the given size centered on c.
func PanelRect(c cellbuf.Position, size Size) cellbuf.Rectangle {
	return cellbuf.Rect(c.X-size.W/2, c.Y-size.H/2, size.W, size.H)
}
