package overlay

import (
	"math"
	"time"

	"github.com/charmbracelet/x/cellbuf"
	"github.com/idursun/termhud/internal/anim"
	"github.com/idursun/termhud/internal/geometry"
)

type EventKind int

const (
	OrientationChanged EventKind = iota
	KeyboardWillShow
	KeyboardDidShow
	KeyboardWillHide
	KeyboardDidHide
	AppBecameActive
	Resized
)

func (k EventKind) String() string {
	switch k {
	case OrientationChanged:
		return "orientationChanged"
	case KeyboardWillShow:
		return "keyboardWillShow"
	case KeyboardDidShow:
		return "keyboardDidShow"
	case KeyboardWillHide:
		return "keyboardWillHide"
	case KeyboardDidHide:
		return "keyboardDidHide"
	case AppBecameActive:
		return "appBecameActive"
	case Resized:
		return "resized"
	}
	return "unknown"
}

// Event is a change in the surroundings of the overlay. Only the keyboard
// height and the animation duration are consumed.
type Event struct {
	Kind              EventKind
	KeyboardHeight    int
	AnimationDuration time.Duration
}

// HandleEnvironment repositions the panel. Events are ignored unless the
// overlay has finished appearing and is still on screen.
func (o *Overlay) HandleEnvironment(ev Event) {
	o.scheduler.Post(func() {
		if !o.observing {
			return
		}
		switch ev.Kind {
		case KeyboardWillShow, KeyboardDidShow:
			o.keyboardHeight = max(ev.KeyboardHeight, 0)
		case KeyboardWillHide, KeyboardDidHide:
			o.keyboardHeight = 0
		default:
			o.keyboardHeight = o.visibleKeyboardHeight()
		}
		o.logger.Debug("environment changed", "event", ev.Kind, "keyboard", o.keyboardHeight)
		o.moveTo(o.placement(), ev.AnimationDuration)
	})
}

func (o *Overlay) visibleKeyboardHeight() int {
	if o.screen == nil {
		return 0
	}
	return o.screen.KeyboardHeight()
}

func (o *Overlay) placement() geometry.Placement {
	in := geometry.PlacementInput{
		KeyboardHeight: o.keyboardHeight,
		Offset:         o.appearance.CenterOffset,
	}
	if o.screen != nil {
		in.StatusBarHeight = o.screen.StatusBarHeight()
	}
	switch {
	case o.appearance.Container != nil:
		b := o.appearance.Container.Bounds()
		in.Container = &b
		in.Screen = b
	case o.parent != nil:
		in.Screen = o.parent.Bounds()
	case o.screen != nil:
		in.Screen = o.screen.Bounds()
	}
	return geometry.Place(in)
}

// reposition places the panel immediately using the keyboard that is
// currently visible.
func (o *Overlay) reposition() {
	o.keyboardHeight = o.visibleKeyboardHeight()
	o.moveTo(o.placement(), 0)
}

func (o *Overlay) moveTo(p geometry.Placement, d time.Duration) {
	o.orientation = p.Orientation
	if d <= 0 {
		o.mover.Stop()
		o.center = p.Center
		o.publishFrame()
		return
	}
	from := o.center
	o.mover.Start(d, anim.EaseInOut, func(t float64) {
		o.center = cellbuf.Pos(
			int(math.Round(anim.Lerp(float64(from.X), float64(p.Center.X), t))),
			int(math.Round(anim.Lerp(float64(from.Y), float64(p.Center.Y), t))),
		)
		o.publishFrame()
	}, nil)
}
