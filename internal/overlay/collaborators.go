package overlay

import "github.com/charmbracelet/x/cellbuf"

// Layer is what gets attached to a container. The container draws whatever
// frame the layer currently publishes.
type Layer interface {
	Frame() *Frame
}

// Container is a place in the view hierarchy the overlay can live in.
type Container interface {
	Bounds() cellbuf.Rectangle
	Attach(l Layer)
	Detach(l Layer)
	BringToFront(l Layer)
}

// Window is a top-level container.
type Window interface {
	Container
	Visible() bool
	Key() bool
	Level() WindowLevel
}

// Screen describes the surface the overlay is shown on.
type Screen interface {
	Bounds() cellbuf.Rectangle
	StatusBarHeight() int
	// KeyboardHeight is the height of the keyboard currently on screen.
	KeyboardHeight() int
	// Windows are ordered back to front.
	Windows() []Window
}

type Feedback int

const (
	FeedbackSuccess Feedback = iota
	FeedbackWarning
	FeedbackError
)

func (f Feedback) String() string {
	switch f {
	case FeedbackWarning:
		return "warning"
	case FeedbackError:
		return "error"
	default:
		return "success"
	}
}

// Haptics plays fire-and-forget feedback.
type Haptics interface {
	Notify(Feedback)
}

// frontWindow picks the frontmost visible key window whose level is in the
// supported range.
func frontWindow(s Screen, maxLevel WindowLevel) Window {
	if s == nil {
		return nil
	}
	windows := s.Windows()
	for i := len(windows) - 1; i >= 0; i-- {
		w := windows[i]
		if w == nil || !w.Visible() || !w.Key() {
			continue
		}
		if w.Level() < LevelNormal || w.Level() > maxLevel {
			continue
		}
		if w.Bounds().Empty() {
			continue
		}
		return w
	}
	return nil
}
