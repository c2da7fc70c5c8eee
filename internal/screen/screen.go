// Package screen describes the terminal the overlay is shown on.
package screen

import (
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/x/cellbuf"
	"github.com/idursun/termhud/internal/overlay"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Window is the terminal as a container. It holds at most one layer, the
// overlay, and whoever renders the terminal draws that layer's frame.
type Window struct {
	mu     sync.Mutex
	bounds cellbuf.Rectangle
	layer  overlay.Layer
	raised int
}

var _ overlay.Window = (*Window)(nil)

func (w *Window) Bounds() cellbuf.Rectangle {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.bounds
}

func (w *Window) Attach(l overlay.Layer) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.layer = l
}

func (w *Window) Detach(l overlay.Layer) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.layer == l {
		w.layer = nil
	}
}

func (w *Window) BringToFront(overlay.Layer) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.raised++
}

// Layer is the attached layer, nil when nothing is attached.
func (w *Window) Layer() overlay.Layer {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.layer
}

// Raised counts how often the layer was brought to front.
func (w *Window) Raised() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.raised
}

func (w *Window) Visible() bool              { return true }
func (w *Window) Key() bool                  { return true }
func (w *Window) Level() overlay.WindowLevel { return overlay.LevelNormal }

// Surface is a terminal with one window, status rows at the top and an
// optional input bar at the bottom that plays the role of the keyboard.
type Surface struct {
	mu        sync.Mutex
	window    *Window
	statusBar int
	keyboard  int
}

var _ overlay.Screen = (*Surface)(nil)

func New(width, height, statusRows int) *Surface {
	s := &Surface{window: &Window{}, statusBar: max(statusRows, 0)}
	s.Resize(width, height)
	return s
}

// Detect measures the terminal behind fd. A terminal that cannot be
// measured yields a zero-area surface the overlay never attaches to.
func Detect(fd uintptr, statusRows int) (*Surface, error) {
	w, h, err := term.GetSize(int(fd))
	if err != nil {
		return New(0, 0, statusRows), fmt.Errorf("getting terminal size: %w", err)
	}
	return New(w, h, statusRows), nil
}

// DetectStdout is Detect on os.Stdout.
func DetectStdout(statusRows int) (*Surface, error) {
	return Detect(os.Stdout.Fd(), statusRows)
}

// HasDarkBackground reports whether the terminal background is dark. It
// is used to pick the colour panels fade from.
func HasDarkBackground() bool {
	return termenv.HasDarkBackground()
}

func (s *Surface) Window() *Window {
	return s.window
}

func (s *Surface) Resize(width, height int) {
	s.window.mu.Lock()
	defer s.window.mu.Unlock()
	s.window.bounds = cellbuf.Rect(0, 0, max(width, 0), max(height, 0))
}

func (s *Surface) Bounds() cellbuf.Rectangle {
	return s.window.Bounds()
}

func (s *Surface) StatusBarHeight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusBar
}

func (s *Surface) SetStatusBarHeight(rows int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statusBar = max(rows, 0)
}

func (s *Surface) KeyboardHeight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keyboard
}

func (s *Surface) SetKeyboardHeight(rows int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keyboard = max(rows, 0)
}

func (s *Surface) Windows() []overlay.Window {
	return []overlay.Window{s.window}
}
