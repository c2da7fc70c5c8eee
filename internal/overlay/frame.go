package overlay

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/cellbuf"
	"github.com/idursun/termhud/internal/geometry"
)

// Frame is an immutable snapshot of everything a renderer needs. A new frame
// is published after every change, so it can be read from any goroutine.
type Frame struct {
	Phase    Phase
	Attached bool
	Content  Content
	Activity int

	Label   geometry.Label
	Metrics geometry.Metrics
	// Bounds of the container the overlay is attached to.
	Bounds cellbuf.Rectangle
	// Panel is the on-screen panel rect before scaling.
	Panel cellbuf.Rectangle

	// Alpha and Scale are the presented values, mid-animation included.
	Alpha float64
	Scale float64
	// TargetAlpha is where the current fade is heading.
	TargetAlpha float64

	Foreground     lipgloss.Color
	Background     lipgloss.Color
	MaskColor      lipgloss.Color
	MaskAlpha      float64
	GradientCenter cellbuf.Position

	Appearance     Appearance
	Orientation    geometry.Orientation
	KeyboardHeight int
	Interactive    bool
}

// Visible reports whether anything of the overlay can be seen.
func (f *Frame) Visible() bool {
	return f != nil && f.Attached && f.Alpha > 0
}

// ScaledPanel is the panel rect shrunk around its center by Scale.
func (f *Frame) ScaledPanel() cellbuf.Rectangle {
	scale := min(max(f.Scale, 0), 1)
	w := int(float64(f.Panel.Dx())*scale + 0.5)
	h := int(float64(f.Panel.Dy())*scale + 0.5)
	if w >= f.Panel.Dx() && h >= f.Panel.Dy() {
		return f.Panel
	}
	c := cellbuf.Pos(f.Panel.Min.X+f.Panel.Dx()/2, f.Panel.Min.Y+f.Panel.Dy()/2)
	return geometry.PanelRect(c, geometry.Size{W: w, H: h})
}

func (o *Overlay) publishFrame() {
	a := o.appearance
	maskColor, maskAlpha := a.Mask()
	f := &Frame{
		Phase:          o.phase,
		Content:        o.content,
		Activity:       o.activity.Count(),
		Label:          o.label,
		Metrics:        o.metrics,
		Panel:          geometry.PanelRect(o.center, o.metrics.PanelSize),
		Alpha:          o.shownAlpha,
		Scale:          o.scale,
		TargetAlpha:    o.alpha,
		Foreground:     a.Foreground(),
		Background:     a.Background(),
		MaskColor:      maskColor,
		MaskAlpha:      maskAlpha,
		Appearance:     a,
		Orientation:    o.orientation,
		KeyboardHeight: o.keyboardHeight,
		Interactive:    a.Interactive(),
	}
	if o.parent != nil {
		f.Attached = true
		f.Bounds = o.parent.Bounds()
	}
	f.GradientCenter = cellbuf.Pos(
		f.Bounds.Min.X+f.Bounds.Dx()/2,
		f.Bounds.Min.Y+(f.Bounds.Dy()-o.keyboardHeight)/2,
	)
	o.frame.Store(f)
}
