// Package hudview draws an overlay.Frame into a render.DisplayContext.
package hudview

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/cellbuf"
	"github.com/idursun/termhud/internal/overlay"
	"github.com/idursun/termhud/internal/ui/render"
)

const (
	ringOn    = "●"
	ringTrack = "·"
	trackMix  = 0.35
)

// TouchMsg is the interaction registered over the container while the
// overlay swallows touches. The host routes it to overlay.HandleTouch.
type TouchMsg struct{}

type View struct {
	spinner spinner.Model
	// step rotates the flat spinner arc, one cell per spinner tick.
	step    int
	ticking bool
	dark    bool
}

func New(dark bool) *View {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return &View{spinner: s, dark: dark}
}

// SetDark switches the backdrop assumed behind unpainted cells.
func (v *View) SetDark(dark bool) {
	v.dark = dark
}

func spinning(f *overlay.Frame) bool {
	return f.Visible() && f.Content.Kind == overlay.KindSpinner
}

// Update keeps the spinner ticking while f shows one and lets the tick loop
// die out otherwise.
func (v *View) Update(msg tea.Msg, f *overlay.Frame) tea.Cmd {
	if msg, ok := msg.(spinner.TickMsg); ok {
		if !spinning(f) {
			v.ticking = false
			return nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		if cmd != nil {
			v.step++
		}
		return cmd
	}
	if spinning(f) && !v.ticking {
		v.ticking = true
		return v.spinner.Tick
	}
	return nil
}

// Render adds the mask and the panel of f. Nothing is drawn while the
// overlay is detached or fully transparent.
func (v *View) Render(dl *render.DisplayContext, f *overlay.Frame) {
	if !f.Visible() {
		return
	}
	backdrop := render.Backdrop(v.dark)
	renderMask(dl, f, backdrop)
	if f.Interactive {
		dl.AddInteraction(f.Bounds, TouchMsg{}, render.ZMask)
	}

	panel := f.ScaledPanel()
	if panel.Empty() {
		return
	}
	bg := render.BlendHex(backdrop, f.Background, f.Alpha)
	fg := render.BlendHex(backdrop, f.Foreground, f.Alpha)
	renderPanel(dl, f, panel, fg, bg)

	// contents appear once the panel reached its full size
	if panel != f.Panel {
		return
	}
	content := f.Metrics.ContentRect.Add(panel.Min)
	switch f.Content.Kind {
	case overlay.KindSpinner:
		if f.Appearance.AnimationType == overlay.AnimationNative {
			v.renderNativeSpinner(dl, content, fg, bg)
		} else {
			cells := ringCells(content.Dx(), content.Dy(), f.Appearance.RingThickness)
			lit := func(i int) bool { return arcLit(i, len(cells), v.step) }
			dl.AddDraw(content, ringString(content, cells, lit, fg, bg), render.ZOverlay)
		}
	case overlay.KindRing:
		cells := ringCells(content.Dx(), content.Dy(), f.Appearance.RingThickness)
		n := strokeCount(len(cells), f.Content.Progress)
		lit := func(i int) bool { return i < n }
		dl.AddDraw(content, ringString(content, cells, lit, fg, bg), render.ZOverlay)
	case overlay.KindGlyph:
		renderGlyph(dl, f, content, backdrop, fg, bg)
	}
	renderLabel(dl, f, f.Metrics.LabelRect.Add(panel.Min), bg)
}

func renderMask(dl *render.DisplayContext, f *overlay.Frame, backdrop color.Color) {
	if f.MaskAlpha <= 0 || f.Bounds.Empty() {
		return
	}
	alpha := f.MaskAlpha * f.Alpha
	switch f.Appearance.MaskType {
	case overlay.MaskGradient:
		dl.AddEffect(render.GradientEffect{
			Rect:   f.Bounds,
			Center: f.GradientCenter,
			Color:  f.MaskColor,
			Alpha:  alpha,
			Base:   backdrop,
			Z:      render.ZMask,
		})
	case overlay.MaskBlack, overlay.MaskCustom:
		dl.AddEffect(render.TintEffect{
			Rect:  f.Bounds,
			Color: f.MaskColor,
			Alpha: alpha,
			Base:  backdrop,
			Z:     render.ZMask,
		})
	}
}

func renderPanel(dl *render.DisplayContext, f *overlay.Frame, panel cellbuf.Rectangle, fg, bg lipgloss.Color) {
	a := f.Appearance
	if a.BorderWidth <= 0 || panel.Dx() < 2 || panel.Dy() < 2 {
		dl.AddFill(panel, ' ', lipgloss.NewStyle().Background(bg), render.ZOverlay)
		return
	}
	border := lipgloss.NormalBorder()
	if a.CornerRadius > 0 {
		border = lipgloss.RoundedBorder()
	}
	if a.BorderWidth > 1 {
		border = lipgloss.ThickBorder()
	}
	borderColor := fg
	if a.BorderColor != "" {
		borderColor = render.BlendHex(bg, a.BorderColor, f.Alpha)
	}
	box := lipgloss.NewStyle().
		Width(panel.Dx()-2).
		Height(panel.Dy()-2).
		Background(bg).
		Border(border).
		BorderForeground(borderColor).
		BorderBackground(bg).
		Render("")
	dl.AddDraw(panel, box, render.ZOverlay)
}

func (v *View) renderNativeSpinner(dl *render.DisplayContext, rect cellbuf.Rectangle, fg, bg lipgloss.Color) {
	frame := strings.TrimSpace(ansi.Strip(v.spinner.View()))
	if frame == "" {
		return
	}
	style := lipgloss.NewStyle().Foreground(fg).Background(bg)
	dl.AddDraw(rect, style.Render(frame), render.ZOverlay)
}

// ringString paints the ring cells of rect: lit cells in fg over a faint
// track.
func ringString(rect cellbuf.Rectangle, cells []cellbuf.Position, lit func(int) bool, fg, bg lipgloss.Color) string {
	blank := lipgloss.NewStyle().Background(bg)
	on := blank.Foreground(fg)
	off := blank.Foreground(render.BlendHex(bg, fg, trackMix))

	grid := make([][]string, rect.Dy())
	for y := range grid {
		grid[y] = make([]string, rect.Dx())
		for x := range grid[y] {
			grid[y][x] = blank.Render(" ")
		}
	}
	for i, p := range cells {
		if lit(i) {
			grid[p.Y][p.X] = on.Render(ringOn)
		} else {
			grid[p.Y][p.X] = off.Render(ringTrack)
		}
	}
	rows := make([]string, len(grid))
	for y, row := range grid {
		rows[y] = strings.Join(row, "")
	}
	return strings.Join(rows, "\n")
}

func renderGlyph(dl *render.DisplayContext, f *overlay.Frame, rect cellbuf.Rectangle, backdrop color.Color, fg, bg lipgloss.Color) {
	g := f.Content.Glyph
	if g.Empty() {
		return
	}
	style := lipgloss.NewStyle().Background(bg)
	switch {
	case f.Appearance.TintImages:
		style = style.Foreground(fg)
	case g.Color != "":
		style = style.Foreground(render.BlendHex(backdrop, g.Color, f.Alpha))
	}
	art := lipgloss.Place(rect.Dx(), rect.Dy(), lipgloss.Center, lipgloss.Center,
		style.Render(g.Art), lipgloss.WithWhitespaceBackground(bg))
	dl.AddDraw(rect, art, render.ZOverlay)
}

// renderLabel draws the status text at full strength; only the panel fades.
func renderLabel(dl *render.DisplayContext, f *overlay.Frame, rect cellbuf.Rectangle, bg lipgloss.Color) {
	if f.Label.Empty() {
		return
	}
	font := f.Appearance.Font
	style := lipgloss.NewStyle().
		Width(rect.Dx()).
		Align(lipgloss.Center).
		Foreground(f.Foreground).
		Background(bg).
		Bold(font.Bold).
		Italic(font.Italic).
		Faint(font.Faint)
	dl.AddDraw(rect, style.Render(strings.Join(f.Label.Lines, "\n")), render.ZOverlay)
}
