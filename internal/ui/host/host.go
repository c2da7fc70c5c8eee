// Package host runs an application model with the HUD on top of it. It owns
// the scheduler the overlay lives on and drains it from the bubbletea event
// loop, so overlay work and application updates never race.
package host

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/cellbuf"
	"github.com/idursun/termhud/internal/geometry"
	"github.com/idursun/termhud/internal/loop"
	"github.com/idursun/termhud/internal/overlay"
	"github.com/idursun/termhud/internal/screen"
	"github.com/idursun/termhud/internal/ui/hudview"
	"github.com/idursun/termhud/internal/ui/layout"
	"github.com/idursun/termhud/internal/ui/render"
)

const (
	// inputRows is the input bar: one line of text inside a border.
	inputRows         = 3
	keyboardAnimation = 200 * time.Millisecond
	frameInterval     = 8 * time.Millisecond
)

// StatusLine is implemented by content that fills the status rows.
type StatusLine interface {
	Status() string
}

type Model struct {
	ctx     context.Context
	content tea.Model
	queue   *loop.Queue
	surface *screen.Surface
	overlay *overlay.Overlay
	view    *hudview.View
	input   textinput.Model
	logger  *slog.Logger

	statusRows     int
	keyboard       bool
	width          int
	height         int
	pending        []overlay.Notification
	displayContext *render.DisplayContext
	overlayOpts    []overlay.Option
	dark           bool

	statusStyle lipgloss.Style
	inputStyle  lipgloss.Style
}

type Option func(*Model)

func WithContext(ctx context.Context) Option {
	return func(m *Model) {
		m.ctx = ctx
	}
}

func WithStatusRows(rows int) Option {
	return func(m *Model) {
		m.statusRows = max(rows, 0)
	}
}

// WithDarkBackground tells the renderer what is behind unpainted cells.
func WithDarkBackground(dark bool) Option {
	return func(m *Model) {
		m.dark = dark
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithOverlayOptions are applied when the host creates its overlay.
func WithOverlayOptions(opts ...overlay.Option) Option {
	return func(m *Model) {
		m.overlayOpts = append(m.overlayOpts, opts...)
	}
}

func NewModel(content tea.Model, opts ...Option) *Model {
	t := textinput.New()
	t.Prompt = "> "
	t.Width = 50

	m := &Model{
		ctx:        context.Background(),
		content:    content,
		queue:      loop.NewQueue(),
		input:      t,
		logger:     slog.New(slog.DiscardHandler),
		statusRows: 1,
		statusStyle: lipgloss.NewStyle().
			Reverse(true),
		inputStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.surface = screen.New(0, 0, m.statusRows)
	m.view = hudview.New(m.dark)

	overlayOpts := append([]overlay.Option{
		overlay.WithScreen(m.surface),
		overlay.WithLogger(m.logger),
	}, m.overlayOpts...)
	m.overlay = overlay.New(m.queue, overlayOpts...)
	m.overlay.Subscribe(func(n overlay.Notification) {
		// handlers run on the queue, which only Update drains
		m.pending = append(m.pending, n)
	})
	return m
}

// Overlay is the HUD shown by this host.
func (m *Model) Overlay() *overlay.Overlay {
	return m.overlay
}

// Scheduler is the loop the overlay runs on.
func (m *Model) Scheduler() loop.Scheduler {
	return m.queue
}

func (m *Model) Screen() *screen.Surface {
	return m.surface
}

func (m *Model) Content() tea.Model {
	return m.content
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.listen(), m.content.Init())
}

// listen waits for the next task posted on the queue.
func (m *Model) listen() tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		fn, err := m.queue.Wait(ctx)
		if err != nil {
			return nil
		}
		return taskMsg(fn)
	}
}

func (m *Model) Update(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case taskMsg:
		m.runTasks(msg)
		cmds = append(cmds, m.listen(), m.flushNotifications())
		cmds = append(cmds, m.view.Update(msg, m.overlay.Frame()))
		return tea.Batch(cmds...)
	case tea.WindowSizeMsg:
		cmds = append(cmds, m.resize(msg.Width, msg.Height))
		return tea.Batch(cmds...)
	case tea.FocusMsg:
		m.overlay.HandleEnvironment(overlay.Event{Kind: overlay.AppBecameActive})
	case ShowKeyboardMsg:
		return m.showKeyboard(msg)
	case HideKeyboardMsg:
		return m.hideKeyboard()
	case keyboardSettledMsg:
		if msg.shown != m.keyboard {
			return nil
		}
		kind := overlay.KeyboardDidHide
		if msg.shown {
			kind = overlay.KeyboardDidShow
		}
		m.overlay.HandleEnvironment(overlay.Event{Kind: kind, KeyboardHeight: m.surface.KeyboardHeight()})
		return nil
	case tea.MouseMsg:
		if m.touch(msg) {
			return nil
		}
	case tea.KeyMsg:
		if m.keyboard {
			return m.updateInput(msg)
		}
	}

	cmds = append(cmds, m.updateContent(msg))
	cmds = append(cmds, m.view.Update(msg, m.overlay.Frame()))
	return tea.Batch(cmds...)
}

// runTasks runs first and everything queued behind it, so one burst of
// overlay work lands in a single frame.
func (m *Model) runTasks(first taskMsg) {
	if first != nil {
		first()
	}
	for {
		fn, ok := m.queue.TryNext()
		if !ok {
			return
		}
		fn()
	}
}

func (m *Model) flushNotifications() tea.Cmd {
	if len(m.pending) == 0 {
		return nil
	}
	pending := m.pending
	m.pending = nil
	var cmds []tea.Cmd
	for _, n := range pending {
		cmds = append(cmds, m.updateContent(NotificationMsg(n)))
	}
	return tea.Sequence(cmds...)
}

func (m *Model) updateContent(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.content, cmd = m.content.Update(msg)
	return cmd
}

func (m *Model) resize(width, height int) tea.Cmd {
	old := m.surface.Bounds()
	m.surface.Resize(width, height)
	bounds := m.surface.Bounds()
	m.width, m.height = bounds.Dx(), bounds.Dy()

	kind := overlay.Resized
	if !old.Empty() && geometry.OrientationOf(old) != geometry.OrientationOf(bounds) {
		kind = overlay.OrientationChanged
	}
	m.overlay.HandleEnvironment(overlay.Event{Kind: kind})

	content := m.regions().Content.R
	return m.updateContent(tea.WindowSizeMsg{Width: content.Dx(), Height: content.Dy()})
}

func (m *Model) regions() layout.Regions {
	rows := 0
	if m.keyboard {
		rows = inputRows
	}
	return layout.Carve(m.surface.Bounds(), m.statusRows, rows)
}

func (m *Model) showKeyboard(msg ShowKeyboardMsg) tea.Cmd {
	if m.keyboard {
		return nil
	}
	m.keyboard = true
	m.surface.SetKeyboardHeight(inputRows)
	m.input.Placeholder = msg.Placeholder
	m.input.SetValue("")
	m.overlay.HandleEnvironment(overlay.Event{
		Kind:              overlay.KeyboardWillShow,
		KeyboardHeight:    inputRows,
		AnimationDuration: keyboardAnimation,
	})
	content := m.regions().Content.R
	return tea.Batch(
		m.input.Focus(),
		m.updateContent(tea.WindowSizeMsg{Width: content.Dx(), Height: content.Dy()}),
		settle(true),
	)
}

func (m *Model) hideKeyboard() tea.Cmd {
	if !m.keyboard {
		return nil
	}
	m.keyboard = false
	m.surface.SetKeyboardHeight(0)
	m.input.Blur()
	m.overlay.HandleEnvironment(overlay.Event{
		Kind:              overlay.KeyboardWillHide,
		AnimationDuration: keyboardAnimation,
	})
	content := m.regions().Content.R
	return tea.Batch(
		m.updateContent(tea.WindowSizeMsg{Width: content.Dx(), Height: content.Dy()}),
		settle(false),
	)
}

func settle(shown bool) tea.Cmd {
	return tea.Tick(keyboardAnimation, func(time.Time) tea.Msg {
		return keyboardSettledMsg{shown: shown}
	})
}

func (m *Model) updateInput(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		value := m.input.Value()
		return tea.Batch(m.hideKeyboard(), func() tea.Msg {
			return SubmitMsg{Value: value}
		})
	case tea.KeyEsc:
		return tea.Batch(m.hideKeyboard(), func() tea.Msg {
			return InputCancelledMsg{}
		})
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

// touch offers a left press to the overlay. It reports whether the overlay
// swallowed it.
func (m *Model) touch(msg tea.MouseMsg) bool {
	if m.displayContext == nil {
		return false
	}
	hit, ok := m.displayContext.ProcessMouseEvent(msg)
	if !ok {
		return false
	}
	if _, isTouch := hit.(hudview.TouchMsg); !isTouch {
		return false
	}
	return m.overlay.HandleTouch(cellbuf.Pos(msg.X, msg.Y))
}

func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	m.displayContext = render.NewDisplayContext()
	regions := m.regions()

	m.displayContext.AddDraw(regions.Content.R, m.content.View(), render.ZBase)
	if !regions.Status.Empty() {
		var status string
		if s, ok := m.content.(StatusLine); ok {
			status = s.Status()
		}
		bar := m.statusStyle.Width(regions.Status.R.Dx()).MaxHeight(regions.Status.R.Dy()).Render(status)
		m.displayContext.AddDraw(regions.Status.R, bar, render.ZChrome)
	}
	if m.keyboard && !regions.Input.Empty() {
		bar := m.inputStyle.Width(max(regions.Input.R.Dx()-2, 0)).Render(m.input.View())
		m.displayContext.AddDraw(regions.Input.R, bar, render.ZChrome)
	}
	if layer := m.surface.Window().Layer(); layer != nil {
		m.view.Render(m.displayContext, layer.Frame())
	}

	screenBuf := cellbuf.NewBuffer(m.width, m.height)
	m.displayContext.Render(screenBuf)
	return strings.ReplaceAll(cellbuf.Render(screenBuf), "\r", "")
}

// wrapper throttles rendering to one frame per frameInterval.
type wrapper struct {
	host               *Model
	scheduledNextFrame bool
	render             bool
	cachedFrame        string
}

func (w *wrapper) Init() tea.Cmd {
	return w.host.Init()
}

func (w *wrapper) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(frameTickMsg); ok {
		w.render = true
		w.scheduledNextFrame = false
		return w, nil
	}
	cmd := w.host.Update(msg)
	if !w.scheduledNextFrame {
		w.scheduledNextFrame = true
		return w, tea.Batch(cmd, tea.Tick(frameInterval, func(time.Time) tea.Msg {
			return frameTickMsg{}
		}))
	}
	return w, cmd
}

func (w *wrapper) View() string {
	if w.render {
		w.cachedFrame = w.host.View()
		w.render = false
	}
	return w.cachedFrame
}

// New wraps content for tea.NewProgram.
func New(content tea.Model, opts ...Option) tea.Model {
	return &wrapper{host: NewModel(content, opts...)}
}

// Wrap turns an existing host into a tea.Model.
func Wrap(m *Model) tea.Model {
	return &wrapper{host: m}
}
