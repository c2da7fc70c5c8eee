package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/idursun/termhud/internal/scripting"
	"github.com/idursun/termhud/internal/ui/host"
	"github.com/idursun/termhud/pkg/hud"
)

const (
	progressStep     = 0.05
	progressInterval = 120 * time.Millisecond
	maxEvents        = 8
)

type keyMap struct {
	Spinner  key.Binding
	Progress key.Binding
	Info     key.Binding
	Success  key.Binding
	Error    key.Binding
	Image    key.Binding
	Pop      key.Binding
	Dismiss  key.Binding
	Mask     key.Binding
	Style    key.Binding
	Input    key.Binding
	Script   key.Binding
	Quit     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Spinner, k.Progress, k.Success, k.Dismiss, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Spinner, k.Progress, k.Pop, k.Dismiss},
		{k.Info, k.Success, k.Error, k.Image},
		{k.Mask, k.Style, k.Input, k.Script, k.Quit},
	}
}

var keys = keyMap{
	Spinner:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "spinner")),
	Progress: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "progress")),
	Info:     key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "info")),
	Success:  key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "success")),
	Error:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "error")),
	Image:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "glyph")),
	Pop:      key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "pop activity")),
	Dismiss:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "dismiss")),
	Mask:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "next mask")),
	Style:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "next style")),
	Input:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "type a status")),
	Script:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "run script")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

var star = hud.Glyph{Art: " \\|/ \n-- --\n /|\\ ", Color: lipgloss.Color("3")}

type progressMsg struct{}

type demo struct {
	logger   *slog.Logger
	script   string
	runner   *scripting.Runner
	help     help.Model
	progress float64
	running  bool
	mask     hud.MaskType
	style    hud.Style
	events   []string
	width    int
	height   int
}

var _ host.StatusLine = (*demo)(nil)

func newDemo(logger *slog.Logger, script string) *demo {
	return &demo{logger: logger, script: script, help: help.New()}
}

func (d *demo) Init() tea.Cmd {
	return d.runScript()
}

func (d *demo) runScript() tea.Cmd {
	if d.script == "" {
		return nil
	}
	if d.runner != nil {
		d.runner.Stop()
	}
	r, cmd, err := scripting.RunScript(hud.Shared(), d.logger, d.script)
	if err != nil {
		d.record(err.Error())
		return nil
	}
	d.runner = r
	d.record("script started")
	return cmd
}

func (d *demo) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var scriptCmd tea.Cmd
	if d.runner != nil {
		scriptCmd = d.runner.HandleMsg(msg)
	}
	return d, tea.Batch(scriptCmd, d.update(msg))
}

func (d *demo) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case scripting.DoneMsg:
		if msg.Err != nil {
			d.record("script failed: " + msg.Err.Error())
		} else {
			d.record("script finished")
		}
	case tea.WindowSizeMsg:
		d.width, d.height = msg.Width, msg.Height
		d.help.Width = msg.Width
	case host.NotificationMsg:
		d.record(fmt.Sprintf("%s %q", msg.Kind, msg.Status))
	case host.SubmitMsg:
		if d.runner == nil || d.runner.Done() {
			hud.ShowSuccess(msg.Value)
		}
	case progressMsg:
		return d.advance()
	case tea.KeyMsg:
		return d.handleKey(msg)
	}
	return nil
}

func (d *demo) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Quit):
		return tea.Quit
	case key.Matches(msg, keys.Spinner):
		hud.Show("Loading")
	case key.Matches(msg, keys.Progress):
		if d.running {
			return nil
		}
		d.running = true
		d.progress = 0
		hud.ShowProgress(0, "Downloading")
		return tickProgress()
	case key.Matches(msg, keys.Info):
		hud.ShowInfo("Heads up, this is informational")
	case key.Matches(msg, keys.Success):
		hud.ShowSuccess("Saved")
	case key.Matches(msg, keys.Error):
		hud.ShowError("Something went wrong")
	case key.Matches(msg, keys.Image):
		hud.ShowImage(star, "Custom glyph")
	case key.Matches(msg, keys.Pop):
		hud.PopActivity()
	case key.Matches(msg, keys.Dismiss):
		d.running = false
		hud.DismissWithDelay(0, func() {
			d.record("dismiss completed")
		})
	case key.Matches(msg, keys.Mask):
		d.mask = (d.mask + 1) % (hud.MaskCustom + 1)
		hud.SetDefaultMaskType(d.mask)
	case key.Matches(msg, keys.Style):
		d.style = (d.style + 1) % (hud.StyleCustom + 1)
		if d.style == hud.StyleCustom {
			hud.SetForegroundColor("#F5E0DC")
			hud.SetBackgroundColor("#45475A")
		} else {
			hud.SetDefaultStyle(d.style)
		}
	case key.Matches(msg, keys.Script):
		return d.runScript()
	case key.Matches(msg, keys.Input):
		return func() tea.Msg {
			return host.ShowKeyboardMsg{Placeholder: "status text"}
		}
	}
	return nil
}

func tickProgress() tea.Cmd {
	return tea.Tick(progressInterval, func(time.Time) tea.Msg {
		return progressMsg{}
	})
}

func (d *demo) advance() tea.Cmd {
	if !d.running {
		return nil
	}
	d.progress = min(d.progress+progressStep, 1)
	if d.progress >= 1 {
		d.running = false
		hud.ShowSuccess("Downloaded")
		return nil
	}
	hud.ShowProgress(d.progress, fmt.Sprintf("Downloading %d%%", int(d.progress*100)))
	return tickProgress()
}

func (d *demo) record(event string) {
	d.events = append(d.events, event)
	if len(d.events) > maxEvents {
		d.events = d.events[len(d.events)-maxEvents:]
	}
}

func (d *demo) Status() string {
	visible := "hidden"
	if hud.IsVisible() {
		visible = "visible"
	}
	return fmt.Sprintf(" hud %s | mask %s | style %s", visible, d.mask, d.style)
}

var titleStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)

func (d *demo) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("termhud demo"))
	b.WriteString("\n")
	b.WriteString(d.help.FullHelpView(keys.FullHelp()))
	b.WriteString("\n\n")
	for _, e := range d.events {
		b.WriteString(e)
		b.WriteString("\n")
	}
	return b.String()
}
