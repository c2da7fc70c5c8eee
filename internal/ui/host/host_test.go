package host

import (
	"bytes"
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/idursun/termhud/internal/overlay"
	"github.com/idursun/termhud/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type content struct {
	msgs []tea.Msg
}

func (c *content) Init() tea.Cmd { return nil }

func (c *content) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	c.msgs = append(c.msgs, msg)
	return c, nil
}

func (c *content) View() string { return "application content" }

func (c *content) Status() string { return "status line" }

func (c *content) notifications() []overlay.NotificationKind {
	var kinds []overlay.NotificationKind
	for _, msg := range c.msgs {
		if n, ok := msg.(NotificationMsg); ok {
			kinds = append(kinds, n.Kind)
		}
	}
	return kinds
}

func (c *content) lastSize() (tea.WindowSizeMsg, bool) {
	for i := len(c.msgs) - 1; i >= 0; i-- {
		if size, ok := c.msgs[i].(tea.WindowSizeMsg); ok {
			return size, true
		}
	}
	return tea.WindowSizeMsg{}, false
}

// pump runs queued overlay work on the test goroutine for d.
func pump(m *Model, d time.Duration) {
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		ctx, cancel := context.WithDeadline(context.Background(), deadline)
		fn, err := m.queue.Wait(ctx)
		cancel()
		if err != nil {
			return
		}
		m.Update(taskMsg(fn))
	}
}

func pumpUntil(t *testing.T, m *Model, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met")
		}
		pump(m, 20*time.Millisecond)
	}
}

func newHost(t *testing.T, configure func(*overlay.Appearance)) (*Model, *content) {
	t.Helper()
	a := overlay.DefaultAppearance()
	if configure != nil {
		configure(&a)
	}
	c := &content{}
	m := NewModel(c, WithOverlayOptions(overlay.WithAppearance(a)))
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	return m, c
}

func TestHost_ResizeReservesStatusRows(t *testing.T) {
	m, c := newHost(t, nil)

	size, ok := c.lastSize()
	require.True(t, ok)
	assert.Equal(t, 60, size.Width)
	assert.Equal(t, 19, size.Height)
	assert.Equal(t, 60, m.Screen().Bounds().Dx())
	assert.Equal(t, 1, m.Screen().StatusBarHeight())
}

func TestHost_ShowsOverlayAndForwardsNotifications(t *testing.T) {
	m, c := newHost(t, nil)

	m.Overlay().Show("Working")
	pumpUntil(t, m, func() bool { return m.Overlay().Frame().Phase == overlay.PhaseVisible })

	assert.Equal(t, []overlay.NotificationKind{overlay.WillAppear, overlay.DidAppear}, c.notifications())
	assert.NotNil(t, m.Screen().Window().Layer())

	view := ansi.Strip(m.View())
	assert.Contains(t, view, "Working")
	assert.Contains(t, view, "status line")

	m.Overlay().Dismiss(0, nil)
	pumpUntil(t, m, func() bool { return m.Screen().Window().Layer() == nil })
	assert.Contains(t, c.notifications(), overlay.DidDisappear)
	assert.NotContains(t, ansi.Strip(m.View()), "Working")
}

func TestHost_TouchIsSwallowedByMask(t *testing.T) {
	m, c := newHost(t, func(a *overlay.Appearance) {
		a.MaskType = overlay.MaskClear
	})
	m.Overlay().Show("Busy")
	pumpUntil(t, m, func() bool { return m.Overlay().Frame().Phase == overlay.PhaseVisible })
	m.View()

	press := tea.MouseMsg{X: 1, Y: 3, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	assert.Nil(t, m.Update(press))
	for _, msg := range c.msgs {
		assert.NotEqual(t, press, msg, "touch must not reach the content")
	}

	pumpUntil(t, m, func() bool {
		return len(c.notifications()) > 2
	})
	assert.Contains(t, c.notifications(), overlay.DidReceiveTouchEvent)
	assert.NotContains(t, c.notifications(), overlay.DidTouchDownInside)
}

func TestHost_TouchPassesThroughWithoutMask(t *testing.T) {
	m, c := newHost(t, nil)
	m.Overlay().Show("Busy")
	pumpUntil(t, m, func() bool { return m.Overlay().Frame().Phase == overlay.PhaseVisible })
	m.View()

	press := tea.MouseMsg{X: 1, Y: 3, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	m.Update(press)
	assert.Contains(t, c.msgs, tea.Msg(press))
}

func TestHost_KeyboardMovesOverlayUp(t *testing.T) {
	m, c := newHost(t, nil)
	m.Overlay().Show("Busy")
	pumpUntil(t, m, func() bool { return m.Overlay().Frame().Phase == overlay.PhaseVisible })
	before := m.Overlay().Frame().Panel

	m.Update(ShowKeyboardMsg{Placeholder: "type"})
	assert.Equal(t, inputRows, m.Screen().KeyboardHeight())
	size, ok := c.lastSize()
	require.True(t, ok)
	assert.Equal(t, 20-1-inputRows, size.Height)

	pump(m, 2*keyboardAnimation)
	m.Update(keyboardSettledMsg{shown: true})
	pump(m, 50*time.Millisecond)

	after := m.Overlay().Frame()
	assert.Equal(t, inputRows, after.KeyboardHeight)
	assert.Less(t, after.Panel.Min.Y, before.Min.Y)
	assert.Contains(t, ansi.Strip(m.View()), "type")
}

func TestHost_InputBarSubmits(t *testing.T) {
	m, c := newHost(t, nil)
	var seen []tea.Msg
	observe := func(msg tea.Msg) { seen = append(seen, msg) }

	test.SimulateModel(m, func() tea.Msg { return ShowKeyboardMsg{} }, observe)
	test.SimulateModel(m, test.Type("hi"), observe)
	test.SimulateModel(m, test.Press(tea.KeyEnter), observe)

	assert.Contains(t, c.msgs, tea.Msg(SubmitMsg{Value: "hi"}))
	assert.Contains(t, seen, tea.Msg(keyboardSettledMsg{shown: false}))
	assert.Zero(t, m.Screen().KeyboardHeight())
	for _, msg := range c.msgs {
		if key, ok := msg.(tea.KeyMsg); ok {
			t.Fatalf("key %v leaked to the content", key)
		}
	}
}

func TestHost_EscapeCancelsInput(t *testing.T) {
	m, c := newHost(t, nil)
	test.SimulateModel(m, func() tea.Msg { return ShowKeyboardMsg{} })
	test.SimulateModel(m, test.Type("x"))
	test.SimulateModel(m, test.Press(tea.KeyEsc))

	assert.Zero(t, m.Screen().KeyboardHeight())
	assert.Contains(t, c.msgs, tea.Msg(InputCancelledMsg{}))
	for _, msg := range c.msgs {
		_, submitted := msg.(SubmitMsg)
		assert.False(t, submitted)
	}
	assert.NotContains(t, test.Stripped(m.View()), "> x")
}

func TestHost_Program(t *testing.T) {
	c := &content{}
	m := NewModel(c)
	tm := teatest.NewTestModel(t, Wrap(m), teatest.WithInitialTermSize(60, 20))

	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return bytes.Contains(b, []byte("application content"))
	}, teatest.WithDuration(3*time.Second))

	m.Overlay().ShowSuccess("Saved")
	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return bytes.Contains(b, []byte("Saved"))
	}, teatest.WithDuration(3*time.Second))

	require.NoError(t, tm.Quit())
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))
	assert.Contains(t, c.notifications(), overlay.WillAppear)
}
