package render

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/cellbuf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayContext_HigherZDrawsOnTop(t *testing.T) {
	dl := NewDisplayContext()
	dl.AddDraw(cellbuf.Rect(0, 0, 5, 1), "Front", 1)
	dl.AddDraw(cellbuf.Rect(0, 0, 10, 1), "Background", 0)

	output := dl.RenderToString(10, 1)

	assert.True(t, strings.HasPrefix(output, "Front"), output)
	assert.Contains(t, output, "round")
}

func TestDisplayContext_SameZKeepsInsertionOrder(t *testing.T) {
	dl := NewDisplayContext()
	dl.AddDraw(cellbuf.Rect(0, 0, 3, 1), "aaa", 0)
	dl.AddDraw(cellbuf.Rect(0, 0, 3, 1), "bbb", 0)

	assert.Equal(t, "bbb", strings.TrimSpace(dl.RenderToString(3, 1)))
}

func TestDisplayContext_EmptyRectIsSkipped(t *testing.T) {
	dl := NewDisplayContext()
	dl.AddDraw(cellbuf.Rect(0, 0, 0, 0), "x", 0)
	dl.AddFill(cellbuf.Rect(0, 0, 0, 3), '.', lipgloss.NewStyle(), 0)

	assert.Zero(t, dl.Len())
}

func TestDisplayContext_Fill(t *testing.T) {
	dl := NewDisplayContext()
	dl.AddFill(cellbuf.Rect(1, 0, 3, 2), '#', lipgloss.NewStyle(), 0)

	lines := strings.Split(dl.RenderToString(4, 2), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		assert.Equal(t, "###", strings.TrimSpace(line))
	}
}

func TestDisplayContext_EffectsApplyAfterLowerDraws(t *testing.T) {
	dl := NewDisplayContext()
	dl.AddDim(cellbuf.Rect(0, 0, 4, 1), 5)
	dl.AddDraw(cellbuf.Rect(0, 0, 4, 1), "text", 0)
	dl.AddDraw(cellbuf.Rect(2, 0, 2, 1), "XY", 10)

	buf := cellbuf.NewBuffer(4, 1)
	dl.Render(buf)

	assert.NotZero(t, buf.Cell(0, 0).Style.Attrs&cellbuf.FaintAttr)
	assert.Zero(t, buf.Cell(2, 0).Style.Attrs&cellbuf.FaintAttr)
}

func TestDisplayContext_Clear(t *testing.T) {
	dl := NewDisplayContext()
	dl.AddDraw(cellbuf.Rect(0, 0, 1, 1), "x", 0)
	dl.AddDim(cellbuf.Rect(0, 0, 1, 1), 0)
	dl.AddInteraction(cellbuf.Rect(0, 0, 1, 1), "msg", 0)
	require.Equal(t, 3, dl.Len())

	dl.Clear()
	assert.Zero(t, dl.Len())
}

func TestTintEffect_BlendsBackground(t *testing.T) {
	buf := cellbuf.NewBuffer(2, 1)
	buf.FillRect(&cellbuf.Cell{Rune: ' ', Width: 1}, buf.Bounds())
	TintEffect{
		Rect:  cellbuf.Rect(0, 0, 2, 1),
		Color: lipgloss.Color("#000000"),
		Alpha: 0.5,
		Base:  lipgloss.Color("#ffffff"),
	}.Apply(buf)

	got, ok := ParseColor(buf.Cell(0, 0).Style.Bg)
	require.True(t, ok)
	assert.Equal(t, "#808080", got.Hex())
}

func TestGradientEffect_WeakestAtCenter(t *testing.T) {
	buf := cellbuf.NewBuffer(21, 11)
	buf.FillRect(&cellbuf.Cell{Rune: ' ', Width: 1}, buf.Bounds())
	GradientEffect{
		Rect:   cellbuf.Rect(0, 0, 21, 11),
		Center: cellbuf.Pos(10, 5),
		Color:  lipgloss.Color("#000000"),
		Alpha:  1,
		Base:   lipgloss.Color("#ffffff"),
	}.Apply(buf)

	assert.Nil(t, buf.Cell(10, 5).Style.Bg, "no tint at the center")
	near, ok := ParseColor(buf.Cell(11, 5).Style.Bg)
	require.True(t, ok)
	corner, ok := ParseColor(buf.Cell(0, 0).Style.Bg)
	require.True(t, ok)
	assert.Less(t, corner.R, near.R)
}

func TestBlend(t *testing.T) {
	assert.Equal(t, lipgloss.Color("#ffffff"), BlendHex(lipgloss.Color("#ffffff"), lipgloss.Color("#000000"), 0))
	assert.Equal(t, lipgloss.Color("#000000"), BlendHex(lipgloss.Color("#ffffff"), lipgloss.Color("#000000"), 1))
	assert.Equal(t, lipgloss.Color("#000000"), BlendHex(nil, nil, 0.5))
}

func TestProcessMouseEvent_TopmostRegionWins(t *testing.T) {
	dl := NewDisplayContext()
	dl.AddInteraction(cellbuf.Rect(0, 0, 10, 10), "below", 0)
	dl.AddInteraction(cellbuf.Rect(2, 2, 3, 3), "above", 5)

	msg, ok := dl.ProcessMouseEvent(tea.MouseMsg{X: 3, Y: 3, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.True(t, ok)
	assert.Equal(t, "above", msg)

	msg, ok = dl.ProcessMouseEvent(tea.MouseMsg{X: 8, Y: 8, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.True(t, ok)
	assert.Equal(t, "below", msg)

	_, ok = dl.ProcessMouseEvent(tea.MouseMsg{X: 3, Y: 3, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	assert.False(t, ok)

	_, ok = dl.ProcessMouseEvent(tea.MouseMsg{X: 30, Y: 3, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.False(t, ok)
}

func TestProcessMouseEvent_LaterRegionWinsAtSameZ(t *testing.T) {
	dl := NewDisplayContext()
	dl.AddInteraction(cellbuf.Rect(0, 0, 4, 4), "first", 1)
	dl.AddInteraction(cellbuf.Rect(0, 0, 4, 4), "second", 1)

	msg, ok := dl.ProcessMouseEvent(tea.MouseMsg{X: 1, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	require.True(t, ok)
	assert.Equal(t, "second", msg)
}
