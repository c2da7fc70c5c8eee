package render

import (
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/cellbuf"
)

// DisplayContext collects the draws, effects and interactive regions of one
// frame. Nothing touches the screen until Render, which applies draws and
// effects ordered by z and then by insertion.
type DisplayContext struct {
	layers       []layerOp
	interactions []InteractionOp
}

// layerOp is either a draw or an effect.
type layerOp struct {
	z      int
	draw   Draw
	effect Effect
}

func NewDisplayContext() *DisplayContext {
	return &DisplayContext{
		layers:       make([]layerOp, 0, 16),
		interactions: make([]InteractionOp, 0, 2),
	}
}

// AddDraw places rendered content inside rect.
func (dl *DisplayContext) AddDraw(rect cellbuf.Rectangle, content string, z int) {
	if rect.Empty() {
		return
	}
	dl.layers = append(dl.layers, layerOp{z: z, draw: Draw{Rect: rect, Content: content, Z: z}})
}

// AddFill fills rect with ch in the given style.
func (dl *DisplayContext) AddFill(rect cellbuf.Rectangle, ch rune, style lipgloss.Style, z int) {
	if rect.Empty() {
		return
	}
	row := style.Render(strings.Repeat(string(ch), rect.Dx()))
	dl.AddDraw(rect, strings.Repeat(row+"\n", rect.Dy()-1)+row, z)
}

func (dl *DisplayContext) AddEffect(effect Effect) {
	dl.layers = append(dl.layers, layerOp{z: effect.GetZ(), effect: effect})
}

func (dl *DisplayContext) AddDim(rect cellbuf.Rectangle, z int) {
	dl.AddEffect(DimEffect{Rect: rect, Z: z})
}

// AddInteraction registers rect to produce msg when clicked. Later regions
// win over earlier ones at the same z.
func (dl *DisplayContext) AddInteraction(rect cellbuf.Rectangle, msg tea.Msg, z int) {
	dl.interactions = append(dl.interactions, InteractionOp{Rect: rect, Msg: msg, Z: z})
}

// Clear empties the context so it can be reused for the next frame.
func (dl *DisplayContext) Clear() {
	dl.layers = dl.layers[:0]
	dl.interactions = dl.interactions[:0]
}

func (dl *DisplayContext) Render(buf *cellbuf.Buffer) {
	ordered := slices.Clone(dl.layers)
	slices.SortStableFunc(ordered, func(a, b layerOp) int {
		return a.z - b.z
	})
	for _, op := range ordered {
		if op.effect != nil {
			op.effect.Apply(buf)
			continue
		}
		cellbuf.SetContentRect(buf, op.draw.Content, op.draw.Rect)
	}
}

// RenderToString renders into a fresh width×height buffer.
func (dl *DisplayContext) RenderToString(width, height int) string {
	buf := cellbuf.NewBuffer(width, height)
	dl.Render(buf)
	return cellbuf.Render(buf)
}

func (dl *DisplayContext) EffectsList() []Effect {
	var result []Effect
	for _, op := range dl.layers {
		if op.effect != nil {
			result = append(result, op.effect)
		}
	}
	return result
}

// ProcessMouseEvent returns the message of the topmost region under a left
// button press.
func (dl *DisplayContext) ProcessMouseEvent(msg tea.MouseMsg) (tea.Msg, bool) {
	return processMouseEvent(dl.interactions, msg)
}

func (dl *DisplayContext) Len() int {
	return len(dl.layers) + len(dl.interactions)
}
