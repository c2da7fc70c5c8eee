package render

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/cellbuf"
)

// InteractionOp is a clickable region.
type InteractionOp struct {
	Rect cellbuf.Rectangle
	Msg  tea.Msg
	Z    int
}

// processMouseEvent walks regions newest first and keeps the highest z that
// contains the press.
func processMouseEvent(interactions []InteractionOp, msg tea.MouseMsg) (tea.Msg, bool) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil, false
	}
	at := cellbuf.Pos(msg.X, msg.Y)
	hit := -1
	for i := len(interactions) - 1; i >= 0; i-- {
		if !at.In(interactions[i].Rect) {
			continue
		}
		if hit < 0 || interactions[i].Z > interactions[hit].Z {
			hit = i
		}
	}
	if hit < 0 {
		return nil, false
	}
	return interactions[hit].Msg, true
}
