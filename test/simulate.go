// Package test holds helpers for driving bubbletea models in unit tests.
package test

import (
	"reflect"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Updater is anything that consumes messages and may answer with a command.
type Updater interface {
	Update(tea.Msg) tea.Cmd
}

// SimulateModel runs first and every command it leads to against u, in
// order, until no command is pending. Cursor blinks and spinner ticks never
// reach u, otherwise the run would not end. Each observer sees every
// message delivered to u.
func SimulateModel(u Updater, first tea.Cmd, observers ...func(tea.Msg)) {
	pending := []tea.Cmd{first}
	for len(pending) > 0 {
		cmd := pending[0]
		pending = pending[1:]
		if cmd == nil {
			continue
		}
		msg := cmd()
		if nested, ok := expand(msg); ok {
			pending = append(pending, nested...)
			continue
		}
		if msg == nil || periodic(msg) {
			continue
		}
		for _, observe := range observers {
			observe(msg)
		}
		pending = append(pending, u.Update(msg))
	}
}

// Type produces one rune key press per character of s.
func Type(s string) tea.Cmd {
	var keys []tea.Cmd
	for _, r := range s {
		msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
		keys = append(keys, func() tea.Msg { return msg })
	}
	return tea.Sequence(keys...)
}

// Press produces a single special key press.
func Press(k tea.KeyType) tea.Cmd {
	return func() tea.Msg { return tea.KeyMsg{Type: k} }
}

func periodic(msg tea.Msg) bool {
	switch msg.(type) {
	case cursor.BlinkMsg, spinner.TickMsg:
		return true
	}
	return false
}

var cmdType = reflect.TypeFor[tea.Cmd]()

// expand unpacks batch and sequence messages. tea.Sequence yields an
// unexported slice type, so any slice of commands is accepted.
func expand(msg tea.Msg) ([]tea.Cmd, bool) {
	if batch, ok := msg.(tea.BatchMsg); ok {
		return batch, true
	}
	v := reflect.ValueOf(msg)
	if !v.IsValid() || v.Kind() != reflect.Slice || !v.Type().Elem().AssignableTo(cmdType) {
		return nil, false
	}
	cmds := make([]tea.Cmd, 0, v.Len())
	for i := range v.Len() {
		cmds = append(cmds, v.Index(i).Interface().(tea.Cmd))
	}
	return cmds, true
}
