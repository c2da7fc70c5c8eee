// Package scripting runs Lua scripts that drive the HUD. A script runs as a
// coroutine: calls such as sleep, await and input suspend it until the
// message they wait for reaches HandleMsg.
package scripting

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/idursun/termhud/internal/config"
	"github.com/idursun/termhud/internal/overlay"
	"github.com/idursun/termhud/internal/ui/host"
	lua "github.com/yuin/gopher-lua"
	"gopkg.in/yaml.v3"
)

// Target is the HUD a script controls.
type Target interface {
	Show(status string)
	ShowProgress(progress float64, status string)
	ShowInfo(status string)
	ShowSuccess(status string)
	ShowError(status string)
	ShowImage(g overlay.Glyph, status string)
	SetStatus(status string)
	PopActivity()
	DismissWithDelay(delay time.Duration, onComplete func())
	IsVisible() bool
	Configure(fn func(*overlay.Appearance))
}

// DoneMsg is sent when a script returns or fails.
type DoneMsg struct {
	Err error
}

type wakeMsg struct {
	id int
}

// matcher decides whether msg resumes a suspended script and with which
// values.
type matcher func(msg tea.Msg) (bool, []lua.LValue)

// suspension is what a yielding builtin hands back to the runner.
type suspension struct {
	emit  tea.Cmd
	until matcher
}

type Runner struct {
	target Target
	logger *slog.Logger

	vm     *lua.LState
	co     *lua.LState
	stopCo context.CancelFunc
	entry  *lua.LFunction

	waitFor matcher
	pending []lua.LValue
	naps    int
	ended   bool
}

// RunScript starts src and returns the commands its first steps produced.
func RunScript(target Target, logger *slog.Logger, src string) (*Runner, tea.Cmd, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	r := &Runner{target: target, logger: logger, vm: lua.NewState()}
	r.install()

	entry, err := r.vm.LoadString(src)
	if err != nil {
		r.vm.Close()
		return nil, nil, fmt.Errorf("lua: %w", err)
	}
	r.entry = entry
	r.co, r.stopCo = r.vm.NewThread()
	return r, r.step(), nil
}

// Stop abandons a script that is still waiting.
func (r *Runner) Stop() {
	r.waitFor = nil
	r.ended = true
	r.release()
}

// HandleMsg resumes the script if it waits for msg.
func (r *Runner) HandleMsg(msg tea.Msg) tea.Cmd {
	if r.waitFor == nil {
		return nil
	}
	matched, values := r.waitFor(msg)
	if !matched {
		return nil
	}
	r.waitFor = nil
	r.pending = values
	return r.step()
}

func (r *Runner) Done() bool {
	return r.ended && r.waitFor == nil
}

// Waiting reports whether the script is suspended on a message.
func (r *Runner) Waiting() bool {
	return r.waitFor != nil
}

func (r *Runner) release() {
	if r.vm == nil {
		return
	}
	if r.stopCo != nil {
		r.stopCo()
	}
	r.vm.Close()
	r.vm, r.stopCo = nil, nil
}

// step resumes the coroutine until it suspends on a message or ends, and
// collects the commands emitted along the way.
func (r *Runner) step() tea.Cmd {
	if r.ended {
		return nil
	}
	var emitted []tea.Cmd
	for r.waitFor == nil && !r.ended {
		fn := r.entry
		r.entry = nil
		args := r.pending
		r.pending = nil

		state, err, yielded := r.vm.Resume(r.co, fn, args...)
		switch {
		case err != nil:
			r.ended = true
			emitted = append(emitted, finished(err))
		default:
			for _, s := range suspensions(yielded) {
				if s.emit != nil {
					emitted = append(emitted, s.emit)
				}
				if s.until != nil {
					r.waitFor = s.until
					break
				}
			}
			if r.waitFor == nil && state == lua.ResumeOK {
				r.ended = true
				emitted = append(emitted, finished(nil))
			}
		}
	}
	if r.ended {
		r.release()
	}
	if len(emitted) == 0 {
		return nil
	}
	return tea.Sequence(emitted...)
}

func suspensions(values []lua.LValue) []suspension {
	var out []suspension
	for _, v := range values {
		if ud, ok := v.(*lua.LUserData); ok {
			if s, ok := ud.Value.(suspension); ok {
				out = append(out, s)
			}
		}
	}
	return out
}

func finished(err error) tea.Cmd {
	return func() tea.Msg {
		return DoneMsg{Err: err}
	}
}

func suspend(L *lua.LState, s suspension) int {
	ud := L.NewUserData()
	ud.Value = s
	return L.Yield(ud)
}

func (r *Runner) install() {
	L := r.vm
	t := r.target

	show := func(fn func(string)) lua.LGFunction {
		return func(L *lua.LState) int {
			fn(L.OptString(1, ""))
			return 0
		}
	}
	hud := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"show":    show(t.Show),
		"info":    show(t.ShowInfo),
		"success": show(t.ShowSuccess),
		"error":   show(t.ShowError),
		"progress": func(L *lua.LState) int {
			t.ShowProgress(float64(L.CheckNumber(1)), L.OptString(2, ""))
			return 0
		},
		"image": func(L *lua.LState) int {
			t.ShowImage(overlay.Glyph{Art: L.CheckString(1)}, L.OptString(2, ""))
			return 0
		},
		"status": func(L *lua.LState) int {
			t.SetStatus(L.CheckString(1))
			return 0
		},
		"pop": func(*lua.LState) int {
			t.PopActivity()
			return 0
		},
		"dismiss": func(L *lua.LState) int {
			t.DismissWithDelay(millis(L.OptNumber(1, 0)), nil)
			return 0
		},
		"visible": func(L *lua.LState) int {
			L.Push(lua.LBool(t.IsVisible()))
			return 1
		},
		"configure": r.configure,
	})
	L.SetGlobal("hud", hud)

	L.SetGlobal("sleep", L.NewFunction(func(L *lua.LState) int {
		r.naps++
		id := r.naps
		return suspend(L, suspension{
			emit: tea.Tick(millis(L.CheckNumber(1)), func(time.Time) tea.Msg {
				return wakeMsg{id: id}
			}),
			until: func(msg tea.Msg) (bool, []lua.LValue) {
				w, ok := msg.(wakeMsg)
				return ok && w.id == id, nil
			},
		})
	}))
	L.SetGlobal("await", L.NewFunction(func(L *lua.LState) int {
		kind := L.CheckString(1)
		return suspend(L, suspension{until: func(msg tea.Msg) (bool, []lua.LValue) {
			n, ok := msg.(host.NotificationMsg)
			if !ok || n.Kind.String() != kind {
				return false, nil
			}
			return true, []lua.LValue{lua.LString(n.Status)}
		}})
	}))
	L.SetGlobal("input", L.NewFunction(func(L *lua.LState) int {
		placeholder := L.OptString(1, "")
		return suspend(L, suspension{
			emit: func() tea.Msg {
				return host.ShowKeyboardMsg{Placeholder: placeholder}
			},
			until: submitted,
		})
	}))
}

func submitted(msg tea.Msg) (bool, []lua.LValue) {
	switch msg := msg.(type) {
	case host.SubmitMsg:
		return true, []lua.LValue{lua.LString(msg.Value)}
	case host.InputCancelledMsg:
		return true, []lua.LValue{lua.LNil}
	}
	return false, nil
}

// configure takes a table shaped like the [hud] section of the config file.
// Values are checked against a default appearance before anything changes.
func (r *Runner) configure(L *lua.LState) int {
	data, err := yaml.Marshal(map[string]any{"hud": fromTable(L.CheckTable(1))})
	if err != nil {
		L.RaiseError("configure: %s", err.Error())
		return 0
	}
	c, err := config.ParseYAML(data)
	if err != nil {
		L.RaiseError("configure: %s", err.Error())
		return 0
	}
	probe := overlay.DefaultAppearance()
	if err := c.Apply(&probe); err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	r.target.Configure(func(a *overlay.Appearance) {
		if err := c.Apply(a); err != nil {
			r.logger.Warn("script configuration rejected", "err", err)
		}
	})
	return 0
}

func millis(n lua.LNumber) time.Duration {
	return time.Duration(float64(n) * float64(time.Millisecond))
}

// fromTable converts a Lua table to a list when it has only array entries
// and to a map otherwise.
func fromTable(tbl *lua.LTable) any {
	keyed := tbl.Len() == 0
	tbl.ForEach(func(k, _ lua.LValue) {
		keyed = keyed || k.Type() == lua.LTString
	})
	if !keyed {
		var list []any
		tbl.ForEach(func(_, v lua.LValue) {
			list = append(list, toGo(v))
		})
		return list
	}
	m := make(map[string]any)
	tbl.ForEach(func(k, v lua.LValue) {
		if s, ok := k.(lua.LString); ok {
			m[string(s)] = toGo(v)
		}
	})
	return m
}

func toGo(v lua.LValue) any {
	switch v := v.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		if f := float64(v); f == float64(int64(f)) {
			return int64(f)
		}
		return float64(v)
	case lua.LString:
		return string(v)
	case *lua.LTable:
		return fromTable(v)
	}
	return nil
}
