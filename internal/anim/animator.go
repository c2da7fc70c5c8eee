// Package anim runs time-based transitions on a loop.Scheduler.
//
// An Animator owns one transition at a time. Starting another supersedes the
// running one: its completion is posted with finished=false and the new
// transition starts from whatever values the caller captured, so direction
// changes never jump.
package anim

import (
	"time"

	"github.com/idursun/termhud/internal/loop"
)

// FrameInterval is the time between two animation steps.
const FrameInterval = time.Second / 60

// Curve maps linear progress in [0,1] to eased progress.
type Curve func(float64) float64

var (
	Linear    Curve = func(t float64) float64 { return t }
	EaseIn    Curve = func(t float64) float64 { return t * t }
	EaseOut   Curve = func(t float64) float64 { return t * (2 - t) }
	EaseInOut Curve = func(t float64) float64 {
		if t < 0.5 {
			return 2 * t * t
		}
		return -1 + (4-2*t)*t
	}
)

// Lerp interpolates between from and to. It returns to exactly once t
// reaches 1.
func Lerp(from, to, t float64) float64 {
	if t >= 1 {
		return to
	}
	return from + (to-from)*t
}

type transition struct {
	start    time.Time
	duration time.Duration
	curve    Curve
	step     func(float64)
	done     func(finished bool)
	timer    loop.Timer
}

type Animator struct {
	scheduler loop.Scheduler
	current   *transition
}

func New(scheduler loop.Scheduler) *Animator {
	return &Animator{scheduler: scheduler}
}

// Start supersedes any running transition and begins a new one. step gets
// eased progress; done runs once, with finished=false when superseded or
// stopped. A non-positive duration steps to 1 and completes synchronously.
func (a *Animator) Start(d time.Duration, curve Curve, step func(float64), done func(finished bool)) {
	a.interrupt()
	if curve == nil {
		curve = Linear
	}
	if step == nil {
		step = func(float64) {}
	}
	if d <= 0 {
		step(1)
		if done != nil {
			done(true)
		}
		return
	}
	tr := &transition{
		start:    a.scheduler.Now(),
		duration: d,
		curve:    curve,
		step:     step,
		done:     done,
	}
	a.current = tr
	a.schedule(tr)
}

// Stop supersedes the running transition without starting another.
func (a *Animator) Stop() {
	a.interrupt()
}

func (a *Animator) schedule(tr *transition) {
	tr.timer = a.scheduler.AfterFunc(FrameInterval, func() {
		a.frame(tr)
	})
}

func (a *Animator) frame(tr *transition) {
	if a.current != tr {
		return
	}
	elapsed := a.scheduler.Now().Sub(tr.start)
	p := float64(elapsed) / float64(tr.duration)
	if p > 1 {
		p = 1
	}
	tr.step(tr.curve(p))
	if p < 1 {
		a.schedule(tr)
		return
	}
	a.current = nil
	if tr.done != nil {
		tr.done(true)
	}
}

func (a *Animator) interrupt() {
	tr := a.current
	if tr == nil {
		return
	}
	a.current = nil
	if tr.timer != nil {
		tr.timer.Stop()
	}
	if tr.done != nil {
		a.scheduler.Post(func() { tr.done(false) })
	}
}
