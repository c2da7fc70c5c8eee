// Package timers holds the overlay's two timer slots. Each slot owns at most
// one live timer; installing a timer always stops whatever the slot held.
package timers

import (
	"time"

	"github.com/idursun/termhud/internal/loop"
)

type Slot int

const (
	// Grace delays the first fade-in.
	Grace Slot = iota
	// FadeOut schedules an automatic or delayed dismiss.
	FadeOut
	slotCount
)

func (s Slot) String() string {
	switch s {
	case Grace:
		return "grace"
	case FadeOut:
		return "fadeOut"
	default:
		return "unknown"
	}
}

type entry struct {
	timer loop.Timer
	after time.Duration
}

// Coordinator must only be used from the scheduler it was created with.
type Coordinator struct {
	scheduler loop.Scheduler
	slots     [slotCount]*entry
}

func New(scheduler loop.Scheduler) *Coordinator {
	return &Coordinator{scheduler: scheduler}
}

// Schedule replaces the timer in slot with one that runs fn after d. The slot
// is cleared before fn runs, so fn may schedule into the same slot again.
func (c *Coordinator) Schedule(slot Slot, d time.Duration, fn func()) {
	c.Cancel(slot)
	if fn == nil {
		return
	}
	e := &entry{after: d}
	e.timer = c.scheduler.AfterFunc(d, func() {
		if c.slots[slot] != e {
			return
		}
		c.slots[slot] = nil
		fn()
	})
	c.slots[slot] = e
}

// Cancel stops and clears the slot. It reports whether a timer was pending.
func (c *Coordinator) Cancel(slot Slot) bool {
	e := c.slots[slot]
	if e == nil {
		return false
	}
	c.slots[slot] = nil
	e.timer.Stop()
	return true
}

func (c *Coordinator) Pending(slot Slot) bool {
	return c.slots[slot] != nil
}

// Interval returns the delay the pending timer was scheduled with.
func (c *Coordinator) Interval(slot Slot) (time.Duration, bool) {
	e := c.slots[slot]
	if e == nil {
		return 0, false
	}
	return e.after, true
}

func (c *Coordinator) CancelAll() {
	for s := Slot(0); s < slotCount; s++ {
		c.Cancel(s)
	}
}
