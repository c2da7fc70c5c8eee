// Package loop provides the single serial context every overlay mutation runs on.
//
// Callers on any goroutine hand work to a Scheduler; the scheduler runs it one
// task at a time, in posting order. Timers fire by posting onto the same
// scheduler, so timer callbacks never race with regular tasks.
package loop

import "time"

// Scheduler runs work serially.
type Scheduler interface {
	// Post enqueues fn to run on the scheduler after already queued work.
	Post(fn func())
	// AfterFunc runs fn on the scheduler once d has elapsed, unless the
	// returned Timer is stopped first.
	AfterFunc(d time.Duration, fn func()) Timer
	// Now is the scheduler's notion of the current time.
	Now() time.Time
}

// Timer is a handle to a callback scheduled with AfterFunc.
type Timer interface {
	// Stop prevents the callback from running. It returns false when the
	// callback already ran or the timer was stopped before.
	Stop() bool
}
