package loop

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Queue is a goroutine-safe FIFO of tasks. Something else drains it: either
// Serial below or a bubbletea model listening through Wait.
type Queue struct {
	mu     sync.Mutex
	tasks  []func()
	signal chan struct{}
}

var _ Scheduler = (*Queue)(nil)

func NewQueue() *Queue {
	return &Queue{signal: make(chan struct{}, 1)}
}

func (q *Queue) Post(fn func()) {
	if fn == nil {
		return
	}
	q.mu.Lock()
	q.tasks = append(q.tasks, fn)
	q.mu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}
}

func (q *Queue) AfterFunc(d time.Duration, fn func()) Timer {
	t := &queueTimer{}
	t.timer = time.AfterFunc(d, func() {
		q.Post(func() {
			if t.stopped.Load() {
				return
			}
			t.done.Store(true)
			fn()
		})
	})
	return t
}

func (q *Queue) Now() time.Time {
	return time.Now()
}

// Len reports the number of tasks waiting to run.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// TryNext pops the oldest task without blocking.
func (q *Queue) TryNext() (func(), bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.tasks) == 0 {
		return nil, false
	}
	fn := q.tasks[0]
	q.tasks[0] = nil
	q.tasks = q.tasks[1:]
	return fn, true
}

// Wait blocks until a task is available or ctx is done.
func (q *Queue) Wait(ctx context.Context) (func(), error) {
	for {
		if fn, ok := q.TryNext(); ok {
			return fn, nil
		}
		select {
		case <-q.signal:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

type queueTimer struct {
	timer   *time.Timer
	stopped atomic.Bool
	done    atomic.Bool
}

func (t *queueTimer) Stop() bool {
	if t.done.Load() {
		return false
	}
	if t.stopped.Swap(true) {
		return false
	}
	t.timer.Stop()
	return true
}

// Serial drains a Queue on its own goroutine.
type Serial struct {
	*Queue
	running atomic.Bool
}

func NewSerial() *Serial {
	return &Serial{Queue: NewQueue()}
}

// Run executes tasks until ctx is cancelled. Only one Run may be active.
func (s *Serial) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return nil
	}
	defer s.running.Store(false)
	for {
		fn, err := s.Wait(ctx)
		if err != nil {
			return err
		}
		fn()
	}
}

// Start runs the loop on a new goroutine.
func (s *Serial) Start(ctx context.Context) {
	go func() {
		_ = s.Run(ctx)
	}()
}

// Sync posts fn and waits for it to finish. It must not be called from a
// task already running on s.
func (s *Serial) Sync(fn func()) {
	done := make(chan struct{})
	s.Post(func() {
		defer close(done)
		fn()
	})
	<-done
}
