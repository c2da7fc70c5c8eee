package overlay

import "sync"

type NotificationKind int

const (
	WillAppear NotificationKind = iota
	DidAppear
	WillDisappear
	DidDisappear
	DidReceiveTouchEvent
	DidTouchDownInside
)

func (k NotificationKind) String() string {
	switch k {
	case WillAppear:
		return "willAppear"
	case DidAppear:
		return "didAppear"
	case WillDisappear:
		return "willDisappear"
	case DidDisappear:
		return "didDisappear"
	case DidReceiveTouchEvent:
		return "didReceiveTouchEvent"
	case DidTouchDownInside:
		return "didTouchDownInside"
	}
	return "unknown"
}

// Notification carries the status text shown when it was posted.
type Notification struct {
	Kind      NotificationKind
	Status    string
	HasStatus bool
}

type Handler func(Notification)

// Bus delivers notifications synchronously, in subscription order.
type Bus struct {
	mu       sync.RWMutex
	handlers []subscription
	nextID   int
}

type subscription struct {
	id      int
	handler Handler
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a handler and returns a function removing it.
func (b *Bus) Subscribe(h Handler) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.handlers = append(b.handlers, subscription{id: id, handler: h})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.handlers {
			if s.id == id {
				b.handlers = append(b.handlers[:i:i], b.handlers[i+1:]...)
				return
			}
		}
	}
}

func (b *Bus) Publish(n Notification) {
	b.mu.RLock()
	snapshot := make([]Handler, len(b.handlers))
	for i, s := range b.handlers {
		snapshot[i] = s.handler
	}
	b.mu.RUnlock()

	for _, h := range snapshot {
		h(n)
	}
}

func (b *Bus) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers)
}
