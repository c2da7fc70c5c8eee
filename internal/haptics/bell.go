// Package haptics plays overlay feedback on the terminal bell.
package haptics

import (
	"bytes"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/idursun/termhud/internal/overlay"
	"golang.org/x/time/rate"
)

const (
	defaultInterval = 250 * time.Millisecond
	defaultBurst    = 2
)

// Bell rings the terminal bell: once for success and warning, twice for
// errors. Rings beyond the limiter's rate are dropped.
type Bell struct {
	mu      sync.Mutex
	out     io.Writer
	limiter *rate.Limiter
}

var _ overlay.Haptics = (*Bell)(nil)

type Option func(*Bell)

func WithWriter(w io.Writer) Option {
	return func(b *Bell) {
		b.out = w
	}
}

// WithRate allows one ring per interval with the given burst.
func WithRate(interval time.Duration, burst int) Option {
	return func(b *Bell) {
		b.limiter = rate.NewLimiter(rate.Every(interval), max(burst, 1))
	}
}

// NewBell rings on stderr so it never interleaves with the UI on stdout.
func NewBell(opts ...Option) *Bell {
	b := &Bell{
		out:     os.Stderr,
		limiter: rate.NewLimiter(rate.Every(defaultInterval), defaultBurst),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Bell) Notify(f overlay.Feedback) {
	if !b.limiter.Allow() {
		return
	}
	rings := 1
	if f == overlay.FeedbackError {
		rings = 2
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	_, _ = b.out.Write(bytes.Repeat([]byte{ansi.BEL}, rings))
}
