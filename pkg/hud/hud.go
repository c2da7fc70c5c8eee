// Package hud is the public face of the overlay: one shared instance behind
// Shared, package-level functions forwarding to it, and New for code that
// wants its own instance.
//
// Every call may be made from any goroutine. Calls are applied on the
// instance's scheduler in the order a goroutine made them.
package hud

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/cellbuf"
	"github.com/idursun/termhud/internal/geometry"
	"github.com/idursun/termhud/internal/haptics"
	"github.com/idursun/termhud/internal/loop"
	"github.com/idursun/termhud/internal/overlay"
	"github.com/idursun/termhud/internal/screen"
)

type (
	Style         = overlay.Style
	MaskType      = overlay.MaskType
	AnimationType = overlay.AnimationType
	Font          = overlay.Font
	Glyph         = overlay.Glyph
	WindowLevel   = overlay.WindowLevel
	Notification  = overlay.Notification
	Size          = geometry.Size
)

const (
	StyleLight  = overlay.StyleLight
	StyleDark   = overlay.StyleDark
	StyleCustom = overlay.StyleCustom

	MaskNone     = overlay.MaskNone
	MaskClear    = overlay.MaskClear
	MaskBlack    = overlay.MaskBlack
	MaskGradient = overlay.MaskGradient
	MaskCustom   = overlay.MaskCustom

	AnimationFlat   = overlay.AnimationFlat
	AnimationNative = overlay.AnimationNative

	LevelNormal    = overlay.LevelNormal
	LevelStatusBar = overlay.LevelStatusBar
	LevelAlert     = overlay.LevelAlert

	// Forever disables the upper bound of the dismiss interval.
	Forever = overlay.Forever
)

// HUD is one overlay instance.
type HUD struct {
	overlay *overlay.Overlay
	owned   bool
	serial  *loop.Serial
	cancel  context.CancelFunc
	closed  sync.Once
}

type settings struct {
	scheduler  loop.Scheduler
	screen     overlay.Screen
	haptics    overlay.Haptics
	logger     *slog.Logger
	appearance *overlay.Appearance
	overlay    *overlay.Overlay
}

type Option func(*settings)

// WithScheduler runs the instance on s instead of its own loop goroutine.
func WithScheduler(s loop.Scheduler) Option {
	return func(c *settings) {
		c.scheduler = s
	}
}

func WithScreen(s overlay.Screen) Option {
	return func(c *settings) {
		c.screen = s
	}
}

func WithHaptics(h overlay.Haptics) Option {
	return func(c *settings) {
		c.haptics = h
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *settings) {
		c.logger = l
	}
}

func WithAppearance(a overlay.Appearance) Option {
	return func(c *settings) {
		c.appearance = &a
	}
}

// WithOverlay wraps an overlay that already exists, such as the one owned
// by a host model. Every other option is ignored.
func WithOverlay(o *overlay.Overlay) Option {
	return func(c *settings) {
		c.overlay = o
	}
}

// New builds an instance. Without options it runs on its own loop
// goroutine, measures the terminal on stdout and rings the bell for
// haptics.
func New(opts ...Option) *HUD {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}
	if s.overlay != nil {
		return &HUD{overlay: s.overlay}
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}

	h := &HUD{owned: true}
	if s.scheduler == nil {
		serial := loop.NewSerial()
		ctx, cancel := context.WithCancel(context.Background())
		serial.Start(ctx)
		s.scheduler = serial
		h.serial, h.cancel = serial, cancel
	}
	if s.screen == nil {
		surface, err := screen.DetectStdout(0)
		if err != nil {
			s.logger.Debug("terminal not measurable, overlay stays hidden", "err", err)
		}
		s.screen = surface
	}
	if s.haptics == nil {
		s.haptics = haptics.NewBell()
	}

	overlayOpts := []overlay.Option{
		overlay.WithScreen(s.screen),
		overlay.WithHaptics(s.haptics),
		overlay.WithLogger(s.logger),
	}
	if s.appearance != nil {
		overlayOpts = append(overlayOpts, overlay.WithAppearance(*s.appearance))
	}
	h.overlay = overlay.New(s.scheduler, overlayOpts...)
	return h
}

// Close takes down an overlay the instance built and stops the loop
// goroutine it started, if any. A wrapped overlay is left alone.
func (h *HUD) Close() {
	h.closed.Do(func() {
		if !h.owned {
			return
		}
		h.overlay.Close()
		if h.serial != nil {
			// wait for the teardown before the loop goes away
			h.serial.Sync(func() {})
			h.cancel()
		}
	})
}

func (h *HUD) Overlay() *overlay.Overlay {
	return h.overlay
}

// Frame is the latest render snapshot.
func (h *HUD) Frame() *overlay.Frame {
	return h.overlay.Frame()
}

// Subscribe registers a handler for lifecycle and touch notifications and
// returns a function that removes it.
func (h *HUD) Subscribe(fn func(Notification)) func() {
	return h.overlay.Subscribe(fn)
}

func (h *HUD) Show(status string) {
	h.overlay.Show(status)
}

func (h *HUD) ShowProgress(progress float64, status string) {
	h.overlay.ShowProgress(progress, status)
}

func (h *HUD) ShowInfo(status string) {
	h.overlay.ShowInfo(status)
}

func (h *HUD) ShowSuccess(status string) {
	h.overlay.ShowSuccess(status)
}

func (h *HUD) ShowError(status string) {
	h.overlay.ShowError(status)
}

func (h *HUD) ShowImage(g Glyph, status string) {
	h.overlay.ShowImage(g, status)
}

func (h *HUD) SetStatus(status string) {
	h.overlay.SetStatus(status)
}

func (h *HUD) PopActivity() {
	h.overlay.PopActivity()
}

func (h *HUD) Dismiss() {
	h.overlay.Dismiss(0, nil)
}

func (h *HUD) DismissWithDelay(delay time.Duration, onComplete func()) {
	h.overlay.Dismiss(delay, onComplete)
}

func (h *HUD) IsVisible() bool {
	return h.overlay.IsVisible()
}

func (h *HUD) DisplayDurationForString(text string) time.Duration {
	return h.overlay.DisplayDuration(text)
}

// Configure edits the appearance in place on the instance's scheduler.
func (h *HUD) Configure(fn func(*overlay.Appearance)) {
	h.overlay.Configure(fn)
}

func (h *HUD) SetDefaultStyle(s Style) {
	h.Configure(func(a *overlay.Appearance) { a.Style = s })
}

func (h *HUD) SetDefaultMaskType(m MaskType) {
	h.Configure(func(a *overlay.Appearance) { a.MaskType = m })
}

func (h *HUD) SetDefaultAnimationType(t AnimationType) {
	h.Configure(func(a *overlay.Appearance) { a.AnimationType = t })
}

func (h *HUD) SetContainer(c overlay.Container) {
	h.Configure(func(a *overlay.Appearance) { a.Container = c })
}

func (h *HUD) SetMinimumSize(s Size) {
	h.Configure(func(a *overlay.Appearance) { a.MinimumSize = s })
}

func (h *HUD) SetRingThickness(cells int) {
	h.Configure(func(a *overlay.Appearance) { a.RingThickness = max(cells, 0) })
}

func (h *HUD) SetRingRadius(cells int) {
	h.Configure(func(a *overlay.Appearance) { a.RingRadius = max(cells, 0) })
}

func (h *HUD) SetRingNoTextRadius(cells int) {
	h.Configure(func(a *overlay.Appearance) { a.RingNoTextRadius = max(cells, 0) })
}

func (h *HUD) SetCornerRadius(cells int) {
	h.Configure(func(a *overlay.Appearance) { a.CornerRadius = max(cells, 0) })
}

func (h *HUD) SetBorderColor(c lipgloss.Color) {
	h.Configure(func(a *overlay.Appearance) { a.BorderColor = c })
}

func (h *HUD) SetBorderWidth(cells int) {
	h.Configure(func(a *overlay.Appearance) { a.BorderWidth = max(cells, 0) })
}

func (h *HUD) SetFont(f Font) {
	h.Configure(func(a *overlay.Appearance) { a.Font = f })
}

// SetForegroundColor is only used with StyleCustom.
func (h *HUD) SetForegroundColor(c lipgloss.Color) {
	h.Configure(func(a *overlay.Appearance) { a.ForegroundColor = c })
}

// SetBackgroundColor sets the panel colour and switches to StyleCustom.
func (h *HUD) SetBackgroundColor(c lipgloss.Color) {
	h.Configure(func(a *overlay.Appearance) {
		a.BackgroundColor = c
		a.Style = overlay.StyleCustom
	})
}

// SetBackgroundLayerColor is the tint of MaskCustom.
func (h *HUD) SetBackgroundLayerColor(c lipgloss.Color, alpha float64) {
	h.Configure(func(a *overlay.Appearance) {
		a.BackgroundLayerColor = c
		a.BackgroundLayerAlpha = min(max(alpha, 0), 1)
	})
}

func (h *HUD) SetImageViewSize(s Size) {
	h.Configure(func(a *overlay.Appearance) { a.ImageSize = s })
}

func (h *HUD) SetShouldTintImages(tint bool) {
	h.Configure(func(a *overlay.Appearance) { a.TintImages = tint })
}

func (h *HUD) SetInfoImage(g Glyph) {
	h.Configure(func(a *overlay.Appearance) { a.InfoImage = g })
}

func (h *HUD) SetSuccessImage(g Glyph) {
	h.Configure(func(a *overlay.Appearance) { a.SuccessImage = g })
}

func (h *HUD) SetErrorImage(g Glyph) {
	h.Configure(func(a *overlay.Appearance) { a.ErrorImage = g })
}

func (h *HUD) SetGraceTimeInterval(d time.Duration) {
	h.Configure(func(a *overlay.Appearance) { a.GraceInterval = max(d, 0) })
}

func (h *HUD) SetMinimumDismissTimeInterval(d time.Duration) {
	h.Configure(func(a *overlay.Appearance) { a.MinimumDismissInterval = max(d, 0) })
}

func (h *HUD) SetMaximumDismissTimeInterval(d time.Duration) {
	h.Configure(func(a *overlay.Appearance) { a.MaximumDismissInterval = max(d, 0) })
}

func (h *HUD) SetFadeInAnimationDuration(d time.Duration) {
	h.Configure(func(a *overlay.Appearance) { a.FadeInDuration = max(d, 0) })
}

func (h *HUD) SetFadeOutAnimationDuration(d time.Duration) {
	h.Configure(func(a *overlay.Appearance) { a.FadeOutDuration = max(d, 0) })
}

func (h *HUD) SetMaxSupportedWindowLevel(l WindowLevel) {
	h.Configure(func(a *overlay.Appearance) { a.MaxSupportedWindowLevel = l })
}

func (h *HUD) SetHapticsEnabled(enabled bool) {
	h.Configure(func(a *overlay.Appearance) { a.HapticsEnabled = enabled })
}

// SetOffsetFromCenter shifts the panel from its computed position.
func (h *HUD) SetOffsetFromCenter(offset cellbuf.Position) {
	h.Configure(func(a *overlay.Appearance) { a.CenterOffset = offset })
}

func (h *HUD) ResetOffsetFromCenter() {
	h.SetOffsetFromCenter(cellbuf.Pos(0, 0))
}

// SetAppearance replaces every appearance setting at once.
func (h *HUD) SetAppearance(next overlay.Appearance) {
	h.Configure(func(a *overlay.Appearance) { *a = next })
}
