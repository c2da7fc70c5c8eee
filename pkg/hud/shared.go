package hud

import (
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/cellbuf"
	"github.com/idursun/termhud/internal/overlay"
)

var registry struct {
	mu      sync.Mutex
	once    sync.Once
	opts    []Option
	started bool
	shared  *HUD
}

// Setup records the options the shared instance is built with. It returns
// false once the shared instance exists; the options are then ignored.
func Setup(opts ...Option) bool {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if registry.started {
		return false
	}
	registry.opts = append([]Option(nil), opts...)
	return true
}

// Shared returns the process-wide instance, building it on first use.
func Shared() *HUD {
	registry.once.Do(func() {
		registry.mu.Lock()
		registry.started = true
		opts := registry.opts
		registry.mu.Unlock()
		registry.shared = New(opts...)
	})
	return registry.shared
}

func resetShared() {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if registry.shared != nil {
		registry.shared.Close()
	}
	registry.once = sync.Once{}
	registry.opts = nil
	registry.started = false
	registry.shared = nil
}

func Show(status string) { Shared().Show(status) }

func ShowProgress(progress float64, status string) { Shared().ShowProgress(progress, status) }

func ShowInfo(status string) { Shared().ShowInfo(status) }

func ShowSuccess(status string) { Shared().ShowSuccess(status) }

func ShowError(status string) { Shared().ShowError(status) }

func ShowImage(g Glyph, status string) { Shared().ShowImage(g, status) }

func SetStatus(status string) { Shared().SetStatus(status) }

func PopActivity() { Shared().PopActivity() }

func Dismiss() { Shared().Dismiss() }

func DismissWithDelay(delay time.Duration, onComplete func()) {
	Shared().DismissWithDelay(delay, onComplete)
}

func IsVisible() bool { return Shared().IsVisible() }

func DisplayDurationForString(text string) time.Duration {
	return Shared().DisplayDurationForString(text)
}

func Subscribe(fn func(Notification)) func() { return Shared().Subscribe(fn) }

func SetDefaultStyle(s Style) { Shared().SetDefaultStyle(s) }

func SetDefaultMaskType(m MaskType) { Shared().SetDefaultMaskType(m) }

func SetDefaultAnimationType(t AnimationType) { Shared().SetDefaultAnimationType(t) }

func SetContainer(c overlay.Container) { Shared().SetContainer(c) }

func SetMinimumSize(s Size) { Shared().SetMinimumSize(s) }

func SetRingThickness(cells int) { Shared().SetRingThickness(cells) }

func SetRingRadius(cells int) { Shared().SetRingRadius(cells) }

func SetRingNoTextRadius(cells int) { Shared().SetRingNoTextRadius(cells) }

func SetCornerRadius(cells int) { Shared().SetCornerRadius(cells) }

func SetBorderColor(c lipgloss.Color) { Shared().SetBorderColor(c) }

func SetBorderWidth(cells int) { Shared().SetBorderWidth(cells) }

func SetFont(f Font) { Shared().SetFont(f) }

func SetForegroundColor(c lipgloss.Color) { Shared().SetForegroundColor(c) }

func SetBackgroundColor(c lipgloss.Color) { Shared().SetBackgroundColor(c) }

func SetBackgroundLayerColor(c lipgloss.Color, alpha float64) {
	Shared().SetBackgroundLayerColor(c, alpha)
}

func SetImageViewSize(s Size) { Shared().SetImageViewSize(s) }

func SetShouldTintImages(tint bool) { Shared().SetShouldTintImages(tint) }

func SetInfoImage(g Glyph) { Shared().SetInfoImage(g) }

func SetSuccessImage(g Glyph) { Shared().SetSuccessImage(g) }

func SetErrorImage(g Glyph) { Shared().SetErrorImage(g) }

func SetGraceTimeInterval(d time.Duration) { Shared().SetGraceTimeInterval(d) }

func SetMinimumDismissTimeInterval(d time.Duration) { Shared().SetMinimumDismissTimeInterval(d) }

func SetMaximumDismissTimeInterval(d time.Duration) { Shared().SetMaximumDismissTimeInterval(d) }

func SetFadeInAnimationDuration(d time.Duration) { Shared().SetFadeInAnimationDuration(d) }

func SetFadeOutAnimationDuration(d time.Duration) { Shared().SetFadeOutAnimationDuration(d) }

func SetMaxSupportedWindowLevel(l WindowLevel) { Shared().SetMaxSupportedWindowLevel(l) }

func SetHapticsEnabled(enabled bool) { Shared().SetHapticsEnabled(enabled) }

func SetOffsetFromCenter(offset cellbuf.Position) { Shared().SetOffsetFromCenter(offset) }

func ResetOffsetFromCenter() { Shared().ResetOffsetFromCenter() }

func SetAppearance(a overlay.Appearance) { Shared().SetAppearance(a) }
