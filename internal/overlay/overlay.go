// Package overlay implements the HUD lifecycle: show, update and dismiss a
// single panel with a spinner, progress ring, glyph or text.
//
// All state is confined to a loop.Scheduler. The exported operations post
// their work to it and return immediately, so calls from one goroutine are
// applied in order and never race with timers or animation callbacks.
package overlay

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/x/cellbuf"
	"github.com/idursun/termhud/internal/activity"
	"github.com/idursun/termhud/internal/anim"
	"github.com/idursun/termhud/internal/geometry"
	"github.com/idursun/termhud/internal/loop"
	"github.com/idursun/termhud/internal/timers"
	"github.com/rivo/uniseg"
)

const (
	appearScale    = 1 / 1.5
	disappearScale = 1 / 1.3

	// noAutoDismiss keeps the panel up until it is dismissed.
	noAutoDismiss time.Duration = -1
)

type Overlay struct {
	scheduler loop.Scheduler
	timers    *timers.Coordinator
	fader     *anim.Animator
	mover     *anim.Animator
	activity  activity.Counter
	bus       *Bus
	screen    Screen
	haptics   Haptics
	logger    *slog.Logger

	appearance Appearance
	phase      Phase
	content    Content
	label      geometry.Label
	metrics    geometry.Metrics
	parent     Container
	observing  bool

	// alpha is the value the panel is heading to; shownAlpha and scale are
	// what is on screen right now.
	alpha      float64
	shownAlpha float64
	scale      float64
	center     cellbuf.Position

	orientation    geometry.Orientation
	keyboardHeight int

	// epoch changes whenever a fade starts; shows counts show requests.
	// Completions compare them with the values they were started under.
	epoch uint64
	shows uint64
	// completions of delayed dismisses that have not started fading yet.
	completions []func()
	// fading holds the completions owed by the running fade-out.
	fading []func()

	frame atomic.Pointer[Frame]
}

type Option func(*Overlay)

func WithScreen(s Screen) Option {
	return func(o *Overlay) {
		o.screen = s
	}
}

func WithHaptics(h Haptics) Option {
	return func(o *Overlay) {
		o.haptics = h
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(o *Overlay) {
		if l != nil {
			o.logger = l
		}
	}
}

func WithAppearance(a Appearance) Option {
	return func(o *Overlay) {
		o.appearance = a
	}
}

func New(scheduler loop.Scheduler, opts ...Option) *Overlay {
	o := &Overlay{
		scheduler:  scheduler,
		timers:     timers.New(scheduler),
		fader:      anim.New(scheduler),
		mover:      anim.New(scheduler),
		bus:        NewBus(),
		logger:     slog.New(slog.DiscardHandler),
		appearance: DefaultAppearance(),
		scale:      1,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.relayout()
	o.publishFrame()
	return o
}

// Frame returns the latest published snapshot. It is never nil.
func (o *Overlay) Frame() *Frame {
	return o.frame.Load()
}

// Subscribe registers a notification handler. Handlers run on the
// scheduler.
func (o *Overlay) Subscribe(h Handler) func() {
	return o.bus.Subscribe(h)
}

// IsVisible reports whether the panel is shown or on its way in.
func (o *Overlay) IsVisible() bool {
	return o.Frame().TargetAlpha > 0
}

// Configure changes the appearance. Content on screen is laid out again.
func (o *Overlay) Configure(fn func(*Appearance)) {
	o.scheduler.Post(func() {
		fn(&o.appearance)
		o.relayout()
		if o.parent != nil {
			o.moveTo(o.placement(), 0)
			return
		}
		o.publishFrame()
	})
}

// DisplayDuration is how long a glyph with the given text stays up:
// 60ms per character plus half a second, clamped to the dismiss interval.
func (o *Overlay) DisplayDuration(text string) time.Duration {
	a := o.Frame().Appearance
	return displayDuration(text, a.MinimumDismissInterval, a.MaximumDismissInterval)
}

func displayDuration(text string, lo, hi time.Duration) time.Duration {
	n := uniseg.GraphemeClusterCount(text)
	d := time.Duration(n)*60*time.Millisecond + 500*time.Millisecond
	return min(max(d, lo), hi)
}

// Show displays an indeterminate spinner.
func (o *Overlay) Show(status string) {
	o.ShowProgress(-1, status)
}

// ShowProgress displays a progress ring for progress in [0,1]. A negative
// progress shows the indeterminate spinner instead.
func (o *Overlay) ShowProgress(progress float64, status string) {
	o.scheduler.Post(func() {
		o.showProgress(progress, status)
	})
}

func (o *Overlay) ShowInfo(status string) {
	o.scheduler.Post(func() {
		o.showGlyph(o.appearance.InfoImage, status)
		o.feedback(FeedbackWarning)
	})
}

func (o *Overlay) ShowSuccess(status string) {
	o.scheduler.Post(func() {
		o.showGlyph(o.appearance.SuccessImage, status)
		o.feedback(FeedbackSuccess)
	})
}

func (o *Overlay) ShowError(status string) {
	o.scheduler.Post(func() {
		o.showGlyph(o.appearance.ErrorImage, status)
		o.feedback(FeedbackError)
	})
}

// ShowImage displays custom glyph art and dismisses it after the display
// duration of status.
func (o *Overlay) ShowImage(g Glyph, status string) {
	o.scheduler.Post(func() {
		o.showGlyph(g, status)
	})
}

// SetStatus replaces the label without touching visibility or timers.
func (o *Overlay) SetStatus(status string) {
	o.scheduler.Post(func() {
		o.content.Status = status
		o.relayout()
		o.publishFrame()
	})
}

// PopActivity undoes one indeterminate show. The overlay is dismissed when
// the last activity is popped.
func (o *Overlay) PopActivity() {
	o.scheduler.Post(func() {
		if o.activity.DecrementSaturating() {
			o.dismiss(0, nil)
		}
	})
}

// Dismiss fades the overlay out after delay. onComplete runs once the panel
// is gone; it is dropped when a show brings the panel back first.
func (o *Overlay) Dismiss(delay time.Duration, onComplete func()) {
	o.scheduler.Post(func() {
		o.dismiss(delay, onComplete)
	})
}

func (o *Overlay) showProgress(progress float64, status string) {
	if o.timers.Pending(timers.FadeOut) {
		o.activity.Reset()
	}
	o.prepareShow()

	o.content.Glyph = Glyph{}
	o.content.Status = status
	if progress >= 0 {
		o.content.Kind = KindRing
		o.content.Progress = min(progress, 1)
		if progress == 0 {
			o.activity.Increment()
		}
	} else {
		o.content.Kind = KindSpinner
		o.content.Progress = 0
		o.activity.Increment()
	}
	o.present(noAutoDismiss)
}

func (o *Overlay) showGlyph(g Glyph, status string) {
	o.prepareShow()

	if o.appearance.TintImages {
		g.Color = o.appearance.Foreground()
	}
	o.content = Content{
		Kind:   KindGlyph,
		Glyph:  g,
		Status: status,
	}
	o.present(o.displayDuration(status))
}

func (o *Overlay) displayDuration(text string) time.Duration {
	return displayDuration(text, o.appearance.MinimumDismissInterval, o.appearance.MaximumDismissInterval)
}

// prepareShow pre-empts any pending dismiss and makes sure the overlay is
// attached and in front.
func (o *Overlay) prepareShow() {
	o.shows++
	o.timers.Cancel(timers.FadeOut)
	o.timers.Cancel(timers.Grace)
	o.completions = nil
	o.fading = nil
	o.attach()
}

// present fades in, behind the grace timer when the panel is fully hidden.
// A panel still fading out is on screen, so it turns around at once.
func (o *Overlay) present(autoDismiss time.Duration) {
	o.relayout()
	if o.appearance.GraceInterval > 0 && o.alpha == 0 && o.phase != PhaseDisappearing {
		o.logger.Debug("deferring fade in", "grace", o.appearance.GraceInterval)
		o.timers.Schedule(timers.Grace, o.appearance.GraceInterval, func() {
			o.fadeIn(autoDismiss)
		})
		o.publishFrame()
		return
	}
	o.fadeIn(autoDismiss)
}

func (o *Overlay) attach() {
	if o.parent != nil {
		o.parent.BringToFront(o)
		return
	}
	var c Container
	if o.appearance.Container != nil {
		c = o.appearance.Container
	} else if w := frontWindow(o.screen, o.appearance.MaxSupportedWindowLevel); w != nil {
		c = w
	}
	if c == nil || c.Bounds().Empty() {
		o.logger.Debug("no surface to attach to")
		return
	}
	c.Attach(o)
	o.parent = c
	o.logger.Debug("attached")
}

func (o *Overlay) fadeIn(autoDismiss time.Duration) {
	o.relayout()
	o.reposition()
	if o.parent == nil {
		return
	}

	if o.alpha == 1 {
		o.scheduleAutoDismiss(autoDismiss)
		return
	}

	o.publish(WillAppear)
	o.epoch++
	epoch, shows := o.epoch, o.shows
	o.alpha = 1
	o.setPhase(PhaseAppearing)

	fromAlpha, fromScale := o.shownAlpha, o.scale
	if fromAlpha == 0 {
		fromScale = appearScale
	}
	o.fader.Start(o.appearance.FadeInDuration, anim.EaseIn, func(t float64) {
		o.shownAlpha = anim.Lerp(fromAlpha, 1, t)
		o.scale = anim.Lerp(fromScale, 1, t)
		o.publishFrame()
	}, func(bool) {
		if o.epoch != epoch {
			return
		}
		o.setPhase(PhaseVisible)
		if o.alpha == 1 {
			o.observing = true
		}
		o.publish(DidAppear)
		if o.shows == shows {
			o.scheduleAutoDismiss(autoDismiss)
		}
		o.publishFrame()
	})
	o.publishFrame()
}

func (o *Overlay) scheduleAutoDismiss(d time.Duration) {
	if d < 0 || d >= Forever {
		return
	}
	o.logger.Debug("scheduling dismiss", "after", d)
	o.timers.Schedule(timers.FadeOut, d, func() {
		o.dismiss(0, nil)
	})
}

func (o *Overlay) dismiss(delay time.Duration, onComplete func()) {
	o.timers.Cancel(timers.Grace)
	if onComplete != nil {
		o.completions = append(o.completions, onComplete)
	}
	if delay > 0 {
		o.logger.Debug("dismissing later", "delay", delay)
		o.timers.Schedule(timers.FadeOut, delay, o.fadeOut)
		return
	}
	o.timers.Cancel(timers.FadeOut)
	o.fadeOut()
}

func (o *Overlay) fadeOut() {
	o.fading = append(o.fading, o.completions...)
	o.completions = nil

	if o.phase != PhaseIdle {
		o.publish(WillDisappear)
		o.setPhase(PhaseDisappearing)
	}
	o.activity.Reset()
	o.epoch++
	o.alpha = 0
	epoch, shows := o.epoch, o.shows

	fromAlpha, fromScale := o.shownAlpha, o.scale
	toScale := fromScale * disappearScale
	o.fader.Start(o.appearance.FadeOutDuration, anim.EaseOut, func(t float64) {
		o.shownAlpha = anim.Lerp(fromAlpha, 0, t)
		o.scale = anim.Lerp(fromScale, toScale, t)
		o.publishFrame()
	}, func(bool) {
		// a show brings the panel back; a newer fade-out takes over the
		// completions
		if o.epoch != epoch || o.shows != shows {
			o.logger.Debug("fade out superseded")
			return
		}
		completions := o.fading
		o.fading = nil
		o.teardown()
		for _, fn := range completions {
			fn()
		}
	})
	o.publishFrame()
}

// Close cancels pending timers and animations and detaches the panel.
// Completions of dismisses still in flight are dropped.
func (o *Overlay) Close() {
	o.scheduler.Post(o.shutdown)
}

func (o *Overlay) shutdown() {
	o.timers.CancelAll()
	o.completions, o.fading = nil, nil
	o.epoch++
	o.teardown()
}

// teardown detaches the overlay and resets it to idle. Calling it on an
// idle overlay does nothing.
func (o *Overlay) teardown() {
	wasShown := o.parent != nil && o.phase != PhaseIdle
	status := o.content.Status

	o.fader.Stop()
	o.mover.Stop()
	o.content = Content{}
	o.activity.Reset()
	o.observing = false
	o.alpha, o.shownAlpha, o.scale = 0, 0, 1
	if o.parent != nil {
		o.parent.Detach(o)
		o.parent = nil
		o.logger.Debug("detached")
	}
	o.setPhase(PhaseIdle)
	o.relayout()
	o.publishFrame()

	if wasShown {
		o.bus.Publish(Notification{Kind: DidDisappear, Status: status, HasStatus: status != ""})
	}
}

func (o *Overlay) relayout() {
	a := o.appearance
	o.label = geometry.MeasureLabel(o.content.Status, a.LabelMaxSize)
	o.metrics = geometry.ComputeLayout(geometry.Input{
		Content:     contentSize(o.content, a),
		Label:       o.label,
		MinimumSize: a.MinimumSize,
		Spacing:     geometry.DefaultSpacing,
	})
}

func (o *Overlay) setPhase(p Phase) {
	if o.phase == p {
		return
	}
	o.logger.Debug("phase changed", "from", o.phase, "to", p)
	o.phase = p
}

func (o *Overlay) publish(kind NotificationKind) {
	o.bus.Publish(Notification{Kind: kind, Status: o.content.Status, HasStatus: o.content.Status != ""})
}

func (o *Overlay) feedback(f Feedback) {
	if !o.appearance.HapticsEnabled || o.haptics == nil {
		return
	}
	o.haptics.Notify(f)
}
