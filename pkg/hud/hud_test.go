package hud

import (
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/cellbuf"
	"github.com/idursun/termhud/internal/loop"
	"github.com/idursun/termhud/internal/overlay"
	"github.com/idursun/termhud/internal/screen"
	"github.com/idursun/termhud/internal/ui/hudview"
	"github.com/idursun/termhud/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type buzz struct {
	got []overlay.Feedback
}

func (b *buzz) Notify(f overlay.Feedback) { b.got = append(b.got, f) }

type fixture struct {
	hud     *HUD
	clock   *loop.Manual
	surface *screen.Surface
	haptics *buzz
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		clock:   loop.NewManual(),
		surface: screen.New(80, 24, 1),
		haptics: &buzz{},
	}
	f.hud = New(WithScheduler(f.clock), WithScreen(f.surface), WithHaptics(f.haptics))
	t.Cleanup(f.hud.Close)
	return f
}

func (f *fixture) appearance() overlay.Appearance {
	return f.hud.Frame().Appearance
}

func TestHUD_ShowAndDismiss(t *testing.T) {
	f := newFixture(t)
	var kinds []overlay.NotificationKind
	f.hud.Subscribe(func(n Notification) { kinds = append(kinds, n.Kind) })

	f.hud.Show("Working")
	f.clock.Advance(time.Second)
	assert.True(t, f.hud.IsVisible())
	assert.NotNil(t, f.surface.Window().Layer())

	done := false
	f.hud.DismissWithDelay(time.Second, func() { done = true })
	f.clock.Advance(500 * time.Millisecond)
	assert.True(t, f.hud.IsVisible())

	f.clock.Advance(2 * time.Second)
	assert.False(t, f.hud.IsVisible())
	assert.True(t, done)
	assert.Nil(t, f.surface.Window().Layer())
	assert.Equal(t, []overlay.NotificationKind{
		overlay.WillAppear, overlay.DidAppear, overlay.WillDisappear, overlay.DidDisappear,
	}, kinds)
}

func TestHUD_ShowVariants(t *testing.T) {
	f := newFixture(t)

	f.hud.ShowProgress(0.4, "Uploading")
	f.clock.Advance(time.Second)
	assert.Equal(t, overlay.KindRing, f.hud.Frame().Content.Kind)
	assert.InDelta(t, 0.4, f.hud.Frame().Content.Progress, 1e-9)

	f.hud.SetStatus("Almost")
	f.clock.Flush()
	assert.Equal(t, "Almost", f.hud.Frame().Content.Status)

	f.hud.ShowInfo("Heads up")
	f.hud.ShowSuccess("Saved")
	f.hud.ShowError("Failed")
	f.clock.Flush()
	assert.Equal(t, overlay.GlyphError, f.hud.Frame().Content.Glyph.Kind)
	assert.Equal(t, []overlay.Feedback{
		overlay.FeedbackWarning, overlay.FeedbackSuccess, overlay.FeedbackError,
	}, f.haptics.got)

	f.hud.ShowImage(Glyph{Art: "*"}, "custom")
	f.clock.Flush()
	assert.Equal(t, "*", f.hud.Frame().Content.Glyph.Art)
	assert.Len(t, f.haptics.got, 3)
}

func TestHUD_FrameRenders(t *testing.T) {
	f := newFixture(t)
	f.hud.ShowSuccess("Saved")
	f.clock.Advance(time.Second)

	out := test.Stripped(test.RenderFrame(hudview.New(false), f.hud.Frame(), 80, 24))
	assert.Contains(t, out, "Saved")
	assert.Contains(t, out, "✓")
}

func TestHUD_PopActivity(t *testing.T) {
	f := newFixture(t)
	f.hud.Show("")
	f.hud.Show("")
	f.clock.Advance(time.Second)

	f.hud.PopActivity()
	f.clock.Advance(time.Second)
	assert.True(t, f.hud.IsVisible())

	f.hud.PopActivity()
	f.clock.Advance(time.Second)
	assert.False(t, f.hud.IsVisible())
}

func TestHUD_Setters(t *testing.T) {
	f := newFixture(t)
	h := f.hud

	h.SetDefaultStyle(StyleDark)
	h.SetDefaultMaskType(MaskGradient)
	h.SetDefaultAnimationType(AnimationNative)
	h.SetMinimumSize(Size{W: 20, H: 7})
	h.SetRingThickness(2)
	h.SetRingRadius(3)
	h.SetRingNoTextRadius(4)
	h.SetCornerRadius(0)
	h.SetBorderColor("#FF0000")
	h.SetBorderWidth(-1)
	h.SetFont(Font{Bold: true})
	h.SetImageViewSize(Size{W: 3, H: 1})
	h.SetShouldTintImages(false)
	h.SetInfoImage(Glyph{Kind: overlay.GlyphInfo, Art: "i"})
	h.SetSuccessImage(Glyph{Kind: overlay.GlyphSuccess, Art: "v"})
	h.SetErrorImage(Glyph{Kind: overlay.GlyphError, Art: "x"})
	h.SetGraceTimeInterval(-time.Second)
	h.SetMinimumDismissTimeInterval(time.Second)
	h.SetMaximumDismissTimeInterval(Forever)
	h.SetFadeInAnimationDuration(0)
	h.SetFadeOutAnimationDuration(time.Second)
	h.SetMaxSupportedWindowLevel(LevelAlert)
	h.SetHapticsEnabled(false)
	h.SetBackgroundLayerColor("#00FF00", 2)
	f.clock.Flush()

	a := f.appearance()
	assert.Equal(t, StyleDark, a.Style)
	assert.Equal(t, MaskGradient, a.MaskType)
	assert.Equal(t, AnimationNative, a.AnimationType)
	assert.Equal(t, Size{W: 20, H: 7}, a.MinimumSize)
	assert.Equal(t, 2, a.RingThickness)
	assert.Equal(t, 3, a.RingRadius)
	assert.Equal(t, 4, a.RingNoTextRadius)
	assert.Zero(t, a.CornerRadius)
	assert.Equal(t, lipgloss.Color("#FF0000"), a.BorderColor)
	assert.Zero(t, a.BorderWidth)
	assert.True(t, a.Font.Bold)
	assert.Equal(t, Size{W: 3, H: 1}, a.ImageSize)
	assert.False(t, a.TintImages)
	assert.Equal(t, "i", a.InfoImage.Art)
	assert.Equal(t, "v", a.SuccessImage.Art)
	assert.Equal(t, "x", a.ErrorImage.Art)
	assert.Zero(t, a.GraceInterval)
	assert.Equal(t, time.Second, a.MinimumDismissInterval)
	assert.Equal(t, Forever, a.MaximumDismissInterval)
	assert.Zero(t, a.FadeInDuration)
	assert.Equal(t, time.Second, a.FadeOutDuration)
	assert.Equal(t, LevelAlert, a.MaxSupportedWindowLevel)
	assert.False(t, a.HapticsEnabled)
	assert.Equal(t, lipgloss.Color("#00FF00"), a.BackgroundLayerColor)
	assert.Equal(t, 1.0, a.BackgroundLayerAlpha)
}

func TestHUD_ColorSetters(t *testing.T) {
	f := newFixture(t)

	f.hud.SetForegroundColor("#123456")
	f.clock.Flush()
	assert.Equal(t, StyleLight, f.appearance().Style, "foreground alone keeps the style")
	assert.Equal(t, lipgloss.Color("#123456"), f.appearance().ForegroundColor)

	f.hud.SetBackgroundColor("#654321")
	f.clock.Flush()
	assert.Equal(t, StyleCustom, f.appearance().Style)
	assert.Equal(t, lipgloss.Color("#654321"), f.hud.Frame().Background)
	assert.Equal(t, lipgloss.Color("#123456"), f.hud.Frame().Foreground)
}

func TestHUD_OffsetFromCenter(t *testing.T) {
	f := newFixture(t)
	f.hud.Show("")
	f.clock.Advance(time.Second)
	centered := f.hud.Frame().Panel

	f.hud.SetOffsetFromCenter(cellbuf.Pos(4, -2))
	f.clock.Advance(time.Second)
	assert.Equal(t, centered.Add(cellbuf.Pos(4, -2)), f.hud.Frame().Panel)

	f.hud.ResetOffsetFromCenter()
	f.clock.Advance(time.Second)
	assert.Equal(t, centered, f.hud.Frame().Panel)
}

func TestHUD_SetContainer(t *testing.T) {
	f := newFixture(t)
	other := screen.New(30, 10, 0)

	f.hud.SetContainer(other.Window())
	f.hud.Show("")
	f.clock.Advance(time.Second)

	assert.NotNil(t, other.Window().Layer())
	assert.Nil(t, f.surface.Window().Layer())
}

func TestHUD_DisplayDurationForString(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, 5*time.Second, f.hud.DisplayDurationForString("hi"))

	f.hud.SetMinimumDismissTimeInterval(0)
	f.clock.Flush()
	assert.Equal(t, 620*time.Millisecond, f.hud.DisplayDurationForString("hi"))
}

func TestHUD_WithOverlay(t *testing.T) {
	clock := loop.NewManual()
	o := overlay.New(clock, overlay.WithScreen(screen.New(40, 12, 0)))
	h := New(WithOverlay(o), WithScheduler(loop.NewManual()))
	assert.Same(t, o, h.Overlay())

	o.Show("Host owned")
	clock.Flush()
	h.Close()
	clock.Flush()
	assert.True(t, o.Frame().Attached, "a wrapped overlay outlives Close")
}

func TestHUD_CloseTearsDownOwnLoop(t *testing.T) {
	surface := screen.New(40, 12, 0)
	h := New(WithScreen(surface), WithHaptics(&buzz{}))

	h.ShowSuccess("Saved")
	h.Close()

	assert.False(t, h.Frame().Attached)
	assert.Nil(t, surface.Window().Layer())
	h.Close()
}

func TestShared_SetupOnlyBeforeFirstUse(t *testing.T) {
	resetShared()
	t.Cleanup(resetShared)

	clock := loop.NewManual()
	surface := screen.New(40, 12, 0)
	require.True(t, Setup(WithScheduler(clock), WithScreen(surface), WithHaptics(&buzz{})))
	require.True(t, Setup(WithScheduler(clock), WithScreen(surface), WithHaptics(&buzz{})), "setup may be repeated until first use")

	first := Shared()
	assert.Same(t, first, Shared())
	assert.False(t, Setup(WithScheduler(loop.NewManual())))

	ShowSuccess("Saved")
	clock.Advance(time.Second)
	assert.True(t, IsVisible())
	assert.NotNil(t, surface.Window().Layer())

	Dismiss()
	clock.Advance(time.Second)
	assert.False(t, IsVisible())
}
