package overlay

import (
	"math"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/cellbuf"
	"github.com/idursun/termhud/internal/geometry"
)

type Style int

const (
	StyleLight Style = iota
	StyleDark
	StyleCustom
)

func (s Style) String() string {
	switch s {
	case StyleDark:
		return "dark"
	case StyleCustom:
		return "custom"
	default:
		return "light"
	}
}

// MaskType decides what is drawn behind the panel and whether touches
// reach the content underneath.
type MaskType int

const (
	MaskNone MaskType = iota
	MaskClear
	MaskBlack
	MaskGradient
	MaskCustom
)

func (m MaskType) String() string {
	switch m {
	case MaskClear:
		return "clear"
	case MaskBlack:
		return "black"
	case MaskGradient:
		return "gradient"
	case MaskCustom:
		return "custom"
	default:
		return "none"
	}
}

type AnimationType int

const (
	AnimationFlat AnimationType = iota
	AnimationNative
)

func (a AnimationType) String() string {
	if a == AnimationNative {
		return "native"
	}
	return "flat"
}

type Font struct {
	Bold   bool
	Italic bool
	Faint  bool
}

// WindowLevel orders windows the overlay may attach to.
type WindowLevel int

const (
	LevelNormal    WindowLevel = 0
	LevelStatusBar WindowLevel = 1000
	LevelAlert     WindowLevel = 2000
)

// Forever is used as an unbounded dismiss interval.
const Forever = time.Duration(math.MaxInt64)

const (
	black = lipgloss.Color("#000000")
	white = lipgloss.Color("#FFFFFF")
)

// Appearance holds every configurable aspect of the overlay.
type Appearance struct {
	Style         Style
	MaskType      MaskType
	AnimationType AnimationType

	MinimumSize      geometry.Size
	LabelMaxSize     geometry.Size
	RingThickness    int
	RingRadius       int
	RingNoTextRadius int
	CornerRadius     int
	BorderColor      lipgloss.Color
	BorderWidth      int
	Font             Font

	ForegroundColor      lipgloss.Color
	BackgroundColor      lipgloss.Color
	BackgroundLayerColor lipgloss.Color
	BackgroundLayerAlpha float64

	ImageSize    geometry.Size
	TintImages   bool
	InfoImage    Glyph
	SuccessImage Glyph
	ErrorImage   Glyph

	GraceInterval          time.Duration
	MinimumDismissInterval time.Duration
	MaximumDismissInterval time.Duration
	FadeInDuration         time.Duration
	FadeOutDuration        time.Duration

	MaxSupportedWindowLevel WindowLevel
	HapticsEnabled          bool
	CenterOffset            cellbuf.Position
	// Container replaces the front window as the attachment point.
	Container Container
}

func DefaultAppearance() Appearance {
	return Appearance{
		Style:                   StyleLight,
		MaskType:                MaskNone,
		AnimationType:           AnimationFlat,
		MinimumSize:             geometry.DefaultMinimumSize,
		LabelMaxSize:            geometry.DefaultLabelMaxSize,
		RingThickness:           1,
		RingRadius:              2,
		RingNoTextRadius:        3,
		CornerRadius:            1,
		BackgroundLayerColor:    black,
		BackgroundLayerAlpha:    0.5,
		ImageSize:               geometry.Size{W: 5, H: 3},
		TintImages:              true,
		InfoImage:               InfoGlyph,
		SuccessImage:            SuccessGlyph,
		ErrorImage:              ErrorGlyph,
		MinimumDismissInterval:  5 * time.Second,
		MaximumDismissInterval:  Forever,
		FadeInDuration:          150 * time.Millisecond,
		FadeOutDuration:         150 * time.Millisecond,
		MaxSupportedWindowLevel: LevelNormal,
	}
}

// Foreground resolves the text and indicator colour for the style.
func (a Appearance) Foreground() lipgloss.Color {
	switch a.Style {
	case StyleDark:
		return white
	case StyleCustom:
		if a.ForegroundColor != "" {
			return a.ForegroundColor
		}
		return black
	default:
		return black
	}
}

// Background resolves the panel colour for the style.
func (a Appearance) Background() lipgloss.Color {
	switch a.Style {
	case StyleDark:
		return black
	case StyleCustom:
		if a.BackgroundColor != "" {
			return a.BackgroundColor
		}
		return white
	default:
		return white
	}
}

// Mask resolves the backdrop tint and its strength at full visibility.
func (a Appearance) Mask() (lipgloss.Color, float64) {
	switch a.MaskType {
	case MaskBlack:
		return black, 0.4
	case MaskCustom:
		return a.BackgroundLayerColor, a.BackgroundLayerAlpha
	case MaskGradient:
		return black, 0.5
	default:
		return "", 0
	}
}

// Interactive reports whether the overlay swallows touches.
func (a Appearance) Interactive() bool {
	return a.MaskType != MaskNone
}
