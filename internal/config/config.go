// Package config reads the HUD appearance from a TOML or YAML file.
//
//	[hud]
//	style = "dark"
//	mask = "gradient"
//	fade_in = "150ms"
//	maximum_dismiss_interval = "forever"
//
// Keys that are left out keep the value they already have.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/cellbuf"
	"github.com/idursun/termhud/internal/geometry"
	"github.com/idursun/termhud/internal/overlay"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HUD HUD `toml:"hud" yaml:"hud"`
}

type HUD struct {
	Style     string `toml:"style" yaml:"style"`
	Mask      string `toml:"mask" yaml:"mask"`
	Animation string `toml:"animation" yaml:"animation"`

	ForegroundColor      string   `toml:"foreground_color" yaml:"foreground_color"`
	BackgroundColor      string   `toml:"background_color" yaml:"background_color"`
	BackgroundLayerColor string   `toml:"background_layer_color" yaml:"background_layer_color"`
	BackgroundLayerAlpha *float64 `toml:"background_layer_alpha" yaml:"background_layer_alpha"`
	BorderColor          string   `toml:"border_color" yaml:"border_color"`
	BorderWidth          *int     `toml:"border_width" yaml:"border_width"`
	CornerRadius         *int     `toml:"corner_radius" yaml:"corner_radius"`
	Font                 *Font    `toml:"font" yaml:"font"`

	RingThickness    *int  `toml:"ring_thickness" yaml:"ring_thickness"`
	RingRadius       *int  `toml:"ring_radius" yaml:"ring_radius"`
	RingNoTextRadius *int  `toml:"ring_no_text_radius" yaml:"ring_no_text_radius"`
	MinimumSize      *Size `toml:"minimum_size" yaml:"minimum_size"`
	LabelMaxSize     *Size `toml:"label_max_size" yaml:"label_max_size"`
	ImageSize        *Size `toml:"image_size" yaml:"image_size"`
	TintImages       *bool `toml:"tint_images" yaml:"tint_images"`

	GraceInterval          *Duration `toml:"grace_interval" yaml:"grace_interval"`
	MinimumDismissInterval *Duration `toml:"minimum_dismiss_interval" yaml:"minimum_dismiss_interval"`
	MaximumDismissInterval *Duration `toml:"maximum_dismiss_interval" yaml:"maximum_dismiss_interval"`
	FadeIn                 *Duration `toml:"fade_in" yaml:"fade_in"`
	FadeOut                *Duration `toml:"fade_out" yaml:"fade_out"`

	MaxWindowLevel string  `toml:"max_window_level" yaml:"max_window_level"`
	Haptics        *bool   `toml:"haptics" yaml:"haptics"`
	Offset         *Offset `toml:"offset" yaml:"offset"`
}

type Font struct {
	Bold   bool `toml:"bold" yaml:"bold"`
	Italic bool `toml:"italic" yaml:"italic"`
	Faint  bool `toml:"faint" yaml:"faint"`
}

type Size struct {
	Width  int `toml:"width" yaml:"width"`
	Height int `toml:"height" yaml:"height"`
}

type Offset struct {
	X int `toml:"x" yaml:"x"`
	Y int `toml:"y" yaml:"y"`
}

// Duration is a time.Duration written as a string such as "150ms". The
// words "forever" and "infinite" stand for no upper bound.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	switch strings.ToLower(s) {
	case "forever", "infinite", "inf":
		d.Duration = overlay.Forever
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if v < 0 {
		return fmt.Errorf("invalid duration %q: negative", s)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	if d.Duration == overlay.Forever {
		return []byte("forever"), nil
	}
	return []byte(d.Duration.String()), nil
}

// Load reads path, picking the format from its extension.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		return ParseTOML(data)
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
}

func ParseTOML(data []byte) (*Config, error) {
	var c Config
	md, err := toml.Decode(string(data), &c)
	if err != nil {
		return nil, fmt.Errorf("parsing TOML: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("parsing TOML: unknown key %q", undecoded[0].String())
	}
	return &c, nil
}

func ParseYAML(data []byte) (*Config, error) {
	var c Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	return &c, nil
}

// Apply copies every key that was set onto a. Nothing is changed when an
// error is returned.
func (c *Config) Apply(a *overlay.Appearance) error {
	next := *a
	h := c.HUD

	if h.Style != "" {
		s, err := parseStyle(h.Style)
		if err != nil {
			return err
		}
		next.Style = s
	}
	if h.Mask != "" {
		m, err := parseMask(h.Mask)
		if err != nil {
			return err
		}
		next.MaskType = m
	}
	if h.Animation != "" {
		switch strings.ToLower(h.Animation) {
		case "flat":
			next.AnimationType = overlay.AnimationFlat
		case "native":
			next.AnimationType = overlay.AnimationNative
		default:
			return fmt.Errorf("unknown animation %q", h.Animation)
		}
	}
	if h.MaxWindowLevel != "" {
		l, err := parseLevel(h.MaxWindowLevel)
		if err != nil {
			return err
		}
		next.MaxSupportedWindowLevel = l
	}

	if h.ForegroundColor != "" {
		next.ForegroundColor = lipgloss.Color(h.ForegroundColor)
	}
	if h.BackgroundColor != "" {
		next.BackgroundColor = lipgloss.Color(h.BackgroundColor)
	}
	if h.BackgroundLayerColor != "" {
		next.BackgroundLayerColor = lipgloss.Color(h.BackgroundLayerColor)
	}
	if h.BackgroundLayerAlpha != nil {
		if *h.BackgroundLayerAlpha < 0 || *h.BackgroundLayerAlpha > 1 {
			return fmt.Errorf("background_layer_alpha %v out of range [0,1]", *h.BackgroundLayerAlpha)
		}
		next.BackgroundLayerAlpha = *h.BackgroundLayerAlpha
	}
	if h.BorderColor != "" {
		next.BorderColor = lipgloss.Color(h.BorderColor)
	}
	setInt(&next.BorderWidth, h.BorderWidth)
	setInt(&next.CornerRadius, h.CornerRadius)
	setInt(&next.RingThickness, h.RingThickness)
	setInt(&next.RingRadius, h.RingRadius)
	setInt(&next.RingNoTextRadius, h.RingNoTextRadius)
	if h.Font != nil {
		next.Font = overlay.Font{Bold: h.Font.Bold, Italic: h.Font.Italic, Faint: h.Font.Faint}
	}
	setSize(&next.MinimumSize, h.MinimumSize)
	setSize(&next.LabelMaxSize, h.LabelMaxSize)
	setSize(&next.ImageSize, h.ImageSize)
	if h.TintImages != nil {
		next.TintImages = *h.TintImages
	}
	if h.Haptics != nil {
		next.HapticsEnabled = *h.Haptics
	}
	if h.Offset != nil {
		next.CenterOffset = cellbuf.Pos(h.Offset.X, h.Offset.Y)
	}

	setDuration(&next.GraceInterval, h.GraceInterval)
	setDuration(&next.MinimumDismissInterval, h.MinimumDismissInterval)
	setDuration(&next.MaximumDismissInterval, h.MaximumDismissInterval)
	setDuration(&next.FadeInDuration, h.FadeIn)
	setDuration(&next.FadeOutDuration, h.FadeOut)
	if next.MinimumDismissInterval > next.MaximumDismissInterval {
		return fmt.Errorf("minimum_dismiss_interval %v exceeds maximum_dismiss_interval %v",
			next.MinimumDismissInterval, next.MaximumDismissInterval)
	}

	*a = next
	return nil
}

func parseStyle(s string) (overlay.Style, error) {
	switch strings.ToLower(s) {
	case "light":
		return overlay.StyleLight, nil
	case "dark":
		return overlay.StyleDark, nil
	case "custom":
		return overlay.StyleCustom, nil
	}
	return 0, fmt.Errorf("unknown style %q", s)
}

func parseMask(s string) (overlay.MaskType, error) {
	switch strings.ToLower(s) {
	case "none":
		return overlay.MaskNone, nil
	case "clear":
		return overlay.MaskClear, nil
	case "black":
		return overlay.MaskBlack, nil
	case "gradient":
		return overlay.MaskGradient, nil
	case "custom":
		return overlay.MaskCustom, nil
	}
	return 0, fmt.Errorf("unknown mask %q", s)
}

func parseLevel(s string) (overlay.WindowLevel, error) {
	switch strings.ToLower(s) {
	case "normal":
		return overlay.LevelNormal, nil
	case "statusbar", "status_bar":
		return overlay.LevelStatusBar, nil
	case "alert":
		return overlay.LevelAlert, nil
	}
	return 0, fmt.Errorf("unknown window level %q", s)
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = max(*v, 0)
	}
}

func setSize(dst *geometry.Size, v *Size) {
	if v != nil {
		*dst = geometry.Size{W: max(v.Width, 0), H: max(v.Height, 0)}
	}
}

func setDuration(dst *time.Duration, v *Duration) {
	if v != nil {
		*dst = v.Duration
	}
}
