package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/cellbuf"
	"github.com/idursun/termhud/internal/geometry"
	"github.com/idursun/termhud/internal/overlay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tomlConfig = `
[hud]
style = "dark"
mask = "gradient"
animation = "native"
grace_interval = "200ms"
fade_in = "80ms"
maximum_dismiss_interval = "forever"
border_width = 2
tint_images = false
haptics = true
max_window_level = "alert"

[hud.minimum_size]
width = 15
height = 7

[hud.offset]
x = 0
y = -3

[hud.font]
bold = true
`

const yamlConfig = `
hud:
  style: custom
  foreground_color: "#ff0000"
  background_color: "#00ff00"
  mask: custom
  background_layer_color: "#0000ff"
  background_layer_alpha: 0.25
  minimum_dismiss_interval: 2s
  maximum_dismiss_interval: 10s
`

func TestParseTOML_Apply(t *testing.T) {
	c, err := ParseTOML([]byte(tomlConfig))
	require.NoError(t, err)

	a := overlay.DefaultAppearance()
	require.NoError(t, c.Apply(&a))

	assert.Equal(t, overlay.StyleDark, a.Style)
	assert.Equal(t, overlay.MaskGradient, a.MaskType)
	assert.Equal(t, overlay.AnimationNative, a.AnimationType)
	assert.Equal(t, 200*time.Millisecond, a.GraceInterval)
	assert.Equal(t, 80*time.Millisecond, a.FadeInDuration)
	assert.Equal(t, 150*time.Millisecond, a.FadeOutDuration, "unset keys keep their value")
	assert.Equal(t, overlay.Forever, a.MaximumDismissInterval)
	assert.Equal(t, 2, a.BorderWidth)
	assert.False(t, a.TintImages)
	assert.True(t, a.HapticsEnabled)
	assert.Equal(t, overlay.LevelAlert, a.MaxSupportedWindowLevel)
	assert.Equal(t, geometry.Size{W: 15, H: 7}, a.MinimumSize)
	assert.Equal(t, cellbuf.Pos(0, -3), a.CenterOffset)
	assert.True(t, a.Font.Bold)
}

func TestParseYAML_Apply(t *testing.T) {
	c, err := ParseYAML([]byte(yamlConfig))
	require.NoError(t, err)

	a := overlay.DefaultAppearance()
	require.NoError(t, c.Apply(&a))

	assert.Equal(t, overlay.StyleCustom, a.Style)
	assert.Equal(t, lipgloss.Color("#ff0000"), a.Foreground())
	assert.Equal(t, lipgloss.Color("#00ff00"), a.Background())
	color, alpha := a.Mask()
	assert.Equal(t, lipgloss.Color("#0000ff"), color)
	assert.Equal(t, 0.25, alpha)
	assert.Equal(t, 2*time.Second, a.MinimumDismissInterval)
	assert.Equal(t, 10*time.Second, a.MaximumDismissInterval)
}

func TestParse_Empty(t *testing.T) {
	c, err := ParseYAML(nil)
	require.NoError(t, err)
	a := overlay.DefaultAppearance()
	require.NoError(t, c.Apply(&a))
	assert.Equal(t, overlay.DefaultAppearance(), a)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{"bad duration", "[hud]\nfade_in = \"soon\""},
		{"negative duration", "[hud]\nfade_in = \"-1s\""},
		{"unknown key", "[hud]\nsparkles = true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTOML([]byte(tt.toml))
			assert.Error(t, err)
		})
	}

	_, err := ParseYAML([]byte("hud:\n  sparkles: true\n"))
	assert.Error(t, err)
}

func TestApply_RejectsInvalidValuesWithoutChanges(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{"style", "[hud]\nstyle = \"neon\"\nfade_in = \"1s\""},
		{"mask", "[hud]\nmask = \"fog\""},
		{"animation", "[hud]\nanimation = \"wobbly\""},
		{"level", "[hud]\nmax_window_level = \"top\""},
		{"alpha", "[hud]\nbackground_layer_alpha = 1.5"},
		{"dismiss range", "[hud]\nminimum_dismiss_interval = \"10s\"\nmaximum_dismiss_interval = \"1s\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ParseTOML([]byte(tt.toml))
			require.NoError(t, err)
			a := overlay.DefaultAppearance()
			assert.Error(t, c.Apply(&a))
			assert.Equal(t, overlay.DefaultAppearance(), a)
		})
	}
}

func TestDuration_MarshalText(t *testing.T) {
	text, err := Duration{overlay.Forever}.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "forever", string(text))

	text, err = Duration{1500 * time.Millisecond}.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1.5s", string(text))
}

func TestLoad_PicksFormatByExtension(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "hud.toml")
	yamlPath := filepath.Join(dir, "hud.yml")
	require.NoError(t, os.WriteFile(tomlPath, []byte(tomlConfig), 0o644))
	require.NoError(t, os.WriteFile(yamlPath, []byte(yamlConfig), 0o644))

	c, err := Load(tomlPath)
	require.NoError(t, err)
	assert.Equal(t, "dark", c.HUD.Style)

	c, err = Load(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "custom", c.HUD.Style)

	_, err = Load(filepath.Join(dir, "hud.json"))
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "hud.ini"), nil, 0o644))
	_, err = Load(filepath.Join(dir, "hud.ini"))
	assert.ErrorContains(t, err, "unsupported")
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hud.toml")
	require.NoError(t, os.WriteFile(path, []byte("[hud]\nstyle = \"light\"\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan *Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, nil, func(c *Config) { changes <- c })
	}()

	// give the watcher a moment to register the directory
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("[hud]\nstyle = \"dark\"\n"), 0o644))

	select {
	case c := <-changes:
		assert.Equal(t, "dark", c.HUD.Style)
	case <-time.After(3 * time.Second):
		t.Fatal("no reload")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestDebouncer_RunsLatestOnly(t *testing.T) {
	d := newDebouncer(30 * time.Millisecond)
	defer d.stop()

	ran := make(chan int, 3)
	for i := 1; i <= 3; i++ {
		d.trigger(func() { ran <- i })
	}

	select {
	case got := <-ran:
		assert.Equal(t, 3, got)
	case <-time.After(time.Second):
		t.Fatal("nothing ran")
	}
	select {
	case got := <-ran:
		t.Fatalf("superseded trigger %d ran", got)
	case <-time.After(100 * time.Millisecond):
	}
}
