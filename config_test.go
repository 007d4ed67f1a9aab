package diskrender

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*RenderConfig)
		wantErr error
	}{
		{"valid", func(c *RenderConfig) {}, nil},
		{"unknown body", func(c *RenderConfig) { c.Target = Body(99) }, ErrUnknownBody},
		{"negative body", func(c *RenderConfig) { c.Target = Body(-1) }, ErrUnknownBody},
		{"zero width", func(c *RenderConfig) { c.Width = 0 }, ErrInvalidDimensions},
		{"negative height", func(c *RenderConfig) { c.Height = -5 }, ErrInvalidDimensions},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig(Mars, 100, 100)
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFieldOfView(t *testing.T) {
	cfg := DefaultConfig(Mars, 100, 100)
	cfg.Telescope.FieldOfView = 0
	assert.Error(t, cfg.Validate())
}

func TestNormalizeTarget(t *testing.T) {
	tests := []struct {
		name string
		want Body
		ok   bool
	}{
		{"Saturn", Saturn, true},
		{"saturn", Saturn, true},
		{"GANYMEDE", Ganymede, true},
		{"Pluto", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := RenderConfig{TargetName: tt.name}
			err := cfg.Normalize()
			if !tt.ok {
				assert.ErrorIs(t, err, ErrUnknownBody)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Target)
		})
	}
}

func TestNormalizeStereo(t *testing.T) {
	tests := []struct {
		name string
		want StereoMode
		ok   bool
	}{
		{"", StereoNone, true},
		{"none", StereoNone, true},
		{"red-cyan", StereoRedCyan, true},
		{"dubois", StereoDubois, true},
		{"pair", StereoPair, true},
		{"sidebyside", 0, false},
	}
	for _, tt := range tests {
		t.Run("mode "+tt.name, func(t *testing.T) {
			cfg := RenderConfig{TargetName: "Mars", StereoName: tt.name}
			err := cfg.Normalize()
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Stereo)
		})
	}
}

func TestLoadConfigReader(t *testing.T) {
	src := `
target = "jupiter"
width = 640
height = 480
textures = true
high_quality = true
stereo = "dubois"
background = "#000010"

[telescope]
field_of_view = 4.8e-4
aperture = 0.2
obstruction = 0.33
invert_v = true
`
	cfg, err := LoadConfigReader(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, Jupiter, cfg.Target)
	assert.Equal(t, 640, cfg.Width)
	assert.Equal(t, 480, cfg.Height)
	assert.True(t, cfg.HighQuality)
	assert.Equal(t, StereoDubois, cfg.Stereo)
	assert.InDelta(t, 4.8e-4, cfg.Telescope.FieldOfView, 1e-12)
	assert.InDelta(t, 0.2, cfg.Telescope.Aperture, 1e-12)
	assert.True(t, cfg.Telescope.InvertV)
	assert.InDelta(t, float64(0x10)/255, cfg.Background.B, 1e-9)
}

func TestLoadConfigReaderErrors(t *testing.T) {
	t.Run("bad toml", func(t *testing.T) {
		_, err := LoadConfigReader(strings.NewReader(`target = [`))
		assert.Error(t, err)
	})
	t.Run("unknown target", func(t *testing.T) {
		_, err := LoadConfigReader(strings.NewReader(`
target = "vulcan"
width = 100
height = 100
[telescope]
field_of_view = 1e-3
`))
		assert.True(t, errors.Is(err, ErrUnknownBody))
	})
	t.Run("missing field of view", func(t *testing.T) {
		_, err := LoadConfigReader(strings.NewReader(`
target = "mars"
width = 100
height = 100
`))
		assert.Error(t, err)
	})
}

func TestStereoModeString(t *testing.T) {
	assert.Equal(t, "none", StereoNone.String())
	assert.Equal(t, "dubois", StereoDubois.String())
	assert.Equal(t, "StereoMode(9)", StereoMode(9).String())
}
