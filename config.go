package diskrender

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Unrecoverable configuration errors. Everything else degrades the
// output instead of failing the frame.
var (
	ErrUnknownBody       = errors.New("diskrender: unknown target body")
	ErrInvalidDimensions = errors.New("diskrender: canvas dimensions must be positive")
)

// StereoMode selects the stereo/anaglyph output mode.
type StereoMode int

const (
	// StereoNone renders a single monoscopic raster.
	StereoNone StereoMode = iota
	// StereoRedCyan packs a left/right pair into one raster using the
	// classic red-cyan channel split.
	StereoRedCyan
	// StereoDubois packs a left/right pair using the Dubois least-squares
	// matrices, which preserve color far better than the plain split.
	StereoDubois
	// StereoPair returns the left and right rasters separately.
	StereoPair
)

// String returns the mode name as used in TOML setups.
func (m StereoMode) String() string {
	switch m {
	case StereoNone:
		return "none"
	case StereoRedCyan:
		return "red-cyan"
	case StereoDubois:
		return "dubois"
	case StereoPair:
		return "pair"
	}
	return fmt.Sprintf("StereoMode(%d)", int(m))
}

// Telescope describes the simulated instrument.
type Telescope struct {
	// FieldOfView is the rendered field in radians across the canvas
	// width.
	FieldOfView float64 `toml:"field_of_view"`
	// Aperture is the objective diameter in meters. Drives the
	// diffraction PSF size; zero disables the diffraction pass.
	Aperture float64 `toml:"aperture"`
	// Obstruction is the central obstruction as a fraction of the
	// aperture diameter, [0, 1).
	Obstruction float64 `toml:"obstruction"`
	// ChromaticLevel scales the simulated chromatic aberration channel
	// offset, 0 for an apochromatic instrument.
	ChromaticLevel float64 `toml:"chromatic_level"`
	// InvertH and InvertV mirror the view the way the optical train
	// would (star diagonal, Newtonian).
	InvertH bool `toml:"invert_h"`
	InvertV bool `toml:"invert_v"`
}

// RenderConfig carries every per-frame render parameter.
type RenderConfig struct {
	Target Body `toml:"-"`
	// TargetName is the TOML-facing body name; Normalize resolves it
	// into Target.
	TargetName string `toml:"target"`

	Width  int `toml:"width"`
	Height int `toml:"height"`

	Textures    bool `toml:"textures"`     // sample surface textures
	HighQuality bool `toml:"high_quality"` // disable adaptive subsampling
	Supersample bool `toml:"supersample"`  // render larger and downsample
	ShowAxes    bool `toml:"show_axes"`
	ShowLabels  bool `toml:"show_labels"`
	NorthUp     bool `toml:"north_up"`
	NightSide   bool `toml:"night_side"` // blend night-lights texture
	SkyMode     bool `toml:"sky_mode"`   // low-fidelity mode: draw even occulted moons

	Stereo StereoMode `toml:"-"`
	// StereoName is the TOML-facing stereo mode.
	StereoName string `toml:"stereo"`

	Background RGBA `toml:"-"`
	Foreground RGBA `toml:"-"`
	// BackgroundHex/ForegroundHex are the TOML-facing colors.
	BackgroundHex string `toml:"background"`
	ForegroundHex string `toml:"foreground"`

	// RefractionAltitude, when positive, is the apparent altitude of the
	// body above the horizon in radians; frames below refractionLimit
	// get the vertical refraction warp.
	RefractionAltitude float64 `toml:"refraction_altitude"`

	Telescope Telescope `toml:"telescope"`
}

// DefaultConfig returns a ready-to-render configuration for a target.
func DefaultConfig(target Body, width, height int) RenderConfig {
	return RenderConfig{
		Target:      target,
		Width:       width,
		Height:      height,
		Textures:    true,
		ShowAxes:    false,
		NorthUp:     true,
		Background:  Black,
		Foreground:  White,
		Telescope: Telescope{
			FieldOfView: 100 * arcsec,
			Aperture:    0,
		},
	}
}

// Validate checks the configuration for the unrecoverable error cases.
func (c *RenderConfig) Validate() error {
	if !c.Target.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownBody, int(c.Target))
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, c.Width, c.Height)
	}
	if c.Telescope.FieldOfView <= 0 {
		return fmt.Errorf("diskrender: field of view must be positive, got %g", c.Telescope.FieldOfView)
	}
	return nil
}

// Normalize resolves the TOML-facing string fields (target, stereo,
// colors) into their typed equivalents. Unknown names are errors.
func (c *RenderConfig) Normalize() error {
	if c.TargetName != "" {
		found := false
		for i, name := range bodyNames {
			if strings.EqualFold(name, c.TargetName) {
				c.Target = Body(i)
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: %q", ErrUnknownBody, c.TargetName)
		}
	}
	switch c.StereoName {
	case "", "none":
		c.Stereo = StereoNone
	case "red-cyan":
		c.Stereo = StereoRedCyan
	case "dubois":
		c.Stereo = StereoDubois
	case "pair":
		c.Stereo = StereoPair
	default:
		return fmt.Errorf("diskrender: unknown stereo mode %q", c.StereoName)
	}
	if c.BackgroundHex != "" {
		c.Background = Hex(c.BackgroundHex)
	}
	if c.ForegroundHex != "" {
		c.Foreground = Hex(c.ForegroundHex)
	} else if c.Foreground == (RGBA{}) {
		c.Foreground = White
	}
	return nil
}

// LoadConfig reads a TOML observing setup from path.
func LoadConfig(path string) (RenderConfig, error) {
	f, err := os.Open(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return RenderConfig{}, fmt.Errorf("diskrender: open config: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	return LoadConfigReader(f)
}

// LoadConfigReader reads a TOML observing setup from r.
func LoadConfigReader(r io.Reader) (RenderConfig, error) {
	cfg := RenderConfig{
		Textures:   true,
		NorthUp:    true,
		Background: Black,
		Foreground: White,
	}
	dec := toml.NewDecoder(r)
	if err := dec.Decode(&cfg); err != nil {
		return RenderConfig{}, fmt.Errorf("diskrender: decode config: %w", err)
	}
	if err := cfg.Normalize(); err != nil {
		return RenderConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return RenderConfig{}, err
	}
	return cfg, nil
}
