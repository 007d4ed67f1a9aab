package diskrender

import (
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// saturnEphemeris is a ring-open, zero-phase Saturn view.
func saturnEphemeris() BodyEphemeris {
	eph := testEphemeris(20 * arcsec)
	eph.PoleTilt = 0.3
	eph.SubSolarLat = 0.3
	return eph
}

func TestRingsExtendBeyondDisk(t *testing.T) {
	cfg := DefaultConfig(Saturn, 300, 300)
	eph := saturnEphemeris()
	r := New(nil, texturesFor(Saturn, color.NRGBA{210, 180, 140, 255}))
	f, err := r.RenderEphemeris(cfg, eph, nil)
	require.NoError(t, err)

	scale := float64(cfg.Width) * eph.AngularRadius / cfg.Telescope.FieldOfView
	outside := 0
	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			dx := float64(x) - 150
			dy := float64(y) - 150
			if dx*dx+dy*dy <= (1.15*scale)*(1.15*scale) {
				continue
			}
			if f.Image.GetPixel(x, y) != Black {
				outside++
			}
		}
	}
	assert.Greater(t, outside, 50, "ring ansae should reach past the disk")
}

func TestFullPhaseNoTerminator(t *testing.T) {
	cfg := DefaultConfig(Saturn, 300, 300)
	eph := saturnEphemeris()
	r := New(nil, texturesFor(Saturn, color.NRGBA{210, 180, 140, 255}))
	f, err := r.RenderEphemeris(cfg, eph, nil)
	require.NoError(t, err)

	center := luminance(f.Image.GetPixel(150, 150))
	require.Greater(t, center, 0.5)
	for y := 135; y <= 165; y++ {
		for x := 135; x <= 165; x++ {
			dx := float64(x) - 150
			dy := float64(y) - 150
			if dx*dx+dy*dy > 15*15 {
				continue
			}
			l := luminance(f.Image.GetPixel(x, y))
			if l < 0.5*center {
				t.Fatalf("dark pixel (%d, %d) on the fully lit disk: %v vs center %v", x, y, l, center)
			}
		}
	}
}

func TestRingArcsFallback(t *testing.T) {
	cfg := DefaultConfig(Saturn, 300, 300)
	cfg.Textures = false
	eph := saturnEphemeris()
	f, err := New(nil, nil).RenderEphemeris(cfg, eph, nil)
	require.NoError(t, err)

	scale := float64(cfg.Width) * eph.AngularRadius / cfg.Telescope.FieldOfView
	outside := 0
	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			dx := float64(x) - 150
			dy := float64(y) - 150
			if dx*dx+dy*dy > (1.15*scale)*(1.15*scale) && f.Image.GetPixel(x, y) != Black {
				outside++
			}
		}
	}
	assert.Greater(t, outside, 50)
}

func TestRingShadowDarkensDisk(t *testing.T) {
	cfg := DefaultConfig(Saturn, 300, 300)
	eph := saturnEphemeris()
	eph.SubSolarLat = -0.3 // sun below the ring plane, observer above

	cv := NewCanvas(300, 300)
	rp := newRenderPass(&cfg, cv, nil)
	g := newGeometry(&cfg, &eph, 300, 300)
	tex := newTexture(uniformImage(64, 32, color.NRGBA{210, 180, 140, 255}))
	rp.drawDisk(&diskPaint{g: g, tex: tex, depthUnit: 1})

	before := rasterSum(cv.Raster())
	rp.drawRingShadow(g, nil)
	after := rasterSum(cv.Raster())
	assert.Less(t, after, before, "the ring shadow should darken the disk")
}

func TestRingCompositesOnce(t *testing.T) {
	cfg := DefaultConfig(Saturn, 300, 300)
	eph := saturnEphemeris()
	cv := NewCanvas(300, 300)
	rp := newRenderPass(&cfg, cv, nil)
	g := newGeometry(&cfg, &eph, 300, 300)

	colStrip := newStrip(uniformImage(64, 1, color.NRGBA{200, 190, 160, 255}))
	alphaStrip := newStrip(uniformImage(64, 1, color.NRGBA{0, 0, 0, 128}))
	rp.drawRings(g, colStrip, alphaStrip)

	// A half-transparent strip over an empty canvas composites each ring
	// pixel to at most 200/255 * ringBackScatter * (1 - 128/255), about
	// 90 levels. Foreshortened arcs stack many band samples on one
	// pixel; blending more than once there would overshoot this.
	maxByte := 0
	lit := 0
	data := cv.Raster().Data()
	for i := 0; i < len(data); i += 4 {
		if data[i] == 0 && data[i+1] == 0 && data[i+2] == 0 {
			continue
		}
		lit++
		for c := 0; c < 3; c++ {
			if int(data[i+c]) > maxByte {
				maxByte = int(data[i+c])
			}
		}
	}
	require.Greater(t, lit, 1000, "the open rings cover thousands of pixels")
	assert.LessOrEqual(t, maxByte, 92)
}

func TestRingSpan(t *testing.T) {
	in, out := ringSpan(Saturn)
	assert.InDelta(t, 74658.0/60268, float64(in), 1e-3)
	assert.InDelta(t, 136775.0/60268, float64(out), 1e-3)

	in, out = ringSpan(Mars)
	assert.Zero(t, in)
	assert.Zero(t, out)
}

func TestRingBrightness(t *testing.T) {
	cfg := DefaultConfig(Saturn, 10, 10)
	rp := newRenderPass(&cfg, NewCanvas(10, 10), nil)

	lit := buildGeometry(Saturn, 60, 0, 0, 0.3, 0.3, 0, 0, 0)
	assert.InDelta(t, ringBackScatter, float64(rp.ringBrightness(lit)), 1e-3)

	forward := buildGeometry(Saturn, 60, 0, 0, 0.3, 0.3, 0, 0, math.Pi)
	assert.InDelta(t, ringForwardScatter, float64(rp.ringBrightness(forward)), 1e-3)

	// Sun and observer on opposite sides of the ring plane: unlit face.
	unlit := buildGeometry(Saturn, 60, 0, 0, 0.3, -0.3, 0, 0, 0)
	assert.InDelta(t, ringBackScatter*ringUnlitFactor, float64(rp.ringBrightness(unlit)), 1e-3)
}

func TestRingTablesOrdered(t *testing.T) {
	for body, bands := range ringTables {
		prev := 0.0
		for i, b := range bands {
			if b.Inner >= b.Outer {
				t.Errorf("%s band %d: inner %g >= outer %g", body, i, b.Inner, b.Outer)
			}
			if b.Inner < prev {
				t.Errorf("%s band %d out of order", body, i)
			}
			prev = b.Outer
		}
	}
}

func luminance(c RGBA) float64 {
	return (c.R + c.G + c.B) / 3
}

func rasterSum(pm *Pixmap) int {
	sum := 0
	for _, b := range pm.Data() {
		sum += int(b)
	}
	return sum
}
