package diskrender

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskContainment(t *testing.T) {
	cfg := DefaultConfig(Mars, 200, 200)
	eph := testEphemeris(30 * arcsec)
	r := New(nil, texturesFor(Mars, color.NRGBA{200, 160, 120, 255}))
	f, err := r.RenderEphemeris(cfg, eph, nil)
	require.NoError(t, err)

	scale := float64(cfg.Width) * eph.AngularRadius / cfg.Telescope.FieldOfView
	limit := (scale + 1.5) * (scale + 1.5)
	lit := 0
	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			if f.Image.GetPixel(x, y) == Black {
				continue
			}
			lit++
			dx := float64(x) + 0.5 - 100
			dy := float64(y) + 0.5 - 100
			if dx*dx+dy*dy > limit {
				t.Fatalf("lit pixel (%d, %d) outside the disk outline", x, y)
			}
		}
	}
	// Most of the disk area must actually be painted.
	require.Greater(t, lit, int(2*scale*scale))
}

func TestTinyDiskFlatFallback(t *testing.T) {
	cfg := DefaultConfig(Mars, 200, 200)
	eph := testEphemeris(0.5 * arcsec) // one-pixel disk
	r := New(nil, texturesFor(Mars, color.NRGBA{200, 160, 120, 255}))
	f, err := r.RenderEphemeris(cfg, eph, nil)
	require.NoError(t, err)

	got := f.Image.GetPixel(100, 100)
	assert.Equal(t, fallbackColor(Mars).Color(), got.Color())
}

func TestMissingTextureFlatFallback(t *testing.T) {
	cfg := DefaultConfig(Mars, 200, 200)
	eph := testEphemeris(30 * arcsec)
	r := New(nil, &stubTextures{}) // no assets at all
	f, err := r.RenderEphemeris(cfg, eph, nil)
	require.NoError(t, err)

	got := f.Image.GetPixel(100, 100)
	assert.Equal(t, fallbackColor(Mars).Color(), got.Color())
}

func TestWireframeWithoutTextures(t *testing.T) {
	cfg := DefaultConfig(Mars, 200, 200)
	cfg.Textures = false
	eph := testEphemeris(30 * arcsec)
	r := New(nil, nil)
	f, err := r.RenderEphemeris(cfg, eph, nil)
	require.NoError(t, err)

	lit := 0
	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			if f.Image.GetPixel(x, y) != Black {
				lit++
			}
		}
	}
	// A grid, not a filled disk.
	assert.Greater(t, lit, 50)
	assert.Less(t, lit, 60*60*3)
}

func TestNightSideBlend(t *testing.T) {
	cfg := DefaultConfig(Mars, 200, 200)
	cfg.NightSide = true
	eph := testEphemeris(30 * arcsec)
	eph.SubSolarLon = math.Pi // sun behind the body

	tex := &stubTextures{images: map[string]image.Image{
		Mars.TextureName():      uniformImage(64, 32, color.NRGBA{200, 0, 0, 255}),
		Mars.NightTextureName(): uniformImage(64, 32, color.NRGBA{0, 200, 0, 255}),
	}}
	r := New(nil, tex)
	f, err := r.RenderEphemeris(cfg, eph, nil)
	require.NoError(t, err)

	got := f.Image.GetPixel(100, 100)
	assert.Greater(t, got.G, got.R, "night lights should dominate the dark side")
	assert.Greater(t, got.G, 0.4)
}

func TestSubsampleMatchesHighQuality(t *testing.T) {
	cfg := DefaultConfig(Mars, 650, 650)
	eph := testEphemeris(48 * arcsec) // projected radius above the subsample threshold
	tex := texturesFor(Mars, color.NRGBA{180, 140, 110, 255})

	fast, err := New(nil, tex).RenderEphemeris(cfg, eph, nil)
	require.NoError(t, err)

	cfg.HighQuality = true
	exact, err := New(nil, tex).RenderEphemeris(cfg, eph, nil)
	require.NoError(t, err)

	_, over := maxChannelDiff(fast.Image, exact.Image, 2)
	assert.Less(t, over, 0.01, "interpolated columns should track the exact render")
}

func TestInterpTexCol(t *testing.T) {
	tests := []struct {
		name    string
		a, b, w int
		want    int
	}{
		{"plain midpoint", 10, 12, 360, 11},
		{"same column", 5, 5, 360, 5},
		{"across seam up", 359, 1, 360, 0},
		{"across seam down", 1, 359, 360, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, interpTexCol(tt.a, tt.b, tt.w))
		})
	}
}

func TestRescaleTexCol(t *testing.T) {
	assert.Equal(t, 5, rescaleTexCol(10, 100, 200))
	assert.Equal(t, 42, rescaleTexCol(42, 128, 128))
	assert.Equal(t, 99, rescaleTexCol(199, 100, 200))
}

func TestFallbackColorDefault(t *testing.T) {
	assert.Equal(t, RGBA{0.6, 0.6, 0.6, 1}, fallbackColor(Body(99)))
}
