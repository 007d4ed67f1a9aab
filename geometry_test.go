package diskrender

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScreenSphereRoundtrip(t *testing.T) {
	g := buildGeometry(Jupiter, 100, 0.4, 0.4, 0.25, 0.1, 0.3, 0.2, 0.1)
	g.cx, g.cy = 150, 150

	points := [][2]float32{
		{150, 150}, {120, 140}, {200, 180}, {150, 60}, {230, 150},
	}
	for _, p := range points {
		v, ok := g.screenToSphere(p[0], p[1])
		if !ok {
			continue
		}
		sx, sy := g.sphereToScreen(v)
		assert.InDelta(t, float64(p[0]), float64(sx), 5e-3)
		assert.InDelta(t, float64(p[1]), float64(sy), 5e-3)
	}
}

func TestScreenToSphereOutsideDisk(t *testing.T) {
	g := buildGeometry(Mars, 50, 0, 0, 0, 0, 0, 0, 0)
	g.cx, g.cy = 100, 100
	_, ok := g.screenToSphere(100, 100)
	assert.True(t, ok)
	_, ok = g.screenToSphere(160, 100)
	assert.False(t, ok)
}

func TestOblateness(t *testing.T) {
	// Equator-on Jupiter shows the full polar flattening.
	g := buildGeometry(Jupiter, 100, 0, 0, 0, 0, 0, 0, 0)
	want := Jupiter.EquatorialRadiusKm() / Jupiter.PolarRadiusKm()
	assert.InDelta(t, want, float64(g.obl), 1e-3)

	// Pole-on the disk outline is circular.
	g = buildGeometry(Jupiter, 100, 0, 0, math.Pi/2, 0, 0, 0, 0)
	assert.InDelta(t, 1.0, float64(g.obl), 1e-3)

	// Spherical bodies are never squished.
	g = buildGeometry(Venus, 100, 0, 0, 0.5, 0, 0, 0, 0)
	assert.InDelta(t, 1.0, float64(g.obl), 1e-6)
}

func TestBrightnessMonotonic(t *testing.T) {
	// Sun toward the observer: darkening grows with the angle from the
	// sub-solar point.
	g := buildGeometry(Mars, 100, 0, 0, 0, 0, 0, 0, 0)
	prev := float32(2)
	for i := 0; i <= 18; i++ {
		th := float32(i) / 18 * math.Pi
		v := vec3{sin32(th), 0, cos32(th)}
		b := g.brightness(v)
		if b > prev {
			t.Fatalf("brightness increased at angle %v: %v > %v", th, b, prev)
		}
		require.GreaterOrEqual(t, b, float32(0))
		require.LessOrEqual(t, b, float32(1))
		prev = b
	}
	assert.InDelta(t, 1.0, float64(g.brightness(vec3{0, 0, 1})), 1e-6)
}

func TestInPlanetShadow(t *testing.T) {
	g := buildGeometry(Mars, 100, 0, 0, 0, 0, 0, 0, 0)
	tests := []struct {
		name string
		p    vec3
		want bool
	}{
		{"behind planet", vec3{0, 0, -2}, true},
		{"sunward", vec3{0, 0, 2}, false},
		{"beside the cylinder", vec3{2, 0, -1}, false},
		{"inside edge", vec3{0.9, 0, -3}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, g.inPlanetShadow(tt.p))
		})
	}
}

func TestCentralMeridian(t *testing.T) {
	eph := BodyEphemeris{CentralMerid: 1.0, CentralMerid2: 1.5}
	assert.InDelta(t, 1.0, centralMeridian(Mars, &eph), 1e-12)
	// Gas giants follow System II.
	assert.InDelta(t, 1.5, centralMeridian(Jupiter, &eph), 1e-12)
	assert.InDelta(t, 1.0+venusMeridianOffset, centralMeridian(Venus, &eph), 1e-12)
}

func TestPlanetographicRoundtrip(t *testing.T) {
	cfg := DefaultConfig(Mars, 200, 200)
	eph := testEphemeris(50 * arcsec)
	eph.PoleAngle = 0.2
	eph.PoleTilt = 0.3

	for _, p := range [][2]float64{{100, 100}, {120, 90}, {80, 130}} {
		lat, lon, on := PlanetographicAt(cfg, eph, p[0], p[1])
		require.True(t, on, "pixel (%g, %g) should be on the disk", p[0], p[1])
		x, y, visible := ScreenAt(cfg, eph, lat, lon)
		assert.True(t, visible)
		assert.InDelta(t, p[0], x, 0.05)
		assert.InDelta(t, p[1], y, 0.05)
	}

	_, _, on := PlanetographicAt(cfg, eph, 5, 5)
	assert.False(t, on)
}

func TestPlanetographicInvalidConfig(t *testing.T) {
	cfg := DefaultConfig(Body(99), 200, 200)
	_, _, on := PlanetographicAt(cfg, testEphemeris(50*arcsec), 100, 100)
	assert.False(t, on)
}

func TestNormalizeLon(t *testing.T) {
	tests := []struct {
		in, want float32
	}{
		{0, 0},
		{-0.1, 2*math.Pi - 0.1},
		{7, 7 - 2*math.Pi},
		{2 * math.Pi, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, float64(tt.want), float64(normalizeLon(tt.in)), 1e-5)
	}
}

func TestVec3Norm(t *testing.T) {
	v := vec3{3, 0, 4}.norm()
	assert.InDelta(t, 1.0, float64(v.dot(v)), 1e-6)
	// Degenerate input falls back to a safe direction.
	assert.Equal(t, vec3{0, 0, 1}, vec3{}.norm())
}

func sin32(v float32) float32 { return float32(math.Sin(float64(v))) }
func cos32(v float32) float32 { return float32(math.Cos(float64(v))) }
