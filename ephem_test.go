package diskrender

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBodyString(t *testing.T) {
	assert.Equal(t, "Saturn", Saturn.String())
	assert.Equal(t, "Io", Io.String())
	assert.Equal(t, "Body(42)", Body(42).String())
}

func TestBodyValid(t *testing.T) {
	assert.True(t, Mercury.Valid())
	assert.True(t, Triton.Valid())
	assert.False(t, Body(-1).Valid())
	assert.False(t, Body(len(bodyNames)).Valid())
}

func TestTextureNames(t *testing.T) {
	assert.Equal(t, "saturn.jpg", Saturn.TextureName())
	assert.Equal(t, "earth_night.jpg", Earth.NightTextureName())
	assert.Equal(t, "saturn_rings_color.png", Saturn.RingColorTextureName())
	assert.Equal(t, "saturn_rings_alpha.png", Saturn.RingAlphaTextureName())
}

func TestIsGasGiant(t *testing.T) {
	for _, b := range []Body{Jupiter, Saturn, Uranus, Neptune} {
		assert.True(t, b.IsGasGiant(), b.String())
	}
	for _, b := range []Body{Mercury, Earth, Mars, Io, Titan} {
		assert.False(t, b.IsGasGiant(), b.String())
	}
}

func TestRadiiTable(t *testing.T) {
	for b := Mercury; b <= Triton; b++ {
		eq := b.EquatorialRadiusKm()
		pol := b.PolarRadiusKm()
		assert.Greater(t, eq, 0.0, b.String())
		assert.Greater(t, pol, 0.0, b.String())
		assert.GreaterOrEqual(t, eq, pol, b.String())
	}
}

func TestRings(t *testing.T) {
	assert.Len(t, Saturn.Rings(), 3)
	assert.Len(t, Uranus.Rings(), 4)
	assert.Len(t, Neptune.Rings(), 3)
	assert.Len(t, Jupiter.Rings(), 1)
	assert.Nil(t, Mars.Rings())
}
