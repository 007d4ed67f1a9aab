package diskrender

import (
	"fmt"
	"strings"
	"time"
)

// Body identifies a renderable solar-system body.
type Body int

// Renderable bodies. Major moons carry their own identifiers so that
// they can be rendered as primary targets and so texture lookup works
// the same way for planets and satellites.
const (
	Mercury Body = iota
	Venus
	Earth
	Moon
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
	Io
	Europa
	Ganymede
	Callisto
	Titan
	Triton
)

var bodyNames = [...]string{
	"Mercury", "Venus", "Earth", "Moon", "Mars",
	"Jupiter", "Saturn", "Uranus", "Neptune",
	"Io", "Europa", "Ganymede", "Callisto", "Titan", "Triton",
}

// String returns the body's English name.
func (b Body) String() string {
	if b < 0 || int(b) >= len(bodyNames) {
		return fmt.Sprintf("Body(%d)", int(b))
	}
	return bodyNames[b]
}

// Valid reports whether b names a known body.
func (b Body) Valid() bool {
	return b >= 0 && int(b) < len(bodyNames)
}

// TextureName returns the equirectangular surface texture asset name for
// the body, following the fixed naming convention of the texture
// repository ("saturn.jpg", "io.jpg", ...).
func (b Body) TextureName() string {
	return strings.ToLower(b.String()) + ".jpg"
}

// NightTextureName returns the night-lights texture asset name
// ("earth_night.jpg"). Only Earth ships one; other bodies simply fail
// the load and render without the blend.
func (b Body) NightTextureName() string {
	return strings.ToLower(b.String()) + "_night.jpg"
}

// RingColorTextureName returns the ring color strip asset name.
func (b Body) RingColorTextureName() string {
	return strings.ToLower(b.String()) + "_rings_color.png"
}

// RingAlphaTextureName returns the ring transparency strip asset name.
func (b Body) RingAlphaTextureName() string {
	return strings.ToLower(b.String()) + "_rings_alpha.png"
}

// IsGasGiant reports whether the body is one of the four giant planets.
// Giants use a softer illumination falloff than rocky bodies.
func (b Body) IsGasGiant() bool {
	switch b {
	case Jupiter, Saturn, Uranus, Neptune:
		return true
	}
	return false
}

// usesFlippedMeridian reports whether the body uses the alternate
// central-meridian sign/offset convention (longitude increasing east).
func (b Body) usesFlippedMeridian() bool {
	switch b {
	case Moon, Mercury, Venus, Earth:
		return true
	}
	return false
}

// bodyRadii holds equatorial and polar radii in km.
type bodyRadii struct {
	equatorial float64
	polar      float64
}

var radiiTable = map[Body]bodyRadii{
	Mercury:  {2440.5, 2438.3},
	Venus:    {6051.8, 6051.8},
	Earth:    {6378.1, 6356.8},
	Moon:     {1738.1, 1736.0},
	Mars:     {3396.2, 3376.2},
	Jupiter:  {71492, 66854},
	Saturn:   {60268, 54364},
	Uranus:   {25559, 24973},
	Neptune:  {24764, 24341},
	Io:       {1829.4, 1815.7},
	Europa:   {1562.6, 1559.5},
	Ganymede: {2631.2, 2631.2},
	Callisto: {2410.3, 2410.3},
	Titan:    {2574.3, 2574.3},
	Triton:   {1353.4, 1353.4},
}

// EquatorialRadiusKm returns the body's equatorial radius in km.
func (b Body) EquatorialRadiusKm() float64 { return radiiTable[b].equatorial }

// PolarRadiusKm returns the body's polar radius in km.
func (b Body) PolarRadiusKm() float64 { return radiiTable[b].polar }

// RingBand is one concentric band of a ring system, radii in km from
// the body center. Bands are listed inner to outer.
type RingBand struct {
	Inner float64
	Outer float64
}

// ringTables holds the fixed physical ring radii per ringed body.
// The tables are immutable; callers receive the shared slice and must
// not modify it.
var ringTables = map[Body][]RingBand{
	Saturn: {
		{74658, 92000},   // C ring
		{92000, 117580},  // B ring
		{122170, 136775}, // A ring (Cassini division implicit in the gap)
	},
	Uranus: {
		{41837, 42760}, // 6, 5, 4 group
		{44718, 45661}, // alpha, beta
		{47175, 48300}, // eta, gamma, delta
		{51149, 51500}, // epsilon
	},
	Neptune: {
		{41900, 42900}, // Galle
		{53200, 53700}, // Le Verrier
		{62930, 62990}, // Adams
	},
	Jupiter: {
		{122500, 129000}, // main ring
	},
}

// Rings returns the body's ring bands in km, or nil for ringless bodies.
func (b Body) Rings() []RingBand {
	return ringTables[b]
}

// BodyEphemeris is the astrometric state of a body at one instant, as
// supplied by an external ephemeris provider. Angles are radians,
// distances are AU unless noted.
type BodyEphemeris struct {
	Epoch time.Time

	AngularRadius float64 // apparent equatorial radius, rad

	PoleAngle     float64 // position angle of the rotation pole, rad E of N
	AxisAngle     float64 // position angle of the rotation axis, rad E of N
	PoleTilt      float64 // planetographic latitude of the disk center, rad
	SubSolarLat   float64 // rad
	SubSolarLon   float64 // rad
	CentralMerid  float64 // central meridian longitude (System I), rad
	CentralMerid2 float64 // System II (gas giants), rad
	CentralMerid3 float64 // System III (gas giants), rad

	Phase       float64 // illuminated fraction, [0, 1]
	PhaseAngle  float64 // Sun-body-observer angle, rad
	BrightLimb  float64 // position angle of the bright limb, rad E of N
	Parallactic float64 // parallactic angle, rad

	Distance    float64 // observer-body, AU
	DistanceSun float64 // Sun-body, AU
}

// MoonEphemeris is the per-satellite state for one instant.
type MoonEphemeris struct {
	Body Body
	Name string

	// RelPos is the satellite position relative to the planet center in
	// planet equatorial radii, in the derotated view frame: x toward
	// celestial east on the disk, y toward the planet's north pole
	// projection, z toward the observer.
	RelPos [3]float64

	// SkyPos optionally carries a precomputed screen offset in radians
	// (east, north). When SkyValid is set it takes precedence over
	// RelPos for positioning.
	SkyPos   [2]float64
	SkyValid bool

	AngularRadius float64 // rad
	Magnitude     float64 // apparent visual magnitude
	Distance      float64 // observer-satellite, AU

	PoleAngle    float64 // rad
	AxisAngle    float64 // rad
	PoleTilt     float64 // rad
	SubSolarLat  float64 // rad
	SubSolarLon  float64 // rad
	CentralMerid float64 // rad
	PhaseAngle   float64 // rad

	Eclipsed      bool // inside the planet's shadow
	Occulted      bool // behind the planet's disk
	ShadowTransit bool // its shadow falls on the planet's disk
	MutualWith    int  // index of an involved satellite in a mutual event, -1 otherwise
}

// EphemerisProvider supplies astrometric state. Implementations are
// external to the renderer and opaque to it.
type EphemerisProvider interface {
	// Ephemeris returns the state of body at the given instant.
	Ephemeris(body Body, t time.Time) (BodyEphemeris, error)

	// Moons returns the satellites of body at the given instant.
	// An empty slice is valid for moonless bodies.
	Moons(body Body, t time.Time) ([]MoonEphemeris, error)
}

// brightMoonFloor lists, per giant planet, the regular satellites that
// stay visible with a symbolic minimum size even when their projected
// radius is negligible.
var brightMoonFloor = map[Body][]Body{
	Jupiter: {Io, Europa, Ganymede, Callisto},
	Saturn:  {Titan},
	Neptune: {Triton},
}

// hasSymbolicFloor reports whether moon gets the symbolic minimum size
// when rendered around primary.
func hasSymbolicFloor(primary, moon Body) bool {
	for _, b := range brightMoonFloor[primary] {
		if b == moon {
			return true
		}
	}
	return false
}
