package diskrender

import (
	"math"

	"github.com/chewxy/math32"
)

const arcsec = math.Pi / (180 * 3600)

// venusMeridianOffset is the fixed calibration offset applied to the
// Venus central meridian so the cloud texture lines up with the IAU
// meridian. Empirical; see the calibration notes in DESIGN.md.
const venusMeridianOffset = -14.5 * math.Pi / 180

// Illumination falloff constants. Empirically tuned, kept as named
// calibration values rather than derived from photometry.
const (
	// ShadingGasGiant is the terminator falloff for the giant planets.
	ShadingGasGiant = 0.52
	// ShadingRocky is the terminator falloff for rocky bodies.
	ShadingRocky = 0.45
	// reflectedTerminatorFactor softens a satellite's terminator when
	// the night side is lit by planetshine from its primary.
	reflectedTerminatorFactor = 0.85
	// limbEdgeFade darkens the outermost sample ring of a disk to fake
	// limb antialiasing.
	limbEdgeFade = 0.95
)

// vec3 is a float32 3-vector used throughout the pixel loops.
type vec3 struct {
	x, y, z float32
}

func (v vec3) dot(o vec3) float32 {
	return v.x*o.x + v.y*o.y + v.z*o.z
}

func (v vec3) add(o vec3) vec3 {
	return vec3{v.x + o.x, v.y + o.y, v.z + o.z}
}

func (v vec3) sub(o vec3) vec3 {
	return vec3{v.x - o.x, v.y - o.y, v.z - o.z}
}

func (v vec3) scaled(f float32) vec3 {
	return vec3{v.x * f, v.y * f, v.z * f}
}

func (v vec3) cross(o vec3) vec3 {
	return vec3{
		v.y*o.z - v.z*o.y,
		v.z*o.x - v.x*o.z,
		v.x*o.y - v.y*o.x,
	}
}

func (v vec3) norm() vec3 {
	l := math32.Sqrt(v.dot(v))
	if l == 0 {
		return vec3{0, 0, 1}
	}
	return v.scaled(1 / l)
}

// geometry is the derived per-frame state for one body: everything the
// pixel loops need, precomputed in float32.
//
// Two frames are used throughout:
//
//   - view frame: x celestial-east on screen (before the screen "up"
//     rotation), y up, z toward the observer.
//   - body frame: the view frame with the pole tilt removed, so y is the
//     rotation axis. Latitude/longitude and the sun direction live here.
//
// Screen pixels map to the view frame through the up-angle rotation and
// the oblateness squish along the projected pole.
type geometry struct {
	body Body

	cx, cy  float32 // disk center, px
	scale   float32 // px per equatorial radius
	obl     float32 // projected oblateness, >= 1
	pxPerKm float32

	upAngle          float32 // projected pole angle vs screen up, rad
	axisAngle        float32 // projected rotation axis angle, rad
	sinUp, cosUp     float32
	tilt             float32 // sub-observer latitude, rad
	sinTilt, cosTilt float32

	merid   float32 // central meridian for texture mapping, rad
	flipped bool    // alternate east/west longitude convention

	sunBody vec3 // unit sun direction, body frame
	sunView vec3 // unit sun direction, view frame

	// sun-frame basis (body frame): e3 toward the sun, e2 as close to
	// the pole axis as orthogonality allows, e1 = e2 x e3. Shadow tests
	// classify points by their (e1, e2) ellipse coordinates.
	sunE1, sunE2, sunE3 vec3

	shadeK   float32 // illumination falloff constant for this body
	phaseAng float32
}

// newGeometry derives the frame state for the primary target, centered
// on the canvas.
func newGeometry(cfg *RenderConfig, eph *BodyEphemeris, w, h int) *geometry {
	scale := float64(w) * eph.AngularRadius / cfg.Telescope.FieldOfView
	upAngle := eph.PoleAngle
	axisAngle := eph.AxisAngle
	if !cfg.NorthUp {
		upAngle -= eph.Parallactic
		axisAngle -= eph.Parallactic
	}
	merid := centralMeridian(cfg.Target, eph)
	g := buildGeometry(cfg.Target, scale, upAngle, axisAngle, eph.PoleTilt,
		eph.SubSolarLat, eph.SubSolarLon, merid, eph.PhaseAngle)
	g.cx = float32(w) / 2
	g.cy = float32(h) / 2
	return g
}

// newMoonGeometry derives the frame state for one satellite disk at a
// given screen center.
func newMoonGeometry(cfg *RenderConfig, parent *geometry, m *MoonEphemeris, w int, cx, cy float32) *geometry {
	scale := float64(w) * m.AngularRadius / cfg.Telescope.FieldOfView
	g := buildGeometry(m.Body, scale, m.PoleAngle, m.AxisAngle, m.PoleTilt,
		m.SubSolarLat, m.SubSolarLon, m.CentralMerid, m.PhaseAngle)
	g.cx = cx
	g.cy = cy
	// Planetshine from a giant primary softens the terminator.
	if parent != nil && parent.body.IsGasGiant() {
		g.shadeK *= reflectedTerminatorFactor
	}
	return g
}

func buildGeometry(body Body, scale, upAngle, axisAngle, tilt, subLat, subLon, merid, phaseAng float64) *geometry {
	eq := body.EquatorialRadiusKm()
	pol := body.PolarRadiusKm()
	flat := 0.0
	if eq > 0 {
		flat = 1 - pol/eq
	}
	cosT := math.Cos(tilt)
	obl := 1 / (1 - flat*cosT*cosT)
	if obl < 1 {
		obl = 1
	}

	g := &geometry{
		body:      body,
		scale:     float32(scale),
		obl:       float32(obl),
		upAngle:   float32(upAngle),
		axisAngle: float32(axisAngle),
		tilt:      float32(tilt),
		merid:     float32(merid),
		flipped:   body.usesFlippedMeridian(),
		phaseAng:  float32(phaseAng),
	}
	if eq > 0 {
		g.pxPerKm = float32(scale / eq)
	}
	g.sinUp = math32.Sin(g.upAngle)
	g.cosUp = math32.Cos(g.upAngle)
	g.sinTilt = math32.Sin(g.tilt)
	g.cosTilt = math32.Cos(g.tilt)

	g.shadeK = ShadingRocky
	if body.IsGasGiant() {
		g.shadeK = ShadingGasGiant
	}

	// Sun direction in the body frame from the sub-solar point.
	dLon := float32(subLon - merid)
	if g.flipped {
		dLon = -dLon
	}
	sLat := float32(subLat)
	g.sunBody = vec3{
		math32.Cos(sLat) * math32.Sin(dLon),
		math32.Sin(sLat),
		math32.Cos(sLat) * math32.Cos(dLon),
	}
	g.sunView = g.bodyToView(g.sunBody)

	// Sun-frame basis for shadow classification.
	g.sunE3 = g.sunBody
	pole := vec3{0, 1, 0}
	e2 := pole.sub(g.sunE3.scaled(pole.dot(g.sunE3)))
	if e2.dot(e2) < 1e-10 {
		// Sun along the pole; any perpendicular works.
		e2 = vec3{1, 0, 0}.sub(g.sunE3.scaled(g.sunE3.x))
	}
	g.sunE2 = e2.norm()
	g.sunE1 = g.sunE2.cross(g.sunE3)
	return g
}

// centralMeridian picks the rotation system and applies per-body
// calibration offsets.
func centralMeridian(body Body, eph *BodyEphemeris) float64 {
	m := eph.CentralMerid
	if body.IsGasGiant() && eph.CentralMerid2 != 0 {
		m = eph.CentralMerid2
	}
	if body == Venus {
		m += venusMeridianOffset
	}
	return m
}

// viewToBody removes the pole tilt: input view-frame direction, output
// body-frame direction (y along the rotation axis).
func (g *geometry) viewToBody(v vec3) vec3 {
	return vec3{
		v.x,
		v.y*g.cosTilt + v.z*g.sinTilt,
		-v.y*g.sinTilt + v.z*g.cosTilt,
	}
}

// bodyToView is the inverse of viewToBody.
func (g *geometry) bodyToView(v vec3) vec3 {
	return vec3{
		v.x,
		v.y*g.cosTilt - v.z*g.sinTilt,
		v.y*g.sinTilt + v.z*g.cosTilt,
	}
}

// screenToSphere inverts a screen pixel into view-frame unit-sphere
// coordinates. ok is false outside the oblate disk ellipse.
func (g *geometry) screenToSphere(px, py float32) (vec3, bool) {
	ux := (px - g.cx) / g.scale
	uy := (g.cy - py) / g.scale
	dx := ux*g.cosUp + uy*g.sinUp
	dy := (-ux*g.sinUp + uy*g.cosUp) * g.obl
	r2 := dx*dx + dy*dy
	if r2 > 1 {
		return vec3{}, false
	}
	dz := math32.Sqrt(1 - r2)
	return vec3{dx, dy, dz}, true
}

// sphereToScreen projects a view-frame sphere surface point to screen
// pixels, applying the oblateness squish.
func (g *geometry) sphereToScreen(v vec3) (float32, float32) {
	dy := v.y / g.obl
	ux := v.x*g.cosUp - dy*g.sinUp
	uy := v.x*g.sinUp + dy*g.cosUp
	return g.cx + ux*g.scale, g.cy - uy*g.scale
}

// planeToScreen projects a view-frame point (ring plane, moon offsets)
// to screen pixels without the oblateness squish.
func (g *geometry) planeToScreen(v vec3) (float32, float32) {
	ux := v.x*g.cosUp - v.y*g.sinUp
	uy := v.x*g.sinUp + v.y*g.cosUp
	return g.cx + ux*g.scale, g.cy - uy*g.scale
}

// latLon converts a view-frame sphere point into planetographic
// latitude and texture longitude.
func (g *geometry) latLon(v vec3) (lat, lon float32) {
	b := g.viewToBody(v)
	y := b.y
	if y > 1 {
		y = 1
	} else if y < -1 {
		y = -1
	}
	lat = math32.Asin(y)
	l := math32.Atan2(b.x, b.z)
	if g.flipped {
		lon = g.merid - l
	} else {
		lon = g.merid + l
	}
	return lat, lon
}

// sunCoords returns a body-frame point's coordinates in the sun frame:
// (lateral e1, lateral e2, toward-sun e3).
func (g *geometry) sunCoords(p vec3) (xs, ys, zs float32) {
	return p.dot(g.sunE1), p.dot(g.sunE2), p.dot(g.sunE3)
}

// inPlanetShadow reports whether a body-frame point (in equatorial
// radii) lies inside the planet's shadow cylinder.
func (g *geometry) inPlanetShadow(p vec3) bool {
	xs, ys, zs := g.sunCoords(p)
	if zs >= 0 {
		return false
	}
	ys *= g.obl
	return xs*xs+ys*ys <= 1
}

// brightness returns the illumination factor at a view-frame surface
// point, from the squared 3D distance to the unit sun direction.
// Degenerate inputs clamp to the valid range instead of propagating NaN.
func (g *geometry) brightness(p vec3) float32 {
	d := p.sub(g.sunView)
	dist2 := d.dot(d)
	b := 1 - g.shadeK*dist2/2
	if b < 0 || math32.IsNaN(b) {
		return 0
	}
	if b > 1 {
		return 1
	}
	return b
}

// PlanetographicAt converts a screen pixel into planetographic
// coordinates on the target's disk. Used by external picking/UI code.
// on reports whether the pixel falls on the disk.
func PlanetographicAt(cfg RenderConfig, eph BodyEphemeris, x, y float64) (lat, lon float64, on bool) {
	if err := cfg.Validate(); err != nil {
		return 0, 0, false
	}
	g := newGeometry(&cfg, &eph, cfg.Width, cfg.Height)
	v, ok := g.screenToSphere(float32(x), float32(y))
	if !ok {
		return 0, 0, false
	}
	la, lo := g.latLon(v)
	return float64(la), float64(normalizeLon(lo)), true
}

// ScreenAt converts planetographic coordinates into screen pixels.
// visible reports whether the point is on the observer-facing
// hemisphere.
func ScreenAt(cfg RenderConfig, eph BodyEphemeris, lat, lon float64) (x, y float64, visible bool) {
	if err := cfg.Validate(); err != nil {
		return 0, 0, false
	}
	g := newGeometry(&cfg, &eph, cfg.Width, cfg.Height)
	dLon := float32(lon) - g.merid
	if g.flipped {
		dLon = -dLon
	}
	la := float32(lat)
	b := vec3{
		math32.Cos(la) * math32.Sin(dLon),
		math32.Sin(la),
		math32.Cos(la) * math32.Cos(dLon),
	}
	v := g.bodyToView(b)
	sx, sy := g.sphereToScreen(v)
	return float64(sx), float64(sy), v.z >= 0
}

// normalizeLon wraps a longitude into [0, 2pi).
func normalizeLon(l float32) float32 {
	const twoPi = 2 * math.Pi
	l = math32.Mod(l, twoPi)
	if l < 0 {
		l += twoPi
	}
	return l
}

// bodyEphemeris adapts a satellite's state to the primary-body form so
// satellites can reuse the disk rasterizer.
func (m *MoonEphemeris) bodyEphemeris() BodyEphemeris {
	return BodyEphemeris{
		AngularRadius: m.AngularRadius,
		PoleAngle:     m.PoleAngle,
		AxisAngle:     m.AxisAngle,
		PoleTilt:      m.PoleTilt,
		SubSolarLat:   m.SubSolarLat,
		SubSolarLon:   m.SubSolarLon,
		CentralMerid:  m.CentralMerid,
		PhaseAngle:    m.PhaseAngle,
		Distance:      m.Distance,
	}
}
