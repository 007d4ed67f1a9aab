package diskrender

import (
	"math"

	"github.com/chewxy/math32"
)

// Ring rendering constants. The scattering and shadow strengths are
// empirically tuned calibration values.
const (
	// ringShadowStrength scales how much an opaque ring darkens the
	// disk beneath its shadow.
	ringShadowStrength = 0.85
	// ringBackScatter is the ring brightness at zero phase angle
	// (opposition, back-scattering geometry).
	ringBackScatter = 0.9
	// ringForwardScatter is the ring brightness at large phase angles,
	// where forward scattering through the ring particles brightens it.
	ringForwardScatter = 1.3
	// ringUnlitFactor dims the rings when the observer views their
	// unlit face.
	ringUnlitFactor = 0.55
	// maxRingStep caps the angular step of the band walk, radians.
	maxRingStep = 0.02
)

// ringGray is the flat fallback ring color.
var ringGray = RGBA{0.73, 0.70, 0.62, 1}

// ringSpan returns the ring system's inner and outer radii in
// equatorial radii, for strip normalization.
func ringSpan(body Body) (inner, outer float32) {
	bands := body.Rings()
	if len(bands) == 0 {
		return 0, 0
	}
	eq := float32(body.EquatorialRadiusKm())
	inner = float32(bands[0].Inner) / eq
	outer = float32(bands[len(bands)-1].Outer) / eq
	return inner, outer
}

// drawRingShadow darkens already-rendered disk pixels under the ring
// shadow. Each ring sample is projected into the sun frame; where it
// lands on the illuminated silhouette, the corresponding surface pixel
// is darkened proportionally to the ring transparency strip.
func (rp *renderPass) drawRingShadow(g *geometry, alpha *strip) {
	bands := g.body.Rings()
	if len(bands) == 0 || g.scale < gridRadius {
		return
	}
	spanIn, spanOut := ringSpan(g.body)
	eq := float32(g.body.EquatorialRadiusKm())

	rp.clearMask()
	for _, band := range bands {
		rIn := float32(band.Inner) / eq
		rOut := float32(band.Outer) / eq
		dr := 1 / g.scale // one pixel per radial step
		for r := rIn; r <= rOut; r += dr {
			opacity := float32(1)
			if alpha != nil {
				t := (r - spanIn) / (spanOut - spanIn)
				opacity = 1 - float32(alpha.sample(t).A)
			}
			if opacity <= 0.01 {
				continue
			}
			rp.walkRingBand(g, r, func(p vec3) {
				rp.shadowRingSample(g, p, opacity)
			})
		}
	}
}

// shadowRingSample projects one ring sample along the sun direction
// onto the planet surface and darkens the pixel it lands on.
func (rp *renderPass) shadowRingSample(g *geometry, p vec3, opacity float32) {
	xs, ys, zs := g.sunCoords(p)
	ye := ys * g.obl
	if xs*xs+ye*ye > 1 {
		return
	}
	zSurf := math32.Sqrt(1 - clampUnit(xs*xs+ys*ys))
	if zs <= zSurf {
		// The surface point is sunward of the ring sample; no shadow.
		return
	}
	surf := g.sunE1.scaled(xs).add(g.sunE2.scaled(ys)).add(g.sunE3.scaled(zSurf))
	v := g.bodyToView(surf)
	if v.z < 0 {
		return
	}
	sx, sy := g.sphereToScreen(v)
	x, y := int(sx), int(sy)
	if !rp.markOnce(x, y) {
		return
	}
	c := rp.canvas.PixelAt(x, y)
	rp.canvas.SetPixel(x, y, c.Scaled(float64(1-ringShadowStrength*opacity)))
}

// drawRings composites the ring arcs over the canvas. A ring pixel is
// drawn where its depth beats the recorded frame depth, which handles
// the front arc, the back arc, and the planet silhouette in one test.
// Each pixel composites at most once per frame: foreshortening stacks
// several band samples onto one pixel, and repeating the blend there
// would overshoot the transparency strip.
func (rp *renderPass) drawRings(g *geometry, color, alpha *strip) {
	bands := g.body.Rings()
	if len(bands) == 0 || g.scale < gridRadius {
		return
	}
	if !rp.cfg.Textures || (color == nil && alpha == nil) {
		rp.drawRingArcs(g)
		return
	}
	spanIn, spanOut := ringSpan(g.body)
	eq := float32(g.body.EquatorialRadiusKm())

	bright := rp.ringBrightness(g)

	rp.clearMask()
	for _, band := range bands {
		rIn := float32(band.Inner) / eq
		rOut := float32(band.Outer) / eq
		dr := 1 / g.scale
		for r := rIn; r <= rOut; r += dr {
			t := (r - spanIn) / (spanOut - spanIn)
			col := ringGray
			opacity := 0.8
			if color != nil {
				col = color.sample(t)
			}
			if alpha != nil {
				opacity = 1 - alpha.sample(t).A
			}
			if opacity <= 0.004 {
				continue
			}
			col = col.Scaled(float64(bright))
			col.A = opacity
			rp.walkRingBand(g, r, func(p vec3) {
				v := g.bodyToView(p)
				sx, sy := g.planeToScreen(v)
				x, y := int(sx), int(sy)
				if !rp.depthPass(x, y, v.z) {
					return
				}
				if !rp.markOnce(x, y) {
					return
				}
				dst := rp.canvas.PixelAt(x, y)
				out := col.Over(dst)
				out.A = 1
				rp.canvas.SetPixel(x, y, out)
				rp.setDepth(x, y, v.z)
			})
		}
	}
}

// fillRingDepth restores the depth footprint of the drawn rings without
// touching the canvas. The cache fast path blits a flat raster and then
// rebuilds depth from geometry; without the ring depth a satellite
// behind the ansae would overdraw them.
func (rp *renderPass) fillRingDepth(g *geometry, alpha *strip) {
	bands := g.body.Rings()
	if len(bands) == 0 || g.scale < gridRadius {
		return
	}
	spanIn, spanOut := ringSpan(g.body)
	eq := float32(g.body.EquatorialRadiusKm())
	for _, band := range bands {
		rIn := float32(band.Inner) / eq
		rOut := float32(band.Outer) / eq
		dr := 1 / g.scale
		for r := rIn; r <= rOut; r += dr {
			opacity := 0.8
			if alpha != nil {
				t := (r - spanIn) / (spanOut - spanIn)
				opacity = 1 - alpha.sample(t).A
			}
			if opacity <= 0.004 {
				continue
			}
			rp.walkRingBand(g, r, func(p vec3) {
				v := g.bodyToView(p)
				sx, sy := g.planeToScreen(v)
				rp.setDepth(int(sx), int(sy), v.z)
			})
		}
	}
}

// ringBrightness blends back- and forward-scattering ring brightness by
// phase angle and dims the unlit face.
func (rp *renderPass) ringBrightness(g *geometry) float32 {
	phase := (1 - math32.Cos(g.phaseAng)) / 2
	b := ringBackScatter + (ringForwardScatter-ringBackScatter)*phase
	// Observer below, sun above the ring plane (or vice versa) means
	// the unlit face shows.
	if g.sunBody.y*g.sinTilt < 0 {
		b *= ringUnlitFactor
	}
	return b
}

// walkRingBand walks one ring radius through the full angular range
// with a step adapted to the projected radius, skipping spans that
// project outside the viewport.
func (rp *renderPass) walkRingBand(g *geometry, r float32, fn func(p vec3)) {
	w, h := rp.canvas.Size()
	rPx := r * g.scale
	if rPx < 1 {
		return
	}
	// Reject bands that cannot intersect the viewport at all.
	if g.cx+rPx < 0 || g.cx-rPx > float32(w) || g.cy+rPx < 0 || g.cy-rPx > float32(h) {
		return
	}
	dTheta := 1 / rPx // about one pixel of arc
	if dTheta > maxRingStep {
		dTheta = maxRingStep
	}
	margin := float32(2)
	for theta := float32(0); theta < 2*math.Pi; theta += dTheta {
		p := vec3{r * math32.Sin(theta), 0, r * math32.Cos(theta)}
		v := g.bodyToView(p)
		sx, sy := g.planeToScreen(v)
		if sx < -margin || sx > float32(w)+margin || sy < -margin || sy > float32(h)+margin {
			continue
		}
		fn(p)
	}
}

// drawRingArcs is the fallback without textures: plain elliptical arcs
// at the band radii, the back half hidden behind the disk by a sign
// test against the pole inclination.
func (rp *renderPass) drawRingArcs(g *geometry) {
	eq := float32(g.body.EquatorialRadiusKm())
	for _, band := range g.body.Rings() {
		for _, radiusKm := range []float64{band.Inner, band.Outer} {
			r := float32(radiusKm) / eq
			rp.walkRingBand(g, r, func(p vec3) {
				v := g.bodyToView(p)
				sx, sy := g.planeToScreen(v)
				if v.z < 0 {
					// Back arc: hidden where the disk covers it.
					if _, on := g.screenToSphere(sx, sy); on {
						return
					}
				}
				rp.canvas.SetPixel(int(sx), int(sy), ringGray)
			})
		}
	}
}

func clampUnit(v float32) float32 {
	if v > 1 {
		return 1
	}
	if v < 0 {
		return 0
	}
	return v
}
