package diskrender

import (
	"github.com/chewxy/math32"
)

// Transit shadow constants.
const (
	// sunRadiusKm sizes the solar angular radius seen from the planet,
	// which sets the penumbra growth rate.
	sunRadiusKm = 696000.0
	// auKm converts astronomical units to kilometers.
	auKm = 149597870.7
	// umbraLevel is the residual brightness at the center of a transit
	// shadow.
	umbraLevel = 0.05
)

// drawMoonShadows darkens the planet disk under every shadow-transiting
// satellite. Each shadow is a cone: the umbra shrinks and the penumbra
// grows with the satellite's distance from the surface, and pixels are
// darkened by a smooth radial falloff rather than flat-painted.
func (rp *renderPass) drawMoonShadows(g *geometry, eph *BodyEphemeris, moons []MoonEphemeris) {
	if g.scale < gridRadius {
		return
	}
	for i := range moons {
		m := &moons[i]
		if !m.ShadowTransit {
			continue
		}
		rp.drawMoonShadow(g, eph, m)
	}
}

func (rp *renderPass) drawMoonShadow(g *geometry, eph *BodyEphemeris, m *MoonEphemeris) {
	planetEq := float32(g.body.EquatorialRadiusKm())
	if planetEq <= 0 {
		return
	}
	moonRadius := float32(m.Body.EquatorialRadiusKm()) / planetEq
	if moonRadius <= 0 {
		// Unknown body radius: derive from the apparent size.
		moonRadius = float32(m.AngularRadius / eph.AngularRadius)
	}

	center := g.viewToBody(vec3{float32(m.RelPos[0]), float32(m.RelPos[1]), float32(m.RelPos[2])})
	xm, ym, zm := g.sunCoords(center)
	ye := ym * g.obl
	if xm*xm+ye*ye > 1 {
		// The shadow axis misses the disk.
		return
	}
	zSurf := math32.Sqrt(1 - clampUnit(xm*xm+ym*ym))
	drop := zm - zSurf
	if drop <= 0 {
		// The satellite is behind the surface along the sun line; its
		// shadow cannot fall on the visible disk.
		return
	}

	// Solar angular radius from the planet sets the cone slopes.
	sunTan := float32(0)
	if eph.DistanceSun > 0 {
		sunTan = math32.Tan(math32.Asin(float32(sunRadiusKm / (auKm * eph.DistanceSun))))
	}
	umbra := moonRadius - drop*sunTan
	penumbra := moonRadius + drop*sunTan
	if umbra < 0 {
		umbra = 0
	}
	if penumbra <= 0 {
		return
	}

	// Screen anchor: the surface point under the shadow axis.
	surf := g.sunE1.scaled(xm).add(g.sunE2.scaled(ym)).add(g.sunE3.scaled(zSurf))
	v := g.bodyToView(surf)
	if v.z < 0 {
		return
	}
	sx, sy := g.sphereToScreen(v)

	// The bounding box stretches with foreshortening near the limb;
	// twice the penumbra is a safe cover.
	half := penumbra * g.scale * 2
	w, h := rp.canvas.Size()
	x0 := clampInt(int(sx-half), 0, w-1)
	x1 := clampInt(int(sx+half), 0, w-1)
	y0 := clampInt(int(sy-half), 0, h-1)
	y1 := clampInt(int(sy+half), 0, h-1)

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			sv, ok := g.screenToSphere(float32(x)+0.5, float32(y)+0.5)
			if !ok {
				continue
			}
			p := g.viewToBody(sv)
			xs, ys, zs := g.sunCoords(p)
			if zs < 0 {
				// Night side: no visible shadow to draw.
				continue
			}
			dx := xs - xm
			dy := ys - ym
			dist := math32.Sqrt(dx*dx + dy*dy)
			if dist >= penumbra {
				continue
			}
			dark := shadowFalloff(dist, umbra, penumbra)
			c := rp.canvas.PixelAt(x, y)
			rp.canvas.SetPixel(x, y, c.Scaled(float64(dark)))
		}
	}
}

// shadowFalloff maps radial distance in the shadow plane to a
// brightness factor: umbraLevel inside the umbra, rising smoothly to 1
// at the penumbra edge.
func shadowFalloff(dist, umbra, penumbra float32) float32 {
	if dist <= umbra {
		return umbraLevel
	}
	t := (dist - umbra) / (penumbra - umbra)
	// Smoothstep keeps the edge soft.
	s := t * t * (3 - 2*t)
	return umbraLevel + (1-umbraLevel)*s
}
