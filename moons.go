package diskrender

import (
	"sort"

	"github.com/chewxy/math32"
)

// Satellite rendering constants.
const (
	// moonDiskRadius: satellites with a larger projected radius render
	// as full texture-mapped disks; smaller ones as sized points.
	moonDiskRadius = 2.0
	// magPointBase/magPointSlope map apparent magnitude to point radius
	// in pixels: radius = base - slope*magnitude.
	magPointBase  = 3.2
	magPointSlope = 0.35
	// symbolicMoonRadius keeps the bright regular satellites of the
	// giant planets visible at negligible angular size.
	symbolicMoonRadius = 1.4
	// minPointRadius is the floor for every other satellite point.
	minPointRadius = 0.5
)

// orderMoonIndices returns moon indices sorted by descending observer
// distance so nearer moons draw last (painter's algorithm). The sort is
// stable: frames with the same moon set keep the same order.
func orderMoonIndices(moons []MoonEphemeris) []int {
	order := make([]int, len(moons))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return moons[order[a]].Distance > moons[order[b]].Distance
	})
	return order
}

// moonBodies extracts the body list keying the ordering cache.
func moonBodies(moons []MoonEphemeris) []Body {
	if len(moons) == 0 {
		return nil
	}
	key := make([]Body, len(moons))
	for i := range moons {
		key[i] = moons[i].Body
	}
	return key
}

// sameMoonBodies reports whether the moon set still matches the cached
// ordering key, position by position.
func sameMoonBodies(key []Body, moons []MoonEphemeris) bool {
	if len(key) != len(moons) {
		return false
	}
	for i := range moons {
		if moons[i].Body != key[i] {
			return false
		}
	}
	return true
}

// moonScreenCenter computes a satellite's screen position: precomputed
// sky offsets when available, otherwise the relative ephemeris offset
// rotated through the frame orientation.
func (rp *renderPass) moonScreenCenter(g *geometry, m *MoonEphemeris) (float32, float32) {
	if m.SkyValid {
		w, _ := rp.canvas.Size()
		pxPerRad := float32(w) / float32(rp.cfg.Telescope.FieldOfView)
		return g.cx - float32(m.SkyPos[0])*pxPerRad, g.cy - float32(m.SkyPos[1])*pxPerRad
	}
	return g.planeToScreen(vec3{float32(m.RelPos[0]), float32(m.RelPos[1]), float32(m.RelPos[2])})
}

// drawMoons renders the satellites back to front. Failures or skips
// degrade to omission, never abort the frame.
func (rp *renderPass) drawMoons(g *geometry, moons []MoonEphemeris, order []int) {
	w, h := rp.canvas.Size()
	for _, idx := range order {
		m := &moons[idx]
		if (m.Eclipsed || m.Occulted) && !rp.cfg.SkyMode {
			continue
		}
		cx, cy := rp.moonScreenCenter(g, m)
		moonScale := float32(float64(w) * m.AngularRadius / rp.cfg.Telescope.FieldOfView)
		if math32.IsNaN(moonScale) || moonScale < 0 {
			Logger().Warn("degenerate satellite geometry, omitting", "moon", m.Name)
			continue
		}
		pad := moonScale + 4
		if cx < -pad || cx > float32(w)+pad || cy < -pad || cy > float32(h)+pad {
			continue
		}

		if moonScale > moonDiskRadius {
			rp.drawMoonDisk(g, moons, idx, cx, cy)
		} else {
			rp.drawMoonPoint(g, m, cx, cy)
		}
	}
}

// drawMoonDisk renders one satellite through the disk rasterizer at its
// own scale and orientation, with per-sample eclipse tests against the
// planet's shadow and against any mutual-event partner.
func (rp *renderPass) drawMoonDisk(g *geometry, moons []MoonEphemeris, idx int, cx, cy float32) {
	m := &moons[idx]
	w, _ := rp.canvas.Size()
	mg := newMoonGeometry(rp.cfg, g, m, w, cx, cy)

	var tex *texture
	if rp.cfg.Textures {
		tex = loadTexture(rp.textures, m.Body.TextureName())
	}

	center := vec3{float32(m.RelPos[0]), float32(m.RelPos[1]), float32(m.RelPos[2])}
	// Moon radius in planet equatorial radii converts moon-local unit
	// sphere samples into the planet frame.
	radiusRatio := mg.scale / g.scale

	var partner *MoonEphemeris
	var partnerCenter vec3
	var partnerRadius float32
	if m.MutualWith >= 0 && m.MutualWith < len(moons) && m.MutualWith != idx {
		partner = &moons[m.MutualWith]
		partnerCenter = vec3{float32(partner.RelPos[0]), float32(partner.RelPos[1]), float32(partner.RelPos[2])}
		partnerRadius = float32(float64(w)*partner.AngularRadius/rp.cfg.Telescope.FieldOfView) / g.scale
	}

	eclipse := func(v vec3) bool {
		world := center.add(v.scaled(radiusRatio))
		p := g.viewToBody(world)
		if g.inPlanetShadow(p) {
			return true
		}
		if partner != nil {
			if sampleShadowedBy(g, p, g.viewToBody(partnerCenter), partnerRadius) {
				return true
			}
		}
		return false
	}

	rp.drawDisk(&diskPaint{
		g:           mg,
		tex:         tex,
		eclipse:     eclipse,
		depthOffset: center.z,
		depthUnit:   radiusRatio,
	})
}

// sampleShadowedBy reports whether body-frame point p lies in the
// shadow cylinder of a satellite at center o with the given radius,
// all in planet equatorial radii.
func sampleShadowedBy(g *geometry, p, o vec3, radius float32) bool {
	if radius <= 0 {
		return false
	}
	d := p.sub(o)
	along := d.dot(g.sunE3)
	if along >= 0 {
		// p is sunward of the occluder.
		return false
	}
	lat := d.sub(g.sunE3.scaled(along))
	return lat.dot(lat) <= radius*radius
}

// drawMoonPoint draws a sub-threshold satellite as a filled disk sized
// by the logarithmic magnitude curve, with the symbolic floor for the
// bright regular moons of the giants.
func (rp *renderPass) drawMoonPoint(g *geometry, m *MoonEphemeris, cx, cy float32) {
	r := magPointBase - magPointSlope*m.Magnitude
	floor := minPointRadius
	if hasSymbolicFloor(g.body, m.Body) {
		floor = symbolicMoonRadius
	}
	if r < floor {
		r = floor
	}
	col := fallbackColor(m.Body)
	rp.canvas.FillEllipse(float64(cx), float64(cy), r, r, 0, col)
}
