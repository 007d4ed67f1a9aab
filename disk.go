package diskrender

import (
	"fmt"
	"math"

	"github.com/chewxy/math32"
)

// Disk rasterizer thresholds, in projected pixels.
const (
	// minTextureRadius: below this the disk is a flat filled ellipse.
	minTextureRadius = 2.0
	// gridRadius: with textures disabled, disks above this radius get a
	// meridian/parallel wireframe instead of a flat fill.
	gridRadius = 30.0
	// subsampleRadius: above this radius texture lookups are computed
	// every other column and midpoint-interpolated in between.
	subsampleRadius = 300.0
	// nightBlendSharpness controls how quickly the night-lights texture
	// reaches full strength past the terminator.
	nightBlendSharpness = 8.0
)

// fallbackColors tint the flat-fill and wireframe representations.
var fallbackColors = map[Body]RGBA{
	Mercury:  Hex("#B5B5B5"),
	Venus:    Hex("#E8CDA2"),
	Earth:    Hex("#2E86AB"),
	Moon:     Hex("#AAAAA2"),
	Mars:     Hex("#C1440E"),
	Jupiter:  Hex("#C88B3A"),
	Saturn:   Hex("#E0D6B8"),
	Uranus:   Hex("#9BD4D9"),
	Neptune:  Hex("#3E66F9"),
	Io:       Hex("#D8C04A"),
	Europa:   Hex("#B8A890"),
	Ganymede: Hex("#8E8578"),
	Callisto: Hex("#6E6458"),
	Titan:    Hex("#D6A44C"),
	Triton:   Hex("#C8C0B4"),
}

// fallbackColor returns the tint for a body, defaulting to gray.
func fallbackColor(b Body) RGBA {
	if c, ok := fallbackColors[b]; ok {
		return c
	}
	return RGBA{0.6, 0.6, 0.6, 1}
}

// diskSample is one rasterized disk sample.
type diskSample struct {
	ok     bool
	ix, iy int
	bright float32
	v      vec3
}

// diskPaint bundles the per-call state of one disk rasterization. The
// planet and each satellite disk run the same loop with their own
// geometry, textures, eclipse test, and depth mapping.
type diskPaint struct {
	g     *geometry
	tex   *texture
	night *texture

	// eclipse reports whether a view-frame sample point is in shadow
	// (planet shadow or a mutual satellite event); such samples paint
	// solid black.
	eclipse func(v vec3) bool

	// depthOffset/depthUnit map a sample's view z into frame depth
	// units (planet equatorial radii): depth = offset + z*unit. The
	// planet uses (0, 1); a moon uses its own offset and radius.
	depthOffset float32
	depthUnit   float32
}

// drawDisk rasterizes a body's disk onto the pass canvas: textured and
// illuminated when possible, flat or wireframe otherwise.
func (rp *renderPass) drawDisk(dp *diskPaint) {
	g := dp.g
	if g.scale < minTextureRadius || math32.IsNaN(g.scale) {
		rp.fillFlatDisk(dp)
		return
	}
	if !rp.cfg.Textures {
		if g.scale >= gridRadius {
			rp.drawWireframe(dp)
		} else {
			rp.fillFlatDisk(dp)
		}
		return
	}
	if dp.tex == nil {
		// Missing or corrupt texture: degrade to a flat fill.
		rp.fillFlatDisk(dp)
		return
	}

	w, h := rp.canvas.Size()
	x0 := clampInt(int(g.cx-g.scale)-1, 0, w-1)
	x1 := clampInt(int(g.cx+g.scale)+1, 0, w-1)
	y0 := clampInt(int(g.cy-g.scale)-1, 0, h-1)
	y1 := clampInt(int(g.cy+g.scale)+1, 0, h-1)

	step := 1
	if !rp.cfg.HighQuality && g.scale > subsampleRadius {
		step = 2
	}

	var prev diskSample
	for y := y0; y <= y1; y++ {
		prev.ok = false
		py := float32(y) + 0.5
		for x := x0; x <= x1; x += step {
			cur := dp.sample(float32(x)+0.5, py)

			// Midpoint column: interpolate texture indices between the
			// two sampled neighbors; disk edges where a neighbor is off
			// the disk always get an exact sample.
			if step == 2 && x-1 >= x0 {
				var mid diskSample
				if prev.ok && cur.ok {
					mid.ok = true
					mid.ix = interpTexCol(prev.ix, cur.ix, dp.tex.w)
					mid.iy = (prev.iy + cur.iy) / 2
					mid.bright = (prev.bright + cur.bright) / 2
					mid.v = vec3{(prev.v.x + cur.v.x) / 2, (prev.v.y + cur.v.y) / 2, (prev.v.z + cur.v.z) / 2}
				} else {
					mid = dp.sample(float32(x-1)+0.5, py)
				}
				if mid.ok {
					rp.shadePixel(dp, x-1, y, &mid)
				}
			}

			if cur.ok {
				rp.shadePixel(dp, x, y, &cur)
			}
			prev = cur
		}
	}
}

// sample computes one disk sample: sphere inversion, planetographic
// coordinates, texture indices, and illumination.
func (dp *diskPaint) sample(px, py float32) diskSample {
	var s diskSample
	v, ok := dp.g.screenToSphere(px, py)
	if !ok {
		return s
	}
	lat, lon := dp.g.latLon(v)
	s.ix, s.iy = dp.tex.index(lat, lon)
	s.bright = dp.g.brightness(v)
	if v.x*v.x+v.y*v.y > 0.96 {
		s.bright *= limbEdgeFade
	}
	s.ok = true
	s.v = v
	return s
}

// shadePixel writes one shaded disk pixel and its depth.
func (rp *renderPass) shadePixel(dp *diskPaint, x, y int, s *diskSample) {
	z := dp.depthOffset + s.v.z*dp.depthUnit
	if !rp.depthPass(x, y, z) {
		return
	}
	if dp.eclipse != nil && dp.eclipse(s.v) {
		rp.canvas.SetPixel(x, y, Black)
		rp.setDepth(x, y, z)
		return
	}
	c := dp.tex.texel(s.ix, s.iy).Scaled(float64(s.bright))
	if dp.night != nil && rp.cfg.NightSide {
		dot := s.v.dot(dp.g.sunView)
		if dot < 0 {
			blend := float64(-dot) * nightBlendSharpness
			if blend > 1 {
				blend = 1
			}
			nc := dp.night.texel(rescaleTexCol(s.ix, dp.night.w, dp.tex.w), s.iy*dp.night.h/dp.tex.h)
			c = c.Lerp(nc, blend*(1-float64(s.bright)))
		}
	}
	c.A = 1
	rp.canvas.SetPixel(x, y, c)
	rp.setDepth(x, y, z)
}

// interpTexCol interpolates a texture column index between two sampled
// columns, taking the short way around the longitude seam.
func interpTexCol(a, b, w int) int {
	d := b - a
	if d > w/2 {
		d -= w
	} else if d < -w/2 {
		d += w
	}
	m := a + d/2
	return ((m % w) + w) % w
}

// rescaleTexCol maps a texture column from one texture width to another
// (night textures may ship at a different resolution).
func rescaleTexCol(ix, dstW, srcW int) int {
	if dstW == srcW {
		return ix
	}
	c := ix * dstW / srcW
	if c >= dstW {
		c = dstW - 1
	}
	return c
}

// fillFlatDisk draws the body as a plain filled ellipse.
func (rp *renderPass) fillFlatDisk(dp *diskPaint) {
	g := dp.g
	rx := float64(g.scale)
	if rx < 0.75 {
		rx = 0.75
	}
	ry := rx / float64(g.obl)
	rp.canvas.FillEllipse(float64(g.cx), float64(g.cy), rx, ry, -float64(g.upAngle), fallbackColor(g.body))
	rp.fillDepthEllipse(dp)
}

// drawWireframe draws the limb plus a meridian/parallel great-circle
// grid with longitude tick labels.
func (rp *renderPass) drawWireframe(dp *diskPaint) {
	g := dp.g
	col := fallbackColor(g.body)
	line := col.Scaled(0.7)
	rx := float64(g.scale)
	ry := rx / float64(g.obl)
	rp.canvas.StrokeEllipseArc(float64(g.cx), float64(g.cy), rx, ry, -float64(g.upAngle), 0, 2*math.Pi, col)
	rp.fillDepthEllipse(dp)

	// Parallels every 30 degrees.
	for latDeg := -60; latDeg <= 60; latDeg += 30 {
		lat := float32(latDeg) * math.Pi / 180
		rp.strokeBodyCircle(g, func(t float32) vec3 {
			return vec3{
				math32.Cos(lat) * math32.Sin(t),
				math32.Sin(lat),
				math32.Cos(lat) * math32.Cos(t),
			}
		}, line)
	}

	// Meridians every 30 degrees, labeled at the equator.
	for lonDeg := 0; lonDeg < 360; lonDeg += 30 {
		dLon := float32(lonDeg)*math.Pi/180 - g.merid
		if g.flipped {
			dLon = -dLon
		}
		sinL := math32.Sin(dLon)
		cosL := math32.Cos(dLon)
		rp.strokeBodyCircle(g, func(t float32) vec3 {
			return vec3{
				math32.Cos(t) * sinL,
				math32.Sin(t),
				math32.Cos(t) * cosL,
			}
		}, line)

		if rp.cfg.ShowLabels {
			eq := g.bodyToView(vec3{sinL, 0, cosL})
			if eq.z >= 0 {
				sx, sy := g.sphereToScreen(eq)
				rp.canvas.DrawLabel(int(sx)+2, int(sy)-2, fmt.Sprintf("%d", lonDeg), rp.cfg.Foreground)
			}
		}
	}
}

// strokeBodyCircle walks a parametric circle on the body sphere and
// plots the observer-facing half.
func (rp *renderPass) strokeBodyCircle(g *geometry, point func(t float32) vec3, col RGBA) {
	steps := int(g.scale)
	if steps < 64 {
		steps = 64
	}
	for i := 0; i <= steps; i++ {
		t := float32(i) / float32(steps) * 2 * math.Pi
		v := g.bodyToView(point(t))
		if v.z < 0 {
			continue
		}
		sx, sy := g.sphereToScreen(v)
		rp.canvas.SetPixel(int(sx), int(sy), col)
	}
}

// fillDepthEllipse records depth for a flat-filled disk so rings and
// moons still occlude correctly against it.
func (rp *renderPass) fillDepthEllipse(dp *diskPaint) {
	g := dp.g
	rx := float64(g.scale)
	ry := rx / float64(g.obl)
	w, h := rp.canvas.Size()
	x0 := clampInt(int(float64(g.cx)-rx)-1, 0, w-1)
	x1 := clampInt(int(float64(g.cx)+rx)+1, 0, w-1)
	y0 := clampInt(int(float64(g.cy)-ry)-1, 0, h-1)
	y1 := clampInt(int(float64(g.cy)+ry)+1, 0, h-1)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if v, ok := g.screenToSphere(float32(x)+0.5, float32(y)+0.5); ok {
				rp.setDepth(x, y, dp.depthOffset+v.z*dp.depthUnit)
			}
		}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
