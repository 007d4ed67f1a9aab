package diskrender

import (
	"math"
)

// Atmospheric refraction warp constants.
const (
	// refractionLimit: above this apparent altitude (radians) the warp
	// is skipped; refraction flattening is negligible.
	refractionLimit = 10 * math.Pi / 180
	// refractionStrength scales the maximum vertical row shift, px.
	refractionStrength = 6.0
)

// applyRefraction vertically compresses the lower part of the raster,
// approximating differential refraction near the horizon. The lower
// limb is lifted more than the upper limb, flattening the disk the way
// a setting sun flattens.
func (rp *renderPass) applyRefraction() {
	alt := rp.cfg.RefractionAltitude
	if alt <= 0 || alt > refractionLimit {
		return
	}
	pm := rp.canvas.Raster()
	w, h := pm.width, pm.height

	// Shift grows with altitude proximity to the horizon.
	maxShift := refractionStrength * (1 - alt/refractionLimit)
	if maxShift < 0.5 {
		return
	}

	src := pm.Clone()
	cy := float64(h) / 2
	for y := 0; y < h; y++ {
		f := (float64(y) - cy) / cy
		if f <= 0 {
			continue
		}
		// Lower rows sample from further down: quadratic growth keeps
		// the center undistorted.
		sy := y + int(math.Round(maxShift*f*f))
		if sy >= h {
			sy = h - 1
		}
		if sy == y {
			continue
		}
		copy(pm.data[y*w*4:(y+1)*w*4], src.data[sy*w*4:(sy+1)*w*4])
	}
}
