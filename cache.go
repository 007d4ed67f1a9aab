package diskrender

import (
	"math"
)

// Frame cache tolerances.
const (
	// cacheAngleTol is the maximum angular divergence (radians) between
	// the cached and requested ephemeris before a full re-render.
	cacheAngleTol = 2e-3
	// cacheScaleSlack allows the requested scale to exceed the cached
	// scale by a hair before invalidating (resampling noise guard).
	cacheScaleSlack = 1.001
	// cacheMinScale: cached rasters of tiny disks are not worth
	// reusing.
	cacheMinScale = 8.0
	// cacheMaxShrink: reusing a cached raster at under half the cached
	// scale loses too much sharpness to the downsample.
	cacheMaxShrink = 0.5
)

// frameCache is the renderer-owned snapshot of the last full render:
// enough of the RenderConfig and BodyEphemeris for equality testing,
// the raster, and the scale it was rendered at. It replaces the static
// last-frame globals of older designs; the renderer invalidates it
// explicitly.
type frameCache struct {
	valid  bool
	cfg    RenderConfig
	eph    BodyEphemeris
	raster *Pixmap
	scale  float64
}

// store snapshots a full render.
func (c *frameCache) store(cfg *RenderConfig, eph *BodyEphemeris, raster *Pixmap, scale float64) {
	c.valid = true
	c.cfg = *cfg
	c.eph = *eph
	c.raster = raster.Clone()
	c.scale = scale
}

// invalidate drops the snapshot.
func (c *frameCache) invalidate() {
	c.valid = false
	c.raster = nil
}

// usable reports whether the cached raster can serve a frame with the
// given parameters through a cheap rescale.
func (c *frameCache) usable(cfg *RenderConfig, eph *BodyEphemeris, scale float64) bool {
	if !c.valid || c.raster == nil {
		return false
	}
	o := &c.cfg
	if cfg.Target != o.Target ||
		cfg.Width != o.Width || cfg.Height != o.Height ||
		cfg.Textures != o.Textures || cfg.HighQuality != o.HighQuality ||
		cfg.Supersample != o.Supersample || cfg.Stereo != o.Stereo ||
		cfg.NorthUp != o.NorthUp || cfg.NightSide != o.NightSide ||
		cfg.Telescope.InvertH != o.Telescope.InvertH ||
		cfg.Telescope.InvertV != o.Telescope.InvertV ||
		cfg.Telescope.Aperture != o.Telescope.Aperture ||
		cfg.Telescope.Obstruction != o.Telescope.Obstruction ||
		cfg.Telescope.ChromaticLevel != o.Telescope.ChromaticLevel ||
		cfg.Background != o.Background {
		return false
	}
	// The snapshot was taken before the PSF convolution; a frame with an
	// active diffraction pass cannot be served from it.
	if diffractionActive(&cfg.Telescope, cfg.Width) {
		return false
	}
	if !eph.Epoch.Equal(c.eph.Epoch) {
		return false
	}
	if c.scale < cacheMinScale {
		return false
	}
	if scale > c.scale*cacheScaleSlack {
		return false
	}
	if scale < c.scale*cacheMaxShrink {
		return false
	}
	if angleDiff(eph.PoleAngle, c.eph.PoleAngle) > cacheAngleTol ||
		angleDiff(eph.CentralMerid, c.eph.CentralMerid) > cacheAngleTol ||
		angleDiff(eph.SubSolarLon, c.eph.SubSolarLon) > cacheAngleTol ||
		math.Abs(eph.PoleTilt-c.eph.PoleTilt) > cacheAngleTol ||
		math.Abs(eph.SubSolarLat-c.eph.SubSolarLat) > cacheAngleTol ||
		math.Abs(eph.PhaseAngle-c.eph.PhaseAngle) > cacheAngleTol {
		return false
	}
	return true
}

// angleDiff is the absolute difference of two angles wrapped to [0, pi].
func angleDiff(a, b float64) float64 {
	d := math.Mod(a-b, 2*math.Pi)
	if d < 0 {
		d += 2 * math.Pi
	}
	if d > math.Pi {
		d = 2*math.Pi - d
	}
	return d
}
