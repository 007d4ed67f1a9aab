package diskrender

import (
	"fmt"
	"math"
	"sync"
	"time"
)

// Supersampling constants.
const (
	// supersampleFactor is the internal canvas enlargement of the
	// high-quality supersample mode.
	supersampleFactor = 1.5
	// supersampleFOVLimit auto-disables supersampling above this field
	// of view; rotating a large supersampled frame while dragging
	// produces visible resampling artifacts.
	supersampleFOVLimit = 1200 * arcsec
)

// negDepth is the empty-pixel depth: anything drawn beats it.
const negDepth = float32(-math.MaxFloat32)

// Renderer renders frames of one target body. The render entry point
// is a critical section per instance: it mutates the frame cache, the
// satellite ordering cache, and per-frame scratch buffers.
type Renderer struct {
	mu       sync.Mutex
	provider EphemerisProvider
	textures TextureSource
	canvas   Canvas

	cache     frameCache
	moonEpoch time.Time
	moonKey   []Body
	moonOrder []int
}

// Option configures a Renderer during creation.
type Option func(*Renderer)

// WithCanvas injects a Canvas implementation. By default the renderer
// draws into its own software pixmap canvas; exporters provide their
// own implementation here, resolved at compile time.
func WithCanvas(c Canvas) Option {
	return func(r *Renderer) {
		r.canvas = c
	}
}

// New creates a renderer over an ephemeris provider and a texture
// source. The texture source may be nil for flat-shape output; the
// provider may be nil when callers supply ephemerides explicitly.
func New(provider EphemerisProvider, textures TextureSource, opts ...Option) *Renderer {
	r := &Renderer{
		provider: provider,
		textures: textures,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Frame is one render product. Right is non-nil only for
// [StereoPair]; the anaglyph modes pack both eyes into Image.
type Frame struct {
	Image *Pixmap
	Right *Pixmap
}

// Invalidate drops the frame cache and the satellite ordering cache.
// Callers invalidate after changing texture assets out from under the
// renderer; date changes are detected automatically.
func (r *Renderer) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache.invalidate()
	r.moonEpoch = time.Time{}
	r.moonKey = nil
	r.moonOrder = nil
}

// Render produces a frame of the configured target at the given
// instant. Satellite or texture failures degrade the output and are
// logged; only configuration errors (unknown target, bad dimensions)
// and a primary-ephemeris failure surface as errors.
func (r *Renderer) Render(cfg RenderConfig, t time.Time) (*Frame, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if r.provider == nil {
		return nil, fmt.Errorf("diskrender: no ephemeris provider")
	}
	eph, err := r.provider.Ephemeris(cfg.Target, t)
	if err != nil {
		return nil, fmt.Errorf("diskrender: ephemeris for %s: %w", cfg.Target, err)
	}
	if eph.Epoch.IsZero() {
		eph.Epoch = t
	}

	moons, err := r.provider.Moons(cfg.Target, t)
	if err != nil {
		Logger().Warn("satellite ephemeris failed, omitting moons", "target", cfg.Target.String(), "err", err)
		moons = nil
	}
	return r.renderFrame(&cfg, &eph, moons, eph.Epoch)
}

// RenderEphemeris renders from caller-supplied ephemerides, bypassing
// the provider. Used by tests and by callers that precompute state.
func (r *Renderer) RenderEphemeris(cfg RenderConfig, eph BodyEphemeris, moons []MoonEphemeris) (*Frame, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if eph.Epoch.IsZero() {
		eph.Epoch = time.Unix(0, 0).UTC()
	}
	return r.renderFrame(&cfg, &eph, moons, eph.Epoch)
}

func (r *Renderer) renderFrame(cfg *RenderConfig, eph *BodyEphemeris, moons []MoonEphemeris, t time.Time) (*Frame, error) {
	// The satellite ordering cache is keyed by date and by the moon set;
	// a date change also implicitly invalidates the frame cache through
	// the epoch check.
	if !t.Equal(r.moonEpoch) || !sameMoonBodies(r.moonKey, moons) {
		r.moonOrder = orderMoonIndices(moons)
		r.moonKey = moonBodies(moons)
		r.moonEpoch = t
	}

	switch cfg.Stereo {
	case StereoNone:
		img := r.renderMono(cfg, eph, moons, 0, true)
		return &Frame{Image: img}, nil
	case StereoPair:
		left := r.renderMono(cfg, eph, moons, -stereoParallax/2, false)
		right := r.renderMono(cfg, eph, moons, +stereoParallax/2, false)
		return &Frame{Image: left, Right: right}, nil
	case StereoRedCyan:
		left := r.renderMono(cfg, eph, moons, -stereoParallax/2, false)
		right := r.renderMono(cfg, eph, moons, +stereoParallax/2, false)
		return &Frame{Image: packRedCyan(left, right)}, nil
	case StereoDubois:
		left := r.renderMono(cfg, eph, moons, -stereoParallax/2, false)
		right := r.renderMono(cfg, eph, moons, +stereoParallax/2, false)
		return &Frame{Image: packDubois(left, right)}, nil
	}
	return nil, fmt.Errorf("diskrender: unknown stereo mode %d", int(cfg.Stereo))
}

// renderMono renders a single eye. eyeAngle tilts the frame for the
// stereo pair; allowCache gates the fast path (only the monoscopic
// frame reuses the cache).
func (r *Renderer) renderMono(cfg *RenderConfig, eph *BodyEphemeris, moons []MoonEphemeris, eyeAngle float64, allowCache bool) *Pixmap {
	e := *eph
	if eyeAngle != 0 {
		e.PoleAngle += eyeAngle
		e.AxisAngle += eyeAngle
	}

	w, h := cfg.Width, cfg.Height
	scale := float64(w) * e.AngularRadius / cfg.Telescope.FieldOfView

	if allowCache && r.cache.usable(cfg, &e, scale) {
		Logger().Debug("cache fast path", "target", cfg.Target.String(), "scale", scale)
		return r.renderCached(cfg, &e, moons, scale)
	}

	// Full pipeline.
	ss := 1.0
	if cfg.Supersample && cfg.Telescope.FieldOfView <= supersampleFOVLimit {
		ss = supersampleFactor
	}
	rw := int(float64(w) * ss)
	rh := int(float64(h) * ss)

	var canvas Canvas
	if r.canvas != nil {
		if cw, ch := r.canvas.Size(); cw == rw && ch == rh {
			canvas = r.canvas
		}
	}
	if canvas == nil {
		canvas = NewCanvas(rw, rh)
	}

	rp := newRenderPass(cfg, canvas, r.textures)
	canvas.Clear(cfg.Background)

	g := newGeometry(cfg, &e, rw, rh)
	var tex, night *texture
	if cfg.Textures {
		tex = loadTexture(r.textures, cfg.Target.TextureName())
		if cfg.NightSide {
			night = loadTexture(r.textures, cfg.Target.NightTextureName())
		}
	}
	rp.drawDisk(&diskPaint{g: g, tex: tex, night: night, depthUnit: 1})

	if len(cfg.Target.Rings()) > 0 {
		var ringColor, ringAlpha *strip
		if cfg.Textures {
			ringColor = loadStrip(r.textures, cfg.Target.RingColorTextureName())
			ringAlpha = loadStrip(r.textures, cfg.Target.RingAlphaTextureName())
		}
		rp.drawRingShadow(g, ringAlpha)
		rp.drawRings(g, ringColor, ringAlpha)
	}

	// Snapshot for the fast path: disk and rings only; the satellite
	// and axis overlays are cheap enough to re-run per frame. An active
	// PSF pass blurs the whole raster, so such frames are never served
	// from the snapshot and storing one would be wasted work.
	if allowCache && ss == 1 && !diffractionActive(&cfg.Telescope, rw) {
		r.cache.store(cfg, &e, canvas.Raster(), scale)
	}

	rp.drawMoonShadows(g, &e, moons)
	rp.drawMoons(g, moons, r.moonOrder)
	rp.applyDiffraction()
	rp.drawAxes(g)
	rp.applyRefraction()

	out := canvas.Raster()
	if ss != 1 {
		out = out.Resized(w, h)
	} else if canvas == r.canvas {
		out = out.Clone()
	}
	return orient(cfg, out)
}

// renderCached serves the fast path: an affine rescale of the cached
// disk+ring raster, plus the lightweight satellite and axis overlays.
// Frames with an active diffraction pass never reach here; usable()
// rejects them because the snapshot predates the convolution.
func (r *Renderer) renderCached(cfg *RenderConfig, eph *BodyEphemeris, moons []MoonEphemeris, scale float64) *Pixmap {
	w, h := cfg.Width, cfg.Height
	ratio := scale / r.cache.scale

	out := NewPixmap(w, h)
	out.Clear(cfg.Background)
	cv := WrapPixmap(out)
	// Rescale about the canvas center.
	m := Translate(float64(w)*(1-ratio)/2, float64(h)*(1-ratio)/2).
		Multiply(Scale(ratio, ratio))
	cv.DrawImage(r.cache.raster, m)

	rp := newRenderPass(cfg, cv, r.textures)
	g := newGeometry(cfg, eph, w, h)
	// Restore the disk and ring depth so moons occlude correctly.
	rp.fillDepthEllipse(&diskPaint{g: g, depthUnit: 1})
	if cfg.Textures && len(cfg.Target.Rings()) > 0 {
		ringColor := loadStrip(r.textures, cfg.Target.RingColorTextureName())
		ringAlpha := loadStrip(r.textures, cfg.Target.RingAlphaTextureName())
		if ringColor != nil || ringAlpha != nil {
			rp.fillRingDepth(g, ringAlpha)
		}
	}

	rp.drawMoonShadows(g, eph, moons)
	rp.drawMoons(g, moons, r.moonOrder)
	rp.drawAxes(g)
	rp.applyRefraction()
	return orient(cfg, out)
}

// orient applies the telescope mirror flips.
func orient(cfg *RenderConfig, pm *Pixmap) *Pixmap {
	if cfg.Telescope.InvertH {
		pm = pm.FlippedH()
	}
	if cfg.Telescope.InvertV {
		pm = pm.FlippedV()
	}
	return pm
}

// renderPass is the per-frame scratch shared by the pipeline stages:
// the canvas, the depth buffer, and the per-pass pixel visit mask.
type renderPass struct {
	cfg      *RenderConfig
	canvas   Canvas
	textures TextureSource

	w, h  int
	depth []float32
	mask  []bool
}

func newRenderPass(cfg *RenderConfig, canvas Canvas, textures TextureSource) *renderPass {
	w, h := canvas.Size()
	rp := &renderPass{
		cfg:      cfg,
		canvas:   canvas,
		textures: textures,
		w:        w,
		h:        h,
		depth:    make([]float32, w*h),
	}
	for i := range rp.depth {
		rp.depth[i] = negDepth
	}
	return rp
}

// depthPass reports whether a sample at depth z is in front of (or at)
// whatever the pixel currently holds. Out-of-bounds pixels never pass.
func (rp *renderPass) depthPass(x, y int, z float32) bool {
	if x < 0 || x >= rp.w || y < 0 || y >= rp.h {
		return false
	}
	return z >= rp.depth[y*rp.w+x]
}

// setDepth records a drawn sample's depth.
func (rp *renderPass) setDepth(x, y int, z float32) {
	if x < 0 || x >= rp.w || y < 0 || y >= rp.h {
		return
	}
	i := y*rp.w + x
	if z > rp.depth[i] {
		rp.depth[i] = z
	}
}

// clearMask resets the per-pass pixel visit mask. The ring shadow and
// ring draw passes each touch a pixel at most once per pass; overlapping
// band samples must not darken or composite the same pixel twice.
func (rp *renderPass) clearMask() {
	if rp.mask == nil {
		rp.mask = make([]bool, rp.w*rp.h)
		return
	}
	for i := range rp.mask {
		rp.mask[i] = false
	}
}

// markOnce marks a pixel visited; reports false if it was already
// visited or out of bounds.
func (rp *renderPass) markOnce(x, y int) bool {
	if x < 0 || x >= rp.w || y < 0 || y >= rp.h {
		return false
	}
	i := y*rp.w + x
	if rp.mask[i] {
		return false
	}
	rp.mask[i] = true
	return true
}
