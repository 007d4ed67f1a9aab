package diskrender

import (
	"fmt"
	"image"
	_ "image/jpeg" // texture decoding
	_ "image/png"  // texture decoding
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/anthonynsimon/bild/clone"
	"github.com/chewxy/math32"
)

// TextureSource loads texture assets by name. Implementations are
// expected to be cheap on repeated loads (memoized); the renderer holds
// no asset cache of its own.
type TextureSource interface {
	// Load returns the named asset, or an error if it is missing or
	// corrupt. The renderer treats any error as "render without this
	// texture".
	Load(name string) (image.Image, error)
}

// DirSource is a TextureSource reading assets from a directory, with
// decoded images memoized for the life of the source.
type DirSource struct {
	root string

	mu    sync.Mutex
	cache map[string]image.Image
	fail  map[string]error
}

// NewDirSource creates a TextureSource rooted at dir.
func NewDirSource(dir string) *DirSource {
	return &DirSource{
		root:  dir,
		cache: make(map[string]image.Image),
		fail:  make(map[string]error),
	}
}

// Load implements TextureSource.
func (s *DirSource) Load(name string) (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if img, ok := s.cache[name]; ok {
		return img, nil
	}
	if err, ok := s.fail[name]; ok {
		return nil, err
	}

	f, err := os.Open(filepath.Join(s.root, filepath.Clean(name)))
	if err != nil {
		err = fmt.Errorf("diskrender: texture %q: %w", name, err)
		s.fail[name] = err
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	img, _, err := image.Decode(f)
	if err != nil {
		err = fmt.Errorf("diskrender: decode texture %q: %w", name, err)
		s.fail[name] = err
		return nil, err
	}
	s.cache[name] = img
	return img, nil
}

// texture wraps an equirectangular map for fast sampling in the pixel
// loops.
type texture struct {
	pix  []uint8
	w, h int
}

// newTexture converts an image into a sampling-friendly RGBA buffer.
func newTexture(img image.Image) *texture {
	rgba := clone.AsRGBA(img)
	b := rgba.Bounds()
	return &texture{
		pix: rgba.Pix,
		w:   b.Dx(),
		h:   b.Dy(),
	}
}

// index maps planetographic coordinates to texel column/row, wrapping
// longitude modulo the texture width.
func (t *texture) index(lat, lon float32) (ix, iy int) {
	u := lon / (2 * math.Pi)
	ix = int(math32.Floor(u * float32(t.w)))
	ix = ((ix % t.w) + t.w) % t.w

	v := (0.5 - lat/math.Pi) * float32(t.h)
	iy = int(v)
	if iy < 0 {
		iy = 0
	} else if iy >= t.h {
		iy = t.h - 1
	}
	return ix, iy
}

// texel returns the color at a texel index.
func (t *texture) texel(ix, iy int) RGBA {
	i := (iy*t.w + ix) * 4
	return RGBA{
		R: float64(t.pix[i+0]) / 255,
		G: float64(t.pix[i+1]) / 255,
		B: float64(t.pix[i+2]) / 255,
		A: float64(t.pix[i+3]) / 255,
	}
}

// sample maps and samples in one step.
func (t *texture) sample(lat, lon float32) RGBA {
	ix, iy := t.index(lat, lon)
	return t.texel(ix, iy)
}

// strip is a 1D texture sampled by a normalized position, used for the
// ring color and transparency strips (x axis spans inner to outer ring
// radius).
type strip struct {
	pix []uint8
	w   int
}

// newStrip flattens an image's first row into a strip.
func newStrip(img image.Image) *strip {
	rgba := clone.AsRGBA(img)
	b := rgba.Bounds()
	w := b.Dx()
	out := make([]uint8, w*4)
	copy(out, rgba.Pix[:w*4])
	return &strip{pix: out, w: w}
}

// sample returns the strip color at t in [0, 1].
func (s *strip) sample(t float32) RGBA {
	if s.w == 0 {
		return Transparent
	}
	ix := int(t * float32(s.w))
	if ix < 0 {
		ix = 0
	} else if ix >= s.w {
		ix = s.w - 1
	}
	i := ix * 4
	return RGBA{
		R: float64(s.pix[i+0]) / 255,
		G: float64(s.pix[i+1]) / 255,
		B: float64(s.pix[i+2]) / 255,
		A: float64(s.pix[i+3]) / 255,
	}
}

// loadTexture fetches and wraps a texture, logging and returning nil on
// failure so callers fall back to flat shapes.
func loadTexture(src TextureSource, name string) *texture {
	if src == nil {
		return nil
	}
	img, err := src.Load(name)
	if err != nil {
		Logger().Warn("texture unavailable, using fallback", "name", name, "err", err)
		return nil
	}
	return newTexture(img)
}

// loadStrip fetches and wraps a strip texture.
func loadStrip(src TextureSource, name string) *strip {
	if src == nil {
		return nil
	}
	img, err := src.Load(name)
	if err != nil {
		Logger().Warn("ring strip unavailable, using fallback", "name", name, "err", err)
		return nil
	}
	return newStrip(img)
}
