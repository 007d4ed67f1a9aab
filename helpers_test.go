package diskrender

import (
	"fmt"
	"image"
	"image/color"
	"time"
)

// stubProvider returns fixed ephemerides.
type stubProvider struct {
	eph     BodyEphemeris
	moons   []MoonEphemeris
	err     error
	moonErr error
}

func (s *stubProvider) Ephemeris(body Body, t time.Time) (BodyEphemeris, error) {
	if s.err != nil {
		return BodyEphemeris{}, s.err
	}
	e := s.eph
	if e.Epoch.IsZero() {
		e.Epoch = t
	}
	return e, nil
}

func (s *stubProvider) Moons(body Body, t time.Time) ([]MoonEphemeris, error) {
	if s.moonErr != nil {
		return nil, s.moonErr
	}
	return s.moons, nil
}

// stubTextures serves in-memory images by name.
type stubTextures struct {
	images map[string]image.Image
}

func (s *stubTextures) Load(name string) (image.Image, error) {
	if img, ok := s.images[name]; ok {
		return img, nil
	}
	return nil, fmt.Errorf("no texture %q", name)
}

// uniformImage builds a solid-color texture.
func uniformImage(w, h int, c color.NRGBA) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return img
}

// texturesFor builds a stub source with a uniform surface texture (and
// ring strips for ringed bodies).
func texturesFor(body Body, c color.NRGBA) *stubTextures {
	s := &stubTextures{images: map[string]image.Image{
		body.TextureName(): uniformImage(128, 64, c),
	}}
	if len(body.Rings()) > 0 {
		s.images[body.RingColorTextureName()] = uniformImage(64, 1, color.NRGBA{200, 190, 160, 255})
		// Transparency strip: mostly opaque rings.
		s.images[body.RingAlphaTextureName()] = uniformImage(64, 1, color.NRGBA{0, 0, 0, 64})
	}
	return s
}

// testEphemeris builds a plain, fully lit, pole-up ephemeris with the
// given apparent radius.
func testEphemeris(angularRadius float64) BodyEphemeris {
	return BodyEphemeris{
		Epoch:         time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		AngularRadius: angularRadius,
		Phase:         1,
		Distance:      5,
		DistanceSun:   5.2,
	}
}

// maxChannelDiff returns the largest per-channel byte difference and
// the fraction of bytes differing by more than tol.
func maxChannelDiff(a, b *Pixmap, tol int) (maxDiff int, overFrac float64) {
	da, db := a.Data(), b.Data()
	if len(da) != len(db) {
		return 255, 1
	}
	over := 0
	for i := range da {
		d := int(da[i]) - int(db[i])
		if d < 0 {
			d = -d
		}
		if d > maxDiff {
			maxDiff = d
		}
		if d > tol {
			over++
		}
	}
	return maxDiff, float64(over) / float64(len(da))
}
