package diskrender

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/transform"
)

// Pixmap represents a rectangular pixel buffer. It is both the working
// raster of the render pipeline and the produced output image.
type Pixmap struct {
	width  int
	height int
	data   []uint8 // RGBA format, 4 bytes per pixel
}

// NewPixmap creates a new pixmap with the given dimensions.
func NewPixmap(width, height int) *Pixmap {
	return &Pixmap{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// Width returns the width of the pixmap.
func (p *Pixmap) Width() int {
	return p.width
}

// Height returns the height of the pixmap.
func (p *Pixmap) Height() int {
	return p.height
}

// Data returns the raw pixel data (RGBA format).
func (p *Pixmap) Data() []uint8 {
	return p.data
}

// SetPixel sets the color of a single pixel.
func (p *Pixmap) SetPixel(x, y int, c RGBA) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	i := (y*p.width + x) * 4
	p.data[i+0] = uint8(clamp255(c.R * 255))
	p.data[i+1] = uint8(clamp255(c.G * 255))
	p.data[i+2] = uint8(clamp255(c.B * 255))
	p.data[i+3] = uint8(clamp255(c.A * 255))
}

// GetPixel returns the color of a single pixel.
func (p *Pixmap) GetPixel(x, y int) RGBA {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return Transparent
	}
	i := (y*p.width + x) * 4
	return RGBA{
		R: float64(p.data[i+0]) / 255,
		G: float64(p.data[i+1]) / 255,
		B: float64(p.data[i+2]) / 255,
		A: float64(p.data[i+3]) / 255,
	}
}

// Clear fills the entire pixmap with a color.
func (p *Pixmap) Clear(c RGBA) {
	r := uint8(clamp255(c.R * 255))
	g := uint8(clamp255(c.G * 255))
	b := uint8(clamp255(c.B * 255))
	a := uint8(clamp255(c.A * 255))

	for i := 0; i < len(p.data); i += 4 {
		p.data[i+0] = r
		p.data[i+1] = g
		p.data[i+2] = b
		p.data[i+3] = a
	}
}

// Clone returns a deep copy of the pixmap. The render pipeline snapshots
// the raster before the ring draw pass and before diffraction.
func (p *Pixmap) Clone() *Pixmap {
	out := NewPixmap(p.width, p.height)
	copy(out.data, p.data)
	return out
}

// Resized returns the pixmap resampled to the given dimensions using
// bilinear filtering. Used by the cache fast path and supersampling.
func (p *Pixmap) Resized(width, height int) *Pixmap {
	if width == p.width && height == p.height {
		return p.Clone()
	}
	img := transform.Resize(p.ToImage(), width, height, transform.Linear)
	return FromImage(img)
}

// Rotated returns the pixmap rotated by angle radians about its center,
// preserving dimensions. Used for the north-up orientation blit.
func (p *Pixmap) Rotated(angle float64) *Pixmap {
	img := transform.Rotate(p.ToImage(), -angle*180/math.Pi,
		&transform.RotationOptions{ResizeBounds: false})
	return FromImage(clone.AsRGBA(img))
}

// Blit draws src onto p with its top-left corner at (x, y).
func (p *Pixmap) Blit(src *Pixmap, x, y int) {
	for sy := 0; sy < src.height; sy++ {
		dy := y + sy
		if dy < 0 || dy >= p.height {
			continue
		}
		for sx := 0; sx < src.width; sx++ {
			dx := x + sx
			if dx < 0 || dx >= p.width {
				continue
			}
			si := (sy*src.width + sx) * 4
			di := (dy*p.width + dx) * 4
			copy(p.data[di:di+4], src.data[si:si+4])
		}
	}
}

// FlippedH returns the pixmap mirrored left-right.
func (p *Pixmap) FlippedH() *Pixmap {
	out := NewPixmap(p.width, p.height)
	for y := 0; y < p.height; y++ {
		row := y * p.width * 4
		for x := 0; x < p.width; x++ {
			si := row + x*4
			di := row + (p.width-1-x)*4
			copy(out.data[di:di+4], p.data[si:si+4])
		}
	}
	return out
}

// FlippedV returns the pixmap mirrored top-bottom.
func (p *Pixmap) FlippedV() *Pixmap {
	out := NewPixmap(p.width, p.height)
	stride := p.width * 4
	for y := 0; y < p.height; y++ {
		copy(out.data[(p.height-1-y)*stride:(p.height-y)*stride], p.data[y*stride:(y+1)*stride])
	}
	return out
}

// ToImage converts the pixmap to an image.RGBA.
func (p *Pixmap) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	copy(img.Pix, p.data)
	return img
}

// FromImage creates a pixmap from an image.
func FromImage(img image.Image) *Pixmap {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == image.Pt(0, 0) &&
		rgba.Stride == rgba.Bounds().Dx()*4 {
		pm := NewPixmap(rgba.Bounds().Dx(), rgba.Bounds().Dy())
		copy(pm.data, rgba.Pix)
		return pm
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pm := NewPixmap(width, height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := img.At(bounds.Min.X+x, bounds.Min.Y+y)
			pm.SetPixel(x, y, FromColor(c))
		}
	}

	return pm
}

// SavePNG saves the pixmap to a PNG file.
func (p *Pixmap) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	img := p.ToImage()
	return png.Encode(f, img)
}

// At implements the image.Image interface.
func (p *Pixmap) At(x, y int) color.Color {
	return p.GetPixel(x, y).Color()
}

// Bounds implements the image.Image interface.
func (p *Pixmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// ColorModel implements the image.Image interface.
func (p *Pixmap) ColorModel() color.Model {
	return color.NRGBAModel
}
