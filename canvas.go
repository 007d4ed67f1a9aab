package diskrender

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"
)

// Canvas is the drawing surface consumed by every render stage. The
// software implementation wraps a Pixmap; alternative exporters inject
// their own implementation at construction time instead of being loaded
// reflectively.
type Canvas interface {
	// Size returns the canvas dimensions in pixels.
	Size() (w, h int)
	// SetPixel writes one pixel, honoring the clip rectangle.
	SetPixel(x, y int, c RGBA)
	// PixelAt reads one pixel.
	PixelAt(x, y int) RGBA
	// Clear fills the whole canvas, ignoring the clip rectangle.
	Clear(c RGBA)
	// FillEllipse fills an axis-rotated ellipse.
	FillEllipse(cx, cy, rx, ry, angle float64, c RGBA)
	// StrokeEllipseArc strokes the arc of an axis-rotated ellipse
	// between parametric angles a0 and a1.
	StrokeEllipseArc(cx, cy, rx, ry, angle, a0, a1 float64, c RGBA)
	// DrawLine strokes a one-pixel line.
	DrawLine(x0, y0, x1, y1 float64, c RGBA)
	// DrawLabel draws a short text label with its baseline origin at
	// (x, y).
	DrawLabel(x, y int, text string, c RGBA)
	// DrawImage draws src transformed by the affine matrix m (source
	// coordinates to canvas coordinates).
	DrawImage(src *Pixmap, m Matrix)
	// Clip restricts SetPixel to r. An empty rectangle removes the
	// clip.
	Clip(r image.Rectangle)
	// Raster exposes the backing pixel buffer for the per-pixel stages.
	Raster() *Pixmap
}

// PixmapCanvas is the software Canvas over a Pixmap.
type PixmapCanvas struct {
	pm   *Pixmap
	clip image.Rectangle
}

// NewCanvas creates a software canvas of the given size.
func NewCanvas(width, height int) *PixmapCanvas {
	return &PixmapCanvas{pm: NewPixmap(width, height)}
}

// WrapPixmap creates a canvas drawing into an existing pixmap.
func WrapPixmap(pm *Pixmap) *PixmapCanvas {
	return &PixmapCanvas{pm: pm}
}

// Size implements Canvas.
func (c *PixmapCanvas) Size() (int, int) {
	return c.pm.width, c.pm.height
}

// SetPixel implements Canvas.
func (c *PixmapCanvas) SetPixel(x, y int, col RGBA) {
	if !c.clip.Empty() && !(image.Pt(x, y).In(c.clip)) {
		return
	}
	c.pm.SetPixel(x, y, col)
}

// PixelAt implements Canvas.
func (c *PixmapCanvas) PixelAt(x, y int) RGBA {
	return c.pm.GetPixel(x, y)
}

// Clear implements Canvas.
func (c *PixmapCanvas) Clear(col RGBA) {
	c.pm.Clear(col)
}

// Clip implements Canvas.
func (c *PixmapCanvas) Clip(r image.Rectangle) {
	c.clip = r
}

// Raster implements Canvas.
func (c *PixmapCanvas) Raster() *Pixmap {
	return c.pm
}

// FillEllipse implements Canvas by scanning the bounding box and
// testing each pixel center against the rotated ellipse equation.
func (c *PixmapCanvas) FillEllipse(cx, cy, rx, ry, angle float64, col RGBA) {
	if rx <= 0 || ry <= 0 {
		return
	}
	sin, cos := sincos(angle)
	bound := rx
	if ry > bound {
		bound = ry
	}
	x0, x1 := int(cx-bound)-1, int(cx+bound)+1
	y0, y1 := int(cy-bound)-1, int(cy+bound)+1
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			tx := (dx*cos + dy*sin) / rx
			ty := (-dx*sin + dy*cos) / ry
			if tx*tx+ty*ty <= 1 {
				c.SetPixel(x, y, col)
			}
		}
	}
}

// StrokeEllipseArc implements Canvas with a parametric point walk; the
// angular step adapts to the larger semi-axis so the stroke stays
// gap-free.
func (c *PixmapCanvas) StrokeEllipseArc(cx, cy, rx, ry, angle, a0, a1 float64, col RGBA) {
	if rx <= 0 && ry <= 0 {
		return
	}
	sin, cos := sincos(angle)
	major := rx
	if ry > major {
		major = ry
	}
	step := 0.5 / major
	if step <= 0 || step > 0.05 {
		step = 0.05
	}
	if a1 < a0 {
		a0, a1 = a1, a0
	}
	for a := a0; a <= a1; a += step {
		es, ec := sincos(a)
		px := rx * ec
		py := ry * es
		x := cx + px*cos - py*sin
		y := cy + px*sin + py*cos
		c.SetPixel(int(x), int(y), col)
	}
}

// DrawLine implements Canvas with a DDA walk.
func (c *PixmapCanvas) DrawLine(x0, y0, x1, y1 float64, col RGBA) {
	dx := x1 - x0
	dy := y1 - y0
	steps := abs(dx)
	if abs(dy) > steps {
		steps = abs(dy)
	}
	n := int(steps) + 1
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		c.SetPixel(int(x0+dx*t), int(y0+dy*t), col)
	}
}

// DrawImage implements Canvas. Scale/translate-only transforms take a
// resampled-blit fast path; general transforms fall back to inverse
// mapping with nearest sampling.
func (c *PixmapCanvas) DrawImage(src *Pixmap, m Matrix) {
	if m.IsScaleTranslateOnly() {
		sw := int(math.Round(float64(src.width) * m.A))
		sh := int(math.Round(float64(src.height) * m.E))
		if sw < 1 {
			sw = 1
		}
		if sh < 1 {
			sh = 1
		}
		c.pm.Blit(src.Resized(sw, sh), int(math.Round(m.C)), int(math.Round(m.F)))
		return
	}

	inv := m.Invert()
	w, h := c.pm.width, c.pm.height
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sx, sy := inv.Apply(float64(x)+0.5, float64(y)+0.5)
			ix, iy := int(sx), int(sy)
			if ix < 0 || ix >= src.width || iy < 0 || iy >= src.height {
				continue
			}
			si := (iy*src.width + ix) * 4
			di := (y*w + x) * 4
			copy(c.pm.data[di:di+4], src.data[si:si+4])
		}
	}
}

// DrawLabel implements Canvas using the embedded fixed-width face.
// Labels are short ASCII strings (tick marks, body names).
func (c *PixmapCanvas) DrawLabel(x, y int, text string, col RGBA) {
	d := font.Drawer{
		Dst:  c.pm,
		Src:  image.NewUniform(col.Color()),
		Face: inconsolata.Regular8x16,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func sincos(a float64) (sin, cos float64) {
	return math.Sin(a), math.Cos(a)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

var _ Canvas = (*PixmapCanvas)(nil)

// Set makes Pixmap a draw.Image so the font drawer can write into it.
func (p *Pixmap) Set(x, y int, c color.Color) {
	p.SetPixel(x, y, FromColor(c))
}
