package diskrender

import (
	"math"

	"github.com/anthonynsimon/bild/convolution"
)

// Diffraction simulator constants.
const (
	// psfWavelength is the reference wavelength for the point-spread
	// function, meters (green light).
	psfWavelength = 550e-9
	// maxPSFKernel caps the convolution kernel size.
	maxPSFKernel = 31
	// minPSFRadius: below this PSF radius in pixels the pass is a
	// no-op; the optics out-resolve the raster.
	minPSFRadius = 0.35
	// chromaShiftFactor scales the per-channel pixel offset simulating
	// chromatic aberration.
	chromaShiftFactor = 0.6
)

// diffractionActive reports whether the PSF pass would alter a raster
// of the given width: an aperture is configured and its Airy radius
// resolves to at least minPSFRadius pixels. The frame cache uses the
// same predicate, since its snapshot predates the convolution.
func diffractionActive(tel *Telescope, width int) bool {
	if tel.Aperture <= 0 {
		return false
	}
	radPerPx := tel.FieldOfView / float64(width)
	return 1.22*psfWavelength/tel.Aperture/radPerPx >= minPSFRadius
}

// applyDiffraction convolves the assembled raster with the telescope
// point-spread function and offsets the color channels for chromatic
// aberration. Runs after disk/ring/satellite compositing and before
// stereo packing.
func (rp *renderPass) applyDiffraction() {
	tel := &rp.cfg.Telescope
	w, h := rp.canvas.Size()
	if !diffractionActive(tel, w) {
		return
	}
	radPerPx := tel.FieldOfView / float64(w)

	// Airy radius of the aperture projected onto the raster.
	airy := 1.22 * psfWavelength / tel.Aperture / radPerPx

	kernel := airyKernel(airy, tel.Aperture, tel.Obstruction, radPerPx)
	if kernel == nil {
		return
	}

	src := rp.canvas.Raster()
	out := convolution.Convolve(src.ToImage(), kernel.Normalized(),
		&convolution.Options{KeepAlpha: true})

	shift := 0
	if tel.ChromaticLevel > 0 {
		shift = int(math.Round(tel.ChromaticLevel * airy * chromaShiftFactor))
	}
	if shift == 0 {
		copy(src.data, out.Pix)
		return
	}

	// Reassemble with the red channel shifted up and blue down.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			di := (y*w + x) * 4
			src.data[di+0] = channelAt(out.Pix, w, h, x, y-shift, 0)
			src.data[di+1] = out.Pix[di+1]
			src.data[di+2] = channelAt(out.Pix, w, h, x, y+shift, 2)
			src.data[di+3] = 255
		}
	}
}

// channelAt reads one channel with edge clamping.
func channelAt(pix []uint8, w, h, x, y, ch int) uint8 {
	if x < 0 {
		x = 0
	} else if x >= w {
		x = w - 1
	}
	if y < 0 {
		y = 0
	} else if y >= h {
		y = h - 1
	}
	return pix[(y*w+x)*4+ch]
}

// airyKernel builds an Airy-pattern convolution kernel for an aperture
// with a central obstruction. The kernel spans about two Airy radii.
func airyKernel(airy, aperture, obstruction, radPerPx float64) *convolution.Kernel {
	half := int(math.Ceil(2 * airy))
	if half < 1 {
		half = 1
	}
	size := 2*half + 1
	if size > maxPSFKernel {
		size = maxPSFKernel
		half = size / 2
	}

	eps := obstruction
	if eps < 0 {
		eps = 0
	} else if eps > 0.95 {
		eps = 0.95
	}

	k := convolution.NewKernel(size, size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			r := math.Hypot(float64(x-half), float64(y-half))
			k.Matrix[y*size+x] = airyIntensity(r*radPerPx, aperture, eps)
		}
	}
	return k
}

// airyIntensity evaluates the obstructed-aperture Airy pattern at an
// angular offset theta (radians).
func airyIntensity(theta, aperture, eps float64) float64 {
	v := math.Pi * aperture * theta / psfWavelength
	if v < 1e-9 {
		return 1
	}
	num := 2 * (math.J1(v) - eps*math.J1(eps*v))
	den := v * (1 - eps*eps)
	a := num / den
	return a * a
}
