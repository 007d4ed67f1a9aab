package diskrender

// stereoParallax is the pole-angle offset between the left and right
// eye renders, radians. Small enough to keep the cache fast path valid
// for both eyes of a frame.
const stereoParallax = 0.035

// Dubois least-squares anaglyph matrices for red-cyan glasses. Each row
// maps (R, G, B) of one eye into an output channel; the left matrix
// feeds red, the right matrix feeds green and blue.
var (
	duboisLeft = [3][3]float64{
		{0.456, 0.500, 0.176},
		{-0.040, -0.038, -0.016},
		{-0.015, -0.021, -0.005},
	}
	duboisRight = [3][3]float64{
		{-0.043, -0.088, -0.002},
		{0.378, 0.734, -0.018},
		{-0.072, -0.113, 1.226},
	}
)

// packRedCyan combines a left/right pair into a classic red-cyan
// anaglyph: red from the left eye, green and blue from the right.
func packRedCyan(left, right *Pixmap) *Pixmap {
	out := NewPixmap(left.width, left.height)
	for i := 0; i < len(out.data); i += 4 {
		out.data[i+0] = left.data[i+0]
		out.data[i+1] = right.data[i+1]
		out.data[i+2] = right.data[i+2]
		out.data[i+3] = 255
	}
	return out
}

// packDubois combines a left/right pair with the Dubois matrices, which
// preserve perceived color and reduce retinal rivalry compared to the
// plain channel split. Output is clamped to the valid range.
func packDubois(left, right *Pixmap) *Pixmap {
	out := NewPixmap(left.width, left.height)
	for i := 0; i < len(out.data); i += 4 {
		lr := float64(left.data[i+0])
		lg := float64(left.data[i+1])
		lb := float64(left.data[i+2])
		rr := float64(right.data[i+0])
		rg := float64(right.data[i+1])
		rb := float64(right.data[i+2])

		for ch := 0; ch < 3; ch++ {
			v := duboisLeft[ch][0]*lr + duboisLeft[ch][1]*lg + duboisLeft[ch][2]*lb +
				duboisRight[ch][0]*rr + duboisRight[ch][1]*rg + duboisRight[ch][2]*rb
			out.data[i+ch] = uint8(clamp255(v))
		}
		out.data[i+3] = 255
	}
	return out
}
