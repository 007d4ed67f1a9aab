package diskrender

import (
	"github.com/chewxy/math32"
)

// axisOverhang extends the drawn rotation axis beyond the disk edge,
// as a fraction of the disk radius.
const axisOverhang = 1.18

// drawAxes overlays the rotation axis, its pole marks, the celestial
// north arrow, and the body name label. This overlay is cheap and is
// re-run on the cache fast path.
func (rp *renderPass) drawAxes(g *geometry) {
	if !rp.cfg.ShowAxes {
		return
	}
	fg := rp.cfg.Foreground

	// Rotation axis through the disk center. View +y (the pole
	// direction) projects onto the screen vector (-sin, -cos) of the
	// up angle.
	l := float64(g.scale) * axisOverhang
	dx := -float64(math32.Sin(g.upAngle)) * l
	dy := -float64(math32.Cos(g.upAngle)) * l
	cx, cy := float64(g.cx), float64(g.cy)

	rp.canvas.DrawLine(cx+dx*0.85, cy+dy*0.85, cx+dx, cy+dy, fg)
	rp.canvas.DrawLine(cx-dx*0.85, cy-dy*0.85, cx-dx, cy-dy, fg)
	if rp.cfg.ShowLabels {
		rp.canvas.DrawLabel(int(cx+dx)+3, int(cy+dy), "N", fg)
		rp.canvas.DrawLabel(int(cx-dx)+3, int(cy-dy), "S", fg)
	}

	// Celestial north arrow in the top-left corner. With NorthUp it
	// points straight up; otherwise it leans by the parallactic angle
	// already folded into the frame.
	ax, ay := 18.0, 34.0
	rp.canvas.DrawLine(ax, ay, ax, ay-16, fg)
	rp.canvas.DrawLine(ax, ay-16, ax-3, ay-10, fg)
	rp.canvas.DrawLine(ax, ay-16, ax+3, ay-10, fg)

	if rp.cfg.ShowLabels {
		_, h := rp.canvas.Size()
		rp.canvas.DrawLabel(10, h-10, g.body.String(), fg)
	}
}
