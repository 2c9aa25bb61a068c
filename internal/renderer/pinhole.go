package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/ivlev/camsweep/internal/geom"
)

const nearPlane = 1e-3

type pinhole struct {
	eye                geom.Vec3
	right, up, forward geom.Vec3
	focal              float64
	cx, cy             float64
	maxX, maxY         float64
}

func newPinhole(eye, forward, up geom.Vec3, fovDeg float64, w, h int) pinhole {
	f := forward.Normalize()
	r := f.Cross(up).Normalize()
	if r.Length() == 0 {
		// Up is parallel to the view direction; pick any perpendicular.
		r = f.Cross(geom.V(1, 0, 0)).Normalize()
		if r.Length() == 0 {
			r = f.Cross(geom.V(0, 0, 1)).Normalize()
		}
	}
	u := r.Cross(f)

	return pinhole{
		eye:     eye,
		right:   r,
		up:      u,
		forward: f,
		focal:   float64(h) / 2 / math.Tan(fovDeg*math.Pi/360),
		cx:      float64(w) / 2,
		cy:      float64(h) / 2,
		maxX:    float64(w) * 8,
		maxY:    float64(h) * 8,
	}
}

// project maps a scene point to pixel coordinates. Points behind the camera, or so far
// off screen that drawing them is pointless, are rejected.
func (c pinhole) project(p geom.Vec3) (image.Point, bool) {
	d := p.Sub(c.eye)
	z := d.Dot(c.forward)
	if z <= nearPlane {
		return image.Point{}, false
	}

	x := c.cx + c.focal*d.Dot(c.right)/z
	y := c.cy - c.focal*d.Dot(c.up)/z
	if math.Abs(x) > c.maxX || math.Abs(y) > c.maxY {
		return image.Point{}, false
	}
	return image.Pt(int(math.Round(x)), int(math.Round(y))), true
}

// drawLine rasterises a segment with Bresenham's algorithm, clipping per pixel.
func drawLine(img *image.RGBA, a, b image.Point, c color.RGBA) {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	e := dx + dy
	bounds := img.Bounds()

	for {
		if a.In(bounds) {
			img.SetRGBA(a.X, a.Y, c)
		}
		if a == b {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			a.X += sx
		}
		if e2 <= dx {
			e += dx
			a.Y += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
