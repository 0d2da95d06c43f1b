package region

import (
	"image"

	"bitpaint/bitmap"
)

// Rect paints r, either filled or as a one pixel border.
func Rect(b *bitmap.Buffer, r image.Rectangle, v uint8, filled bool) {
	r = r.Canon()
	if r.Empty() {
		return
	}
	vis := r.Intersect(b.Bounds())
	for y := vis.Min.Y; y < vis.Max.Y; y++ {
		for x := vis.Min.X; x < vis.Max.X; x++ {
			edge := x == r.Min.X || x == r.Max.X-1 || y == r.Min.Y || y == r.Max.Y-1
			if filled || edge {
				b.Set(x, y, v)
			}
		}
	}
}

// Circle paints a circle centred on (cx, cy). A stroked circle covers the
// band of pixels whose distance from the centre is within half a pixel of
// radius; a filled one covers every pixel within radius.
func Circle(b *bitmap.Buffer, cx, cy, radius int, v uint8, filled bool) {
	if radius < 0 {
		return
	}
	r := float64(radius)
	inner, outer := (r-0.5)*(r-0.5), (r+0.5)*(r+0.5)
	if r < 0.5 {
		inner = 0
	}

	box := image.Rect(cx-radius, cy-radius, cx+radius+1, cy+radius+1).Intersect(b.Bounds())
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			dx, dy := x-cx, y-cy
			d2 := dx*dx + dy*dy
			if filled {
				if d2 <= radius*radius {
					b.Set(x, y, v)
				}
				continue
			}
			if fd := float64(d2); fd >= inner && fd < outer {
				b.Set(x, y, v)
			}
		}
	}
}

// Line paints a Bresenham line. Both endpoints are painted and exactly one
// pixel is painted per step along the major axis.
func Line(b *bitmap.Buffer, x0, y0, x1, y1 int, v uint8) {
	dx, sx := abs(x1-x0), sign(x1-x0)
	dy, sy := -abs(y1-y0), sign(y1-y0)
	err := dx + dy

	for {
		b.Set(x0, y0, v)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
