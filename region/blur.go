package region

import (
	"errors"
	"fmt"

	"bitpaint/bitmap"
)

// ErrRadius is returned for a negative blur radius.
var ErrRadius = errors.New("region: invalid blur radius")

// BoxBlur averages every pixel over a (2r+1)×(2r+1) window clipped to the
// buffer and rounds the mean to the nearest pixel value, so a pixel becomes
// ink when at least half of its window is ink.
func BoxBlur(b *bitmap.Buffer, r int) (*bitmap.Buffer, error) {
	out, err := PrepareBlur(b, r)
	if err != nil {
		return nil, err
	}
	BoxBlurRows(b, out, r, 0, b.H)
	return out, nil
}

// PrepareBlur validates the radius and allocates the output buffer.
func PrepareBlur(b *bitmap.Buffer, r int) (*bitmap.Buffer, error) {
	if r < 0 {
		return nil, fmt.Errorf("%w: %d", ErrRadius, r)
	}
	return bitmap.New(b.W, b.H)
}

// BoxBlurRows blurs rows [y0, y1) of src into dst. It reads src only, so
// disjoint row ranges may run concurrently.
func BoxBlurRows(src, dst *bitmap.Buffer, r, y0, y1 int) {
	w, h := src.W, src.H
	for y := y0; y < y1; y++ {
		top, bottom := max(0, y-r), min(h-1, y+r)
		for x := range w {
			left, right := max(0, x-r), min(w-1, x+r)
			sum := 0
			for wy := top; wy <= bottom; wy++ {
				row := src.Pix[wy*w : (wy+1)*w]
				for _, v := range row[left : right+1] {
					sum += int(v)
				}
			}
			count := (bottom - top + 1) * (right - left + 1)
			if 2*sum >= count {
				dst.Pix[y*w+x] = 1
			} else {
				dst.Pix[y*w+x] = 0
			}
		}
	}
}
