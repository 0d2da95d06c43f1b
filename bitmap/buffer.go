// Package bitmap provides the 1-bit pixel storage used by every other package.
//
// A Buffer holds one byte per pixel restricted to {0, 1}: 0 is background
// (white) and 1 is foreground (black). Coordinates outside the buffer are
// tolerated: reads return 0 and writes are dropped.
package bitmap

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// MaxSize is the largest width or height a buffer may have.
const MaxSize = 2048

// ErrDimensions is returned when a width or height is outside 1..MaxSize.
var ErrDimensions = errors.New("bitmap: invalid dimensions")

// Palette maps pixel values to colors: index 0 is white, 1 is black.
var Palette = color.Palette{color.White, color.Black}

// Buffer is a fixed-size monochrome raster.
type Buffer struct {
	// Pix holds one value per pixel. The pixel at (x, y) is Pix[y*W+x].
	Pix []uint8
	W   int
	H   int
}

var _ image.PalettedImage = &Buffer{}

// CheckSize validates a pair of dimensions.
func CheckSize(w, h int) error {
	if w < 1 || w > MaxSize || h < 1 || h > MaxSize {
		return fmt.Errorf("%w: %dx%d (each side must be 1..%d)", ErrDimensions, w, h, MaxSize)
	}
	return nil
}

// New allocates a zeroed buffer.
func New(w, h int) (*Buffer, error) {
	if err := CheckSize(w, h); err != nil {
		return nil, err
	}
	return &Buffer{
		Pix: make([]uint8, w*h),
		W:   w,
		H:   h,
	}, nil
}

// In reports whether (x, y) is inside the buffer.
func (b *Buffer) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.W && y < b.H
}

// Get returns the pixel at (x, y), or 0 when out of range.
func (b *Buffer) Get(x, y int) uint8 {
	if !b.In(x, y) {
		return 0
	}
	return b.Pix[y*b.W+x]
}

// Set writes the pixel at (x, y). Any non-zero value is stored as 1.
// Writes outside the buffer are ignored.
func (b *Buffer) Set(x, y int, v uint8) {
	if !b.In(x, y) {
		return
	}
	b.Pix[y*b.W+x] = bit(v)
}

// Fill sets every pixel to v.
func (b *Buffer) Fill(v uint8) {
	v = bit(v)
	for i := range b.Pix {
		b.Pix[i] = v
	}
}

// Resize changes the dimensions, keeping the overlapping top-left region
// and zero-filling the rest.
func (b *Buffer) Resize(w, h int) error {
	if err := CheckSize(w, h); err != nil {
		return err
	}
	b.Pix = resizePlane(b.Pix, b.W, b.H, w, h, 0)
	b.W, b.H = w, h
	return nil
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	return &Buffer{
		Pix: append([]uint8(nil), b.Pix...),
		W:   b.W,
		H:   b.H,
	}
}

// Equal reports whether both buffers have the same size and pixels.
func (b *Buffer) Equal(o *Buffer) bool {
	if b.W != o.W || b.H != o.H {
		return false
	}
	for i, v := range b.Pix {
		if o.Pix[i] != v {
			return false
		}
	}
	return true
}

// Count returns the number of foreground pixels.
func (b *Buffer) Count() int {
	n := 0
	for _, v := range b.Pix {
		n += int(v)
	}
	return n
}

// ColorModel returns the two-entry black and white palette.
func (b *Buffer) ColorModel() color.Model {
	return Palette
}

// Bounds returns the buffer rectangle anchored at the origin.
func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.W, b.H)
}

// At implements image.Image.
func (b *Buffer) At(x, y int) color.Color {
	return Palette[b.Get(x, y)]
}

// ColorIndexAt implements image.PalettedImage.
func (b *Buffer) ColorIndexAt(x, y int) uint8 {
	return b.Get(x, y)
}

func bit(v uint8) uint8 {
	if v != 0 {
		return 1
	}
	return 0
}

// resizePlane copies the overlapping region of a w×h plane into a new
// nw×nh plane whose remaining bytes are set to fill.
func resizePlane(pix []uint8, w, h, nw, nh int, fill uint8) []uint8 {
	out := make([]uint8, nw*nh)
	if fill != 0 {
		for i := range out {
			out[i] = fill
		}
	}
	cw, ch := min(w, nw), min(h, nh)
	for y := range ch {
		copy(out[y*nw:y*nw+cw], pix[y*w:y*w+cw])
	}
	return out
}
