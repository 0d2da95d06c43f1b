package bitmap

import "image"

// Unit is a Buffer with an optional alpha plane.
//
// Alpha values range from 0 (transparent) to 255 (opaque). The clip bounds,
// the smallest rectangle holding every pixel with non-zero alpha, are cached
// and recomputed by every method that touches alpha.
type Unit struct {
	*Buffer

	alpha []uint8
	clip  image.Rectangle
}

// NewUnit allocates a unit without an alpha plane.
func NewUnit(w, h int) (*Unit, error) {
	b, err := New(w, h)
	if err != nil {
		return nil, err
	}
	return &Unit{Buffer: b}, nil
}

// WrapUnit builds a unit around an existing buffer.
func WrapUnit(b *Buffer) *Unit {
	return &Unit{Buffer: b}
}

// HasAlpha reports whether the unit carries an alpha plane.
func (u *Unit) HasAlpha() bool {
	return u.alpha != nil
}

// EnableAlpha allocates a fully opaque alpha plane. It does nothing if one
// already exists.
func (u *Unit) EnableAlpha() {
	if u.alpha != nil {
		return
	}
	u.alpha = make([]uint8, u.W*u.H)
	for i := range u.alpha {
		u.alpha[i] = 0xFF
	}
	u.updateClip()
}

// DisableAlpha discards the alpha plane.
func (u *Unit) DisableAlpha() {
	u.alpha = nil
	u.clip = image.Rectangle{}
}

// AlphaAt returns the alpha at (x, y). Units without alpha are opaque
// everywhere; out of range reads return 0.
func (u *Unit) AlphaAt(x, y int) uint8 {
	if !u.In(x, y) {
		return 0
	}
	if u.alpha == nil {
		return 0xFF
	}
	return u.alpha[y*u.W+x]
}

// SetAlpha writes one alpha value. It is ignored out of range or when the
// unit has no alpha plane.
func (u *Unit) SetAlpha(x, y int, a uint8) {
	if u.alpha == nil || !u.In(x, y) {
		return
	}
	i := y*u.W + x
	old := u.alpha[i]
	u.alpha[i] = a

	p := image.Pt(x, y)
	switch {
	case a != 0 && old == 0:
		u.clip = u.clip.Union(image.Rectangle{Min: p, Max: p.Add(image.Pt(1, 1))})
	case a == 0 && old != 0:
		// Only a pixel on the rectangle's edge can shrink it.
		r := u.clip
		if x == r.Min.X || x == r.Max.X-1 || y == r.Min.Y || y == r.Max.Y-1 {
			u.updateClip()
		}
	}
}

// FillAlpha sets the whole alpha plane to a, enabling it first if needed.
func (u *Unit) FillAlpha(a uint8) {
	u.EnableAlpha()
	for i := range u.alpha {
		u.alpha[i] = a
	}
	u.updateClip()
}

// SetAlphaPix replaces the alpha plane with a copy of pix, which must hold
// W×H values. Passing nil disables alpha.
func (u *Unit) SetAlphaPix(pix []uint8) {
	if pix == nil {
		u.DisableAlpha()
		return
	}
	if len(pix) != u.W*u.H {
		panic("bitmap: alpha plane size mismatch")
	}
	u.alpha = append(u.alpha[:0:0], pix...)
	u.updateClip()
}

// AlphaPix returns the alpha plane, or nil. Callers must not modify it;
// use SetAlphaPix to replace it.
func (u *Unit) AlphaPix() []uint8 {
	return u.alpha
}

// ClipBounds returns the minimal rectangle enclosing every pixel with
// alpha > 0. ok is false without an alpha plane or when nothing is opaque.
func (u *Unit) ClipBounds() (r image.Rectangle, ok bool) {
	if u.alpha == nil || u.clip.Empty() {
		return image.Rectangle{}, false
	}
	return u.clip, true
}

// Resize resizes the pixels and, if present, the alpha plane. New alpha
// area is transparent.
func (u *Unit) Resize(w, h int) error {
	ow, oh := u.W, u.H
	if err := u.Buffer.Resize(w, h); err != nil {
		return err
	}
	if u.alpha != nil {
		u.alpha = resizePlane(u.alpha, ow, oh, w, h, 0)
		u.updateClip()
	}
	return nil
}

// Clone returns a deep copy including alpha.
func (u *Unit) Clone() *Unit {
	c := &Unit{
		Buffer: u.Buffer.Clone(),
		clip:   u.clip,
	}
	if u.alpha != nil {
		c.alpha = append([]uint8(nil), u.alpha...)
	}
	return c
}

func (u *Unit) updateClip() {
	minX, minY, maxX, maxY := u.W, u.H, -1, -1
	for y := range u.H {
		row := u.alpha[y*u.W : (y+1)*u.W]
		for x, a := range row {
			if a == 0 {
				continue
			}
			minX = min(minX, x)
			maxX = max(maxX, x)
			minY = min(minY, y)
			maxY = y
		}
	}
	if maxX < 0 {
		u.clip = image.Rectangle{}
		return
	}
	u.clip = image.Rect(minX, minY, maxX+1, maxY+1)
}
