// Package codec serializes 1-bit units into byte formats consumed by display
// firmware and parses them back.
//
// Packed layout, integers little endian:
//
//	flags  u8
//	x, y   u16, u16   clip origin
//	w, h   u16, u16   clip size
//	stride u16        bytes per row, ceil(w/8)
//	pixels [stride*h]u8
//	alpha  [stride*h]u8, only when flags&FlagAlpha != 0
//
// Bits are MSB first: pixel x of a row is bit 7-(x%8) of byte x/8.
package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"

	"bitpaint/bitmap"
)

// FlagAlpha marks the presence of the packed alpha mask.
const FlagAlpha = 0x01

const headerSize = 1 + 5*2

var (
	// ErrPackedHeader is returned for a truncated or inconsistent header.
	ErrPackedHeader = errors.New("codec: malformed packed header")
	// ErrPackedData is returned when the pixel or alpha section is short.
	ErrPackedData = errors.New("codec: truncated packed data")
)

// Packed is a clip-bounded, bit-packed unit.
type Packed struct {
	Flags  uint8
	Bounds image.Rectangle
	Stride int
	Pix    []byte
	// Alpha holds one bit per pixel set where alpha > 127, or nil.
	Alpha []byte

	// Width and Height record the size of the source unit. They are not
	// part of the byte layout.
	Width, Height int
}

// HasAlpha reports whether the alpha mask is present.
func (p *Packed) HasAlpha() bool {
	return p.Flags&FlagAlpha != 0
}

// Pack encodes u. Units with alpha are clipped to their ClipBounds, or to
// an empty rectangle when nothing is opaque; units without alpha are packed
// whole.
func Pack(u *bitmap.Unit) *Packed {
	bounds := image.Rect(0, 0, u.W, u.H)
	var flags uint8
	if u.HasAlpha() {
		flags |= FlagAlpha
		bounds, _ = u.ClipBounds()
	}

	stride := (bounds.Dx() + 7) / 8
	p := &Packed{
		Flags:  flags,
		Bounds: bounds,
		Stride: stride,
		Pix:    make([]byte, stride*bounds.Dy()),
		Width:  u.W,
		Height: u.H,
	}
	if u.HasAlpha() {
		p.Alpha = make([]byte, len(p.Pix))
	}

	for row := range bounds.Dy() {
		y := bounds.Min.Y + row
		for col := range bounds.Dx() {
			x := bounds.Min.X + col
			i, mask := stride*row+col/8, byte(0x80)>>(col%8)
			if u.Get(x, y) == 1 {
				p.Pix[i] |= mask
			}
			if p.Alpha != nil && u.AlphaAt(x, y) > 127 {
				p.Alpha[i] |= mask
			}
		}
	}
	return p
}

// MarshalBinary returns the packed byte layout.
func (p *Packed) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := p.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTo writes the packed byte layout to w.
func (p *Packed) WriteTo(w io.Writer) (int64, error) {
	r := p.Bounds
	for _, v := range []int{r.Min.X, r.Min.Y, r.Dx(), r.Dy(), p.Stride} {
		if v < 0 || v > 0xFFFF {
			return 0, fmt.Errorf("%w: field value %d does not fit u16", ErrPackedHeader, v)
		}
	}

	hdr := make([]byte, 0, headerSize)
	hdr = append(hdr, p.Flags)
	hdr = binary.LittleEndian.AppendUint16(hdr, uint16(r.Min.X))
	hdr = binary.LittleEndian.AppendUint16(hdr, uint16(r.Min.Y))
	hdr = binary.LittleEndian.AppendUint16(hdr, uint16(r.Dx()))
	hdr = binary.LittleEndian.AppendUint16(hdr, uint16(r.Dy()))
	hdr = binary.LittleEndian.AppendUint16(hdr, uint16(p.Stride))

	var count int64
	sections := [][]byte{hdr, p.Pix}
	if p.HasAlpha() {
		sections = append(sections, p.Alpha)
	}
	for _, s := range sections {
		n, err := w.Write(s)
		count += int64(n)
		if err != nil {
			return count, fmt.Errorf("could not write packed data: %w", err)
		}
	}
	return count, nil
}

// UnmarshalPacked decodes a complete packed byte slice.
func UnmarshalPacked(data []byte) (*Packed, error) {
	p, err := ReadPacked(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ReadPacked reads one packed unit from r.
func ReadPacked(r io.Reader) (*Packed, error) {
	hdr := make([]byte, headerSize)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return nil, fmt.Errorf("%w: expected %d header bytes: %w", ErrPackedHeader, headerSize, err)
	}

	flags := hdr[0]
	if flags&^FlagAlpha != 0 {
		return nil, fmt.Errorf("%w: unknown flags 0x%02x", ErrPackedHeader, flags)
	}
	x := int(binary.LittleEndian.Uint16(hdr[1:]))
	y := int(binary.LittleEndian.Uint16(hdr[3:]))
	w := int(binary.LittleEndian.Uint16(hdr[5:]))
	h := int(binary.LittleEndian.Uint16(hdr[7:]))
	stride := int(binary.LittleEndian.Uint16(hdr[9:]))

	if want := (w + 7) / 8; stride != want {
		return nil, fmt.Errorf("%w: expected stride %d for width %d, found %d", ErrPackedHeader, want, w, stride)
	}
	if x+w > bitmap.MaxSize || y+h > bitmap.MaxSize {
		return nil, fmt.Errorf("%w: bounds %dx%d+%d+%d exceed %d", ErrPackedHeader, w, h, x, y, bitmap.MaxSize)
	}

	p := &Packed{
		Flags:  flags,
		Bounds: image.Rect(x, y, x+w, y+h),
		Stride: stride,
		Pix:    make([]byte, stride*h),
		Width:  max(x+w, 1),
		Height: max(y+h, 1),
	}
	if _, err := io.ReadFull(r, p.Pix); err != nil {
		return nil, fmt.Errorf("%w: expected %d pixel bytes: %w", ErrPackedData, len(p.Pix), err)
	}
	if p.HasAlpha() {
		p.Alpha = make([]byte, stride*h)
		if _, err := io.ReadFull(r, p.Alpha); err != nil {
			return nil, fmt.Errorf("%w: expected %d alpha bytes: %w", ErrPackedData, len(p.Alpha), err)
		}
	}
	return p, nil
}

// Unit builds a new unit of size Width×Height holding the decoded pixels.
func (p *Packed) Unit() (*bitmap.Unit, error) {
	u, err := bitmap.NewUnit(p.Width, p.Height)
	if err != nil {
		return nil, err
	}
	if err := p.Apply(u); err != nil {
		return nil, err
	}
	return u, nil
}

// Apply writes the decoded pixels into u inside Bounds. With an alpha mask
// u gets an alpha plane that is opaque exactly where the mask is set;
// pixels outside Bounds become transparent.
func (p *Packed) Apply(u *bitmap.Unit) error {
	r := p.Bounds
	if !r.In(image.Rect(0, 0, u.W, u.H)) && !r.Empty() {
		return fmt.Errorf("%w: bounds %v outside %dx%d unit", ErrPackedHeader, r, u.W, u.H)
	}

	var alpha []uint8
	if p.HasAlpha() {
		alpha = make([]uint8, u.W*u.H)
	}
	for row := range r.Dy() {
		y := r.Min.Y + row
		for col := range r.Dx() {
			x := r.Min.X + col
			i, shift := p.Stride*row+col/8, 7-col%8
			u.Set(x, y, (p.Pix[i]>>shift)&1)
			if alpha != nil && (p.Alpha[i]>>shift)&1 == 1 {
				alpha[y*u.W+x] = 0xFF
			}
		}
	}
	if alpha != nil {
		u.SetAlphaPix(alpha)
	}
	return nil
}
