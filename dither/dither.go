// Package dither reduces a luminance raster to 1-bit pixels.
//
// Luminance is normalized to [0, 1] with 1 meaning white. Output pixels are
// 1 (ink) where the source is darker than the applicable threshold.
// Every function is deterministic and keeps no state between calls.
package dither

import (
	"fmt"

	"bitpaint/bitmap"
)

// Source is a normalized grayscale raster with optional straight alpha.
type Source struct {
	W, H int
	// L holds luminance in [0, 1]; L[y*W+x] is pixel (x, y).
	L []float64
	// A holds the original alpha, or nil when the source was opaque.
	A []uint8
}

// NewSource allocates a source filled with white.
func NewSource(w, h int) (*Source, error) {
	if err := bitmap.CheckSize(w, h); err != nil {
		return nil, err
	}
	s := &Source{W: w, H: h, L: make([]float64, w*h)}
	for i := range s.L {
		s.L[i] = 1
	}
	return s, nil
}

// Uniform returns a source where every pixel has luminance l.
func Uniform(w, h int, l float64) (*Source, error) {
	s, err := NewSource(w, h)
	if err != nil {
		return nil, err
	}
	for i := range s.L {
		s.L[i] = l
	}
	return s, nil
}

func (s *Source) check() error {
	if err := bitmap.CheckSize(s.W, s.H); err != nil {
		return err
	}
	if len(s.L) != s.W*s.H {
		return &ConfigError{Param: "source", Value: fmt.Sprintf("%d values", len(s.L)), Msg: fmt.Sprintf("want %dx%d", s.W, s.H)}
	}
	return nil
}

// Prepare validates the configuration against the source and allocates the
// output buffer. It is the common entry of every implementation.
func Prepare(src *Source, cfg Config) (*bitmap.Buffer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := src.check(); err != nil {
		return nil, err
	}
	return bitmap.New(src.W, src.H)
}

// Apply dithers src according to cfg.
func Apply(src *Source, cfg Config) (*bitmap.Buffer, error) {
	out, err := Prepare(src, cfg)
	if err != nil {
		return nil, err
	}

	if k, ok := kernels[cfg.Method]; ok {
		Diffuse(src, out, k, cfg.Cut())
	} else {
		Rows(src, out, cfg, 0, src.H)
	}

	if cfg.Invert {
		Invert(out, 0, out.H)
	}
	return out, nil
}

// Rows applies a row-independent method (threshold or ordered) to rows
// [y0, y1) of out. cfg must be valid.
func Rows(src *Source, out *bitmap.Buffer, cfg Config, y0, y1 int) {
	cut := cfg.Cut()
	m, ordered := matrices[cfg.Method]
	bias := cut - 0.5

	for y := y0; y < y1; y++ {
		row := src.L[y*src.W : (y+1)*src.W]
		dst := out.Pix[y*out.W : (y+1)*out.W]
		for x, v := range row {
			t := cut
			if ordered {
				t = m.At(x, y) + bias
			}
			if ink(v, t) {
				dst[x] = 1
			} else {
				dst[x] = 0
			}
		}
	}
}

// Ordered dithers with a Bayer matrix at the default cut.
func Ordered(src *Source, m *Matrix) *bitmap.Buffer {
	out, _ := bitmap.New(src.W, src.H)
	for y := range src.H {
		for x := range src.W {
			if ink(src.L[y*src.W+x], m.At(x, y)) {
				out.Pix[y*out.W+x] = 1
			}
		}
	}
	return out
}

// Diffuse runs error diffusion in raster order over src, writing out. The
// source is not modified. Error pushed outside the raster is dropped.
func Diffuse(src *Source, out *bitmap.Buffer, k *Kernel, cut float64) {
	w, h := src.W, src.H
	work := append([]float64(nil), src.L...)

	for y := range h {
		for x := range w {
			i := y*w + x
			v := work[i]

			q := 1.0
			out.Pix[i] = 0
			if ink(v, cut) {
				q = 0
				out.Pix[i] = 1
			}

			e := v - q
			if e == 0 {
				continue
			}
			for _, t := range k.Taps {
				nx, ny := x+t.DX, y+t.DY
				if nx < 0 || nx >= w || ny >= h {
					continue
				}
				work[ny*w+nx] += e * t.W / k.Div
			}
		}
	}
}

// ink reports whether luminance v falls on the dark side of threshold t.
// Black is ink even at a zero threshold.
func ink(v, t float64) bool {
	return v < t || v <= 0
}

// Invert flips rows [y0, y1) of b.
func Invert(b *bitmap.Buffer, y0, y1 int) {
	for i := y0 * b.W; i < y1*b.W; i++ {
		b.Pix[i] ^= 1
	}
}
