package ingest

import (
	"fmt"

	"bitpaint/bitmap"
	"bitpaint/dither"
)

// AlphaMode decides which pixels of a dithered unit are transparent.
type AlphaMode string

const (
	// AlphaIgnore produces a unit without alpha.
	AlphaIgnore AlphaMode = "ignore"
	// WhiteTransparent makes background pixels transparent.
	WhiteTransparent AlphaMode = "white-transparent"
	// BlackTransparent makes ink pixels transparent.
	BlackTransparent AlphaMode = "black-transparent"
	// PreserveAlpha keeps source pixels with alpha of at least 50%.
	PreserveAlpha AlphaMode = "preserve"
)

// ParseAlphaMode validates a mode name.
func ParseAlphaMode(s string) (AlphaMode, error) {
	switch m := AlphaMode(s); m {
	case AlphaIgnore, WhiteTransparent, BlackTransparent, PreserveAlpha:
		return m, nil
	}
	return "", &dither.ConfigError{Param: "alpha mode", Value: s, Msg: "want ignore, white-transparent, black-transparent or preserve"}
}

// ApplyAlphaMode sets u's alpha plane from its pixels or from the source
// alpha. src may be nil unless mode is PreserveAlpha.
func ApplyAlphaMode(u *bitmap.Unit, src *dither.Source, mode AlphaMode) error {
	if _, err := ParseAlphaMode(string(mode)); err != nil {
		return err
	}
	if mode == AlphaIgnore {
		u.DisableAlpha()
		return nil
	}

	alpha := make([]uint8, len(u.Pix))
	switch mode {
	case WhiteTransparent:
		for i, v := range u.Pix {
			alpha[i] = 0xFF * v
		}
	case BlackTransparent:
		for i, v := range u.Pix {
			alpha[i] = 0xFF * (1 - v)
		}
	case PreserveAlpha:
		if src == nil || src.W != u.W || src.H != u.H {
			return fmt.Errorf("ingest: source does not match %dx%d unit", u.W, u.H)
		}
		for i := range alpha {
			if src.A == nil || src.A[i] >= 128 {
				alpha[i] = 0xFF
			}
		}
	}
	u.SetAlphaPix(alpha)
	return nil
}
