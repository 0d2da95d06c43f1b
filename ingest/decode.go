package ingest

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"

	"bitpaint/bitmap"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/vp8l"
	_ "golang.org/x/image/webp"
)

// Decode reads any registered image format.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("could not decode image: %w", err)
	}
	return img, format, nil
}

// Fit scales img to width×height. A zero dimension follows the aspect
// ratio; when both are zero the image keeps its size. The result is
// shrunk further if either side exceeds bitmap.MaxSize.
func Fit(img image.Image, width, height int) image.Image {
	sr := img.Bounds()
	sw, sh := float64(sr.Dx()), float64(sr.Dy())
	if sw == 0 || sh == 0 {
		return img
	}

	dw, dh := float64(width), float64(height)
	switch {
	case dw == 0 && dh == 0:
		dw, dh = sw, sh
	case dw == 0:
		dw = math.Max(1, math.Round(sw*dh/sh))
	case dh == 0:
		dh = math.Max(1, math.Round(sh*dw/sw))
	}

	if scale := math.Min(bitmap.MaxSize/dw, bitmap.MaxSize/dh); scale < 1 {
		dw = math.Max(1, math.Floor(dw*scale))
		dh = math.Max(1, math.Floor(dh*scale))
	}

	if dw == sw && dh == sh {
		return img
	}

	dest := image.NewNRGBA64(image.Rect(0, 0, int(dw), int(dh)))
	draw.CatmullRom.Scale(dest, dest.Bounds(), img, sr, draw.Src, nil)
	return dest
}
