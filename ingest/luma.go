// Package ingest turns decoded images into normalized luminance sources
// ready for dithering, and maps source alpha onto dithered units.
package ingest

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"bitpaint/dither"
)

// AlphaPolicy decides how source transparency affects luminance.
type AlphaPolicy string

const (
	BlendWhite       AlphaPolicy = "blend-white"
	TransparentWhite AlphaPolicy = "transparent-white"
	TransparentBlack AlphaPolicy = "transparent-black"
)

// Luma selects the lightness model.
type Luma string

const (
	// Rec601 is the classic 0.299/0.587/0.114 weighting of sRGB values.
	Rec601 Luma = "rec601"
	// OkLab is the perceptual lightness L of the Oklab colour space.
	OkLab Luma = "oklab"
)

// Options configures Luminance.
type Options struct {
	Policy AlphaPolicy
	Luma   Luma
}

// Validate checks the option values.
func (o Options) Validate() error {
	switch o.Policy {
	case BlendWhite, TransparentWhite, TransparentBlack:
	default:
		return &dither.ConfigError{Param: "alpha policy", Value: o.Policy, Msg: "want blend-white, transparent-white or transparent-black"}
	}
	switch o.Luma {
	case Rec601, OkLab:
	default:
		return &dither.ConfigError{Param: "luma", Value: o.Luma, Msg: "want rec601 or oklab"}
	}
	return nil
}

// Luminance converts img into a dither source. The image must already fit
// within bitmap.MaxSize; see Fit.
func Luminance(img image.Image, opts Options) (*dither.Source, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	r := img.Bounds()
	src, err := dither.NewSource(r.Dx(), r.Dy())
	if err != nil {
		return nil, fmt.Errorf("could not convert image: %w", err)
	}
	src.A = make([]uint8, src.W*src.H)

	lightness := rec601
	if opts.Luma == OkLab {
		lightness = oklabL
	}

	for y := range src.H {
		for x := range src.W {
			c := color.NRGBA64Model.Convert(img.At(r.Min.X+x, r.Min.Y+y)).(color.NRGBA64)
			a := float64(c.A) / 0xFFFF
			l := lightness(c)

			switch opts.Policy {
			case BlendWhite:
				l = l*a + (1 - a)
			case TransparentWhite:
				if a < 0.5 {
					l = 1
				}
			case TransparentBlack:
				if a < 0.5 {
					l = 0
				}
			}

			i := y*src.W + x
			src.L[i] = clamp01(l)
			src.A[i] = uint8(c.A >> 8)
		}
	}
	return src, nil
}

func rec601(c color.NRGBA64) float64 {
	return (0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)) / 0xFFFF
}

// based on https://bottosson.github.io/posts/oklab/
func oklabL(c color.NRGBA64) float64 {
	r := toLinear(float64(c.R) / 0xFFFF)
	g := toLinear(float64(c.G) / 0xFFFF)
	b := toLinear(float64(c.B) / 0xFFFF)

	l := math.Cbrt(0.4122214708*r + 0.5363325363*g + 0.0514459929*b)
	m := math.Cbrt(0.2119034982*r + 0.6806995451*g + 0.1073969566*b)
	s := math.Cbrt(0.0883024619*r + 0.2817188376*g + 0.6299787005*b)

	return 0.2104542553*l + 0.7936177850*m - 0.0040720468*s
}

func toLinear(x float64) float64 {
	if x >= 0.04045 {
		return math.Pow((x+0.055)/1.055, 2.4)
	}
	return x / 12.92
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
