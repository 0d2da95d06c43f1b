// Package backend selects how the hot raster algorithms are executed.
//
// Reference runs the algorithms of packages dither and region on the
// calling goroutine. Parallel splits row-independent work across a worker
// pool and falls back to the reference for algorithms that carry state from
// pixel to pixel. Both produce identical output for identical input.
package backend

import (
	"os"
	"runtime"

	"bitpaint/bitmap"
	"bitpaint/dither"
	"bitpaint/region"
)

// Backend executes dithering and region operations.
type Backend interface {
	Name() string
	Dither(src *dither.Source, cfg dither.Config) (*bitmap.Buffer, error)
	BoxBlur(b *bitmap.Buffer, radius int) (*bitmap.Buffer, error)
	FloodFill(b *bitmap.Buffer, x, y int, v uint8) int
}

// DisableEnv turns off the parallel backend when set to any non-empty value.
const DisableEnv = "BITPAINT_NOACCEL"

// minPixels is the smallest raster worth splitting.
const minPixels = 64 * 1024

// Select returns the parallel backend when more than one CPU is usable, the
// w×h job is large enough and it is not disabled through DisableEnv;
// otherwise it returns the reference.
func Select(w, h int) Backend {
	if os.Getenv(DisableEnv) != "" {
		return Reference{}
	}
	procs := runtime.GOMAXPROCS(0)
	if procs < 2 || w*h < minPixels {
		return Reference{}
	}
	return Parallel{Workers: procs}
}

// Reference runs every algorithm sequentially.
type Reference struct{}

func (Reference) Name() string { return "reference" }

func (Reference) Dither(src *dither.Source, cfg dither.Config) (*bitmap.Buffer, error) {
	return dither.Apply(src, cfg)
}

func (Reference) BoxBlur(b *bitmap.Buffer, radius int) (*bitmap.Buffer, error) {
	return region.BoxBlur(b, radius)
}

func (Reference) FloodFill(b *bitmap.Buffer, x, y int, v uint8) int {
	return region.FloodFill(b, x, y, v)
}
