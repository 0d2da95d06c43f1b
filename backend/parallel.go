package backend

import (
	"bitpaint/bitmap"
	"bitpaint/dither"
	"bitpaint/parallel"
	"bitpaint/region"
)

// Parallel runs row-independent algorithms on a worker pool started for
// each call.
type Parallel struct {
	// Workers is the pool size; values below 1 mean GOMAXPROCS.
	Workers int
}

// minBand is the smallest number of rows handed to one worker.
const minBand = 8

func (Parallel) Name() string { return "parallel" }

// Dither splits threshold and ordered methods by rows. Error diffusion is
// inherently sequential and runs on the reference path.
func (p Parallel) Dither(src *dither.Source, cfg dither.Config) (*bitmap.Buffer, error) {
	if cfg.Method.Diffusing() {
		return Reference{}.Dither(src, cfg)
	}

	out, err := dither.Prepare(src, cfg)
	if err != nil {
		return nil, err
	}
	parallel.Start(p.Workers).Rows(src.H, minBand, func(y0, y1 int) {
		dither.Rows(src, out, cfg, y0, y1)
		if cfg.Invert {
			dither.Invert(out, y0, y1)
		}
	})
	return out, nil
}

// BoxBlur splits the output rows; every band reads the shared source.
func (p Parallel) BoxBlur(b *bitmap.Buffer, radius int) (*bitmap.Buffer, error) {
	out, err := region.PrepareBlur(b, radius)
	if err != nil {
		return nil, err
	}
	parallel.Start(p.Workers).Rows(b.H, minBand, func(y0, y1 int) {
		region.BoxBlurRows(b, out, radius, y0, y1)
	})
	return out, nil
}

// FloodFill runs on the reference path.
func (Parallel) FloodFill(b *bitmap.Buffer, x, y int, v uint8) int {
	return region.FloodFill(b, x, y, v)
}
