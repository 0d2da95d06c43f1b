// Package region implements in-place drawing operations on a bitmap.Buffer:
// flood fill, box blur and shape rasterization. Coordinates outside the
// buffer are clipped silently.
package region

import "bitpaint/bitmap"

// Pattern returns the value to paint at (x, y).
type Pattern func(x, y int) uint8

// Solid paints v everywhere.
func Solid(v uint8) Pattern {
	return func(int, int) uint8 { return v }
}

// Checker paints a 1-pixel checkerboard with ink where x+y is even.
func Checker(x, y int) uint8 {
	return uint8(1 - (x+y)&1)
}

// FloodFill replaces the 4-connected region of pixels equal to the seed
// with v. It returns the number of pixels visited. Filling with the seed's
// own value, or from a seed outside the buffer, does nothing.
func FloodFill(b *bitmap.Buffer, x, y int, v uint8) int {
	if !b.In(x, y) {
		return 0
	}
	if b.Get(x, y) == normalize(v) {
		return 0
	}
	return FloodFillFunc(b, x, y, Solid(v))
}

// FloodFillFunc paints the 4-connected region of pixels equal to the seed
// with pattern values. Each pixel is visited once.
func FloodFillFunc(b *bitmap.Buffer, x, y int, pattern Pattern) int {
	if !b.In(x, y) {
		return 0
	}

	target := b.Get(x, y)
	visited := make([]bool, len(b.Pix))
	stack := []int{y*b.W + x}
	visited[y*b.W+x] = true
	n := 0

	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		px, py := i%b.W, i/b.W
		b.Pix[i] = normalize(pattern(px, py))
		n++

		push := func(nx, ny int) {
			if !b.In(nx, ny) {
				return
			}
			j := ny*b.W + nx
			if visited[j] || b.Pix[j] != target {
				return
			}
			visited[j] = true
			stack = append(stack, j)
		}
		push(px-1, py)
		push(px+1, py)
		push(px, py-1)
		push(px, py+1)
	}
	return n
}

func normalize(v uint8) uint8 {
	if v != 0 {
		return 1
	}
	return 0
}
