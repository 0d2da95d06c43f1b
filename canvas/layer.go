// Package canvas holds an ordered stack of 1-bit layers and their composite.
package canvas

import "bitpaint/bitmap"

// Layer is one drawable plane of a Stack. Layers are created and owned by
// a Stack; change them through the Stack so the composite is invalidated.
type Layer struct {
	ID      int
	Name    string
	Visible bool
	// Opacity is kept for display purposes only. The boolean composite
	// ignores it.
	Opacity float64

	unit *bitmap.Unit
}

// Unit returns the layer's pixels and alpha for reading.
func (l *Layer) Unit() *bitmap.Unit {
	return l.unit
}

func clampOpacity(o float64) float64 {
	switch {
	case o < 0:
		return 0
	case o > 1:
		return 1
	}
	return o
}
