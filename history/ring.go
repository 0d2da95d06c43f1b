// Package history keeps undo/redo snapshots of a bitmap.Buffer.
//
// Snapshots are full copies stored in a fixed arena of slots. When the
// arena is full the oldest slot is reused.
package history

import "bitpaint/bitmap"

type snapshot struct {
	pix  []uint8
	w, h int
}

// Ring is a capped undo/redo history.
type Ring struct {
	slots []snapshot
	start int // index of the oldest snapshot
	n     int // number of stored snapshots
	cur   int // position of the current state, relative to start
}

// New creates a history holding at most depth snapshots.
func New(depth int) *Ring {
	if depth < 1 {
		depth = 1
	}
	return &Ring{
		slots: make([]snapshot, depth),
		cur:   -1,
	}
}

// Len returns the number of stored snapshots.
func (r *Ring) Len() int {
	return r.n
}

// Cap returns the maximum number of snapshots.
func (r *Ring) Cap() int {
	return len(r.slots)
}

func (r *Ring) slot(i int) *snapshot {
	return &r.slots[(r.start+i)%len(r.slots)]
}

// Save records a copy of b as the current state. Snapshots after the
// current position are discarded; if the arena is full the oldest is evicted.
func (r *Ring) Save(b *bitmap.Buffer) {
	r.n = r.cur + 1
	if r.n == len(r.slots) {
		r.start = (r.start + 1) % len(r.slots)
		r.n--
	}

	s := r.slot(r.n)
	s.pix = append(s.pix[:0], b.Pix...)
	s.w, s.h = b.W, b.H
	r.n++
	r.cur = r.n - 1
}

// CanUndo reports whether an earlier snapshot exists.
func (r *Ring) CanUndo() bool {
	return r.cur > 0
}

// CanRedo reports whether a later snapshot exists.
func (r *Ring) CanRedo() bool {
	return r.cur >= 0 && r.cur < r.n-1
}

// Undo restores the previous snapshot into b and reports whether it did.
func (r *Ring) Undo(b *bitmap.Buffer) bool {
	if !r.CanUndo() {
		return false
	}
	r.cur--
	r.restore(b)
	return true
}

// Redo restores the next snapshot into b and reports whether it did.
func (r *Ring) Redo(b *bitmap.Buffer) bool {
	if !r.CanRedo() {
		return false
	}
	r.cur++
	r.restore(b)
	return true
}

// Clear drops every snapshot. Slot storage is kept for reuse.
func (r *Ring) Clear() {
	r.start, r.n, r.cur = 0, 0, -1
}

func (r *Ring) restore(b *bitmap.Buffer) {
	s := r.slot(r.cur)
	if cap(b.Pix) >= len(s.pix) {
		b.Pix = b.Pix[:len(s.pix)]
	} else {
		b.Pix = make([]uint8, len(s.pix))
	}
	copy(b.Pix, s.pix)
	b.W, b.H = s.w, s.h
}
