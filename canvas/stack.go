package canvas

import (
	"errors"
	"fmt"

	"bitpaint/bitmap"
)

var (
	// ErrLastLayer is returned when deleting the only remaining layer.
	ErrLastLayer = errors.New("canvas: cannot delete the last layer")
	// ErrNoLayer is returned for an unknown layer id or index.
	ErrNoLayer = errors.New("canvas: no such layer")
	// ErrLayerSize is returned when an edit changed a layer's dimensions.
	ErrLayerSize = errors.New("canvas: layer size differs from canvas")
)

// Stack is an ordered list of layers; index 0 is the bottom. Exactly one
// layer is active. The composite is cached and rebuilt lazily after any
// layer mutation.
type Stack struct {
	layers []*Layer
	active int
	nextID int
	w, h   int

	composite *bitmap.Buffer
	dirty     bool
}

// New creates a stack with a single empty layer named "Background".
func New(w, h int) (*Stack, error) {
	comp, err := bitmap.New(w, h)
	if err != nil {
		return nil, err
	}
	s := &Stack{
		w:         w,
		h:         h,
		nextID:    1,
		composite: comp,
	}
	s.AddLayer("Background")
	return s, nil
}

// Size returns the canvas dimensions.
func (s *Stack) Size() (w, h int) {
	return s.w, s.h
}

// Len returns the number of layers.
func (s *Stack) Len() int {
	return len(s.layers)
}

// Layers returns the layers bottom to top. The slice must not be modified.
func (s *Stack) Layers() []*Layer {
	return s.layers
}

// Active returns the active layer.
func (s *Stack) Active() *Layer {
	return s.layers[s.active]
}

// ActiveIndex returns the stack index of the active layer.
func (s *Stack) ActiveIndex() int {
	return s.active
}

// Layer looks a layer up by id.
func (s *Stack) Layer(id int) (*Layer, error) {
	i, err := s.index(id)
	if err != nil {
		return nil, err
	}
	return s.layers[i], nil
}

func (s *Stack) index(id int) (int, error) {
	for i, l := range s.layers {
		if l.ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: id %d", ErrNoLayer, id)
}

// AddLayer appends an empty, visible, opaque layer on top and makes it
// active.
func (s *Stack) AddLayer(name string) *Layer {
	u, _ := bitmap.NewUnit(s.w, s.h) // size was validated by New
	l := &Layer{
		ID:      s.nextID,
		Name:    name,
		Visible: true,
		Opacity: 1,
		unit:    u,
	}
	s.nextID++
	s.layers = append(s.layers, l)
	s.active = len(s.layers) - 1
	s.dirty = true
	return l
}

// DeleteLayer removes a layer. The last remaining layer cannot be deleted.
func (s *Stack) DeleteLayer(id int) error {
	i, err := s.index(id)
	if err != nil {
		return err
	}
	if len(s.layers) == 1 {
		return ErrLastLayer
	}

	s.layers = append(s.layers[:i], s.layers[i+1:]...)
	if s.active > i || s.active == len(s.layers) {
		s.active--
	}
	s.dirty = true
	return nil
}

// SetVisibility shows or hides a layer.
func (s *Stack) SetVisibility(id int, visible bool) error {
	return s.update(id, func(l *Layer) { l.Visible = visible })
}

// SetOpacity stores a layer's opacity, clamped to [0, 1].
func (s *Stack) SetOpacity(id int, opacity float64) error {
	return s.update(id, func(l *Layer) { l.Opacity = clampOpacity(opacity) })
}

// Rename changes a layer's display name.
func (s *Stack) Rename(id int, name string) error {
	return s.update(id, func(l *Layer) { l.Name = name })
}

// SetActive makes a layer the active one.
func (s *Stack) SetActive(id int) error {
	i, err := s.index(id)
	if err != nil {
		return err
	}
	s.active = i
	return nil
}

// MoveLayer moves the layer at index from to index to. The active layer
// stays the same logical layer.
func (s *Stack) MoveLayer(from, to int) error {
	n := len(s.layers)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("%w: move %d to %d with %d layers", ErrNoLayer, from, to, n)
	}
	if from == to {
		return nil
	}

	active := s.layers[s.active]
	l := s.layers[from]
	s.layers = append(s.layers[:from], s.layers[from+1:]...)
	s.layers = append(s.layers[:to], append([]*Layer{l}, s.layers[to:]...)...)

	for i, cand := range s.layers {
		if cand == active {
			s.active = i
			break
		}
	}
	s.dirty = true
	return nil
}

// Edit runs f on a layer's unit and invalidates the composite. Layers
// always match the canvas size: if f resizes the unit, it is cropped or
// padded back and ErrLayerSize is returned.
func (s *Stack) Edit(id int, f func(*bitmap.Unit)) error {
	var sizeErr error
	err := s.update(id, func(l *Layer) {
		f(l.unit)
		if l.unit.W == s.w && l.unit.H == s.h {
			return
		}
		sizeErr = fmt.Errorf("%w: layer %d is %dx%d, canvas is %dx%d", ErrLayerSize, l.ID, l.unit.W, l.unit.H, s.w, s.h)
		if err := l.unit.Resize(s.w, s.h); err != nil {
			sizeErr = fmt.Errorf("could not restore layer %d size: %w", l.ID, err)
		}
	})
	if err != nil {
		return err
	}
	return sizeErr
}

// SetPixel writes one pixel of the active layer.
func (s *Stack) SetPixel(x, y int, v uint8) {
	s.layers[s.active].unit.Set(x, y, v)
	s.dirty = true
}

// Resize changes the size of every layer and of the composite.
func (s *Stack) Resize(w, h int) error {
	if err := bitmap.CheckSize(w, h); err != nil {
		return err
	}
	for _, l := range s.layers {
		if err := l.unit.Resize(w, h); err != nil {
			return fmt.Errorf("could not resize layer %d: %w", l.ID, err)
		}
	}
	if err := s.composite.Resize(w, h); err != nil {
		return err
	}
	s.w, s.h = w, h
	s.dirty = true
	return nil
}

// Dirty reports whether the composite needs rebuilding.
func (s *Stack) Dirty() bool {
	return s.dirty
}

// Composite returns the union of the foreground of every visible layer.
// The returned buffer is owned by the stack and valid until the next
// mutation; Clone it to keep it.
func (s *Stack) Composite() *bitmap.Buffer {
	if !s.dirty {
		return s.composite
	}

	out := s.composite
	out.Fill(0)
	for _, l := range s.layers {
		if !l.Visible {
			continue
		}
		src := l.unit.Buffer
		w, h := min(src.W, out.W), min(src.H, out.H)
		for y := range h {
			row := src.Pix[y*src.W : y*src.W+w]
			dst := out.Pix[y*out.W : y*out.W+w]
			for x, v := range row {
				if v == 1 {
					dst[x] = 1
				}
			}
		}
	}
	s.dirty = false
	return out
}

func (s *Stack) update(id int, f func(*Layer)) error {
	i, err := s.index(id)
	if err != nil {
		return err
	}
	f(s.layers[i])
	s.dirty = true
	return nil
}
