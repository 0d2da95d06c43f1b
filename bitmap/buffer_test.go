package bitmap

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		wantErr bool
	}{
		{"1x1", 1, 1, false},
		{"128x64", 128, 64, false},
		{"max", MaxSize, MaxSize, false},
		{"zero width", 0, 10, true},
		{"negative height", 10, -1, true},
		{"too wide", MaxSize + 1, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := New(tt.w, tt.h)
			if tt.wantErr {
				if !errors.Is(err, ErrDimensions) {
					t.Errorf("New(%d, %d) error = %v, want ErrDimensions", tt.w, tt.h, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("New(%d, %d) error = %v", tt.w, tt.h, err)
			}
			if len(b.Pix) != tt.w*tt.h {
				t.Errorf("len(Pix) = %d, want %d", len(b.Pix), tt.w*tt.h)
			}
		})
	}
}

func TestSetGet(t *testing.T) {
	b, _ := New(5, 3)
	for y := range 3 {
		for x := range 5 {
			v := uint8((x + y) % 2)
			b.Set(x, y, v)
			if got := b.Get(x, y); got != v {
				t.Errorf("Get(%d, %d) = %d, want %d", x, y, got, v)
			}
		}
	}

	b.Set(1, 1, 200)
	if got := b.Get(1, 1); got != 1 {
		t.Errorf("Set with 200 stored %d, want 1", got)
	}
}

func TestOutOfRange(t *testing.T) {
	b, _ := New(4, 4)
	b.Fill(1)

	for _, p := range []image.Point{{-1, 0}, {0, -1}, {4, 0}, {0, 4}, {100, 100}} {
		if got := b.Get(p.X, p.Y); got != 0 {
			t.Errorf("Get(%d, %d) = %d, want 0", p.X, p.Y, got)
		}
		b.Set(p.X, p.Y, 0)
	}
	if got := b.Count(); got != 16 {
		t.Errorf("out of range Set changed buffer, count = %d", got)
	}
}

func TestResize(t *testing.T) {
	b, _ := New(3, 2)
	b.Fill(1)

	if err := b.Resize(5, 3); err != nil {
		t.Fatal(err)
	}
	if b.W != 5 || b.H != 3 || len(b.Pix) != 15 {
		t.Fatalf("size = %dx%d len %d, want 5x3 len 15", b.W, b.H, len(b.Pix))
	}
	for y := range 3 {
		for x := range 5 {
			want := uint8(0)
			if x < 3 && y < 2 {
				want = 1
			}
			if got := b.Get(x, y); got != want {
				t.Errorf("Get(%d, %d) = %d, want %d", x, y, got, want)
			}
		}
	}

	if err := b.Resize(2, 1); err != nil {
		t.Fatal(err)
	}
	if b.Count() != 2 {
		t.Errorf("count after shrink = %d, want 2", b.Count())
	}

	if err := b.Resize(0, 1); !errors.Is(err, ErrDimensions) {
		t.Errorf("Resize(0, 1) error = %v, want ErrDimensions", err)
	}
	if b.W != 2 || b.H != 1 {
		t.Errorf("failed resize changed size to %dx%d", b.W, b.H)
	}
}

func TestClone(t *testing.T) {
	b, _ := New(2, 2)
	b.Set(0, 0, 1)
	c := b.Clone()
	c.Set(1, 1, 1)

	if b.Get(1, 1) != 0 {
		t.Error("Clone shares pixel storage")
	}
	if !b.Equal(b.Clone()) {
		t.Error("Clone is not Equal to source")
	}
}

func TestImageInterface(t *testing.T) {
	b, _ := New(2, 1)
	b.Set(1, 0, 1)

	if got := b.At(0, 0); got != color.White {
		t.Errorf("At(0, 0) = %v, want white", got)
	}
	if got := b.At(1, 0); got != color.Black {
		t.Errorf("At(1, 0) = %v, want black", got)
	}
	if got := b.Bounds(); got != image.Rect(0, 0, 2, 1) {
		t.Errorf("Bounds() = %v", got)
	}
}
