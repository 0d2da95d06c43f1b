package region

import (
	"errors"
	"image"
	"testing"

	"bitpaint/bitmap"
)

func mustBuffer(t *testing.T, w, h int) *bitmap.Buffer {
	t.Helper()
	b, err := bitmap.New(w, h)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestFloodFillUniform(t *testing.T) {
	b := mustBuffer(t, 9, 7)
	b.Fill(1)

	if n := FloodFill(b, 4, 3, 1); n != 0 {
		t.Errorf("same-value fill visited %d pixels", n)
	}
	if b.Count() != 63 {
		t.Error("same-value fill changed the buffer")
	}

	if n := FloodFill(b, 4, 3, 0); n != 63 {
		t.Errorf("fill visited %d pixels, want 63", n)
	}
	if b.Count() != 0 {
		t.Errorf("count after fill = %d, want 0", b.Count())
	}
}

func TestFloodFillBounded(t *testing.T) {
	b := mustBuffer(t, 7, 7)
	Rect(b, image.Rect(1, 1, 6, 6), 1, false)

	if n := FloodFill(b, 3, 3, 1); n != 9 {
		t.Errorf("interior fill visited %d pixels, want 9", n)
	}
	if b.Get(0, 0) != 0 {
		t.Error("fill leaked outside the border")
	}

	// diagonal gaps do not connect
	d := mustBuffer(t, 3, 3)
	d.Set(1, 0, 1)
	d.Set(0, 1, 1)
	if n := FloodFill(d, 0, 0, 1); n != 1 {
		t.Errorf("corner fill visited %d pixels, want 1", n)
	}
}

func TestFloodFillOutOfRange(t *testing.T) {
	b := mustBuffer(t, 2, 2)
	if n := FloodFill(b, -1, 0, 1); n != 0 || b.Count() != 0 {
		t.Error("fill from outside the buffer changed it")
	}
}

func TestFloodFillPattern(t *testing.T) {
	b := mustBuffer(t, 4, 4)
	if n := FloodFillFunc(b, 0, 0, Checker); n != 16 {
		t.Fatalf("pattern fill visited %d pixels, want 16", n)
	}
	for y := range 4 {
		for x := range 4 {
			if got, want := b.Get(x, y), Checker(x, y); got != want {
				t.Errorf("pixel (%d, %d) = %d, want %d", x, y, got, want)
			}
		}
	}
}

func TestFloodFillLarge(t *testing.T) {
	b := mustBuffer(t, bitmap.MaxSize, bitmap.MaxSize)
	if n := FloodFill(b, 0, 0, 1); n != bitmap.MaxSize*bitmap.MaxSize {
		t.Errorf("visited %d pixels", n)
	}
}

func TestBoxBlur(t *testing.T) {
	b := mustBuffer(t, 5, 5)
	b.Set(2, 2, 1)

	out, err := BoxBlur(b, 1)
	if err != nil {
		t.Fatal(err)
	}
	if out.Count() != 0 {
		t.Errorf("isolated pixel survived blur: %v", out.Pix)
	}

	zero, _ := BoxBlur(b, 0)
	if !zero.Equal(b) {
		t.Error("radius 0 blur is not identity")
	}

	// corner window is 2x2; two of four inked rounds up
	c := mustBuffer(t, 4, 4)
	c.Set(0, 0, 1)
	c.Set(1, 0, 1)
	out, _ = BoxBlur(c, 1)
	if out.Get(0, 0) != 1 {
		t.Error("corner with half coverage did not round to ink")
	}
	if out.Get(3, 3) != 0 {
		t.Error("far corner became ink")
	}

	if _, err := BoxBlur(b, -1); !errors.Is(err, ErrRadius) {
		t.Errorf("BoxBlur(-1) error = %v, want ErrRadius", err)
	}
}

func TestRect(t *testing.T) {
	b := mustBuffer(t, 6, 6)
	Rect(b, image.Rect(1, 1, 5, 5), 1, false)
	if got := b.Count(); got != 12 {
		t.Errorf("border count = %d, want 12", got)
	}
	if b.Get(2, 2) != 0 {
		t.Error("border rect filled its interior")
	}

	Rect(b, image.Rect(4, 4, 10, 10), 1, true)
	if b.Get(5, 5) != 1 {
		t.Error("clipped filled rect missing pixel")
	}
}

func TestCircle(t *testing.T) {
	b := mustBuffer(t, 11, 11)
	Circle(b, 5, 5, 4, 1, true)
	if b.Get(5, 5) != 1 || b.Get(9, 5) != 1 || b.Get(5, 1) != 1 {
		t.Error("filled circle missing centre or axis pixels")
	}
	if b.Get(9, 9) != 0 {
		t.Error("filled circle covers a corner outside the radius")
	}

	s := mustBuffer(t, 11, 11)
	Circle(s, 5, 5, 4, 1, false)
	if s.Get(5, 5) != 0 {
		t.Error("stroked circle painted its centre")
	}
	if s.Get(9, 5) != 1 || s.Get(1, 5) != 1 || s.Get(5, 9) != 1 {
		t.Error("stroked circle missing axis pixels")
	}

	p := mustBuffer(t, 3, 3)
	Circle(p, 1, 1, 0, 1, false)
	if p.Count() != 1 || p.Get(1, 1) != 1 {
		t.Errorf("zero radius circle = %v, want single pixel", p.Pix)
	}
}

func TestHugeShapes(t *testing.T) {
	const far = 1 << 30

	b := mustBuffer(t, 8, 8)
	Rect(b, image.Rect(-far, -far, far, far), 1, false)
	if got := b.Count(); got != 0 {
		t.Errorf("off-screen border painted %d pixels", got)
	}
	Rect(b, image.Rect(-far, 2, far, 3), 1, false)
	if got := b.Count(); got != 8 {
		t.Errorf("one-row border painted %d pixels, want 8", got)
	}
	Rect(b, image.Rect(-far, -far, far, far), 1, true)
	if got := b.Count(); got != 64 {
		t.Errorf("huge filled rect painted %d pixels, want 64", got)
	}

	c := mustBuffer(t, 8, 8)
	Circle(c, 4, 4, far, 1, true)
	if got := c.Count(); got != 64 {
		t.Errorf("huge filled circle painted %d pixels, want 64", got)
	}
	c.Fill(0)
	Circle(c, 4, 4, far, 1, false)
	if got := c.Count(); got != 0 {
		t.Errorf("huge stroked circle painted %d pixels inside its hole", got)
	}
}

func TestLine(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 int
		want           int
	}{
		{"horizontal", 0, 2, 7, 2, 8},
		{"vertical", 3, 7, 3, 0, 8},
		{"diagonal", 0, 0, 7, 7, 8},
		{"shallow", 0, 0, 7, 3, 8},
		{"steep reversed", 5, 7, 2, 0, 8},
		{"point", 4, 4, 4, 4, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := mustBuffer(t, 8, 8)
			Line(b, tt.x0, tt.y0, tt.x1, tt.y1, 1)
			if got := b.Count(); got != tt.want {
				t.Errorf("pixel count = %d, want %d", got, tt.want)
			}
			if b.Get(tt.x0, tt.y0) != 1 || b.Get(tt.x1, tt.y1) != 1 {
				t.Error("endpoint not plotted")
			}
		})
	}
}
