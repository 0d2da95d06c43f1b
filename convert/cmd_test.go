package convert

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"bitpaint/codec"
	"bitpaint/parallel"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			v := uint8(255 * x / w)
			img.SetNRGBA(x, y, color.NRGBA{v, v, v, 0xFF})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "1 gradient.png"), 40, 20)

	cmd := &CLICmd{
		Scan:        dir,
		Dest:        "out",
		Method:      "bayer-4x4",
		Threshold:   128,
		Luma:        "rec601",
		AlphaPolicy: "blend-white",
		AlphaMode:   "white-transparent",
		Format:      []string{"packed", "packed-zst", "carray", "png"},
		Defines:     true,
	}
	if err := cmd.Validate(nil); err != nil {
		t.Fatal(err)
	}

	pool := parallel.Start(2)
	if err := cmd.Run(pool.Do, pool.Wait); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "out")
	for _, name := range []string{"1 gradient.pdi", "1 gradient.pdi.zst", "1 gradient.h", "1 gradient.png"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("missing output %s: %v", name, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(out, "1 gradient.pdi"))
	if err != nil {
		t.Fatal(err)
	}
	p, err := codec.UnmarshalPacked(data)
	if err != nil {
		t.Fatal(err)
	}
	if !p.HasAlpha() {
		t.Error("packed output has no alpha mask")
	}

	f, err := os.Open(filepath.Join(out, "1 gradient.h"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	arr, err := codec.ParseCArray(f)
	if err != nil {
		t.Fatal(err)
	}
	if arr.Name != "_1_gradient" || arr.Buffer.W != 40 || arr.Buffer.H != 20 {
		t.Errorf("C array %s %dx%d", arr.Name, arr.Buffer.W, arr.Buffer.H)
	}
}

func TestConvertReportsErrors(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := &CLICmd{
		Scan: dir, Dest: "out", Method: "threshold", Threshold: 128,
		Luma: "oklab", AlphaPolicy: "blend-white", AlphaMode: "ignore",
		Format: []string{"packed"},
	}
	if err := cmd.Validate(nil); err != nil {
		t.Fatal(err)
	}
	pool := parallel.Start(1)
	if err := cmd.Run(pool.Do, pool.Wait); err == nil {
		t.Error("Run succeeded on a non-image file")
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	base := CLICmd{
		Scan: dir, Method: "burkes", Threshold: 128, Luma: "rec601",
		AlphaPolicy: "blend-white", AlphaMode: "ignore",
	}

	tests := []struct {
		name   string
		mutate func(*CLICmd)
	}{
		{"missing scan", func(c *CLICmd) { c.Scan = filepath.Join(dir, "nope") }},
		{"threshold", func(c *CLICmd) { c.Threshold = 300 }},
		{"width", func(c *CLICmd) { c.Width = 5000 }},
		{"blur", func(c *CLICmd) { c.Blur = -1 }},
		{"method", func(c *CLICmd) { c.Method = "random" }},
		{"name", func(c *CLICmd) { c.Name = "not-valid" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.mutate(&c)
			if err := c.Validate(nil); err == nil {
				t.Error("Validate succeeded")
			}
		})
	}
}

func TestIdentFrom(t *testing.T) {
	tests := map[string]string{
		"logo":        "logo",
		"my-icon.v2":  "my_icon_v2",
		"8ball":       "_8ball",
		"":            "bitmap",
		"Splash_Main": "Splash_Main",
	}
	for in, want := range tests {
		if got := identFrom(in); got != want {
			t.Errorf("identFrom(%q) = %q, want %q", in, got, want)
		}
	}
}
