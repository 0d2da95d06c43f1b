package inspect

import (
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"bitpaint/bitmap"
	"bitpaint/codec"

	"github.com/alecthomas/kong"
)

type CLICmd struct {
	Files []string `arg:"" help:"Packed (.pdi, .pdi.zst) or C array (.h, .c) files" type:"existingfile"`
	Png   string   `help:"Folder to render decoded bitmaps into as PNG"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	if c.Png == "" {
		return nil
	}
	dir, err := filepath.Abs(c.Png)
	if err != nil {
		return fmt.Errorf("invalid png path %q: %w", c.Png, err)
	}
	c.Png = dir
	return nil
}

func (c *CLICmd) Run() error {
	if c.Png != "" {
		if err := os.MkdirAll(c.Png, 0o755); err != nil {
			return fmt.Errorf("unable to create png folder %q: %w", c.Png, err)
		}
	}

	var okCount, errCount int
	for _, name := range c.Files {
		unit, err := load(name)
		if err != nil {
			errCount++
			slog.Error("could not read bitmap", "file", name, "error", err)
			continue
		}

		attrs := []any{"file", name, "width", unit.W, "height", unit.H, "ink", unit.Count(), "alpha", unit.HasAlpha()}
		if r, ok := unit.ClipBounds(); ok {
			attrs = append(attrs, "clip", r.String())
		}
		slog.Info("bitmap", attrs...)

		if c.Png != "" {
			if err := render(unit.Buffer, filepath.Join(c.Png, baseName(name)+".png")); err != nil {
				errCount++
				slog.Error("could not render bitmap", "file", name, "error", err)
				continue
			}
		}
		okCount++
	}

	slog.Info("stats", "read", okCount, "errors", errCount, "total", okCount+errCount)

	if errCount > 0 {
		return fmt.Errorf("error processing %d files", errCount)
	}
	return nil
}

// load decodes a file by extension.
func load(name string) (*bitmap.Unit, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("could not read %q: %w", name, err)
	}

	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".pdi.zst"):
		if data, err = codec.Decompress(data); err != nil {
			return nil, err
		}
		fallthrough
	case strings.HasSuffix(lower, ".pdi"):
		p, err := codec.UnmarshalPacked(data)
		if err != nil {
			return nil, err
		}
		return p.Unit()
	case strings.HasSuffix(lower, ".h"), strings.HasSuffix(lower, ".c"):
		arr, err := codec.ParseCArray(strings.NewReader(string(data)))
		if err != nil {
			return nil, err
		}
		return bitmap.WrapUnit(arr.Buffer), nil
	}
	return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(name))
}

func render(img image.Image, dest string) error {
	outFile, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("could not open destination file %q: %w", dest, err)
	}
	defer func() {
		if closeErr := outFile.Close(); closeErr != nil {
			slog.Error("could not close destination file", "name", dest, "error", closeErr)
		}
	}()

	if err := png.Encode(outFile, img); err != nil {
		return fmt.Errorf("could not encode %q: %w", dest, err)
	}
	return outFile.Sync()
}

func baseName(name string) string {
	base := filepath.Base(name)
	for _, ext := range []string{".pdi.zst", ".pdi", ".h", ".c"} {
		if strings.HasSuffix(strings.ToLower(base), ext) {
			return base[:len(base)-len(ext)]
		}
	}
	return base
}
