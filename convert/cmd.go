package convert

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"bitpaint/backend"
	"bitpaint/bitmap"
	"bitpaint/dither"
	"bitpaint/ingest"
	"bitpaint/parallel"

	"github.com/alecthomas/kong"
	"golang.org/x/sync/errgroup"
)

type CLICmd struct {
	Scan        string   `help:"Source folder to scan" default:"."`
	Dest        string   `help:"Destination folder for converted bitmaps. Relative to scan dir if not absolute." default:"bitmaps"`
	Width       int      `help:"Output width, 0 to follow the aspect ratio" group:"resize"`
	Height      int      `help:"Output height, 0 to follow the aspect ratio" group:"resize"`
	Method      string   `help:"Dithering method" enum:"threshold,floyd-steinberg,atkinson,burkes,bayer-2x2,bayer-4x4,bayer-8x8" default:"floyd-steinberg" group:"dither"`
	Threshold   int      `help:"Cut level, 0-255" default:"128" group:"dither"`
	Invert      bool     `help:"Swap ink and background" default:"false" group:"dither"`
	Luma        string   `help:"Lightness model" enum:"rec601,oklab" default:"rec601" group:"dither"`
	Blur        int      `help:"Box blur radius applied after dithering, 0 to disable" default:"0" group:"dither"`
	AlphaPolicy string   `help:"How source transparency affects lightness" enum:"blend-white,transparent-white,transparent-black" default:"blend-white" group:"alpha"`
	AlphaMode   string   `help:"Which output pixels become transparent" enum:"ignore,white-transparent,black-transparent,preserve" default:"ignore" group:"alpha"`
	Format      []string `help:"Output formats" enum:"packed,packed-zst,carray,png" default:"packed" sep:","`
	Name        string   `help:"C array identifier; derived from the file name if empty" group:"carray"`
	Defines     bool     `help:"Emit WIDTH/HEIGHT macros in C arrays" default:"true" negatable:"" group:"carray"`
	Progmem     bool     `help:"Place C arrays in PROGMEM" default:"false" group:"carray"`

	dither dither.Config    `kong:"-"`
	ingest ingest.Options   `kong:"-"`
	alpha  ingest.AlphaMode `kong:"-"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	scanDir, err := filepath.Abs(c.Scan)
	var info os.FileInfo
	if err == nil {
		if info, err = os.Stat(scanDir); err == nil && !info.IsDir() {
			err = fmt.Errorf("not a directory")
		}
	}
	if err != nil {
		return fmt.Errorf("invalid scan path %q: %w", c.Scan, err)
	}
	c.Scan = scanDir

	if !filepath.IsAbs(c.Dest) {
		c.Dest = filepath.Join(scanDir, c.Dest)
	}

	switch {
	case c.Width < 0 || c.Width > bitmap.MaxSize:
		return fmt.Errorf("invalid width: %d", c.Width)
	case c.Height < 0 || c.Height > bitmap.MaxSize:
		return fmt.Errorf("invalid height: %d", c.Height)
	case c.Blur < 0:
		return fmt.Errorf("invalid blur radius: %d", c.Blur)
	}

	method, err := dither.ParseMethod(c.Method)
	if err != nil {
		return err
	}
	c.dither = dither.Config{Method: method, Threshold: dither.Level(c.Threshold), Invert: c.Invert}
	if err := c.dither.Validate(); err != nil {
		return err
	}

	c.ingest = ingest.Options{Policy: ingest.AlphaPolicy(c.AlphaPolicy), Luma: ingest.Luma(c.Luma)}
	if err := c.ingest.Validate(); err != nil {
		return err
	}
	if c.alpha, err = ingest.ParseAlphaMode(c.AlphaMode); err != nil {
		return err
	}

	if c.Name != "" && !isIdent(c.Name) {
		return fmt.Errorf("invalid C identifier: %q", c.Name)
	}
	return nil
}

func (c *CLICmd) Run(worker parallel.WorkerFunc, wait parallel.WaitFunc) error {
	if err := os.MkdirAll(c.Dest, 0o755); err != nil {
		return fmt.Errorf("unable to create destination folder %q: %w", c.Dest, err)
	}

	files, err := os.ReadDir(c.Scan)
	if err != nil {
		return fmt.Errorf("unable to read folder %q: %w", c.Scan, err)
	}

	var processedCount, errCount atomic.Uint64
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		worker(func(fileName string) func() {
			return func() {
				logger := slog.Default().With("file", filepath.Join(c.Scan, fileName))
				if err := c.convert(logger, fileName); err != nil {
					errCount.Add(1)
					logger.Error("could not convert image", "error", err)
					return
				}
				processedCount.Add(1)
			}
		}(file.Name()))
	}

	wait(true)

	processed := processedCount.Load()
	errors := errCount.Load()
	slog.Info("stats", "processed", processed, "errors", errors,
		"total", processed+errors)

	if errors > 0 {
		return fmt.Errorf("error processing %d files", errors)
	}
	return nil
}

func (c *CLICmd) convert(logger *slog.Logger, fileName string) error {
	img, err := c.load(fileName)
	if err != nil {
		return err
	}

	if c.Width != 0 || c.Height != 0 || img.Bounds().Dx() > bitmap.MaxSize || img.Bounds().Dy() > bitmap.MaxSize {
		img = ingest.Fit(img, c.Width, c.Height)
		logger.Info("resized", "width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	}

	src, err := ingest.Luminance(img, c.ingest)
	if err != nil {
		return err
	}

	be := backend.Select(src.W, src.H)
	logger.Info("dithering", "method", c.dither.Method, "backend", be.Name())
	buf, err := be.Dither(src, c.dither)
	if err != nil {
		return fmt.Errorf("could not dither: %w", err)
	}
	if c.Blur > 0 {
		if buf, err = be.BoxBlur(buf, c.Blur); err != nil {
			return fmt.Errorf("could not blur: %w", err)
		}
	}

	unit := bitmap.WrapUnit(buf)
	if err := ingest.ApplyAlphaMode(unit, src, c.alpha); err != nil {
		return err
	}

	base := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	name := c.Name
	if name == "" {
		name = identFrom(base)
	}

	var outputs errgroup.Group
	for _, format := range c.Format {
		outputs.Go(func() error {
			return c.save(unit, format, base, name)
		})
	}
	return outputs.Wait()
}

func (c *CLICmd) load(fileName string) (image.Image, error) {
	imgFile, err := os.Open(filepath.Join(c.Scan, fileName))
	if err != nil {
		return nil, fmt.Errorf("could not open image: %w", err)
	}
	defer func() {
		if closeErr := imgFile.Close(); closeErr != nil {
			slog.Error("could not close image", "name", fileName, "error", closeErr)
		}
	}()

	img, _, err := ingest.Decode(imgFile)
	return img, err
}

func isIdent(s string) bool {
	return s != "" && identFrom(s) == s
}

// identFrom maps a file name onto a C identifier.
func identFrom(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "bitmap"
	}
	return b.String()
}
