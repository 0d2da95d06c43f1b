package convert

import (
	"bufio"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sync"

	"bitpaint/bitmap"
	"bitpaint/codec"
)

var extensions = map[string]string{
	"packed":     ".pdi",
	"packed-zst": ".pdi.zst",
	"carray":     ".h",
	"png":        ".png",
}

func (c *CLICmd) save(unit *bitmap.Unit, format, base, name string) error {
	ext, ok := extensions[format]
	if !ok {
		return fmt.Errorf("unsupported output format: %s", format)
	}

	return writeFile(c.Dest, base+ext, func(w io.Writer) error {
		switch format {
		case "packed":
			_, err := codec.Pack(unit).WriteTo(w)
			return err
		case "packed-zst":
			data, err := codec.Pack(unit).MarshalBinary()
			if err != nil {
				return err
			}
			if data, err = codec.Compress(data); err != nil {
				return err
			}
			_, err = w.Write(data)
			return err
		case "carray":
			return codec.WriteCArray(w, unit.Buffer, name, codec.CArrayOptions{
				Defines: c.Defines,
				Progmem: c.Progmem,
			})
		default:
			enc := png.Encoder{
				CompressionLevel: png.BestCompression,
				BufferPool:       pngPool,
			}
			return enc.Encode(w, unit.Buffer)
		}
	})
}

// writeFile writes through a temporary file in destDir and renames it into
// place once write succeeded.
func writeFile(destDir, destName string, write func(io.Writer) error) (err error) {
	outFile, err := os.CreateTemp(destDir, destName)
	if err != nil {
		return fmt.Errorf("could not create temporary destination %q: %w", destName, err)
	}
	canRename := false
	defer func() {
		if defErr := outFile.Sync(); defErr != nil && err == nil {
			err = fmt.Errorf("could not flush temporary destination %q: %w", destName, defErr)
		}
		if defErr := outFile.Close(); defErr != nil && err == nil {
			err = fmt.Errorf("could not close temporary destination %q: %w", destName, defErr)
		}

		if canRename && err == nil {
			if defErr := os.Rename(outFile.Name(), filepath.Join(destDir, destName)); defErr != nil {
				err = fmt.Errorf("could not rename destination file %q: %w", destName, defErr)
			}
		} else {
			_ = os.Remove(outFile.Name())
		}
	}()

	bw := bufio.NewWriter(outFile)
	if err = write(bw); err != nil {
		return fmt.Errorf("could not encode %q: %w", destName, err)
	}
	if err = bw.Flush(); err != nil {
		return fmt.Errorf("could not write %q: %w", destName, err)
	}

	canRename = true
	return nil
}

type pngEncoderBufferPool struct {
	pool sync.Pool
}

func (p *pngEncoderBufferPool) Get() *png.EncoderBuffer {
	return p.pool.Get().(*png.EncoderBuffer)
}

func (p *pngEncoderBufferPool) Put(buf *png.EncoderBuffer) {
	p.pool.Put(buf)
}

var pngPool = &pngEncoderBufferPool{
	pool: sync.Pool{
		New: func() any {
			return &png.EncoderBuffer{}
		},
	},
}
