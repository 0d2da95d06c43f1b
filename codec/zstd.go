package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	"bitpaint/bitmap"

	"github.com/klauspost/compress/zstd"
)

// maxPackedSize is the encoded size of the largest unit: header plus full
// pixel and alpha planes.
const maxPackedSize = headerSize + 2*(bitmap.MaxSize/8)*bitmap.MaxSize

// ErrPackedTooLarge is returned when a frame decodes past maxPackedSize.
var ErrPackedTooLarge = errors.New("codec: decompressed data exceeds largest packed bitmap")

var (
	sharedEncoder persistentEncoder
	sharedDecoder persistentDecoder
)

type persistentEncoder struct {
	once sync.Once
	mu   sync.Mutex
	enc  *zstd.Encoder
	err  error
}

func (p *persistentEncoder) use(fn func(*zstd.Encoder) error) error {
	p.once.Do(func() {
		p.enc, p.err = zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
			zstd.WithWindowSize(1<<20),
		)
	})
	if p.err != nil {
		return p.err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return fn(p.enc)
}

type persistentDecoder struct {
	once sync.Once
	mu   sync.Mutex
	dec  *zstd.Decoder
	err  error
}

func (p *persistentDecoder) use(fn func(*zstd.Decoder) error) error {
	p.once.Do(func() {
		p.dec, p.err = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxPackedSize))
	})
	if p.err != nil {
		return p.err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return fn(p.dec)
}

// Compress wraps packed bytes in a zstd frame.
func Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	err := sharedEncoder.use(func(enc *zstd.Encoder) error {
		enc.Reset(&buf)
		if _, err := enc.Write(data); err != nil {
			_ = enc.Close()
			return err
		}
		return enc.Close()
	})
	if err != nil {
		return nil, fmt.Errorf("could not compress packed data: %w", err)
	}
	return buf.Bytes(), nil
}

// Decompress unwraps a zstd frame produced by Compress.
func Decompress(data []byte) ([]byte, error) {
	var out bytes.Buffer
	err := sharedDecoder.use(func(dec *zstd.Decoder) error {
		if err := dec.Reset(bytes.NewReader(data)); err != nil {
			return err
		}
		n, err := out.ReadFrom(io.LimitReader(dec, maxPackedSize+1))
		if err != nil {
			return err
		}
		if n > maxPackedSize {
			return ErrPackedTooLarge
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not decompress packed data: %w", err)
	}
	return out.Bytes(), nil
}
