package codec

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"bitpaint/bitmap"
)

// CArrayOptions controls the layout of an emitted listing.
type CArrayOptions struct {
	// Defines adds NAME_WIDTH and NAME_HEIGHT macros.
	Defines bool
	// Progmem places the array in AVR program memory.
	Progmem bool
	// PerLine is the number of bytes per line; 0 means 16.
	PerLine int
}

// CArray is a parsed listing.
type CArray struct {
	Name   string
	Buffer *bitmap.Buffer
}

var identRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// PackRows packs a buffer row by row, MSB first, each row starting on a
// byte boundary.
func PackRows(b *bitmap.Buffer) (data []byte, stride int) {
	stride = (b.W + 7) / 8
	data = make([]byte, stride*b.H)
	for y := range b.H {
		for x := range b.W {
			if b.Pix[y*b.W+x] == 1 {
				data[y*stride+x/8] |= 0x80 >> (x % 8)
			}
		}
	}
	return data, stride
}

// UnpackRows is the inverse of PackRows.
func UnpackRows(data []byte, w, h int) (*bitmap.Buffer, error) {
	b, err := bitmap.New(w, h)
	if err != nil {
		return nil, err
	}
	stride := (w + 7) / 8
	if len(data) < stride*h {
		return nil, fmt.Errorf("%w: expected %d bytes, found %d", ErrPackedData, stride*h, len(data))
	}
	for y := range h {
		for x := range w {
			b.Pix[y*w+x] = (data[y*stride+x/8] >> (7 - x%8)) & 1
		}
	}
	return b, nil
}

// WriteCArray renders b as a C byte array named name.
func WriteCArray(w io.Writer, b *bitmap.Buffer, name string, opts CArrayOptions) error {
	if !identRE.MatchString(name) {
		return fmt.Errorf("codec: invalid C identifier %q", name)
	}
	perLine := opts.PerLine
	if perLine <= 0 {
		perLine = 16
	}

	data, _ := PackRows(b)
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "// %s: %d x %d pixels, %d bytes\n", name, b.W, b.H, len(data))
	if opts.Defines {
		upper := strings.ToUpper(name)
		fmt.Fprintf(bw, "#define %s_WIDTH %d\n", upper, b.W)
		fmt.Fprintf(bw, "#define %s_HEIGHT %d\n", upper, b.H)
	}

	decl := "const unsigned char %s[] = {\n"
	if opts.Progmem {
		decl = "const unsigned char %s[] PROGMEM = {\n"
	}
	fmt.Fprintf(bw, decl, name)

	for i, v := range data {
		if i%perLine == 0 {
			bw.WriteString("\t")
		}
		fmt.Fprintf(bw, "0x%02x,", v)
		if i%perLine == perLine-1 || i == len(data)-1 {
			bw.WriteString("\n")
		} else {
			bw.WriteString(" ")
		}
	}
	bw.WriteString("};\n")

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("could not write C array %q: %w", name, err)
	}
	return nil
}

// ParseCArray reads a listing produced by WriteCArray, or one written by
// hand in the same syntax. Dimensions come from *_WIDTH / *_HEIGHT macros or,
// failing that, from a "W x H" or "width: W ... height: H" comment.
func ParseCArray(r io.Reader) (*CArray, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("could not read C array: %w", err)
	}

	lx := lexer{src: string(src), line: 1, defines: make(map[string]string)}
	if err := lx.run(); err != nil {
		return nil, err
	}
	p := parser{toks: lx.toks}

	name, data, err := p.array()
	if err != nil {
		return nil, err
	}

	w, h, err := dimensions(name, lx.defines, lx.comments)
	if err != nil {
		return nil, err
	}
	if err := bitmap.CheckSize(w, h); err != nil {
		return nil, &ParseError{Line: 1, Expected: "dimensions within 1..2048", Found: fmt.Sprintf("%dx%d", w, h)}
	}

	if want := (w + 7) / 8 * h; len(data) != want {
		return nil, &ParseError{
			Line:     p.last().line,
			Expected: fmt.Sprintf("%d bytes for %dx%d", want, w, h),
			Found:    fmt.Sprintf("%d bytes", len(data)),
		}
	}

	b, err := UnpackRows(data, w, h)
	if err != nil {
		return nil, err
	}
	return &CArray{Name: name, Buffer: b}, nil
}

var (
	sizeCommentRE   = regexp.MustCompile(`(\d+)\s*[xX]\s*(\d+)`)
	widthCommentRE  = regexp.MustCompile(`(?i)width\W+(\d+)`)
	heightCommentRE = regexp.MustCompile(`(?i)height\W+(\d+)`)
)

func dimensions(name string, defines map[string]string, comments []string) (w, h int, err error) {
	w, wok := lookupDefine(defines, name, "WIDTH")
	h, hok := lookupDefine(defines, name, "HEIGHT")
	if wok && hok {
		return w, h, nil
	}

	named := regexp.MustCompile(`(?m)^\s*` + regexp.QuoteMeta(name) + `\s*:\s*(\d+)\s*[xX]\s*(\d+)`)
	for _, c := range comments {
		if m := named.FindStringSubmatch(c); m != nil {
			fmt.Sscan(m[1], &w)
			fmt.Sscan(m[2], &h)
			return w, h, nil
		}
	}

	// Hand-written listings: the array name may itself contain NxM.
	digitName := sizeCommentRE.MatchString(name)
	for _, c := range comments {
		if digitName {
			c = strings.ReplaceAll(c, name, "")
		}
		if m := sizeCommentRE.FindStringSubmatch(c); m != nil {
			fmt.Sscan(m[1], &w)
			fmt.Sscan(m[2], &h)
			return w, h, nil
		}
		mw, mh := widthCommentRE.FindStringSubmatch(c), heightCommentRE.FindStringSubmatch(c)
		if mw != nil && mh != nil {
			fmt.Sscan(mw[1], &w)
			fmt.Sscan(mh[1], &h)
			return w, h, nil
		}
	}
	return 0, 0, &ParseError{Line: 1, Expected: "width and height macros or size comment", Found: "none"}
}

func lookupDefine(defines map[string]string, name, suffix string) (int, bool) {
	candidates := []string{strings.ToUpper(name) + "_" + suffix, name + "_" + suffix}
	for _, c := range candidates {
		if v, ok := defines[c]; ok {
			if n, err := parseNumber(v); err == nil {
				return n, true
			}
		}
	}
	for k, v := range defines {
		if strings.HasSuffix(strings.ToUpper(k), "_"+suffix) || strings.ToUpper(k) == suffix {
			if n, err := parseNumber(v); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}
