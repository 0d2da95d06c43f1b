package codec

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseError describes malformed C array input.
type ParseError struct {
	Line     int
	Expected string
	Found    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("codec: line %d: expected %s, found %s", e.Line, e.Expected, e.Found)
}

type tokKind int

const (
	tokEOF tokKind = iota
	tokIdent
	tokNumber
	tokPunct
)

type token struct {
	kind tokKind
	text string
	line int
}

func (t token) String() string {
	if t.kind == tokEOF {
		return "end of input"
	}
	return strconv.Quote(t.text)
}

type lexer struct {
	src      string
	pos      int
	line     int
	toks     []token
	defines  map[string]string
	comments []string
}

func (lx *lexer) run() error {
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch {
		case c == '\n':
			lx.line++
			lx.pos++
		case c == ' ' || c == '\t' || c == '\r':
			lx.pos++
		case strings.HasPrefix(lx.src[lx.pos:], "//"):
			end := strings.IndexByte(lx.src[lx.pos:], '\n')
			if end < 0 {
				end = len(lx.src) - lx.pos
			}
			lx.comments = append(lx.comments, lx.src[lx.pos+2:lx.pos+end])
			lx.pos += end
		case strings.HasPrefix(lx.src[lx.pos:], "/*"):
			end := strings.Index(lx.src[lx.pos+2:], "*/")
			if end < 0 {
				return &ParseError{Line: lx.line, Expected: "\"*/\"", Found: "end of input"}
			}
			body := lx.src[lx.pos+2 : lx.pos+2+end]
			lx.comments = append(lx.comments, body)
			lx.line += strings.Count(body, "\n")
			lx.pos += end + 4
		case c == '#':
			lx.directive()
		case isIdentStart(c):
			lx.emit(tokIdent, lx.scan(isIdentChar))
		case c >= '0' && c <= '9':
			lx.emit(tokNumber, lx.scan(isIdentChar))
		case strings.IndexByte("[]{}=,;*()", c) >= 0:
			lx.emit(tokPunct, string(c))
			lx.pos++
		default:
			return &ParseError{Line: lx.line, Expected: "C token", Found: strconv.QuoteRune(rune(c))}
		}
	}
	lx.emit(tokEOF, "")
	return nil
}

// directive records "#define NAME VALUE" and skips any other preprocessor
// line.
func (lx *lexer) directive() {
	end := strings.IndexByte(lx.src[lx.pos:], '\n')
	if end < 0 {
		end = len(lx.src) - lx.pos
	}
	line := lx.src[lx.pos+1 : lx.pos+end]
	lx.pos += end

	if i := strings.Index(line, "//"); i >= 0 {
		lx.comments = append(lx.comments, line[i+2:])
		line = line[:i]
	}
	fields := strings.Fields(line)
	if len(fields) >= 3 && fields[0] == "define" {
		lx.defines[fields[1]] = strings.Trim(fields[2], "()")
	}
}

func (lx *lexer) scan(ok func(byte) bool) string {
	start := lx.pos
	for lx.pos < len(lx.src) && ok(lx.src[lx.pos]) {
		lx.pos++
	}
	return lx.src[start:lx.pos]
}

func (lx *lexer) emit(k tokKind, text string) {
	lx.toks = append(lx.toks, token{kind: k, text: text, line: lx.line})
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek(off int) token {
	if p.pos+off >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+off]
}

func (p *parser) next() token {
	t := p.peek(0)
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) last() token {
	if p.pos == 0 {
		return p.toks[0]
	}
	return p.toks[p.pos-1]
}

func (p *parser) expect(text string) error {
	t := p.next()
	if t.kind != tokPunct || t.text != text {
		return &ParseError{Line: t.line, Expected: strconv.Quote(text), Found: t.String()}
	}
	return nil
}

// array finds the first "ident [ ... ] ... = {" declaration and parses its
// initializer list.
func (p *parser) array() (string, []byte, error) {
	for {
		t := p.peek(0)
		if t.kind == tokEOF {
			return "", nil, &ParseError{Line: t.line, Expected: "array declaration", Found: t.String()}
		}
		if t.kind == tokIdent && p.peek(1).kind == tokPunct && p.peek(1).text == "[" {
			break
		}
		p.next()
	}

	name := p.next().text
	p.next() // [
	if t := p.peek(0); t.kind == tokNumber || t.kind == tokIdent {
		p.next()
	}
	if err := p.expect("]"); err != nil {
		return "", nil, err
	}
	// attributes such as PROGMEM
	for p.peek(0).kind == tokIdent {
		p.next()
	}
	if err := p.expect("="); err != nil {
		return "", nil, err
	}
	if err := p.expect("{"); err != nil {
		return "", nil, err
	}

	var data []byte
	for {
		t := p.next()
		if t.kind == tokPunct && t.text == "}" {
			break
		}
		if t.kind != tokNumber {
			return "", nil, &ParseError{Line: t.line, Expected: "byte literal", Found: t.String()}
		}
		v, err := parseNumber(t.text)
		if err != nil || v > 0xFF {
			return "", nil, &ParseError{Line: t.line, Expected: "byte literal 0..255", Found: t.String()}
		}
		data = append(data, byte(v))

		sep := p.next()
		if sep.kind == tokPunct && sep.text == "}" {
			break
		}
		if sep.kind != tokPunct || sep.text != "," {
			return "", nil, &ParseError{Line: sep.line, Expected: "\",\" or \"}\"", Found: sep.String()}
		}
	}
	if err := p.expect(";"); err != nil {
		return "", nil, err
	}
	return name, data, nil
}

// parseNumber accepts decimal, 0x hex, 0b binary and octal literals with
// optional u/U suffixes.
func parseNumber(s string) (int, error) {
	s = strings.TrimRight(s, "uUlL")
	lower := strings.ToLower(s)
	var (
		v   uint64
		err error
	)
	switch {
	case strings.HasPrefix(lower, "0x"):
		v, err = strconv.ParseUint(lower[2:], 16, 32)
	case strings.HasPrefix(lower, "0b"):
		v, err = strconv.ParseUint(lower[2:], 2, 32)
	case len(lower) > 1 && lower[0] == '0':
		v, err = strconv.ParseUint(lower[1:], 8, 32)
	default:
		v, err = strconv.ParseUint(lower, 10, 32)
	}
	if err != nil {
		return 0, err
	}
	return int(v), nil
}
