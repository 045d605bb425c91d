package csvparse

// decode.go turns the caller's byte stream into UTF-8 text.
//
// Decoding happens once, at the stream boundary:
//
//   - UTF-8 input goes through encoding.UTF8Validator, which fails on
//     the first invalid byte instead of substituting U+FFFD. A leading
//     BOM is dropped.
//   - Any other charset goes through its golang.org/x/text decoder.

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultEncoding is used when Options.Encoding is empty.
const DefaultEncoding = "utf-8"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// encodingAliases covers common spellings neither index knows.
var encodingAliases = map[string]string{
	"utf-8-sig": "utf-8",
	"utf_8":     "utf-8",
	"latin-1":   "iso-8859-1",
	"latin_1":   "iso-8859-1",
}

// LookupEncoding resolves a charset name. IANA names and aliases are
// tried first, then WHATWG labels.
func LookupEncoding(name string) (encoding.Encoding, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := encodingAliases[key]; ok {
		key = alias
	}

	if enc, err := ianaindex.IANA.Encoding(key); err == nil && enc != nil {
		return enc, nil
	}
	if enc, err := htmlindex.Get(key); err == nil && enc != nil {
		return enc, nil
	}
	return nil, fmt.Errorf("unknown encoding: %s", name)
}

func isUTF8(enc encoding.Encoding) bool {
	if enc == unicode.UTF8 {
		return true
	}
	name, err := htmlindex.Name(enc)
	return err == nil && name == "utf-8"
}

// newTextReader wraps r so that reads return UTF-8 text.
func newTextReader(r io.Reader, charset string) (io.Reader, error) {
	if charset == "" {
		charset = DefaultEncoding
	}
	enc, err := LookupEncoding(charset)
	if err != nil {
		return nil, err
	}

	if !isUTF8(enc) {
		return transform.NewReader(r, enc.NewDecoder()), nil
	}

	br := bufio.NewReader(r)
	var skipped int64
	if head, _ := br.Peek(len(utf8BOM)); bytes.Equal(head, utf8BOM) {
		br.Discard(len(utf8BOM))
		skipped = int64(len(utf8BOM))
	}

	tap := &byteTap{r: br, end: skipped}
	return &utf8Reader{
		r:   transform.NewReader(tap, encoding.UTF8Validator),
		tap: tap,
		n:   skipped,
	}, nil
}

// utf8Reader passes UTF-8 through unchanged and turns the validator's
// ErrInvalidUTF8 into a DecodeError carrying the stream offset and the
// offending byte.
type utf8Reader struct {
	r   io.Reader
	tap *byteTap
	n   int64 // stream offset of the next byte handed out
}

func (u *utf8Reader) Read(p []byte) (int, error) {
	n, err := u.r.Read(p)
	u.n += int64(n)
	if errors.Is(err, encoding.ErrInvalidUTF8) {
		b, _ := u.tap.at(u.n)
		err = &DecodeError{Encoding: DefaultEncoding, Offset: u.n, Byte: b}
	}
	return n, err
}

// tapWindow bounds how far back byteTap can look. It covers the
// transform.Reader source buffer with room to spare.
const tapWindow = 16 << 10

// byteTap keeps the most recent raw bytes read through it.
type byteTap struct {
	r      io.Reader
	window []byte
	end    int64 // stream offset just past window
}

func (t *byteTap) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	t.window = append(t.window, p[:n]...)
	if over := len(t.window) - tapWindow; over > 0 {
		t.window = append(t.window[:0], t.window[over:]...)
	}
	t.end += int64(n)
	return n, err
}

// at returns the byte at stream offset off if it is still in the window.
func (t *byteTap) at(off int64) (byte, bool) {
	i := off - (t.end - int64(len(t.window)))
	if i < 0 || i >= int64(len(t.window)) {
		return 0, false
	}
	return t.window[i], true
}
