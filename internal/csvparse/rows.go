package csvparse

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// DefaultDelimiter is used when Options.Delimiter is empty.
const DefaultDelimiter = ","

// Options controls how a stream is decoded and split into fields.
type Options struct {
	// Encoding is the charset of the raw stream (default: utf-8).
	Encoding string

	// Delimiter is the single-character field separator (default: ",").
	Delimiter string

	// LazyQuotes tolerates bare and unterminated quotes instead of
	// failing the parse.
	LazyQuotes bool
}

// delimiterRune validates the configured delimiter.
func (o Options) delimiterRune() (rune, error) {
	d := o.Delimiter
	if d == "" {
		d = DefaultDelimiter
	}
	if utf8.RuneCountInString(d) != 1 {
		return 0, fmt.Errorf("delimiter must be a 1-character string, got %q", d)
	}

	r, _ := utf8.DecodeRuneInString(d)
	switch r {
	case 0, '"', '\r', '\n', utf8.RuneError:
		return 0, fmt.Errorf("delimiter %q is not allowed", d)
	}
	return r, nil
}

// RowReader yields rows of text fields from a raw stream.
//
// Lines are grouped into records by tracking quoted fields, and each
// record is handed to encoding/csv on its own. A blank line outside a
// quoted field is a row with no fields.
type RowReader struct {
	lines *LineScanner
	quote quoteTracker
	feed  *recordFeed
	csv   *csv.Reader
}

// NewRowReader builds the decode, normalize and split pipeline over r.
// It fails if the encoding is unknown or the delimiter is invalid; all
// other problems surface from Read.
func NewRowReader(r io.Reader, opts Options) (*RowReader, error) {
	comma, err := opts.delimiterRune()
	if err != nil {
		return nil, err
	}

	text, err := newTextReader(r, opts.Encoding)
	if err != nil {
		return nil, err
	}

	feed := &recordFeed{}
	cr := csv.NewReader(feed)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = opts.LazyQuotes

	return &RowReader{
		lines: NewLineScanner(text),
		quote: quoteTracker{comma: comma},
		feed:  feed,
		csv:   cr,
	}, nil
}

// Read returns the next row, or io.EOF once the stream is exhausted.
// A blank line comes back as an empty, non-nil row.
func (rr *RowReader) Read() ([]string, error) {
	text, err := rr.nextRecord()
	if err != nil {
		return nil, err
	}
	if text == "" {
		return []string{}, nil
	}

	rr.feed.load(text)
	return rr.csv.Read()
}

// nextRecord joins lines until no quoted field is left open. An open
// field at the end of the stream is passed on as is, so encoding/csv
// reports it.
func (rr *RowReader) nextRecord() (string, error) {
	if !rr.lines.Scan() {
		if err := rr.lines.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}

	line := rr.lines.Line()
	rr.quote.reset()
	rr.quote.scan(line)
	if !rr.quote.open {
		return line, nil
	}

	var b strings.Builder
	b.WriteString(line)
	for rr.quote.open && rr.lines.Scan() {
		line = rr.lines.Line()
		b.WriteByte('\n')
		b.WriteString(line)
		rr.quote.scan(line)
	}
	if err := rr.lines.Err(); err != nil {
		return "", err
	}
	return b.String(), nil
}

// quoteTracker follows quoted fields across lines the way encoding/csv
// reads them: a quote opens a field only at the start of the field, a
// doubled quote is literal, and a quote closes the field when the
// delimiter or the end of the line follows.
type quoteTracker struct {
	comma rune
	open  bool
}

func (q *quoteTracker) reset() {
	q.open = false
}

func (q *quoteTracker) scan(line string) {
	fieldStart := !q.open
	for i := 0; i < len(line); {
		r, size := utf8.DecodeRuneInString(line[i:])
		i += size

		switch {
		case q.open:
			if r != '"' {
				continue
			}
			if i < len(line) && line[i] == '"' {
				i++
				continue
			}
			if i == len(line) {
				q.open = false
				continue
			}
			if next, _ := utf8.DecodeRuneInString(line[i:]); next == q.comma {
				q.open = false
			}
			continue
		case r == q.comma:
			fieldStart = true
			continue
		case fieldStart && r == '"':
			q.open = true
		}
		fieldStart = false
	}
}

// recordFeed hands encoding/csv one record at a time. It reports io.EOF
// once the loaded record is used up; bufio.Reader does not keep that
// error, so the next loaded record is read normally.
type recordFeed struct {
	buf string
}

func (f *recordFeed) load(record string) {
	f.buf = record + "\n"
}

func (f *recordFeed) Read(p []byte) (int, error) {
	if len(f.buf) == 0 {
		return 0, io.EOF
	}
	n := copy(p, f.buf)
	f.buf = f.buf[n:]
	return n, nil
}
