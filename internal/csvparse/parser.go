package csvparse

import (
	"errors"
	"io"
	"strings"
)

// Parse reads r to the end and returns every data row as a Record.
//
// The first row is the header. Any failure, whether a decoding error,
// malformed quoting, a duplicate field or an empty stream, is returned
// as a *ParseError and no partial result is produced. Parse never
// closes r.
func Parse(r io.Reader, opts Options) (*Result, error) {
	res, err := parse(r, opts)
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	return res, nil
}

// ParseString parses text that is already decoded.
func ParseString(s string, opts Options) (*Result, error) {
	opts.Encoding = DefaultEncoding
	return Parse(strings.NewReader(s), opts)
}

func parse(r io.Reader, opts Options) (*Result, error) {
	rows, err := NewRowReader(r, opts)
	if err != nil {
		return nil, err
	}

	header, err := rows.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, err
	}

	res := newResult(header)
	for {
		fields, err := rows.Read()
		if errors.Is(err, io.EOF) {
			return res, nil
		}
		if err != nil {
			return nil, err
		}

		rec, err := MapRow(res.header, fields)
		if err != nil {
			return nil, err
		}
		res.append(rec)
	}
}
