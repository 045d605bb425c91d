package csvparse

// lines.go implements the line normalizer.
//
// Streams that were not opened in universal-newline mode can deliver a
// whole block of rows as a single "line" separated only by '\r'. The
// scanner reads '\n'-terminated chunks and splits every chunk again on
// all line boundaries, so such blocks come out as separate lines.

import (
	"bufio"
	"io"
	"unicode/utf8"
)

// LineScanner yields logical lines from a text stream.
// It is lazy and cannot be restarted.
type LineScanner struct {
	br    *bufio.Reader
	queue []string // fragments of the current chunk not yet returned
	line  string
	err   error
	done  bool
}

// NewLineScanner creates a scanner reading from r.
// The scanner never closes r.
func NewLineScanner(r io.Reader) *LineScanner {
	return &LineScanner{br: bufio.NewReader(r)}
}

// Scan advances to the next line. It returns false at the end of the
// stream or on a read error; check Err to tell them apart.
func (s *LineScanner) Scan() bool {
	for len(s.queue) == 0 {
		if s.done {
			s.line = ""
			return false
		}

		chunk, err := s.br.ReadString('\n')
		if err != nil {
			s.done = true
			if err != io.EOF {
				s.err = err
				s.line = ""
				return false
			}
		}
		s.queue = splitLines(chunk)
	}

	s.line, s.queue = s.queue[0], s.queue[1:]
	return true
}

// Line returns the most recent line without its terminator.
func (s *LineScanner) Line() string {
	return s.line
}

// Err returns the first non-EOF error hit while reading.
func (s *LineScanner) Err() error {
	return s.err
}

// splitLines splits s on every line boundary and drops the terminators.
// A trailing terminator does not produce an empty last fragment, and an
// empty string produces no fragments.
func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !isLineBoundary(r) {
			i += size
			continue
		}

		lines = append(lines, s[start:i])
		i += size
		if r == '\r' && i < len(s) && s[i] == '\n' {
			i++
		}
		start = i
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

func isLineBoundary(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f',
		'\x1c', '\x1d', '\x1e', // information separators
		'\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}
