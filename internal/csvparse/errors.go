package csvparse

import (
	"errors"
	"fmt"
)

// ErrNoHeader is returned when the input holds no rows at all.
var ErrNoHeader = errors.New("no header row")

// ParseError is the single error kind returned by Parse.
// The underlying cause is kept for errors.Is and errors.As.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return "CSV parse error - " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// DuplicateFieldError reports a key that collides with an existing key
// at the same nesting level.
type DuplicateFieldError struct {
	Field string
}

func (e *DuplicateFieldError) Error() string {
	return "Duplicate field name: " + e.Field
}

// DecodeError reports bytes that are not valid in the stream's charset.
type DecodeError struct {
	Encoding string
	Offset   int64 // byte offset into the raw stream
	Byte     byte
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s codec can't decode byte 0x%02x at offset %d", e.Encoding, e.Byte, e.Offset)
}
