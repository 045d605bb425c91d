// Package csvparse turns delimited text into nested records.
//
// The first row of the input is the header. Every later row becomes a
// [Record] whose keys come from the header, with dotted header names
// expanded into nested groups:
//
//	a,b.c,b.d
//	foo,bar,baz
//
// parses to one record {"a": "foo", "b": {"c": "bar", "d": "baz"}}.
//
// # Pipeline
//
// Parsing is a chain of pull-based stages, each reading lazily from the
// one before it:
//
//  1. Decoding: bytes are decoded from the requested charset. UTF-8 is
//     validated strictly and a leading BOM is dropped.
//  2. [LineScanner]: splits the text on every line boundary, including
//     lone carriage returns left behind by streams that were not opened
//     in universal-newline mode.
//  3. [RowReader]: splits lines into fields with encoding/csv, honoring
//     quoting and a configurable delimiter.
//  4. [MapRow]: zips header and fields into a [Record].
//
// [Parse] runs the whole chain and returns a [Result], or a single
// [*ParseError] wrapping whatever went wrong. Partial results are never
// returned.
//
// # Values
//
// All cell values stay text. A row shorter than the header leaves the
// trailing keys absent; a longer row has its extra fields dropped.
package csvparse
