package csvparse

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
)

func readText(t *testing.T, r io.Reader, charset string) (string, error) {
	t.Helper()
	tr, err := newTextReader(r, charset)
	if err != nil {
		t.Fatalf("newTextReader(%q) error = %v", charset, err)
	}
	out, err := io.ReadAll(tr)
	return string(out), err
}

func TestNewTextReader(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		charset string
		want    string
	}{
		{"default is utf-8", "héllo", "", "héllo"},
		{"utf-8 spelled utf8", "héllo", "UTF8", "héllo"},
		{"bom stripped", "\xEF\xBB\xBFa,b", "utf-8", "a,b"},
		{"only bom", "\xEF\xBB\xBF", "utf-8", ""},
		{"partial bom kept", "\xEF\xBBa", "latin-1", "ï»a"},
		{"latin-1", "caf\xe9", "latin-1", "café"},
		{"iso-8859-1", "caf\xe9", "ISO-8859-1", "café"},
		{"windows-1252", "\x80 5", "windows-1252", "€ 5"},
		{"replacement char is valid utf-8", "a\uFFFDb", "utf-8", "a\uFFFDb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readText(t, strings.NewReader(tt.input), tt.charset)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewTextReader_MultibyteAcrossReads(t *testing.T) {
	input := "naïve,日本語\n"
	got, err := readText(t, iotest.OneByteReader(strings.NewReader(input)), "utf-8")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != input {
		t.Errorf("got %q, want %q", got, input)
	}
}

func TestNewTextReader_InvalidUTF8(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantPrefix string
		wantOffset int64
		wantByte   byte
	}{
		{"invalid start byte", "ab\xffcd", "ab", 2, 0xff},
		{"truncated sequence at eof", "ab\xc3", "ab", 2, 0xc3},
		{"offset counts bom", "\xEF\xBB\xBFa\xff", "a", 4, 0xff},
		{"lone continuation byte", "\x80", "", 0, 0x80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readText(t, strings.NewReader(tt.input), "utf-8")

			var decErr *DecodeError
			if !errors.As(err, &decErr) {
				t.Fatalf("error = %v, want *DecodeError", err)
			}
			if decErr.Offset != tt.wantOffset {
				t.Errorf("Offset = %d, want %d", decErr.Offset, tt.wantOffset)
			}
			if decErr.Byte != tt.wantByte {
				t.Errorf("Byte = 0x%02x, want 0x%02x", decErr.Byte, tt.wantByte)
			}
			if got != tt.wantPrefix {
				t.Errorf("valid prefix = %q, want %q", got, tt.wantPrefix)
			}
		})
	}
}

func TestLookupEncoding_Unknown(t *testing.T) {
	_, err := LookupEncoding("klingon")
	if err == nil {
		t.Fatal("expected error for unknown encoding")
	}
	if err.Error() != "unknown encoding: klingon" {
		t.Errorf("error = %q", err.Error())
	}
}

func TestNewTextReader_InvalidAfterLongPrefix(t *testing.T) {
	prefix := strings.Repeat("é,abc\n", 10000)
	input := prefix + "x\xfey"

	got, err := readText(t, iotest.HalfReader(strings.NewReader(input)), "utf-8")

	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("error = %v, want *DecodeError", err)
	}
	if want := int64(len(prefix) + 1); decErr.Offset != want {
		t.Errorf("Offset = %d, want %d", decErr.Offset, want)
	}
	if decErr.Byte != 0xfe {
		t.Errorf("Byte = 0x%02x, want 0xfe", decErr.Byte)
	}
	if got != prefix+"x" {
		t.Errorf("valid prefix has %d bytes, want %d", len(got), len(prefix)+1)
	}
}

func TestByteTap(t *testing.T) {
	tap := &byteTap{r: strings.NewReader(strings.Repeat("a", tapWindow) + "bc"), end: 3}
	if _, err := io.ReadAll(tap); err != nil {
		t.Fatalf("ReadAll: %v", err)
	}

	tests := []struct {
		off    int64
		want   byte
		wantOK bool
	}{
		{off: 3, wantOK: false},
		{off: 4, wantOK: false},
		{off: 3 + tapWindow, want: 'b', wantOK: true},
		{off: 4 + tapWindow, want: 'c', wantOK: true},
		{off: 5 + tapWindow, wantOK: false},
	}

	for _, tt := range tests {
		got, ok := tap.at(tt.off)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("at(%d) = %q, %v; want %q, %v", tt.off, got, ok, tt.want, tt.wantOK)
		}
	}
}
