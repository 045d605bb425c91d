package csvparse

import (
	"errors"
	"io"
	"slices"
	"strings"
	"testing"
)

func readRows(t *testing.T, input string, opts Options) [][]string {
	t.Helper()

	rr, err := NewRowReader(strings.NewReader(input), opts)
	if err != nil {
		t.Fatalf("NewRowReader error = %v", err)
	}

	var rows [][]string
	for {
		row, err := rr.Read()
		if errors.Is(err, io.EOF) {
			return rows
		}
		if err != nil {
			t.Fatalf("Read error = %v", err)
		}
		rows = append(rows, row)
	}
}

func TestRowReader_BlankLines(t *testing.T) {
	rows := readRows(t, "a,b\n\nfoo,bar\n", Options{})

	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3: %q", len(rows), rows)
	}
	if rows[1] == nil || len(rows[1]) != 0 {
		t.Errorf("blank line = %#v, want empty non-nil row", rows[1])
	}
	if !slices.Equal(rows[2], []string{"foo", "bar"}) {
		t.Errorf("row after blank line = %q", rows[2])
	}
}

func TestRowReader_Records(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  Options
		want  [][]string
	}{
		{
			name:  "quoted newline",
			input: "\"a\nb\",c\nd,e\n",
			want:  [][]string{{"a\nb", "c"}, {"d", "e"}},
		},
		{
			name:  "escaped quote before line end",
			input: "\"x\"\"\ny\"\nz\n",
			want:  [][]string{{"x\"\ny"}, {"z"}},
		},
		{
			name:  "quote inside unquoted field is not an opener",
			input: "a\"b\n\nc\n",
			opts:  Options{LazyQuotes: true},
			want:  [][]string{{"a\"b"}, {}, {"c"}},
		},
		{
			name:  "lazy quote inside quoted field",
			input: "\"a\"b\nc\",d\n",
			opts:  Options{LazyQuotes: true},
			want:  [][]string{{"a\"b\nc", "d"}},
		},
		{
			name:  "custom delimiter closes quotes",
			input: "\"a\";b\n\n",
			opts:  Options{Delimiter: ";"},
			want:  [][]string{{"a", "b"}, {}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := readRows(t, tt.input, tt.opts)
			if len(got) != len(tt.want) {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
			for i := range got {
				if !slices.Equal(got[i], tt.want[i]) {
					t.Errorf("row %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestQuoteTracker(t *testing.T) {
	tests := []struct {
		line     string
		wantOpen bool
	}{
		{"", false},
		{"a,b", false},
		{`"a,b"`, false},
		{`"a`, true},
		{`x,"a`, true},
		{`x"a`, false},
		{`"a""`, true},
		{`"a"""`, false},
		{`"a",x`, false},
		{`"a"x`, true},
	}

	for _, tt := range tests {
		q := quoteTracker{comma: ','}
		q.scan(tt.line)
		if q.open != tt.wantOpen {
			t.Errorf("scan(%q) open = %v, want %v", tt.line, q.open, tt.wantOpen)
		}
	}
}
