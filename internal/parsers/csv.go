package parsers

import (
	"context"
	"io"

	"github.com/JonMunkholm/csvnest/internal/csvparse"
	"github.com/JonMunkholm/csvnest/internal/logging"
)

// CSVMediaType is the media type handled by CSVParser.
const CSVMediaType = "text/csv"

// CSVParser parses text/csv payloads into nested records.
type CSVParser struct {
	defaultCharset   string
	defaultDelimiter string
	lazyQuotes       bool
}

// NewCSVParser returns a parser that falls back to charset and delimiter
// when a request does not specify them.
func NewCSVParser(charset, delimiter string, lazyQuotes bool) *CSVParser {
	return &CSVParser{
		defaultCharset:   charset,
		defaultDelimiter: delimiter,
		lazyQuotes:       lazyQuotes,
	}
}

// MediaType implements Parser.
func (p *CSVParser) MediaType() string {
	return CSVMediaType
}

// Parse implements Parser. The result is a *csvparse.Result; failures
// are *csvparse.ParseError.
func (p *CSVParser) Parse(ctx context.Context, r io.Reader, pctx Context) (any, error) {
	opts := csvparse.Options{
		Encoding:   pctx.Encoding,
		Delimiter:  pctx.Delimiter,
		LazyQuotes: p.lazyQuotes,
	}
	if opts.Encoding == "" {
		opts.Encoding = p.defaultCharset
	}
	if opts.Delimiter == "" {
		opts.Delimiter = p.defaultDelimiter
	}

	logger := logging.FromContext(ctx)

	res, err := csvparse.Parse(r, opts)
	if err != nil {
		logger.Debug("csv parse failed", "encoding", opts.Encoding, "error", err)
		return nil, err
	}

	logger.Debug("csv parsed",
		"encoding", opts.Encoding,
		"delimiter", opts.Delimiter,
		"columns", len(res.Header()),
		"records", res.Len(),
	)
	return res, nil
}
