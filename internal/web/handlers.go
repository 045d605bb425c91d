package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/JonMunkholm/csvnest/internal/logging"
	"github.com/JonMunkholm/csvnest/internal/parsers"
	"github.com/google/uuid"
)

// ErrUnsupportedMediaType is returned when no parser handles the
// request's Content-Type.
var ErrUnsupportedMediaType = errors.New("unsupported media type")

// parseResponse is the body of a successful POST /api/parse.
type parseResponse struct {
	ParseID   string `json:"parse_id"`
	MediaType string `json:"media_type"`
	Data      any    `json:"data"`
}

// handleParse parses the request body with the parser registered for its
// Content-Type.
//
// The charset parameter of the Content-Type, or the encoding query
// parameter, selects the charset; the delimiter query parameter selects
// the field delimiter. Either falls back to the parser's defaults.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	contentType := r.Header.Get("Content-Type")
	parser, ok := s.parsers.Lookup(contentType)
	if !ok {
		s.respondError(w, r, fmt.Errorf("%w: %q", ErrUnsupportedMediaType, contentType), http.StatusUnsupportedMediaType)
		return
	}

	if err := s.limiter.Acquire(r.Context()); err != nil {
		if r.Context().Err() != nil {
			logging.FromContext(r.Context()).Warn("request ended while waiting for a parse slot", "error", err)
			return
		}
		s.respondError(w, r, err, http.StatusServiceUnavailable)
		return
	}
	defer s.limiter.Release()

	query := r.URL.Query()
	pctx := parsers.Context{
		Encoding:  parsers.Charset(contentType),
		Delimiter: query.Get("delimiter"),
	}
	if enc := query.Get("encoding"); enc != "" {
		pctx.Encoding = enc
	}

	parseID := uuid.New().String()
	w.Header().Set("X-Parse-ID", parseID)
	logger := logging.WithFields(r.Context(),
		"parse_id", parseID,
		"media_type", parser.MediaType(),
	)

	body := &countingReader{r: http.MaxBytesReader(w, r.Body, s.cfg.Limits.MaxBodySize)}
	start := time.Now()

	data, err := parser.Parse(r.Context(), body, pctx)

	// The timeout middleware owns the response once the deadline passes.
	if ctxErr := r.Context().Err(); ctxErr != nil {
		logger.Warn("parse abandoned",
			"error", ctxErr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return
	}

	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		s.respondError(w, r, err, status)
		return
	}

	logger.Info("parse completed",
		"bytes", body.n,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	writeJSON(w, http.StatusOK, parseResponse{
		ParseID:   parseID,
		MediaType: parser.MediaType(),
		Data:      data,
	})
}

// handleListParsers lists the media types the server accepts.
func (s *Server) handleListParsers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{
		"media_types": s.parsers.MediaTypes(),
	})
}

// handleHealth reports liveness and parse slot usage.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"limiter": s.limiter.Status(),
	})
}

// countingReader tracks how many body bytes the parser consumed.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
