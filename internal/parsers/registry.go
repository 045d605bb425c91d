// Package parsers maps request media types to payload parsers.
//
// A host builds a Registry at startup, registers one Parser per media
// type, and looks the parser up from each request's Content-Type. The
// per-request Context carries the charset and delimiter the client
// asked for; parsers fill in their own defaults for anything left blank.
package parsers

import (
	"context"
	"fmt"
	"io"
	"mime"
	"sort"
	"strings"
	"sync"
)

// Context holds per-request parsing hints.
type Context struct {
	Encoding  string
	Delimiter string
}

// Parser decodes a request payload of one media type.
type Parser interface {
	// MediaType returns the base media type handled, e.g. "text/csv".
	MediaType() string

	// Parse reads the whole payload. It must not close r.
	Parse(ctx context.Context, r io.Reader, pctx Context) (any, error)
}

// Registry holds parsers keyed by media type. It is safe for
// concurrent use.
type Registry struct {
	mu      sync.RWMutex
	parsers map[string]Parser
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds p under its media type.
// Panics if a parser for the same media type is already registered.
func (reg *Registry) Register(p Parser) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	key := normalize(p.MediaType())
	if _, exists := reg.parsers[key]; exists {
		panic(fmt.Sprintf("parser already registered: %s", key))
	}
	reg.parsers[key] = p
}

// Lookup returns the parser for a Content-Type value. Parameters such as
// charset are ignored and matching is case-insensitive.
func (reg *Registry) Lookup(contentType string) (Parser, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	p, ok := reg.parsers[normalize(contentType)]
	return p, ok
}

// MediaTypes returns the registered media types, sorted.
func (reg *Registry) MediaTypes() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	types := make([]string, 0, len(reg.parsers))
	for mt := range reg.parsers {
		types = append(types, mt)
	}
	sort.Strings(types)
	return types
}

// normalize strips parameters and case from a media type.
func normalize(contentType string) string {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		return mt
	}
	mt, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}

// Charset returns the charset parameter of a Content-Type value, or "".
func Charset(contentType string) string {
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return params["charset"]
}
