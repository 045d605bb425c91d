// Package config provides centralized configuration management for the
// CSV parsing service. It loads configuration from environment variables
// with sensible defaults and validates all settings on startup to fail
// fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Parser   ParserConfig
	Limits   LimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" envAlt:"PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading the request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing the response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// ParserConfig holds the defaults applied when a request does not name
// its own charset or delimiter.
type ParserConfig struct {
	// DefaultCharset is the encoding assumed for payloads (default: utf-8)
	DefaultCharset string `env:"DEFAULT_CHARSET" default:"utf-8"`

	// Delimiter is the default field separator (default: ",")
	Delimiter string `env:"CSV_DELIMITER" default:","`

	// LazyQuotes tolerates stray quotes instead of rejecting the payload (default: false)
	LazyQuotes bool `env:"CSV_LAZY_QUOTES" default:"false"`
}

// LimitConfig bounds the resources a single parse request may use.
type LimitConfig struct {
	// MaxBodySize is the maximum accepted payload in bytes (default: 10MB)
	MaxBodySize int64 `env:"PARSE_MAX_BODY_SIZE" default:"10485760"`

	// MaxConcurrent is the maximum number of parses running at once (default: 8)
	MaxConcurrent int `env:"PARSE_MAX_CONCURRENT" default:"8"`

	// MaxWaitTime is how long a request waits for a parse slot (default: 5s)
	MaxWaitTime time.Duration `env:"PARSE_MAX_WAIT_TIME" default:"5s"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
