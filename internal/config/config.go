// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Ingest   IngestConfig
	Ranges   RangesConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" envAlt:"PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// IngestConfig holds the location and limits of device exports.
type IngestConfig struct {
	// DataDir holds measurement exports (default: GRAPHV1/DATA)
	DataDir string `env:"DATA_DIR" default:"GRAPHV1/DATA"`

	// SystemDir holds profile exports (default: GRAPHV1/SYSTEM)
	SystemDir string `env:"SYSTEM_DIR" default:"GRAPHV1/SYSTEM"`

	// MaxFileSize is the maximum accepted size of one file in bytes (default: 10MB)
	MaxFileSize int64 `env:"INGEST_MAX_FILE_SIZE" default:"10485760"`

	// DataPattern selects measurement files in DataDir (default: DATA*.CSV)
	DataPattern string `env:"INGEST_DATA_PATTERN" default:"DATA*.CSV"`

	// ProfilePattern selects profile files in SystemDir (default: PROF*.CSV)
	ProfilePattern string `env:"INGEST_PROFILE_PATTERN" default:"PROF*.CSV"`

	// MaxConcurrent is the number of analyses the server runs at once (default: 4)
	MaxConcurrent int `env:"INGEST_MAX_CONCURRENT" default:"4"`

	// MaxWait is how long an analysis waits for a free slot (default: 10s)
	MaxWait time.Duration `env:"INGEST_MAX_WAIT" default:"10s"`
}

// RangesConfig overrides the generic classification partitions, used when
// a measurement's sex is not recognized. Each value is a comma-separated
// list of ascending edges with one more entry than the metric has labels.
type RangesConfig struct {
	GenericBodyFat []float64 `env:"RANGES_GENERIC_BODY_FAT"`
	GenericMuscle  []float64 `env:"RANGES_GENERIC_MUSCLE"`
	GenericWater   []float64 `env:"RANGES_GENERIC_WATER"`
}

// RateLimitConfig holds per-client request limits for the HTTP API.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// AnalyzeLimit is requests per minute for POST /api/analyze (default: 10)
	AnalyzeLimit int `env:"RATE_LIMIT_ANALYZE" default:"10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of proxy CIDRs whose
	// X-Real-IP and X-Forwarded-For headers are believed
	TrustedProxies []string `env:"TRUSTED_PROXIES"`
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
