// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server    ServerConfig
	Logging   LoggingConfig
	Security  SecurityConfig
	Rate      RateLimitConfig
	Session   SessionConfig
	Table     TableConfig
	Source    SourceConfig
	Telemetry TelemetryConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" envDefault:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" envDefault:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`

	// WriteTimeout is the maximum duration for writing a response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" envDefault:"60s"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" envDefault:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" envDefault:"true"`

	// SecureCookies marks the session cookie Secure (default: false)
	SecureCookies bool `env:"SECURITY_SECURE_COOKIES" envDefault:"false"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"`

	// RequestsPerMinute is the page rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" envDefault:"100"`

	// APILimit is requests per minute for table API endpoints. Drag tracking
	// posts on every pointer move, so this is higher (default: 1200)
	APILimit int `env:"RATE_LIMIT_API" envDefault:"1200"`
}

// SessionConfig holds dashboard session settings.
type SessionConfig struct {
	// CookieName is the session cookie name (default: admindash_session)
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"admindash_session"`

	// TTL is how long an idle session keeps its tables mounted (default: 30m)
	TTL time.Duration `env:"SESSION_TTL" envDefault:"30m"`

	// SweepInterval is how often expired sessions are unmounted (default: 1m)
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"1m"`

	// MaxSessions caps live sessions; the least recently used is evicted (default: 1000)
	MaxSessions int `env:"SESSION_MAX" envDefault:"1000"`
}

// TableConfig holds table mounting settings.
type TableConfig struct {
	// MaxConcurrentLoads is the number of tables that may load at once (default: 4)
	MaxConcurrentLoads int `env:"TABLE_MAX_CONCURRENT_LOADS" envDefault:"4"`

	// LoadWait is how long to wait for a load slot (default: 10s)
	LoadWait time.Duration `env:"TABLE_LOAD_WAIT" envDefault:"10s"`

	// LoadTimeout bounds a single source load (default: 15s)
	LoadTimeout time.Duration `env:"TABLE_LOAD_TIMEOUT" envDefault:"15s"`
}

// Source kinds.
const (
	SourceGenerator = "generator"
	SourceJSON      = "json"
	SourceSQLite    = "sqlite"
	SourcePostgres  = "postgres"
	SourceS3        = "s3"
)

// SourceConfig selects where table rows are loaded from.
type SourceConfig struct {
	// Kind is generator, json, sqlite, postgres or s3 (default: generator)
	Kind string `env:"SOURCE_KIND" envDefault:"generator"`

	// Seed makes generated rows reproducible; 0 draws a fresh seed per mount (default: 0)
	Seed uint64 `env:"SOURCE_SEED" envDefault:"0"`

	// Dir holds <dataset>.json files for the json source (default: ./data)
	Dir string `env:"SOURCE_DIR" envDefault:"./data"`

	// SQLitePath is the database file for the sqlite source (default: admindash.db)
	SQLitePath string `env:"SOURCE_SQLITE_PATH" envDefault:"admindash.db"`

	// DatabaseURL is the PostgreSQL connection string for the postgres source
	DatabaseURL string `env:"DATABASE_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 10)
	MaxConns int32 `env:"DB_MAX_CONNS" envDefault:"10"`

	// MinConns is the minimum number of connections to keep open (default: 0)
	MinConns int32 `env:"DB_MIN_CONNS" envDefault:"0"`

	S3 S3Config
}

// S3Config holds settings for the s3 source.
type S3Config struct {
	Bucket       string `env:"S3_BUCKET"`
	Prefix       string `env:"S3_PREFIX"`
	Region       string `env:"S3_REGION" envDefault:"us-east-1"`
	Endpoint     string `env:"S3_ENDPOINT"`
	AccessKey    string `env:"S3_ACCESS_KEY"`
	SecretKey    string `env:"S3_SECRET_KEY"`
	UsePathStyle bool   `env:"S3_USE_PATH_STYLE" envDefault:"false"`
}

// TelemetryConfig holds OpenTelemetry tracing settings.
type TelemetryConfig struct {
	// Enabled turns on trace export (default: false)
	Enabled bool `env:"OTEL_ENABLED" envDefault:"false"`

	// Endpoint is the OTLP/HTTP collector host:port
	Endpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`

	// Insecure disables TLS to the collector (default: true)
	Insecure bool `env:"OTEL_EXPORTER_OTLP_INSECURE" envDefault:"true"`

	// ServiceName is reported as service.name (default: admindash)
	ServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"admindash"`

	// SampleRatio is the fraction of traces kept, 0..1 (default: 1)
	SampleRatio float64 `env:"OTEL_SAMPLE_RATIO" envDefault:"1"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	if c.Host == "" {
		return ":" + strconv.Itoa(c.Port)
	}
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
