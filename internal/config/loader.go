package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Load reads configuration from environment variables.
// It applies defaults for unset values and validates the result.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration and panics on error.
// Use this only in main() where early termination is desired.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

// normalize trims list entries and lowercases enumerations.
func (c *Config) normalize() {
	proxies := make([]string, 0, len(c.Security.TrustedProxies))
	for _, p := range c.Security.TrustedProxies {
		if p = strings.TrimSpace(p); p != "" {
			proxies = append(proxies, p)
		}
	}
	c.Security.TrustedProxies = proxies

	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Source.Kind = strings.ToLower(strings.TrimSpace(c.Source.Kind))
	c.Source.S3.Prefix = strings.Trim(c.Source.S3.Prefix, "/")
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", c.Server.Port))
	}
	if c.Server.ReadTimeout < 0 {
		errs = append(errs, "SERVER_READ_TIMEOUT must be non-negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}

	// Rate limit validation
	if c.Rate.Enabled && c.Rate.RequestsPerMinute <= 0 {
		errs = append(errs, "RATE_LIMIT_REQUESTS_PER_MINUTE must be positive when rate limiting is enabled")
	}
	if c.Rate.Enabled && c.Rate.APILimit <= 0 {
		errs = append(errs, "RATE_LIMIT_API must be positive when rate limiting is enabled")
	}

	// Session validation
	if c.Session.CookieName == "" {
		errs = append(errs, "SESSION_COOKIE_NAME is required")
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, "SESSION_TTL must be positive")
	}
	if c.Session.SweepInterval <= 0 {
		errs = append(errs, "SESSION_SWEEP_INTERVAL must be positive")
	}
	if c.Session.MaxSessions <= 0 {
		errs = append(errs, "SESSION_MAX must be positive")
	}

	// Table validation
	if c.Table.MaxConcurrentLoads <= 0 {
		errs = append(errs, "TABLE_MAX_CONCURRENT_LOADS must be positive")
	}
	if c.Table.LoadTimeout <= 0 {
		errs = append(errs, "TABLE_LOAD_TIMEOUT must be positive")
	}

	// Source validation
	switch c.Source.Kind {
	case SourceGenerator:
	case SourceJSON:
		if c.Source.Dir == "" {
			errs = append(errs, "SOURCE_DIR is required when SOURCE_KIND=json")
		}
	case SourceSQLite:
		if c.Source.SQLitePath == "" {
			errs = append(errs, "SOURCE_SQLITE_PATH is required when SOURCE_KIND=sqlite")
		}
	case SourcePostgres:
		if c.Source.DatabaseURL == "" {
			errs = append(errs, "DATABASE_URL is required when SOURCE_KIND=postgres")
		}
		if c.Source.MaxConns <= 0 {
			errs = append(errs, "DB_MAX_CONNS must be positive")
		}
		if c.Source.MaxConns < c.Source.MinConns {
			errs = append(errs, fmt.Sprintf("DB_MAX_CONNS (%d) must be >= DB_MIN_CONNS (%d)",
				c.Source.MaxConns, c.Source.MinConns))
		}
	case SourceS3:
		if c.Source.S3.Bucket == "" {
			errs = append(errs, "S3_BUCKET is required when SOURCE_KIND=s3")
		}
		if (c.Source.S3.AccessKey == "") != (c.Source.S3.SecretKey == "") {
			errs = append(errs, "S3_ACCESS_KEY and S3_SECRET_KEY must be set together")
		}
	default:
		errs = append(errs, fmt.Sprintf("SOURCE_KIND (%q) must be one of: generator, json, sqlite, postgres, s3", c.Source.Kind))
	}

	// Telemetry validation
	if c.Telemetry.Enabled && c.Telemetry.Endpoint == "" {
		errs = append(errs, "OTEL_EXPORTER_OTLP_ENDPOINT is required when OTEL_ENABLED is true")
	}
	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		errs = append(errs, fmt.Sprintf("OTEL_SAMPLE_RATIO (%v) must be between 0 and 1", c.Telemetry.SampleRatio))
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String returns a safe string representation of the config for logging.
// Secrets such as the database URL and S3 keys are masked.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Server: {Host: %q, Port: %d}, ", c.Server.Host, c.Server.Port))
	b.WriteString(fmt.Sprintf("Source: {Kind: %q, Seed: %d, Dir: %q, DatabaseURL: %s, S3: {Bucket: %q, Keys: %s}}, ",
		c.Source.Kind, c.Source.Seed, c.Source.Dir,
		mask(c.Source.DatabaseURL), c.Source.S3.Bucket, mask(c.Source.S3.SecretKey)))
	b.WriteString(fmt.Sprintf("Session: {TTL: %s, MaxSessions: %d}, ", c.Session.TTL, c.Session.MaxSessions))
	b.WriteString(fmt.Sprintf("Rate: {Enabled: %v, RequestsPerMinute: %d, API: %d}, ",
		c.Rate.Enabled, c.Rate.RequestsPerMinute, c.Rate.APILimit))
	b.WriteString(fmt.Sprintf("Telemetry: {Enabled: %v}, ", c.Telemetry.Enabled))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}",
		c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}

func mask(secret string) string {
	if secret == "" {
		return "[UNSET]"
	}
	return "[MASKED]"
}
