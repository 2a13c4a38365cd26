package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress        string
	DatabaseURI       string
	LegacyDatabaseURI string

	JWTSecret     string
	JWTIssuer     string
	JWTAudience   string
	JWTExpiration time.Duration

	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	LogLevel        string

	TraceQueueSize     int
	TraceBatchSize     int
	TraceFlushInterval time.Duration
	TraceWorkers       int
}

const (
	defaultRunAddress         = ":8080"
	defaultJWTIssuer          = "betacycle"
	defaultJWTAudience        = "betacycle-clients"
	defaultJWTExpirationMin   = 60
	defaultRequestTimeout     = 10 * time.Second
	defaultShutdownTimeout    = 10 * time.Second
	defaultLogLevel           = "info"
	defaultTraceQueueSize     = 256
	defaultTraceBatchSize     = 32
	defaultTraceFlushInterval = 2 * time.Second
	defaultTraceWorkers       = 2
	defaultEnvFile            = ".env"
)

// DefaultJWTSecret is the well-known signing key used when none is configured.
const DefaultJWTSecret = "change-me-in-production"

// UsesDefaultJWTSecret reports whether tokens would be signed with DefaultJWTSecret.
func (c *Config) UsesDefaultJWTSecret() bool {
	return c.JWTSecret == DefaultJWTSecret
}

// Load reads an optional .env file, then parses environment variables and flags.
func Load() (*Config, error) {
	if err := loadEnvFile(getString(os.LookupEnv, "ENV_FILE", defaultEnvFile)); err != nil {
		return nil, err
	}
	return load(os.Args[1:], os.LookupEnv)
}

// loadEnvFile exports variables from path unless they are already set. A missing file is not an error.
func loadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:         getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:        getString(lookup, "DATABASE_URI", ""),
		LegacyDatabaseURI:  getString(lookup, "LEGACY_DATABASE_URI", ""),
		JWTSecret:          getString(lookup, "JWT_SECRET", DefaultJWTSecret),
		JWTIssuer:          getString(lookup, "JWT_ISSUER", defaultJWTIssuer),
		JWTAudience:        getString(lookup, "JWT_AUDIENCE", defaultJWTAudience),
		RequestTimeout:     getDuration(lookup, "REQUEST_TIMEOUT", defaultRequestTimeout),
		ShutdownTimeout:    getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		LogLevel:           getString(lookup, "LOG_LEVEL", defaultLogLevel),
		TraceQueueSize:     getInt(lookup, "TRACE_QUEUE_SIZE", defaultTraceQueueSize),
		TraceBatchSize:     getInt(lookup, "TRACE_BATCH_SIZE", defaultTraceBatchSize),
		TraceFlushInterval: getDuration(lookup, "TRACE_FLUSH_INTERVAL", defaultTraceFlushInterval),
		TraceWorkers:       getInt(lookup, "TRACE_WORKERS", defaultTraceWorkers),
	}
	expirationMinutes := getInt(lookup, "JWT_EXPIRATION_MINUTES", defaultJWTExpirationMin)

	flags := flag.NewFlagSet("betacycle", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	var (
		requestTimeoutStr  = cfg.RequestTimeout.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		traceFlushStr      = cfg.TraceFlushInterval.String()
	)

	flags.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	flags.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN of the user store")
	flags.StringVar(&cfg.LegacyDatabaseURI, "l", cfg.LegacyDatabaseURI, "PostgreSQL DSN of the legacy customer store")
	flags.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing auth tokens")
	flags.StringVar(&cfg.JWTIssuer, "jwt-issuer", cfg.JWTIssuer, "Issuer claim of auth tokens")
	flags.StringVar(&cfg.JWTAudience, "jwt-audience", cfg.JWTAudience, "Audience claim of auth tokens")
	flags.IntVar(&expirationMinutes, "jwt-expiration", expirationMinutes, "Auth token lifetime in minutes")
	flags.StringVar(&requestTimeoutStr, "request-timeout", requestTimeoutStr, "Per request timeout")
	flags.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn or error")
	flags.IntVar(&cfg.TraceQueueSize, "trace-queue", cfg.TraceQueueSize, "Capacity of the frontend trace queue")
	flags.IntVar(&cfg.TraceBatchSize, "trace-batch", cfg.TraceBatchSize, "Maximum traces per insert batch")
	flags.StringVar(&traceFlushStr, "trace-flush", traceFlushStr, "Interval between trace flushes")
	flags.IntVar(&cfg.TraceWorkers, "trace-workers", cfg.TraceWorkers, "Number of concurrent trace writers")

	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.RequestTimeout, err = time.ParseDuration(requestTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid request timeout: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.TraceFlushInterval, err = time.ParseDuration(traceFlushStr); err != nil {
		return nil, fmt.Errorf("invalid trace flush interval: %w", err)
	}

	if secretFile, ok := lookup("JWT_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt secret file: %w", err)
		}
		cfg.JWTSecret = strings.TrimSpace(string(content))
	}

	if expirationMinutes <= 0 {
		expirationMinutes = defaultJWTExpirationMin
	}
	cfg.JWTExpiration = time.Duration(expirationMinutes) * time.Minute

	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.TraceQueueSize <= 0 {
		cfg.TraceQueueSize = defaultTraceQueueSize
	}

	if cfg.TraceBatchSize <= 0 {
		cfg.TraceBatchSize = defaultTraceBatchSize
	}

	if cfg.TraceFlushInterval <= 0 {
		cfg.TraceFlushInterval = defaultTraceFlushInterval
	}

	if cfg.TraceWorkers <= 0 {
		cfg.TraceWorkers = defaultTraceWorkers
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.LegacyDatabaseURI == "" {
		return nil, fmt.Errorf("legacy database URI must be provided")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt secret must not be empty")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
