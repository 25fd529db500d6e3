package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var (
	ErrConfigFileNotFound    = errors.New("could not find config file in any config path")
	ErrConfigVersionMissing  = errors.New("config file is missing version field")
	ErrConfigVersionMismatch = errors.New("config file version mismatch")
	ErrInvalidEnvFile        = errors.New("invalid .env file")
)

// CurrentVersion is the version of the config file format.
const CurrentVersion = 1

// FileName is the name of the config file looked up in every search path.
const FileName = "hubkit.toml"

// EnvPrefix prefixes environment overrides. A double underscore separates
// sections, so HUBKIT_API__BASE_URL sets api.base_url.
const EnvPrefix = "HUBKIT_"

// BackendURLEnv overrides api.base_url. It is the variable the web frontend uses.
const BackendURLEnv = "NEXT_PUBLIC_BACKEND_URL"

// Config represents the entire application configuration.
type Config struct {
	// Version of the config file.
	Version        int            `koanf:"version"`
	Debug          Debug          `koanf:"debug"`
	API            API            `koanf:"api"`
	CircuitBreaker CircuitBreaker `koanf:"circuit_breaker"`
	Retry          Retry          `koanf:"retry"`
	Redis          Redis          `koanf:"redis"`
	Session        Session        `koanf:"session"`
	Telemetry      Telemetry      `koanf:"telemetry"`
	Export         Export         `koanf:"export"`
}

// Debug contains debug-related configuration.
type Debug struct {
	// Log level (debug, info, warn, error).
	LogLevel string `koanf:"log_level"`
	// Maximum log sessions to keep.
	MaxLogsToKeep int `koanf:"max_logs_to_keep"`
	// Enable the pprof and metrics endpoint.
	EnableDebugServer bool `koanf:"enable_debug_server"`
	// Debug server port.
	DebugPort int `koanf:"debug_port"`
}

// API contains backend connection configuration.
type API struct {
	// Base URL of the learning-hub backend.
	BaseURL string `koanf:"base_url"`
	// Request timeout in milliseconds.
	RequestTimeout int `koanf:"request_timeout"`
}

// CircuitBreaker contains circuit breaker configuration.
type CircuitBreaker struct {
	// Maximum number of requests allowed to pass through when the circuit is half-open.
	MaxRequests uint32 `koanf:"max_requests"`
	// The cyclic period of the closed state for the circuit breaker to clear the internal counts.
	Interval int `koanf:"interval"`
	// The period of the open state after which the state of the circuit breaker becomes half-open.
	Timeout int `koanf:"timeout"`
}

// Retry contains retry configuration. Zero retries disables the middleware.
type Retry struct {
	// Maximum retry attempts.
	MaxRetries uint64 `koanf:"max_retries"`
	// Initial retry delay in milliseconds.
	Delay int `koanf:"delay"`
	// Maximum retry delay in milliseconds.
	MaxDelay int `koanf:"max_delay"`
}

// Redis contains Redis connection configuration.
type Redis struct {
	// Redis hostname.
	Host string `koanf:"host"`
	// Redis port.
	Port int `koanf:"port"`
	// Redis username.
	Username string `koanf:"username"`
	// Redis password.
	Password string `koanf:"password"`
}

// Session contains viewer session configuration.
type Session struct {
	// Profile name the session is stored under.
	Profile string `koanf:"profile"`
	// HS256 secret used to verify session tokens. Empty skips verification.
	JWTSecret string `koanf:"jwt_secret"`
}

// Telemetry contains tracing configuration.
type Telemetry struct {
	// Uptrace DSN. Empty disables trace export.
	UptraceDSN string `koanf:"uptrace_dsn"`
	// Service name reported with traces.
	ServiceName string `koanf:"service_name"`
}

// Export contains archive export configuration.
type Export struct {
	// Maximum concurrent post fetches.
	Concurrency int `koanf:"concurrency"`
}

// defaults are applied before any file or environment value.
var defaults = map[string]any{
	"debug.log_level":              "info",
	"debug.max_logs_to_keep":       10,
	"debug.debug_port":             6061,
	"api.request_timeout":          10000,
	"circuit_breaker.max_requests": uint32(5),
	"circuit_breaker.interval":     60000,
	"circuit_breaker.timeout":      30000,
	"retry.delay":                  500,
	"retry.max_delay":              2000,
	"redis.host":                   "localhost",
	"redis.port":                   6379,
	"session.profile":              "default",
	"telemetry.service_name":       "hubkit",
	"export.concurrency":           4,
}

// LoadConfig loads hubkit.toml from the first search path that has one, then
// applies .env and environment overrides. It returns the directory the file
// was found in.
func LoadConfig() (*Config, string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return Load([]string{
		".hubkit",
		homeDir + "/.hubkit/config",
		"/etc/hubkit/config",
		"config",
		".",
	})
}

// Load is LoadConfig with explicit search paths.
func Load(configPaths []string) (*Config, string, error) {
	k := koanf.New(".")

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return nil, "", fmt.Errorf("failed to set default %s: %w", key, err)
		}
	}

	var usedConfigPath string

	for _, path := range configPaths {
		configPath := fmt.Sprintf("%s/%s", path, FileName)
		if err := k.Load(file.Provider(configPath), toml.Parser()); err == nil {
			usedConfigPath = path
			break
		}
	}

	if usedConfigPath == "" {
		return nil, "", fmt.Errorf("%w: %s", ErrConfigFileNotFound, FileName)
	}

	// A missing .env is normal; existing variables win over it
	if err := godotenv.Load(usedConfigPath + "/.env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, "", fmt.Errorf("%w: %w", ErrInvalidEnvFile, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, "", fmt.Errorf("failed to load environment overrides: %w", err)
	}

	if backendURL := os.Getenv(BackendURLEnv); backendURL != "" {
		if err := k.Set("api.base_url", backendURL); err != nil {
			return nil, "", fmt.Errorf("failed to apply %s: %w", BackendURLEnv, err)
		}
	}

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, "", fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := checkConfigVersion(config.Version, CurrentVersion); err != nil {
		return nil, "", err
	}

	return &config, usedConfigPath, nil
}

// checkConfigVersion checks if the config file version is correct.
func checkConfigVersion(current, expected int) error {
	if current == 0 {
		return fmt.Errorf("%w: %s", ErrConfigVersionMissing, FileName)
	}

	if current != expected {
		return fmt.Errorf(
			"%w: %s (got: %d, expected: %d)",
			ErrConfigVersionMismatch,
			FileName,
			current,
			expected,
		)
	}

	return nil
}
