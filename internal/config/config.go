// Package config loads the service configuration from an optional YAML file,
// environment variables and struct defaults, in that order of precedence
// (environment wins over file, defaults fill whatever is left).
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds the complete application configuration
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	DB      DBConfig      `yaml:"db"`
	Fetch   FetchConfig   `yaml:"fetch"`
	Breaker BreakerConfig `yaml:"breaker"`
	Library LibraryConfig `yaml:"library"`
	Log     LogConfig     `yaml:"log"`
}

// HTTPConfig holds HTTP server settings
type HTTPConfig struct {
	Port         string        `yaml:"port" default:"8080" validate:"required,numeric"`
	ReadTimeout  time.Duration `yaml:"read_timeout" default:"15s" validate:"gt=0"`
	WriteTimeout time.Duration `yaml:"write_timeout" default:"15s" validate:"gt=0"`
}

// DBConfig holds BoltDB settings
type DBConfig struct {
	Path string `yaml:"path" default:"iptv-viewer.db" validate:"required"`
}

// FetchConfig holds playlist retrieval settings
type FetchConfig struct {
	Timeout  time.Duration `yaml:"timeout" default:"30s" validate:"gt=0"`
	MaxBytes int64         `yaml:"max_bytes" default:"33554432" validate:"gt=0"`
	CacheTTL time.Duration `yaml:"cache_ttl" default:"1h" validate:"gte=0"`
}

// BreakerConfig holds circuit breaker settings for remote sources
type BreakerConfig struct {
	FailureThreshold int           `yaml:"failure_threshold" default:"5" validate:"gt=0"`
	Timeout          time.Duration `yaml:"timeout" default:"30s" validate:"gt=0"`
	HalfOpenRequests int           `yaml:"half_open_requests" default:"1" validate:"gt=0"`
}

// LibraryConfig holds settings for playlists read from disk
type LibraryConfig struct {
	Dir string `yaml:"dir" default:"." validate:"required"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
}

// Default returns a Config with every field at its default value
func Default() *Config {
	cfg := &Config{}
	// Only fails on malformed default tags, which would be a programming error.
	if err := defaults.Set(cfg); err != nil {
		panic(err)
	}
	return cfg
}

// Validate performs validation on the configuration
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}
	return nil
}

// SlogLevel returns the configured level as a slog.Level
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LoadFromFile loads configuration from a YAML file, filling unset fields
// with defaults. Environment variables are not applied.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}
	if err := defaults.Set(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	return cfg, nil
}

// Load reads the file named by CONFIG_FILE (default config.yaml) when it
// exists, applies environment variable overrides, fills defaults and validates.
func Load() (*Config, error) {
	configPath := os.Getenv("CONFIG_FILE")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg := &Config{}
	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "failed to parse config file %s", configPath)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to apply environment overrides")
	}

	if err := defaults.Set(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	libDir, err := absDir(cfg.Library.Dir)
	if err != nil {
		return nil, err
	}
	cfg.Library.Dir = libDir

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration
func applyEnvOverrides(cfg *Config) error {
	if val := os.Getenv("PORT"); val != "" {
		cfg.HTTP.Port = val
	}
	if val := os.Getenv("DB_PATH"); val != "" {
		cfg.DB.Path = val
	}
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		cfg.Log.Level = strings.ToLower(val)
	}
	if val := os.Getenv("LIBRARY_DIR"); val != "" {
		cfg.Library.Dir = val
	}

	if err := parseDurationEnv("FETCH_TIMEOUT", &cfg.Fetch.Timeout); err != nil {
		return err
	}
	if err := parseDurationEnv("FETCH_CACHE_TTL", &cfg.Fetch.CacheTTL); err != nil {
		return err
	}
	if val := os.Getenv("FETCH_MAX_BYTES"); val != "" {
		size, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return errors.Wrap(err, "invalid FETCH_MAX_BYTES")
		}
		if size <= 0 {
			return errors.Newf("FETCH_MAX_BYTES must be positive, got: %s", val)
		}
		cfg.Fetch.MaxBytes = size
	}

	return nil
}

func parseDurationEnv(name string, target *time.Duration) error {
	val := os.Getenv(name)
	if val == "" {
		return nil
	}
	duration, err := time.ParseDuration(val)
	if err != nil {
		return errors.Wrapf(err, "invalid %s format (expected duration like '1h', '30m')", name)
	}
	if duration <= 0 {
		return errors.Newf("%s must be positive, got: %s", name, val)
	}
	*target = duration
	return nil
}

// absDir normalizes dir to an absolute path
func absDir(dir string) (string, error) {
	if filepath.IsAbs(dir) {
		return dir, nil
	}
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Wrapf(err, "failed to resolve absolute path for %s", dir)
	}
	return absPath, nil
}
