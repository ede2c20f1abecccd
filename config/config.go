package config

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is the Open Brewery DB collection endpoint.
const DefaultBaseURL = "https://api.openbrewerydb.org/breweries"

// Config represents the overall application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Catalog CatalogConfig `yaml:"catalog"`
	Session SessionConfig `yaml:"session"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port                   int           `yaml:"port"`
	ReadTimeoutSeconds     int           `yaml:"read_timeout_seconds"`
	ReadTimeout            time.Duration `yaml:"-"`
	ShutdownTimeoutSeconds int           `yaml:"shutdown_timeout_seconds"`
	ShutdownTimeout        time.Duration `yaml:"-"`
}

// CatalogConfig holds the settings for the upstream brewery directory.
type CatalogConfig struct {
	BaseURL        string        `yaml:"base_url"`
	TimeoutSeconds int           `yaml:"timeout_seconds"`
	Timeout        time.Duration `yaml:"-"` // Ignored by YAML parser
	HTTPProxy      string        `yaml:"http_proxy"`
	UserAgent      string        `yaml:"user_agent"`
}

// SessionConfig controls how long idle list views are kept in memory.
type SessionConfig struct {
	CookieName             string        `yaml:"cookie_name"`
	IdleTTLMinutes         int           `yaml:"idle_ttl_minutes"`
	IdleTTL                time.Duration `yaml:"-"`
	CleanupIntervalMinutes int           `yaml:"cleanup_interval_minutes"`
	CleanupInterval        time.Duration `yaml:"-"`
}

// LogConfig selects the zap logger flavour.
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Load reads the configuration from the given path. A missing file is not an
// error; the defaults are returned instead.
func Load(path string) (*Config, error) {
	var cfg Config

	f, err := os.Open(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		defer f.Close()
		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeoutSeconds <= 0 {
		cfg.Server.ReadTimeoutSeconds = 5
	}
	cfg.Server.ReadTimeout = time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second
	if cfg.Server.ShutdownTimeoutSeconds <= 0 {
		cfg.Server.ShutdownTimeoutSeconds = 5
	}
	cfg.Server.ShutdownTimeout = time.Duration(cfg.Server.ShutdownTimeoutSeconds) * time.Second

	if cfg.Catalog.BaseURL == "" {
		cfg.Catalog.BaseURL = DefaultBaseURL
	}
	if cfg.Catalog.TimeoutSeconds <= 0 {
		cfg.Catalog.TimeoutSeconds = 30
	}
	cfg.Catalog.Timeout = time.Duration(cfg.Catalog.TimeoutSeconds) * time.Second
	if cfg.Catalog.UserAgent == "" {
		cfg.Catalog.UserAgent = "brewery-catalog/1.0"
	}

	if cfg.Session.CookieName == "" {
		cfg.Session.CookieName = "brewery_session"
	}
	if cfg.Session.IdleTTLMinutes <= 0 {
		cfg.Session.IdleTTLMinutes = 30
	}
	cfg.Session.IdleTTL = time.Duration(cfg.Session.IdleTTLMinutes) * time.Minute
	if cfg.Session.CleanupIntervalMinutes <= 0 {
		cfg.Session.CleanupIntervalMinutes = 10
	}
	cfg.Session.CleanupInterval = time.Duration(cfg.Session.CleanupIntervalMinutes) * time.Minute

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// Default returns a configuration populated only with defaults.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}
