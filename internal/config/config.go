// Package config loads cardcollector settings from ~/.cardcollector/config.yaml,
// an optional .env file and COLLECTOR_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// SchemaVersion is the config file layout written by this build.
const SchemaVersion = "1.0.0"

// supportedSchema accepts any 1.x config file.
const supportedSchema = "^1.0.0"

// Defaults.
const (
	DefaultServerURL      = "http://localhost:5000"
	DefaultTimeoutSeconds = 30
	DefaultDebounceMS     = 250
	DefaultMinSearchLen   = 3
	DefaultCacheTTL       = 86400
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "console"
	DefaultOutputFormat   = "table"
	DefaultSort           = "name:asc"
	configFileName        = "config.yaml"
)

// Validation errors.
var (
	ErrUnsupportedSchema = errors.New("unsupported config schema version")
	ErrInvalidServerURL  = errors.New("server.url must start with http:// or https://")
	ErrInvalidTimeout    = errors.New("server.timeout_seconds must be > 0")
	ErrInvalidDebounce   = errors.New("search.debounce_ms must be >= 0")
	ErrInvalidMinLength  = errors.New("search.min_length must be >= 0")
	ErrInvalidFormat     = errors.New("output.default_format must be one of table, json, yaml")
	ErrUnknownKey        = errors.New("unknown config key")
)

// ServerConfig points at the collection web service.
type ServerConfig struct {
	URL            string `yaml:"url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	Username       string `yaml:"username,omitempty"`
}

// CollectionConfig holds collection browsing defaults.
type CollectionConfig struct {
	DefaultSort string `yaml:"default_sort"`
}

// SearchConfig controls search-as-you-type behavior.
type SearchConfig struct {
	DebounceMS int `yaml:"debounce_ms"`
	MinLength  int `yaml:"min_length"`
}

// CacheConfig controls the on-disk lookup cache.
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled"`
	TTLSeconds int    `yaml:"ttl_seconds"`
	Directory  string `yaml:"directory,omitempty"`
}

// LoggingConfig controls the application logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
}

// OutputConfig controls non-interactive output.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
}

// Config is the full cardcollector configuration.
type Config struct {
	Version    string           `yaml:"version"`
	Server     ServerConfig     `yaml:"server"`
	Collection CollectionConfig `yaml:"collection"`
	Search     SearchConfig     `yaml:"search"`
	Cache      CacheConfig      `yaml:"cache"`
	Logging    LoggingConfig    `yaml:"logging"`
	Output     OutputConfig     `yaml:"output"`

	path string
}

// Default returns a Config populated with built-in defaults only.
func Default() *Config {
	return &Config{
		Version: SchemaVersion,
		Server: ServerConfig{
			URL:            DefaultServerURL,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		Collection: CollectionConfig{DefaultSort: DefaultSort},
		Search: SearchConfig{
			DebounceMS: DefaultDebounceMS,
			MinLength:  DefaultMinSearchLen,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: DefaultCacheTTL,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Output: OutputConfig{DefaultFormat: DefaultOutputFormat},
	}
}

// New loads the user config file (if present), the .env file and environment
// overrides on top of the defaults. Load problems leave the defaults in place.
func New() *Config {
	cfg := Default()

	dir, err := GetConfigDir()
	if err != nil {
		cfg.ApplyEnv()
		return cfg
	}

	cfg.path = filepath.Join(dir, configFileName)
	if _, statErr := os.Stat(cfg.path); statErr == nil {
		_ = cfg.Load(cfg.path)
	}

	LoadDotEnv(dir)
	cfg.ApplyEnv()
	return cfg
}

// Path returns the file the config was loaded from or will be saved to.
func (c *Config) Path() string {
	if c.path != "" {
		return c.path
	}
	dir, err := GetConfigDir()
	if err != nil {
		return configFileName
	}
	return filepath.Join(dir, configFileName)
}

// SetPath sets the file Save writes to.
func (c *Config) SetPath(path string) {
	c.path = path
}

// Load reads path into c. Keys absent from the file keep their current values.
func (c *Config) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err = yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	c.path = path
	return nil
}

// Save writes c to its path with 0600 permissions, creating the directory.
func (c *Config) Save() error {
	path := c.Path()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err = os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file %s: %w", path, err)
	}
	c.path = path
	return nil
}

// Validate checks the configuration for values the client cannot work with.
func (c *Config) Validate() error {
	if err := checkSchema(c.Version); err != nil {
		return err
	}
	if !strings.HasPrefix(c.Server.URL, "http://") && !strings.HasPrefix(c.Server.URL, "https://") {
		return fmt.Errorf("%w: got %q", ErrInvalidServerURL, c.Server.URL)
	}
	if c.Server.TimeoutSeconds <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidTimeout, c.Server.TimeoutSeconds)
	}
	if c.Search.DebounceMS < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidDebounce, c.Search.DebounceMS)
	}
	if c.Search.MinLength < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidMinLength, c.Search.MinLength)
	}
	switch c.Output.DefaultFormat {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidFormat, c.Output.DefaultFormat)
	}
	return nil
}

func checkSchema(version string) error {
	if version == "" {
		return nil
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrUnsupportedSchema, version, err)
	}
	constraint, err := semver.NewConstraint(supportedSchema)
	if err != nil {
		return fmt.Errorf("parsing schema constraint: %w", err)
	}
	if !constraint.Check(v) {
		return fmt.Errorf("%w: %s (supported %s)", ErrUnsupportedSchema, version, supportedSchema)
	}
	return nil
}

// CacheDir returns the configured cache directory or the default under the config dir.
func (c *Config) CacheDir() string {
	if c.Cache.Directory != "" {
		return c.Cache.Directory
	}
	dir, err := GetConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "cardcollector-cache")
	}
	return filepath.Join(dir, "cache")
}
