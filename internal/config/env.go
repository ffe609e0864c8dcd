package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables read by ApplyEnv.
const (
	EnvHome            = "COLLECTOR_HOME"
	EnvProjectDir      = "COLLECTOR_PROJECT_DIR"
	EnvServerURL       = "COLLECTOR_SERVER_URL"
	EnvServerTimeout   = "COLLECTOR_SERVER_TIMEOUT_SECONDS"
	EnvUsername        = "COLLECTOR_USERNAME"
	EnvLogLevel        = "COLLECTOR_LOG_LEVEL"
	EnvLogFormat       = "COLLECTOR_LOG_FORMAT"
	EnvLogFile         = "COLLECTOR_LOG_FILE"
	EnvOutputFormat    = "COLLECTOR_OUTPUT_FORMAT"
	EnvCacheEnabled    = "COLLECTOR_CACHE_ENABLED"
	EnvCacheTTLSeconds = "COLLECTOR_CACHE_TTL_SECONDS"
	EnvDebounceMS      = "COLLECTOR_SEARCH_DEBOUNCE_MS"
)

// LoadDotEnv loads dir/.env into the process environment. Variables that are
// already set are not overwritten and a missing file is not an error.
func LoadDotEnv(dir string) {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); err != nil {
		return
	}
	_ = godotenv.Load(path)
}

// ApplyEnv overlays COLLECTOR_* environment variables onto c.
// Unparseable numeric or boolean values are ignored.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvServerURL); v != "" {
		c.Server.URL = v
	}
	if v, ok := envInt(EnvServerTimeout); ok {
		c.Server.TimeoutSeconds = v
	}
	if v := os.Getenv(EnvUsername); v != "" {
		c.Server.Username = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		c.Logging.File = v
	}
	if v := os.Getenv(EnvOutputFormat); v != "" {
		c.Output.DefaultFormat = v
	}
	if v := os.Getenv(EnvCacheEnabled); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Cache.Enabled = b
		}
	}
	if v, ok := envInt(EnvCacheTTLSeconds); ok {
		c.Cache.TTLSeconds = v
	}
	if v, ok := envInt(EnvDebounceMS); ok {
		c.Search.DebounceMS = v
	}
}

func envInt(key string) (int, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
