package config

import (
	"fmt"
	"sort"
	"strconv"
)

type keyAccessor struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

func intSetter(dst func(c *Config) *int) func(c *Config, v string) error {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("expected an integer, got %q", v)
		}
		*dst(c) = n
		return nil
	}
}

func stringSetter(dst func(c *Config) *string) func(c *Config, v string) error {
	return func(c *Config, v string) error {
		*dst(c) = v
		return nil
	}
}

//nolint:gochecknoglobals // Compile-time constant lookup table.
var keyAccessors = map[string]keyAccessor{
	"server.url": {
		get: func(c *Config) string { return c.Server.URL },
		set: stringSetter(func(c *Config) *string { return &c.Server.URL }),
	},
	"server.timeout_seconds": {
		get: func(c *Config) string { return strconv.Itoa(c.Server.TimeoutSeconds) },
		set: intSetter(func(c *Config) *int { return &c.Server.TimeoutSeconds }),
	},
	"server.username": {
		get: func(c *Config) string { return c.Server.Username },
		set: stringSetter(func(c *Config) *string { return &c.Server.Username }),
	},
	"collection.default_sort": {
		get: func(c *Config) string { return c.Collection.DefaultSort },
		set: stringSetter(func(c *Config) *string { return &c.Collection.DefaultSort }),
	},
	"search.debounce_ms": {
		get: func(c *Config) string { return strconv.Itoa(c.Search.DebounceMS) },
		set: intSetter(func(c *Config) *int { return &c.Search.DebounceMS }),
	},
	"search.min_length": {
		get: func(c *Config) string { return strconv.Itoa(c.Search.MinLength) },
		set: intSetter(func(c *Config) *int { return &c.Search.MinLength }),
	},
	"cache.enabled": {
		get: func(c *Config) string { return strconv.FormatBool(c.Cache.Enabled) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("expected true or false, got %q", v)
			}
			c.Cache.Enabled = b
			return nil
		},
	},
	"cache.ttl_seconds": {
		get: func(c *Config) string { return strconv.Itoa(c.Cache.TTLSeconds) },
		set: intSetter(func(c *Config) *int { return &c.Cache.TTLSeconds }),
	},
	"cache.directory": {
		get: func(c *Config) string { return c.Cache.Directory },
		set: stringSetter(func(c *Config) *string { return &c.Cache.Directory }),
	},
	"logging.level": {
		get: func(c *Config) string { return c.Logging.Level },
		set: stringSetter(func(c *Config) *string { return &c.Logging.Level }),
	},
	"logging.format": {
		get: func(c *Config) string { return c.Logging.Format },
		set: stringSetter(func(c *Config) *string { return &c.Logging.Format }),
	},
	"logging.file": {
		get: func(c *Config) string { return c.Logging.File },
		set: stringSetter(func(c *Config) *string { return &c.Logging.File }),
	},
	"output.default_format": {
		get: func(c *Config) string { return c.Output.DefaultFormat },
		set: stringSetter(func(c *Config) *string { return &c.Output.DefaultFormat }),
	},
}

// Keys returns every dotted key accepted by Get and Set, sorted.
func Keys() []string {
	keys := make([]string, 0, len(keyAccessors))
	for k := range keyAccessors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value of a dotted key such as "server.url".
func (c *Config) Get(key string) (string, error) {
	acc, ok := keyAccessors[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return acc.get(c), nil
}

// Set assigns a dotted key and re-validates the result. On validation
// failure the previous value is restored.
func (c *Config) Set(key, value string) error {
	acc, ok := keyAccessors[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	previous := acc.get(c)
	if err := acc.set(c, value); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	if err := c.Validate(); err != nil {
		_ = acc.set(c, previous)
		return fmt.Errorf("setting %s: %w", key, err)
	}
	return nil
}
