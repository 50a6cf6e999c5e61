// Package config provides the configuration loader for zyphar.
package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultFilename is the configuration file looked up in the working
// directory.
const DefaultFilename = "zyphar.yaml"

// Config is the resolved application configuration.
type Config struct {
	Cache CacheConfig
	Watch WatchConfig
}

// CacheConfig configures the module cache.
type CacheConfig struct {
	Dir          string
	MaxEntries   int
	MaxSizeBytes int64
	MaxAge       time.Duration
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	Poll     time.Duration
	Debounce time.Duration
}

// Default returns the built-in configuration: default cache limits, 500 ms
// polling, 100 ms debounce.
func Default() *Config {
	return &Config{
		Cache: CacheConfig{
			MaxEntries:   1000,
			MaxSizeBytes: 500 << 20,
			MaxAge:       30 * 24 * time.Hour,
		},
		Watch: WatchConfig{
			Poll:     500 * time.Millisecond,
			Debounce: 100 * time.Millisecond,
		},
	}
}

// file is the on-disk YAML schema. Absent keys (and an empty dir) keep their
// defaults, so a partial file only overrides what it names; an explicit 0
// for a numeric key is applied as given.
type file struct {
	Cache struct {
		Dir        string `yaml:"dir"`
		MaxEntries *int   `yaml:"max_entries"`
		MaxSizeMB  *int64 `yaml:"max_size_mb"`
		MaxAgeDays *int   `yaml:"max_age_days"`
	} `yaml:"cache"`
	Watch struct {
		PollMS     *int `yaml:"poll_ms"`
		DebounceMS *int `yaml:"debounce_ms"`
	} `yaml:"watch"`
}

// Load reads the configuration file at path. A missing file yields the
// defaults; a malformed one is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, zerr.Wrap(err, "failed to read config file")
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, zerr.Wrap(err, "failed to parse config file")
	}

	if f.Cache.Dir != "" {
		cfg.Cache.Dir = f.Cache.Dir
	}
	if f.Cache.MaxEntries != nil {
		cfg.Cache.MaxEntries = *f.Cache.MaxEntries
	}
	if f.Cache.MaxSizeMB != nil {
		cfg.Cache.MaxSizeBytes = *f.Cache.MaxSizeMB << 20
	}
	if f.Cache.MaxAgeDays != nil {
		cfg.Cache.MaxAge = time.Duration(*f.Cache.MaxAgeDays) * 24 * time.Hour
	}
	if f.Watch.PollMS != nil {
		cfg.Watch.Poll = time.Duration(*f.Watch.PollMS) * time.Millisecond
	}
	if f.Watch.DebounceMS != nil {
		cfg.Watch.Debounce = time.Duration(*f.Watch.DebounceMS) * time.Millisecond
	}

	return cfg, nil
}
