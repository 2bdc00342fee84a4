// Package config loads the service configuration from a YAML file with
// environment-variable overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen"`

	// Source is the initial event document: an http(s) URL or a local
	// file path. The catalog resets to this source on every reload.
	Source string `yaml:"source"`

	// SourceFormat selects how the source is decoded: "json" for the
	// event document, "feed" for an RSS/Atom feed.
	SourceFormat string `yaml:"source_format"`

	// RefreshMinutes re-fetches the source on an interval. Zero
	// disables the background refresh.
	RefreshMinutes int `yaml:"refresh_minutes"`

	// PageSize is the default number of cards per page.
	PageSize int `yaml:"page_size"`

	// LogLevel is one of trace/debug/info/warn/error.
	LogLevel string `yaml:"log_level"`

	// LogFormat is json, console, or auto.
	LogFormat string `yaml:"log_format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Listen:       ":8080",
		Source:       "data/events.json",
		SourceFormat: "json",
		PageSize:     9,
		LogLevel:     "info",
		LogFormat:    "auto",
	}
}

// Load reads the YAML file at path, falling back to defaults when the
// file does not exist, then applies CARTAZ_* environment overrides.
func Load(path string) (Config, error) {
	conf := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &conf); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		// First run without a config file is fine.
	default:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	conf.applyEnv()
	if conf.PageSize < 1 {
		conf.PageSize = Default().PageSize
	}
	if conf.SourceFormat == "" {
		conf.SourceFormat = "json"
	}
	return conf, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("CARTAZ_LISTEN"); v != "" {
		c.Listen = v
	}
	if v := os.Getenv("CARTAZ_SOURCE"); v != "" {
		c.Source = v
	}
	if v := os.Getenv("CARTAZ_SOURCE_FORMAT"); v != "" {
		c.SourceFormat = v
	}
	if v := os.Getenv("CARTAZ_REFRESH_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RefreshMinutes = n
		}
	}
	if v := os.Getenv("CARTAZ_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.PageSize = n
		}
	}
	if v := os.Getenv("CARTAZ_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("CARTAZ_LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
}
