// Package config loads the client settings by layering defaults, an
// optional YAML file, and environment variables.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds the client settings. The TUI owns stdout, so logs go to a
// file.
type Config struct {
	// BaseURL is the backend API root, e.g. "http://localhost:8000".
	BaseURL string `koanf:"base_url"`

	// TimeoutSeconds bounds each API request. Generation and evaluation
	// calls wait on model inference server-side, so the default is long.
	TimeoutSeconds int `koanf:"timeout_seconds"`

	// LogFile receives structured logs; empty disables logging.
	LogFile string `koanf:"log_file"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
}

func defaults() Config {
	return Config{
		BaseURL:        "http://localhost:8000",
		TimeoutSeconds: 90,
		LogLevel:       "info",
	}
}

// Load builds a Config by layering, low to high:
//  1. defaults
//  2. YAML file at PREPTERM_CONFIG, else $XDG_CONFIG_HOME/prepterm/config.yaml
//  3. environment variables (PREPTERM_BASE_URL, PREPTERM_TIMEOUT_SECONDS, ...)
func Load() (*Config, error) {
	k := koanf.New(".")

	path := os.Getenv("PREPTERM_CONFIG")
	explicit := path != ""
	if !explicit {
		path = defaultFilePath()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			// A missing default file is fine; an explicit one must load.
			if explicit || !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	envProvider := env.Provider("PREPTERM_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "prepterm_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := defaults()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if cfg.BaseURL == "" {
		return nil, errors.New("base_url must not be empty")
	}
	if cfg.TimeoutSeconds <= 0 {
		return nil, errors.New("timeout_seconds must be positive")
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &cfg, nil
}

// defaultFilePath resolves the conventional config location, empty when no
// home directory can be determined.
func defaultFilePath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "prepterm", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "prepterm", "config.yaml")
}
