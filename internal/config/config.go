// Package config loads wtenv settings: defaults, overlaid by an optional
// JSON file at ~/.config/wtenv/config.json, overlaid by WTENV_* environment
// variables.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the monitor's own settings. Repository-level configuration
// (post-create hooks, copy patterns) is owned by other tooling and not read
// here.
type Config struct {
	// RefreshSeconds is the dashboard auto-refresh interval.
	RefreshSeconds int `json:"refresh_seconds" envconfig:"REFRESH_SECONDS"`
	// TaskLogDir overrides the shared session log directory.
	TaskLogDir string `json:"task_log_dir" envconfig:"TASK_LOG_DIR"`
	// HistoryPath overrides the finished-session archive location.
	HistoryPath string `json:"history_path" envconfig:"HISTORY_PATH"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level" envconfig:"LOG_LEVEL"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		RefreshSeconds: 2,
		LogLevel:       "warn",
	}
}

// Load reads the default config file location and applies env overrides.
func Load() (Config, error) {
	return LoadFrom(DefaultPath())
}

// LoadFrom loads settings from a specific file path. A missing file means
// defaults; a malformed file degrades to defaults with a warning. Env
// overrides (prefix WTENV) always apply last.
func LoadFrom(path string) (Config, error) {
	cfg := Default()

	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, &cfg); err != nil {
			log.Warn("config file is malformed, using defaults", "path", path, "err", err)
			cfg = Default()
		}
	} else if !os.IsNotExist(err) {
		return cfg, err
	}

	if err := envconfig.Process("wtenv", &cfg); err != nil {
		return cfg, err
	}

	if cfg.RefreshSeconds <= 0 {
		cfg.RefreshSeconds = Default().RefreshSeconds
	}
	return cfg, nil
}

// RefreshInterval returns the auto-refresh interval as a duration.
func (c Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshSeconds) * time.Second
}

// DefaultPath returns ~/.config/wtenv/config.json.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "wtenv", "config.json")
	}
	return filepath.Join(home, ".config", "wtenv", "config.json")
}
