// Package config loads the CLI configuration from ~/.timebill/config.toml
// with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is the full CLI configuration.
type Config struct {
	Store   StoreConfig   `toml:"store"`
	Invoice InvoiceConfig `toml:"invoice"`
	Log     LogConfig     `toml:"log"`
}

// StoreConfig selects and locates the persistence backend.
type StoreConfig struct {
	// Backend is one of "file", "sqlite", "memory".
	Backend string `toml:"backend"`
	// Path is the data file location. Ignored by the memory backend.
	Path string `toml:"path"`
}

// InvoiceConfig holds invoice rendering defaults.
type InvoiceConfig struct {
	Currency string `toml:"currency"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `toml:"level"`  // trace, debug, info, warn, error
	Format string `toml:"format"` // json, console
}

// Default returns the configuration used when no config file exists.
func Default() Config {
	return Config{
		Store: StoreConfig{
			Backend: "file",
			Path:    "~/.timebill/timebill.json",
		},
		Invoice: InvoiceConfig{
			Currency: "usd",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return "~/.timebill/config.toml"
}

// Load reads the config file at path, falling back to defaults when the
// file does not exist, then applies TIMEBILL_* environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	expanded, err := ExpandPath(path)
	if err != nil {
		return cfg, err
	}
	if _, err := os.Stat(expanded); err == nil {
		if _, err := toml.DecodeFile(expanded, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parsing %s: %w", expanded, err)
		}
	}

	if v := os.Getenv("TIMEBILL_STORE_BACKEND"); v != "" {
		cfg.Store.Backend = v
	}
	if v := os.Getenv("TIMEBILL_STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("TIMEBILL_CURRENCY"); v != "" {
		cfg.Invoice.Currency = strings.ToLower(v)
	}
	if v := os.Getenv("TIMEBILL_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	return cfg, nil
}

// ExpandPath resolves a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("config: resolving home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}
