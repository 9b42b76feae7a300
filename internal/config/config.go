// Package config loads widget settings from defaults, TOML files, .env,
// environment variables and command-line flags, in that order.
package config

import (
	"fmt"
	"strings"
)

// Defaults.
const (
	DefaultAddr      = ":8080"
	DefaultTitle     = "todo"
	DefaultTheme     = "classic"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"

	// FileName is the config file looked up in the user config dir and the
	// working directory.
	FileName = "todo.toml"
)

// Config is the full configuration.
type Config struct {
	Addr       string    `toml:"addr"`
	Title      string    `toml:"title"`
	UnsafeHTML bool      `toml:"unsafe_html"`
	Theme      string    `toml:"theme"`
	Log        LogConfig `toml:"log"`

	// Files lists the config files that were applied, lowest priority first.
	Files []string `toml:"-"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

func setDefaults(cfg *Config) {
	cfg.Addr = DefaultAddr
	cfg.Title = DefaultTitle
	cfg.Theme = DefaultTheme
	cfg.Log.Level = DefaultLogLevel
	cfg.Log.Format = DefaultLogFormat
}

// Validate checks enumerated values.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Theme) {
	case "classic", "neon", "mono":
	default:
		return fmt.Errorf("unknown theme %q (want classic, neon or mono)", c.Theme)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("unknown log format %q (want text, json or logfmt)", c.Log.Format)
	}
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("addr is empty")
	}
	return nil
}
