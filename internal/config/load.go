package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Flag names registered by RegisterFlags.
const (
	FlagConfig     = "config"
	FlagAddr       = "addr"
	FlagTitle      = "title"
	FlagUnsafeHTML = "unsafe-html"
	FlagTheme      = "theme"
	FlagLogLevel   = "log-level"
	FlagLogFormat  = "log-format"
)

// RegisterFlags adds the configuration flags to fs. Their defaults are the
// built-in defaults; only flags the user actually set override other sources.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(FlagConfig, "", "path to a "+FileName+" file (skips discovery)")
	fs.String(FlagAddr, DefaultAddr, "HTTP listen address")
	fs.String(FlagTitle, DefaultTitle, "document title")
	fs.Bool(FlagUnsafeHTML, false, "render todo text as raw HTML")
	fs.String(FlagTheme, DefaultTheme, "terminal theme: classic, neon or mono")
	fs.String(FlagLogLevel, DefaultLogLevel, "log level: debug, info, warn, error")
	fs.String(FlagLogFormat, DefaultLogFormat, "log format: text, json or logfmt")
}

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (<user config dir>/todo/todo.toml)
// 3. Project config file (todo.toml or .todo.toml in the working directory)
// 4. .env in the working directory
// 5. Environment variables (TODO_*, PORT)
// 6. Flags set on fs
func Load(fs *pflag.FlagSet) (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getwd: %w", err)
	}
	userDir := ""
	if dir, err := os.UserConfigDir(); err == nil {
		userDir = filepath.Join(dir, "todo")
	}
	return load(loadOptions{userDir: userDir, workDir: wd, flags: fs})
}

type loadOptions struct {
	userDir string
	workDir string
	flags   *pflag.FlagSet
}

func load(opts loadOptions) (*Config, error) {
	cfg := Default()

	explicit := ""
	if opts.flags != nil && opts.flags.Lookup(FlagConfig) != nil {
		explicit, _ = opts.flags.GetString(FlagConfig)
	}

	if explicit != "" {
		if err := loadConfigFile(cfg, explicit); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", explicit, err)
		}
	} else {
		if f := findFile(opts.userDir, FileName); f != "" {
			if err := loadConfigFile(cfg, f); err != nil {
				return nil, fmt.Errorf("loading user config file %s: %w", f, err)
			}
		}
		if f := findFile(opts.workDir, FileName, "."+FileName); f != "" {
			if err := loadConfigFile(cfg, f); err != nil {
				return nil, fmt.Errorf("loading project config file %s: %w", f, err)
			}
		}
	}

	if opts.workDir != "" {
		if err := godotenv.Load(filepath.Join(opts.workDir, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading .env: %w", err)
		}
	}
	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}

	if opts.flags != nil {
		if err := applyFlags(cfg, opts.flags); err != nil {
			return nil, fmt.Errorf("parsing flags: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func findFile(dir string, names ...string) string {
	if dir == "" {
		return ""
	}
	for _, name := range names {
		p := filepath.Join(dir, name)
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			return p
		}
	}
	return ""
}

// loadConfigFile decodes TOML from path on top of cfg.
func loadConfigFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	cfg.Files = append(cfg.Files, path)
	return nil
}

func loadFromEnv(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		if strings.HasPrefix(v, ":") {
			cfg.Addr = v
		} else {
			cfg.Addr = ":" + v
		}
	}
	if v := strings.TrimSpace(os.Getenv("TODO_ADDR")); v != "" {
		cfg.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv("TODO_TITLE")); v != "" {
		cfg.Title = v
	}
	if v := strings.TrimSpace(os.Getenv("TODO_THEME")); v != "" {
		cfg.Theme = v
	}
	if v := strings.TrimSpace(os.Getenv("TODO_LOG_LEVEL")); v != "" {
		cfg.Log.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("TODO_LOG_FORMAT")); v != "" {
		cfg.Log.Format = v
	}
	if v := strings.TrimSpace(os.Getenv("TODO_UNSAFE_HTML")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TODO_UNSAFE_HTML: %w", err)
		}
		cfg.UnsafeHTML = b
	}
	return nil
}

func applyFlags(cfg *Config, fs *pflag.FlagSet) error {
	var err error
	str := func(name string, dst *string) {
		if err != nil || fs.Lookup(name) == nil || !fs.Changed(name) {
			return
		}
		*dst, err = fs.GetString(name)
	}
	str(FlagAddr, &cfg.Addr)
	str(FlagTitle, &cfg.Title)
	str(FlagTheme, &cfg.Theme)
	str(FlagLogLevel, &cfg.Log.Level)
	str(FlagLogFormat, &cfg.Log.Format)
	if err != nil {
		return err
	}
	if fs.Lookup(FlagUnsafeHTML) != nil && fs.Changed(FlagUnsafeHTML) {
		cfg.UnsafeHTML, err = fs.GetBool(FlagUnsafeHTML)
	}
	return err
}
