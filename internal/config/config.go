// Package config loads console settings from defaults, an optional config
// file, CMDCONSOLE_* environment variables, .env files and bound flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"cmdconsole/internal/logger"
)

// EnvPrefix prefixes every environment variable the console reads.
const EnvPrefix = "CMDCONSOLE"

// AppName names the directory under the user config dir.
const AppName = "cmdconsole"

// Config keys.
const (
	KeyPrompt          = "prompt"
	KeyHistoryCapacity = "history_capacity"
	KeyCatalog         = "catalog"
	KeyWatchCatalog    = "watch_catalog"
	KeyColor           = "color"
	KeyMaxSuggestions  = "max_suggestions"
	KeyLogLevel        = "log_level"
	KeyLogFile         = "log_file"
	KeyTestMode        = "test_mode"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config is the resolved console configuration.
type Config struct {
	Prompt          string `mapstructure:"prompt"`
	HistoryCapacity int    `mapstructure:"history_capacity"`
	Catalog         string `mapstructure:"catalog"`
	WatchCatalog    bool   `mapstructure:"watch_catalog"`
	Color           string `mapstructure:"color"`
	MaxSuggestions  int    `mapstructure:"max_suggestions"`
	LogLevel        string `mapstructure:"log_level"`
	LogFile         string `mapstructure:"log_file"`
	TestMode        bool   `mapstructure:"test_mode"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
	// DotEnv holds values from .env files. They back LookupEnv but are never
	// exported into the process environment.
	DotEnv map[string]string `mapstructure:"-"`
}

// SetDefaults registers the default of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyPrompt, "> ")
	v.SetDefault(KeyHistoryCapacity, 100)
	v.SetDefault(KeyCatalog, "")
	v.SetDefault(KeyWatchCatalog, false)
	v.SetDefault(KeyColor, ColorAuto)
	v.SetDefault(KeyMaxSuggestions, 5)
	v.SetDefault(KeyLogLevel, "")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyTestMode, false)
}

// Load resolves the configuration from v, most specific source first: flags
// bound into v, CMDCONSOLE_* variables, the config file, defaults. file names
// the config file; when empty, config.yaml or config.toml is looked up in the
// user config directory and its absence is not an error. In test mode no
// .env file is read.
func Load(v *viper.Viper, file string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, AppName))
		}
		v.SetConfigName("config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	cfg.Color = strings.ToLower(cfg.Color)

	cfg.DotEnv = map[string]string{}
	if !cfg.TestMode {
		if err := cfg.loadDotEnv(DotEnvPaths()...); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("Configuration loaded", "file", cfg.File, "catalog", cfg.Catalog, "dotenv", len(cfg.DotEnv))
	return cfg, nil
}

// DotEnvPaths lists the .env files read by Load, lowest precedence first:
// the one in the user config directory, then the one in the working
// directory.
func DotEnvPaths() []string {
	var paths []string
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, AppName, ".env"))
	}
	if wd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(wd, ".env"))
	}
	return paths
}

// loadDotEnv merges the given .env files into DotEnv. Missing files are
// skipped; later files override earlier ones.
func (c *Config) loadDotEnv(paths ...string) error {
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("read .env file %s: %w", path, err)
		}
		values, err := godotenv.Unmarshal(string(data))
		if err != nil {
			return fmt.Errorf("parse .env file %s: %w", path, err)
		}
		for k, val := range values {
			c.DotEnv[k] = val
		}
	}
	return nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		errs = append(errs, fmt.Errorf("%s: want auto, always or never, got %q", KeyColor, c.Color))
	}
	if c.HistoryCapacity < 0 {
		errs = append(errs, fmt.Errorf("%s: must not be negative", KeyHistoryCapacity))
	}
	if c.MaxSuggestions < 0 {
		errs = append(errs, fmt.Errorf("%s: must not be negative", KeyMaxSuggestions))
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", KeyLogLevel, err))
	}
	return errors.Join(errs...)
}

// LookupEnv reads a variable from the process environment, falling back to
// the loaded .env values. Catalog defaults and value sets resolve through it.
func (c *Config) LookupEnv(key string) (string, bool) {
	if v, ok := os.LookupEnv(key); ok {
		return v, true
	}
	v, ok := c.DotEnv[key]
	return v, ok
}
