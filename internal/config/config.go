// Package config loads axes's own ambient tool configuration — the
// settings that govern the tool itself (cache location, default shell,
// log level), not a project's axes.toml. Precedence: environment
// variables > config file > defaults, the same layering the teacher used
// for its own server config.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds axes's own settings.
type Config struct {
	Cache CacheConfig `toml:"cache"`
	Shell ShellConfig `toml:"shell"`
	Log   LogConfig   `toml:"log"`
}

// CacheConfig controls where layer cache files live. The global index
// path is not affected by it.
type CacheConfig struct {
	// Dir overrides the default user-cache-directory location for layer
	// caches. A project's own [options].cache_dir is parsed and merged by
	// the facade but is not consulted for the cache location: every layer
	// is cached under this one directory.
	Dir string `toml:"dir"`
}

// ShellConfig names the default shell used for shell_passthrough lines
// and `<run('...')>` captures when a project's own [options].shell is
// unset (spec.md §4.8, §9).
type ShellConfig struct {
	Path string `toml:"path"`
}

// LogConfig controls the structured logger (see SPEC_FULL.md's AMBIENT
// STACK section).
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
}

// Load reads axes's own config by file, then env, then falls back to
// built-in defaults. Config file search order (first found wins):
//  1. Path passed via configPath parameter (when non-empty)
//  2. AXES_CONFIG environment variable
//  3. ./axes-core.toml (current directory)
//  4. ~/.config/axes/axes-core.toml (XDG-style)
//
// All fields are optional in the config file; env vars always win over
// file values.
func Load(configPath string) (*Config, error) {
	cfg := &Config{
		Shell: ShellConfig{Path: defaultShell()},
		Log:   LogConfig{Level: "info"},
	}

	if err := cfg.loadFile(configPath); err != nil {
		return nil, err
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile finds and parses the TOML config file. If no file is found,
// this is a no-op (the config file is optional).
func (c *Config) loadFile(configPath string) error {
	path := resolveConfigPath(configPath)
	if path == "" {
		return nil
	}
	if _, err := toml.DecodeFile(path, c); err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	return nil
}

// resolveConfigPath determines which config file to use. Returns empty
// string if no config file is found.
func resolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit // caller wants this file; let DecodeFile report if missing.
	}
	if p := os.Getenv("AXES_CONFIG"); p != "" {
		return p
	}
	if _, err := os.Stat("axes-core.toml"); err == nil {
		return "axes-core.toml"
	}
	if home, err := os.UserHomeDir(); err == nil {
		p := home + "/.config/axes/axes-core.toml"
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// applyEnv overlays environment variables on top of existing config
// values. An env var only takes effect if it is non-empty.
func (c *Config) applyEnv() {
	envOverride("AXES_CACHE_DIR", &c.Cache.Dir)
	envOverride("AXES_SHELL", &c.Shell.Path)
	envOverride("AXES_LOG_LEVEL", &c.Log.Level)
}

// Validate checks that the configured log level is recognized.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q (must be debug, info, warn or error)", c.Log.Level)
	}
	return nil
}

// defaultShell mirrors spec.md §9's decision: options.shell, then
// $SHELL, then a platform default (ComSpec on Windows, /bin/sh
// elsewhere).
func defaultShell() string {
	if s := os.Getenv("SHELL"); s != "" {
		return s
	}
	if s := os.Getenv("ComSpec"); s != "" {
		return s
	}
	return "/bin/sh"
}

// envOverride sets *dst to the value of the named env var, if non-empty.
func envOverride(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
