// Package config loads and stores user preferences.
//
// Preferences live in a TOML file, by default
// $XDG_CONFIG_HOME/nix-template/config.toml:
//
//	maintainer = "jonringer"
//	nixpkgs_root = "/home/jon/nixpkgs"
//
//	[cache]
//	ttl = "24h"
//	redis_url = "redis://localhost:6379/0"
//
// [Load] layers environment variables over the file (NIX_TEMPLATE_*, plus
// NIXPKGS_ROOT and GITHUB_TOKEN). [ReadFile] and [Save] touch the file only,
// so writing preferences never persists values that came from the
// environment.
package config

import (
	"bytes"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	"github.com/matzehuels/nix-template/pkg/errors"
)

const (
	appName   = "nix-template"
	envPrefix = "NIX_TEMPLATE"

	// DefaultCacheTTL applies when cache.ttl is unset or unparseable.
	DefaultCacheTTL = 24 * time.Hour
)

// Config is the effective set of preferences.
type Config struct {
	Maintainer  string `mapstructure:"maintainer" toml:"maintainer,omitempty"`
	NixpkgsRoot string `mapstructure:"nixpkgs_root" toml:"nixpkgs_root,omitempty"`
	Cache       Cache  `mapstructure:"cache" toml:"cache,omitempty"`

	// GitHubToken is read from the environment only.
	GitHubToken string `mapstructure:"github_token" toml:"-"`
}

// Cache configures the registry response cache.
type Cache struct {
	Dir      string `mapstructure:"dir" toml:"dir,omitempty"`
	TTL      string `mapstructure:"ttl" toml:"ttl,omitempty"`
	RedisURL string `mapstructure:"redis_url" toml:"redis_url,omitempty"`
}

// TTLDuration parses TTL, falling back to [DefaultCacheTTL].
func (c Cache) TTLDuration() time.Duration {
	if d, err := time.ParseDuration(c.TTL); err == nil && d > 0 {
		return d
	}
	return DefaultCacheTTL
}

// Dir returns the directory holding the config file.
func Dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeConfig, err, "cannot determine config directory")
	}
	return filepath.Join(base, appName), nil
}

// DefaultPath returns the path of the config file.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the file at path, if it exists, and overlays the environment.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("maintainer", "")
	v.SetDefault("nixpkgs_root", "")
	v.SetDefault("cache.dir", "")
	v.SetDefault("cache.ttl", DefaultCacheTTL.String())
	v.SetDefault("cache.redis_url", "")
	_ = v.BindEnv("nixpkgs_root", envPrefix+"_NIXPKGS_ROOT", "NIXPKGS_ROOT")
	_ = v.BindEnv("github_token", envPrefix+"_GITHUB_TOKEN", "GITHUB_TOKEN")

	if err := v.ReadInConfig(); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(errors.ErrCodeConfig, err, "failed to read config file %s", path)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfig, err, "invalid config file %s", path)
	}
	return &cfg, nil
}

// ReadFile decodes the file at path without consulting the environment.
// A missing file yields an empty Config.
func ReadFile(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, errors.Wrap(errors.ErrCodeConfig, err, "failed to read config file %s", path)
	}
	return &cfg, nil
}

// Save writes cfg to path, creating the parent directory.
func Save(path string, cfg *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return errors.Wrap(errors.ErrCodeConfig, err, "failed to encode config")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeDirectoryCreation, err, "failed to create %s", filepath.Dir(path))
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailure, err, "failed to write %s", path)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrap(errors.ErrCodeWriteFailure, err, "failed to write %s", path)
	}
	return nil
}

// setters maps settable keys to the field they update.
var setters = map[string]func(*Config, string) error{
	"maintainer":   func(c *Config, v string) error { c.Maintainer = v; return nil },
	"nixpkgs_root": func(c *Config, v string) error { c.NixpkgsRoot = v; return nil },
	"cache.dir":    func(c *Config, v string) error { c.Cache.Dir = v; return nil },
	"cache.redis_url": func(c *Config, v string) error {
		c.Cache.RedisURL = v
		return nil
	},
	"cache.ttl": func(c *Config, v string) error {
		if v != "" {
			if _, err := time.ParseDuration(v); err != nil {
				return errors.Wrap(errors.ErrCodeConfig, err, "invalid cache.ttl %q", v)
			}
		}
		c.Cache.TTL = v
		return nil
	},
}

// Keys lists the keys accepted by [Config.Set].
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set assigns one preference. Dashes in key are read as underscores, so
// "nixpkgs-root" and "nixpkgs_root" are the same key.
func (c *Config) Set(key, value string) error {
	key = strings.ReplaceAll(strings.ToLower(key), "-", "_")
	set, ok := setters[key]
	if !ok {
		return errors.New(errors.ErrCodeConfig, "unknown config key %q (expected one of %s)", key, strings.Join(Keys(), ", "))
	}
	return set(c, value)
}
