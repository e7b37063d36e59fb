// Package config loads application settings from defaults, an optional
// YAML file, and LANTERN_ environment variables, in that order of
// precedence.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "LANTERN_"

// Config is the application configuration
type Config struct {
	Env     string `koanf:"env"`
	Service string `koanf:"service"`

	Server struct {
		Host string `koanf:"host"`
		Port int    `koanf:"port"`
	} `koanf:"server"`

	Database struct {
		DSN string `koanf:"dsn"`
	} `koanf:"database"`

	Tokens struct {
		// Secrets may legitimately be empty at load time; the token
		// codec fails the individual operation instead.
		AccessSecret   string `koanf:"access_secret"`
		RefreshSecret  string `koanf:"refresh_secret"`
		AccessTTLHours int    `koanf:"access_ttl_hours"`
		RefreshTTLDays int    `koanf:"refresh_ttl_days"`
	} `koanf:"tokens"`

	Logs struct {
		Level        string `koanf:"level"`
		Dir          string `koanf:"dir"`
		ErrorFile    string `koanf:"error_file"`
		CombinedFile string `koanf:"combined_file"`
	} `koanf:"logs"`
}

func defaults() map[string]any {
	return map[string]any{
		"env":                     "development",
		"service":                 "lantern",
		"server.host":             "0.0.0.0",
		"server.port":             4001,
		"database.dsn":            "file:lantern.db?cache=shared&_pragma=busy_timeout(5000)",
		"tokens.access_ttl_hours": 1,
		"tokens.refresh_ttl_days": 7,
		"logs.dir":                ".",
		"logs.error_file":         "error.log",
		"logs.combined_file":      "combined.log",
	}
}

// Load reads the configuration. A missing file at path is not an error;
// environment variables always apply.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to load config defaults")
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, errors.Wrap(err, errors.CategoryInternal, "failed to load config file")
			}
		} else if !os.IsNotExist(err) {
			return nil, errors.Wrap(err, errors.CategoryInternal, "failed to stat config file")
		}
	}

	// LANTERN_SERVER__PORT=8080 maps to server.port
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to load environment config")
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to unmarshal config")
	}
	return cfg, nil
}

// IsDevelopment reports whether the process runs in a development-like
// mode, which relaxes cookie security and error redaction.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Addr is the host:port the server listens on
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// AccessTTL is the access token (and cookie) lifetime
func (c *Config) AccessTTL() time.Duration {
	return time.Duration(c.Tokens.AccessTTLHours) * time.Hour
}

// RefreshTTL is the refresh token (and cookie) lifetime
func (c *Config) RefreshTTL() time.Duration {
	return time.Duration(c.Tokens.RefreshTTLDays) * 24 * time.Hour
}
