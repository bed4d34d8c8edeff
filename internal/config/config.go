// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authkit Contributors

// Package config loads authkit settings.
//
// Sources are layered: built-in defaults, then the YAML config file, then
// command-line flags that were set explicitly. The default file is
// $XDG_CONFIG_HOME/authkit/config.yaml and may be absent.
package config

import (
	"errors"
	"io/fs"
	"os"
	"slices"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/guns21/authkit/internal/auth"
	"github.com/guns21/authkit/internal/xdg"
)

// Config is the fully resolved configuration.
type Config struct {
	Auth     AuthConfig     `koanf:"auth"`
	HTTP     HTTPConfig     `koanf:"http"`
	Metrics  MetricsConfig  `koanf:"metrics"`
	Database DatabaseConfig `koanf:"database"`
	Log      LogConfig      `koanf:"log"`
}

// AuthConfig configures the authentication provider.
type AuthConfig struct {
	UsernamePattern     string `koanf:"username_pattern"`
	PasswordPattern     string `koanf:"password_pattern"`
	Scheme              string `koanf:"scheme"`
	ConcealUserNotFound bool   `koanf:"conceal_user_not_found"`
	MessagesFile        string `koanf:"messages_file"`
}

// HTTPConfig configures the API listener. ExposeRoles mounts the role listing
// endpoint, which answers without authentication.
type HTTPConfig struct {
	Addr        string `koanf:"addr"`
	ExposeRoles bool   `koanf:"expose_roles"`
}

// MetricsConfig configures the observability listener. An empty Addr disables it.
type MetricsConfig struct {
	Addr string `koanf:"addr"`
}

// DatabaseConfig configures PostgreSQL access.
type DatabaseConfig struct {
	URL string `koanf:"url"`
}

// LogConfig configures logging output.
type LogConfig struct {
	Format string `koanf:"format"`
	Level  string `koanf:"level"`
}

// FlagConfig is the name of the flag holding an explicit config file path.
const FlagConfig = "config"

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"username-pattern":       "auth.username_pattern",
	"password-pattern":       "auth.password_pattern",
	"scheme":                 "auth.scheme",
	"conceal-user-not-found": "auth.conceal_user_not_found",
	"messages-file":          "auth.messages_file",
	"http-addr":              "http.addr",
	"expose-roles":           "http.expose_roles",
	"metrics-addr":           "metrics.addr",
	"database-url":           "database.url",
	"log-format":             "log.format",
	"log-level":              "log.level",
}

var defaults = map[string]any{
	"auth.username_pattern":       "",
	"auth.password_pattern":       "",
	"auth.scheme":                 auth.SchemeArgon2id,
	"auth.conceal_user_not_found": false,
	"auth.messages_file":          "",
	"http.addr":                   ":8080",
	"http.expose_roles":           false,
	"metrics.addr":                "127.0.0.1:9100",
	"database.url":                "",
	"log.format":                  "json",
	"log.level":                   "info",
}

// RegisterFlags adds the config flags to fs. Defaults shown in help mirror the built-in defaults.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String(FlagConfig, "", "config file path (default: $XDG_CONFIG_HOME/authkit/config.yaml)")
	flags.String("username-pattern", "", "regular expression usernames must match from the start")
	flags.String("password-pattern", "", "regular expression passwords must match from the start")
	flags.String("scheme", auth.SchemeArgon2id, "credential scheme (argon2id, bcrypt or salted-sha256)")
	flags.Bool("conceal-user-not-found", false, "report unknown users as bad credentials")
	flags.String("messages-file", "", "YAML file with localized failure messages")
	flags.String("http-addr", ":8080", "API listen address")
	flags.Bool("expose-roles", false, "serve GET /api/users/{username}/roles (unauthenticated)")
	flags.String("metrics-addr", "127.0.0.1:9100", "metrics/health HTTP address (empty = disabled)")
	flags.String("database-url", "", "PostgreSQL connection URL (default: $DATABASE_URL)")
	flags.String("log-format", "json", "log format (json or text)")
	flags.String("log-level", "info", "log level (debug, info, warn or error)")
}

// Load resolves the configuration from defaults, the config file and fs.
// fs may be nil. DATABASE_URL fills database.url when no other source set it.
func Load(flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")
	for key, val := range defaults {
		if err := k.Set(key, val); err != nil {
			return nil, oops.Code("CONFIG_INVALID").With("key", key).Wrap(err)
		}
	}

	path, explicit := "", false
	if flags != nil {
		if f := flags.Lookup(FlagConfig); f != nil && f.Value.String() != "" {
			path, explicit = f.Value.String(), true
		}
	}
	if path == "" {
		var err error
		if path, err = xdg.ConfigFile(); err != nil {
			return nil, oops.Code("CONFIG_READ_FAILED").Wrap(err)
		}
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, oops.Code("CONFIG_READ_FAILED").With("path", path).Wrap(err)
		}
	}

	if flags != nil {
		provider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, oops.Code("CONFIG_INVALID").With("source", "flags").Wrap(err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_INVALID").Wrap(err)
	}
	if cfg.Database.URL == "" {
		cfg.Database.URL = os.Getenv("DATABASE_URL")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var schemes = []string{auth.SchemeArgon2id, auth.SchemeBcrypt, auth.SchemeSaltedSHA256}

// Validate checks enumerated values and compiles the credential patterns.
func (c *Config) Validate() error {
	if !slices.Contains(schemes, c.Auth.Scheme) {
		return oops.Code("CONFIG_INVALID").
			With("field", "auth.scheme").
			Errorf("auth.scheme must be one of %v, got %q", schemes, c.Auth.Scheme)
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return oops.Code("CONFIG_INVALID").
			With("field", "log.format").
			Errorf("log.format must be 'json' or 'text', got %q", c.Log.Format)
	}
	if c.HTTP.Addr == "" {
		return oops.Code("CONFIG_INVALID").With("field", "http.addr").Errorf("http.addr is required")
	}
	if _, err := c.FormatPolicy(); err != nil {
		return err
	}
	return nil
}

// FormatPolicy compiles the configured username and password patterns.
func (c *Config) FormatPolicy() (*auth.FormatPolicy, error) {
	return auth.NewFormatPolicy(c.Auth.UsernamePattern, c.Auth.PasswordPattern)
}

// Messages loads the configured message catalog. Without a messages file it returns nil,
// so the provider falls back to its built-in texts.
func (c *Config) Messages() (*auth.Catalog, error) {
	if c.Auth.MessagesFile == "" {
		return nil, nil
	}
	return auth.LoadCatalog(c.Auth.MessagesFile)
}
