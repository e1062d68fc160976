// Package config loads service settings from defaults, a TOML file, the
// environment and command line flags, in increasing precedence.
package config

import (
	"errors"
	"io/fs"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/goliatone/go-campus/repository"
)

const (
	// EnvPrefix marks variables read from the environment. Sections are
	// separated by a double underscore: CAMPUS_SERVER__PORT.
	EnvPrefix   = "CAMPUS_"
	DefaultPath = "campus.toml"
	delim       = "."
	redacted    = "******"
)

type Config struct {
	Server   Server   `koanf:"server" json:"server"`
	Database Database `koanf:"database" json:"database"`
	Auth     Auth     `koanf:"auth" json:"auth"`
}

type Server struct {
	Host                 string        `koanf:"host" json:"host"`
	Port                 int           `koanf:"port" json:"port"`
	LogLevel             string        `koanf:"log_level" json:"log_level"`
	LogFormat            string        `koanf:"log_format" json:"log_format"`
	StaticDir            string        `koanf:"static_dir" json:"static_dir"`
	ExposeInternalErrors bool          `koanf:"expose_internal_errors" json:"expose_internal_errors"`
	ShutdownTimeout      time.Duration `koanf:"shutdown_timeout" json:"shutdown_timeout"`
}

type Database struct {
	Driver          string        `koanf:"driver" json:"driver"`
	Host            string        `koanf:"host" json:"host"`
	Port            int           `koanf:"port" json:"port"`
	User            string        `koanf:"user" json:"user"`
	Passwd          string        `koanf:"passwd" json:"passwd"`
	Database        string        `koanf:"database" json:"database"`
	Schema          string        `koanf:"schema" json:"schema"`
	DSN             string        `koanf:"dsn" json:"dsn"`
	MaxOpenConns    int           `koanf:"max_open_conns" json:"max_open_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime" json:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time" json:"conn_max_idle_time"`
	Migrate         bool          `koanf:"migrate" json:"migrate"`
}

type Auth struct {
	// SecretKey is the base64 encoded HMAC key.
	SecretKey string        `koanf:"secret_key" json:"secret_key"`
	Algorithm string        `koanf:"algorithm" json:"algorithm"`
	TokenTTL  time.Duration `koanf:"token_ttl" json:"token_ttl"`
	Leeway    time.Duration `koanf:"leeway" json:"leeway"`
}

// Defaults returns the baseline settings.
func Defaults() map[string]any {
	return map[string]any{
		"server.host":                   "0.0.0.0",
		"server.port":                   8080,
		"server.log_level":              "info",
		"server.log_format":             "text",
		"server.static_dir":             "./static",
		"server.expose_internal_errors": true,
		"server.shutdown_timeout":       "10s",

		"database.driver":             repository.DriverPostgres,
		"database.host":               "localhost",
		"database.port":               5432,
		"database.user":               "postgres",
		"database.passwd":             "",
		"database.database":           "postgres",
		"database.schema":             "public",
		"database.dsn":                "",
		"database.max_open_conns":     0,
		"database.conn_max_lifetime":  "300s",
		"database.conn_max_idle_time": "5s",
		"database.migrate":            true,

		"auth.secret_key": "",
		"auth.algorithm":  "HS256",
		"auth.token_ttl":  "12h",
		"auth.leeway":     "0s",
	}
}

// Flags registers the overridable settings on fs.
func Flags(fs *pflag.FlagSet) {
	fs.String("config", DefaultPath, "path to the TOML configuration file")
	fs.Int("server.port", 8080, "HTTP listen port")
	fs.String("server.log_level", "info", "log level: debug, info, warn, error")
	fs.String("database.dsn", "", "database connection string")
}

// Load resolves the configuration. A missing file at path is not an
// error. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(delim)

	if err := k.Load(confmap.Provider(Defaults(), delim), nil); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "load config defaults")
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "load config file "+path)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "stat config file "+path)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, delim, envKey), nil); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "load config env")
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, delim, k), nil); err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "load config flags")
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "decode config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(s), "__", delim)
}

func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Server),
		validation.Field(&c.Database),
		validation.Field(&c.Auth),
	)
	if err != nil {
		return goerrors.FromOzzoValidation(err, "invalid configuration")
	}
	return nil
}

func (s Server) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&s.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&s.LogFormat, validation.In("text", "json")),
		validation.Field(&s.ShutdownTimeout, validation.Min(time.Duration(0))),
	)
}

func (d Database) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Driver, validation.Required, validation.In(repository.DriverPostgres, repository.DriverSQLite)),
		validation.Field(&d.Port, validation.Min(0), validation.Max(65535)),
		validation.Field(&d.MaxOpenConns, validation.Min(0)),
	)
}

func (a Auth) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.SecretKey, validation.Required, is.Base64),
		validation.Field(&a.Algorithm, validation.In("HS256", "HS384", "HS512")),
		validation.Field(&a.TokenTTL, validation.Required, validation.Min(time.Second)),
		validation.Field(&a.Leeway, validation.Min(time.Duration(0))),
	)
}

// Address is the listen address.
func (s Server) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// Options converts the section for repository.Open.
func (d Database) Options() repository.Options {
	return repository.Options{
		Driver:          d.Driver,
		DSN:             d.DSN,
		Host:            d.Host,
		Port:            d.Port,
		User:            d.User,
		Password:        d.Passwd,
		Database:        d.Database,
		Schema:          d.Schema,
		MaxOpenConns:    d.MaxOpenConns,
		ConnMaxLifetime: d.ConnMaxLifetime,
		ConnMaxIdleTime: d.ConnMaxIdleTime,
	}
}

// Redacted returns a copy safe to log.
func (c Config) Redacted() Config {
	out := c
	if out.Database.Passwd != "" {
		out.Database.Passwd = redacted
	}
	if out.Auth.SecretKey != "" {
		out.Auth.SecretKey = redacted
	}
	if out.Database.DSN != "" {
		if u, err := url.Parse(out.Database.DSN); err == nil && u.User != nil {
			out.Database.DSN = u.Redacted()
		}
	}
	return out
}
