// Package config loads jeweler settings and batch job files.
//
// Settings live in $XDG_CONFIG_HOME/jeweler/config.toml (falling back to
// ~/.config/jeweler/config.toml). Every key is optional; missing keys keep
// the built-in defaults and command-line flags override both:
//
//	[defaults]
//	mode = "bracelet"
//	workers = 4
//	format = "text"
//
//	[catalog]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
//	max_results = 100000
//	request_timeout = "30s"
//
// Job files use the same layout plus one [[job]] table per enumeration.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/jeweler/pkg/catalog"
	jerrors "github.com/matzehuels/jeweler/pkg/errors"
)

const appName = "jeweler"

// Config is the full settings file.
type Config struct {
	Defaults Defaults `toml:"defaults"`
	Catalog  Catalog  `toml:"catalog"`
	Server   Server   `toml:"server"`
	Jobs     []Job    `toml:"job"`
}

// Defaults apply to every enumeration unless overridden.
type Defaults struct {
	Mode    string `toml:"mode"`
	Workers int    `toml:"workers"`
	Limit   int    `toml:"limit"`
	Format  string `toml:"format"`
}

// Catalog selects the store used by search and catalog commands.
type Catalog struct {
	Backend         string `toml:"backend"`
	Dir             string `toml:"dir"`
	RedisAddr       string `toml:"redis_addr"`
	RedisPassword   string `toml:"redis_password"`
	RedisDB         int    `toml:"redis_db"`
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// Server configures the HTTP binding.
type Server struct {
	Addr           string        `toml:"addr"`
	MaxResults     int           `toml:"max_results"`
	RequestTimeout time.Duration `toml:"request_timeout"`
}

// Default values.
const (
	DefaultMode           = "bracelet"
	DefaultFormat         = "text"
	DefaultBackend        = catalog.BackendFile
	DefaultAddr           = ":8080"
	DefaultMaxResults     = 100000
	DefaultRequestTimeout = 30 * time.Second
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Defaults: Defaults{Mode: DefaultMode, Format: DefaultFormat},
		Catalog:  Catalog{Backend: DefaultBackend},
		Server: Server{
			Addr:           DefaultAddr,
			MaxResults:     DefaultMaxResults,
			RequestTimeout: DefaultRequestTimeout,
		},
	}
}

// Dir returns the configuration directory using XDG standard
// (~/.config/jeweler/).
func Dir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// Path returns the location of the user settings file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// LoadDefault reads the user settings file. A missing file yields
// [Default].
func LoadDefault() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// Load reads path on top of [Default]. Unknown keys are rejected so that
// typos do not pass silently.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, jerrors.Wrap(jerrors.ErrCodeInvalidFormat, err, "read %s", path)
	}
	return cfg, finish(&cfg, md, path)
}

// Parse decodes settings from TOML text on top of [Default].
func Parse(data string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, jerrors.Wrap(jerrors.ErrCodeInvalidFormat, err, "parse config")
	}
	return cfg, finish(&cfg, md, "config")
}

func finish(cfg *Config, md toml.MetaData, source string) error {
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return jerrors.New(jerrors.ErrCodeInvalidFormat, "%s: unknown keys %s", source, strings.Join(keys, ", "))
	}
	return cfg.Validate()
}

// Validate checks values that cannot be caught by decoding.
func (c *Config) Validate() error {
	if c.Defaults.Workers < 0 {
		return jerrors.New(jerrors.ErrCodeInvalidInput, "defaults.workers must not be negative")
	}
	if c.Defaults.Limit < 0 {
		return jerrors.New(jerrors.ErrCodeInvalidInput, "defaults.limit must not be negative")
	}
	if c.Server.MaxResults < 0 {
		return jerrors.New(jerrors.ErrCodeInvalidInput, "server.max_results must not be negative")
	}
	if c.Server.RequestTimeout < 0 {
		return jerrors.New(jerrors.ErrCodeInvalidInput, "server.request_timeout must not be negative")
	}
	for i, j := range c.Jobs {
		if err := j.validate(); err != nil {
			return jerrors.Wrap(jerrors.GetCode(err), err, "job %d", i+1)
		}
	}
	return nil
}

// StoreConfig converts the catalog section for [catalog.Open].
func (c Catalog) StoreConfig() catalog.Config {
	return catalog.Config{
		Backend: c.Backend,
		Dir:     c.Dir,
		Redis: catalog.RedisConfig{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
		},
		Mongo: catalog.MongoConfig{
			URI:        c.MongoURI,
			Database:   c.MongoDatabase,
			Collection: c.MongoCollection,
		},
	}
}
