// Package config loads stageflow settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/stageflow/config.toml (falling back to
// ~/.config/stageflow/config.toml) unless a path is given explicitly. Every
// setting has a default, so a missing default file is not an error:
//
//	[build]
//	top_n = 30
//	formats = ["html"]
//
//	[cache]
//	backend = "file"        # file, redis or none
//	ttl = "30m"
//
//	[mongo]
//	uri = "mongodb://localhost:27017"
//	database = "analytics"
//	collection = "service_flows"
//
//	[server]
//	addr = ":8080"
//	metrics = true
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/stageflow/pkg/errors"
	"github.com/matzehuels/stageflow/pkg/flow"
)

const appName = "stageflow"

// EnvMongoURI overrides mongo.uri so credentials can stay out of the file.
const EnvMongoURI = "STAGEFLOW_MONGO_URI"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Duration is a time.Duration read from strings such as "30m".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config is the full application configuration.
type Config struct {
	Build  Build  `toml:"build"`
	Cache  Cache  `toml:"cache"`
	Mongo  Mongo  `toml:"mongo"`
	Server Server `toml:"server"`
}

// Build holds diagram defaults.
type Build struct {
	TopN    int      `toml:"top_n" validate:"gte=1"`
	Formats []string `toml:"formats" validate:"dive,oneof=json plotly html dot svg png pdf"`
}

// Cache selects and configures the cache backend.
type Cache struct {
	Backend       string   `toml:"backend" validate:"oneof=file redis none"`
	Dir           string   `toml:"dir"`
	TTL           Duration `toml:"ttl"`
	RedisAddr     string   `toml:"redis_addr" validate:"required_if=Backend redis"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db" validate:"gte=0"`
}

// Mongo configures the MongoDB record source.
type Mongo struct {
	URI        string   `toml:"uri" validate:"omitempty,startswith=mongodb"`
	Database   string   `toml:"database"`
	Collection string   `toml:"collection"`
	Timeout    Duration `toml:"timeout"`
}

// Server configures the HTTP service.
type Server struct {
	Addr         string `toml:"addr" validate:"required"`
	MaxBodyBytes int64  `toml:"max_body_bytes" validate:"gte=0"`
	Metrics      bool   `toml:"metrics"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Build: Build{
			TopN:    flow.DefaultTopN,
			Formats: []string{"html"},
		},
		Cache: Cache{
			Backend: BackendFile,
			TTL:     Duration{30 * time.Minute},
		},
		Mongo: Mongo{
			Database:   "analytics",
			Collection: "service_flows",
			Timeout:    Duration{30 * time.Second},
		},
		Server: Server{
			Addr:    ":8080",
			Metrics: true,
		},
	}
}

// DefaultPath returns the XDG config file location.
func DefaultPath() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the config file at path on top of the defaults. An empty path
// means DefaultPath, which may be absent; an explicit path must exist.
// Unknown keys are rejected.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, cfg.finish()
		}
		path = p
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, cfg.finish()
		}
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// finish applies environment overrides and validates.
func (c *Config) finish() error {
	if uri := os.Getenv(EnvMongoURI); uri != "" {
		c.Mongo.URI = uri
	}
	return c.Validate()
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			fe := verrs[0]
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s fails %q", fe.Namespace(), fe.Tag())
		}
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid config")
	}
	return nil
}

// CacheDir returns the configured cache directory or the XDG default
// (~/.cache/stageflow).
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
