package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/taskwave/pkg/analysis"
	"github.com/matzehuels/taskwave/pkg/cache"
	apperr "github.com/matzehuels/taskwave/pkg/errors"
)

// Config is the contents of config.toml.
//
//	conflict_penalty = 5
//	cache_capacity = 128
//
//	[store]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "168h"
//
//	[server]
//	addr = ":8080"
type Config struct {
	// ConflictPenalty is subtracted from the score per resource conflict.
	// A negative value disables the penalty.
	ConflictPenalty int `toml:"conflict_penalty"`

	// CacheCapacity bounds the in-memory report cache.
	CacheCapacity int `toml:"cache_capacity"`

	Store  StoreConfig  `toml:"store"`
	Server ServerConfig `toml:"server"`
}

// StoreConfig selects the second-tier report store.
type StoreConfig struct {
	// Backend is one of "file" (default), "redis", "mongo" or "none".
	Backend       string        `toml:"backend"`
	Dir           string        `toml:"dir"`
	RedisAddr     string        `toml:"redis_addr"`
	MongoURI      string        `toml:"mongo_uri"`
	MongoDatabase string        `toml:"mongo_database"`
	TTL           time.Duration `toml:"ttl"`

	// Prefix is prepended to every key, so deployments can share one
	// Redis or MongoDB store.
	Prefix string `toml:"prefix"`
}

// ServerConfig configures "taskwave serve".
type ServerConfig struct {
	Addr            string        `toml:"addr"`
	MaxBodyBytes    int64         `toml:"max_body_bytes"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

// defaultServerAddr is the listen address of "taskwave serve".
const defaultServerAddr = ":8080"

// SetDefaults fills zero values with defaults.
func (c *Config) SetDefaults() {
	if c.ConflictPenalty == 0 {
		c.ConflictPenalty = analysis.DefaultConflictPenalty
	}
	if c.CacheCapacity == 0 {
		c.CacheCapacity = analysis.DefaultCacheCapacity
	}
	if c.Store.Backend == "" {
		c.Store.Backend = cache.BackendFile
	}
	if c.Store.Backend == cache.BackendFile && c.Store.Dir == "" {
		if dir, err := cacheDir(); err == nil {
			c.Store.Dir = dir
		}
	}
	if c.Store.Backend == cache.BackendMongo && c.Store.MongoDatabase == "" {
		c.Store.MongoDatabase = appName
	}
	if c.Store.TTL == 0 {
		c.Store.TTL = cache.TTLReport
	}
	if c.Server.Addr == "" {
		c.Server.Addr = defaultServerAddr
	}
}

// keyer returns the store keyer, scoped by Store.Prefix. A nil config
// yields the default keyer.
func (c *Config) keyer() cache.Keyer {
	if c == nil {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.Store.Prefix)
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.CacheCapacity < 0 {
		return apperr.New(apperr.ErrCodeInvalidConfig, "cache_capacity must not be negative (got %d)", c.CacheCapacity)
	}
	if c.Store.TTL < 0 {
		return apperr.New(apperr.ErrCodeInvalidConfig, "store.ttl must not be negative (got %s)", c.Store.TTL)
	}
	switch c.Store.Backend {
	case cache.BackendFile, cache.BackendNone:
	case cache.BackendRedis:
		if c.Store.RedisAddr == "" {
			return apperr.New(apperr.ErrCodeInvalidConfig, "store.redis_addr is required for the redis backend")
		}
	case cache.BackendMongo:
		if c.Store.MongoURI == "" {
			return apperr.New(apperr.ErrCodeInvalidConfig, "store.mongo_uri is required for the mongo backend")
		}
	default:
		return apperr.New(apperr.ErrCodeInvalidConfig, "unknown store.backend %q (want file, redis, mongo or none)", c.Store.Backend)
	}
	if c.Server.MaxBodyBytes < 0 {
		return apperr.New(apperr.ErrCodeInvalidConfig, "server.max_body_bytes must not be negative")
	}
	return nil
}

// loadConfig reads the config file at path, applies defaults and validates
// the result. An empty path reads the default config file, which may be
// absent; an explicit path must exist.
func loadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = configFile()
	}

	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	switch {
	case err == nil:
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, apperr.New(apperr.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		cfg = Config{}
	case errors.Is(err, os.ErrNotExist):
		return nil, apperr.Wrap(apperr.ErrCodeFileNotFound, err, "config file %s not found", path)
	default:
		return nil, apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "parse %s", path)
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// configDir returns the config directory using XDG standard (~/.config/taskwave/).
func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "." + appName
	}
	return filepath.Join(home, ".config", appName)
}

// configFile returns the default config file path.
func configFile() string {
	return filepath.Join(configDir(), "config.toml")
}
