package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/tkoenig/sopnet/pkg/cache"
	"github.com/tkoenig/sopnet/pkg/pipeline"
)

// Config is the on-disk CLI configuration, read from
// ~/.config/sopnet/config.toml (or $XDG_CONFIG_HOME/sopnet/config.toml).
// Every field has a working default, so the file is optional.
type Config struct {
	Cache    CacheConfig    `toml:"cache"`
	Optimize OptimizeConfig `toml:"optimize"`
	Serve    ServeConfig    `toml:"serve"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	// Backend is one of "file", "redis", "mongo", or "none".
	Backend string `toml:"backend"`

	// Dir overrides the file backend's directory.
	Dir string `toml:"dir"`

	Redis RedisConfig `toml:"redis"`
	Mongo MongoConfig `toml:"mongo"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// MongoConfig configures the mongo backend.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// OptimizeConfig carries default optimization limits.
type OptimizeConfig struct {
	MaxNewNodes int `toml:"max_new_nodes"`
	MinSaving   int `toml:"min_saving"`
}

// ServeConfig configures the HTTP server.
type ServeConfig struct {
	Addr string `toml:"addr"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Cache: CacheConfig{
			Backend: "file",
			Redis:   RedisConfig{Addr: "localhost:6379"},
			Mongo: MongoConfig{
				URI:        "mongodb://localhost:27017",
				Database:   appName,
				Collection: "cache",
			},
		},
		Optimize: OptimizeConfig{
			MaxNewNodes: pipeline.DefaultMaxNewNodes,
			MinSaving:   pipeline.DefaultMinSaving,
		},
		Serve: ServeConfig{Addr: ":8080"},
	}
}

// configPath returns the configuration file path using XDG conventions.
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// LoadConfig reads and decodes the configuration file at path, applying
// defaults for any omitted fields.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// LoadConfigOrDefault reads the default config file, silently falling back
// to defaults when the file is absent or unreadable.
func LoadConfigOrDefault() Config {
	path, err := configPath()
	if err != nil {
		return DefaultConfig()
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return DefaultConfig()
	}
	return cfg
}

// Open builds the cache backend this configuration selects.
func (c CacheConfig) Open() (cache.Cache, error) {
	switch c.Backend {
	case "", "file":
		dir := c.Dir
		if dir == "" {
			d, err := cacheDir()
			if err != nil {
				return cache.NewNullCache(), nil
			}
			dir = d
		}
		return cache.NewFileCache(dir)
	case "redis":
		return cache.NewRedisCache(c.Redis.Addr, c.Redis.Password, c.Redis.DB)
	case "mongo":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return cache.NewMongoCache(ctx, c.Mongo.URI, c.Mongo.Database, c.Mongo.Collection)
	case "none":
		return cache.NewNullCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %q (must be 'file', 'redis', 'mongo', or 'none')", c.Backend)
	}
}
