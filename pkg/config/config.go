// Package config loads the graphcore TOML configuration file.
//
// The file lives at $XDG_CONFIG_HOME/graphcore/config.toml (falling back to
// ~/.config/graphcore/config.toml). Every key is optional:
//
//	log_level = "info"
//	default_policy = "strict"
//
//	[cache]
//	backend = "file"   # file, redis or none
//	dir = "/tmp/graphcore-cache"
//
//	[redis]
//	addr = "localhost:6379"
//
//	[mongo]
//	uri = "mongodb://localhost:27017"
//	database = "graphcore"
//
//	[serve]
//	addr = "127.0.0.1:8080"
//
//	[rulesets.org_chart]
//	rules = ["single_root", "no_cycles", "max_children_8"]
//	hierarchy = ["reports_to"]
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphcore/pkg/rules"
)

// AppName names the config and cache directories.
const AppName = "graphcore"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the decoded configuration file.
type Config struct {
	LogLevel      string                      `toml:"log_level"`
	DefaultPolicy rules.Policy                `toml:"default_policy"`
	Cache         CacheConfig                 `toml:"cache"`
	Redis         RedisConfig                 `toml:"redis"`
	Mongo         MongoConfig                 `toml:"mongo"`
	Serve         ServeConfig                 `toml:"serve"`
	Rulesets      map[string]rules.RulesetDef `toml:"rulesets"`
}

// CacheConfig selects the artifact cache.
type CacheConfig struct {
	Backend string `toml:"backend"`
	Dir     string `toml:"dir"`
}

// RedisConfig configures the redis cache backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// MongoConfig configures snapshot storage.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// ServeConfig configures the debug HTTP server.
type ServeConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		LogLevel:      "info",
		DefaultPolicy: rules.Strict,
		Cache:         CacheConfig{Backend: BackendFile},
		Redis:         RedisConfig{Addr: "localhost:6379", Prefix: AppName + ":"},
		Mongo:         MongoConfig{Database: AppName, Collection: "snapshots"},
		Serve:         ServeConfig{Addr: "127.0.0.1:8080"},
	}
}

// Decode reads TOML from r on top of the defaults.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, cfg.Validate()
}

// Load reads the file at path. A missing file yields the defaults.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks enumerated values.
func (c Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return fmt.Errorf("cache.backend: unknown backend %q", c.Cache.Backend)
	}
	return nil
}

// Level returns the configured log level.
func (c Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// RegisterRulesets builds the [rulesets] table and registers each ruleset
// in cat. Returns the registered names.
func (c Config) RegisterRulesets(cat *rules.Catalog) ([]string, error) {
	built, err := rules.RulesetFile{Rulesets: c.Rulesets}.Build()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(built))
	for _, rs := range built {
		if err := cat.Register(rs); err != nil {
			return nil, err
		}
		names = append(names, rs.Name)
	}
	return names, nil
}

// Path returns the default config file location.
func Path() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// CacheDir returns cache.dir or the XDG cache directory.
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if home := os.Getenv("XDG_CACHE_HOME"); home != "" {
		return filepath.Join(home, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}
