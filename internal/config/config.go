// Package config loads the knapset configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/knapset/config.toml
// (~/.config/knapset/config.toml when XDG_CONFIG_HOME is unset). Every key is
// optional; missing keys keep the values from [Default].
//
//	[solver]
//	time_limit = "30s"
//	max_steps  = 0
//
//	[cache]
//	backend = "file"   # file | redis | none
//	dir     = ""       # defaults to $XDG_CACHE_HOME/knapset
//
//	[redis]
//	addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
//
//	[store]
//	backend   = "memory" # memory | mongo
//	mongo_uri = "mongodb://localhost:27017"
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// AppName names the config and cache directories.
const AppName = "knapset"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"
)

// Duration is a time.Duration that decodes from strings such as "1m30s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config is the top-level configuration.
type Config struct {
	Solver SolverConfig `toml:"solver"`
	Cache  CacheConfig  `toml:"cache"`
	Redis  RedisConfig  `toml:"redis"`
	Server ServerConfig `toml:"server"`
	Store  StoreConfig  `toml:"store"`
}

// SolverConfig holds default search limits. Zero means unlimited.
type SolverConfig struct {
	TimeLimit Duration `toml:"time_limit"`
	MaxSteps  int64    `toml:"max_steps"`
}

// CacheConfig selects the solution cache backend.
type CacheConfig struct {
	Backend string   `toml:"backend"`
	Dir     string   `toml:"dir"`
	TTL     Duration `toml:"ttl"` // 0 keeps the built-in per-kind TTLs
}

// RedisConfig configures the redis cache backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// ServerConfig configures `knapset serve`.
type ServerConfig struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
}

// StoreConfig selects the run archive backend.
type StoreConfig struct {
	Backend    string `toml:"backend"`
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Cache: CacheConfig{Backend: CacheFile},
		Redis: RedisConfig{Addr: "localhost:6379", Prefix: AppName + ":"},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  Duration{10 * time.Second},
			WriteTimeout: Duration{5 * time.Minute},
		},
		Store: StoreConfig{
			Backend:    StoreMemory,
			MongoURI:   "mongodb://localhost:27017",
			Database:   AppName,
			Collection: "runs",
		},
	}
}

// Load reads the file at path over the defaults. An empty path loads the
// default location, where a missing file is not an error. Unknown keys are
// rejected so typos do not pass silently.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks enumerated values and limits.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case CacheFile, CacheRedis, CacheNone:
	default:
		return fmt.Errorf("cache.backend must be file, redis or none, got %q", c.Cache.Backend)
	}
	switch c.Store.Backend {
	case StoreMemory, StoreMongo:
	default:
		return fmt.Errorf("store.backend must be memory or mongo, got %q", c.Store.Backend)
	}
	if c.Solver.MaxSteps < 0 {
		return fmt.Errorf("solver.max_steps must be >= 0")
	}
	if c.Solver.TimeLimit.Duration < 0 {
		return fmt.Errorf("solver.time_limit must be >= 0")
	}
	return nil
}

// Path returns the default config file path.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// CacheDir returns the file cache directory: cache.dir when set, else
// $XDG_CACHE_HOME/knapset or ~/.cache/knapset.
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}
