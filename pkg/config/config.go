// Package config loads etchgrid settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/etchgrid/config.toml (falling back to
// ~/.config/etchgrid/config.toml). A missing file is not an error: every
// field has a default, and command-line flags override whatever is loaded.
//
//	[grid]
//	default_size = 16
//	container_px = 500
//	default_mode = "black"
//
//	[server]
//	addr = "127.0.0.1:8080"
//	session_ttl = "2h"
//
//	[store]
//	backend = "local"    # local | redis | memory
//	app_name = "etchgrid"
//	redis_addr = "localhost:6379"
//	redis_db = 0
//	redis_prefix = "etchgrid:sketch:"
//
//	[cache]
//	enabled = true
package config

import (
	goerrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/etchgrid/pkg/errors"
	"github.com/matzehuels/etchgrid/pkg/sketch"
)

// AppName names the config, cache and data directories.
const AppName = "etchgrid"

// Store backends.
const (
	BackendLocal  = "local"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config is the full set of settings.
type Config struct {
	Grid   GridConfig   `toml:"grid"`
	Server ServerConfig `toml:"server"`
	Store  StoreConfig  `toml:"store"`
	Cache  CacheConfig  `toml:"cache"`
}

// GridConfig controls the grid a new controller starts with.
type GridConfig struct {
	DefaultSize int         `toml:"default_size"`
	ContainerPx float64     `toml:"container_px"`
	DefaultMode sketch.Mode `toml:"default_mode"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Addr       string   `toml:"addr"`
	SessionTTL Duration `toml:"session_ttl"`
}

// StoreConfig selects and configures the sketch store.
type StoreConfig struct {
	Backend     string `toml:"backend"`
	AppName     string `toml:"app_name"`
	RedisAddr   string `toml:"redis_addr"`
	RedisDB     int    `toml:"redis_db"`
	RedisPrefix string `toml:"redis_prefix"`
}

// CacheConfig controls the export artifact cache.
type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// Duration is a time.Duration that reads "90s"-style strings from TOML.
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
	return []byte(d.String()), nil
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Grid: GridConfig{
			DefaultSize: sketch.DefaultSize,
			ContainerPx: sketch.DefaultContainerPx,
			DefaultMode: sketch.ModeBlack,
		},
		Server: ServerConfig{
			Addr:       "127.0.0.1:8080",
			SessionTTL: Duration{2 * time.Hour},
		},
		Store: StoreConfig{
			Backend:     BackendLocal,
			AppName:     AppName,
			RedisAddr:   "localhost:6379",
			RedisPrefix: AppName + ":sketch:",
		},
		Cache: CacheConfig{
			Enabled: true,
		},
	}
}

// Load reads the file at path on top of Default. A missing file yields the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	meta, err := toml.DecodeFile(path, &cfg)
	if goerrors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Default(), errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Default(), errors.New(errors.ErrCodeInvalidInput, "unknown config key %q in %s", undecoded[0].String(), path)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Validate checks that every setting is usable.
func (c Config) Validate() error {
	if err := sketch.ValidateSize(c.Grid.DefaultSize); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "grid.default_size")
	}
	if c.Grid.ContainerPx <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "grid.container_px must be positive, got %v", c.Grid.ContainerPx)
	}
	if !c.Grid.DefaultMode.Valid() {
		return errors.New(errors.ErrCodeInvalidMode, "grid.default_mode is invalid")
	}
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidInput, "server.addr cannot be empty")
	}
	if c.Server.SessionTTL.Duration <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "server.session_ttl must be positive")
	}
	switch c.Store.Backend {
	case BackendLocal, BackendMemory:
	case BackendRedis:
		if c.Store.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidInput, "store.redis_addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown store.backend %q (want local, redis or memory)", c.Store.Backend)
	}
	if c.Store.AppName == "" {
		return errors.New(errors.ErrCodeInvalidInput, "store.app_name cannot be empty")
	}
	return nil
}

// Write encodes c as TOML.
func (c Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Path returns the default config file location.
func Path() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// CacheDir returns the export cache directory using the XDG standard
// (~/.cache/etchgrid/), or the configured override.
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".cache", AppName), nil
}

func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", AppName), nil
}
