// Package config loads server and CLI configuration from a TOML file,
// applying defaults for anything left unset.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Defaults.
const (
	DefaultAddr             = ":8000"
	DefaultCacheBackend     = "file"
	DefaultRedisAddr        = "localhost:6379"
	DefaultStoreBackend     = "file"
	DefaultMongoURI         = "mongodb://localhost:27017"
	DefaultMongoDatabase    = "genehive"
	DefaultCatalogPath      = "catalog.db"
	DefaultAutosaveInterval = time.Minute
)

// DefaultCORSOrigins allows the local frontend dev server.
var DefaultCORSOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}

// Config is the application configuration.
type Config struct {
	Server   Server   `toml:"server"`
	Cache    CacheCfg `toml:"cache"`
	Store    StoreCfg `toml:"store"`
	Catalog  Catalog  `toml:"catalog"`
	Autosave Autosave `toml:"autosave"`
}

// Server configures the HTTP API.
type Server struct {
	Addr        string   `toml:"addr"`
	CORSOrigins []string `toml:"cors_origins"`
}

// CacheCfg selects the pipeline result cache backend.
type CacheCfg struct {
	// Backend is "file", "redis", or "none".
	Backend   string `toml:"backend"`
	Dir       string `toml:"dir"` // file backend; empty means a default under the user cache dir
	RedisAddr string `toml:"redis_addr"`
}

// StoreCfg selects the tree persistence backend.
type StoreCfg struct {
	// Backend is "file", "memory", or "mongo".
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"` // file backend
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// Catalog configures the disease catalog database.
type Catalog struct {
	// Path is the SQLite file; empty selects the in-memory builtin
	// catalog.
	Path  string `toml:"path"`
	Debug bool   `toml:"debug"`
}

// Autosave configures workspace autosaving.
type Autosave struct {
	Interval duration `toml:"interval"`
	Disabled bool     `toml:"disabled"`
}

// duration lets TOML carry values like "30s".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server: Server{
			Addr:        DefaultAddr,
			CORSOrigins: DefaultCORSOrigins,
		},
		Cache: CacheCfg{
			Backend:   DefaultCacheBackend,
			RedisAddr: DefaultRedisAddr,
		},
		Store: StoreCfg{
			Backend:       DefaultStoreBackend,
			MongoURI:      DefaultMongoURI,
			MongoDatabase: DefaultMongoDatabase,
		},
		Catalog: Catalog{
			Path: DefaultCatalogPath,
		},
		Autosave: Autosave{
			Interval: duration{DefaultAutosaveInterval},
		},
	}
}

// Load reads a TOML config file and merges it over the defaults.
// A missing file is not an error; the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// DefaultPath returns ~/.config/genehive/config.toml, or an empty
// string when the home directory cannot be resolved.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "genehive", "config.toml")
}

// AutosaveInterval returns the configured interval as a plain duration.
func (c Config) AutosaveInterval() time.Duration {
	return c.Autosave.Interval.Duration
}
