// Package config loads the layered service configuration: an optional
// config.toml, an optional config.<env>.toml overlay, then defaults and
// VERITAS_* environment overrides per section.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/veritas/internal/prediction"
	"github.com/JaimeStill/veritas/pkg/cache"
	"github.com/JaimeStill/veritas/pkg/database"
	"github.com/JaimeStill/veritas/pkg/logging"
	"github.com/JaimeStill/veritas/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvVeritasEnv             = "VERITAS_ENV"
	EnvVeritasShutdownTimeout = "VERITAS_SHUTDOWN_TIMEOUT"
	EnvVeritasVersion         = "VERITAS_VERSION"
)

var clientEnv = &prediction.Env{
	BaseURL:         "VERITAS_CLIENT_BASE_URL",
	Timeout:         "VERITAS_CLIENT_TIMEOUT",
	MaxResponseSize: "VERITAS_CLIENT_MAX_RESPONSE_SIZE",
	UserAgent:       "VERITAS_CLIENT_USER_AGENT",
}

var databaseEnv = &database.Env{
	Host:            "VERITAS_DB_HOST",
	Port:            "VERITAS_DB_PORT",
	Name:            "VERITAS_DB_NAME",
	User:            "VERITAS_DB_USER",
	Password:        "VERITAS_DB_PASSWORD",
	SSLMode:         "VERITAS_DB_SSL_MODE",
	MaxOpenConns:    "VERITAS_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "VERITAS_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "VERITAS_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "VERITAS_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "VERITAS_STORAGE_CONTAINER_NAME",
	ConnectionString: "VERITAS_STORAGE_CONNECTION_STRING",
	ServiceURL:       "VERITAS_STORAGE_SERVICE_URL",
}

var cacheEnv = &cache.Env{
	Addresses:    "VERITAS_CACHE_ADDRESSES",
	Username:     "VERITAS_CACHE_USERNAME",
	Password:     "VERITAS_CACHE_PASSWORD",
	TLS:          "VERITAS_CACHE_TLS",
	SelectDB:     "VERITAS_CACHE_SELECT_DB",
	WriteTimeout: "VERITAS_CACHE_WRITE_TIMEOUT",
	PingTimeout:  "VERITAS_CACHE_PING_TIMEOUT",
}

var loggingEnv = &logging.Env{
	Level:     "VERITAS_LOG_LEVEL",
	Format:    "VERITAS_LOG_FORMAT",
	AddSource: "VERITAS_LOG_ADD_SOURCE",
}

// Config is the root configuration for the Veritas service and CLI.
type Config struct {
	Server          ServerConfig      `toml:"server"`
	Client          prediction.Config `toml:"client"`
	History         HistoryConfig     `toml:"history"`
	Database        database.Config   `toml:"database"`
	Storage         storage.Config    `toml:"storage"`
	Cache           cache.Config      `toml:"cache"`
	Logging         logging.Config    `toml:"logging"`
	API             APIConfig         `toml:"api"`
	ShutdownTimeout string            `toml:"shutdown_timeout"`
	Version         string            `toml:"version"`
}

// Env returns the VERITAS_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvVeritasEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	return LoadFile(BaseConfigFile)
}

// LoadFile is Load with an explicit base config path. The overlay is
// resolved relative to the working directory.
func LoadFile(path string) (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(path); err == nil {
		loaded, err := load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Client.Merge(&overlay.Client)
	c.History.Merge(&overlay.History)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.Cache.Merge(&overlay.Cache)
	c.Logging.Merge(&overlay.Logging)
	c.API.Merge(&overlay.API)
}

// Finalize applies defaults, environment overrides, and validation to every
// section. Backend sections are only finalized when the history backend
// selected needs them.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Client.Finalize(clientEnv); err != nil {
		return fmt.Errorf("client: %w", err)
	}
	if err := c.Server.Finalize(c.Client.TimeoutDuration()); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.History.Finalize(); err != nil {
		return fmt.Errorf("history: %w", err)
	}
	if err := c.Logging.Finalize(loggingEnv); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}

	switch c.History.Backend {
	case BackendPostgres:
		if err := c.Database.Finalize(databaseEnv); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	case BackendBlob:
		if err := c.Storage.Finalize(storageEnv); err != nil {
			return fmt.Errorf("storage: %w", err)
		}
	case BackendValkey:
		if err := c.Cache.Finalize(cacheEnv); err != nil {
			return fmt.Errorf("cache: %w", err)
		}
	}
	return nil
}

// FinalizeDatabase finalizes the database section regardless of the selected
// history backend. Tools that manage the schema call it directly.
func (c *Config) FinalizeDatabase() error {
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvVeritasShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvVeritasVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvVeritasEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
