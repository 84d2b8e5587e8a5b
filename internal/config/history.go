package config

import (
	"fmt"
	"os"
	"slices"

	"github.com/JaimeStill/veritas/internal/history"
)

// History backends.
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendBlob     = "blob"
	BackendPostgres = "postgres"
	BackendValkey   = "valkey"
)

var backends = []string{BackendFile, BackendMemory, BackendBlob, BackendPostgres, BackendValkey}

const (
	EnvHistoryBackend      = "VERITAS_HISTORY_BACKEND"
	EnvHistoryKey          = "VERITAS_HISTORY_KEY"
	EnvHistoryDir          = "VERITAS_HISTORY_DIR"
	EnvHistoryTimeFormat   = "VERITAS_HISTORY_TIME_FORMAT"
	EnvHistoryValkeyPrefix = "VERITAS_HISTORY_VALKEY_PREFIX"
)

// HistoryConfig selects where the history log is persisted.
type HistoryConfig struct {
	Backend      string `toml:"backend"`
	Key          string `toml:"key"`
	Dir          string `toml:"dir"`
	TimeFormat   string `toml:"time_format"`
	ValkeyPrefix string `toml:"valkey_prefix"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *HistoryConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *HistoryConfig) Merge(overlay *HistoryConfig) {
	if overlay.Backend != "" {
		c.Backend = overlay.Backend
	}
	if overlay.Key != "" {
		c.Key = overlay.Key
	}
	if overlay.Dir != "" {
		c.Dir = overlay.Dir
	}
	if overlay.TimeFormat != "" {
		c.TimeFormat = overlay.TimeFormat
	}
	if overlay.ValkeyPrefix != "" {
		c.ValkeyPrefix = overlay.ValkeyPrefix
	}
}

func (c *HistoryConfig) loadDefaults() {
	if c.Backend == "" {
		c.Backend = BackendFile
	}
	if c.Key == "" {
		c.Key = history.DefaultKey
	}
	if c.Dir == "" {
		c.Dir = history.DefaultDir()
	}
	if c.TimeFormat == "" {
		c.TimeFormat = history.DefaultTimeLayout
	}
	if c.ValkeyPrefix == "" {
		c.ValkeyPrefix = "veritas:"
	}
}

func (c *HistoryConfig) loadEnv() {
	if v := os.Getenv(EnvHistoryBackend); v != "" {
		c.Backend = v
	}
	if v := os.Getenv(EnvHistoryKey); v != "" {
		c.Key = v
	}
	if v := os.Getenv(EnvHistoryDir); v != "" {
		c.Dir = v
	}
	if v := os.Getenv(EnvHistoryTimeFormat); v != "" {
		c.TimeFormat = v
	}
	if v := os.Getenv(EnvHistoryValkeyPrefix); v != "" {
		c.ValkeyPrefix = v
	}
}

func (c *HistoryConfig) validate() error {
	if !slices.Contains(backends, c.Backend) {
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if err := history.ValidateKey(c.Key); err != nil {
		return err
	}
	return nil
}
