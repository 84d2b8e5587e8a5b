package prediction

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/JaimeStill/veritas/pkg/formatting"
)

// Config holds the classification service endpoint and transport limits.
type Config struct {
	BaseURL         string              `toml:"base_url"`
	Timeout         string              `toml:"timeout"`
	MaxResponseSize formatting.ByteSize `toml:"max_response_size"`
	UserAgent       string              `toml:"user_agent"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	BaseURL         string
	Timeout         string
	MaxResponseSize string
	UserAgent       string
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		if err := c.loadEnv(env); err != nil {
			return err
		}
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.MaxResponseSize != 0 {
		c.MaxResponseSize = overlay.MaxResponseSize
	}
	if overlay.UserAgent != "" {
		c.UserAgent = overlay.UserAgent
	}
}

func (c *Config) loadDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "http://127.0.0.1:5000"
	}
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
	if c.MaxResponseSize == 0 {
		c.MaxResponseSize = 1 << 20
	}
	if c.UserAgent == "" {
		c.UserAgent = "veritas/0.1"
	}
}

func (c *Config) loadEnv(env *Env) error {
	if env.BaseURL != "" {
		if v := os.Getenv(env.BaseURL); v != "" {
			c.BaseURL = v
		}
	}
	if env.Timeout != "" {
		if v := os.Getenv(env.Timeout); v != "" {
			c.Timeout = v
		}
	}
	if env.MaxResponseSize != "" {
		if v := os.Getenv(env.MaxResponseSize); v != "" {
			if err := c.MaxResponseSize.UnmarshalText([]byte(v)); err != nil {
				return fmt.Errorf("invalid max_response_size: %w", err)
			}
		}
	}
	if env.UserAgent != "" {
		if v := os.Getenv(env.UserAgent); v != "" {
			c.UserAgent = v
		}
	}
	return nil
}

func (c *Config) validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base_url scheme: %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("base_url host required")
	}

	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("timeout must be positive")
	}

	if c.MaxResponseSize < 0 {
		return fmt.Errorf("max_response_size must be positive")
	}
	return nil
}
