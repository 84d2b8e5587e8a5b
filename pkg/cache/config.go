package cache

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds Valkey connection parameters.
type Config struct {
	Addresses    []string `toml:"addresses"`
	Username     string   `toml:"username"`
	Password     string   `toml:"password"`
	TLS          bool     `toml:"tls"`
	SelectDB     int      `toml:"select_db"`
	WriteTimeout string   `toml:"write_timeout"`
	PingTimeout  string   `toml:"ping_timeout"`
}

// Env maps config fields to environment variable names for override injection.
// Addresses is read as a comma-separated list.
type Env struct {
	Addresses    string
	Username     string
	Password     string
	TLS          string
	SelectDB     string
	WriteTimeout string
	PingTimeout  string
}

// WriteTimeoutDuration returns WriteTimeout as a time.Duration.
func (c *Config) WriteTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.WriteTimeout)
	return d
}

// PingTimeoutDuration returns PingTimeout as a time.Duration.
func (c *Config) PingTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.PingTimeout)
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
	if len(overlay.Addresses) > 0 {
		c.Addresses = overlay.Addresses
	}
	if overlay.Username != "" {
		c.Username = overlay.Username
	}
	if overlay.Password != "" {
		c.Password = overlay.Password
	}
	if overlay.TLS {
		c.TLS = true
	}
	if overlay.SelectDB != 0 {
		c.SelectDB = overlay.SelectDB
	}
	if overlay.WriteTimeout != "" {
		c.WriteTimeout = overlay.WriteTimeout
	}
	if overlay.PingTimeout != "" {
		c.PingTimeout = overlay.PingTimeout
	}
}

func (c *Config) loadDefaults() {
	if len(c.Addresses) == 0 {
		c.Addresses = []string{"127.0.0.1:6379"}
	}
	if c.WriteTimeout == "" {
		c.WriteTimeout = "5s"
	}
	if c.PingTimeout == "" {
		c.PingTimeout = "3s"
	}
}

func (c *Config) loadEnv(env *Env) error {
	if env.Addresses != "" {
		if v := os.Getenv(env.Addresses); v != "" {
			var addrs []string
			for a := range strings.SplitSeq(v, ",") {
				if a = strings.TrimSpace(a); a != "" {
					addrs = append(addrs, a)
				}
			}
			c.Addresses = addrs
		}
	}
	if env.Username != "" {
		if v := os.Getenv(env.Username); v != "" {
			c.Username = v
		}
	}
	if env.Password != "" {
		if v := os.Getenv(env.Password); v != "" {
			c.Password = v
		}
	}
	if env.TLS != "" {
		if v := os.Getenv(env.TLS); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid tls: %w", err)
			}
			c.TLS = b
		}
	}
	if env.SelectDB != "" {
		if v := os.Getenv(env.SelectDB); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid select_db: %w", err)
			}
			c.SelectDB = n
		}
	}
	if env.WriteTimeout != "" {
		if v := os.Getenv(env.WriteTimeout); v != "" {
			c.WriteTimeout = v
		}
	}
	if env.PingTimeout != "" {
		if v := os.Getenv(env.PingTimeout); v != "" {
			c.PingTimeout = v
		}
	}
	return nil
}

func (c *Config) validate() error {
	if len(c.Addresses) == 0 {
		return fmt.Errorf("addresses required")
	}
	if c.SelectDB < 0 {
		return fmt.Errorf("invalid select_db: %d", c.SelectDB)
	}
	if _, err := time.ParseDuration(c.WriteTimeout); err != nil {
		return fmt.Errorf("invalid write_timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.PingTimeout); err != nil {
		return fmt.Errorf("invalid ping_timeout: %w", err)
	}
	return nil
}
