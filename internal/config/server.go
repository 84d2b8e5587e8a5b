package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvServerHost            = "VERITAS_SERVER_HOST"
	EnvServerPort            = "VERITAS_SERVER_PORT"
	EnvServerReadTimeout     = "VERITAS_SERVER_READ_TIMEOUT"
	EnvServerWriteTimeout    = "VERITAS_SERVER_WRITE_TIMEOUT"
	EnvServerShutdownTimeout = "VERITAS_SERVER_SHUTDOWN_TIMEOUT"
)

// responseMargin is the time a submit response needs beyond the prediction
// exchange itself: history write-through and rendering.
const responseMargin = 10 * time.Second

// ServerConfig holds HTTP server parameters. The server is a single-user
// front end, so it listens on loopback unless told otherwise.
//
// Timeouts left unset are derived from the classification client timeout:
// a submit request must outlive the exchange it waits on, and shutdown
// waits as long as one exchange may take.
type ServerConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	ReadTimeout     string `toml:"read_timeout"`
	WriteTimeout    string `toml:"write_timeout"`
	ShutdownTimeout string `toml:"shutdown_timeout"`

	read, write, shutdown time.Duration
}

// Addr returns the host:port listen address.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ReadTimeoutDuration returns the parsed read timeout.
func (c *ServerConfig) ReadTimeoutDuration() time.Duration { return c.read }

// WriteTimeoutDuration returns the parsed write timeout.
func (c *ServerConfig) WriteTimeoutDuration() time.Duration { return c.write }

// ShutdownTimeoutDuration returns the parsed graceful shutdown timeout.
func (c *ServerConfig) ShutdownTimeoutDuration() time.Duration { return c.shutdown }

// Finalize applies defaults derived from clientTimeout, environment
// overrides, and validation.
func (c *ServerConfig) Finalize(clientTimeout time.Duration) error {
	c.loadDefaults(clientTimeout)
	c.loadEnv()
	return c.validate(clientTimeout)
}

// Merge overwrites non-zero fields from overlay.
func (c *ServerConfig) Merge(overlay *ServerConfig) {
	if overlay.Host != "" {
		c.Host = overlay.Host
	}
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
	if overlay.ReadTimeout != "" {
		c.ReadTimeout = overlay.ReadTimeout
	}
	if overlay.WriteTimeout != "" {
		c.WriteTimeout = overlay.WriteTimeout
	}
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
}

func (c *ServerConfig) loadDefaults(clientTimeout time.Duration) {
	if c.Host == "" {
		c.Host = "127.0.0.1"
	}
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.ReadTimeout == "" {
		c.ReadTimeout = "15s"
	}
	if c.WriteTimeout == "" {
		c.WriteTimeout = (clientTimeout + responseMargin).String()
	}
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = clientTimeout.String()
	}
}

func (c *ServerConfig) loadEnv() {
	if v := os.Getenv(EnvServerHost); v != "" {
		c.Host = v
	}
	if v := os.Getenv(EnvServerPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
	if v := os.Getenv(EnvServerReadTimeout); v != "" {
		c.ReadTimeout = v
	}
	if v := os.Getenv(EnvServerWriteTimeout); v != "" {
		c.WriteTimeout = v
	}
	if v := os.Getenv(EnvServerShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
}

func (c *ServerConfig) validate(clientTimeout time.Duration) error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}

	var err error
	if c.read, err = parsePositive(c.ReadTimeout); err != nil {
		return fmt.Errorf("invalid read_timeout: %w", err)
	}
	if c.write, err = parsePositive(c.WriteTimeout); err != nil {
		return fmt.Errorf("invalid write_timeout: %w", err)
	}
	if c.shutdown, err = parsePositive(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}

	if c.write <= clientTimeout {
		return fmt.Errorf(
			"write_timeout %s must exceed the client timeout %s",
			c.write, clientTimeout,
		)
	}
	return nil
}

func parsePositive(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s is not positive", s)
	}
	return d, nil
}
