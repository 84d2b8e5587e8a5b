// Package cache provides a Valkey client with lifecycle coordination.
package cache

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/JaimeStill/veritas/pkg/lifecycle"
)

// System manages a Valkey client and lifecycle coordination.
type System interface {
	// Client returns the underlying Valkey client.
	Client() valkey.Client
	// Start pings the server during startup and closes the client on shutdown.
	Start(lc *lifecycle.Coordinator) error
}

type cache struct {
	client      valkey.Client
	logger      *slog.Logger
	pingTimeout time.Duration
}

// New dials the configured Valkey nodes. It fails when no node is reachable.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	opts := valkey.ClientOption{
		InitAddress:      cfg.Addresses,
		Username:         cfg.Username,
		Password:         cfg.Password,
		SelectDB:         cfg.SelectDB,
		ConnWriteTimeout: cfg.WriteTimeoutDuration(),
	}
	if cfg.TLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("create valkey client: %w", err)
	}

	return &cache{
		client:      client,
		logger:      logger.With("system", "cache"),
		pingTimeout: cfg.PingTimeoutDuration(),
	}, nil
}

func (c *cache) Client() valkey.Client {
	return c.client
}

func (c *cache) Start(lc *lifecycle.Coordinator) error {
	lc.OnStartup("cache", func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, c.pingTimeout)
		defer cancel()

		if err := c.client.Do(pingCtx, c.client.B().Ping().Build()).Error(); err != nil {
			c.logger.Error("valkey ping failed", "error", err)
			return fmt.Errorf("ping valkey: %w", err)
		}

		c.logger.Info("valkey connection established")
		return nil
	})

	lc.OnShutdown("cache", func(context.Context) error {
		c.client.Close()
		c.logger.Info("valkey connection closed")
		return nil
	})

	return nil
}
