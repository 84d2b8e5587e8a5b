package config

import (
	"fmt"
	"os"

	"github.com/JaimeStill/veritas/pkg/formatting"
	"github.com/JaimeStill/veritas/pkg/middleware"
	"github.com/JaimeStill/veritas/pkg/module"
	"github.com/JaimeStill/veritas/pkg/openapi"
)

var openapiEnv = &openapi.ConfigEnv{
	Title:       "VERITAS_OPENAPI_TITLE",
	Description: "VERITAS_OPENAPI_DESCRIPTION",
	ServerURL:   "VERITAS_OPENAPI_SERVER_URL",
}

var corsEnv = &middleware.CORSEnv{
	Enabled:          "VERITAS_CORS_ENABLED",
	Origins:          "VERITAS_CORS_ORIGINS",
	AllowedMethods:   "VERITAS_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "VERITAS_CORS_ALLOWED_HEADERS",
	AllowCredentials: "VERITAS_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "VERITAS_CORS_MAX_AGE",
}

const (
	EnvAPIBasePath       = "VERITAS_API_BASE_PATH"
	EnvAPIMaxRequestSize = "VERITAS_API_MAX_REQUEST_SIZE"
)

// APIConfig holds API routing, CORS, and OpenAPI settings.
type APIConfig struct {
	BasePath       string                `toml:"base_path"`
	MaxRequestSize string                `toml:"max_request_size"`
	CORS           middleware.CORSConfig `toml:"cors"`
	OpenAPI        openapi.Config        `toml:"openapi"`
}

// MaxRequestSizeBytes returns MaxRequestSize in bytes.
func (c *APIConfig) MaxRequestSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxRequestSize)
	if err != nil {
		return 1 << 20
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and OpenAPI configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.OpenAPI.Finalize(openapiEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxRequestSize != "" {
		c.MaxRequestSize = overlay.MaxRequestSize
	}
	c.CORS.Merge(&overlay.CORS)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxRequestSize == "" {
		c.MaxRequestSize = "1MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv(EnvAPIBasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(EnvAPIMaxRequestSize); v != "" {
		c.MaxRequestSize = v
	}
}

func (c *APIConfig) validate() error {
	if err := module.ValidatePrefix(c.BasePath); err != nil {
		return fmt.Errorf("invalid base_path: %w", err)
	}
	if _, err := formatting.ParseBytes(c.MaxRequestSize); err != nil {
		return fmt.Errorf("invalid max_request_size: %w", err)
	}
	return nil
}
