package openapi

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

// Config holds the document metadata. ServerURL, when set, replaces the API
// base path as the advertised server, for deployments behind a proxy.
type Config struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
	ServerURL   string `toml:"server_url"`
}

// ConfigEnv names the environment variables that override Config fields.
type ConfigEnv struct {
	Title       string
	Description string
	ServerURL   string
}

// Finalize applies defaults, environment overrides, and validation.
func (c *Config) Finalize(env *ConfigEnv) error {
	if c.Title == "" {
		c.Title = "Veritas API"
	}
	if c.Description == "" {
		c.Description = "Fake news classification client: submit text, browse examples, and manage the analysis history."
	}

	if env != nil {
		override(&c.Title, env.Title)
		override(&c.Description, env.Description)
		override(&c.ServerURL, env.ServerURL)
	}

	if c.ServerURL != "" {
		u, err := url.Parse(c.ServerURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid server_url %q: want an absolute http(s) URL", c.ServerURL)
		}
		c.ServerURL = strings.TrimSuffix(c.ServerURL, "/")
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Title != "" {
		c.Title = overlay.Title
	}
	if overlay.Description != "" {
		c.Description = overlay.Description
	}
	if overlay.ServerURL != "" {
		c.ServerURL = overlay.ServerURL
	}
}

// Spec starts a document for an API served at basePath.
func (c *Config) Spec(version, basePath string) *Spec {
	spec := NewSpec(c.Title, version)
	spec.SetDescription(c.Description)
	if c.ServerURL != "" {
		spec.AddServer(c.ServerURL + basePath)
	} else {
		spec.AddServer(basePath)
	}
	return spec
}

func override(field *string, name string) {
	if name == "" {
		return
	}
	if v := os.Getenv(name); v != "" {
		*field = v
	}
}
