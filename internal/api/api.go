// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/veritas/internal/config"
	"github.com/JaimeStill/veritas/pkg/middleware"
	"github.com/JaimeStill/veritas/pkg/module"
)

// NewModule creates the API module over domain with request-size limiting,
// the shared middleware stack, and a generated OpenAPI document at
// GET /openapi.json.
func NewModule(cfg *config.Config, runtime *Runtime, domain *Domain) (*module.Module, error) {
	mux := http.NewServeMux()
	if err := registerRoutes(mux, domain, cfg, runtime); err != nil {
		return nil, fmt.Errorf("register routes: %w", err)
	}

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.RequestID())
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(limitBody(runtime.MaxRequestSize))

	return m, nil
}

func limitBody(n int64) middleware.Func {
	return func(next http.Handler) http.Handler {
		return http.MaxBytesHandler(next, n)
	}
}
