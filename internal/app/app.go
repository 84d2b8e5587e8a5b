// Package app assembles the server-rendered web page module.
package app

import (
	"embed"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/veritas/internal/interaction"
	"github.com/JaimeStill/veritas/pkg/middleware"
	"github.com/JaimeStill/veritas/pkg/module"
	"github.com/JaimeStill/veritas/pkg/routes"
	"github.com/JaimeStill/veritas/pkg/web"
)

// BasePath is the prefix the page is served under.
const BasePath = "/app"

//go:embed templates
var templateFS embed.FS

// NewModule creates the web page module over ctrl.
func NewModule(ctrl *interaction.Controller, logger *slog.Logger) (*module.Module, error) {
	ts, err := web.NewTemplateSet(
		templateFS,
		"templates/layouts/*.html",
		"templates/views",
		BasePath,
		interaction.FuncMap(),
		interaction.IndexView,
		interaction.NotFoundView,
	)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	logger = logger.With("module", "app")
	views := interaction.NewViews(ctrl, ts, logger)

	router := web.NewRouter()
	routes.Register(router, views.Routes())
	router.Handle("GET /static/", web.DistServer(templateFS, "templates/static", "/static"))
	router.SetFallback(views.NotFound())

	m := module.New(BasePath, router)
	m.Use(middleware.RequestID())
	m.Use(middleware.Logger(logger))

	return m, nil
}
