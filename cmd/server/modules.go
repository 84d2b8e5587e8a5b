package main

import (
	"net/http"

	"github.com/JaimeStill/veritas/internal/api"
	"github.com/JaimeStill/veritas/internal/app"
	"github.com/JaimeStill/veritas/internal/config"
	"github.com/JaimeStill/veritas/internal/infrastructure"
	"github.com/JaimeStill/veritas/pkg/handlers"
	"github.com/JaimeStill/veritas/pkg/module"
)

type Modules struct {
	Domain *api.Domain
	API    *module.Module
	App    *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	runtime := api.NewRuntime(cfg, infra)
	domain := api.NewDomain(runtime)

	apiModule, err := api.NewModule(cfg, runtime, domain)
	if err != nil {
		return nil, err
	}

	appModule, err := app.NewModule(domain.Interaction, infra.Logger)
	if err != nil {
		return nil, err
	}

	return &Modules{
		Domain: domain,
		API:    apiModule,
		App:    appModule,
	}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API, m.App)
}

// readiness is satisfied by components that finish loading after startup.
type readiness interface {
	Ready() bool
}

func buildRouter(infra *infrastructure.Infrastructure, history readiness) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, app.BasePath+"/", http.StatusFound)
	})

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if !infra.Lifecycle.Ready() || !history.Ready() {
			body := map[string]any{"status": "not ready"}
			if !history.Ready() {
				body["history"] = "loading"
			}
			if failures := infra.Lifecycle.Failures(); len(failures) > 0 {
				msgs := make([]string, len(failures))
				for i, err := range failures {
					msgs[i] = err.Error()
				}
				body["failures"] = msgs
			}
			handlers.RespondJSON(w, http.StatusServiceUnavailable, body)
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	return router
}
