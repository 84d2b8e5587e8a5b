package api

import (
	"net/http"

	"github.com/JaimeStill/veritas/internal/config"
	"github.com/JaimeStill/veritas/internal/interaction"
	"github.com/JaimeStill/veritas/pkg/openapi"
	"github.com/JaimeStill/veritas/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain, cfg *config.Config, runtime *Runtime) error {
	groups := interaction.NewHandler(domain.Interaction, runtime.Client, runtime.Logger).Routes()
	routes.Register(mux, groups...)

	spec := cfg.API.OpenAPI.Spec(cfg.Version, cfg.API.BasePath)
	spec.Components.AddSchemas(interaction.Schemas())
	spec.Components.AddResponses(interaction.Responses())
	routes.Document(spec, groups...)

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		return err
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(data))
	return nil
}
