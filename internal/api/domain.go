package api

import (
	"github.com/JaimeStill/veritas/internal/interaction"
)

// Domain holds the domain systems served by the API and the web page.
type Domain struct {
	Interaction *interaction.Controller
}

// NewDomain creates the domain systems from the API runtime. The controller
// starts with an empty history; submissions wait until Initialize loads the
// persisted log.
func NewDomain(runtime *Runtime) *Domain {
	return &Domain{
		Interaction: interaction.New(
			runtime.Client,
			runtime.History,
			runtime.Logger,
			interaction.WithTimeLayout(runtime.TimeFormat),
		),
	}
}
