// Package routes provides shared route registration for the huemodoro status API.
// Both the status server and the openapi command use the same route
// definitions, so the generated document always matches the implementation.
package routes

import (
	"github.com/danielgtaylor/huma/v2"
)

// NewHumaConfig creates the shared Huma configuration for the API.
func NewHumaConfig(version, baseURL string) huma.Config {
	cfg := huma.DefaultConfig("huemodoro API", version)
	cfg.Info.Description = "Read-only status API for a running huemodoro timer."

	// Disable $schema field in responses
	cfg.CreateHooks = nil

	if baseURL != "" {
		cfg.Servers = []*huma.Server{
			{URL: baseURL, Description: "API Server"},
		}
	}

	cfg.Tags = []*huma.Tag{
		{Name: "Health", Description: "Liveness probes"},
		{Name: "Version", Description: "Build information"},
		{Name: "Status", Description: "Timer phase and countdown"},
	}

	return cfg
}
