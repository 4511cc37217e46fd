package routes

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/jmylchreest/huemodoro/internal/http/mw"
)

// Register registers all API routes with the given Huma API instance.
// Pass real handler implementations for the status server, or stub
// implementations for OpenAPI generation.
func Register(api huma.API, h *Handlers) {
	// --- Health ---
	mw.PublicGet(api, "/api/v1/health", h.HealthCheck,
		mw.WithTags("Health"),
		mw.WithSummary("Health check"),
		mw.WithDescription("Returns service health status."),
		mw.WithOperationID("healthCheck"))

	mw.HiddenGet(api, "/healthz", h.HealthCheck)

	// --- Version ---
	mw.PublicGet(api, "/api/v1/version", h.VersionCheck,
		mw.WithTags("Version"),
		mw.WithSummary("Build version"),
		mw.WithDescription("Returns the running binary's version, commit, and build date."),
		mw.WithOperationID("getVersion"))

	// --- Status ---
	mw.PublicGet(api, "/api/v1/status", h.Status.GetStatus,
		mw.WithTags("Status"),
		mw.WithSummary("Timer status"),
		mw.WithDescription("Returns the current phase, cycle number and time left of the running timer. "+
			"Live updates are available as a WebSocket stream at /api/v1/ws."),
		mw.WithOperationID("getStatus"))
}
