package routes

import (
	"context"

	"github.com/jmylchreest/huemodoro/internal/http/handlers"
)

// Handlers aggregates all handlers for route registration.
// For the status server, pass real handler implementations.
// For OpenAPI generation, pass stub implementations.
type Handlers struct {
	HealthCheck  func(context.Context, *handlers.HealthInput) (*handlers.HealthOutput, error)
	VersionCheck func(context.Context, *handlers.VersionInput) (*handlers.VersionOutput, error)
	Status       handlers.StatusHandlers
}
