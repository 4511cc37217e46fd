package routes

import (
	"context"

	"github.com/jmylchreest/huemodoro/internal/http/handlers"
)

// StubHandlers returns a Handlers instance with stub implementations.
// All handlers return nil responses; they are only used for OpenAPI generation
// where Huma extracts type information from function signatures.
func StubHandlers() *Handlers {
	return &Handlers{
		HealthCheck: func(_ context.Context, _ *handlers.HealthInput) (*handlers.HealthOutput, error) {
			return nil, nil
		},
		VersionCheck: func(_ context.Context, _ *handlers.VersionInput) (*handlers.VersionOutput, error) {
			return nil, nil
		},
		Status: &stubStatusHandlers{},
	}
}

type stubStatusHandlers struct{}

func (s *stubStatusHandlers) GetStatus(_ context.Context, _ *handlers.GetStatusInput) (*handlers.GetStatusOutput, error) {
	return nil, nil
}
