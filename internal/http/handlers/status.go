package handlers

import (
	"context"
	"time"

	"github.com/jmylchreest/huemodoro/internal/pomodoro"
)

// StatusSource provides the timer status.
type StatusSource interface {
	Status() pomodoro.Status
}

// --- Get Status ---

// GetStatusInput is the input for the status endpoint.
type GetStatusInput struct{}

// GetStatusOutput is the output for the status endpoint.
type GetStatusOutput struct {
	Body StatusResponse
}

// StatusHandlers is implemented by the status handler and its OpenAPI stub.
type StatusHandlers interface {
	GetStatus(ctx context.Context, input *GetStatusInput) (*GetStatusOutput, error)
}

// StatusHandler implements the status endpoint.
type StatusHandler struct {
	Timer StatusSource
	// Now defaults to time.Now.
	Now func() time.Time
}

// GetStatus returns a snapshot of the running timer.
func (h *StatusHandler) GetStatus(_ context.Context, _ *GetStatusInput) (*GetStatusOutput, error) {
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	return &GetStatusOutput{Body: StatusFromTimer(h.Timer.Status(), now())}, nil
}

// --- Version ---

// VersionInput is the input for the version endpoint.
type VersionInput struct{}

// VersionOutput is the output for the version endpoint.
type VersionOutput struct {
	Body VersionInfo
}

// VersionCheck returns a handler reporting info.
func VersionCheck(info VersionInfo) func(context.Context, *VersionInput) (*VersionOutput, error) {
	return func(_ context.Context, _ *VersionInput) (*VersionOutput, error) {
		return &VersionOutput{Body: info}, nil
	}
}
