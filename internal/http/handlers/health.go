package handlers

import (
	"context"
)

// --- Health Check ---

// HealthInput is the input for the health endpoints.
type HealthInput struct{}

// HealthOutput is the output for the health endpoints.
type HealthOutput struct {
	Body struct {
		Status string `json:"status" doc:"Status API health" enum:"ok"`
	}
}

// HealthCheck reports that the status API is serving. It does not contact
// the bridge.
func HealthCheck(_ context.Context, _ *HealthInput) (*HealthOutput, error) {
	out := &HealthOutput{}
	out.Body.Status = "ok"
	return out, nil
}
