// Package handlers provides typed Huma request/response structs and handler
// implementations for the huemodoro status API.
package handlers

import (
	"time"

	"github.com/jmylchreest/huemodoro/internal/pomodoro"
)

// --- Status types ---

// StatusResponse is the API representation of the timer status.
type StatusResponse struct {
	SessionID        string     `json:"session_id" doc:"Identifier of the running session (UUID)"`
	Phase            string     `json:"phase" enum:"idle,working,break" doc:"Current phase"`
	Cycle            int        `json:"cycle" doc:"Number of the current work/break cycle, starting at 1"`
	PhaseStartedAt   *time.Time `json:"phase_started_at,omitempty" doc:"When the current phase began"`
	PhaseEndsAt      *time.Time `json:"phase_ends_at,omitempty" doc:"When the current phase is scheduled to end"`
	RemainingMinutes int        `json:"remaining_minutes" doc:"Whole minutes left as last printed by the countdown"`
	SecondsLeft      int        `json:"seconds_left" doc:"Seconds until the phase is scheduled to end"`
	LightingEnabled  bool       `json:"lighting_enabled" doc:"Whether phase changes are signalled on the lights"`
}

// StatusFromTimer converts a pomodoro.Status to a StatusResponse, computing
// the seconds left relative to now.
func StatusFromTimer(s pomodoro.Status, now time.Time) StatusResponse {
	resp := StatusResponse{
		SessionID:        s.SessionID,
		Phase:            string(s.Phase),
		Cycle:            s.Cycle,
		RemainingMinutes: s.RemainingMinutes,
		LightingEnabled:  s.LightingEnabled,
	}
	if !s.PhaseStartedAt.IsZero() {
		started := s.PhaseStartedAt
		resp.PhaseStartedAt = &started
	}
	if !s.PhaseEndsAt.IsZero() {
		ends := s.PhaseEndsAt
		resp.PhaseEndsAt = &ends
		if left := ends.Sub(now); left > 0 {
			resp.SecondsLeft = int(left / time.Second)
		}
	}
	return resp
}

// --- Version types ---

// VersionInfo describes the running build.
type VersionInfo struct {
	Version   string `json:"version" doc:"Release version"`
	Commit    string `json:"commit" doc:"Git commit the binary was built from"`
	BuildDate string `json:"build_date" doc:"Build timestamp"`
}
