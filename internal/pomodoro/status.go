package pomodoro

import "time"

// Phase is the current state of the timer.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseWorking Phase = "working"
	PhaseBreak   Phase = "break"
)

// Status is a point-in-time view of the timer.
type Status struct {
	SessionID        string    `json:"session_id"`
	Phase            Phase     `json:"phase"`
	Cycle            int       `json:"cycle"`
	PhaseStartedAt   time.Time `json:"phase_started_at,omitzero"`
	PhaseEndsAt      time.Time `json:"phase_ends_at,omitzero"`
	RemainingMinutes int       `json:"remaining_minutes"`
	LightingEnabled  bool      `json:"lighting_enabled"`
}

// Status returns a copy of the current status. Safe for concurrent use.
func (t *Timer) Status() Status {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

func (t *Timer) sessionID() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status.SessionID
}

// enterPhase records a phase change and returns the cycle number, advancing
// it when newCycle is set.
func (t *Timer) enterPhase(p Phase, at time.Time, d time.Duration, newCycle bool) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if newCycle {
		t.status.Cycle++
	}
	t.status.Phase = p
	t.status.PhaseStartedAt = at
	t.status.PhaseEndsAt = at.Add(d)
	t.status.RemainingMinutes = RemainingMinutes(d, 0)
	return t.status.Cycle
}

func (t *Timer) setRemaining(m int) {
	t.mu.Lock()
	t.status.RemainingMinutes = m
	t.mu.Unlock()
}
