package hue

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Registration polls CreateUser until the bridge's link button is pressed.
type Registration struct {
	Client     *Client
	DeviceType string
	// Interval is the wait between attempts while the button is not pressed.
	Interval time.Duration
	Sleep    SleepFunc
	// OnWaiting is called every time the bridge reports the button is not pressed.
	OnWaiting func(attempt int)
}

// Run registers DeviceType and returns the new username. Any error other than
// ErrLinkButtonNotPressed ends the loop.
func (r Registration) Run(ctx context.Context) (string, error) {
	if r.DeviceType == "" {
		return "", fmt.Errorf("device type must not be empty")
	}
	if r.Interval <= 0 {
		return "", fmt.Errorf("poll interval must be positive, got %s", r.Interval)
	}

	for attempt := 1; ; attempt++ {
		username, err := r.Client.CreateUser(ctx, r.DeviceType)
		if err == nil {
			return username, nil
		}
		if !errors.Is(err, ErrLinkButtonNotPressed) {
			return "", err
		}

		if r.OnWaiting != nil {
			r.OnWaiting(attempt)
		}
		if err := r.Sleep(ctx, r.Interval); err != nil {
			return "", err
		}
	}
}
