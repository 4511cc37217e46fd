package clock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRealSleepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := Real{}.Sleep(ctx, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestRealSleepElapses(t *testing.T) {
	err := Real{}.Sleep(context.Background(), 5*time.Millisecond)
	assert.NoError(t, err)
}

func TestFakeSleepAdvances(t *testing.T) {
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	f := NewFake(start)

	var seen []time.Time
	f.OnSleep = func(now time.Time) { seen = append(seen, now) }

	require.NoError(t, f.Sleep(context.Background(), time.Minute))
	require.NoError(t, f.Sleep(context.Background(), 30*time.Second))
	f.Advance(time.Second)

	assert.Equal(t, start.Add(91*time.Second), f.Now())
	assert.Equal(t, []time.Duration{time.Minute, 30 * time.Second}, f.Sleeps())
	assert.Len(t, seen, 2)
}

func TestFakeSleepHonoursContext(t *testing.T) {
	f := NewFake(time.Now())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, f.Sleep(ctx, time.Minute), context.Canceled)
	assert.Empty(t, f.Sleeps())
}
