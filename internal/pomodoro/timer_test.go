package pomodoro

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/huemodoro/internal/clock"
	apperrors "github.com/jmylchreest/huemodoro/internal/errors"
	"github.com/jmylchreest/huemodoro/internal/events"
)

// recorder implements Printer and Notifier, logging every call in order.
type recorder struct {
	mu        sync.Mutex
	clock     *clock.Fake
	log       []string
	remaining []int
	startErr  error
	endErr    error
	startedAt []time.Time
	endedAt   []time.Time
}

func (r *recorder) add(s string) {
	r.mu.Lock()
	r.log = append(r.log, s)
	r.mu.Unlock()
}

func (r *recorder) WorkStarted(d time.Duration) { r.add("print:start " + d.String()) }
func (r *recorder) WorkFinished()               { r.add("print:finish") }
func (r *recorder) Remaining(m int) {
	r.mu.Lock()
	r.remaining = append(r.remaining, m)
	r.log = append(r.log, "print:remaining")
	r.mu.Unlock()
}

type recordingNotifier struct{ *recorder }

func (n recordingNotifier) WorkStarted(_ context.Context) error {
	n.add("notify:start")
	n.mu.Lock()
	n.startedAt = append(n.startedAt, n.clock.Now())
	n.mu.Unlock()
	return n.startErr
}

func (n recordingNotifier) WorkFinished(_ context.Context) error {
	n.add("notify:finish")
	n.mu.Lock()
	n.endedAt = append(n.endedAt, n.clock.Now())
	n.mu.Unlock()
	return n.endErr
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestTimer(t *testing.T, work, brk, tick time.Duration, withNotifier bool, opts ...Option) (*Timer, *recorder) {
	t.Helper()
	fake := clock.NewFake(time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC))
	rec := &recorder{clock: fake}
	all := []Option{WithClock(fake), WithPrinter(rec), WithLogger(testLogger())}
	if withNotifier {
		all = append(all, WithNotifier(recordingNotifier{rec}))
	}
	timer, err := New(work, brk, tick, append(all, opts...)...)
	require.NoError(t, err)
	return timer, rec
}

func TestRemainingMinutes(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		elapsed  time.Duration
		want     int
	}{
		{"start of one minute", time.Minute, 0, 1},
		{"truncates", 125 * time.Second, 65 * time.Second, 1},
		{"final minute shows zero", 125 * time.Second, 66 * time.Second, 0},
		{"sub-second elapsed ignored", time.Minute, 59*time.Second + 900*time.Millisecond, 0},
		{"twenty five minutes", 25 * time.Minute, 0, 25},
		{"one second in", 25 * time.Minute, time.Second, 24},
		{"overshoot clamps", time.Minute, 2 * time.Minute, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RemainingMinutes(tt.duration, tt.elapsed))
		})
	}
}

func TestRunCycleOneMinute(t *testing.T) {
	timer, rec := newTestTimer(t, time.Minute, time.Minute, time.Minute, true)
	require.NoError(t, timer.RunCycle(context.Background()))

	assert.Equal(t, []int{1}, rec.remaining)
	require.Len(t, rec.startedAt, 1)
	require.Len(t, rec.endedAt, 1)
	assert.GreaterOrEqual(t, rec.endedAt[0].Sub(rec.startedAt[0]), time.Minute)
	assert.Equal(t, []time.Duration{time.Minute, time.Minute}, rec.clock.Sleeps())
}

func TestRunCycleOrder(t *testing.T) {
	timer, rec := newTestTimer(t, 2*time.Minute, time.Minute, time.Minute, true)
	require.NoError(t, timer.RunCycle(context.Background()))

	assert.Equal(t, []string{
		"print:start 2m0s",
		"notify:start",
		"print:remaining",
		"print:remaining",
		"notify:finish",
		"print:finish",
	}, rec.log)
	assert.Equal(t, []int{2, 1}, rec.remaining)
}

func TestRunCycleShowsZeroInFinalMinute(t *testing.T) {
	timer, rec := newTestTimer(t, 90*time.Second, 0, 30*time.Second, false)
	require.NoError(t, timer.RunCycle(context.Background()))

	assert.Equal(t, []int{1, 1, 0}, rec.remaining)
}

func TestRunCycleOvershootsByUpToOneTick(t *testing.T) {
	timer, rec := newTestTimer(t, 90*time.Second, 0, time.Minute, true)
	require.NoError(t, timer.RunCycle(context.Background()))

	assert.Equal(t, []int{1, 0}, rec.remaining)
	assert.Equal(t, 2*time.Minute, rec.endedAt[0].Sub(rec.startedAt[0]))
}

func TestRunCycleZeroMinutes(t *testing.T) {
	timer, rec := newTestTimer(t, 0, 5*time.Minute, time.Minute, false)
	require.NoError(t, timer.RunCycle(context.Background()))

	assert.Empty(t, rec.remaining)
	assert.Equal(t, []string{"print:start 0s", "print:finish"}, rec.log)
	assert.Equal(t, []time.Duration{5 * time.Minute}, rec.clock.Sleeps())
}

func TestRunCycleWithoutLighting(t *testing.T) {
	timer, rec := newTestTimer(t, time.Minute, time.Minute, time.Minute, false)
	require.NoError(t, timer.RunCycle(context.Background()))

	assert.NotContains(t, rec.log, "notify:start")
	assert.NotContains(t, rec.log, "notify:finish")
	assert.False(t, timer.Status().LightingEnabled)
}

func TestRunStopsOnCancel(t *testing.T) {
	timer, rec := newTestTimer(t, time.Minute, time.Minute, time.Minute, false)

	ctx, cancel := context.WithCancel(context.Background())
	sleeps := 0
	rec.clock.OnSleep = func(time.Time) {
		sleeps++
		if sleeps == 5 {
			cancel()
		}
	}

	err := timer.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, timer.Status().Cycle)
}

func TestRunCycleCancelledBeforeStart(t *testing.T) {
	timer, rec := newTestTimer(t, time.Minute, time.Minute, time.Minute, true)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, timer.RunCycle(ctx), context.Canceled)
	assert.Empty(t, rec.log)
}

func TestRunStopsOnNotifierError(t *testing.T) {
	fake := clock.NewFake(time.Unix(0, 0))
	rec := &recorder{clock: fake, endErr: apperrors.Bridgef("failed to set light 2")}
	timer, err := New(time.Minute, time.Minute, time.Minute,
		WithClock(fake), WithPrinter(rec), WithNotifier(recordingNotifier{rec}), WithLogger(testLogger()))
	require.NoError(t, err)

	err = timer.Run(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsBridge(err))
	assert.NotContains(t, rec.log, "print:finish")
	assert.Equal(t, []time.Duration{time.Minute}, fake.Sleeps())
}

func TestRunStopsOnStartNotifierError(t *testing.T) {
	fake := clock.NewFake(time.Unix(0, 0))
	rec := &recorder{clock: fake, startErr: apperrors.Discoveryf("no bridge")}
	timer, err := New(time.Minute, time.Minute, time.Minute,
		WithClock(fake), WithPrinter(rec), WithNotifier(recordingNotifier{rec}), WithLogger(testLogger()))
	require.NoError(t, err)

	err = timer.Run(context.Background())
	assert.Equal(t, apperrors.ExitDiscovery, apperrors.ExitCode(err))
	assert.Empty(t, rec.remaining)
	assert.Empty(t, fake.Sleeps())
}

func TestRunCyclePublishesEvents(t *testing.T) {
	bus := events.NewBus()
	var got []events.EventType
	bus.Subscribe(func(e events.Event) { got = append(got, e.Type) })

	timer, _ := newTestTimer(t, time.Minute, time.Minute, time.Minute, false, WithBus(bus))
	require.NoError(t, timer.RunCycle(context.Background()))

	assert.Equal(t, []events.EventType{
		events.WorkStarted,
		events.Tick,
		events.WorkFinished,
		events.BreakStarted,
		events.BreakFinished,
	}, got)
}

func TestStatus(t *testing.T) {
	timer, rec := newTestTimer(t, 25*time.Minute, 5*time.Minute, time.Minute, true)

	initial := timer.Status()
	assert.Equal(t, PhaseIdle, initial.Phase)
	assert.Equal(t, 0, initial.Cycle)
	assert.True(t, initial.LightingEnabled)
	_, err := uuid.Parse(initial.SessionID)
	require.NoError(t, err)

	var during []Status
	rec.clock.OnSleep = func(time.Time) { during = append(during, timer.Status()) }
	require.NoError(t, timer.RunCycle(context.Background()))

	require.Len(t, during, 26)
	assert.Equal(t, PhaseWorking, during[0].Phase)
	assert.Equal(t, 25, during[0].RemainingMinutes)
	assert.Equal(t, 25*time.Minute, during[0].PhaseEndsAt.Sub(during[0].PhaseStartedAt))

	last := timer.Status()
	assert.Equal(t, PhaseBreak, last.Phase)
	assert.Equal(t, 1, last.Cycle)
	assert.Equal(t, 5, last.RemainingMinutes)
	assert.Equal(t, 5*time.Minute, last.PhaseEndsAt.Sub(last.PhaseStartedAt))
	assert.Equal(t, initial.SessionID, last.SessionID)
}

func TestNewValidation(t *testing.T) {
	_, err := New(-time.Minute, time.Minute, time.Minute)
	assert.True(t, apperrors.IsInvalidInput(err))

	_, err = New(time.Minute, -time.Minute, time.Minute)
	assert.True(t, apperrors.IsInvalidInput(err))

	_, err = New(time.Minute, time.Minute, 0)
	assert.True(t, apperrors.IsInvalidInput(err))

	_, err = New(0, 0, time.Second)
	assert.NoError(t, err)
}
