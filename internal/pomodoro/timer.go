// Package pomodoro runs the work/break cycle.
package pomodoro

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jmylchreest/huemodoro/internal/clock"
	apperrors "github.com/jmylchreest/huemodoro/internal/errors"
	"github.com/jmylchreest/huemodoro/internal/events"
)

// Notifier is told when a work interval begins and ends. An error from
// either call stops the timer.
type Notifier interface {
	WorkStarted(ctx context.Context) error
	WorkFinished(ctx context.Context) error
}

// Timer alternates work and break intervals until its context is cancelled.
type Timer struct {
	work     time.Duration
	brk      time.Duration
	tick     time.Duration
	clock    clock.Clock
	notifier Notifier
	printer  Printer
	bus      *events.Bus
	logger   *slog.Logger

	mu     sync.RWMutex
	status Status
}

// Option configures a Timer.
type Option func(*Timer)

// WithClock replaces the real clock.
func WithClock(clk clock.Clock) Option {
	return func(t *Timer) { t.clock = clk }
}

// WithNotifier signals work boundaries, typically by changing light colors.
func WithNotifier(n Notifier) Option {
	return func(t *Timer) { t.notifier = n }
}

// WithPrinter sets where the countdown is written.
func WithPrinter(p Printer) Option {
	return func(t *Timer) { t.printer = p }
}

// WithBus publishes phase changes and ticks.
func WithBus(bus *events.Bus) Option {
	return func(t *Timer) { t.bus = bus }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Timer) { t.logger = logger }
}

// New creates a timer with the given work and break lengths, printing the
// countdown every tick.
func New(work, brk, tick time.Duration, opts ...Option) (*Timer, error) {
	if work < 0 || brk < 0 {
		return nil, apperrors.InvalidInputf("durations must not be negative (work %s, break %s)", work, brk)
	}
	if tick <= 0 {
		return nil, apperrors.InvalidInputf("tick interval must be positive, got %s", tick)
	}

	t := &Timer{
		work:    work,
		brk:     brk,
		tick:    tick,
		clock:   clock.Real{},
		printer: ConsolePrinter{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.status = Status{
		SessionID:       uuid.NewString(),
		Phase:           PhaseIdle,
		LightingEnabled: t.notifier != nil,
	}
	return t, nil
}

// Run repeats RunCycle until ctx is cancelled or a cycle fails. It returns
// ctx.Err() on cancellation.
func (t *Timer) Run(ctx context.Context) error {
	t.logger.Info("pomodoro: session started", "session", t.Status().SessionID,
		"work", t.work, "break", t.brk, "lighting", t.notifier != nil)
	for {
		if err := t.RunCycle(ctx); err != nil {
			return err
		}
	}
}

// RunCycle runs one work interval followed by one break.
//
// The work interval ends at the first tick boundary where the elapsed time,
// measured from before the start notification, has reached the work length.
// It can therefore overshoot by up to one tick.
func (t *Timer) RunCycle(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := t.clock.Now()
	cycle := t.enterPhase(PhaseWorking, start, t.work, true)
	t.printer.WorkStarted(t.work)
	t.publishPhase(events.WorkStarted, PhaseWorking, cycle, t.work)

	if t.notifier != nil {
		if err := t.notifier.WorkStarted(ctx); err != nil {
			return err
		}
	}

	for {
		elapsed := t.clock.Now().Sub(start)
		if elapsed >= t.work {
			break
		}
		remaining := RemainingMinutes(t.work, elapsed)
		t.setRemaining(remaining)
		t.printer.Remaining(remaining)
		t.bus.Publish(events.NewEvent(events.Tick, events.TickData{
			SessionID:        t.sessionID(),
			Cycle:            cycle,
			RemainingMinutes: remaining,
		}))
		if err := t.clock.Sleep(ctx, t.tick); err != nil {
			return err
		}
	}

	if t.notifier != nil {
		if err := t.notifier.WorkFinished(ctx); err != nil {
			return err
		}
	}
	t.printer.WorkFinished()
	t.publishPhase(events.WorkFinished, PhaseWorking, cycle, t.work)

	t.enterPhase(PhaseBreak, t.clock.Now(), t.brk, false)
	t.publishPhase(events.BreakStarted, PhaseBreak, cycle, t.brk)
	t.logger.Debug("pomodoro: break started", "cycle", cycle, "duration", t.brk)

	if err := t.clock.Sleep(ctx, t.brk); err != nil {
		return err
	}
	t.publishPhase(events.BreakFinished, PhaseBreak, cycle, t.brk)
	return nil
}

// RemainingMinutes is the countdown value shown while working: the whole
// seconds left, divided by 60 and truncated. It reads 0 during the final
// minute.
func RemainingMinutes(duration, elapsed time.Duration) int {
	left := int64(duration/time.Second) - int64(elapsed/time.Second)
	if left < 0 {
		return 0
	}
	return int(left / 60)
}

func (t *Timer) publishPhase(et events.EventType, phase Phase, cycle int, d time.Duration) {
	t.bus.Publish(events.NewEvent(et, events.PhaseData{
		SessionID: t.sessionID(),
		Cycle:     cycle,
		Phase:     string(phase),
		Minutes:   int(d / time.Minute),
	}))
}
