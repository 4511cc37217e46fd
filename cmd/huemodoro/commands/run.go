package commands

import (
	"context"
	"errors"
	"sync"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/huemodoro/internal/config"
	"github.com/jmylchreest/huemodoro/internal/events"
	"github.com/jmylchreest/huemodoro/internal/http/mw"
	"github.com/jmylchreest/huemodoro/internal/lights"
	"github.com/jmylchreest/huemodoro/internal/mqtt"
	"github.com/jmylchreest/huemodoro/internal/pomodoro"
	"github.com/jmylchreest/huemodoro/internal/server"
)

func newRunCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the work/break cycle until interrupted (default)",
		Args:  cobra.NoArgs,
		RunE:  a.runTimer,
	}
}

// runTimer loads the settings once and loops work and break intervals until
// the command context is cancelled, which is a clean exit.
func (a *app) runTimer(cmd *cobra.Command, _ []string) error {
	cfg, err := a.loadConfig(false)
	if err != nil {
		return err
	}
	if err := cfg.ValidateTimer(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	bus := events.NewBus()
	opts := []pomodoro.Option{
		pomodoro.WithClock(a.opts.Clock),
		pomodoro.WithPrinter(pomodoro.ConsolePrinter{Out: cmd.OutOrStdout()}),
		pomodoro.WithBus(bus),
		pomodoro.WithLogger(a.logger),
	}
	if cfg.LightingEnabled() {
		ctrl := a.controller(cfg, cfg.APIKey, lights.WithBus(bus))
		opts = append(opts, pomodoro.WithNotifier(lights.NewPhaseNotifier(ctrl,
			lights.NewColorCommand(cfg.Lights.StartColor, cfg.Lights.TransitionTime),
			lights.NewColorCommand(cfg.Lights.EndColor, cfg.Lights.TransitionTime),
		)))
	} else {
		a.logger.Info("lights: no api_key configured, lighting disabled")
	}

	timer, err := pomodoro.New(cfg.WorkDuration(), cfg.BreakInterval(), cfg.TickInterval, opts...)
	if err != nil {
		return err
	}

	if cfg.Status.Listen != "" {
		srv := server.New(a.logger, server.Options{
			Listen:    cfg.Status.Listen,
			Timer:     timer,
			Bus:       bus,
			Version:   a.version,
			RateLimit: mw.DefaultRateLimitConfig(),
		})
		if err := srv.Start(); err != nil {
			return err
		}
		defer srv.Stop()
	}

	// Started after anything that can fail, so every exit path below waits for it.
	var wg sync.WaitGroup
	if cfg.MQTT.Broker != "" {
		a.startPublisher(ctx, &wg, cfg, bus)
	}

	err = timer.Run(ctx)
	cancel()
	wg.Wait()

	if errors.Is(err, context.Canceled) && cmd.Context().Err() != nil {
		a.logger.Info("pomodoro: stopped")
		return nil
	}
	return err
}

func (a *app) startPublisher(ctx context.Context, wg *sync.WaitGroup, cfg *config.Config, bus *events.Bus) {
	client := mqtt.NewClient(mqtt.Options{
		Broker:            cfg.MQTT.Broker,
		ClientID:          cfg.MQTT.ClientID,
		Username:          cfg.MQTT.Username,
		Password:          cfg.MQTT.Password,
		AvailabilityTopic: mqtt.AvailabilityTopic(cfg.MQTT.TopicPrefix),
	}, a.logger)
	pub := mqtt.NewPublisher(client, cfg.MQTT.TopicPrefix, bus, a.logger)

	wg.Go(func() {
		if err := pub.Run(ctx); err != nil {
			a.logger.Warn("mqtt: publisher stopped", "error", err)
		}
	})
}
