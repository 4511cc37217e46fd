// Package lights pushes phase colors to every light on the Hue bridge.
package lights

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/jmylchreest/huemodoro/internal/clock"
	apperrors "github.com/jmylchreest/huemodoro/internal/errors"
	"github.com/jmylchreest/huemodoro/internal/events"
	"github.com/jmylchreest/huemodoro/pkg/color"
	"github.com/jmylchreest/huemodoro/pkg/hue"
)

// Controller applies a single command to all lights of a bridge. It keeps no
// state between calls: every Apply discovers the bridge and lists its lights.
type Controller struct {
	discoverer hue.Discoverer
	apiKey     string
	delay      time.Duration
	clock      clock.Clock
	bus        *events.Bus
	logger     *slog.Logger
	httpClient *http.Client
}

// Option configures a Controller.
type Option func(*Controller)

// WithDelay sets the pause after each light command.
func WithDelay(d time.Duration) Option {
	return func(c *Controller) { c.delay = d }
}

// WithClock replaces the real clock.
func WithClock(clk clock.Clock) Option {
	return func(c *Controller) { c.clock = clk }
}

// WithBus publishes a LightsApplied event after every successful Apply.
func WithBus(bus *events.Bus) Option {
	return func(c *Controller) { c.bus = bus }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// WithHTTPClient sets the HTTP client used for bridge calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Controller) { c.httpClient = hc }
}

// NewController creates a controller authenticating as apiKey on whatever
// bridge discoverer finds.
func NewController(discoverer hue.Discoverer, apiKey string, opts ...Option) *Controller {
	c := &Controller{
		discoverer: discoverer,
		apiKey:     apiKey,
		clock:      clock.Real{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Bridge locates the bridge. Failures wrap ErrDiscovery.
func (c *Controller) Bridge(ctx context.Context) (*hue.BridgeInfo, error) {
	info, err := c.discoverer.Discover(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, apperrors.Discoveryf("failed to locate bridge: %w", err)
	}
	return info, nil
}

// Lights locates the bridge and lists its lights in ascending id order.
// Failures of either step wrap ErrDiscovery.
func (c *Controller) Lights(ctx context.Context) (*hue.Client, *hue.BridgeInfo, []hue.Light, error) {
	info, err := c.Bridge(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	client := hue.NewClient(info.Address, c.apiKey, c.logger, c.httpClient)
	lights, err := client.GetAllLights(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, nil, ctx.Err()
		}
		return nil, nil, nil, apperrors.Discoveryf("failed to list lights on %s: %w", info.Address, err)
	}
	return client, info, lights, nil
}

// Apply sends cmd to every light, waiting the configured delay after each
// one. The first light that rejects the command aborts the call with an
// error wrapping ErrBridge; later lights are not attempted.
func (c *Controller) Apply(ctx context.Context, cmd hue.LightCommand) error {
	client, info, lights, err := c.Lights(ctx)
	if err != nil {
		return err
	}

	applied := make([]int, 0, len(lights))
	for _, light := range lights {
		if err := client.SetLightState(ctx, light.ID, cmd); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return apperrors.LogErrorAndReturn(c.logger,
				apperrors.Bridgef("failed to set light %d (%s): %w", light.ID, light.Name, err),
				"lights: command rejected", "light", light.ID, "bridge", info.Address)
		}
		applied = append(applied, light.ID)
		c.logger.Debug("lights: command sent", "light", light.ID, "name", light.Name)

		if err := c.clock.Sleep(ctx, c.delay); err != nil {
			return err
		}
	}

	c.logger.Info("lights: command applied", "bridge", info.Address, "count", len(applied))
	data := events.LightsData{Bridge: info.Address, Lights: applied}
	if cmd.Hue != nil {
		data.Hue = *cmd.Hue
	}
	if cmd.Sat != nil {
		data.Sat = *cmd.Sat
	}
	if cmd.Bri != nil {
		data.Bri = *cmd.Bri
	}
	c.bus.Publish(events.NewEvent(events.LightsApplied, data))
	return nil
}

// NewColorCommand builds a command switching a light on at rgb. transition is
// in tenths of a second.
func NewColorCommand(rgb color.RGB, transition int) hue.LightCommand {
	h, s, v := rgb.HSV()
	hueVal, sat, bri := color.Scale(h, s, v)
	tt := uint16(transition)
	return hue.LightCommand{
		On:             true,
		Hue:            &hueVal,
		Sat:            &sat,
		Bri:            &bri,
		TransitionTime: &tt,
	}
}
