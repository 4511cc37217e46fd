package lights

import (
	"context"

	"github.com/jmylchreest/huemodoro/pkg/hue"
)

// PhaseNotifier signals the start and end of a work interval with two
// commands.
type PhaseNotifier struct {
	controller *Controller
	start      hue.LightCommand
	end        hue.LightCommand
}

// NewPhaseNotifier returns a notifier applying start when work begins and end
// when it finishes.
func NewPhaseNotifier(controller *Controller, start, end hue.LightCommand) *PhaseNotifier {
	return &PhaseNotifier{controller: controller, start: start, end: end}
}

// WorkStarted applies the start command.
func (n *PhaseNotifier) WorkStarted(ctx context.Context) error {
	return n.controller.Apply(ctx, n.start)
}

// WorkFinished applies the end command.
func (n *PhaseNotifier) WorkFinished(ctx context.Context) error {
	return n.controller.Apply(ctx, n.end)
}
