package mqtt

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/jmylchreest/huemodoro/internal/events"
)

const publishQoS = 1

// Publisher forwards bus events to the broker as JSON, one topic per event
// type under a common prefix. Phase changes are retained so late subscribers
// see the current phase.
type Publisher struct {
	client Client
	prefix string
	logger *slog.Logger
	queue  chan events.Event
	unsub  func()
}

// NewPublisher subscribes to bus. Events are queued until Run drains them;
// when the queue is full new events are dropped.
func NewPublisher(client Client, prefix string, bus *events.Bus, logger *slog.Logger) *Publisher {
	p := &Publisher{
		client: client,
		prefix: strings.TrimSuffix(prefix, "/"),
		logger: logger,
		queue:  make(chan events.Event, 64),
	}
	p.unsub = bus.Subscribe(func(e events.Event) {
		select {
		case p.queue <- e:
		default:
			logger.Warn("mqtt: queue full, dropping event", "type", e.Type)
		}
	})
	return p
}

// Topic returns the topic an event type is published to.
func (p *Publisher) Topic(t events.EventType) string {
	return p.prefix + "/" + string(t)
}

// AvailabilityTopic returns the topic carrying online/offline markers.
func AvailabilityTopic(prefix string) string {
	return strings.TrimSuffix(prefix, "/") + "/availability"
}

// Run connects and publishes queued events until ctx is cancelled. Publish
// failures are logged and do not stop the loop.
func (p *Publisher) Run(ctx context.Context) error {
	defer p.unsub()

	if err := p.client.Connect(ctx); err != nil {
		return err
	}
	defer p.client.Disconnect()

	for {
		select {
		case <-ctx.Done():
			return nil
		case e := <-p.queue:
			p.publish(ctx, e)
		}
	}
}

func (p *Publisher) publish(ctx context.Context, e events.Event) {
	payload, err := json.Marshal(e)
	if err != nil {
		p.logger.Error("mqtt: failed to marshal event", "type", e.Type, "error", err)
		return
	}
	if err := p.client.Publish(ctx, p.Topic(e.Type), publishQoS, e.Type.IsPhaseChange(), payload); err != nil {
		if ctx.Err() != nil {
			p.logger.Debug("mqtt: publish abandoned on shutdown", "type", e.Type)
			return
		}
		p.logger.Warn("mqtt: publish failed", "type", e.Type, "error", err)
	}
}
