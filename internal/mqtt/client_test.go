package mqtt

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewClientNotConnected(t *testing.T) {
	c := NewClient(Options{Broker: "tcp://127.0.0.1:1", AvailabilityTopic: AvailabilityTopic("huemodoro")}, testLogger())
	assert.False(t, c.IsConnected())
	assert.Contains(t, c.(*pahoClient).opts.ClientID, "huemodoro-")
}

func TestConnectHonoursContext(t *testing.T) {
	c := NewClient(Options{Broker: "tcp://127.0.0.1:1", ClientID: "test"}, testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := c.Connect(ctx)
	assert.Error(t, err)
	c.Disconnect()
}

func TestPublishHonoursContextWhileBrokerIsAway(t *testing.T) {
	c := NewClient(Options{Broker: "tcp://127.0.0.1:1", ClientID: "test"}, testLogger())
	defer c.Disconnect()

	// Leaves paho retrying the connection in the background.
	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancelConnect()
	assert.Error(t, c.Connect(connectCtx))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	start := time.Now()
	err := c.Publish(ctx, "huemodoro/pomodoro.work_started", 1, true, []byte(`{}`))
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}
