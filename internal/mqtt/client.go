// Package mqtt announces timer events on an MQTT broker.
package mqtt

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

// Client is the subset of an MQTT connection the publisher needs.
type Client interface {
	// Connect establishes a connection to the MQTT broker
	Connect(ctx context.Context) error

	// Disconnect closes the connection to the MQTT broker
	Disconnect()

	// Publish publishes a message to a topic, giving up when ctx is done
	Publish(ctx context.Context, topic string, qos byte, retained bool, payload []byte) error

	// IsConnected returns whether the client is currently connected
	IsConnected() bool
}

// Options configure the broker connection.
type Options struct {
	Broker   string
	ClientID string
	Username string
	Password string
	// AvailabilityTopic receives "online" after connecting and "offline"
	// as the broker-held last will.
	AvailabilityTopic string
}

// pahoClient implements Client using the Paho MQTT client
type pahoClient struct {
	client pahomqtt.Client
	opts   Options
	logger *slog.Logger
}

// NewClient creates a new MQTT client with the given options
func NewClient(o Options, logger *slog.Logger) Client {
	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(o.Broker)

	// Set client ID (auto-generate if not provided)
	if o.ClientID == "" {
		o.ClientID = "huemodoro-" + uuid.NewString()[:8]
	}
	opts.SetClientID(o.ClientID)

	if o.Username != "" {
		opts.SetUsername(o.Username)
	}
	if o.Password != "" {
		opts.SetPassword(o.Password)
	}
	if o.AvailabilityTopic != "" {
		opts.SetWill(o.AvailabilityTopic, "offline", 1, true)
	}

	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(30 * time.Second)

	opts.OnConnect = func(c pahomqtt.Client) {
		logger.Info("mqtt: connected to broker", "broker", o.Broker, "client_id", o.ClientID)
		if o.AvailabilityTopic != "" {
			c.Publish(o.AvailabilityTopic, 1, true, "online")
		}
	}
	opts.OnConnectionLost = func(c pahomqtt.Client, err error) {
		logger.Warn("mqtt: connection lost", "error", err)
	}
	opts.OnReconnecting = func(c pahomqtt.Client, opts *pahomqtt.ClientOptions) {
		logger.Info("mqtt: reconnecting")
	}

	return &pahoClient{
		client: pahomqtt.NewClient(opts),
		opts:   o,
		logger: logger,
	}
}

// Connect establishes a connection to the MQTT broker
func (m *pahoClient) Connect(ctx context.Context) error {
	m.logger.Info("mqtt: connecting to broker", "broker", m.opts.Broker)

	token := m.client.Connect()
	select {
	case <-token.Done():
		if token.Error() != nil {
			return fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("connection timeout: %w", ctx.Err())
	}
}

// Disconnect publishes the offline marker and closes the connection.
func (m *pahoClient) Disconnect() {
	m.logger.Info("mqtt: disconnecting from broker")
	if m.opts.AvailabilityTopic != "" && m.client.IsConnected() {
		m.client.Publish(m.opts.AvailabilityTopic, 1, true, "offline").WaitTimeout(time.Second)
	}
	m.client.Disconnect(250)
}

// Publish publishes a message to a topic. While reconnecting, paho queues
// QoS 1 messages and the token stays pending, so the wait ends with ctx.
func (m *pahoClient) Publish(ctx context.Context, topic string, qos byte, retained bool, payload []byte) error {
	token := m.client.Publish(topic, qos, retained, payload)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return fmt.Errorf("publish to topic %s abandoned: %w", topic, ctx.Err())
	}

	if token.Error() != nil {
		return fmt.Errorf("failed to publish to topic %s: %w", topic, token.Error())
	}

	m.logger.Debug("mqtt: published message", "topic", topic, "size", len(payload))
	return nil
}

// IsConnected returns whether the client is currently connected
func (m *pahoClient) IsConnected() bool {
	return m.client.IsConnected()
}
