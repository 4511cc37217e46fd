package config

import "time"

// Common constants
const (
	// ConfigDirName is the name of the config directory within XDG_CONFIG_HOME
	ConfigDirName = "huemodoro"

	// SettingsName is the base name of the settings file; any extension viper understands is accepted
	SettingsName = "Settings"

	// DefaultSettingsFile is where settings are written when no settings file was found
	DefaultSettingsFile = "Settings.yaml"

	// EnvPrefix is the prefix for environment variable overrides
	EnvPrefix = "HUEMODORO"

	// DefaultDiscoveryURL is the Hue N-UPnP discovery endpoint
	DefaultDiscoveryURL = "https://discovery.meethue.com/"

	// DefaultMQTTTopicPrefix is prepended to every published event topic
	DefaultMQTTTopicPrefix = "huemodoro"
)

// Default timeouts and intervals
const (
	// DefaultTickInterval is how often the remaining minutes are printed
	DefaultTickInterval = 60 * time.Second

	// DefaultLightDelay is the pause between commands sent to consecutive lights
	DefaultLightDelay = 50 * time.Millisecond

	// DefaultDiscoveryTimeout bounds a single mDNS browse for the bridge
	DefaultDiscoveryTimeout = 5 * time.Second

	// DefaultRegisterPollInterval is the wait between registration attempts while the link button is not pressed
	DefaultRegisterPollInterval = 5 * time.Second

	// DefaultTransitionTime is the light transition in tenths of a second
	DefaultTransitionTime = 5
)

// Logging constants
const (
	// LogLevelDebug represents debug log level
	LogLevelDebug = "debug"

	// LogLevelInfo represents info log level
	LogLevelInfo = "info"

	// LogLevelWarn represents warning log level
	LogLevelWarn = "warn"

	// LogLevelError represents error log level
	LogLevelError = "error"

	// LogFormatText represents text log format
	LogFormatText = "text"

	// LogFormatJSON represents JSON log format
	LogFormatJSON = "json"
)
