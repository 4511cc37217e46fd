package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"

	apperrors "github.com/jmylchreest/huemodoro/internal/errors"
	"github.com/jmylchreest/huemodoro/pkg/color"
)

// ErrSettingsNotFound is wrapped by Load when no settings file exists.
var ErrSettingsNotFound = errors.New("settings file not found")

// Config represents the application settings
type Config struct {
	// Minutes is the length of a work interval
	Minutes int
	// BreakDuration is the length of a break in minutes
	BreakDuration int
	// APIKey is the bridge user; lighting is enabled when it is set
	APIKey string
	// TickInterval is how often the countdown is printed
	TickInterval time.Duration

	Bridge  BridgeConfig
	Lights  LightsConfig
	Status  StatusConfig
	MQTT    MQTTConfig
	Logging LoggingConfig

	v *viper.Viper
}

// BridgeConfig represents how the Hue bridge is located and paired
type BridgeConfig struct {
	Address              string
	DiscoveryTimeout     time.Duration
	DiscoveryURL         string
	RegisterPollInterval time.Duration
}

// LightsConfig represents the commands pushed to the lights
type LightsConfig struct {
	Delay          time.Duration
	TransitionTime int
	StartColor     color.RGB
	EndColor       color.RGB
}

// StatusConfig represents the optional status HTTP API
type StatusConfig struct {
	Listen string
}

// MQTTConfig represents the optional MQTT event publisher
type MQTTConfig struct {
	Broker      string
	TopicPrefix string
	ClientID    string
	Username    string
	Password    string
}

// LoggingConfig represents the logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

type loadOptions struct {
	v        *viper.Viper
	file     string
	optional bool
}

// Option customises Load.
type Option func(*loadOptions)

// WithViper loads through v, so flags already bound to it take precedence.
func WithViper(v *viper.Viper) Option {
	return func(o *loadOptions) { o.v = v }
}

// WithFile reads the given file instead of searching for the settings name.
func WithFile(path string) Option {
	return func(o *loadOptions) { o.file = path }
}

// Optional makes a missing settings file fall back to defaults instead of failing.
func Optional() Option {
	return func(o *loadOptions) { o.optional = true }
}

// Load reads the settings file and environment overrides.
// Without Optional, a missing file is an ErrConfig.
func Load(configName string, opts ...Option) (*Config, error) {
	o := loadOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	v := o.v
	if v == nil {
		v = viper.New()
	}

	setDefaults(v)

	if o.file != "" {
		v.SetConfigFile(o.file)
	} else {
		v.SetConfigName(configName)
		for _, p := range SearchPaths() {
			v.AddConfigPath(p)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
			if !o.optional {
				return nil, apperrors.Configf("%w: %q in %s", ErrSettingsNotFound, configName, strings.Join(SearchPaths(), ", "))
			}
			slog.Debug("config: no settings file, using defaults", "name", configName)
		default:
			return nil, apperrors.Configf("failed to read settings: %w", err)
		}
	} else {
		slog.Debug("config: using settings file", "path", v.ConfigFileUsed())
	}

	return build(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("tick_interval", DefaultTickInterval.String())
	v.SetDefault("bridge.address", "")
	v.SetDefault("bridge.discovery_timeout", DefaultDiscoveryTimeout.String())
	v.SetDefault("bridge.discovery_url", DefaultDiscoveryURL)
	v.SetDefault("bridge.register_poll_interval", DefaultRegisterPollInterval.String())
	v.SetDefault("lights.delay", DefaultLightDelay.String())
	v.SetDefault("lights.transition_time", DefaultTransitionTime)
	v.SetDefault("lights.start_color", rgbSlice(color.WarmWhite))
	v.SetDefault("lights.end_color", rgbSlice(color.WarmOrange))
	v.SetDefault("status.listen", "")
	v.SetDefault("mqtt.broker", "")
	v.SetDefault("mqtt.topic_prefix", DefaultMQTTTopicPrefix)
	v.SetDefault("logging.level", LogLevelInfo)
	v.SetDefault("logging.format", LogFormatText)
}

func build(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		APIKey: v.GetString("api_key"),
		Bridge: BridgeConfig{
			Address:      v.GetString("bridge.address"),
			DiscoveryURL: v.GetString("bridge.discovery_url"),
		},
		Status: StatusConfig{
			Listen: v.GetString("status.listen"),
		},
		MQTT: MQTTConfig{
			Broker:      v.GetString("mqtt.broker"),
			TopicPrefix: v.GetString("mqtt.topic_prefix"),
			ClientID:    v.GetString("mqtt.client_id"),
			Username:    v.GetString("mqtt.username"),
			Password:    v.GetString("mqtt.password"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
		},
		v: v,
	}

	var err error
	if cfg.Minutes, err = optionalInt(v, "minutes"); err != nil {
		return nil, err
	}
	if cfg.BreakDuration, err = optionalInt(v, "break_duration"); err != nil {
		return nil, err
	}
	if cfg.TickInterval, err = durationSetting(v, "tick_interval"); err != nil {
		return nil, err
	}
	if cfg.Bridge.DiscoveryTimeout, err = durationSetting(v, "bridge.discovery_timeout"); err != nil {
		return nil, err
	}
	if cfg.Bridge.RegisterPollInterval, err = durationSetting(v, "bridge.register_poll_interval"); err != nil {
		return nil, err
	}
	if cfg.Lights.Delay, err = durationSetting(v, "lights.delay"); err != nil {
		return nil, err
	}
	if cfg.Lights.TransitionTime, err = optionalInt(v, "lights.transition_time"); err != nil {
		return nil, err
	}
	if cfg.Lights.StartColor, err = rgbSetting(v, "lights.start_color"); err != nil {
		return nil, err
	}
	if cfg.Lights.EndColor, err = rgbSetting(v, "lights.end_color"); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ValidateTimer checks the settings the timer loop cannot run without.
func (c *Config) ValidateTimer() error {
	for _, key := range []string{"minutes", "break_duration"} {
		if c.v == nil || !c.v.IsSet(key) {
			return apperrors.Configf("missing required setting %q", key)
		}
	}
	if c.TickInterval <= 0 {
		return apperrors.Configf("tick_interval must be positive, got %s", c.TickInterval)
	}
	return nil
}

// LightingEnabled reports whether lights should be driven.
func (c *Config) LightingEnabled() bool {
	return c.APIKey != ""
}

// WorkDuration returns the work interval.
func (c *Config) WorkDuration() time.Duration {
	return time.Duration(c.Minutes) * time.Minute
}

// BreakInterval returns the break interval.
func (c *Config) BreakInterval() time.Duration {
	return time.Duration(c.BreakDuration) * time.Minute
}

// ConfigFileUsed returns the path of the settings file that was read, if any.
func (c *Config) ConfigFileUsed() string {
	if c.v == nil {
		return ""
	}
	return c.v.ConfigFileUsed()
}

// SaveAPIKey stores key in the settings file that was loaded, or in
// DefaultSettingsFile when none was found. It returns the path written.
func (c *Config) SaveAPIKey(key string) (string, error) {
	if c.v == nil {
		c.v = viper.New()
	}
	path := c.ConfigFileUsed()
	if path == "" {
		path = DefaultSettingsFile
	}

	c.APIKey = key
	c.v.Set("api_key", key)

	slog.Info("config: saving api key", "path", path)
	if err := c.v.WriteConfigAs(path); err != nil {
		return "", fmt.Errorf("error writing settings file: %w", err)
	}
	return path, nil
}

// AllSettings returns the effective settings with secrets redacted.
func (c *Config) AllSettings() map[string]any {
	if c.v == nil {
		return map[string]any{}
	}
	all := c.v.AllSettings()
	if s, ok := all["api_key"].(string); ok && s != "" {
		all["api_key"] = redact(s)
	}
	if m, ok := all["mqtt"].(map[string]any); ok {
		if p, ok := m["password"].(string); ok && p != "" {
			m["password"] = "********"
		}
	}
	return all
}

func redact(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:4] + strings.Repeat("*", len(s)-4)
}

func optionalInt(v *viper.Viper, key string) (int, error) {
	if !v.IsSet(key) {
		return 0, nil
	}
	n, err := cast.ToIntE(v.Get(key))
	if err != nil {
		return 0, apperrors.Configf("setting %q must be an integer: %w", key, err)
	}
	if n < 0 {
		return 0, apperrors.Configf("setting %q must not be negative, got %d", key, n)
	}
	return n, nil
}

// durationSetting accepts Go duration strings ("90s", "1m") and treats bare
// numbers as seconds.
func durationSetting(v *viper.Viper, key string) (time.Duration, error) {
	var d time.Duration
	raw := v.Get(key)
	switch raw.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		n, err := cast.ToFloat64E(raw)
		if err != nil {
			return 0, apperrors.Configf("setting %q must be a duration: %w", key, err)
		}
		d = time.Duration(n * float64(time.Second))
	default:
		var err error
		if d, err = cast.ToDurationE(raw); err != nil {
			return 0, apperrors.Configf("setting %q must be a duration: %w", key, err)
		}
	}
	if d < 0 {
		return 0, apperrors.Configf("setting %q must not be negative, got %s", key, d)
	}
	return d, nil
}

func rgbSetting(v *viper.Viper, key string) (color.RGB, error) {
	values, err := cast.ToIntSliceE(v.Get(key))
	if err != nil {
		return color.RGB{}, apperrors.Configf("setting %q must be a list of three integers: %w", key, err)
	}
	if len(values) != 3 {
		return color.RGB{}, apperrors.Configf("setting %q must have three channels, got %d", key, len(values))
	}
	for _, c := range values {
		if c < 0 || c > 255 {
			return color.RGB{}, apperrors.Configf("setting %q channel %d out of range 0-255", key, c)
		}
	}
	return color.RGB{R: uint8(values[0]), G: uint8(values[1]), B: uint8(values[2])}, nil
}

func rgbSlice(c color.RGB) []int {
	return []int{int(c.R), int(c.G), int(c.B)}
}
