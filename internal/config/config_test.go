package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/jmylchreest/huemodoro/internal/errors"
	"github.com/jmylchreest/huemodoro/pkg/color"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_TOMLSettings(t *testing.T) {
	path := writeFile(t, t.TempDir(), "Settings.toml", `
minutes = 25
break_duration = 5
api_key = "abcdef123456"
`)

	cfg, err := Load(SettingsName, WithFile(path))
	require.NoError(t, err)
	require.NoError(t, cfg.ValidateTimer())

	assert.Equal(t, 25, cfg.Minutes)
	assert.Equal(t, 5, cfg.BreakDuration)
	assert.Equal(t, "abcdef123456", cfg.APIKey)
	assert.True(t, cfg.LightingEnabled())
	assert.Equal(t, 25*time.Minute, cfg.WorkDuration())
	assert.Equal(t, 5*time.Minute, cfg.BreakInterval())

	// Defaults
	assert.Equal(t, DefaultTickInterval, cfg.TickInterval)
	assert.Equal(t, DefaultLightDelay, cfg.Lights.Delay)
	assert.Equal(t, DefaultRegisterPollInterval, cfg.Bridge.RegisterPollInterval)
	assert.Equal(t, DefaultDiscoveryTimeout, cfg.Bridge.DiscoveryTimeout)
	assert.Equal(t, DefaultDiscoveryURL, cfg.Bridge.DiscoveryURL)
	assert.Equal(t, DefaultTransitionTime, cfg.Lights.TransitionTime)
	assert.Equal(t, color.WarmWhite, cfg.Lights.StartColor)
	assert.Equal(t, color.WarmOrange, cfg.Lights.EndColor)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, DefaultMQTTTopicPrefix, cfg.MQTT.TopicPrefix)
}

func TestLoad_YAMLOverrides(t *testing.T) {
	path := writeFile(t, t.TempDir(), "Settings.yaml", `
minutes: 50
break_duration: 10
tick_interval: 30s
bridge:
  address: 192.168.1.20
  register_poll_interval: 2
lights:
  delay: 100ms
  transition_time: 10
  start_color: [10, 20, 30]
  end_color: [255, 0, 0]
status:
  listen: 127.0.0.1:8088
mqtt:
  broker: tcp://localhost:1883
  topic_prefix: office/pomodoro
logging:
  level: debug
  format: json
`)

	cfg, err := Load(SettingsName, WithFile(path))
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Minutes)
	assert.False(t, cfg.LightingEnabled())
	assert.Equal(t, 30*time.Second, cfg.TickInterval)
	assert.Equal(t, "192.168.1.20", cfg.Bridge.Address)
	assert.Equal(t, 2*time.Second, cfg.Bridge.RegisterPollInterval)
	assert.Equal(t, 100*time.Millisecond, cfg.Lights.Delay)
	assert.Equal(t, 10, cfg.Lights.TransitionTime)
	assert.Equal(t, color.RGB{R: 10, G: 20, B: 30}, cfg.Lights.StartColor)
	assert.Equal(t, color.RGB{R: 255}, cfg.Lights.EndColor)
	assert.Equal(t, "127.0.0.1:8088", cfg.Status.Listen)
	assert.Equal(t, "tcp://localhost:1883", cfg.MQTT.Broker)
	assert.Equal(t, "office/pomodoro", cfg.MQTT.TopicPrefix)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_SearchesWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Settings.json", `{"minutes": 1, "break_duration": 1}`)
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load(SettingsName)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Minutes)
	assert.Equal(t, "Settings.json", filepath.Base(cfg.ConfigFileUsed()))
}

func TestLoad_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	_, err := Load(SettingsName)
	require.Error(t, err)
	assert.True(t, apperrors.IsConfig(err))
	assert.True(t, errors.Is(err, ErrSettingsNotFound))

	cfg, err := Load(SettingsName, Optional())
	require.NoError(t, err)
	assert.Empty(t, cfg.ConfigFileUsed())
	assert.Error(t, cfg.ValidateTimer())
}

func TestLoad_MissingRequiredKey(t *testing.T) {
	path := writeFile(t, t.TempDir(), "Settings.toml", "minutes = 25\n")

	cfg, err := Load(SettingsName, WithFile(path))
	require.NoError(t, err)

	err = cfg.ValidateTimer()
	require.Error(t, err)
	assert.True(t, apperrors.IsConfig(err))
	assert.Contains(t, err.Error(), "break_duration")
}

func TestLoad_MalformedValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		key     string
	}{
		{"non-integer minutes", "minutes = \"soon\"\nbreak_duration = 5\n", "minutes"},
		{"negative break", "minutes = 25\nbreak_duration = -5\n", "break_duration"},
		{"negative numeric delay", "minutes = 25\nbreak_duration = 5\n[lights]\ndelay = -1\n", "lights.delay"},
		{"negative string delay", "minutes = 25\nbreak_duration = 5\n[lights]\ndelay = \"-50ms\"\n", "lights.delay"},
		{"bad tick interval", "minutes = 25\nbreak_duration = 5\ntick_interval = \"often\"\n", "tick_interval"},
		{"two channel color", "minutes = 25\nbreak_duration = 5\n[lights]\nstart_color = [1, 2]\n", "lights.start_color"},
		{"channel out of range", "minutes = 25\nbreak_duration = 5\n[lights]\nend_color = [1, 2, 300]\n", "lights.end_color"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "Settings.toml", tt.content)
			_, err := Load(SettingsName, WithFile(path))
			require.Error(t, err)
			assert.True(t, apperrors.IsConfig(err))
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "Settings.yaml", "not: [valid: yaml")

	_, err := Load(SettingsName, WithFile(path))
	require.Error(t, err)
	assert.True(t, apperrors.IsConfig(err))
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	path := writeFile(t, t.TempDir(), "Settings.toml", "minutes = 25\nbreak_duration = 5\n")
	t.Setenv("HUEMODORO_API_KEY", "from-env")
	t.Setenv("HUEMODORO_MINUTES", "45")

	cfg, err := Load(SettingsName, WithFile(path))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.APIKey)
	assert.Equal(t, 45, cfg.Minutes)
}

func TestLoad_ViperFlagsTakePrecedence(t *testing.T) {
	path := writeFile(t, t.TempDir(), "Settings.toml", "minutes = 25\nbreak_duration = 5\n[logging]\nlevel = \"warn\"\n")
	v := viper.New()
	v.Set("logging.level", "debug")

	cfg, err := Load(SettingsName, WithViper(v), WithFile(path))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestSaveAPIKey(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Settings.yaml", "minutes: 25\nbreak_duration: 5\n")

	cfg, err := Load(SettingsName, WithFile(path))
	require.NoError(t, err)

	written, err := cfg.SaveAPIKey("new-user-key")
	require.NoError(t, err)
	assert.Equal(t, path, written)

	cfg2, err := Load(SettingsName, WithFile(path))
	require.NoError(t, err)
	assert.Equal(t, "new-user-key", cfg2.APIKey)
	assert.Equal(t, 25, cfg2.Minutes)
}

func TestSaveAPIKey_NoSettingsFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load(SettingsName, Optional())
	require.NoError(t, err)

	written, err := cfg.SaveAPIKey("fresh")
	require.NoError(t, err)
	assert.Equal(t, DefaultSettingsFile, written)

	_, err = os.Stat(filepath.Join(dir, DefaultSettingsFile))
	assert.NoError(t, err)
}

func TestAllSettingsRedactsSecrets(t *testing.T) {
	path := writeFile(t, t.TempDir(), "Settings.toml", "minutes = 25\nbreak_duration = 5\napi_key = \"abcdefgh\"\n[mqtt]\npassword = \"hunter2\"\n")

	cfg, err := Load(SettingsName, WithFile(path))
	require.NoError(t, err)

	all := cfg.AllSettings()
	assert.Equal(t, "abcd****", all["api_key"])
	mqtt, ok := all["mqtt"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "********", mqtt["password"])
}
