package commands

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jmylchreest/huemodoro/internal/clock"
	"github.com/jmylchreest/huemodoro/internal/config"
	"github.com/jmylchreest/huemodoro/internal/http/handlers"
	"github.com/jmylchreest/huemodoro/internal/lights"
	"github.com/jmylchreest/huemodoro/internal/utils"
	"github.com/jmylchreest/huemodoro/pkg/hue"
)

// Options override the defaults of the command tree, mainly for tests.
type Options struct {
	Clock clock.Clock
	// Discoverer replaces the discovery built from the settings.
	Discoverer hue.Discoverer
	HTTPClient *http.Client
	// LogOutput receives log records instead of stderr.
	LogOutput io.Writer
}

// app carries state shared by all subcommands of one invocation.
type app struct {
	version    handlers.VersionInfo
	opts       Options
	v          *viper.Viper
	configFile string
	logger     *slog.Logger
}

// NewRootCommand creates the root command. Without a subcommand it runs the
// timer.
func NewRootCommand(version handlers.VersionInfo, opts Options) *cobra.Command {
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}
	a := &app{
		version: version,
		opts:    opts,
		v:       viper.New(),
		logger:  slog.Default(),
	}

	cmd := &cobra.Command{
		Use:           "huemodoro",
		Short:         "Pomodoro timer that signals work and break on Hue lights",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          a.runTimer,
	}

	// Add global flags
	cmd.PersistentFlags().StringVar(&a.configFile, "config", "", "Path to the settings file (default: search for Settings.*)")
	cmd.PersistentFlags().String("log-level", config.LogLevelInfo, "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("log-format", config.LogFormatText, "Log format (text, json)")

	// Bind flags to Viper so they take precedence over the settings file
	bindFlags(a.v, cmd.PersistentFlags())

	cmd.AddCommand(
		newRunCommand(a),
		newRegisterCommand(a),
		newDiscoverCommand(a),
		newLightsCommand(a),
		newOpenAPICommand(a),
		newVersionCommand(a),
		newConfigCommand(a),
	)

	return cmd
}

// flagSettings maps global flags to the settings keys they override.
var flagSettings = map[string]string{
	"log-level":  "logging.level",
	"log-format": "logging.format",
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	for name, key := range flagSettings {
		v.BindPFlag(key, flags.Lookup(name))
	}
}

// loadConfig reads the settings once and configures logging from them.
// With optional, a missing settings file falls back to defaults.
func (a *app) loadConfig(optional bool) (*config.Config, error) {
	opts := []config.Option{config.WithViper(a.v), config.WithFile(a.configFile)}
	if optional {
		opts = append(opts, config.Optional())
	}
	cfg, err := config.Load(config.SettingsName, opts...)
	if err != nil {
		return nil, err
	}

	a.logger = utils.NewLogger(a.opts.LogOutput, cfg.Logging.Level, cfg.Logging.Format)
	utils.SetAsDefaultLogger(a.logger)
	a.logger.Debug("config: settings loaded", "file", cfg.ConfigFileUsed())
	return cfg, nil
}

// controller builds a light controller for cfg, authenticating as apiKey.
func (a *app) controller(cfg *config.Config, apiKey string, extra ...lights.Option) *lights.Controller {
	discoverer := a.opts.Discoverer
	if discoverer == nil {
		discoverer = hue.NewDiscoverer(cfg.Bridge.Address, cfg.Bridge.DiscoveryTimeout, cfg.Bridge.DiscoveryURL, a.logger)
	}
	opts := []lights.Option{
		lights.WithClock(a.opts.Clock),
		lights.WithDelay(cfg.Lights.Delay),
		lights.WithLogger(a.logger),
	}
	for _, hc := range a.httpClients() {
		opts = append(opts, lights.WithHTTPClient(hc))
	}
	return lights.NewController(discoverer, apiKey, append(opts, extra...)...)
}

// httpClients returns the override client as the variadic argument of hue.NewClient.
func (a *app) httpClients() []*http.Client {
	if a.opts.HTTPClient == nil {
		return nil
	}
	return []*http.Client{a.opts.HTTPClient}
}

// newVersionCommand creates the version command
func newVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Version:    %s\n", a.version.Version)
			fmt.Fprintf(out, "Commit:     %s\n", a.version.Commit)
			fmt.Fprintf(out, "Build Date: %s\n", a.version.BuildDate)
		},
	}
}
