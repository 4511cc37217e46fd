package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	apperrors "github.com/jmylchreest/huemodoro/internal/errors"
	"github.com/jmylchreest/huemodoro/pkg/hue"
)

func newRegisterCommand(a *app) *cobra.Command {
	var save bool
	cmd := &cobra.Command{
		Use:   "register <devicetype>",
		Short: "Create a bridge user, waiting for the link button",
		Long: `Create a bridge user for <devicetype>, for example "huemodoro#laptop".
Press the link button on the bridge when asked. The printed username is the
api_key setting.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return apperrors.InvalidInputf("usage: %s", cmd.UseLine())
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg, err := a.loadConfig(true)
			if err != nil {
				return err
			}

			bridge, err := a.controller(cfg, "").Bridge(cmd.Context())
			if err != nil {
				return err
			}
			pterm.Info.WithWriter(out).Printfln("Hue bridge found at %s", bridge.Address)
			pterm.Info.WithWriter(out).Printfln("Posting user %s", args[0])

			reg := hue.Registration{
				Client:     hue.NewClient(bridge.Address, "", a.logger, a.httpClients()...),
				DeviceType: args[0],
				Interval:   cfg.Bridge.RegisterPollInterval,
				Sleep:      a.opts.Clock.Sleep,
				OnWaiting: func(int) {
					pterm.Warning.WithWriter(out).Println("Push the bridge button")
				},
			}
			username, err := reg.Run(cmd.Context())
			if err != nil {
				if cmd.Context().Err() != nil {
					a.logger.Info("register: cancelled while waiting for the link button")
					return nil
				}
				return apperrors.Bridgef("failed to register %q: %w", args[0], err)
			}

			pterm.Success.WithWriter(out).Println("Registered")
			pterm.Fprintln(out, username)

			if save {
				path, err := cfg.SaveAPIKey(username)
				if err != nil {
					return apperrors.Configf("failed to save api_key: %w", err)
				}
				pterm.Info.WithWriter(out).Printfln("api_key saved to %s", path)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "Store the new username as api_key in the settings file")
	return cmd
}
