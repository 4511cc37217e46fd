package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/huemodoro/pkg/hue"
)

func newDiscoverCommand(a *app) *cobra.Command {
	var parseable bool
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Locate the Hue bridge and print its address",
		Args:  cobra.NoArgs,
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

			// The description is unauthenticated; a bridge that refuses it is still usable.
			desc, err := hue.NewClient(bridge.Address, "", a.logger, a.httpClients()...).GetConfig(cmd.Context())
			if err != nil {
				a.logger.Warn("hue: failed to read bridge config", "address", bridge.Address, "error", err)
				desc = &hue.BridgeConfig{}
			}

			if parseable {
				pterm.Fprintln(out, BridgeParseable(bridge, desc))
				return nil
			}
			return pterm.DefaultTable.WithWriter(out).WithData(BridgeTableData(bridge, desc)).Render()
		},
	}
	cmd.Flags().BoolVarP(&parseable, "parseable", "p", false, "Output in parseable format (key=value)")
	return cmd
}
