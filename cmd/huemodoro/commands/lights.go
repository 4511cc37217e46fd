package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	apperrors "github.com/jmylchreest/huemodoro/internal/errors"
)

func newLightsCommand(a *app) *cobra.Command {
	var parseable bool
	cmd := &cobra.Command{
		Use:   "lights",
		Short: "List lights known to the bridge",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg, err := a.loadConfig(true)
			if err != nil {
				return err
			}
			if !cfg.LightingEnabled() {
				return apperrors.Configf("api_key is not set, run register first")
			}

			_, _, lights, err := a.controller(cfg, cfg.APIKey).Lights(cmd.Context())
			if err != nil {
				return err
			}

			if len(lights) == 0 {
				if !parseable {
					pterm.Info.WithWriter(out).Println("No lights found")
				}
				return nil
			}

			for _, light := range lights {
				if parseable {
					pterm.Fprintln(out, LightParseable(light))
					continue
				}
				if err := pterm.DefaultTable.WithWriter(out).WithData(LightTableData(light)).Render(); err != nil {
					return err
				}
				pterm.Fprintln(out) // blank line between lights
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&parseable, "parseable", "p", false, "Output in parseable format (key=value)")
	return cmd
}
