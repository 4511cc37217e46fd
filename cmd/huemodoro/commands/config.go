package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect settings",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective settings with secrets redacted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg, err := a.loadConfig(true)
			if err != nil {
				return err
			}

			data, err := yaml.Marshal(cfg.AllSettings())
			if err != nil {
				return fmt.Errorf("error marshaling settings: %w", err)
			}

			if file := cfg.ConfigFileUsed(); file != "" {
				pterm.Fprintln(out, "# "+file)
			} else {
				pterm.Fprintln(out, "# no settings file found, showing defaults")
			}
			_, err = out.Write(data)
			return err
		},
	})
	return cmd
}
