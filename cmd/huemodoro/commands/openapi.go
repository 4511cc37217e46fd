package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/huemodoro/internal/http/routes"
)

// newOpenAPICommand prints the status API document built from the shared
// route definitions with stub handlers, so no timer or bridge is needed.
func newOpenAPICommand(a *app) *cobra.Command {
	var (
		outputFile string
		outputYAML bool
		baseURL    string
	)
	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Print the OpenAPI document of the status API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// A minimal chi router; no requests are served
			router := chi.NewRouter()
			api := humachi.New(router, routes.NewHumaConfig(a.version.Version, baseURL))
			routes.Register(api, routes.StubHandlers())

			doc := api.OpenAPI()
			var (
				data []byte
				err  error
			)
			if outputYAML {
				data, err = yaml.Marshal(doc)
			} else {
				data, err = json.MarshalIndent(doc, "", "  ")
			}
			if err != nil {
				return fmt.Errorf("error marshaling OpenAPI document: %w", err)
			}

			if outputFile != "" {
				if err := os.WriteFile(outputFile, data, 0644); err != nil {
					return fmt.Errorf("error writing to file: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "OpenAPI document written to %s\n", outputFile)
				return nil
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVar(&outputFile, "output", "", "Output file path (default: stdout)")
	cmd.Flags().BoolVar(&outputYAML, "yaml", false, "Output as YAML instead of JSON")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "Base URL for the API server")
	return cmd
}
