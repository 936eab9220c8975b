package cli

import (
	"github.com/spf13/cobra"

	"github.com/reoring/viewspec/router"
	"github.com/reoring/viewspec/swagger"
)

func newSwaggerCmd(g *globals, b Builder, version string) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "swagger",
		Short: "Validate and print the Swagger 2.0 description of the views",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var marshal func(*swagger.Document) ([]byte, error)
			switch format {
			case "yaml", "yml":
				marshal = swagger.MarshalYAML
			case "json":
				marshal = swagger.MarshalJSON
			default:
				return Exitf(ExitUsage, "unknown format %q (want yaml or json)", format)
			}
			r, err := b(router.WithBasePath(g.basePath), router.WithVersion(version))
			if err != nil {
				return Wrap(ExitFailure, "cannot build views", err)
			}
			doc := r.Swagger()
			if err := swagger.Validate(doc); err != nil {
				return Wrap(ExitInvalid, "invalid swagger document", err)
			}
			out, err := marshal(doc)
			if err != nil {
				return Wrap(ExitFailure, "cannot encode swagger document", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format: yaml or json")
	return cmd
}
