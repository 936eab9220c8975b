package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/untillpro/goutils/logger"

	"github.com/reoring/viewspec/router"
)

// Env variables providing flag defaults.
const (
	EnvBind    = "VIEWSPEC_BIND"
	EnvVersion = "VIEWSPEC_VERSION"
)

// Builder assembles the router the commands operate on.
type Builder func(opts ...router.Option) (*router.Router, error)

type globals struct {
	verbose  bool
	basePath string
}

func (g *globals) build(b Builder) (*router.Router, error) {
	r, err := b(router.WithBasePath(g.basePath))
	if err != nil {
		return nil, Wrap(ExitFailure, "cannot build views", err)
	}
	return r, nil
}

// NewRootCmd constructs the root command of a views binary.
func NewRootCmd(name string, b Builder) *cobra.Command {
	version := os.Getenv(EnvVersion)
	if version == "" {
		version = "0.0.0-dev"
	}
	g := &globals{}

	cmd := &cobra.Command{
		Use:           name,
		Short:         "Serve and describe contract-checked JSON views",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if g.verbose {
				logger.SetLogLevel(logger.LogLevelVerbose)
			}
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "enable verbose output")
	cmd.PersistentFlags().StringVar(&g.basePath, "base-path", router.DefaultOptions().BasePath, "URL prefix the views are mounted under")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", name, version)
		},
	})
	cmd.AddCommand(newSwaggerCmd(g, b, version))
	cmd.AddCommand(newServeCmd(g, b))
	return cmd
}
