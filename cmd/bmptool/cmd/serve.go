package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/ironsheep/bmp-tools/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var outputDir string

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server over stdin/stdout",
		Long: `Run the MCP server. Requests are read from stdin one per line and
responses are written to stdout, so configure this command in your MCP client
rather than running it by hand.

Examples:
  bmptool serve
  bmptool serve --output-dir ./out --config bmptool.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputDir == "" {
				outputDir = a.cfg.OutputDir
			}

			srv := server.New(
				server.WithOutputDir(outputDir),
				server.WithStrictHeaders(a.cfg.Codec.StrictHeaders),
				server.WithVersion(a.info.Version),
				server.WithDebug(a.cfg.Debug()),
			)

			if a.cfg.Debug() {
				log.Printf("Serving MCP on stdio, writing results to %s", outputDir)
			}
			return srv.Serve(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	serveCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for generated BMP files (overrides output_dir)")
	return serveCmd
}
