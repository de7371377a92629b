package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/bmp-tools/internal/config"
	"github.com/ironsheep/bmp-tools/internal/imaging"
)

// BuildInfo is stamped into the binary by ldflags.
type BuildInfo struct {
	Version   string
	BuildTime string
	GitCommit string
}

// app holds state shared by every subcommand of one invocation.
type app struct {
	info       BuildInfo
	configPath string
	cfg        *config.Config
}

// NewRootCmd builds the bmptool command tree.
func NewRootCmd(info BuildInfo) *cobra.Command {
	a := &app{info: info}

	rootCmd := &cobra.Command{
		Use:   "bmptool",
		Short: "24-bit BMP codec and image tools",
		Long: `bmptool reads and writes uncompressed 24-bit BMP files.

It can run as an MCP server over stdio ("bmptool serve") or perform
one-off conversions from the command line.

Environment variables:
  BMPTOOLS_LOG_LEVEL=debug    Enable debug logging`,
		SilenceUsage:      true,
		PersistentPreRunE: a.loadConfig,
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to a YAML config file")

	rootCmd.AddCommand(
		newServeCmd(a),
		newInfoCmd(a),
		newConvertCmd(a),
		newCreateCmd(a),
		newGrayCmd(a),
		newVersionCmd(a),
	)

	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
// This is called by main.main().
func Execute(info BuildInfo) {
	if err := NewRootCmd(info).Execute(); err != nil {
		os.Exit(1)
	}
}

func (a *app) loadConfig(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if a.configPath != "" {
		loaded, err := config.LoadConfig(a.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	if cfg.Debug() {
		log.Printf("bmptool %s (built %s, commit %s)", a.info.Version, a.info.BuildTime, a.info.GitCommit)
		if a.configPath != "" {
			log.Printf("Loaded config from %s", a.configPath)
		}
	}
	return nil
}

// newCache returns an image cache honouring codec.strict_headers.
func (a *app) newCache() *imaging.ImageCache {
	if a.cfg.Codec.StrictHeaders {
		return imaging.NewImageCache(imaging.WithStrictHeaders())
	}
	return imaging.NewImageCache()
}

// outputPath returns dst when given, otherwise a generated name in the output directory.
func (a *app) outputPath(args []string, i int, prefix string) string {
	if len(args) > i && args[i] != "" {
		return args[i]
	}
	return imaging.OutputPath(a.cfg.OutputDir, prefix)
}
