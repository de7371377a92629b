package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "bmptool %s\n", a.info.Version)
			fmt.Fprintf(out, "  Build time: %s\n", a.info.BuildTime)
			fmt.Fprintf(out, "  Git commit: %s\n", a.info.GitCommit)
		},
	}
}
