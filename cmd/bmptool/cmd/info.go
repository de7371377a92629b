package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ironsheep/bmp-tools/internal/imaging"
)

func newInfoCmd(a *app) *cobra.Command {
	var asJSON bool

	infoCmd := &cobra.Command{
		Use:   "info <path>",
		Short: "Print image dimensions and BMP header details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := imaging.LoadImageInfo(a.newCache(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}

			fmt.Fprintf(out, "Path:       %s\n", args[0])
			fmt.Fprintf(out, "Format:     %s\n", info.Format)
			fmt.Fprintf(out, "Size:       %dx%d\n", info.Width, info.Height)
			fmt.Fprintf(out, "File size:  %d bytes\n", info.FileSizeBytes)
			if info.BMP != nil {
				fmt.Fprintf(out, "Bit depth:  %d\n", info.BMP.BitsPerPixel)
				fmt.Fprintf(out, "Stride:     %d\n", info.BMP.Stride)
				fmt.Fprintf(out, "Row order:  %s\n", info.BMP.RowOrder)
			}
			return nil
		},
	}

	infoCmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return infoCmd
}
