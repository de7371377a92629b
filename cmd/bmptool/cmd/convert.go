package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ironsheep/bmp-tools/internal/imaging"
	"github.com/ironsheep/bmp-tools/internal/raster"
)

func newConvertCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "convert <src> [dst]",
		Short: "Convert an image to a 24-bit BMP",
		Long: `Convert a BMP, PNG, JPEG or GIF image to an uncompressed 24-bit BMP.
Alpha is discarded. Without dst the result is written to the output directory.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := a.newCache().Load(args[0])
			if err != nil {
				return err
			}
			return writeResult(cmd, img, a.outputPath(args, 1, "convert"))
		},
	}
}

func newGrayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "gray <src> [dst]",
		Short: "Write a grayscale copy of an image as BMP",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := a.newCache().Load(args[0])
			if err != nil {
				return err
			}
			return writeResult(cmd, imaging.Grayscale(img), a.outputPath(args, 1, "gray"))
		},
	}
}

func newCreateCmd(a *app) *cobra.Command {
	var (
		width, height int
		fill          string
	)

	createCmd := &cobra.Command{
		Use:   "create [dst]",
		Short: "Create a solid-color 24-bit BMP",
		Long: `Create a new BMP filled with one color.

Examples:
  bmptool create --width 640 --height 480 out.bmp
  bmptool create -W 16 -H 16 --color "#336699"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := raster.ParseHex(fill)
			if err != nil {
				return fmt.Errorf("invalid color %q: %w", fill, err)
			}
			return writeResult(cmd, raster.New(width, height, c), a.outputPath(args, 0, "create"))
		},
	}

	createCmd.Flags().IntVarP(&width, "width", "W", 0, "Width in pixels")
	createCmd.Flags().IntVarP(&height, "height", "H", 0, "Height in pixels")
	createCmd.Flags().StringVar(&fill, "color", "#FFFFFF", "Fill color as #RRGGBB")
	_ = createCmd.MarkFlagRequired("width")
	_ = createCmd.MarkFlagRequired("height")
	return createCmd
}

// writeResult saves img as BMP and prints where it went.
func writeResult(cmd *cobra.Command, img *raster.Image, path string) error {
	res, err := imaging.SaveBMP(img, path)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%dx%d, %d bytes)\n", res.Path, res.Width, res.Height, res.FileSizeBytes)
	return nil
}
