package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/caurus/cronto/render"
)

var svgBackground bool

var barcodeCmd = &cobra.Command{
	Use:   "barcode",
	Short: "Render barcodes from their compact text form",
}

var barcodePrintCmd = &cobra.Command{
	Use:   "print barcode",
	Short: "Print a barcode as a digit grid on the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		modules, err := render.Deserialize(args[0])
		if err != nil {
			return err
		}
		return render.Text(os.Stdout, modules)
	},
}

var barcodeSVGCmd = &cobra.Command{
	Use:   "svg barcode",
	Short: "Print a barcode as an SVG document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		modules, err := render.Deserialize(args[0])
		if err != nil {
			return err
		}
		return render.ToSVG(os.Stdout, modules, svgBackground)
	},
}

func init() {
	barcodeSVGCmd.Flags().BoolVar(&svgBackground, "background", false, "draw a white background")
	barcodeCmd.AddCommand(barcodePrintCmd)
	barcodeCmd.AddCommand(barcodeSVGCmd)
	rootCmd.AddCommand(barcodeCmd)
}
