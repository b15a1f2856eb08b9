package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/geoplot/tileframe/internal/frame"
)

var frameCmd = &cobra.Command{
	Use:   "frame",
	Short: "Print frame geometry for a bounding box as JSON",
	Long: `Compute the corner coordinates, axis limits, legend offsets, and darken
overlay a plotting library needs to render a raster covering the given
bounding box. No network access is performed.

Examples:
  tileframe frame --bbox -95.8,29.4,-94.9,30.1 --legend topleft --padding 0.02
  tileframe frame --bbox -95.8,29.4,-94.9,30.1 --extent device --darken 0.3 --darken-color navy`,
	RunE: runFrame,
}

func init() {
	rootCmd.AddCommand(frameCmd)

	frameCmd.Flags().String("bbox", "", "bounding box as 'west,south,east,north' (required)")
	frameCmd.Flags().String("legend", "right", "legend position (bottomleft|topleft|bottomright|topright|left|right|top|bottom|none)")
	frameCmd.Flags().Float64("padding", 0.02, "legend padding in [0,1]")
	frameCmd.Flags().String("extent", "panel", "extent mode (unconstrained|panel|device)")
	frameCmd.Flags().Float64("darken", 0, "darken overlay intensity in [0,1]")
	frameCmd.Flags().String("darken-color", "", "darken overlay color name (default black)")

	viper.BindPFlag("frame.bbox", frameCmd.Flags().Lookup("bbox"))
	viper.BindPFlag("frame.legend", frameCmd.Flags().Lookup("legend"))
	viper.BindPFlag("frame.padding", frameCmd.Flags().Lookup("padding"))
	viper.BindPFlag("frame.extent", frameCmd.Flags().Lookup("extent"))
	viper.BindPFlag("frame.darken", frameCmd.Flags().Lookup("darken"))
	viper.BindPFlag("frame.darken-color", frameCmd.Flags().Lookup("darken-color"))
}

func runFrame(cmd *cobra.Command, args []string) error {
	bbox, err := parseBBoxString(viper.GetString("frame.bbox"))
	if err != nil {
		return err
	}

	g, err := frame.ComputeBBox(*bbox, frame.Options{
		Legend:      frame.LegendPosition(viper.GetString("frame.legend")),
		Padding:     viper.GetFloat64("frame.padding"),
		Extent:      frame.Extent(viper.GetString("frame.extent")),
		Darken:      viper.GetFloat64("frame.darken"),
		DarkenColor: viper.GetString("frame.darken-color"),
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(g)
}
