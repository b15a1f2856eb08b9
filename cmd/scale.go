package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/geoplot/tileframe/internal/scale"
)

var scaleCmd = &cobra.Command{
	Use:   "scale <zoom>",
	Short: "Print the provider scale denominator for a zoom level",
	Long: `Translate a zoom level in [2, 20] into the scale denominator the tile
export endpoint expects. The mapping is an exact per-provider lookup table,
not a formula.

Examples:
  tileframe scale 10
  tileframe scale 20`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		zoom, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("zoom must be an integer: %v", err)
		}

		denominator, err := scale.Resolve(zoom)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), denominator)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scaleCmd)
}
