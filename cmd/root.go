package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/geoplot/tileframe/internal/fetcher"
	"github.com/geoplot/tileframe/internal/scale"
	"github.com/geoplot/tileframe/pkg/geo"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tileframe",
	Short: "Fetch georeferenced map rasters and compute plotting frame geometry",
	Long: `tileframe downloads map rasters from a tile export endpoint and computes
the frame geometry (corners, axis limits, legend offsets) a plotting library
needs to draw them as background layers.

Examples:
  # Fetch a raster for a bounding box at zoom level 10
  tileframe --bbox -95.80204,29.38048,-94.92313,30.14344 --zoom 10 -o houston.png

  # Fetch with an explicit provider scale denominator, in grayscale
  tileframe --west -95.8 --south 29.38 --east -94.92 --north 30.14 --scale 606250 --grayscale -o houston.png

  # Look up the scale denominator for a zoom level
  tileframe scale 13

  # Print frame geometry for a bounding box
  tileframe frame --bbox -95.8,29.4,-94.9,30.1 --legend topleft --padding 0.02

  # Start the HTTP server
  tileframe serve --port 8080`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// No flags at all: show help instead of failing validation
		if cmd.Flags().NFlag() == 0 {
			return cmd.Help()
		}
		return runFetch(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.tileframe.yaml)")

	// Output options
	rootCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
	rootCmd.Flags().StringP("format", "f", "png", "raster format requested from the endpoint (png)")
	rootCmd.Flags().Bool("grayscale", false, "convert the raster to grayscale")
	rootCmd.Flags().String("save-raw", "", "also write the raw response bytes to this path before decoding")

	// Bounding box
	rootCmd.Flags().Float64("west", 0, "west boundary (min longitude)")
	rootCmd.Flags().Float64("south", 0, "south boundary (min latitude)")
	rootCmd.Flags().Float64("east", 0, "east boundary (max longitude)")
	rootCmd.Flags().Float64("north", 0, "north boundary (max latitude)")
	rootCmd.Flags().String("bbox", "", "bounding box as 'west,south,east,north'")

	// Detail level
	rootCmd.Flags().Int("zoom", 0, "zoom level in [2,20], resolved through the scale table")
	rootCmd.Flags().Int("scale", 0, "provider scale denominator (overrides --zoom)")

	// HTTP options
	rootCmd.Flags().String("endpoint", fetcher.DefaultEndpoint, "tile export endpoint")
	rootCmd.Flags().String("user-agent", "tileframe/1.0.0", "HTTP User-Agent header")
	rootCmd.Flags().Duration("timeout", fetcher.DefaultTimeout, "HTTP request timeout")

	viper.BindPFlag("output", rootCmd.Flags().Lookup("output"))
	viper.BindPFlag("format", rootCmd.Flags().Lookup("format"))
	viper.BindPFlag("grayscale", rootCmd.Flags().Lookup("grayscale"))
	viper.BindPFlag("save-raw", rootCmd.Flags().Lookup("save-raw"))
	viper.BindPFlag("west", rootCmd.Flags().Lookup("west"))
	viper.BindPFlag("south", rootCmd.Flags().Lookup("south"))
	viper.BindPFlag("east", rootCmd.Flags().Lookup("east"))
	viper.BindPFlag("north", rootCmd.Flags().Lookup("north"))
	viper.BindPFlag("bbox", rootCmd.Flags().Lookup("bbox"))
	viper.BindPFlag("zoom", rootCmd.Flags().Lookup("zoom"))
	viper.BindPFlag("scale", rootCmd.Flags().Lookup("scale"))
	viper.BindPFlag("endpoint", rootCmd.Flags().Lookup("endpoint"))
	viper.BindPFlag("user-agent", rootCmd.Flags().Lookup("user-agent"))
	viper.BindPFlag("timeout", rootCmd.Flags().Lookup("timeout"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".tileframe" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".tileframe")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func runFetch(cmd *cobra.Command, args []string) error {
	bbox, err := bboxFromFlags()
	if err != nil {
		return err
	}

	denominator, err := scaleFromFlags()
	if err != nil {
		return err
	}

	f := fetcher.New(fetcher.Config{
		Endpoint:  viper.GetString("endpoint"),
		UserAgent: viper.GetString("user-agent"),
		Timeout:   viper.GetDuration("timeout"),
	})

	opts := fetcher.Options{
		Format:   fetcher.Format(viper.GetString("format")),
		Gray:     viper.GetBool("grayscale"),
		SavePath: viper.GetString("save-raw"),
	}

	url, err := f.BuildURL(*bbox, denominator, opts.Format)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "==Bounding box: %v,%v to %v,%v\n", bbox.West, bbox.South, bbox.East, bbox.North)
	fmt.Fprintf(cmd.ErrOrStderr(), "==Scale denominator: %d\n", denominator)
	fmt.Fprintf(cmd.ErrOrStderr(), "==Request: %s\n", url)

	ctx, cancel := context.WithTimeout(context.Background(), viper.GetDuration("timeout"))
	defer cancel()

	raster, err := f.Fetch(ctx, *bbox, denominator, opts)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "==Raster size: %dx%d\n", raster.Width, raster.Height)

	output := viper.GetString("output")
	if output == "" {
		if stat, _ := os.Stdout.Stat(); (stat.Mode() & os.ModeCharDevice) != 0 {
			return fmt.Errorf("didn't specify output file and standard output is a terminal")
		}
	}

	return geo.WritePNG(output, raster)
}

// bboxFromFlags builds the bounding box from either --bbox or the four
// boundary flags.
func bboxFromFlags() (*geo.BoundingBox, error) {
	if bboxStr := viper.GetString("bbox"); bboxStr != "" {
		return parseBBoxString(bboxStr)
	}

	bbox := &geo.BoundingBox{
		West:  viper.GetFloat64("west"),
		South: viper.GetFloat64("south"),
		East:  viper.GetFloat64("east"),
		North: viper.GetFloat64("north"),
	}
	if *bbox == (geo.BoundingBox{}) {
		return nil, fmt.Errorf("a bounding box is required (use --bbox or --west/--south/--east/--north)")
	}
	if err := bbox.Validate(); err != nil {
		return nil, err
	}
	return bbox, nil
}

// parseBBoxString parses "west,south,east,north"
func parseBBoxString(s string) (*geo.BoundingBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("bbox must be in format 'west,south,east,north'")
	}

	vals := make([]float64, 4)
	names := []string{"west", "south", "east", "north"}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s in bbox: %v", names[i], err)
		}
		vals[i] = v
	}

	bbox := &geo.BoundingBox{West: vals[0], South: vals[1], East: vals[2], North: vals[3]}
	if err := bbox.Validate(); err != nil {
		return nil, err
	}
	return bbox, nil
}

// scaleFromFlags picks --scale directly, or resolves --zoom through the table
func scaleFromFlags() (int, error) {
	if s := viper.GetInt("scale"); s != 0 {
		if s < 0 {
			return 0, fmt.Errorf("scale must be a positive integer, got %d", s)
		}
		return s, nil
	}
	if z := viper.GetInt("zoom"); z != 0 {
		return scale.Resolve(z)
	}
	return 0, fmt.Errorf("either --zoom or --scale is required")
}
