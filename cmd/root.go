// Package cmd implements the selene CLI command tree.
// This file defines the root command and registers all global persistent flags.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/selenecli/selene/internal/app"
	"github.com/selenecli/selene/internal/config"
)

// globalFlags holds the parsed values of all persistent (global) flags.
// Commands read from this struct via the deps they receive.
var globalFlags struct {
	Lat      string
	Lon      string
	TZ       string
	City     string
	Region   string
	Format   string
	Out      string
	DB       string
	Interval time.Duration
	Quiet    bool
	Verbose  bool
	Debug    bool
}

// rootCmd is the base command. Running `selene` with no subcommand
// prints help.
var rootCmd = &cobra.Command{
	Use:   "selene",
	Short: "selene — lunar phase and position CLI",
	Long: `selene computes lunar phase and position data for an observer:
illumination fraction, moon age, rise/set/transit times, azimuth and
altitude, and the upcoming principal phase instants.

Quick start:
  selene config init                       # create a config.json with your location
  selene now --lat 51.5 --lon -0.1         # current phase + full attribute set
  selene times --tz Europe/London          # today's moonrise / moonset / transit
  selene watch --interval 5m --record      # poll and accumulate readings`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// buildDeps resolves config and constructs the dependency container.
// Called at the start of each command's RunE.
func buildDeps() (*app.Deps, error) {
	cfg, err := config.Load(config.Flags{
		City:      globalFlags.City,
		Region:    globalFlags.Region,
		Latitude:  globalFlags.Lat,
		Longitude: globalFlags.Lon,
		Timezone:  globalFlags.TZ,
		Format:    globalFlags.Format,
		DBPath:    globalFlags.DB,
		Interval:  globalFlags.Interval,
	})
	if err != nil {
		return nil, err
	}

	cfg.Quiet = globalFlags.Quiet
	cfg.Verbose = globalFlags.Verbose
	cfg.Debug = globalFlags.Debug
	if cfg.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	return app.New(cfg), nil
}

func init() {
	pf := rootCmd.PersistentFlags()

	pf.StringVar(&globalFlags.Lat, "lat", "",
		"observer latitude in decimal degrees (overrides env SELENE_LAT and config.json)")
	pf.StringVar(&globalFlags.Lon, "lon", "",
		"observer longitude in decimal degrees (overrides env SELENE_LON and config.json)")
	pf.StringVar(&globalFlags.TZ, "tz", "",
		"IANA timezone for local event times, e.g. Europe/London")
	pf.StringVar(&globalFlags.City, "city", "",
		"observer city label (display only)")
	pf.StringVar(&globalFlags.Region, "region", "",
		"observer region label (display only)")
	pf.StringVar(&globalFlags.Format, "format", "",
		"output format: table|json|jsonl|csv|tsv|md (default: table)")
	pf.StringVar(&globalFlags.Out, "out", "",
		"write output to file instead of stdout")
	pf.StringVar(&globalFlags.DB, "db", "",
		"path to the reading database (default: ~/.selene/selene.db)")
	pf.DurationVar(&globalFlags.Interval, "interval", 0,
		"refresh interval for watch (e.g. 30s, 5m; default: 1m)")
	pf.BoolVar(&globalFlags.Quiet, "quiet", false,
		"suppress all non-error output")
	pf.BoolVar(&globalFlags.Verbose, "verbose", false,
		"show timing stats after output")
	pf.BoolVar(&globalFlags.Debug, "debug", false,
		"log refresh cycles and engine queries")
}
