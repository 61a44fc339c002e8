package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/selenecli/selene/internal/model"
	"github.com/selenecli/selene/internal/render"
)

var positionFlags struct {
	At string
}

var positionCmd = &cobra.Command{
	Use:   "position",
	Short: "Show the moon's topocentric position",
	Long: `Computes the moon's azimuth, altitude, parallactic angle and distance
for the configured observer. Angles are shown both in radians and degrees.

Examples:
  selene position --lat 40.7 --lon -74.0
  selene position --at 2026-09-01 --format json
  selene position --at 2026-09-01T22:30:00Z`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		if err := deps.RequireLocation(); err != nil {
			return err
		}
		loc, _ := deps.State.Location()

		at, err := parseAtFlag(positionFlags.At, loc.TZ)
		if err != nil {
			return err
		}

		start := time.Now()
		pos, err := deps.State.RefreshPosition(at)
		if err != nil {
			return err
		}

		result := buildResult(model.KindPosition, "position", &pos, 1, start)
		format := resolveFormat(deps.Config.Format)
		if err := render.RenderTo(globalFlags.Out, result, format); err != nil {
			return err
		}
		render.PrintFooter(cmd.OutOrStdout(), result, deps.Config.Verbose)
		return nil
	},
}

func init() {
	positionCmd.Flags().StringVar(&positionFlags.At, "at", "",
		"instant to compute for: RFC3339 or YYYY-MM-DD (default: now)")
	rootCmd.AddCommand(positionCmd)
}
