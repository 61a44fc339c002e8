package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/selenecli/selene/internal/model"
	"github.com/selenecli/selene/internal/render"
)

var timesFlags struct {
	At string
}

var timesCmd = &cobra.Command{
	Use:   "times",
	Short: "Show moonrise, moonset and highest transit for a local day",
	Long: `Computes the moon's rise, set and highest-transit instants for the
observer's local day. Any event may be absent: at high latitudes the
moon can stay above or below the horizon for the whole day, which is
reported as a note rather than an error.

Examples:
  selene times --tz America/New_York
  selene times --at 2026-12-24
  selene times --lat 69.6 --lon 18.9 --tz Europe/Oslo   # polar latitudes`,
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

		at, err := parseAtFlag(timesFlags.At, loc.TZ)
		if err != nil {
			return err
		}

		start := time.Now()
		mt, err := deps.State.RefreshTimes(at)
		if err != nil {
			return err
		}

		result := buildResult(model.KindTimes, "times", &mt, 1, start)
		format := resolveFormat(deps.Config.Format)
		if err := render.RenderTo(globalFlags.Out, result, format); err != nil {
			return err
		}
		render.PrintFooter(cmd.OutOrStdout(), result, deps.Config.Verbose)
		return nil
	},
}

func init() {
	timesCmd.Flags().StringVar(&timesFlags.At, "at", "",
		"local day to compute for: RFC3339 or YYYY-MM-DD (default: today)")
	rootCmd.AddCommand(timesCmd)
}
