package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/selenecli/selene/internal/render"
)

var nowFlags struct {
	Record bool
}

var nowCmd = &cobra.Command{
	Use:   "now",
	Short: "Run one full refresh cycle and print the reading",
	Long: `Runs a complete refresh cycle at the current instant: illumination,
position, event times, phase name and the published attribute set.

Examples:
  selene now --lat 51.5074 --lon -0.1278 --tz Europe/London
  selene now --format json
  selene now --record                  # also persist the reading`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		if err := deps.RequireLocation(); err != nil {
			return err
		}

		start := time.Now()
		if err := deps.State.Update(); err != nil {
			return fmt.Errorf("refresh cycle: %w", err)
		}
		reading, ok := deps.State.Reading()
		if !ok {
			return fmt.Errorf("refresh cycle produced no reading")
		}

		if nowFlags.Record {
			if err := deps.RequireStore(); err != nil {
				return err
			}
			if err := deps.Store.PutReading(reading); err != nil {
				return fmt.Errorf("recording reading: %w", err)
			}
		}

		result := buildReadingResult("now", &reading, start)
		format := resolveFormat(deps.Config.Format)
		if err := render.RenderTo(globalFlags.Out, result, format); err != nil {
			return err
		}
		render.PrintFooter(cmd.OutOrStdout(), result, deps.Config.Verbose)
		return nil
	},
}

func init() {
	nowCmd.Flags().BoolVar(&nowFlags.Record, "record", false,
		"persist the reading to the database")
	rootCmd.AddCommand(nowCmd)
}
