package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/selenecli/selene/internal/model"
	"github.com/selenecli/selene/internal/render"
)

var phasesFlags struct {
	At string
}

var phasesCmd = &cobra.Command{
	Use:   "phases",
	Short: "Show the current phase and upcoming principal phase instants",
	Long: `Shows the current phase name, moon age, illumination percentage and
the instants of the next full moon, new moon, third quarter and first
quarter.

Examples:
  selene phases
  selene phases --at 2026-10-01 --format json`,
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

		at, err := parseAtFlag(phasesFlags.At, loc.TZ)
		if err != nil {
			return err
		}

		start := time.Now()
		deps.State.RefreshIllumination(at)

		var pd model.PhasesData
		if name, ok := deps.State.PhaseName(); ok {
			pd.PhaseName = name
		}
		if v, ok := deps.State.MoonAge(); ok {
			pd.AgeDays = &v
		}
		if v, ok := deps.State.IlluminationFraction(); ok {
			pd.Illumination = &v
		}
		for _, np := range []struct {
			key  string
			dest **time.Time
		}{
			{model.NextKeyFullMoon, &pd.NextFull},
			{model.NextKeyNewMoon, &pd.NextNew},
			{model.NextKeyThirdQuarter, &pd.NextThird},
			{model.NextKeyFirstQuarter, &pd.NextFirst},
		} {
			when, err := deps.State.NextMoonPhase(np.key)
			if err != nil {
				return err
			}
			w := when
			*np.dest = &w
		}

		result := buildResult(model.KindPhases, "phases", &pd, 1, start)
		format := resolveFormat(deps.Config.Format)
		if err := render.RenderTo(globalFlags.Out, result, format); err != nil {
			return err
		}
		render.PrintFooter(cmd.OutOrStdout(), result, deps.Config.Verbose)
		return nil
	},
}

func init() {
	phasesCmd.Flags().StringVar(&phasesFlags.At, "at", "",
		"instant to compute for: RFC3339 or YYYY-MM-DD (default: now)")
	rootCmd.AddCommand(phasesCmd)
}
