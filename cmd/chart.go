package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/selenecli/selene/internal/chart"
	"github.com/selenecli/selene/internal/model"
	"github.com/selenecli/selene/internal/render"
)

var chartFlags struct {
	Days   int
	At     string
	Plot   bool
	Width  int
	Height int
}

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Chart the illumination forecast",
	Long: `Computes an illumination forecast, one point per day at local noon,
and renders it as a bar chart (default) or a line plot. Non-table
formats emit the raw forecast points instead of a chart.

Examples:
  selene chart --days 30
  selene chart --days 60 --plot
  selene chart --at 2026-10-01 --days 14
  selene chart --days 30 --format csv > forecast.csv`,
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

		if chartFlags.Days < 1 {
			return fmt.Errorf("--days must be at least 1")
		}

		from, err := parseAtFlag(chartFlags.At, loc.TZ)
		if err != nil {
			return err
		}

		start := time.Now()
		points := buildForecast(deps.State, from, chartFlags.Days)

		format := resolveFormat(deps.Config.Format)
		if format != render.FormatTable {
			result := buildResult(model.KindForecast, "chart", points, len(points), start)
			if err := render.RenderTo(globalFlags.Out, result, format); err != nil {
				return err
			}
			render.PrintFooter(cmd.OutOrStdout(), result, deps.Config.Verbose)
			return nil
		}

		w, done, err := chartWriter(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer done()

		if chartFlags.Plot {
			return chart.Plot(w, points, chart.PlotOptions{
				Width:  chartFlags.Width,
				Height: chartFlags.Height,
			})
		}
		return chart.Bar(w, points, chart.BarOptions{Width: chartFlags.Width})
	},
}

// illuminator is the slice of MoonState the forecast needs.
type illuminator interface {
	RefreshIllumination(time.Time) model.MoonIllumination
}

// buildForecast samples illumination once per day at local noon, starting
// on the day containing from.
func buildForecast(state illuminator, from time.Time, days int) []model.ForecastPoint {
	noon := time.Date(from.Year(), from.Month(), from.Day(), 12, 0, 0, 0, from.Location())
	points := make([]model.ForecastPoint, 0, days)
	for i := 0; i < days; i++ {
		at := noon.AddDate(0, 0, i)
		ill := state.RefreshIllumination(at)
		points = append(points, model.ForecastPoint{
			Date:         at,
			PhaseName:    ill.Phase.ID,
			Illumination: ill.Fraction * 100,
		})
	}
	return points
}

// chartWriter honors --out for chart output, which bypasses the render
// dispatcher.
func chartWriter(fallback io.Writer) (io.Writer, func(), error) {
	if globalFlags.Out == "" {
		return fallback, func() {}, nil
	}
	f, err := os.Create(globalFlags.Out)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func init() {
	chartCmd.Flags().IntVar(&chartFlags.Days, "days", 30,
		"number of days to forecast")
	chartCmd.Flags().StringVar(&chartFlags.At, "at", "",
		"first day of the forecast: RFC3339 or YYYY-MM-DD (default: today)")
	chartCmd.Flags().BoolVar(&chartFlags.Plot, "plot", false,
		"render a line plot instead of a bar chart")
	chartCmd.Flags().IntVar(&chartFlags.Width, "width", 0,
		"chart width in columns (default: terminal width)")
	chartCmd.Flags().IntVar(&chartFlags.Height, "height", 0,
		"plot height in rows")
	rootCmd.AddCommand(chartCmd)
}
