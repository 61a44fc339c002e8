// Package render converts Result values into human-readable or machine-parseable
// output. Each format is a separate function; the top-level Render dispatcher
// selects based on the format string.
package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/selenecli/selene/internal/model"
)

// Format constants matching --format flag values.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
	FormatCSV   = "csv"
	FormatTSV   = "tsv"
	FormatMD    = "md"
)

// timeLayout is the display format for attribute timestamps.
const timeLayout = "2006-01-02 15:04:05"

// Render writes result to w in the specified format.
func Render(w io.Writer, result *model.Result, format string) error {
	switch format {
	case FormatJSON:
		return renderJSON(w, result)
	case FormatJSONL:
		return renderJSONL(w, result)
	case FormatCSV:
		return renderDelimited(w, result, ',')
	case FormatTSV:
		return renderDelimited(w, result, '\t')
	case FormatMD:
		return renderMarkdown(w, result)
	default:
		return renderTable(w, result)
	}
}

// RenderTo writes to stdout by default; if path is non-empty, writes to file.
func RenderTo(path string, result *model.Result, format string) error {
	if path == "" {
		return Render(os.Stdout, result, format)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()
	return Render(f, result, format)
}

// ─── JSON ─────────────────────────────────────────────────────────────────────

func renderJSON(w io.Writer, result *model.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// ─── JSONL ────────────────────────────────────────────────────────────────────

func renderJSONL(w io.Writer, result *model.Result) error {
	enc := json.NewEncoder(w)
	switch result.Kind {
	case model.KindReadingList:
		readings, ok := result.Data.([]model.Reading)
		if !ok {
			return enc.Encode(result.Data)
		}
		for _, r := range readings {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return nil
	case model.KindForecast:
		points, ok := result.Data.([]model.ForecastPoint)
		if !ok {
			return enc.Encode(result.Data)
		}
		for _, p := range points {
			if err := enc.Encode(p); err != nil {
				return err
			}
		}
		return nil
	default:
		return enc.Encode(result.Data)
	}
}

// ─── Table ────────────────────────────────────────────────────────────────────

func renderTable(w io.Writer, result *model.Result) error {
	switch result.Kind {
	case model.KindReading:
		r, ok := result.Data.(*model.Reading)
		if !ok {
			return fmt.Errorf("unexpected data type for reading")
		}
		return renderReadingTable(w, r)
	case model.KindReadingList:
		readings, ok := result.Data.([]model.Reading)
		if !ok {
			return fmt.Errorf("unexpected data type for reading_list")
		}
		return renderReadingListTable(w, readings)
	case model.KindPosition:
		p, ok := result.Data.(*model.MoonPosition)
		if !ok {
			return fmt.Errorf("unexpected data type for position")
		}
		return renderPositionTable(w, p)
	case model.KindTimes:
		mt, ok := result.Data.(*model.MoonTimes)
		if !ok {
			return fmt.Errorf("unexpected data type for times")
		}
		return renderTimesTable(w, mt)
	case model.KindPhases:
		pd, ok := result.Data.(*model.PhasesData)
		if !ok {
			return fmt.Errorf("unexpected data type for phases")
		}
		return renderPhasesTable(w, pd)
	case model.KindForecast:
		points, ok := result.Data.([]model.ForecastPoint)
		if !ok {
			return fmt.Errorf("unexpected data type for forecast")
		}
		return renderForecastTable(w, points)
	default:
		// Fallback: JSON
		return renderJSON(w, result)
	}
}

func newKVTable(w io.Writer) *tablewriter.Table {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader([]string{"ATTRIBUTE", "VALUE"})
	tw.SetBorder(true)
	tw.SetRowLine(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAutoWrapText(false)
	return tw
}

// readingRows flattens a reading into attribute rows in the canonical
// schema order, with absent values shown as "-".
func readingRows(r *model.Reading) [][]string {
	a := r.Attributes
	return [][]string{
		{"phase", r.PhaseName},
		{"taken_at", r.TakenAt.Format(timeLayout)},
		{model.AttrAge, optFloat(a.Age)},
		{model.AttrDistanceKm, optFloat(a.DistanceKm)},
		{model.AttrAzimuth, optFloat(a.Azimuth)},
		{model.AttrAltitude, optFloat(a.Altitude)},
		{model.AttrParallacticAngle, optFloat(a.ParallacticAngle)},
		{model.AttrIlluminationFraction, optFloat(a.IlluminationFraction)},
		{model.AttrNextFull, optTime(a.NextFull)},
		{model.AttrNextNew, optTime(a.NextNew)},
		{model.AttrNextThird, optTime(a.NextThird)},
		{model.AttrNextFirst, optTime(a.NextFirst)},
		{model.AttrNextRise, optTime(a.NextRise)},
		{model.AttrNextSet, optTime(a.NextSet)},
		{model.AttrNextHigh, optTime(a.NextHigh)},
	}
}

func renderReadingTable(w io.Writer, r *model.Reading) error {
	tw := newKVTable(w)
	for _, row := range readingRows(r) {
		tw.Append(row)
	}
	tw.Render()
	return nil
}

func renderReadingListTable(w io.Writer, readings []model.Reading) error {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader([]string{"TAKEN AT", "PHASE", "AGE", "ILLUM %", "DISTANCE KM"})
	tw.SetBorder(true)
	tw.SetRowLine(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
	})
	tw.SetAutoWrapText(false)

	for _, r := range readings {
		tw.Append([]string{
			r.TakenAt.Format(timeLayout),
			r.PhaseName,
			optFloat(r.Attributes.Age),
			optFloat(r.Attributes.IlluminationFraction),
			optFloat(r.Attributes.DistanceKm),
		})
	}
	tw.Render()
	return nil
}

func renderPositionTable(w io.Writer, p *model.MoonPosition) error {
	tw := newKVTable(w)
	rows := [][]string{
		{model.PosDistance, formatFloat(p.Distance)},
		{model.PosAzimuth, formatFloat(p.Azimuth)},
		{model.PosAzimuthDegrees, formatFloat(p.AzimuthDegrees)},
		{model.PosAltitude, formatFloat(p.Altitude)},
		{model.PosAltitudeDegrees, formatFloat(p.AltitudeDegrees)},
		{model.PosParallacticAngle, formatFloat(p.ParallacticAngle)},
		{model.PosParallacticAngleDegrees, formatFloat(p.ParallacticAngleDegrees)},
	}
	for _, r := range rows {
		tw.Append(r)
	}
	tw.Render()
	return nil
}

func renderTimesTable(w io.Writer, mt *model.MoonTimes) error {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader([]string{"EVENT", "TIME"})
	tw.SetBorder(true)
	tw.SetRowLine(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAutoWrapText(false)

	for _, ev := range []string{model.EventRise, model.EventSet, model.EventHighest} {
		val := "-"
		if when, ok := mt.Event(ev); ok {
			val = when.Format(timeLayout)
		}
		tw.Append([]string{ev, val})
	}
	tw.Render()

	if mt.AlwaysUp {
		fmt.Fprintln(w, "moon is above the horizon all day")
	}
	if mt.AlwaysDown {
		fmt.Fprintln(w, "moon is below the horizon all day")
	}
	return nil
}

func renderPhasesTable(w io.Writer, pd *model.PhasesData) error {
	tw := newKVTable(w)
	rows := [][]string{
		{"phase", pd.PhaseName},
		{"age_days", optFloat(pd.AgeDays)},
		{model.AttrIlluminationFraction, optFloat(pd.Illumination)},
		{model.AttrNextFull, optTime(pd.NextFull)},
		{model.AttrNextNew, optTime(pd.NextNew)},
		{model.AttrNextThird, optTime(pd.NextThird)},
		{model.AttrNextFirst, optTime(pd.NextFirst)},
	}
	for _, r := range rows {
		tw.Append(r)
	}
	tw.Render()
	return nil
}

func renderForecastTable(w io.Writer, points []model.ForecastPoint) error {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader([]string{"DATE", "PHASE", "ILLUM %"})
	tw.SetBorder(true)
	tw.SetRowLine(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
	})
	tw.SetAutoWrapText(false)

	for _, p := range points {
		tw.Append([]string{
			p.Date.Format("2006-01-02"),
			p.PhaseName,
			formatFloat(p.Illumination),
		})
	}
	tw.Render()
	return nil
}

// ─── CSV / TSV ────────────────────────────────────────────────────────────────

func renderDelimited(w io.Writer, result *model.Result, sep rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = sep

	switch result.Kind {
	case model.KindReading:
		r, ok := result.Data.(*model.Reading)
		if !ok {
			return fmt.Errorf("unexpected data type for reading")
		}
		_ = cw.Write([]string{"attribute", "value"})
		for _, row := range readingRows(r) {
			_ = cw.Write(row)
		}
	case model.KindReadingList:
		readings, ok := result.Data.([]model.Reading)
		if !ok {
			return fmt.Errorf("unexpected data type for reading_list")
		}
		_ = cw.Write([]string{"taken_at", "phase", "age", "illumination_fraction", "distance_km"})
		for _, r := range readings {
			_ = cw.Write([]string{
				r.TakenAt.Format(time.RFC3339),
				r.PhaseName,
				optFloat(r.Attributes.Age),
				optFloat(r.Attributes.IlluminationFraction),
				optFloat(r.Attributes.DistanceKm),
			})
		}
	case model.KindForecast:
		points, ok := result.Data.([]model.ForecastPoint)
		if !ok {
			return fmt.Errorf("unexpected data type for forecast")
		}
		_ = cw.Write([]string{"date", "phase", "illumination_fraction"})
		for _, p := range points {
			_ = cw.Write([]string{
				p.Date.Format("2006-01-02"),
				p.PhaseName,
				formatFloat(p.Illumination),
			})
		}
	default:
		// Fallback: serialize as JSON on a single line
		b, _ := json.Marshal(result.Data)
		_ = cw.Write([]string{string(b)})
	}

	cw.Flush()
	return cw.Error()
}

// ─── Markdown ─────────────────────────────────────────────────────────────────

func renderMarkdown(w io.Writer, result *model.Result) error {
	switch result.Kind {
	case model.KindReading:
		r, ok := result.Data.(*model.Reading)
		if !ok {
			return renderJSON(w, result)
		}
		fmt.Fprintf(w, "| ATTRIBUTE | VALUE |\n|-----------|-------|\n")
		for _, row := range readingRows(r) {
			fmt.Fprintf(w, "| %s | %s |\n", row[0], row[1])
		}
		return nil
	case model.KindReadingList:
		readings, ok := result.Data.([]model.Reading)
		if !ok {
			return renderJSON(w, result)
		}
		fmt.Fprintf(w, "| TAKEN AT | PHASE | AGE | ILLUM %% |\n|----|----|----|----|\n")
		for _, r := range readings {
			fmt.Fprintf(w, "| %s | %s | %s | %s |\n",
				r.TakenAt.Format(timeLayout), r.PhaseName,
				optFloat(r.Attributes.Age), optFloat(r.Attributes.IlluminationFraction))
		}
		return nil
	default:
		return renderJSON(w, result)
	}
}

// ─── Warnings / Stats Footer ─────────────────────────────────────────────────

// PrintFooter writes warnings and stats to w when verbose mode is on.
func PrintFooter(w io.Writer, result *model.Result, verbose bool) {
	for _, warn := range result.Warnings {
		fmt.Fprintf(w, "⚠  %s\n", warn)
	}
	if verbose {
		fmt.Fprintf(w, "\n[%s • %d items • %dms]\n",
			result.GeneratedAt.Format(time.RFC3339),
			result.Stats.Items,
			result.Stats.DurationMs,
		)
	}
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// formatFloat formats a value for display. Always shows at least one decimal
// place (e.g. 4.0, not 4) and trims trailing zeros beyond the first.
func formatFloat(v float64) string {
	s := strings.TrimRight(fmt.Sprintf("%.6f", v), "0")
	if strings.HasSuffix(s, ".") {
		s += "0" // "4." → "4.0"
	}
	return s
}

// optFloat renders an optional value, "-" when absent.
func optFloat(v *float64) string {
	if v == nil {
		return "-"
	}
	return formatFloat(*v)
}

// optTime renders an optional timestamp, "-" when absent.
func optTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(timeLayout)
}
