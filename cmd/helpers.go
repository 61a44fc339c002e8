package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/selenecli/selene/internal/model"
	"github.com/selenecli/selene/internal/render"
	"github.com/selenecli/selene/internal/util"
)

// resolveFormat returns the effective format string, falling back to "table".
func resolveFormat(cfgFormat string) string {
	if globalFlags.Format != "" {
		return globalFlags.Format
	}
	if cfgFormat != "" {
		return cfgFormat
	}
	return render.FormatTable
}

// parseAtFlag parses a --at value: either a full RFC3339 timestamp or a
// plain YYYY-MM-DD date (interpreted as local midnight in loc). An empty
// value means "now".
func parseAtFlag(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Now().In(loc), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), nil
	}
	d, err := util.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("--at: %q is neither RFC3339 nor YYYY-MM-DD", s)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc), nil
}

// printSimpleTable renders a simple table with headers using tablewriter.
// The fill callback is called with an append function for row values.
func printSimpleTable(w io.Writer, headers []string, fill func(add func(...string))) {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader(headers)
	tw.SetBorder(true)
	tw.SetRowLine(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAutoWrapText(false)

	fill(func(cols ...string) {
		tw.Append(cols)
	})
	tw.Render()
}

// buildResult wraps a payload in the standard Result envelope.
func buildResult(kind, command string, data interface{}, items int, start time.Time) *model.Result {
	return &model.Result{
		Kind:        kind,
		GeneratedAt: time.Now(),
		Command:     command,
		Data:        data,
		Stats: model.ResultStats{
			DurationMs: time.Since(start).Milliseconds(),
			Items:      items,
		},
	}
}

// buildReadingResult wraps a single reading in a Result envelope.
func buildReadingResult(command string, r *model.Reading, start time.Time) *model.Result {
	return buildResult(model.KindReading, command, r, 1, start)
}
