package chart_test

import (
	"strings"
	"testing"
	"time"

	"github.com/selenecli/selene/internal/chart"
	"github.com/selenecli/selene/internal/model"
)

// ─── Helpers ──────────────────────────────────────────────────────────────────

// forecast builds daily forecast points starting at the given date, one per
// illumination value.
func forecast(start string, phase string, values ...float64) []model.ForecastPoint {
	t, err := time.Parse("2006-01-02", start)
	if err != nil {
		panic("forecast: bad date: " + start)
	}
	out := make([]model.ForecastPoint, len(values))
	for i, v := range values {
		out[i] = model.ForecastPoint{
			Date:         t.AddDate(0, 0, i),
			PhaseName:    phase,
			Illumination: v,
		}
	}
	return out
}

// ─── Bar tests ────────────────────────────────────────────────────────────────

func TestBarBasic(t *testing.T) {
	points := forecast("2024-05-20", model.PhaseWaxingGibbous, 80.1, 89.5, 96.2, 99.8)
	var buf strings.Builder
	if err := chart.Bar(&buf, points, chart.BarOptions{Width: 70}); err != nil {
		t.Fatalf("Bar returned error: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "2024-05-20") {
		t.Error("output missing first date label")
	}
	if !strings.Contains(out, "2024-05-23") {
		t.Error("output missing last date label")
	}
	if !strings.Contains(out, model.PhaseWaxingGibbous) {
		t.Error("output missing phase name")
	}
	if !strings.Contains(out, "█") {
		t.Error("output contains no bars")
	}
	// header + one line per day
	if lines := strings.Count(strings.TrimRight(out, "\n"), "\n") + 1; lines != 5 {
		t.Errorf("expected 5 output lines, got %d", lines)
	}
}

func TestBarScalesToPercentage(t *testing.T) {
	points := forecast("2024-05-20", "x", 100, 50)
	var buf strings.Builder
	if err := chart.Bar(&buf, points, chart.BarOptions{Width: 70}); err != nil {
		t.Fatalf("Bar: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	full := strings.Count(lines[1], "█")
	half := strings.Count(lines[2], "█")
	if full <= half {
		t.Errorf("full moon bar (%d) not longer than half (%d)", full, half)
	}
	if half == 0 {
		t.Error("50%% illumination rendered an empty bar")
	}
}

func TestBarEmpty(t *testing.T) {
	var buf strings.Builder
	if err := chart.Bar(&buf, nil, chart.BarOptions{}); err == nil {
		t.Error("Bar accepted an empty forecast")
	}
}

// ─── Plot tests ───────────────────────────────────────────────────────────────

func TestPlotBasic(t *testing.T) {
	points := forecast("2024-05-10", "x",
		2, 8, 18, 30, 44, 58, 72, 84, 93, 99, 100, 97, 90, 80)
	var buf strings.Builder
	if err := chart.Plot(&buf, points, chart.PlotOptions{Width: 60, Height: 10}); err != nil {
		t.Fatalf("Plot returned error: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "2024-05-10") {
		t.Error("output missing start date")
	}
	if !strings.Contains(out, "└") {
		t.Error("output missing bottom axis")
	}
	if !strings.Contains(out, "100") || !strings.Contains(out, "0") {
		t.Error("output missing percentage ticks")
	}
}

func TestPlotTooFewPoints(t *testing.T) {
	var buf strings.Builder
	if err := chart.Plot(&buf, forecast("2024-05-10", "x", 50), chart.PlotOptions{}); err == nil {
		t.Error("Plot accepted a single point")
	}
}

func TestPlotHeight(t *testing.T) {
	points := forecast("2024-05-10", "x", 10, 40, 80, 100, 80, 40, 10)
	var buf strings.Builder
	if err := chart.Plot(&buf, points, chart.PlotOptions{Width: 50, Height: 8}); err != nil {
		t.Fatalf("Plot: %v", err)
	}
	// header + 8 body rows + axis + labels
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 11 {
		t.Errorf("expected 11 output lines, got %d", len(lines))
	}
}
