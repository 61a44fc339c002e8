// Package chart provides ASCII terminal chart rendering for the
// illumination forecast. Two renderers are available:
//
//   - Bar: horizontal bar chart, one bar per day, with the phase name
//     alongside each bar
//   - Plot: multi-line ASCII chart of the illumination curve
//
// Illumination is a percentage, so both renderers use a fixed 0–100 scale
// and require no external dependencies beyond the Go standard library.
package chart

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/selenecli/selene/internal/model"
)

const dateLayout = "2006-01-02"

// ─── Bar ─────────────────────────────────────────────────────────────────────

// BarOptions controls horizontal bar chart rendering.
type BarOptions struct {
	// Width is the total character width available for the chart.
	// If 0, auto-detects from $COLUMNS, falls back to 80.
	Width int
}

// Bar renders a horizontal bar chart of the forecast to w, one bar per day.
//
// Output example:
//
//	illumination %  2024-05-20 – 2024-05-27
//	2024-05-20   89.1  waxing_gibbous  ██████████████████████████▋
//	2024-05-23  100.0  full_moon       ██████████████████████████████
func Bar(w io.Writer, points []model.ForecastPoint, opts BarOptions) error {
	if len(points) == 0 {
		return fmt.Errorf("chart bar: no forecast points to render")
	}

	totalWidth := opts.Width
	if totalWidth <= 0 {
		totalWidth = termWidth()
	}

	phaseWidth := 0
	for _, p := range points {
		if l := len(p.PhaseName); l > phaseWidth {
			phaseWidth = l
		}
	}

	// value label is at most "100.0"
	const valWidth = 5

	dateWidth := len(dateLayout)
	barAreaWidth := totalWidth - dateWidth - valWidth - phaseWidth - 6
	if barAreaWidth < 10 {
		barAreaWidth = 10
	}

	first := points[0].Date.Format(dateLayout)
	last := points[len(points)-1].Date.Format(dateLayout)
	fmt.Fprintf(w, "illumination %%  %s – %s\n", first, last)

	for _, p := range points {
		frac := p.Illumination / 100
		if frac < 0 {
			frac = 0
		}
		if frac > 1 {
			frac = 1
		}
		barLen := int(math.Round(frac * float64(barAreaWidth)))
		if barLen < 1 && p.Illumination > 0 {
			barLen = 1
		}
		fmt.Fprintf(w, "%-*s  %*s  %-*s  %s\n",
			dateWidth, p.Date.Format(dateLayout),
			valWidth, strconv.FormatFloat(p.Illumination, 'f', 1, 64),
			phaseWidth, p.PhaseName,
			strings.Repeat("█", barLen),
		)
	}
	return nil
}

// ─── Plot ─────────────────────────────────────────────────────────────────────

// PlotOptions controls multi-line ASCII plot rendering.
type PlotOptions struct {
	// Width is the total character width of the chart (including Y-axis label).
	// If 0, auto-detects from $COLUMNS, falls back to 80.
	Width int
	// Height is the number of data rows in the chart body. If 0, defaults to 12.
	Height int
}

// Plot renders the illumination curve as a multi-line ASCII chart.
func Plot(w io.Writer, points []model.ForecastPoint, opts PlotOptions) error {
	if len(points) < 2 {
		return fmt.Errorf("chart plot: need at least 2 forecast points (got %d)", len(points))
	}

	width := opts.Width
	if width <= 0 {
		width = termWidth()
	}
	height := opts.Height
	if height <= 0 {
		height = 12
	}

	// Fixed percentage scale keeps successive charts comparable.
	const minVal, maxVal = 0.0, 100.0
	ticks := []float64{0, 25, 50, 75, 100}
	yLabelWidth := len("100")
	yAxisWidth := yLabelWidth + 1

	plotWidth := width - yAxisWidth
	if plotWidth < 10 {
		plotWidth = 10
	}

	cols := sampleCols(points, plotWidth)
	grid := buildGrid(cols, minVal, maxVal, height)

	fmt.Fprintf(w, "illumination %%  (%s to %s)\n",
		points[0].Date.Format(dateLayout),
		points[len(points)-1].Date.Format(dateLayout))

	for row := 0; row < height; row++ {
		label := ""
		for _, t := range ticks {
			if math.Abs(rowForValue(t, minVal, maxVal, height)-float64(row)) < 0.5 {
				label = strconv.FormatFloat(t, 'f', -1, 64)
				break
			}
		}
		axisCh := "┤"
		if label == "" {
			axisCh = " "
		}
		fmt.Fprintf(w, "%*s%s%s\n", yLabelWidth, label, axisCh, string(grid[row]))
	}

	fmt.Fprintf(w, "%s└%s\n", strings.Repeat(" ", yLabelWidth), strings.Repeat("─", plotWidth))
	fmt.Fprintf(w, "%s %s\n", strings.Repeat(" ", yLabelWidth), xAxisLabels(points, plotWidth))
	return nil
}

// ─── Grid building ────────────────────────────────────────────────────────────

// sampleCols reduces points to exactly n columns, each column holding the
// average illumination of its bucket.
func sampleCols(points []model.ForecastPoint, n int) []float64 {
	total := len(points)
	cols := make([]float64, n)
	for col := 0; col < n; col++ {
		lo := col * total / n
		hi := (col+1)*total/n - 1
		if hi >= total {
			hi = total - 1
		}
		// More columns than points leaves empty buckets; reuse the
		// nearest point.
		if hi < lo {
			hi = lo
		}
		sum, count := 0.0, 0
		for i := lo; i <= hi; i++ {
			sum += points[i].Illumination
			count++
		}
		cols[col] = sum / float64(count)
	}
	return cols
}

// rowForValue returns the float row index (0=top=max) for a given value.
func rowForValue(v, minVal, maxVal float64, height int) float64 {
	return (maxVal - v) / (maxVal - minVal) * float64(height-1)
}

// buildGrid renders columns into a height×width rune grid using
// box-drawing characters to connect adjacent data points.
func buildGrid(cols []float64, minVal, maxVal float64, height int) [][]rune {
	grid := make([][]rune, height)
	for r := range grid {
		grid[r] = make([]rune, len(cols))
		for c := range grid[r] {
			grid[r][c] = ' '
		}
	}

	rowOf := make([]int, len(cols))
	for col, v := range cols {
		r := int(math.Round(rowForValue(v, minVal, maxVal, height)))
		if r < 0 {
			r = 0
		}
		if r >= height {
			r = height - 1
		}
		rowOf[col] = r
	}

	for col := 0; col < len(cols); col++ {
		r := rowOf[col]

		prevRow := -1
		if col > 0 {
			prevRow = rowOf[col-1]
		}
		nextRow := -1
		if col < len(cols)-1 {
			nextRow = rowOf[col+1]
		}

		switch {
		case (prevRow < 0 || prevRow == r) && (nextRow < 0 || nextRow == r):
			grid[r][col] = '─'
		case prevRow >= 0 && prevRow < r && nextRow >= 0 && nextRow < r:
			grid[r][col] = '─'
		case prevRow >= 0 && prevRow > r && nextRow >= 0 && nextRow > r:
			grid[r][col] = '─'
		case (prevRow < 0 || prevRow < r) && nextRow >= 0 && nextRow > r:
			grid[r][col] = '╮'
		case (prevRow < 0 || prevRow > r) && nextRow >= 0 && nextRow < r:
			grid[r][col] = '╯'
		case prevRow >= 0 && prevRow < r && (nextRow < 0 || nextRow > r):
			grid[r][col] = '╭'
		case prevRow >= 0 && prevRow > r && (nextRow < 0 || nextRow < r):
			grid[r][col] = '╰'
		default:
			grid[r][col] = '│'
		}

		// Fill vertical connectors between this row and the previous column's row
		if prevRow >= 0 && prevRow != r {
			lo, hi := r, prevRow
			if lo > hi {
				lo, hi = hi, lo
			}
			for fill := lo + 1; fill < hi; fill++ {
				if grid[fill][col] == ' ' {
					grid[fill][col] = '│'
				}
			}
		}
	}

	return grid
}

// ─── Axis helpers ─────────────────────────────────────────────────────────────

// xAxisLabels builds a padded string with start, middle, and end date labels.
func xAxisLabels(points []model.ForecastPoint, plotWidth int) string {
	startLabel := points[0].Date.Format(dateLayout)
	endLabel := points[len(points)-1].Date.Format(dateLayout)
	midLabel := points[len(points)/2].Date.Format(dateLayout)

	midPos := plotWidth/2 - len(midLabel)/2
	endPos := plotWidth - len(endLabel)

	buf := []rune(strings.Repeat(" ", plotWidth))
	writeAt := func(pos int, s string) {
		for i, ch := range s {
			if pos+i >= 0 && pos+i < len(buf) {
				buf[pos+i] = ch
			}
		}
	}

	writeAt(0, startLabel)
	writeAt(midPos, midLabel)
	writeAt(endPos, endLabel)
	return string(buf)
}

// ─── Utilities ────────────────────────────────────────────────────────────────

// termWidth returns the terminal width from $COLUMNS, defaulting to 80.
func termWidth() int {
	if cols := os.Getenv("COLUMNS"); cols != "" {
		if n, err := strconv.Atoi(cols); err == nil && n > 20 {
			return n
		}
	}
	return 80
}
