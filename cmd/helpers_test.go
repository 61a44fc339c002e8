package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/selenecli/selene/internal/model"
)

func TestResolveFormatPrecedence(t *testing.T) {
	globalFlags.Format = ""
	if got := resolveFormat(""); got != "table" {
		t.Fatalf("default format = %q, want table", got)
	}
	if got := resolveFormat("json"); got != "json" {
		t.Fatalf("config format = %q, want json", got)
	}

	globalFlags.Format = "csv"
	t.Cleanup(func() { globalFlags.Format = "" })
	if got := resolveFormat("json"); got != "csv" {
		t.Fatalf("flag should win over config, got %q", got)
	}
}

func TestParseAtFlag(t *testing.T) {
	loc := time.FixedZone("TST", 3600)

	got, err := parseAtFlag("2026-09-01", loc)
	if err != nil {
		t.Fatalf("date form: %v", err)
	}
	want := time.Date(2026, 9, 1, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("date form = %v, want local midnight %v", got, want)
	}

	got, err = parseAtFlag("2026-09-01T22:30:00Z", loc)
	if err != nil {
		t.Fatalf("RFC3339 form: %v", err)
	}
	if !got.Equal(time.Date(2026, 9, 1, 22, 30, 0, 0, time.UTC)) {
		t.Fatalf("RFC3339 form = %v", got)
	}
	if got.Location() != loc {
		t.Fatalf("RFC3339 form should be returned in the observer zone")
	}

	if _, err := parseAtFlag("tomorrow", loc); err == nil {
		t.Fatal("expected error for unparseable value")
	}

	before := time.Now()
	got, err = parseAtFlag("", loc)
	if err != nil {
		t.Fatalf("empty form: %v", err)
	}
	if got.Before(before.Add(-time.Minute)) {
		t.Fatalf("empty form should mean now, got %v", got)
	}
}

func TestChartWriterDefault(t *testing.T) {
	globalFlags.Out = ""
	w, done, err := chartWriter(os.Stdout)
	if err != nil {
		t.Fatalf("chartWriter default: %v", err)
	}
	done()
	if w != os.Stdout {
		t.Fatal("expected stdout passthrough")
	}
}

func TestChartWriterFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "out.txt")
	globalFlags.Out = p
	t.Cleanup(func() { globalFlags.Out = "" })

	w, done, err := chartWriter(os.Stdout)
	if err != nil {
		t.Fatalf("chartWriter file: %v", err)
	}
	if w == os.Stdout {
		t.Fatal("expected file writer, got stdout")
	}
	done()
	if _, err := os.Stat(p); err != nil {
		t.Fatalf("expected output file to exist: %v", err)
	}
}

// noonIlluminator records the instants it was asked about.
type noonIlluminator struct {
	asked []time.Time
}

func (n *noonIlluminator) RefreshIllumination(t time.Time) model.MoonIllumination {
	n.asked = append(n.asked, t)
	return model.MoonIllumination{
		Phase:    model.PhaseInfo{ID: model.PhaseFullMoon},
		Fraction: 0.5,
	}
}

func TestBuildForecast(t *testing.T) {
	loc := time.FixedZone("TST", -5*3600)
	from := time.Date(2026, 9, 1, 18, 45, 0, 0, loc)

	eng := &noonIlluminator{}
	points := buildForecast(eng, from, 3)

	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	for i, at := range eng.asked {
		if at.Hour() != 12 || at.Minute() != 0 {
			t.Errorf("sample %d not at local noon: %v", i, at)
		}
		if at.Location() != loc {
			t.Errorf("sample %d not in observer zone", i)
		}
	}
	if eng.asked[1].Sub(eng.asked[0]) != 24*time.Hour {
		t.Errorf("samples not one day apart: %v", eng.asked[1].Sub(eng.asked[0]))
	}
	for _, p := range points {
		if p.Illumination != 50 {
			t.Errorf("illumination = %v, want percentage 50", p.Illumination)
		}
		if p.PhaseName != model.PhaseFullMoon {
			t.Errorf("phase = %q", p.PhaseName)
		}
	}
}
