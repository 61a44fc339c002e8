package sensor_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/selenecli/selene/internal/model"
	"github.com/selenecli/selene/internal/moon"
	"github.com/selenecli/selene/internal/sensor"
	"github.com/selenecli/selene/internal/store"
)

// tickEngine returns a valid snapshot, except on cycles listed in bad,
// where the next-phase date is unparseable and the refresh cycle fails.
type tickEngine struct {
	cycle int
	bad   map[int]bool
}

func (e *tickEngine) Illumination(t time.Time) model.MoonIllumination {
	e.cycle++
	date := "2024-06-06T12:00:00.000Z"
	if e.bad[e.cycle] {
		date = "garbage"
	}
	pd := model.PhaseDate{Date: date}
	return model.MoonIllumination{
		Phase:      model.PhaseInfo{ID: model.PhaseFullMoon},
		PhaseValue: 0.5,
		Fraction:   1.0,
		Next:       model.NextPhases{NewMoon: pd, FullMoon: pd, FirstQuarter: pd, ThirdQuarter: pd},
	}
}

func (e *tickEngine) Position(t time.Time, lat, lon float64) model.MoonPosition {
	return model.MoonPosition{Distance: 384400}
}

func (e *tickEngine) Times(t time.Time, lat, lon float64) model.MoonTimes {
	return model.MoonTimes{}
}

// steppingClock returns a distinct instant per call so readings get
// distinct store keys.
func steppingClock() func() time.Time {
	base := time.Date(2024, 5, 23, 12, 0, 0, 0, time.UTC)
	n := 0
	return func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Minute)
	}
}

func locatedState(t *testing.T, eng moon.Engine) *moon.MoonState {
	t.Helper()
	st := moon.New("Testville", "TS", 40.7, -74.0, "UTC", eng, steppingClock())
	if _, err := st.SetLocation(); err != nil {
		t.Fatalf("SetLocation: %v", err)
	}
	return st
}

func TestPollerCount(t *testing.T) {
	st := locatedState(t, &tickEngine{})

	var readings []model.Reading
	p := sensor.New(st, sensor.Options{
		Interval:  time.Millisecond,
		Count:     3,
		OnReading: func(r model.Reading) { readings = append(readings, r) },
	})

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(readings) != 3 {
		t.Fatalf("expected 3 readings, got %d", len(readings))
	}
	for _, r := range readings {
		if r.PhaseName != model.PhaseFullMoon {
			t.Errorf("reading phase = %q", r.PhaseName)
		}
	}
	if !readings[1].TakenAt.After(readings[0].TakenAt) {
		t.Error("readings not taken at advancing instants")
	}
}

func TestPollerSurvivesFailedCycle(t *testing.T) {
	st := locatedState(t, &tickEngine{bad: map[int]bool{2: true}})

	var readings []model.Reading
	var failures []error
	p := sensor.New(st, sensor.Options{
		Interval:  time.Millisecond,
		Count:     3,
		OnReading: func(r model.Reading) { readings = append(readings, r) },
		OnError:   func(err error) { failures = append(failures, err) },
	})

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(failures) != 1 {
		t.Fatalf("expected 1 failed cycle, got %d", len(failures))
	}
	if len(readings) != 2 {
		t.Fatalf("expected 2 successful readings around the failure, got %d", len(readings))
	}
}

func TestPollerRecords(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	defer s.Close()

	st := locatedState(t, &tickEngine{})
	p := sensor.New(st, sensor.Options{
		Interval: time.Millisecond,
		Count:    3,
		Store:    s,
	})
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	readings, err := s.ListReadings(0)
	if err != nil {
		t.Fatalf("ListReadings: %v", err)
	}
	if len(readings) != 3 {
		t.Errorf("expected 3 recorded readings, got %d", len(readings))
	}
}

func TestPollerCancellation(t *testing.T) {
	st := locatedState(t, &tickEngine{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	p := sensor.New(st, sensor.Options{Interval: time.Hour})
	go func() { done <- p.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err == nil {
			t.Error("Run returned nil after cancellation")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("poller did not stop after cancellation")
	}
}
