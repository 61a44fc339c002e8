package astro_test

import (
	"math"
	"testing"
	"time"

	"github.com/selenecli/selene/internal/astro"
	"github.com/selenecli/selene/internal/model"
)

func TestPhaseID(t *testing.T) {
	cases := []struct {
		value float64
		want  string
	}{
		{0, model.PhaseNewMoon},
		{0.005, model.PhaseNewMoon},
		{0.995, model.PhaseNewMoon},
		{0.10, model.PhaseWaxingCrescent},
		{0.25, model.PhaseFirstQuarter},
		{0.26, model.PhaseFirstQuarter},
		{0.35, model.PhaseWaxingGibbous},
		{0.50, model.PhaseFullMoon},
		{0.60, model.PhaseWaningGibbous},
		{0.75, model.PhaseThirdQuarter},
		{0.90, model.PhaseWaningCrescent},
		{1.25, model.PhaseFirstQuarter},
	}
	for _, tc := range cases {
		if got := astro.PhaseID(tc.value); got != tc.want {
			t.Errorf("PhaseID(%v) = %q, want %q", tc.value, got, tc.want)
		}
	}
}

func TestIllumination(t *testing.T) {
	eng := astro.New()
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	ill := eng.Illumination(now)

	if ill.Fraction < 0 || ill.Fraction > 1 {
		t.Errorf("fraction %v out of [0,1]", ill.Fraction)
	}
	if ill.PhaseValue < 0 || ill.PhaseValue >= 1 {
		t.Errorf("phase value %v out of [0,1)", ill.PhaseValue)
	}
	if want := astro.PhaseID(ill.PhaseValue); ill.Phase.ID != want {
		t.Errorf("phase id %q does not match phase value %v (want %q)", ill.Phase.ID, ill.PhaseValue, want)
	}

	for _, key := range []string{
		model.NextKeyNewMoon, model.NextKeyFullMoon,
		model.NextKeyFirstQuarter, model.NextKeyThirdQuarter,
	} {
		raw, ok := ill.Next.Date(key)
		if !ok {
			t.Fatalf("next phase %q missing", key)
		}
		when, err := time.Parse("2006-01-02T15:04:05.000Z07:00", raw)
		if err != nil {
			t.Fatalf("next phase %q date %q: %v", key, raw, err)
		}
		if !when.After(now) {
			t.Errorf("next phase %q = %v, not after %v", key, when, now)
		}
		if when.Sub(now) > 31*24*time.Hour {
			t.Errorf("next phase %q = %v, more than a lunation away", key, when)
		}
	}
}

func TestPosition(t *testing.T) {
	eng := astro.New()
	now := time.Date(2024, 3, 10, 22, 0, 0, 0, time.UTC)

	pos := eng.Position(now, 51.5, -0.1)

	if pos.Distance < 350000 || pos.Distance > 410000 {
		t.Errorf("distance %v km outside lunar orbit range", pos.Distance)
	}
	if got, want := pos.AzimuthDegrees, pos.Azimuth*180/math.Pi; math.Abs(got-want) > 1e-9 {
		t.Errorf("azimuth degrees %v, want %v", got, want)
	}
	if got, want := pos.AltitudeDegrees, pos.Altitude*180/math.Pi; math.Abs(got-want) > 1e-9 {
		t.Errorf("altitude degrees %v, want %v", got, want)
	}
}

func TestPositionKeyedLookup(t *testing.T) {
	eng := astro.New()
	pos := eng.Position(time.Date(2024, 3, 10, 22, 0, 0, 0, time.UTC), 51.5, -0.1)

	if v, ok := pos.Value(model.PosDistance); !ok || v != pos.Distance {
		t.Errorf("Value(distance) = %v, %v", v, ok)
	}
	if _, ok := pos.Value("declination"); ok {
		t.Error("Value accepted an unknown key")
	}
}

func TestTimes(t *testing.T) {
	eng := astro.New()
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	lat, lon := 51.5, -0.1

	mt := eng.Times(now, lat, lon)

	dayStart := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	altitude := func(at time.Time) float64 {
		return eng.Position(at, lat, lon).Altitude
	}

	for _, ev := range []string{model.EventRise, model.EventSet} {
		when, ok := mt.Event(ev)
		if !ok {
			continue
		}
		if when.Before(dayStart) || when.After(dayEnd) {
			t.Errorf("%s %v outside local day", ev, when)
		}
		if a := altitude(when); math.Abs(a) > 0.01 {
			t.Errorf("altitude at %s is %v rad, want near horizon", ev, a)
		}
	}

	if high, ok := mt.Event(model.EventHighest); ok {
		a := altitude(high)
		if altitude(high.Add(-10*time.Minute)) > a || altitude(high.Add(10*time.Minute)) > a {
			t.Errorf("altitude at highest %v is not a local maximum", high)
		}
	}

	if mt.AlwaysUp && mt.AlwaysDown {
		t.Error("AlwaysUp and AlwaysDown both set")
	}
	if _, ok := mt.Event("noon"); ok {
		t.Error("Event accepted an unknown key")
	}
}
