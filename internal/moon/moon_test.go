package moon_test

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/selenecli/selene/internal/model"
	"github.com/selenecli/selene/internal/moon"
)

// fakeEngine returns canned snapshots and records the call order.
type fakeEngine struct {
	calls []string
	ill   model.MoonIllumination
	pos   model.MoonPosition
	times model.MoonTimes
}

func (f *fakeEngine) Illumination(t time.Time) model.MoonIllumination {
	f.calls = append(f.calls, "illumination")
	return f.ill
}

func (f *fakeEngine) Position(t time.Time, lat, lon float64) model.MoonPosition {
	f.calls = append(f.calls, "position")
	return f.pos
}

func (f *fakeEngine) Times(t time.Time, lat, lon float64) model.MoonTimes {
	f.calls = append(f.calls, "times")
	return f.times
}

var est = time.FixedZone("EST", -5*3600)

func fullMoonEngine() *fakeEngine {
	return &fakeEngine{
		ill: model.MoonIllumination{
			Phase:      model.PhaseInfo{ID: model.PhaseFullMoon},
			PhaseValue: 0.5,
			Fraction:   1.0,
			Next: model.NextPhases{
				NewMoon:      model.PhaseDate{Date: "2024-06-06T12:37:41.000Z"},
				FullMoon:     model.PhaseDate{Date: "2024-06-21T01:07:53.000Z"},
				FirstQuarter: model.PhaseDate{Date: "2024-06-14T05:18:27.000Z"},
				ThirdQuarter: model.PhaseDate{Date: "2024-06-28T21:53:05.000Z"},
			},
		},
		pos: model.MoonPosition{
			Distance:                384400.0,
			Azimuth:                 2.1031,
			AzimuthDegrees:          120.5,
			Altitude:                -0.1780,
			AltitudeDegrees:         -10.2,
			ParallacticAngle:        0.4321,
			ParallacticAngleDegrees: 24.757,
		},
		times: model.MoonTimes{
			Rise:       time.Date(2024, 5, 23, 20, 30, 15, 123456000, est),
			Highest:    time.Date(2024, 5, 24, 2, 15, 0, 0, est),
			HasRise:    true,
			HasHighest: true,
			// no set this day
		},
	}
}

func newState(t *testing.T, eng moon.Engine) *moon.MoonState {
	t.Helper()
	clock := func() time.Time { return time.Date(2024, 5, 23, 12, 0, 0, 0, time.UTC) }
	st := moon.New("Testville", "TS", 40.7, -74.0, "UTC", eng, clock)
	if _, err := st.SetLocation(); err != nil {
		t.Fatalf("SetLocation: %v", err)
	}
	return st
}

func TestUpdateOrder(t *testing.T) {
	eng := fullMoonEngine()
	st := newState(t, eng)

	if err := st.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	want := []string{"illumination", "position", "times"}
	if !reflect.DeepEqual(eng.calls, want) {
		t.Errorf("engine call order %v, want %v", eng.calls, want)
	}
}

func TestUpdateWithoutLocation(t *testing.T) {
	st := moon.New("Testville", "TS", 40.7, -74.0, "UTC", fullMoonEngine(), nil)
	if err := st.Update(); !errors.Is(err, moon.ErrNoLocation) {
		t.Errorf("Update without location = %v, want ErrNoLocation", err)
	}
}

func TestSetLocationBadTimezone(t *testing.T) {
	st := moon.New("Nowhere", "", 0, 0, "Not/AZone", fullMoonEngine(), nil)
	if _, err := st.SetLocation(); err == nil {
		t.Fatal("SetLocation accepted an invalid timezone")
	}
}

func TestAccessorsBeforeRefresh(t *testing.T) {
	st := newState(t, fullMoonEngine())

	if _, ok := st.PhaseName(); ok {
		t.Error("PhaseName reported a value before refresh")
	}
	if _, ok := st.MoonAge(); ok {
		t.Error("MoonAge reported a value before refresh")
	}
	if _, ok := st.IlluminationFraction(); ok {
		t.Error("IlluminationFraction reported a value before refresh")
	}
	if _, ok := st.CurrentPosition(model.PosDistance); ok {
		t.Error("CurrentPosition reported a value before refresh")
	}
	if _, ok := st.MoonEventTime(model.EventRise); ok {
		t.Error("MoonEventTime reported a value before refresh")
	}
	if _, err := st.NextMoonPhase(model.NextKeyFullMoon); !errors.Is(err, moon.ErrNotComputed) {
		t.Errorf("NextMoonPhase before refresh = %v, want ErrNotComputed", err)
	}
	if _, ok := st.Reading(); ok {
		t.Error("Reading reported a value before refresh")
	}
}

func TestMoonAge(t *testing.T) {
	st := newState(t, fullMoonEngine())
	if err := st.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	age, ok := st.MoonAge()
	if !ok {
		t.Fatal("MoonAge absent after refresh")
	}
	if want := 0.5 * 29.53058868; math.Abs(age-want) > 1e-9 {
		t.Errorf("MoonAge = %v, want %v", age, want)
	}
}

func TestZeroConflation(t *testing.T) {
	eng := fullMoonEngine()
	eng.ill.PhaseValue = 0
	eng.ill.Fraction = 0
	eng.ill.Phase.ID = model.PhaseNewMoon
	st := newState(t, eng)
	if err := st.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}

	// A phase value of exactly zero is indistinguishable from a missing
	// snapshot through these two accessors.
	if _, ok := st.MoonAge(); ok {
		t.Error("MoonAge reported a value for phase value 0")
	}
	if _, ok := st.IlluminationFraction(); ok {
		t.Error("IlluminationFraction reported a value for fraction 0")
	}
	if name, ok := st.PhaseName(); !ok || name != model.PhaseNewMoon {
		t.Errorf("PhaseName = %q, %v; want new_moon, true", name, ok)
	}

	attrs, err := st.Attributes()
	if err != nil {
		t.Fatalf("Attributes: %v", err)
	}
	if attrs.Age != nil {
		t.Error("attributes carry age for phase value 0")
	}
	if attrs.IlluminationFraction != nil {
		t.Error("attributes carry illumination_fraction for fraction 0")
	}
}

func TestEventTimeRelabel(t *testing.T) {
	st := newState(t, fullMoonEngine())
	if err := st.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}

	local := time.Date(2024, 5, 23, 20, 30, 15, 123456000, est)
	got, ok := st.MoonEventTime(model.EventRise)
	if !ok {
		t.Fatal("rise absent")
	}

	// Relabel, not convert: the wall-clock fields survive, only the zone
	// label becomes UTC.
	want := time.Date(local.Year(), local.Month(), local.Day(),
		local.Hour(), local.Minute(), local.Second(), local.Nanosecond(), time.UTC)
	if !got.Equal(want) {
		t.Errorf("relabeled rise = %v, want %v", got, want)
	}
	if got.Location() != time.UTC {
		t.Errorf("relabeled rise zone = %v, want UTC", got.Location())
	}
	if got.Equal(local) {
		t.Error("relabel performed a zone conversion instead of a relabel")
	}
}

func TestEventTimeAbsent(t *testing.T) {
	st := newState(t, fullMoonEngine())
	if err := st.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if _, ok := st.MoonEventTime(model.EventSet); ok {
		t.Error("MoonEventTime reported a set time the engine never produced")
	}
	if _, ok := st.MoonEventTime("eclipse"); ok {
		t.Error("MoonEventTime accepted an unknown event key")
	}
}

func TestNextMoonPhase(t *testing.T) {
	st := newState(t, fullMoonEngine())
	if err := st.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := st.NextMoonPhase(model.NextKeyNewMoon)
	if err != nil {
		t.Fatalf("NextMoonPhase: %v", err)
	}
	want := time.Date(2024, 6, 6, 12, 37, 41, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("next new moon = %v, want %v", got, want)
	}

	if _, err := st.NextMoonPhase("blueMoon"); !errors.Is(err, moon.ErrUnknownPhase) {
		t.Errorf("unknown key error = %v, want ErrUnknownPhase", err)
	}
}

func TestAttributes(t *testing.T) {
	st := newState(t, fullMoonEngine())
	if err := st.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	attrs, err := st.Attributes()
	if err != nil {
		t.Fatalf("Attributes: %v", err)
	}

	checkFloat := func(name string, got *float64, want float64) {
		t.Helper()
		if got == nil {
			t.Errorf("%s absent", name)
			return
		}
		if math.Abs(*got-want) > 1e-9 {
			t.Errorf("%s = %v, want %v", name, *got, want)
		}
	}
	checkFloat("age", attrs.Age, 0.5*29.53058868)
	checkFloat("distance_km", attrs.DistanceKm, 384400.0)
	checkFloat("azimuth", attrs.Azimuth, 120.5)
	checkFloat("altitude", attrs.Altitude, -10.2)
	checkFloat("parallactic_angle", attrs.ParallacticAngle, 24.757)
	checkFloat("illumination_fraction", attrs.IlluminationFraction, 100.0)

	if attrs.NextFull == nil || !attrs.NextFull.Equal(time.Date(2024, 6, 21, 1, 7, 53, 0, time.UTC)) {
		t.Errorf("next_full = %v", attrs.NextFull)
	}
	if attrs.NextRise == nil {
		t.Error("next_rise absent")
	}
	if attrs.NextHigh == nil {
		t.Error("next_high absent")
	}
	if attrs.NextSet != nil {
		t.Errorf("next_set = %v, want absent", *attrs.NextSet)
	}
}

func TestExtraAttributes(t *testing.T) {
	st := newState(t, fullMoonEngine())
	if err := st.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	extra := st.ExtraAttributes()
	if extra.Azimuth == nil || *extra.Azimuth != 2.1031 {
		t.Errorf("extra azimuth = %v, want 2.1031 rad", extra.Azimuth)
	}
	if extra.Altitude == nil || *extra.Altitude != -0.1780 {
		t.Errorf("extra altitude = %v, want -0.1780 rad", extra.Altitude)
	}
	if extra.ParallacticAngle == nil || *extra.ParallacticAngle != 0.4321 {
		t.Errorf("extra parallactic angle = %v, want 0.4321 rad", extra.ParallacticAngle)
	}
}

func TestReading(t *testing.T) {
	st := newState(t, fullMoonEngine())
	if err := st.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	r, ok := st.Reading()
	if !ok {
		t.Fatal("Reading absent after refresh")
	}
	if r.PhaseName != model.PhaseFullMoon {
		t.Errorf("reading phase = %q", r.PhaseName)
	}
	want := time.Date(2024, 5, 23, 12, 0, 0, 0, time.UTC)
	if !r.TakenAt.Equal(want) {
		t.Errorf("reading taken_at = %v, want %v", r.TakenAt, want)
	}
	if r.Attributes.DistanceKm == nil || *r.Attributes.DistanceKm != 384400.0 {
		t.Errorf("reading distance = %v", r.Attributes.DistanceKm)
	}
}
