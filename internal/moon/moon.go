// Package moon holds the MoonState orchestrator: a stateful adapter that
// pulls raw ephemeris snapshots from an engine and reshapes them into the
// fixed attribute schema a sensor publishes. All astronomical math lives
// behind the Engine interface; this package owns sequencing, derivation
// and the published schema.
package moon

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/selenecli/selene/internal/astro"
	"github.com/selenecli/selene/internal/model"
)

// Engine supplies per-instant lunar ephemeris data. *astro.Engine is the
// production implementation; tests substitute fakes.
type Engine interface {
	Illumination(t time.Time) model.MoonIllumination
	Position(t time.Time, lat, lon float64) model.MoonPosition
	Times(t time.Time, lat, lon float64) model.MoonTimes
}

// Timestamp layouts used when reshaping engine output.
//
// Event times are relabeled, not converted: the local wall-clock value is
// serialized with microseconds, suffixed "Z", and parsed back as UTC. The
// clock fields survive unchanged; only the zone label moves. This matches
// the upstream sensor's published attribute values exactly.
const (
	eventStampLayout = "2006-01-02T15:04:05.000000"
	eventParseLayout = "2006-01-02T15:04:05.000000Z07:00"
	phaseDateLayout  = "2006-01-02T15:04:05.000Z07:00"
)

// MoonState computes and caches one refresh cycle of lunar sensor data.
// It is a single-goroutine type: Update and the accessors must not be
// called concurrently.
type MoonState struct {
	city   string
	region string
	lat    float64
	lon    float64
	tzName string

	engine Engine
	now    func() time.Time

	location  *model.Location
	illum     *model.MoonIllumination
	position  *model.MoonPosition
	times     *model.MoonTimes
	phaseName string
	attrs     *model.StateAttributes
	extra     *model.ExtraAttributes
	updatedAt time.Time
}

// New constructs a MoonState for the given observer. A nil engine selects
// the production ephemeris engine; a nil clock selects time.Now.
func New(city, region string, lat, lon float64, tzName string, engine Engine, now func() time.Time) *MoonState {
	if engine == nil {
		engine = astro.New()
	}
	if now == nil {
		now = time.Now
	}
	return &MoonState{
		city:   city,
		region: region,
		lat:    lat,
		lon:    lon,
		tzName: tzName,
		engine: engine,
		now:    now,
	}
}

// SetLocation resolves the configured timezone and fixes the observer
// location. It must succeed before any refresh; an unresolvable timezone
// is a configuration fault.
func (s *MoonState) SetLocation() (model.Location, error) {
	tz, err := time.LoadLocation(s.tzName)
	if err != nil {
		return model.Location{}, fmt.Errorf("resolve timezone %q: %w", s.tzName, err)
	}
	loc := model.Location{
		City:      s.city,
		Region:    s.region,
		Latitude:  s.lat,
		Longitude: s.lon,
		TZName:    s.tzName,
		TZ:        tz,
	}
	s.location = &loc
	slog.Debug("location set", "city", loc.City, "lat", loc.Latitude, "lon", loc.Longitude, "tz", loc.TZName)
	return loc, nil
}

// Location returns the fixed observer location, false before SetLocation.
func (s *MoonState) Location() (model.Location, bool) {
	if s.location == nil {
		return model.Location{}, false
	}
	return *s.location, true
}

// ─── Refresh ──────────────────────────────────────────────────────────────────

// RefreshIllumination queries the engine for the illumination snapshot at t
// and caches it.
func (s *MoonState) RefreshIllumination(t time.Time) model.MoonIllumination {
	ill := s.engine.Illumination(t)
	s.illum = &ill
	return ill
}

// RefreshPosition queries the engine for the position snapshot at t and
// caches it. The location must be set.
func (s *MoonState) RefreshPosition(t time.Time) (model.MoonPosition, error) {
	if s.location == nil {
		return model.MoonPosition{}, ErrNoLocation
	}
	pos := s.engine.Position(t, s.location.Latitude, s.location.Longitude)
	s.position = &pos
	return pos, nil
}

// RefreshTimes queries the engine for the day's event times at t and
// caches them. The location must be set.
func (s *MoonState) RefreshTimes(t time.Time) (model.MoonTimes, error) {
	if s.location == nil {
		return model.MoonTimes{}, ErrNoLocation
	}
	mt := s.engine.Times(t, s.location.Latitude, s.location.Longitude)
	s.times = &mt
	return mt, nil
}

// Update runs one full refresh cycle. A single instant is captured up
// front and threaded through every query, then the derived values are
// rebuilt in a fixed order: illumination, position, event times, phase
// name, attributes, extra attributes. Every published value is a pure
// function of this cycle; nothing carries over from the previous one.
func (s *MoonState) Update() error {
	if s.location == nil {
		return ErrNoLocation
	}
	now := s.now().In(s.location.TZ)

	s.RefreshIllumination(now)
	if _, err := s.RefreshPosition(now); err != nil {
		return err
	}
	if _, err := s.RefreshTimes(now); err != nil {
		return err
	}
	s.refreshPhaseName()

	attrs, err := s.Attributes()
	if err != nil {
		return fmt.Errorf("assemble attributes: %w", err)
	}
	extra := s.ExtraAttributes()

	s.attrs = &attrs
	s.extra = &extra
	s.updatedAt = now
	slog.Debug("refresh cycle complete", "at", now, "phase", s.phaseName)
	return nil
}

func (s *MoonState) refreshPhaseName() {
	if s.illum == nil {
		return
	}
	if id := s.illum.Phase.ID; id != "" {
		s.phaseName = id
	}
}

// ─── Derivation accessors ─────────────────────────────────────────────────────

// PhaseName returns the current phase identifier, false before the first
// successful refresh.
func (s *MoonState) PhaseName() (string, bool) {
	if s.illum == nil || s.illum.Phase.ID == "" {
		return "", false
	}
	return s.illum.Phase.ID, true
}

// MoonAge returns the moon's age in days, derived from the phase value and
// the mean synodic month. The result is reported absent when the phase
// value is exactly zero, so a new-moon instant and a missing snapshot are
// indistinguishable here; callers that need the distinction use PhaseName.
func (s *MoonState) MoonAge() (float64, bool) {
	if s.illum == nil {
		return 0, false
	}
	age := s.illum.PhaseValue * astro.SynodicMonth
	if age == 0 {
		return 0, false
	}
	return age, true
}

// IlluminationFraction returns the lit fraction as a percentage in [0,100].
// Like MoonAge, an exact zero is reported absent.
func (s *MoonState) IlluminationFraction() (float64, bool) {
	if s.illum == nil {
		return 0, false
	}
	pct := s.illum.Fraction * 100
	if pct == 0 {
		return 0, false
	}
	return pct, true
}

// CurrentPosition returns one component of the latest position snapshot,
// false for an unknown key or before the position was first computed.
func (s *MoonState) CurrentPosition(key string) (float64, bool) {
	if s.position == nil {
		return 0, false
	}
	return s.position.Value(key)
}

// MoonEventTime returns the named event time from the latest snapshot,
// relabeled as UTC with the local wall-clock fields preserved. False when
// the event does not occur in the window, the key is unknown, or no
// snapshot exists.
func (s *MoonState) MoonEventTime(event string) (time.Time, bool) {
	if s.times == nil {
		return time.Time{}, false
	}
	local, ok := s.times.Event(event)
	if !ok {
		return time.Time{}, false
	}
	stamp := local.Format(eventStampLayout) + "Z"
	utc, err := time.Parse(eventParseLayout, stamp)
	if err != nil {
		return time.Time{}, false
	}
	slog.Debug("moon event", "event", event, "stamp", stamp)
	return utc, true
}

// NextMoonPhase parses the stored next-phase instant for an upstream key
// (newMoon, fullMoon, firstQuarter, thirdQuarter) and returns it in UTC.
// Unlike the lookup accessors it is strict: a missing illumination snapshot
// or an unknown key is an error.
func (s *MoonState) NextMoonPhase(key string) (time.Time, error) {
	if s.illum == nil {
		return time.Time{}, ErrNotComputed
	}
	raw, ok := s.illum.Next.Date(key)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnknownPhase, key)
	}
	when, err := time.Parse(phaseDateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse next %s date %q: %w", key, raw, err)
	}
	return when.UTC(), nil
}

// ─── Published mappings ───────────────────────────────────────────────────────

// Attributes assembles the published attribute mapping from the latest
// snapshots, in the fixed schema order. The next-phase fields require an
// illumination snapshot; everything else degrades to absent.
func (s *MoonState) Attributes() (model.StateAttributes, error) {
	var a model.StateAttributes

	if v, ok := s.MoonAge(); ok {
		a.Age = &v
	}
	if v, ok := s.CurrentPosition(model.PosDistance); ok {
		a.DistanceKm = &v
	}
	if v, ok := s.CurrentPosition(model.PosAzimuthDegrees); ok {
		a.Azimuth = &v
	}
	if v, ok := s.CurrentPosition(model.PosAltitudeDegrees); ok {
		a.Altitude = &v
	}
	if v, ok := s.CurrentPosition(model.PosParallacticAngleDegrees); ok {
		a.ParallacticAngle = &v
	}
	if v, ok := s.IlluminationFraction(); ok {
		a.IlluminationFraction = &v
	}

	for _, np := range []struct {
		key  string
		dest **time.Time
	}{
		{model.NextKeyFullMoon, &a.NextFull},
		{model.NextKeyNewMoon, &a.NextNew},
		{model.NextKeyThirdQuarter, &a.NextThird},
		{model.NextKeyFirstQuarter, &a.NextFirst},
	} {
		when, err := s.NextMoonPhase(np.key)
		if err != nil {
			return model.StateAttributes{}, err
		}
		w := when
		*np.dest = &w
	}

	if v, ok := s.MoonEventTime(model.EventRise); ok {
		a.NextRise = &v
	}
	if v, ok := s.MoonEventTime(model.EventSet); ok {
		a.NextSet = &v
	}
	if v, ok := s.MoonEventTime(model.EventHighest); ok {
		a.NextHigh = &v
	}
	return a, nil
}

// ExtraAttributes assembles the supplementary mapping of raw radian
// position values. Absent before the first position refresh.
func (s *MoonState) ExtraAttributes() model.ExtraAttributes {
	var e model.ExtraAttributes
	if v, ok := s.CurrentPosition(model.PosAzimuth); ok {
		e.Azimuth = &v
	}
	if v, ok := s.CurrentPosition(model.PosAltitude); ok {
		e.Altitude = &v
	}
	if v, ok := s.CurrentPosition(model.PosParallacticAngle); ok {
		e.ParallacticAngle = &v
	}
	return e
}

// ─── Cycle results ────────────────────────────────────────────────────────────

// LastUpdate returns the instant the latest successful cycle observed.
func (s *MoonState) LastUpdate() (time.Time, bool) {
	if s.attrs == nil {
		return time.Time{}, false
	}
	return s.updatedAt, true
}

// Reading packages the latest successful cycle as a persistable record,
// false before the first one.
func (s *MoonState) Reading() (model.Reading, bool) {
	if s.attrs == nil || s.extra == nil {
		return model.Reading{}, false
	}
	return model.Reading{
		TakenAt:    s.updatedAt,
		PhaseName:  s.phaseName,
		Attributes: *s.attrs,
		Extra:      *s.extra,
	}, true
}
