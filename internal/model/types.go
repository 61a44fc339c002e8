// Package model defines the canonical data types used throughout selene.
// These types are the single source of truth for the ephemeris snapshots,
// the published attribute schema, and the result envelope that every
// command returns.
package model

import (
	"time"
)

// ─── Observer ─────────────────────────────────────────────────────────────────

// Location describes the observer for all position and event-time queries.
// Immutable once constructed; TZ is the resolved IANA zone named by TZName.
type Location struct {
	City      string         `json:"city"`
	Region    string         `json:"region"`
	Latitude  float64        `json:"latitude"`
	Longitude float64        `json:"longitude"`
	TZName    string         `json:"timezone"`
	TZ        *time.Location `json:"-"`
}

// ─── Illumination ─────────────────────────────────────────────────────────────

// Phase identifier strings published as the sensor state value.
const (
	PhaseNewMoon        = "new_moon"
	PhaseWaxingCrescent = "waxing_crescent"
	PhaseFirstQuarter   = "first_quarter"
	PhaseWaxingGibbous  = "waxing_gibbous"
	PhaseFullMoon       = "full_moon"
	PhaseWaningGibbous  = "waning_gibbous"
	PhaseThirdQuarter   = "third_quarter"
	PhaseWaningCrescent = "waning_crescent"
)

// Lookup keys for the next-phase table, matching the upstream field names.
const (
	NextKeyNewMoon      = "newMoon"
	NextKeyFullMoon     = "fullMoon"
	NextKeyFirstQuarter = "firstQuarter"
	NextKeyThirdQuarter = "thirdQuarter"
)

// PhaseInfo names the current phase.
type PhaseInfo struct {
	ID string `json:"id"`
}

// PhaseDate carries a phase instant as an ISO-8601 string with millisecond
// precision and a "Z" suffix, e.g. "2024-06-06T12:37:41.000Z".
type PhaseDate struct {
	Date string `json:"date"`
}

// NextPhases holds the upcoming principal phase instants.
type NextPhases struct {
	NewMoon      PhaseDate `json:"newMoon"`
	FullMoon     PhaseDate `json:"fullMoon"`
	FirstQuarter PhaseDate `json:"firstQuarter"`
	ThirdQuarter PhaseDate `json:"thirdQuarter"`
}

// Date returns the raw date string for an upstream phase key.
func (n NextPhases) Date(key string) (string, bool) {
	switch key {
	case NextKeyNewMoon:
		return n.NewMoon.Date, true
	case NextKeyFullMoon:
		return n.FullMoon.Date, true
	case NextKeyFirstQuarter:
		return n.FirstQuarter.Date, true
	case NextKeyThirdQuarter:
		return n.ThirdQuarter.Date, true
	default:
		return "", false
	}
}

// MoonIllumination is the illumination snapshot for one instant.
// PhaseValue is the normalized phase in [0,1): 0 new moon, 0.5 full moon.
// Fraction is the lit fraction of the visible disk in [0,1].
type MoonIllumination struct {
	Phase      PhaseInfo  `json:"phase"`
	PhaseValue float64    `json:"phaseValue"`
	Fraction   float64    `json:"fraction"`
	Angle      float64    `json:"angle"`
	Next       NextPhases `json:"next"`
}

// ─── Position ─────────────────────────────────────────────────────────────────

// Position lookup keys.
const (
	PosDistance                = "distance"
	PosAzimuth                 = "azimuth"
	PosAzimuthDegrees          = "azimuthDegrees"
	PosAltitude                = "altitude"
	PosAltitudeDegrees         = "altitudeDegrees"
	PosParallacticAngle        = "parallacticAngle"
	PosParallacticAngleDegrees = "parallacticAngleDegrees"
)

// MoonPosition is the topocentric position snapshot for one instant.
// Angles are carried both raw (radians, as produced by the ephemeris
// library) and converted to degrees; distance is km.
type MoonPosition struct {
	Distance                float64 `json:"distance"`
	Azimuth                 float64 `json:"azimuth"`
	AzimuthDegrees          float64 `json:"azimuthDegrees"`
	Altitude                float64 `json:"altitude"`
	AltitudeDegrees         float64 `json:"altitudeDegrees"`
	ParallacticAngle        float64 `json:"parallacticAngle"`
	ParallacticAngleDegrees float64 `json:"parallacticAngleDegrees"`
}

// Value returns the named component, false for an unknown key.
func (p MoonPosition) Value(key string) (float64, bool) {
	switch key {
	case PosDistance:
		return p.Distance, true
	case PosAzimuth:
		return p.Azimuth, true
	case PosAzimuthDegrees:
		return p.AzimuthDegrees, true
	case PosAltitude:
		return p.Altitude, true
	case PosAltitudeDegrees:
		return p.AltitudeDegrees, true
	case PosParallacticAngle:
		return p.ParallacticAngle, true
	case PosParallacticAngleDegrees:
		return p.ParallacticAngleDegrees, true
	default:
		return 0, false
	}
}

// ─── Event Times ──────────────────────────────────────────────────────────────

// Event lookup keys for MoonTimes.
const (
	EventRise    = "rise"
	EventSet     = "set"
	EventHighest = "highest"
)

// MoonTimes holds the rise, set and highest-transit instants for one local
// day. Timestamps are local wall-clock values in the observer's zone. Any
// event may be absent: at high latitudes the moon can stay above or below
// the horizon for the whole day.
type MoonTimes struct {
	Rise       time.Time `json:"rise,omitempty"`
	Set        time.Time `json:"set,omitempty"`
	Highest    time.Time `json:"highest,omitempty"`
	HasRise    bool      `json:"-"`
	HasSet     bool      `json:"-"`
	HasHighest bool      `json:"-"`

	// AlwaysUp / AlwaysDown flag windows with no horizon crossing at all.
	AlwaysUp   bool `json:"alwaysUp,omitempty"`
	AlwaysDown bool `json:"alwaysDown,omitempty"`
}

// Event returns the named event time, false if the event does not occur.
func (t MoonTimes) Event(name string) (time.Time, bool) {
	switch name {
	case EventRise:
		return t.Rise, t.HasRise
	case EventSet:
		return t.Set, t.HasSet
	case EventHighest:
		return t.Highest, t.HasHighest
	default:
		return time.Time{}, false
	}
}

// ─── Published Attributes ─────────────────────────────────────────────────────

// State attribute keys, in the canonical assembly order.
const (
	AttrAge                  = "age"
	AttrDistanceKm           = "distance_km"
	AttrAzimuth              = "azimuth"
	AttrAltitude             = "altitude"
	AttrParallacticAngle     = "parallactic_angle"
	AttrIlluminationFraction = "illumination_fraction"
	AttrNextFull             = "next_full"
	AttrNextNew              = "next_new"
	AttrNextThird            = "next_third"
	AttrNextFirst            = "next_first"
	AttrNextRise             = "next_rise"
	AttrNextSet              = "next_set"
	AttrNextHigh             = "next_high"
)

// StateAttributeKeys lists every published attribute key in assembly order.
var StateAttributeKeys = []string{
	AttrAge,
	AttrDistanceKm,
	AttrAzimuth,
	AttrAltitude,
	AttrParallacticAngle,
	AttrIlluminationFraction,
	AttrNextFull,
	AttrNextNew,
	AttrNextThird,
	AttrNextFirst,
	AttrNextRise,
	AttrNextSet,
	AttrNextHigh,
}

// StateAttributes is the published attribute mapping with its fixed schema.
// Pointer fields make absence explicit: age and illumination_fraction are
// nil when the underlying value is zero or missing, the event times are nil
// when the moon does not rise, set or transit in the search window. Absent
// values serialize as JSON null, which is exactly what the sensor publishes.
type StateAttributes struct {
	Age                  *float64   `json:"age"`
	DistanceKm           *float64   `json:"distance_km"`
	Azimuth              *float64   `json:"azimuth"`
	Altitude             *float64   `json:"altitude"`
	ParallacticAngle     *float64   `json:"parallactic_angle"`
	IlluminationFraction *float64   `json:"illumination_fraction"`
	NextFull             *time.Time `json:"next_full"`
	NextNew              *time.Time `json:"next_new"`
	NextThird            *time.Time `json:"next_third"`
	NextFirst            *time.Time `json:"next_first"`
	NextRise             *time.Time `json:"next_rise"`
	NextSet              *time.Time `json:"next_set"`
	NextHigh             *time.Time `json:"next_high"`
}

// ExtraAttributes carries the supplementary position values in raw radians.
type ExtraAttributes struct {
	Azimuth          *float64 `json:"azimuth"`
	Altitude         *float64 `json:"altitude"`
	ParallacticAngle *float64 `json:"parallactic_angle"`
}

// ─── Readings ─────────────────────────────────────────────────────────────────

// Reading is one completed refresh cycle: the sensor state value plus both
// attribute mappings, stamped with the instant the cycle observed.
type Reading struct {
	TakenAt    time.Time       `json:"taken_at"`
	PhaseName  string          `json:"phase_name"`
	Attributes StateAttributes `json:"attributes"`
	Extra      ExtraAttributes `json:"extra_attributes"`
}

// ─── Result Envelope ─────────────────────────────────────────────────────────

// ResultStats carries timing metadata for a command result.
type ResultStats struct {
	DurationMs int64 `json:"duration_ms"`
	Items      int   `json:"items"`
}

// Result is the uniform envelope returned by every command.
// The Data field holds the typed payload; Kind identifies what is in it.
// Renderers switch on Kind to format output appropriately.
type Result struct {
	Kind        string      `json:"kind"`
	GeneratedAt time.Time   `json:"generated_at"`
	Command     string      `json:"command"`
	Data        interface{} `json:"data"`
	Warnings    []string    `json:"warnings,omitempty"`
	Stats       ResultStats `json:"stats"`
}

// Kind constants for Result.Kind.
const (
	KindReading     = "reading"
	KindReadingList = "reading_list"
	KindPosition    = "position"
	KindTimes       = "times"
	KindPhases      = "phases"
	KindForecast    = "forecast"
	KindStoreStats  = "store_stats"
)

// PhasesData is the payload for KindPhases: the current phase plus the
// upcoming principal phase instants.
type PhasesData struct {
	PhaseName    string     `json:"phase_name"`
	AgeDays      *float64   `json:"age_days"`
	Illumination *float64   `json:"illumination_fraction"`
	NextFull     *time.Time `json:"next_full"`
	NextNew      *time.Time `json:"next_new"`
	NextThird    *time.Time `json:"next_third"`
	NextFirst    *time.Time `json:"next_first"`
}

// ForecastPoint is one day of the illumination forecast.
type ForecastPoint struct {
	Date         time.Time `json:"date"`
	PhaseName    string    `json:"phase_name"`
	Illumination float64   `json:"illumination_fraction"`
}
