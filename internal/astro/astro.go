// Package astro wraps the third-party ephemeris libraries behind a single
// stateless engine. Per-instant lunar math (position, illumination) is
// delegated to suncalc; principal phase instants come from the Meeus
// algorithms. Everything here is a pure function of its inputs.
package astro

import (
	"math"
	"time"

	"github.com/sixdouglas/suncalc"

	"github.com/selenecli/selene/internal/model"
)

// SynodicMonth is the mean length of a lunation in days.
const SynodicMonth = 29.53058868

// Engine computes lunar ephemeris snapshots. The zero value is usable;
// New exists for symmetry with the rest of the codebase.
type Engine struct{}

// New returns a ready Engine.
func New() *Engine {
	return &Engine{}
}

// Illumination returns the illumination snapshot for the given instant:
// lit fraction, normalized phase value, derived phase identifier, and the
// upcoming principal phase instants.
func (e *Engine) Illumination(t time.Time) model.MoonIllumination {
	ill := suncalc.GetMoonIllumination(t)
	return model.MoonIllumination{
		Phase:      model.PhaseInfo{ID: PhaseID(ill.Phase)},
		PhaseValue: ill.Phase,
		Fraction:   ill.Fraction,
		Angle:      ill.Angle,
		Next:       nextPhases(t),
	}
}

// Position returns the topocentric moon position for the given instant and
// observer coordinates. Angles are carried both in radians (as suncalc
// produces them) and in degrees; distance is km.
func (e *Engine) Position(t time.Time, lat, lon float64) model.MoonPosition {
	p := suncalc.GetMoonPosition(t, lat, lon)
	return model.MoonPosition{
		Distance:                p.Distance,
		Azimuth:                 p.Azimuth,
		AzimuthDegrees:          degrees(p.Azimuth),
		Altitude:                p.Altitude,
		AltitudeDegrees:         degrees(p.Altitude),
		ParallacticAngle:        p.ParallacticAngle,
		ParallacticAngleDegrees: degrees(p.ParallacticAngle),
	}
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
