package astro

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/moonphase"

	"github.com/selenecli/selene/internal/model"
)

// A phase counts as one of the four principal phases while the phase value
// is within half a day of the exact quarter.
const principalWindow = 0.5 / SynodicMonth

// PhaseID maps a normalized phase value (0 new moon, 0.5 full moon) to one
// of the eight named phase identifiers.
func PhaseID(v float64) string {
	v -= math.Floor(v)
	switch {
	case v < principalWindow || v >= 1-principalWindow:
		return model.PhaseNewMoon
	case math.Abs(v-0.25) <= principalWindow:
		return model.PhaseFirstQuarter
	case math.Abs(v-0.5) <= principalWindow:
		return model.PhaseFullMoon
	case math.Abs(v-0.75) <= principalWindow:
		return model.PhaseThirdQuarter
	case v < 0.25:
		return model.PhaseWaxingCrescent
	case v < 0.5:
		return model.PhaseWaxingGibbous
	case v < 0.75:
		return model.PhaseWaningGibbous
	default:
		return model.PhaseWaningCrescent
	}
}

// phaseDateLayout is the upstream wire format for phase instants:
// ISO-8601 with milliseconds and a "Z" suffix.
const phaseDateLayout = "2006-01-02T15:04:05.000Z07:00"

// nextPhases computes the first instant of each principal phase strictly
// after t.
func nextPhases(t time.Time) model.NextPhases {
	return model.NextPhases{
		NewMoon:      nextPhaseDate(t, moonphase.New),
		FullMoon:     nextPhaseDate(t, moonphase.Full),
		FirstQuarter: nextPhaseDate(t, moonphase.First),
		ThirdQuarter: nextPhaseDate(t, moonphase.Last),
	}
}

// nextPhaseDate finds the first occurrence of the given phase after t.
// The Meeus routines return the phase nearest a decimal year, so the year
// is stepped forward by one lunation until the result lands after t.
func nextPhaseDate(t time.Time, phase func(year float64) (jde float64)) model.PhaseDate {
	year := base.JDEToJulianYear(julian.TimeToJD(t))
	when := julian.JDToTime(phase(year))
	for i := 0; !when.After(t) && i < 4; i++ {
		year += SynodicMonth / base.JulianYear
		when = julian.JDToTime(phase(year))
	}
	return model.PhaseDate{Date: when.UTC().Format(phaseDateLayout)}
}
