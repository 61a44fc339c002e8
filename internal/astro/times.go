package astro

import (
	"time"

	"github.com/sixdouglas/suncalc"

	"github.com/selenecli/selene/internal/model"
)

// scanStep is the coarse sampling interval for the altitude curve. The moon
// crosses the horizon at most twice per day, so a crossing can never fit
// entirely inside one step.
const scanStep = 10 * time.Minute

// Times returns the moonrise, moonset and highest-transit instants for the
// local calendar day of t, in t's zone. Events that do not occur within the
// day are reported absent; a day with no horizon crossing at all is flagged
// AlwaysUp or AlwaysDown.
//
// suncalc exposes the altitude only per instant, so the events are found by
// scanning the day at scanStep resolution and bisecting each sign change
// down to one second. The transit is the interior maximum of the same curve.
func (e *Engine) Times(t time.Time, lat, lon float64) model.MoonTimes {
	dayStart := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	altitude := func(at time.Time) float64 {
		return suncalc.GetMoonPosition(at, lat, lon).Altitude
	}

	var mt model.MoonTimes
	prevT := dayStart
	prevA := altitude(prevT)
	startedUp := prevA > 0
	bestT, bestA := prevT, prevA
	crossed := false

	for at := dayStart.Add(scanStep); !at.After(dayEnd); at = at.Add(scanStep) {
		a := altitude(at)
		if a > bestA {
			bestT, bestA = at, a
		}
		switch {
		case prevA <= 0 && a > 0 && !mt.HasRise:
			mt.Rise = bisectCrossing(altitude, prevT, at, true)
			mt.HasRise = true
			crossed = true
		case prevA > 0 && a <= 0 && !mt.HasSet:
			mt.Set = bisectCrossing(altitude, prevT, at, false)
			mt.HasSet = true
			crossed = true
		}
		prevT, prevA = at, a
	}

	if !crossed {
		if startedUp {
			mt.AlwaysUp = true
		} else {
			mt.AlwaysDown = true
		}
	}

	// An interior maximum is the upper transit. A maximum pinned to a day
	// boundary means the transit belongs to an adjacent day.
	if bestT.After(dayStart) && bestT.Before(dayEnd) {
		mt.Highest = refineTransit(altitude, bestT)
		mt.HasHighest = true
	}
	return mt
}

// bisectCrossing narrows a horizon crossing bracketed by [lo, hi] to one
// second. rising selects which side of the crossing each bound is on.
func bisectCrossing(altitude func(time.Time) float64, lo, hi time.Time, rising bool) time.Time {
	for hi.Sub(lo) > time.Second {
		mid := lo.Add(hi.Sub(lo) / 2)
		if (altitude(mid) > 0) == rising {
			hi = mid
		} else {
			lo = mid
		}
	}
	return hi.Truncate(time.Second)
}

// refineTransit ternary-searches the altitude maximum around a coarse
// candidate down to one second.
func refineTransit(altitude func(time.Time) float64, center time.Time) time.Time {
	lo, hi := center.Add(-scanStep), center.Add(scanStep)
	for hi.Sub(lo) > time.Second {
		third := hi.Sub(lo) / 3
		m1, m2 := lo.Add(third), hi.Add(-third)
		if altitude(m1) < altitude(m2) {
			lo = m1
		} else {
			hi = m2
		}
	}
	return lo.Truncate(time.Second)
}
