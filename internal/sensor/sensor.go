// Package sensor drives a MoonState on a fixed cadence, the way a
// home-automation platform would poll a sensor entity. Each tick runs one
// refresh cycle, optionally persists the reading and hands it to a
// callback. A failed cycle makes the sensor unavailable for that tick
// only; the next tick retries from scratch.
package sensor

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/selenecli/selene/internal/model"
	"github.com/selenecli/selene/internal/moon"
	"github.com/selenecli/selene/internal/store"
)

// Options configures a Poller.
type Options struct {
	// Interval between refresh cycles. Must be positive.
	Interval time.Duration
	// Count limits the number of cycles. 0 means run until the context
	// is cancelled.
	Count int
	// Store, when non-nil, receives every successful reading.
	Store *store.Store
	// OnReading is called after each successful cycle.
	OnReading func(model.Reading)
	// OnError is called when a cycle fails. The poller keeps running.
	OnError func(error)
}

// Poller periodically refreshes a MoonState.
type Poller struct {
	state *moon.MoonState
	opts  Options
}

// New builds a Poller over an already-located MoonState.
func New(state *moon.MoonState, opts Options) *Poller {
	return &Poller{state: state, opts: opts}
}

// Run executes refresh cycles until the count is reached or ctx is
// cancelled. Pacing uses a rate limiter with burst 1, so the first cycle
// runs immediately and the rest follow at the configured interval.
func (p *Poller) Run(ctx context.Context) error {
	limiter := rate.NewLimiter(rate.Every(p.opts.Interval), 1)

	for cycle := 0; p.opts.Count == 0 || cycle < p.opts.Count; cycle++ {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}

		if err := p.state.Update(); err != nil {
			slog.Warn("refresh cycle failed, sensor unavailable this tick", "cycle", cycle, "err", err)
			if p.opts.OnError != nil {
				p.opts.OnError(err)
			}
			continue
		}

		reading, ok := p.state.Reading()
		if !ok {
			continue
		}

		if p.opts.Store != nil {
			if err := p.opts.Store.PutReading(reading); err != nil {
				slog.Warn("recording reading failed", "err", err)
				if p.opts.OnError != nil {
					p.opts.OnError(err)
				}
			}
		}
		if p.opts.OnReading != nil {
			p.opts.OnReading(reading)
		}
	}
	return nil
}
