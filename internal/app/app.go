// Package app wires together configuration, the moon state orchestrator,
// and the reading store into a single Deps struct that commands receive at
// runtime.
package app

import (
	"errors"
	"fmt"

	"github.com/selenecli/selene/internal/config"
	"github.com/selenecli/selene/internal/moon"
	"github.com/selenecli/selene/internal/store"
)

// Deps holds all runtime dependencies injected into command Run functions.
// The store is opened lazily: only commands that call RequireStore touch
// the database file.
type Deps struct {
	Config *config.Config
	State  *moon.MoonState
	Store  *store.Store
}

// New builds a Deps from resolved config.
func New(cfg *config.Config) *Deps {
	state := moon.New(
		cfg.City,
		cfg.Region,
		cfg.Latitude,
		cfg.Longitude,
		cfg.Timezone,
		nil, // production ephemeris engine
		nil, // wall clock
	)
	return &Deps{
		Config: cfg,
		State:  state,
	}
}

// RequireLocation validates config and fixes the observer location on the
// moon state. Every command that computes anything calls this first.
func (d *Deps) RequireLocation() error {
	if err := d.Config.Validate(); err != nil {
		return err
	}
	if _, err := d.State.SetLocation(); err != nil {
		return err
	}
	return nil
}

// RequireStore opens the reading store on first use.
func (d *Deps) RequireStore() error {
	if d.Store != nil {
		return nil
	}
	if d.Config.DBPath == "" {
		return errors.New("no database path configured (set db_path in config.json, SELENE_DB_PATH, or --db)")
	}
	s, err := store.Open(d.Config.DBPath)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	d.Store = s
	return nil
}

// Close releases any open resources.
func (d *Deps) Close() {
	if d.Store != nil {
		_ = d.Store.Close()
		d.Store = nil
	}
}
