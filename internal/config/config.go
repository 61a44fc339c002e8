// Package config handles loading and resolving selene configuration.
// Resolution order (lowest to highest priority):
//  1. config.json in the current working directory
//  2. Environment variables (SELENE_LAT, SELENE_LON, SELENE_TZ, SELENE_DB_PATH)
//  3. CLI flags
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	DefaultConfigFile = "config.json"
	DefaultFormat     = "table"
	DefaultTimezone   = "UTC"
	DefaultInterval   = time.Minute
	EnvLatitude       = "SELENE_LAT"
	EnvLongitude      = "SELENE_LON"
	EnvTimezone       = "SELENE_TZ"
	EnvDBPath         = "SELENE_DB_PATH"
)

// ErrInvalidCoordinates is returned by Validate when the observer
// coordinates fall outside the valid ranges.
var ErrInvalidCoordinates = errors.New("latitude must be in [-90,90] and longitude in [-180,180]")

// File is the on-disk representation of config.json.
// Latitude and longitude are pointers so an explicit 0 is distinguishable
// from an absent field.
type File struct {
	City          string   `json:"city"`
	Region        string   `json:"region"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	Timezone      string   `json:"timezone"`
	DefaultFormat string   `json:"default_format"`
	Interval      string   `json:"interval"`
	DBPath        string   `json:"db_path"`
}

// Flags carries the raw CLI flag values that participate in resolution.
// Coordinate flags are raw strings so an unset flag is distinguishable
// from an explicit zero.
type Flags struct {
	City      string
	Region    string
	Latitude  string
	Longitude string
	Timezone  string
	Format    string
	DBPath    string
	Interval  time.Duration // 0 when the flag was not set
}

// Config is the fully-resolved runtime configuration.
// All callers use this struct; the File is only read during loading.
type Config struct {
	City       string
	Region     string
	Latitude   float64
	Longitude  float64
	Timezone   string
	Format     string
	Interval   time.Duration
	DBPath     string
	ConfigPath string // path of the config.json that was loaded (empty if none found)

	// Runtime overrides set from CLI flags after Load()
	Quiet   bool
	Verbose bool
	Debug   bool
}

// Load resolves configuration from all sources.
func Load(flags Flags) (*Config, error) {
	cfg := &Config{
		Timezone: DefaultTimezone,
		Format:   DefaultFormat,
		Interval: DefaultInterval,
	}

	// Layer 1: config.json (lowest priority)
	if f, path, err := loadFile(); err == nil {
		applyFile(cfg, f, path)
	}

	// Layer 2: environment variables
	if v := os.Getenv(EnvLatitude); v != "" {
		lat, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing %s=%q: %w", EnvLatitude, v, err)
		}
		cfg.Latitude = lat
	}
	if v := os.Getenv(EnvLongitude); v != "" {
		lon, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing %s=%q: %w", EnvLongitude, v, err)
		}
		cfg.Longitude = lon
	}
	if v := os.Getenv(EnvTimezone); v != "" {
		cfg.Timezone = v
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		cfg.DBPath = v
	}

	// Layer 3: CLI flags (highest priority)
	if err := applyFlags(cfg, flags); err != nil {
		return nil, err
	}

	// Set default DB path if still unset
	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			cfg.DBPath = filepath.Join(home, ".selene", "selene.db")
		}
	}

	return cfg, nil
}

// Validate checks coordinate ranges, the output format, the watch interval
// and the IANA timezone. A timezone that does not resolve is a fatal
// configuration fault: every event time depends on it.
func (c *Config) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 || c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("%w: got lat=%g lon=%g", ErrInvalidCoordinates, c.Latitude, c.Longitude)
	}
	switch c.Format {
	case "table", "json", "jsonl", "csv", "tsv", "md":
	default:
		return fmt.Errorf("unknown output format %q (want table, json, jsonl, csv, tsv or md)", c.Format)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("watch interval must be positive, got %v", c.Interval)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("resolve timezone %q: %w", c.Timezone, err)
	}
	return nil
}

// loadFile attempts to read config.json from the current working directory.
func loadFile() (*File, string, error) {
	path, err := filepath.Abs(DefaultConfigFile)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", fmt.Errorf("config.json not found at %s", path)
		}
		return nil, "", fmt.Errorf("reading config.json: %w", err)
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, "", fmt.Errorf("parsing config.json: %w", err)
	}
	return &f, path, nil
}

// applyFile copies values from a parsed File into cfg,
// skipping any fields that are zero/empty.
func applyFile(cfg *Config, f *File, path string) {
	cfg.ConfigPath = path
	if f.City != "" {
		cfg.City = f.City
	}
	if f.Region != "" {
		cfg.Region = f.Region
	}
	if f.Latitude != nil {
		cfg.Latitude = *f.Latitude
	}
	if f.Longitude != nil {
		cfg.Longitude = *f.Longitude
	}
	if f.Timezone != "" {
		cfg.Timezone = f.Timezone
	}
	if f.DefaultFormat != "" {
		cfg.Format = f.DefaultFormat
	}
	if f.Interval != "" {
		if d, err := time.ParseDuration(f.Interval); err == nil {
			cfg.Interval = d
		}
	}
	if f.DBPath != "" {
		cfg.DBPath = f.DBPath
	}
}

// applyFlags copies set flag values into cfg. Empty string means unset.
func applyFlags(cfg *Config, flags Flags) error {
	if flags.City != "" {
		cfg.City = flags.City
	}
	if flags.Region != "" {
		cfg.Region = flags.Region
	}
	if flags.Latitude != "" {
		lat, err := strconv.ParseFloat(flags.Latitude, 64)
		if err != nil {
			return fmt.Errorf("parsing --lat %q: %w", flags.Latitude, err)
		}
		cfg.Latitude = lat
	}
	if flags.Longitude != "" {
		lon, err := strconv.ParseFloat(flags.Longitude, 64)
		if err != nil {
			return fmt.Errorf("parsing --lon %q: %w", flags.Longitude, err)
		}
		cfg.Longitude = lon
	}
	if flags.Timezone != "" {
		cfg.Timezone = flags.Timezone
	}
	if flags.Format != "" {
		cfg.Format = flags.Format
	}
	if flags.DBPath != "" {
		cfg.DBPath = flags.DBPath
	}
	if flags.Interval > 0 {
		cfg.Interval = flags.Interval
	}
	return nil
}

// Template returns a File populated with sensible defaults, suitable for
// writing an initial config.json via `selene config init`.
func Template() File {
	lat, lon := 0.0, 0.0
	return File{
		City:          "",
		Region:        "",
		Latitude:      &lat,
		Longitude:     &lon,
		Timezone:      DefaultTimezone,
		DefaultFormat: DefaultFormat,
		Interval:      "1m",
	}
}

// WriteFile serialises a File to the given path.
func WriteFile(path string, f File) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0600)
}
