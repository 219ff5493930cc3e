package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/emiliopalmerini/focusd/internal/util"
)

const minRetentionDays = 7

// Database holds local database configuration. An empty path falls back to
// the XDG data directory.
type Database struct {
	Path string `envconfig:"FOCUSD_DATABASE_PATH"`
}

// Tracking holds the per-channel capture toggles and the retention window
// for minute rows.
type Tracking struct {
	Window        bool `envconfig:"FOCUSD_TRACK_WINDOW" default:"true"`
	Input         bool `envconfig:"FOCUSD_TRACK_INPUT" default:"true"`
	System        bool `envconfig:"FOCUSD_TRACK_SYSTEM" default:"true"`
	RetentionDays int  `envconfig:"FOCUSD_RETENTION_DAYS" default:"90"`
}

// Goals holds the daily streak thresholds.
type Goals struct {
	ActiveTimeHours float64 `envconfig:"FOCUSD_GOAL_ACTIVE_HOURS" default:"4"`
	Keystrokes      int64   `envconfig:"FOCUSD_GOAL_KEYSTROKES" default:"5000"`
	FocusScore      float64 `envconfig:"FOCUSD_GOAL_FOCUS_SCORE" default:"60"`
}

// Config is the full daemon configuration.
type Config struct {
	Database Database
	Tracking Tracking
	Goals    Goals
	Timezone string `envconfig:"FOCUSD_TIMEZONE"`
}

// Load loads configuration from environment variables and applies the XDG
// database path default.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg.Database); err != nil {
		return nil, err
	}
	if err := envconfig.Process("", &cfg.Tracking); err != nil {
		return nil, err
	}
	if err := envconfig.Process("", &cfg.Goals); err != nil {
		return nil, err
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if cfg.Tracking.RetentionDays < minRetentionDays {
		return nil, fmt.Errorf("retention must be at least %d days, got %d", minRetentionDays, cfg.Tracking.RetentionDays)
	}

	if cfg.Database.Path == "" {
		dataDir, err := util.GetXDGDataDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve data directory: %w", err)
		}
		cfg.Database.Path = filepath.Join(dataDir, "focusd.db")
	}

	return &cfg, nil
}

// Location resolves the configured timezone, defaulting to the host's local
// location. Day boundaries follow this location.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
