package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultOpenings is the fixed list of reservable windows offered in
// fixed-duration deployments. Chronological order is the contract; note
// the lunch gap between 12:00 and 13:00.
var DefaultOpenings = []string{
	"06:00 - 08:00",
	"08:00 - 10:00",
	"10:00 - 12:00",
	"13:00 - 15:00",
	"15:00 - 17:00",
	"17:00 - 19:00",
	"19:00 - 21:00",
}

type Config struct {
	Env        string `yaml:"env"`        // "production" or "development"
	Deployment string `yaml:"deployment"` // profile name, e.g. "esplanada"

	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Redis struct {
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Session struct {
		TTLMinutes     int `yaml:"ttl_minutes"`
		LoginPerMinute int `yaml:"login_per_minute"`
		LoginBurst     int `yaml:"login_burst"`
	} `yaml:"session"`

	Monitoring struct {
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Backup BackupConfig `yaml:"backup"`

	Booking struct {
		Openings            []string `yaml:"openings"`
		BookedSuffix        string   `yaml:"booked_suffix"`
		LookbackDays        int      `yaml:"lookback_days"`
		HistoryLookbackDays int      `yaml:"history_lookback_days"`
		Timezone            string   `yaml:"timezone"`
	} `yaml:"booking"`

	// DeploymentOverride replaces the built-in profile when set.
	DeploymentOverride *Deployment `yaml:"deployment_override"`
}

// BackupConfig controls the periodic on-disk copy of the sqlite file.
type BackupConfig struct {
	Enabled       bool   `yaml:"enabled"`
	StoragePath   string `yaml:"storage_path"`
	IntervalHours int    `yaml:"interval_hours"`
	RetentionDays int    `yaml:"retention_days"`
}

// Load reads the YAML config, expanding ${ENV_VAR} placeholders, and
// fills defaults for anything left unset.
func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Env == "" {
		c.Env = "production"
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.Database.Path == "" {
		c.Database.Path = "data/cartbook.db"
	}
	if c.Session.TTLMinutes <= 0 {
		c.Session.TTLMinutes = 7 * 24 * 60
	}
	if c.Session.LoginPerMinute <= 0 {
		c.Session.LoginPerMinute = 10
	}
	if c.Session.LoginBurst <= 0 {
		c.Session.LoginBurst = 5
	}
	if c.Backup.StoragePath == "" {
		c.Backup.StoragePath = "data/backups"
	}
	if len(c.Booking.Openings) == 0 {
		c.Booking.Openings = DefaultOpenings
	}
	if c.Booking.BookedSuffix == "" {
		c.Booking.BookedSuffix = "Reservado"
	}
	if c.Booking.HistoryLookbackDays <= 0 {
		c.Booking.HistoryLookbackDays = 30
	}
	if c.Booking.Timezone == "" {
		c.Booking.Timezone = "America/Sao_Paulo"
	}
}

// ResolveDeployment returns the effective deployment profile.
func (c *Config) ResolveDeployment() Deployment {
	if c.DeploymentOverride != nil {
		return *c.DeploymentOverride
	}
	return Profile(c.Deployment)
}

// Location resolves the deployment timezone, falling back to UTC if the
// zone database does not know it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Booking.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SessionTTL returns the session lifetime.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Session.TTLMinutes) * time.Minute
}
