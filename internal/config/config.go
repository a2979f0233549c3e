// Package config assembles console settings from defaults, the environment
// (.env aware), an optional JSON file and command-line flags. Later sources
// win.
package config

import "time"

// Config holds runtime settings for the StaffDesk console.
//
// Fields:
//   - DatabaseURL: Postgres connection string backing the remote collections.
//   - Offline: run against in-memory collections instead of Postgres.
//   - PageSize: page size used when refreshing collections.
//   - OpTimeout: per-operation deadline applied by the console.
type Config struct {
	DatabaseURL string
	Offline     bool
	PageSize    int
	OpTimeout   time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabaseURL = "postgres://localhost:5432/staffdesk"
	c.Offline = false
	c.PageSize = 20
	c.OpTimeout = 10 * time.Second
}

// Load builds a Config by applying defaults, then overlaying environment
// variables, a JSON file (if -c/-config points at one) and flags, in that
// order.
func Load() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJSON(cfg)
	parseFlags(cfg)
	return cfg
}
