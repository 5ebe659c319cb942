// Package config handles configuration for the server component, including
// defaults, JSON overlay, environment variables, and command-line flags.
package config

import "time"

// Config holds runtime settings for the watchdeck server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the public HTTP endpoint.
//   - DataDir: directory holding the persisted user and session documents.
//   - StaticDir: directory with the built frontend; empty disables SPA serving.
//   - SessionTTL: lifetime of issued sessions.
//   - SweepInterval: how often the background sweeper removes expired
//     sessions; zero disables the sweeper.
type Config struct {
	EndpointAddrHTTP string        `env:"WATCHDECK_ADDR"`
	DataDir          string        `env:"WATCHDECK_DATA_DIR"`
	StaticDir        string        `env:"WATCHDECK_STATIC_DIR"`
	SessionTTL       time.Duration `env:"WATCHDECK_SESSION_TTL"`
	SweepInterval    time.Duration `env:"WATCHDECK_SWEEP_INTERVAL"`
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":3089"
	c.DataDir = "."
	c.StaticDir = "dist"
	c.SessionTTL = 24 * time.Hour
	c.SweepInterval = time.Hour
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, environment variables, and finally
// command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
