package config

import "time"

// Config holds runtime settings for the staffbook CLI.
//
// Fields:
//   - ServerURL: base URL of the REST API.
//   - SessionDSN: SQLite file keeping the signed-in session between runs.
//   - RequestTimeout: per-request limit for API calls.
type Config struct {
	ServerURL      string
	SessionDSN     string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:5000"
	c.SessionDSN = "session.db"
	c.RequestTimeout = 15 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
