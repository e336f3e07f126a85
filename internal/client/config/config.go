package config

import "time"

// Config holds runtime settings for the MarketPulse CLI.
//
// Fields:
//   - ServerBaseURL: base URL of the backend REST API.
//   - CredentialDBPath: path to the local SQLite file holding the session credential.
//   - RequestTimeout: per-request HTTP timeout; zero keeps the transport default.
type Config struct {
	ServerBaseURL    string
	CredentialDBPath string
	RequestTimeout   time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:8000"
	c.CredentialDBPath = "marketpulse.db"
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
