package config

import "time"

// Config holds runtime settings for Kendall Manager Pro.
//
// Fields:
//   - ListenAddr: host:port the web UI listens on.
//   - DatabasePath: path to the SQLite file backing the key-value store.
//   - KeyPrefix: namespace prepended to every persisted key.
//   - SessionDuration: lifetime of a session from creation.
//   - PollInterval: how often the ticket list is re-read from storage.
type Config struct {
	ListenAddr      string
	DatabasePath    string
	KeyPrefix       string
	SessionDuration time.Duration
	PollInterval    time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ListenAddr = "127.0.0.1:8080"
	c.DatabasePath = "managerpro.db"
	c.KeyPrefix = "kendall_manager_pro"
	c.SessionDuration = 30 * time.Minute
	c.PollInterval = 500 * time.Millisecond
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseFlags(cfg)
	return cfg
}
