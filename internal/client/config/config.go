package config

import (
	"time"
)

// Config holds runtime settings for the budgetkeeper CLI.
//
// Fields:
//   - ServerURL: base URL of the HTTP API, without the /api suffix.
//   - SessionDBPath: SQLite file keeping the current session tokens.
//   - RequestTimeout: upper bound for one API call.
//   - GatePath: where the stealth gate listens on the server.
type Config struct {
	ServerURL      string        `env:"SERVER_URL"`
	SessionDBPath  string        `env:"SESSION_DB"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
	GatePath       string        `env:"GATE_PATH"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.SessionDBPath = "session.db"
	c.RequestTimeout = 10 * time.Second
	c.GatePath = "/api/travel"
}

// Load constructs a Config, applies defaults, then overlays values from an
// optional JSON file, the environment and command-line flags. Later sources
// take precedence over earlier ones.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
