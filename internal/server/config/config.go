// Package config handles configuration for the server component,
// including defaults, JSON overlay, environment variables and command-line
// flags.
package config

import (
	"os"
	"time"

	"github.com/dmitrijs2005/budgetkeeper/internal/cryptox"
)

// Config holds runtime settings for the budgetkeeper server.
//
// Fields:
//   - EndpointAddrHTTP: bind address of the public HTTP API.
//   - EndpointAddrGRPC: bind address of the internal AccessService; keep it off
//     public interfaces.
//   - StoreDriver / DatabaseDSN: "postgres" (pgx) or "sqlite" (modernc) and its DSN.
//   - SecretKey: HMAC secret for session tokens and gate tickets (HS256).
//   - StoreTimeout: upper bound for one Credential Store call; exceeding it
//     fails closed. Load caps it at NotFoundFloor so a masked route that
//     consults the store answers no later than an unknown route.
//   - TriggerPhrase / GatePath / GateTicketValidityDuration: stealth gate.
//   - NotFoundFloor / NotFoundJitter: latency shaping of the shared not-found
//     response.
type Config struct {
	EndpointAddrHTTP             string        `env:"HTTP_ADDR"`
	EndpointAddrGRPC             string        `env:"GRPC_ADDR"`
	StoreDriver                  string        `env:"STORE_DRIVER"`
	DatabaseDSN                  string        `env:"DATABASE_DSN"`
	SecretKey                    string        `env:"SECRET_KEY"`
	AccessTokenValidityDuration  time.Duration `env:"ACCESS_TOKEN_VALIDITY"`
	RefreshTokenValidityDuration time.Duration `env:"REFRESH_TOKEN_VALIDITY"`
	StoreTimeout                 time.Duration `env:"STORE_TIMEOUT"`
	TriggerPhrase                string        `env:"TRIGGER_PHRASE"`
	GatePath                     string        `env:"GATE_PATH"`
	GateTicketValidityDuration   time.Duration `env:"GATE_TICKET_VALIDITY"`
	NotFoundFloor                time.Duration `env:"NOT_FOUND_FLOOR"`
	NotFoundJitter               time.Duration `env:"NOT_FOUND_JITTER"`
	Argon2                       cryptox.Params
	Currency                     string `env:"CURRENCY"`
	LedgerSeedPath               string `env:"LEDGER_SEED"`
	OTLPEndpoint                 string `env:"OTLP_ENDPOINT"`
	LogLevel                     string `env:"LOG_LEVEL"`
}

// DefaultGatePath is where the stealth gate listens unless configured.
const DefaultGatePath = "/api/travel"

// LoadDefaults populates Config with development defaults.
// NOTE: SecretKey is insecure for production and must be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.EndpointAddrGRPC = "127.0.0.1:50051"
	c.StoreDriver = "sqlite"
	c.DatabaseDSN = "file:budgetkeeper.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 15 * time.Minute
	c.RefreshTokenValidityDuration = 24 * time.Hour
	c.StoreTimeout = 250 * time.Millisecond
	c.TriggerPhrase = "travel"
	c.GatePath = DefaultGatePath
	c.GateTicketValidityDuration = 5 * time.Minute
	c.NotFoundFloor = 300 * time.Millisecond
	c.NotFoundJitter = 100 * time.Millisecond
	c.Argon2 = cryptox.DefaultParams()
	c.Currency = "EUR"
	c.LogLevel = "info"
}

// Load builds a Config by applying defaults, then overlaying values from an
// optional JSON file, environment variables and finally command-line flags.
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
	cfg.capStoreTimeout()
	return cfg, nil
}

// capStoreTimeout keeps StoreTimeout within NotFoundFloor. A zero floor
// disables latency shaping and leaves the timeout alone.
func (c *Config) capStoreTimeout() {
	if c.NotFoundFloor > 0 && c.StoreTimeout > c.NotFoundFloor {
		c.StoreTimeout = c.NotFoundFloor
	}
}

// LoadConfig is Load over os.Args.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}
