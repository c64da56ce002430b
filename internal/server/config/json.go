package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/budgetkeeper/internal/cryptox"
	"github.com/dmitrijs2005/budgetkeeper/internal/flagx"
	"github.com/dmitrijs2005/budgetkeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations use
// timex.Duration so both "90s" and integer nanoseconds are accepted. It is
// only used for reading; values are copied into Config.
type JsonConfig struct {
	EndpointAddrHTTP             string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC             string         `json:"endpoint_addr_grpc"`
	StoreDriver                  string         `json:"store_driver"`
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	StoreTimeout                 timex.Duration `json:"store_timeout"`
	TriggerPhrase                string         `json:"trigger_phrase"`
	GatePath                     string         `json:"gate_path"`
	GateTicketValidityDuration   timex.Duration `json:"gate_ticket_validity_duration"`
	NotFoundFloor                timex.Duration `json:"not_found_floor"`
	NotFoundJitter               timex.Duration `json:"not_found_jitter"`
	Argon2                       cryptox.Params `json:"argon2"`
	Currency                     string         `json:"currency"`
	LedgerSeedPath               string         `json:"ledger_seed_path"`
	OTLPEndpoint                 string         `json:"otlp_endpoint"`
	LogLevel                     string         `json:"log_level"`
}

func toJson(c *Config) *JsonConfig {
	return &JsonConfig{
		EndpointAddrHTTP:             c.EndpointAddrHTTP,
		EndpointAddrGRPC:             c.EndpointAddrGRPC,
		StoreDriver:                  c.StoreDriver,
		DatabaseDSN:                  c.DatabaseDSN,
		SecretKey:                    c.SecretKey,
		AccessTokenValidityDuration:  timex.Duration{Duration: c.AccessTokenValidityDuration},
		RefreshTokenValidityDuration: timex.Duration{Duration: c.RefreshTokenValidityDuration},
		StoreTimeout:                 timex.Duration{Duration: c.StoreTimeout},
		TriggerPhrase:                c.TriggerPhrase,
		GatePath:                     c.GatePath,
		GateTicketValidityDuration:   timex.Duration{Duration: c.GateTicketValidityDuration},
		NotFoundFloor:                timex.Duration{Duration: c.NotFoundFloor},
		NotFoundJitter:               timex.Duration{Duration: c.NotFoundJitter},
		Argon2:                       c.Argon2,
		Currency:                     c.Currency,
		LedgerSeedPath:               c.LedgerSeedPath,
		OTLPEndpoint:                 c.OTLPEndpoint,
		LogLevel:                     c.LogLevel,
	}
}

// parseJson overlays the file named by -c/-config onto config. Keys absent
// from the file keep their current values. No flag means nothing to load.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := toJson(config)
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.EndpointAddrGRPC = c.EndpointAddrGRPC
	config.StoreDriver = c.StoreDriver
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	config.StoreTimeout = c.StoreTimeout.Duration
	config.TriggerPhrase = c.TriggerPhrase
	config.GatePath = c.GatePath
	config.GateTicketValidityDuration = c.GateTicketValidityDuration.Duration
	config.NotFoundFloor = c.NotFoundFloor.Duration
	config.NotFoundJitter = c.NotFoundJitter.Duration
	config.Argon2 = c.Argon2
	config.Currency = c.Currency
	config.LedgerSeedPath = c.LedgerSeedPath
	config.OTLPEndpoint = c.OTLPEndpoint
	config.LogLevel = c.LogLevel
	return nil
}
