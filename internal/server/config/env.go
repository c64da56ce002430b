package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix prefixes every environment variable the server reads.
const EnvPrefix = "BUDGETKEEPER_"

// parseEnv overlays BUDGETKEEPER_* variables onto config. Unset variables
// leave the current value alone.
func parseEnv(config *Config) error {
	if err := env.ParseWithOptions(config, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
