package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/budgetkeeper/internal/flagx"
	"github.com/dmitrijs2005/budgetkeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the CLI configuration file.
type JsonConfig struct {
	ServerURL      string         `json:"server_url"`
	SessionDBPath  string         `json:"session_db_path"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	GatePath       string         `json:"gate_path"`
}

func parseJson(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{
		ServerURL:      config.ServerURL,
		SessionDBPath:  config.SessionDBPath,
		RequestTimeout: timex.Duration{Duration: config.RequestTimeout},
		GatePath:       config.GatePath,
	}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	config.ServerURL = c.ServerURL
	config.SessionDBPath = c.SessionDBPath
	config.RequestTimeout = c.RequestTimeout.Duration
	config.GatePath = c.GatePath
	return nil
}
