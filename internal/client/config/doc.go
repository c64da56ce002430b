// Package config loads runtime configuration for the budgetkeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. BUDGETKEEPER_CLI_* environment variables.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the budgetkeeper HTTP API
//	-f string   path of the local session database
//	-i int      request timeout (seconds)
//
// # JSON schema
//
// Durations use timex.Duration, so values can be either strings like "10s"
// or integer nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "session_db_path": "session.db",
//	  "request_timeout": "10s"
//	}
package config
