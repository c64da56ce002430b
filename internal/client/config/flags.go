package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/budgetkeeper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the HTTP API
//	-f string   session database path
//	-i int      request timeout in seconds
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-f", "-i"})

	fs := flag.NewFlagSet("cli", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.ServerURL, "a", config.ServerURL, "base URL of the budgetkeeper API")
	fs.StringVar(&config.SessionDBPath, "f", config.SessionDBPath, "session database path")
	timeout := fs.Int("i", int(config.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "i" {
			config.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
	return nil
}
