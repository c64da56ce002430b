package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path"

	"github.com/dmitrijs2005/budgetkeeper/internal/server/admin"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/config"
	"github.com/google/subcommands"
)

func main() {
	// store settings come from defaults, the JSON file named by
	// BUDGETKEEPER_CONFIG and the environment
	cfg, err := config.Load(configArgs())
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	for _, c := range admin.Commands(cfg, os.Stdout) {
		commander.Register(c, "")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

func configArgs() []string {
	if p := os.Getenv(config.EnvPrefix + "CONFIG"); p != "" {
		return []string{"-c", p}
	}
	return nil
}
