package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/dmitrijs2005/budgetkeeper/internal/client/cli"
	"github.com/dmitrijs2005/budgetkeeper/internal/client/config"
	"github.com/dmitrijs2005/budgetkeeper/internal/flagx"
	"github.com/google/subcommands"
)

func main() {
	// global flags (-c, -a, -f, -i) go before the subcommand
	global, rest := flagx.SplitCommand(os.Args[1:], []string{"-c", "-config", "-a", "-f", "-i"})

	cfg, err := config.Load(global)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx, cfg, os.Stdin, os.Stdout)
	if err != nil {
		log.Fatalf("%v", err)
	}

	top := flag.NewFlagSet(path.Base(os.Args[0]), flag.ExitOnError)
	commander := subcommands.NewCommander(top, top.Name())
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	for _, c := range app.Commands() {
		commander.Register(c, "")
	}
	_ = top.Parse(rest)

	status := commander.Execute(ctx)
	_ = app.Close()
	stop()
	os.Exit(int(status))
}
