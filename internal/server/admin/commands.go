// Package admin holds operator subcommands that act on the store directly,
// bypassing the network surface.
package admin

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/budgetkeeper/internal/logging"
	"github.com/dmitrijs2005/budgetkeeper/internal/server"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/config"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/models"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/services"
	"github.com/google/subcommands"
)

// Commands returns the operator subcommands bound to cfg.
func Commands(cfg *config.Config, out io.Writer) []subcommands.Command {
	return []subcommands.Command{
		&migrateCmd{cfg: cfg, out: out},
		&travelOffCmd{cfg: cfg, out: out},
	}
}

type migrateCmd struct {
	cfg *config.Config
	out io.Writer
}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "apply pending schema migrations" }
func (*migrateCmd) Usage() string {
	return `migrate

  Opens the configured store and applies every pending migration.
`
}
func (*migrateCmd) SetFlags(*flag.FlagSet) {}

func (c *migrateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	db, _, err := server.OpenDatabase(ctx, c.cfg)
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer db.Close()

	fmt.Fprintln(c.out, "migrations applied")
	return subcommands.ExitSuccess
}

type travelOffCmd struct {
	cfg  *config.Config
	out  io.Writer
	user string
}

func (*travelOffCmd) Name() string { return "travel-off" }
func (*travelOffCmd) Synopsis() string {
	return "switch travel mode off for an account"
}
func (*travelOffCmd) Usage() string {
	return `travel-off -user <standard username>

  Clears the travel mode of the account. This is the recovery path when no
  session can reach the settings endpoints.
`
}

func (c *travelOffCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.user, "user", "", "Standard username of the account.")
}

func (c *travelOffCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.user == "" {
		fmt.Fprintln(c.out, "Error: -user is required.")
		return subcommands.ExitUsageError
	}

	db, m, err := server.OpenDatabase(ctx, c.cfg)
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer db.Close()

	store := services.NewSQLStore(db, m, c.cfg.StoreTimeout, logging.NewNopLogger())
	if err := disableTravelMode(ctx, store, c.user); err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(c.out, "travel mode disabled for %s\n", c.user)
	return subcommands.ExitSuccess
}

func disableTravelMode(ctx context.Context, store services.CredentialStore, username string) error {
	acc, err := store.FindByStandardUsername(ctx, username)
	if err != nil {
		return err
	}
	return store.UpdateTravelMode(ctx, acc.ID, acc.Version, models.TravelMode{})
}
