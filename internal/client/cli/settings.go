package cli

import (
	"context"
	"flag"
	"time"

	"github.com/dmitrijs2005/budgetkeeper/internal/client/models"
	"github.com/google/subcommands"
)

type travelModeCmd struct {
	app       *App
	hideStats bool
	until     string
}

func (*travelModeCmd) Name() string     { return "travel-mode" }
func (*travelModeCmd) Synopsis() string { return "switch travel mode on or off" }
func (*travelModeCmd) Usage() string {
	return `travel-mode [-hide-stats] [-until YYYY-MM-DD] on|off

  While travel mode is on, only the duress login opens the app. Turning it
  off needs a session that can see settings, so set -until when leaving.
`
}

func (c *travelModeCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.hideStats, "hide-stats", false, "Hide totals from duress sessions")
	f.StringVar(&c.until, "until", "", "Switch off automatically at the start of this day (UTC)")
}

func (c *travelModeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 || (f.Arg(0) != "on" && f.Arg(0) != "off") {
		f.Usage()
		return subcommands.ExitUsageError
	}

	tm := models.TravelMode{Enabled: f.Arg(0) == "on", HideStats: c.hideStats}
	if c.until != "" {
		if !tm.Enabled {
			c.app.printf("Error: -until only applies to on\n")
			return subcommands.ExitUsageError
		}
		until, err := time.Parse(time.DateOnly, c.until)
		if err != nil {
			c.app.printf("Error: -until must be YYYY-MM-DD\n")
			return subcommands.ExitUsageError
		}
		tm.Until = &until
	}

	if err := c.app.api.SetTravelMode(ctx, tm); err != nil {
		return c.app.fail(err)
	}
	c.app.printf("Travel mode %s.\n", onOff(tm.Enabled))
	return subcommands.ExitSuccess
}

type duressCmd struct{ app *App }

func (*duressCmd) Name() string     { return "duress" }
func (*duressCmd) Synopsis() string { return "set or clear the duress login" }
func (*duressCmd) Usage() string {
	return `duress set|clear

  set prompts for the duress username and password; clear removes them.
`
}
func (*duressCmd) SetFlags(*flag.FlagSet) {}

func (c *duressCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	switch f.Arg(0) {
	case "set":
		username, err := c.app.prompt("Duress username")
		if err != nil {
			return c.app.fail(err)
		}
		password, err := c.app.secret("Duress password")
		if err != nil {
			return c.app.fail(err)
		}
		if err := c.app.api.SetDuress(ctx, username, password); err != nil {
			return c.app.fail(err)
		}
		c.app.printf("Duress login set.\n")
	case "clear":
		if err := c.app.api.ClearDuress(ctx); err != nil {
			return c.app.fail(err)
		}
		c.app.printf("Duress login cleared.\n")
	default:
		f.Usage()
		return subcommands.ExitUsageError
	}
	return subcommands.ExitSuccess
}

type passwordCmd struct{ app *App }

func (*passwordCmd) Name() string     { return "password" }
func (*passwordCmd) Synopsis() string { return "change the password" }
func (*passwordCmd) Usage() string {
	return `password

  Prompts for the current password and the new one (twice). Other sessions
  lose their refresh tokens.
`
}
func (*passwordCmd) SetFlags(*flag.FlagSet) {}

func (c *passwordCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	current, err := c.app.secret("Current password")
	if err != nil {
		return c.app.fail(err)
	}
	next, err := c.app.secret("New password")
	if err != nil {
		return c.app.fail(err)
	}
	confirm, err := c.app.secret("Repeat new password")
	if err != nil {
		return c.app.fail(err)
	}

	if err := c.app.api.ChangePassword(ctx, current, next, confirm); err != nil {
		return c.app.fail(err)
	}
	c.app.printf("Password changed.\n")
	return subcommands.ExitSuccess
}

type deleteAccountCmd struct{ app *App }

func (*deleteAccountCmd) Name() string     { return "delete-account" }
func (*deleteAccountCmd) Synopsis() string { return "delete the account" }
func (*deleteAccountCmd) Usage() string {
	return `delete-account

  Asks for confirmation and the password, then deletes the account.
`
}
func (*deleteAccountCmd) SetFlags(*flag.FlagSet) {}

func (c *deleteAccountCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ok, err := GetConfirmation(c.app.reader, "Delete the account and all its data?", c.app.out)
	if err != nil {
		return c.app.fail(err)
	}
	if !ok {
		c.app.printf("Aborted.\n")
		return subcommands.ExitFailure
	}

	password, err := c.app.secret("Password")
	if err != nil {
		return c.app.fail(err)
	}
	if err := c.app.api.DeleteAccount(ctx, password); err != nil {
		return c.app.fail(err)
	}
	c.app.printf("Account deleted.\n")
	return subcommands.ExitSuccess
}
