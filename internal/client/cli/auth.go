package cli

import (
	"context"
	"errors"
	"flag"

	"github.com/dmitrijs2005/budgetkeeper/internal/client/client"
	"github.com/google/subcommands"
)

type probeCmd struct{ app *App }

func (*probeCmd) Name() string     { return "probe" }
func (*probeCmd) Synopsis() string { return "check whether the service answers" }
func (*probeCmd) Usage() string {
	return `probe

  Asks the public health endpoint. Prints "Not Found" when nothing answers.
`
}
func (*probeCmd) SetFlags(*flag.FlagSet) {}

func (c *probeCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	visible, err := c.app.api.Probe(ctx)
	if err != nil {
		return c.app.fail(err)
	}
	if !visible {
		return c.app.fail(client.ErrNotFound)
	}
	c.app.printf("budgetkeeper is available\n")
	return subcommands.ExitSuccess
}

type registerCmd struct{ app *App }

func (*registerCmd) Name() string     { return "register" }
func (*registerCmd) Synopsis() string { return "create an account" }
func (*registerCmd) Usage() string {
	return `register

  Prompts for a username and a password (twice).
`
}
func (*registerCmd) SetFlags(*flag.FlagSet) {}

func (c *registerCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	username, err := c.app.prompt("Username")
	if err != nil {
		return c.app.fail(err)
	}
	password, err := c.app.secret("Password")
	if err != nil {
		return c.app.fail(err)
	}
	confirm, err := c.app.secret("Repeat password")
	if err != nil {
		return c.app.fail(err)
	}

	acc, err := c.app.api.Register(ctx, username, password, confirm)
	if err != nil {
		return c.app.fail(err)
	}
	c.app.printf("Account %s created. Run login to start a session.\n", acc.Username)
	return subcommands.ExitSuccess
}

type loginCmd struct{ app *App }

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "start a session" }
func (*loginCmd) Usage() string {
	return `login

  Prompts for username and password and stores the session locally.
`
}
func (*loginCmd) SetFlags(*flag.FlagSet) {}

func (c *loginCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.app.credentialLogin(ctx, "")
}

// credentialLogin runs the username/password form, with the gate ticket when
// it follows the stealth gate.
func (a *App) credentialLogin(ctx context.Context, ticket string) subcommands.ExitStatus {
	username, err := a.prompt("Username")
	if err != nil {
		return a.fail(err)
	}
	password, err := a.secret("Password")
	if err != nil {
		return a.fail(err)
	}

	if err := a.api.Login(ctx, username, password, ticket); err != nil {
		return a.fail(err)
	}
	a.printf("Logged in.\n")
	return subcommands.ExitSuccess
}

type travelCmd struct{ app *App }

func (*travelCmd) Name() string     { return "travel" }
func (*travelCmd) Synopsis() string { return "open the alternate entrance" }
func (*travelCmd) Usage() string {
	return `travel

  Reads one line. If it is accepted, continues with the login form.
`
}
func (*travelCmd) SetFlags(*flag.FlagSet) {}

func (c *travelCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	phrase, err := c.app.prompt("")
	if err != nil {
		return c.app.fail(err)
	}

	step, err := c.app.api.Gate(ctx, phrase)
	if err != nil {
		return c.app.fail(err)
	}
	return c.app.credentialLogin(ctx, step.Ticket)
}

type logoutCmd struct{ app *App }

func (*logoutCmd) Name() string     { return "logout" }
func (*logoutCmd) Synopsis() string { return "end the session" }
func (*logoutCmd) Usage() string {
	return `logout

  Revokes the refresh token and forgets the local session.
`
}
func (*logoutCmd) SetFlags(*flag.FlagSet) {}

func (c *logoutCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	err := c.app.api.Logout(ctx)
	if err != nil && !errors.Is(err, client.ErrNotLoggedIn) {
		return c.app.fail(err)
	}
	c.app.printf("Logged out.\n")
	return subcommands.ExitSuccess
}
