package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/budgetkeeper/internal/client/client"
	"github.com/dmitrijs2005/budgetkeeper/internal/client/config"
	"github.com/dmitrijs2005/budgetkeeper/internal/client/session"
	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/filex"
	"github.com/google/subcommands"
)

// App holds what every command needs: the API client, the session store and
// the terminal streams.
type App struct {
	api    client.Client
	tokens client.TokenStore
	reader *bufio.Reader
	out    io.Writer
	closer io.Closer
}

// NewApp opens the session database named in c and connects the API client
// to it.
func NewApp(ctx context.Context, c *config.Config, in io.Reader, out io.Writer) (*App, error) {
	if _, err := filex.EnsureParentDir(c.SessionDBPath); err != nil {
		return nil, fmt.Errorf("session directory: %w", err)
	}

	db, err := client.InitDatabase(ctx, c.SessionDBPath)
	if err != nil {
		return nil, fmt.Errorf("open session database: %w", err)
	}

	tokens := session.NewStore(db)
	api := client.NewHTTPClient(c.ServerURL, c.GatePath, c.RequestTimeout, tokens)

	a := newApp(api, tokens, in, out)
	a.closer = db
	return a, nil
}

func newApp(api client.Client, tokens client.TokenStore, in io.Reader, out io.Writer) *App {
	return &App{api: api, tokens: tokens, reader: bufio.NewReader(in), out: out}
}

func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// Commands returns the CLI subcommands bound to a.
func (a *App) Commands() []subcommands.Command {
	return []subcommands.Command{
		&probeCmd{app: a},
		&registerCmd{app: a},
		&loginCmd{app: a},
		&travelCmd{app: a},
		&logoutCmd{app: a},
		&meCmd{app: a},
		&summaryCmd{app: a},
		&travelModeCmd{app: a},
		&duressCmd{app: a},
		&passwordCmd{app: a},
		&deleteAccountCmd{app: a},
	}
}

func (a *App) prompt(label string) (string, error) {
	return GetSimpleText(a.reader, label, a.out)
}

// secret reads a password and returns it as a string, wiping the buffer.
func (a *App) secret(label string) (string, error) {
	pw, err := GetPassword(a.reader, label, a.out)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(pw)
	return string(pw), nil
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// fail prints a user-facing message for err. Masked surfaces, missing
// resources and gate denials all print the same "Not Found".
func (a *App) fail(err error) subcommands.ExitStatus {
	switch {
	case errors.Is(err, client.ErrNotFound), errors.Is(err, client.ErrGateDenied):
		a.printf("Not Found\n")
	case errors.Is(err, client.ErrInvalidCredentials):
		a.printf("Incorrect username or password\n")
	case errors.Is(err, client.ErrNotLoggedIn):
		a.printf("Not logged in. Run login first.\n")
	case errors.Is(err, client.ErrUnauthorized):
		a.printf("Session expired. Run login again.\n")
	case errors.Is(err, client.ErrRejected):
		a.printf("Error: %s\n", strings.TrimPrefix(err.Error(), client.ErrRejected.Error()+": "))
	default:
		a.printf("Error: %v\n", err)
	}
	return subcommands.ExitFailure
}
