package client

import (
	"context"

	"github.com/dmitrijs2005/budgetkeeper/internal/client/models"
)

// Client is the budgetkeeper API as the CLI sees it. Session tokens are kept
// by the implementation; callers never pass them around.
type Client interface {
	Probe(ctx context.Context) (bool, error)
	Register(ctx context.Context, username, password, confirm string) (*models.Account, error)
	Gate(ctx context.Context, phrase string) (*models.GateStep, error)
	Login(ctx context.Context, username, password, ticket string) error
	Refresh(ctx context.Context) error
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*models.Account, error)
	Summary(ctx context.Context, month string) (*models.Summary, error)
	SetTravelMode(ctx context.Context, tm models.TravelMode) error
	SetDuress(ctx context.Context, username, password string) error
	ClearDuress(ctx context.Context) error
	ChangePassword(ctx context.Context, current, next, confirm string) error
	DeleteAccount(ctx context.Context, password string) error
}

// TokenStore keeps the session between CLI invocations.
type TokenStore interface {
	Load(ctx context.Context) (models.Tokens, error)
	Save(ctx context.Context, t models.Tokens) error
	Clear(ctx context.Context) error
}
