// Package accounts declares the account repository contract and its SQL
// implementations for PostgreSQL and SQLite.
package accounts

import (
	"context"
	"time"

	"github.com/dmitrijs2005/budgetkeeper/internal/server/models"
)

// Username kinds stored in the shared username namespace.
const (
	KindStandard = "standard"
	KindDuress   = "duress"
)

// Repository persists accounts. Lookups return common.ErrorNotFound when no
// row matches. Update* methods compare-and-swap on the account version and
// return common.ErrVersionConflict when it moved.
type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByStandardUsername(ctx context.Context, username string) (*models.Account, error)
	GetByDuressUsername(ctx context.Context, username string) (*models.Account, error)
	// FindTraveling returns any account whose travel mode is in force at now.
	FindTraveling(ctx context.Context, now time.Time) (*models.Account, error)

	UsernameTaken(ctx context.Context, username string) (bool, error)
	// ReserveUsername claims username for accountID; common.ErrUsernameTaken
	// if it is already claimed by anyone.
	ReserveUsername(ctx context.Context, accountID, username, kind string) error
	ReleaseUsername(ctx context.Context, accountID, username string) error

	UpdateTravelMode(ctx context.Context, id string, expectedVersion int64, tm models.TravelMode) error
	UpdatePassword(ctx context.Context, id string, expectedVersion int64, passwordHash string) error
	UpdateDuress(ctx context.Context, id string, expectedVersion int64, duress *models.Credential) error

	Delete(ctx context.Context, id string) error
}
