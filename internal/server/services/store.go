package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/dbx"
	"github.com/dmitrijs2005/budgetkeeper/internal/logging"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/models"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/repositories/repomanager"
)

// CredentialUpdate describes one credential change. Exactly one of the
// fields is expected to be set.
type CredentialUpdate struct {
	PasswordHash string
	Duress       *models.Credential
	ClearDuress  bool
}

// CredentialStore is the system of record for accounts. Accounts it returns
// carry a travel mode snapshot already projected to the current time.
//
// Errors: common.ErrorNotFound, common.ErrVersionConflict,
// common.ErrUsernameTaken pass through; anything else, including a timeout,
// is common.ErrStoreUnavailable.
type CredentialStore interface {
	FindByStandardUsername(ctx context.Context, username string) (*models.Account, error)
	FindByDuressUsername(ctx context.Context, username string) (*models.Account, error)
	GetAccount(ctx context.Context, id string) (*models.Account, error)
	// FindTravelingAccount returns the account context for callers without a
	// session: any account whose travel mode is in force.
	FindTravelingAccount(ctx context.Context) (*models.Account, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)

	CreateAccount(ctx context.Context, username, passwordHash string) (*models.Account, error)
	UpdateTravelMode(ctx context.Context, id string, expectedVersion int64, tm models.TravelMode) error
	UpdateCredentials(ctx context.Context, id string, expectedVersion int64, upd CredentialUpdate) error
	DeleteAccount(ctx context.Context, id string) error
}

// TokenStore persists refresh tokens.
type TokenStore interface {
	SaveRefreshToken(ctx context.Context, accountID, token string, mode models.Mode, validity time.Duration) error
	// RotateRefreshToken atomically replaces old with next and returns the
	// consumed row. The new row inherits the old row's mode.
	RotateRefreshToken(ctx context.Context, old, next string, validity time.Duration) (*models.RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, token string) error
	RevokeAllRefreshTokens(ctx context.Context, accountID string) error
}

// SQLStore implements CredentialStore and TokenStore over database/sql.
type SQLStore struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	timeout     time.Duration
	logger      logging.Logger
	now         func() time.Time
}

func NewSQLStore(db *sql.DB, m repomanager.RepositoryManager, timeout time.Duration, logger logging.Logger) *SQLStore {
	return &SQLStore{
		db:          db,
		repomanager: m,
		timeout:     timeout,
		logger:      logger.With("module", "store"),
		now:         time.Now,
	}
}

func (s *SQLStore) FindByStandardUsername(ctx context.Context, username string) (*models.Account, error) {
	return s.lookup(ctx, "find standard", func(ctx context.Context, r accounts.Repository) (*models.Account, error) {
		return r.GetByStandardUsername(ctx, username)
	})
}

func (s *SQLStore) FindByDuressUsername(ctx context.Context, username string) (*models.Account, error) {
	return s.lookup(ctx, "find duress", func(ctx context.Context, r accounts.Repository) (*models.Account, error) {
		return r.GetByDuressUsername(ctx, username)
	})
}

func (s *SQLStore) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	return s.lookup(ctx, "get account", func(ctx context.Context, r accounts.Repository) (*models.Account, error) {
		return r.GetByID(ctx, id)
	})
}

func (s *SQLStore) FindTravelingAccount(ctx context.Context) (*models.Account, error) {
	now := s.now()
	return s.lookup(ctx, "find traveling", func(ctx context.Context, r accounts.Repository) (*models.Account, error) {
		return r.FindTraveling(ctx, now)
	})
}

func (s *SQLStore) UsernameTaken(ctx context.Context, username string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	taken, err := s.repomanager.Accounts(s.db).UsernameTaken(ctx, username)
	if err != nil {
		return false, s.mapError(ctx, "username taken", err)
	}
	return taken, nil
}

func (s *SQLStore) CreateAccount(ctx context.Context, username, passwordHash string) (*models.Account, error) {
	var created *models.Account
	err := s.inTx(ctx, "create account", func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Accounts(tx)
		acc, err := repo.Create(ctx, &models.Account{
			Standard: models.Credential{Username: username, PasswordHash: passwordHash},
		})
		if err != nil {
			return err
		}
		if err := repo.ReserveUsername(ctx, acc.ID, username, accounts.KindStandard); err != nil {
			return err
		}
		created = acc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *SQLStore) UpdateTravelMode(ctx context.Context, id string, expectedVersion int64, tm models.TravelMode) error {
	return s.inTx(ctx, "update travel mode", func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.Accounts(tx).UpdateTravelMode(ctx, id, expectedVersion, tm)
	})
}

func (s *SQLStore) UpdateCredentials(ctx context.Context, id string, expectedVersion int64, upd CredentialUpdate) error {
	return s.inTx(ctx, "update credentials", func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Accounts(tx)

		current, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current.Version != expectedVersion {
			return common.ErrVersionConflict
		}

		switch {
		case upd.PasswordHash != "":
			return repo.UpdatePassword(ctx, id, expectedVersion, upd.PasswordHash)

		case upd.Duress != nil:
			if current.HasDuress() && current.Duress.Username != upd.Duress.Username {
				if err := repo.ReleaseUsername(ctx, id, current.Duress.Username); err != nil {
					return err
				}
			}
			if !current.HasDuress() || current.Duress.Username != upd.Duress.Username {
				if err := repo.ReserveUsername(ctx, id, upd.Duress.Username, accounts.KindDuress); err != nil {
					return err
				}
			}
			return repo.UpdateDuress(ctx, id, expectedVersion, upd.Duress)

		case upd.ClearDuress:
			if current.HasDuress() {
				if err := repo.ReleaseUsername(ctx, id, current.Duress.Username); err != nil {
					return err
				}
			}
			return repo.UpdateDuress(ctx, id, expectedVersion, nil)

		default:
			return fmt.Errorf("%w: empty credential update", common.ErrorValidation)
		}
	})
}

func (s *SQLStore) DeleteAccount(ctx context.Context, id string) error {
	return s.inTx(ctx, "delete account", func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.RefreshTokens(tx).DeleteByAccount(ctx, id); err != nil {
			return err
		}
		return s.repomanager.Accounts(tx).Delete(ctx, id)
	})
}

func (s *SQLStore) SaveRefreshToken(ctx context.Context, accountID, token string, mode models.Mode, validity time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.repomanager.RefreshTokens(s.db).Create(ctx, accountID, token, mode, validity); err != nil {
		return s.mapError(ctx, "save refresh token", err)
	}
	return nil
}

func (s *SQLStore) RotateRefreshToken(ctx context.Context, old, next string, validity time.Duration) (*models.RefreshToken, error) {
	var (
		consumed *models.RefreshToken
		expired  bool
	)
	err := s.inTx(ctx, "rotate refresh token", func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.RefreshTokens(tx)

		token, err := repo.Find(ctx, old)
		if err != nil {
			return err
		}
		if err := repo.Delete(ctx, old); err != nil {
			return err
		}
		// an expired token is still consumed
		if token.Expires.Before(s.now()) {
			expired = true
			return nil
		}
		if err := repo.Create(ctx, token.AccountID, next, token.Mode, validity); err != nil {
			return err
		}
		consumed = token
		return nil
	})
	if err != nil {
		return nil, err
	}
	if expired {
		return nil, common.ErrRefreshTokenExpired
	}
	return consumed, nil
}

func (s *SQLStore) RevokeRefreshToken(ctx context.Context, token string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.repomanager.RefreshTokens(s.db).Delete(ctx, token); err != nil {
		return s.mapError(ctx, "revoke refresh token", err)
	}
	return nil
}

func (s *SQLStore) RevokeAllRefreshTokens(ctx context.Context, accountID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.repomanager.RefreshTokens(s.db).DeleteByAccount(ctx, accountID); err != nil {
		return s.mapError(ctx, "revoke refresh tokens", err)
	}
	return nil
}

func (s *SQLStore) lookup(ctx context.Context, op string, fn func(context.Context, accounts.Repository) (*models.Account, error)) (*models.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	acc, err := fn(ctx, s.repomanager.Accounts(s.db))
	if err != nil {
		return nil, s.mapError(ctx, op, err)
	}
	acc.TravelMode = acc.TravelMode.Snapshot(s.now())
	return acc, nil
}

// inTx runs fn in a transaction under the store timeout. A cancelled or
// expired context rolls the whole change back.
func (s *SQLStore) inTx(ctx context.Context, op string, fn func(context.Context, dbx.DBTX) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := dbx.WithTx(ctx, s.db, nil, fn); err != nil {
		return s.mapError(ctx, op, err)
	}
	return nil
}

func (s *SQLStore) mapError(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, common.ErrorNotFound),
		errors.Is(err, common.ErrVersionConflict),
		errors.Is(err, common.ErrUsernameTaken),
		errors.Is(err, common.ErrorValidation):
		return err
	}
	s.logger.Error(ctx, "credential store failure", "op", op, "error", err)
	return fmt.Errorf("%w: %s", common.ErrStoreUnavailable, op)
}
