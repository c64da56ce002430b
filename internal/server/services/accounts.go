package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/cryptox"
	"github.com/dmitrijs2005/budgetkeeper/internal/logging"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/models"
)

// maxUpdateAttempts bounds compare-and-swap retries of one settings change.
const maxUpdateAttempts = 3

// AccountDataCleaner drops data kept outside the Credential Store when an
// account is deleted.
type AccountDataCleaner interface {
	Forget(accountID string)
}

// AccountView is what an unmasked session may see about its account. Panic
// sessions get no settings.
type AccountView struct {
	ID        string
	Username  string
	CreatedAt time.Time
	Settings  *SettingsView
}

type SettingsView struct {
	TravelMode     models.TravelMode
	DuressUsername string
}

// AccountService handles registration and owner settings. Every mutation
// requires a standard session.
type AccountService struct {
	store   CredentialStore
	tokens  TokenStore
	hasher  *cryptox.Hasher
	cleaner AccountDataCleaner
	logger  logging.Logger
}

func NewAccountService(store CredentialStore, tokens TokenStore, hasher *cryptox.Hasher, cleaner AccountDataCleaner, logger logging.Logger) *AccountService {
	return &AccountService{
		store:   store,
		tokens:  tokens,
		hasher:  hasher,
		cleaner: cleaner,
		logger:  logger.With("module", "accounts"),
	}
}

// Register creates an account with a standard credential only.
func (s *AccountService) Register(ctx context.Context, username, password, confirm string) (*models.Account, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validateNewPassword(password, confirm); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	acc, err := s.store.CreateAccount(ctx, username, hash)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "account registered", "account_id", acc.ID)
	return acc, nil
}

// View renders the account for an unmasked decision.
func (s *AccountService) View(d *Decision) (*AccountView, error) {
	if d.Account == nil || d.Verdict.Masked {
		return nil, common.ErrorNotFound
	}
	v := &AccountView{
		ID:        d.Account.ID,
		Username:  d.Account.Standard.Username,
		CreatedAt: d.Account.CreatedAt,
	}
	if d.Standard() {
		v.Settings = &SettingsView{TravelMode: d.Account.TravelMode}
		if d.Account.HasDuress() {
			v.Settings.DuressUsername = d.Account.Duress.Username
		}
	}
	return v, nil
}

// SetTravelMode replaces the travel mode configuration. A past Until is
// rejected.
func (s *AccountService) SetTravelMode(ctx context.Context, d *Decision, tm models.TravelMode) error {
	if err := requireStandard(d); err != nil {
		return err
	}
	if tm.Until != nil && !tm.Until.After(time.Now()) {
		return validationError("travel mode end must be in the future")
	}
	if !tm.Enabled {
		tm.Until = nil
	}

	return s.update(ctx, d.Session.Subject, func(acc *models.Account) error {
		return s.store.UpdateTravelMode(ctx, acc.ID, acc.Version, tm)
	})
}

// SetDuress sets or replaces the duress credential.
func (s *AccountService) SetDuress(ctx context.Context, d *Decision, username, password string) error {
	if err := requireStandard(d); err != nil {
		return err
	}
	if err := validateUsername(username); err != nil {
		return err
	}
	if err := validatePassword(password); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return common.ErrorInternal
	}

	return s.update(ctx, d.Session.Subject, func(acc *models.Account) error {
		if acc.Standard.Username == username {
			return validationError("duress username must be different from the standard username")
		}
		return s.store.UpdateCredentials(ctx, acc.ID, acc.Version, CredentialUpdate{
			Duress: &models.Credential{Username: username, PasswordHash: hash},
		})
	})
}

func (s *AccountService) ClearDuress(ctx context.Context, d *Decision) error {
	if err := requireStandard(d); err != nil {
		return err
	}
	return s.update(ctx, d.Session.Subject, func(acc *models.Account) error {
		return s.store.UpdateCredentials(ctx, acc.ID, acc.Version, CredentialUpdate{ClearDuress: true})
	})
}

// ChangePassword replaces the standard password and revokes every refresh
// token of the account.
func (s *AccountService) ChangePassword(ctx context.Context, d *Decision, current, next, confirm string) error {
	if err := requireStandard(d); err != nil {
		return err
	}
	if err := validateNewPassword(next, confirm); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return common.ErrorInternal
	}

	err = s.update(ctx, d.Session.Subject, func(acc *models.Account) error {
		if ok, _ := s.hasher.Verify(current, acc.Standard.PasswordHash); !ok {
			return validationError("current password is incorrect")
		}
		return s.store.UpdateCredentials(ctx, acc.ID, acc.Version, CredentialUpdate{PasswordHash: hash})
	})
	if err != nil {
		return err
	}
	return s.tokens.RevokeAllRefreshTokens(ctx, d.Session.Subject)
}

// DeleteAccount removes the account after confirming the standard password.
func (s *AccountService) DeleteAccount(ctx context.Context, d *Decision, password string) error {
	if err := requireStandard(d); err != nil {
		return err
	}

	acc, err := s.store.GetAccount(ctx, d.Session.Subject)
	if err != nil {
		return err
	}
	if ok, _ := s.hasher.Verify(password, acc.Standard.PasswordHash); !ok {
		return validationError("password is incorrect")
	}

	if err := s.store.DeleteAccount(ctx, acc.ID); err != nil {
		return err
	}
	if s.cleaner != nil {
		s.cleaner.Forget(acc.ID)
	}
	s.logger.Info(ctx, "account deleted", "account_id", acc.ID)
	return nil
}

// update re-reads the account and applies fn, retrying when another writer
// bumped the version in between.
func (s *AccountService) update(ctx context.Context, id string, fn func(acc *models.Account) error) error {
	var err error
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		var acc *models.Account
		acc, err = s.store.GetAccount(ctx, id)
		if err != nil {
			return err
		}
		err = fn(acc)
		if !errors.Is(err, common.ErrVersionConflict) {
			return err
		}
	}
	return err
}

func requireStandard(d *Decision) error {
	if d == nil || !d.Authenticated() {
		return common.ErrorUnauthorized
	}
	if d.Session.Mode != models.ModeStandard {
		return common.ErrPanicModeForbidden
	}
	if d.Verdict.Masked {
		return common.ErrorNotFound
	}
	return nil
}
