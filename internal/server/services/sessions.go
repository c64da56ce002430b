// Package services holds the server's business logic: the Credential Store,
// the Session Issuer, access decisions and account settings.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/cryptox"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/auth"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/config"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/models"
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// SessionService verifies credential pairs and issues session tokens.
// It never logs authentication attempts.
type SessionService struct {
	store                        CredentialStore
	tokens                       TokenStore
	hasher                       *cryptox.Hasher
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

func NewSessionService(store CredentialStore, tokens TokenStore, hasher *cryptox.Hasher, cfg *config.Config) *SessionService {
	return &SessionService{
		store:                        store,
		tokens:                       tokens,
		hasher:                       hasher,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Authenticate issues a token pair for a standard or duress credential pair.
// Both credential sets are always looked up and both hashes verified (a
// dummy hash stands in for a miss), so every failure costs the same and
// returns common.ErrInvalidCredentials. A standard match wins.
func (s *SessionService) Authenticate(ctx context.Context, username, password string) (*TokenPair, error) {
	standard, err := s.store.FindByStandardUsername(ctx, username)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}
	duress, err := s.store.FindByDuressUsername(ctx, username)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	var standardHash, duressHash string
	if standard != nil {
		standardHash = standard.Standard.PasswordHash
	}
	if duress != nil && duress.HasDuress() {
		duressHash = duress.Duress.PasswordHash
	}

	standardOK := s.verify(password, standardHash)
	duressOK := s.verify(password, duressHash)

	switch {
	case standardOK:
		return s.generateTokenPair(ctx, standard.ID, models.ModeStandard)
	case duressOK:
		return s.generateTokenPair(ctx, duress.ID, models.ModePanic)
	default:
		return nil, common.ErrInvalidCredentials
	}
}

// verify treats a malformed stored hash as a mismatch.
func (s *SessionService) verify(password, encoded string) bool {
	ok, err := s.hasher.Verify(password, encoded)
	return err == nil && ok
}

// RefreshToken rotates a refresh token. The new pair keeps the mode the
// refresh token was issued with.
func (s *SessionService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	next, err := s.generateRefreshToken()
	if err != nil {
		return nil, common.ErrorInternal
	}

	token, err := s.tokens.RotateRefreshToken(ctx, refreshToken, next, s.refreshTokenValidityDuration)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, err
	}

	if _, err := s.store.GetAccount(ctx, token.AccountID); err != nil {
		_ = s.tokens.RevokeRefreshToken(ctx, next)
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, err
	}

	accessToken, err := auth.GenerateToken(token.AccountID, token.Mode, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: accessToken, RefreshToken: next}, nil
}

// Logout revokes a refresh token. Unknown tokens are not an error.
func (s *SessionService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.tokens.RevokeRefreshToken(ctx, refreshToken)
}

// ParseSession verifies an access token.
func (s *SessionService) ParseSession(token string) (*auth.Session, error) {
	return auth.ParseToken(token, s.jwtSecret)
}

func (s *SessionService) generateRefreshToken() (string, error) {
	return common.MakeRandHexString(32)
}

func (s *SessionService) generateTokenPair(ctx context.Context, accountID string, mode models.Mode) (*TokenPair, error) {
	accessToken, err := auth.GenerateToken(accountID, mode, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	refreshToken, err := s.generateRefreshToken()
	if err != nil {
		return nil, common.ErrorInternal
	}

	if err := s.tokens.SaveRefreshToken(ctx, accountID, refreshToken, mode, s.refreshTokenValidityDuration); err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
