// Package session keeps the CLI session tokens in the local database and
// decodes their claims for display.
package session

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/budgetkeeper/internal/client/models"
	"github.com/dmitrijs2005/budgetkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/budgetkeeper/internal/dbx"
)

const (
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
)

// Store implements client.TokenStore over the metadata table.
type Store struct {
	db   *sql.DB
	repo metadata.Repository
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, repo: metadata.NewSQLiteRepository(db)}
}

// Load returns the stored tokens; zero Tokens when logged out.
func (s *Store) Load(ctx context.Context) (models.Tokens, error) {
	m, err := s.repo.List(ctx)
	if err != nil {
		return models.Tokens{}, err
	}
	return models.Tokens{AccessToken: m[keyAccessToken], RefreshToken: m[keyRefreshToken]}, nil
}

// Save replaces both tokens in one transaction.
func (s *Store) Save(ctx context.Context, t models.Tokens) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, keyAccessToken, t.AccessToken); err != nil {
			return err
		}
		return repo.Set(ctx, keyRefreshToken, t.RefreshToken)
	})
}

func (s *Store) Clear(ctx context.Context) error {
	return s.repo.Delete(ctx, keyAccessToken, keyRefreshToken)
}
