// Package refreshtokens provides SQL-backed repositories for managing
// refresh tokens used in the server's authentication flow.
package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/dbx"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/models"
)

type queries struct {
	insert          string
	find            string
	delete          string
	deleteByAccount string
}

var postgresQueries = queries{
	insert: `
		INSERT INTO refresh_tokens (user_id, token, mode, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`,
	find: `
		SELECT id, user_id, mode, expires_at, created_at
		FROM refresh_tokens
		WHERE token = $1
	`,
	delete: `
		DELETE FROM refresh_tokens
		WHERE token = $1
	`,
	deleteByAccount: `
		DELETE FROM refresh_tokens
		WHERE user_id = $1
	`,
}

var sqliteQueries = queries{
	insert: `
		INSERT INTO refresh_tokens (user_id, token, mode, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)
	`,
	find: `
		SELECT id, user_id, mode, expires_at, created_at
		FROM refresh_tokens
		WHERE token = ?
	`,
	delete: `
		DELETE FROM refresh_tokens
		WHERE token = ?
	`,
	deleteByAccount: `
		DELETE FROM refresh_tokens
		WHERE user_id = ?
	`,
}

// SQLRepository implements CRUD operations for refresh tokens over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type SQLRepository struct {
	db dbx.DBTX
	q  queries
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db, q: postgresQueries}
}

// NewSQLiteRepository constructs a repository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db, q: sqliteQueries}
}

// Create inserts a new refresh token for accountID with an expiry time of now+validity.
func (r *SQLRepository) Create(ctx context.Context, accountID string, token string, mode models.Mode, validity time.Duration) error {
	now := time.Now().UTC()
	if _, err := r.db.ExecContext(ctx, r.q.insert, accountID, token, string(mode), now.Add(validity), now); err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	return nil
}

// Find returns the refresh token row for the given token string.
// If not found, it returns common.ErrorNotFound.
func (r *SQLRepository) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	refreshToken := &models.RefreshToken{Token: token}
	var mode string
	err := r.db.QueryRowContext(ctx, r.q.find, token).
		Scan(&refreshToken.ID, &refreshToken.AccountID, &mode, &refreshToken.Expires, &refreshToken.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	refreshToken.Mode = models.Mode(mode)
	return refreshToken, nil
}

// Delete removes a refresh token by its token string.
func (r *SQLRepository) Delete(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, r.q.delete, token); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) DeleteByAccount(ctx context.Context, accountID string) error {
	if _, err := r.db.ExecContext(ctx, r.q.deleteByAccount, accountID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
