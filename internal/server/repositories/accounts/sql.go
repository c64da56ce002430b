package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/dbx"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/models"
	"github.com/google/uuid"
)

// SQLRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type SQLRepository struct {
	db  dbx.DBTX
	q   queries
	now func() time.Time
}

// NewPostgresRepository constructs a repository for the pgx driver.
func NewPostgresRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db, q: postgresQueries, now: time.Now}
}

// NewSQLiteRepository constructs a repository for modernc.org/sqlite.
func NewSQLiteRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db, q: sqliteQueries, now: time.Now}
}

// Create inserts the account with a fresh id and version 1. The standard
// username must already be reserved or be reserved in the same transaction.
// A username already held by another account yields common.ErrUsernameTaken.
func (r *SQLRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	now := r.now().UTC()
	account.ID = uuid.NewString()
	account.Version = 1
	account.CreatedAt = now
	account.UpdatedAt = now

	duressName, duressHash := duressColumns(account.Duress)
	res, err := r.db.ExecContext(ctx, r.q.insert,
		account.ID,
		account.Standard.Username,
		account.Standard.PasswordHash,
		duressName,
		duressHash,
		account.TravelMode.Enabled,
		account.TravelMode.HideStats,
		nullTime(account.TravelMode.Until),
		account.Version,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	ok, err := dbx.AffectedOne(res)
	if err != nil {
		return nil, fmt.Errorf("rows affected error: %w", err)
	}
	if !ok {
		return nil, common.ErrUsernameTaken
	}
	return account, nil
}

func (r *SQLRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	return r.selectOne(ctx, r.q.selectByID, id)
}

func (r *SQLRepository) GetByStandardUsername(ctx context.Context, username string) (*models.Account, error) {
	return r.selectOne(ctx, r.q.selectByStandard, username)
}

func (r *SQLRepository) GetByDuressUsername(ctx context.Context, username string) (*models.Account, error) {
	return r.selectOne(ctx, r.q.selectByDuress, username)
}

func (r *SQLRepository) FindTraveling(ctx context.Context, now time.Time) (*models.Account, error) {
	return r.selectOne(ctx, r.q.selectTraveling, now.UTC())
}

func (r *SQLRepository) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var taken bool
	if err := r.db.QueryRowContext(ctx, r.q.usernameTaken, username).Scan(&taken); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return taken, nil
}

func (r *SQLRepository) ReserveUsername(ctx context.Context, accountID, username, kind string) error {
	res, err := r.db.ExecContext(ctx, r.q.reserveUsername, username, accountID, kind)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	ok, err := dbx.AffectedOne(res)
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if !ok {
		return common.ErrUsernameTaken
	}
	return nil
}

func (r *SQLRepository) ReleaseUsername(ctx context.Context, accountID, username string) error {
	if _, err := r.db.ExecContext(ctx, r.q.releaseUsername, username, accountID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) UpdateTravelMode(ctx context.Context, id string, expectedVersion int64, tm models.TravelMode) error {
	return r.compareAndSwap(ctx, r.q.updateTravelMode,
		tm.Enabled, tm.HideStats, nullTime(tm.Until), r.now().UTC(), id, expectedVersion)
}

func (r *SQLRepository) UpdatePassword(ctx context.Context, id string, expectedVersion int64, passwordHash string) error {
	return r.compareAndSwap(ctx, r.q.updatePassword, passwordHash, r.now().UTC(), id, expectedVersion)
}

// UpdateDuress sets the duress credential, or clears it when duress is nil.
func (r *SQLRepository) UpdateDuress(ctx context.Context, id string, expectedVersion int64, duress *models.Credential) error {
	name, hash := duressColumns(duress)
	return r.compareAndSwap(ctx, r.q.updateDuress, name, hash, r.now().UTC(), id, expectedVersion)
}

// Delete removes the account and its usernames. Refresh tokens are removed by
// the refresh token repository in the same transaction.
func (r *SQLRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, r.q.deleteUsernames, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	res, err := r.db.ExecContext(ctx, r.q.deleteAccount, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	ok, err := dbx.AffectedOne(res)
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if !ok {
		return common.ErrorNotFound
	}
	return nil
}

func (r *SQLRepository) compareAndSwap(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	ok, err := dbx.AffectedOne(res)
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if !ok {
		return common.ErrVersionConflict
	}
	return nil
}

func (r *SQLRepository) selectOne(ctx context.Context, query string, arg any) (*models.Account, error) {
	var (
		a          models.Account
		duressName sql.NullString
		duressHash sql.NullString
		until      sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&a.ID,
		&a.Standard.Username,
		&a.Standard.PasswordHash,
		&duressName,
		&duressHash,
		&a.TravelMode.Enabled,
		&a.TravelMode.HideStats,
		&until,
		&a.Version,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if duressName.Valid && duressName.String != "" {
		a.Duress = &models.Credential{Username: duressName.String, PasswordHash: duressHash.String}
	}
	if until.Valid {
		t := until.Time
		a.TravelMode.Until = &t
	}
	return &a, nil
}

func duressColumns(c *models.Credential) (sql.NullString, sql.NullString) {
	if c == nil || c.Username == "" {
		return sql.NullString{}, sql.NullString{}
	}
	return sql.NullString{String: c.Username, Valid: true}, sql.NullString{String: c.PasswordHash, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
