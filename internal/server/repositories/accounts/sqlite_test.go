package accounts

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/migrations"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/models"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func newSQLiteRepo(t *testing.T) *SQLRepository {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	goose.SetBaseFS(migrations.Migrations)
	require.NoError(t, goose.SetDialect("sqlite3"))
	require.NoError(t, goose.UpContext(context.Background(), db, migrations.SQLiteDir))

	return NewSQLiteRepository(db)
}

func createAccount(t *testing.T, repo *SQLRepository, username string) *models.Account {
	t.Helper()
	ctx := context.Background()
	acc, err := repo.Create(ctx, &models.Account{Standard: models.Credential{Username: username, PasswordHash: "hash-" + username}})
	require.NoError(t, err)
	require.NoError(t, repo.ReserveUsername(ctx, acc.ID, username, KindStandard))
	return acc
}

func TestSQLite_CreateAndLookup(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	acc := createAccount(t, repo, "alice")

	byName, err := repo.GetByStandardUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, acc.ID, byName.ID)
	assert.Equal(t, "hash-alice", byName.Standard.PasswordHash)
	assert.Nil(t, byName.Duress)
	assert.False(t, byName.TravelMode.Enabled)
	assert.Equal(t, int64(1), byName.Version)

	byID, err := repo.GetByID(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Standard.Username)

	_, err = repo.GetByStandardUsername(ctx, "nobody")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSQLite_CreateDuplicateStandardUsername(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	first := createAccount(t, repo, "alice")

	_, err := repo.Create(ctx, &models.Account{Standard: models.Credential{Username: "alice", PasswordHash: "other"}})
	assert.ErrorIs(t, err, common.ErrUsernameTaken)

	got, err := repo.GetByStandardUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, "hash-alice", got.Standard.PasswordHash)
}

func TestSQLite_UsernameNamespace(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	alice := createAccount(t, repo, "alice")
	bob := createAccount(t, repo, "bob")

	taken, err := repo.UsernameTaken(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, taken)

	// a duress name cannot shadow another account's standard name
	assert.ErrorIs(t, repo.ReserveUsername(ctx, bob.ID, "alice", KindDuress), common.ErrUsernameTaken)

	require.NoError(t, repo.ReserveUsername(ctx, alice.ID, "ghost", KindDuress))
	assert.ErrorIs(t, repo.ReserveUsername(ctx, bob.ID, "ghost", KindDuress), common.ErrUsernameTaken)

	// releasing requires the owner
	require.NoError(t, repo.ReleaseUsername(ctx, bob.ID, "ghost"))
	taken, err = repo.UsernameTaken(ctx, "ghost")
	require.NoError(t, err)
	assert.True(t, taken)

	require.NoError(t, repo.ReleaseUsername(ctx, alice.ID, "ghost"))
	taken, err = repo.UsernameTaken(ctx, "ghost")
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestSQLite_DuressAndTravelMode(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	acc := createAccount(t, repo, "alice")

	require.NoError(t, repo.UpdateDuress(ctx, acc.ID, 1, &models.Credential{Username: "du", PasswordHash: "dh"}))

	byDuress, err := repo.GetByDuressUsername(ctx, "du")
	require.NoError(t, err)
	assert.Equal(t, acc.ID, byDuress.ID)
	assert.Equal(t, int64(2), byDuress.Version)

	until := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)
	require.NoError(t, repo.UpdateTravelMode(ctx, acc.ID, 2, models.TravelMode{Enabled: true, HideStats: true, Until: &until}))

	// stale version loses
	assert.ErrorIs(t, repo.UpdateTravelMode(ctx, acc.ID, 2, models.TravelMode{}), common.ErrVersionConflict)

	got, err := repo.GetByID(ctx, acc.ID)
	require.NoError(t, err)
	assert.True(t, got.TravelMode.Enabled)
	assert.True(t, got.TravelMode.HideStats)
	require.NotNil(t, got.TravelMode.Until)
	assert.True(t, until.Equal(*got.TravelMode.Until))
	assert.Equal(t, int64(3), got.Version)

	require.NoError(t, repo.UpdateDuress(ctx, acc.ID, 3, nil))
	_, err = repo.GetByDuressUsername(ctx, "du")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSQLite_FindTraveling(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	_, err := repo.FindTraveling(ctx, now)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	expired := createAccount(t, repo, "expired")
	past := now.Add(-time.Hour)
	require.NoError(t, repo.UpdateTravelMode(ctx, expired.ID, 1, models.TravelMode{Enabled: true, Until: &past}))

	_, err = repo.FindTraveling(ctx, now)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	active := createAccount(t, repo, "active")
	require.NoError(t, repo.UpdateTravelMode(ctx, active.ID, 1, models.TravelMode{Enabled: true}))

	got, err := repo.FindTraveling(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, active.ID, got.ID)
}

func TestSQLite_Delete(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	acc := createAccount(t, repo, "alice")
	require.NoError(t, repo.Delete(ctx, acc.ID))

	_, err := repo.GetByID(ctx, acc.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	taken, err := repo.UsernameTaken(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, taken)

	assert.ErrorIs(t, repo.Delete(ctx, acc.ID), common.ErrorNotFound)
}
