package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/budgetkeeper/internal/cryptox"
	"github.com/dmitrijs2005/budgetkeeper/internal/logging"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/config"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/models"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func cheapHasher() *cryptox.Hasher {
	return cryptox.NewHasher(cryptox.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLen: 16, KeyLen: 32})
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                    testSecret,
		AccessTokenValidityDuration:  time.Minute,
		RefreshTokenValidityDuration: time.Hour,
	}
}

// newTestStore opens a migrated in-memory SQLite store private to the test.
func newTestStore(t *testing.T) *SQLStore {
	t.Helper()
	m := repomanager.NewSQLiteRepositoryManager()
	db, err := sql.Open(m.SQLDriver(), "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, m.RunMigrations(context.Background(), db))
	return NewSQLStore(db, m, 2*time.Second, logging.NewNopLogger())
}

// register creates an account with a hashed standard credential.
func register(t *testing.T, store *SQLStore, username, password string) *models.Account {
	t.Helper()
	hash, err := cheapHasher().Hash(password)
	require.NoError(t, err)
	acc, err := store.CreateAccount(context.Background(), username, hash)
	require.NoError(t, err)
	return acc
}

func setDuress(t *testing.T, store *SQLStore, id, username, password string) {
	t.Helper()
	ctx := context.Background()
	hash, err := cheapHasher().Hash(password)
	require.NoError(t, err)
	acc, err := store.GetAccount(ctx, id)
	require.NoError(t, err)
	require.NoError(t, store.UpdateCredentials(ctx, id, acc.Version, CredentialUpdate{
		Duress: &models.Credential{Username: username, PasswordHash: hash},
	}))
}

func setTravel(t *testing.T, store *SQLStore, id string, tm models.TravelMode) {
	t.Helper()
	ctx := context.Background()
	acc, err := store.GetAccount(ctx, id)
	require.NoError(t, err)
	require.NoError(t, store.UpdateTravelMode(ctx, id, acc.Version, tm))
}

// fakeStore is a CredentialStore whose every call fails with err.
type fakeStore struct {
	CredentialStore
	err       error
	traveling *models.Account
	account   *models.Account
}

func (f *fakeStore) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.account, nil
}

func (f *fakeStore) FindTravelingAccount(ctx context.Context) (*models.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.traveling, nil
}

func (f *fakeStore) FindByStandardUsername(ctx context.Context, username string) (*models.Account, error) {
	return nil, f.err
}

func (f *fakeStore) FindByDuressUsername(ctx context.Context, username string) (*models.Account, error) {
	return nil, f.err
}
