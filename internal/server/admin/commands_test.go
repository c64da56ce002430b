package admin

import (
	"bytes"
	"context"
	"flag"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/budgetkeeper/internal/logging"
	"github.com/dmitrijs2005/budgetkeeper/internal/server"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/config"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/models"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/services"
	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DatabaseDSN = "file:" + filepath.Join(t.TempDir(), "admin.db")
	return cfg
}

func execute(t *testing.T, cfg *config.Config, args ...string) (subcommands.ExitStatus, string) {
	t.Helper()
	var out bytes.Buffer
	fs := flag.NewFlagSet("admin", flag.ContinueOnError)
	commander := subcommands.NewCommander(fs, "admin")
	for _, c := range Commands(cfg, &out) {
		commander.Register(c, "")
	}
	require.NoError(t, fs.Parse(args))
	return commander.Execute(context.Background()), out.String()
}

func TestMigrate(t *testing.T) {
	status, out := execute(t, testConfig(t), "migrate")
	assert.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, out, "migrations applied")
}

func TestTravelOff(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	db, m, err := server.OpenDatabase(ctx, cfg)
	require.NoError(t, err)
	store := services.NewSQLStore(db, m, cfg.StoreTimeout, logging.NewNopLogger())
	acc, err := store.CreateAccount(ctx, "alice", "hash")
	require.NoError(t, err)
	require.NoError(t, store.UpdateTravelMode(ctx, acc.ID, acc.Version, models.TravelMode{Enabled: true, HideStats: true}))
	require.NoError(t, db.Close())

	status, out := execute(t, cfg, "travel-off", "-user", "alice")
	assert.Equal(t, subcommands.ExitSuccess, status, out)

	db, m, err = server.OpenDatabase(ctx, cfg)
	require.NoError(t, err)
	defer db.Close()
	store = services.NewSQLStore(db, m, cfg.StoreTimeout, logging.NewNopLogger())
	got, err := store.GetAccount(ctx, acc.ID)
	require.NoError(t, err)
	assert.False(t, got.TravelMode.Enabled)
	assert.False(t, got.TravelMode.HideStats)
}

func TestTravelOff_Errors(t *testing.T) {
	cfg := testConfig(t)

	status, _ := execute(t, cfg, "travel-off")
	assert.Equal(t, subcommands.ExitUsageError, status)

	status, out := execute(t, cfg, "travel-off", "-user", "nobody")
	assert.Equal(t, subcommands.ExitFailure, status)
	assert.Contains(t, out, "not found")
}
