package server

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/config"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DatabaseDSN = "file:" + t.Name() + "?mode=memory&cache=shared"
	cfg.EndpointAddrHTTP = "127.0.0.1:0"
	cfg.EndpointAddrGRPC = "127.0.0.1:0"
	cfg.LogLevel = "error"
	return cfg
}

func TestOpenDatabase_UnknownDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.StoreDriver = "mongodb"

	_, _, err := OpenDatabase(context.Background(), cfg)
	assert.Error(t, err)
}

func TestOpenDatabase_SQLite(t *testing.T) {
	db, m, err := OpenDatabase(context.Background(), testConfig(t))
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, "sqlite", m.SQLDriver())
	_, err = m.Accounts(db).FindTraveling(context.Background(), time.Now())
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	cfg := testConfig(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := NewApp(ctx, cfg)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop after cancel")
	}
}

func TestLoadLedgerSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"id":"1","account_id":"a","date":"2026-03-02T00:00:00Z","kind":"income","category":"salary","amount":"10.50"}
	]`), 0o600))

	source := ledger.NewMemorySource()
	require.NoError(t, loadLedgerSeed(source, path))

	txs, err := source.Transactions(context.Background(), "a",
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, txs, 1)

	assert.Error(t, loadLedgerSeed(source, filepath.Join(t.TempDir(), "missing.json")))
}
