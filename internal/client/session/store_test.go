package session

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/budgetkeeper/internal/client/client"
	"github.com/dmitrijs2005/budgetkeeper/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(db)
}

func TestStore_LoadEmpty(t *testing.T) {
	s := newStore(t)

	tok, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, tok.Empty())
}

func TestStore_SaveLoadClear(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, models.Tokens{AccessToken: "a1", RefreshToken: "r1"}))
	require.NoError(t, s.Save(ctx, models.Tokens{AccessToken: "a2", RefreshToken: "r2"}))

	tok, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Tokens{AccessToken: "a2", RefreshToken: "r2"}, tok)

	require.NoError(t, s.Clear(ctx))
	tok, err = s.Load(ctx)
	require.NoError(t, err)
	assert.True(t, tok.Empty())
}

func TestStore_ImplementsTokenStore(t *testing.T) {
	var _ client.TokenStore = newStore(t)
}
