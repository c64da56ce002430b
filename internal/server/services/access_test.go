package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/auth"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/models"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/visibility"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessCheck_DuressDuringTravel(t *testing.T) {
	store := newTestStore(t)
	sessions := newSessions(store)
	access := NewAccessService(store, []byte(testSecret))
	ctx := context.Background()

	alice := register(t, store, "alice", "secret1")
	setDuress(t, store, alice.ID, "alice-d", "decoy1")
	setTravel(t, store, alice.ID, models.TravelMode{Enabled: true, HideStats: true})

	panicPair, err := sessions.Authenticate(ctx, "alice-d", "decoy1")
	require.NoError(t, err)
	d := access.Check(ctx, panicPair.AccessToken)
	assert.Equal(t, visibility.Verdict{Masked: false, DataScope: visibility.ScopeRestricted}, d.Verdict)
	assert.False(t, d.Standard())
	require.NotNil(t, d.Account)
	assert.Equal(t, alice.ID, d.Account.ID)

	standardPair, err := sessions.Authenticate(ctx, "alice", "secret1")
	require.NoError(t, err)
	d = access.Check(ctx, standardPair.AccessToken)
	assert.True(t, d.Verdict.Masked)
	assert.Nil(t, d.Account)

	d = access.Check(ctx, "")
	assert.True(t, d.Verdict.Masked)
	assert.False(t, d.Authenticated())
}

func TestAccessCheck_NoTravel(t *testing.T) {
	store := newTestStore(t)
	sessions := newSessions(store)
	access := NewAccessService(store, []byte(testSecret))
	ctx := context.Background()

	register(t, store, "alice", "secret1")
	pair, err := sessions.Authenticate(ctx, "alice", "secret1")
	require.NoError(t, err)

	d := access.Check(ctx, pair.AccessToken)
	assert.Equal(t, visibility.Verdict{Masked: false, DataScope: visibility.ScopeFull}, d.Verdict)
	assert.True(t, d.Standard())

	d = access.Check(ctx, "garbage")
	assert.False(t, d.Verdict.Masked)
	assert.False(t, d.Authenticated())
}

func TestAccessCheck_TokenForDeletedAccount(t *testing.T) {
	store := newTestStore(t)
	access := NewAccessService(store, []byte(testSecret))

	tok, err := auth.GenerateToken("ghost", models.ModeStandard, []byte(testSecret), time.Minute)
	require.NoError(t, err)

	d := access.Check(context.Background(), tok)
	assert.True(t, d.Verdict.Masked)
	assert.Nil(t, d.Account)
}

func TestAccessCheck_StoreFailureMasks(t *testing.T) {
	access := NewAccessService(&fakeStore{err: common.ErrStoreUnavailable}, []byte(testSecret))
	ctx := context.Background()

	tok, err := auth.GenerateToken("id", models.ModePanic, []byte(testSecret), time.Minute)
	require.NoError(t, err)

	assert.Equal(t, visibility.FailClosed(), access.Check(ctx, tok).Verdict)
	assert.Equal(t, visibility.FailClosed(), access.Check(ctx, "").Verdict)
	assert.Equal(t, visibility.FailClosed(), access.Probe(ctx))
}

func TestAccessProbe(t *testing.T) {
	store := newTestStore(t)
	access := NewAccessService(store, []byte(testSecret))
	ctx := context.Background()

	assert.False(t, access.Probe(ctx).Masked)

	alice := register(t, store, "alice", "secret1")
	assert.False(t, access.Probe(ctx).Masked)

	past := time.Now().Add(-time.Minute)
	setTravel(t, store, alice.ID, models.TravelMode{Enabled: true, Until: &past})
	assert.False(t, access.Probe(ctx).Masked)

	setTravel(t, store, alice.ID, models.TravelMode{Enabled: true})
	assert.True(t, access.Probe(ctx).Masked)
}
