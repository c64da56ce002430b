package visibility

import (
	"testing"

	"github.com/dmitrijs2005/budgetkeeper/internal/server/auth"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
)

func account(enabled, hideStats bool) *models.Account {
	return &models.Account{
		ID:         "acc-1",
		Standard:   models.Credential{Username: "alice"},
		TravelMode: models.TravelMode{Enabled: enabled, HideStats: hideStats},
	}
}

func session(mode models.Mode) *auth.Session {
	return &auth.Session{Subject: "acc-1", Mode: mode}
}

func TestResolve_DecisionTable(t *testing.T) {
	tests := []struct {
		name    string
		session *auth.Session
		account *models.Account
		want    Verdict
	}{
		{"no session, travel on", nil, account(true, false), Verdict{Masked: true, DataScope: ScopeRestricted}},
		{"no session, travel off", nil, account(false, false), Verdict{Masked: false, DataScope: ScopeFull}},
		{"no session, no account", nil, nil, Verdict{Masked: false, DataScope: ScopeFull}},
		{"standard, travel on", session(models.ModeStandard), account(true, false), Verdict{Masked: true, DataScope: ScopeRestricted}},
		{"standard, travel on, hide stats", session(models.ModeStandard), account(true, true), Verdict{Masked: true, DataScope: ScopeRestricted}},
		{"standard, travel off", session(models.ModeStandard), account(false, false), Verdict{Masked: false, DataScope: ScopeFull}},
		{"standard, travel off, hide stats", session(models.ModeStandard), account(false, true), Verdict{Masked: false, DataScope: ScopeFull}},
		{"panic, travel on", session(models.ModePanic), account(true, false), Verdict{Masked: false, DataScope: ScopeFull}},
		{"panic, travel on, hide stats", session(models.ModePanic), account(true, true), Verdict{Masked: false, DataScope: ScopeRestricted}},
		{"panic, travel off", session(models.ModePanic), account(false, false), Verdict{Masked: false, DataScope: ScopeFull}},
		{"panic, travel off, hide stats", session(models.ModePanic), account(false, true), Verdict{Masked: false, DataScope: ScopeRestricted}},
		{"session without account", session(models.ModePanic), nil, Verdict{Masked: true, DataScope: ScopeRestricted}},
		{"session for another account", &auth.Session{Subject: "acc-2", Mode: models.ModePanic}, account(false, false), Verdict{Masked: true, DataScope: ScopeRestricted}},
		{"unknown mode", session("root"), account(false, false), Verdict{Masked: true, DataScope: ScopeRestricted}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.session, tt.account))
		})
	}
}

func TestResolve_Idempotent(t *testing.T) {
	sessions := []*auth.Session{nil, session(models.ModeStandard), session(models.ModePanic)}
	for _, s := range sessions {
		for _, enabled := range []bool{false, true} {
			for _, hide := range []bool{false, true} {
				acc := account(enabled, hide)
				first := Resolve(s, acc)
				second := Resolve(s, acc)
				assert.Equal(t, first, second)
			}
		}
	}
}

func TestResolve_DoesNotMutateInputs(t *testing.T) {
	acc := account(true, true)
	s := session(models.ModePanic)
	before := *acc
	_ = Resolve(s, acc)
	assert.Equal(t, before, *acc)
	assert.Equal(t, models.ModePanic, s.Mode)
}

func TestProbe(t *testing.T) {
	assert.True(t, Probe(account(true, false)).Masked)
	assert.False(t, Probe(account(false, true)).Masked)
	assert.False(t, Probe(nil).Masked)
}

func TestFailClosed(t *testing.T) {
	v := FailClosed()
	assert.True(t, v.Masked)
	assert.Equal(t, ScopeRestricted, v.DataScope)
}
