package stealth

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGate() *Gate {
	return NewGate("travel", []byte("gate-secret"), time.Minute)
}

func TestGate_Submit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Step
		ok    bool
	}{
		{"exact", "travel", StepCredentials, true},
		{"upper case", "TRAVEL", StepCredentials, true},
		{"mixed case", "TrAvEl", StepCredentials, true},
		{"surrounding whitespace", "  travel\n", StepCredentials, true},
		{"suffix", "travel2", StepTrigger, false},
		{"prefix", "xtravel", StepTrigger, false},
		{"empty", "", StepTrigger, false},
		{"inner space", "tra vel", StepTrigger, false},
	}

	g := newTestGate()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := g.Submit(tt.input)
			assert.Equal(t, tt.want, res.Step)
			if tt.ok {
				require.NoError(t, err)
				assert.NotEmpty(t, res.Ticket)
				assert.True(t, g.Admit(res.Ticket))
			} else {
				assert.ErrorIs(t, err, common.ErrGateDenied)
				assert.Empty(t, res.Ticket)
			}
		})
	}
}

func TestGate_DenialDoesNotLockOut(t *testing.T) {
	g := newTestGate()
	for i := 0; i < 20; i++ {
		_, err := g.Submit("wrong")
		require.ErrorIs(t, err, common.ErrGateDenied)
	}
	res, err := g.Submit("Travel")
	require.NoError(t, err)
	assert.Equal(t, StepCredentials, res.Step)
}

func TestGate_DefaultPhrase(t *testing.T) {
	g := NewGate("  ", []byte("k"), time.Minute)
	res, err := g.Submit("travel")
	require.NoError(t, err)
	assert.Equal(t, StepCredentials, res.Step)
}

func TestGate_CustomPhrase(t *testing.T) {
	g := NewGate("Open Sesame", []byte("k"), time.Minute)

	_, err := g.Submit("travel")
	assert.ErrorIs(t, err, common.ErrGateDenied)

	res, err := g.Submit("open sesame")
	require.NoError(t, err)
	assert.Equal(t, StepCredentials, res.Step)
}

func TestGate_Admit(t *testing.T) {
	g := newTestGate()
	other := NewGate("travel", []byte("other-secret"), time.Minute)

	res, err := other.Submit("travel")
	require.NoError(t, err)

	assert.False(t, g.Admit(res.Ticket))
	assert.False(t, g.Admit(""))

	expired := NewGate("travel", []byte("gate-secret"), -time.Second)
	res, err = expired.Submit("travel")
	require.NoError(t, err)
	assert.False(t, g.Admit(res.Ticket))
}

func TestStep_String(t *testing.T) {
	assert.Equal(t, "trigger", StepTrigger.String())
	assert.Equal(t, "credentials", StepCredentials.String())
	assert.Equal(t, "unknown", Step(0).String())
}
