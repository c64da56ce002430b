package session

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("some other key"))
	require.NoError(t, err)
	return s
}

func TestBadge(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		want    string
		wantErr bool
	}{
		{name: "panic", token: signed(t, jwt.MapClaims{"mode": "panic"}), want: "duress"},
		{name: "standard", token: signed(t, jwt.MapClaims{"mode": "standard"}), want: ""},
		{name: "no claim", token: signed(t, jwt.MapClaims{"user_id": "u"}), want: ""},
		{name: "garbage", token: "not-a-token", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Badge(tt.token)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
