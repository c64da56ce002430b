package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// GateAudience is the audience of tickets minted by the stealth gate. Session
// tokens never carry it, so neither kind can stand in for the other.
const GateAudience = "stealth-gate"

func GenerateGateTicket(secretKey []byte, validityDuration time.Duration) (string, error) {
	id, err := common.MakeRandHexString(16)
	if err != nil {
		return "", err
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        id,
		Audience:  jwt.ClaimStrings{GateAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
	})
	return token.SignedString(secretKey)
}

func VerifyGateTicket(ticket string, secretKey []byte) error {
	if ticket == "" {
		return common.ErrInvalidToken
	}
	_, err := jwt.ParseWithClaims(ticket, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(GateAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return common.ErrTokenExpired
		}
		return common.ErrInvalidToken
	}
	return nil
}
