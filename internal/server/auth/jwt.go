// Package auth issues and verifies signed session tokens and stealth gate
// tickets.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

// Claims contains the registered claims plus the account id and session mode.
type Claims struct {
	jwt.RegisteredClaims
	UserID string      `json:"user_id"`
	Mode   models.Mode `json:"mode"`
}

// Session is a verified access token.
type Session struct {
	Subject  string
	Mode     models.Mode
	IssuedAt time.Time
	Expiry   time.Time
}

func GenerateToken(userID string, mode models.Mode, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserID: userID,
		Mode:   mode,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies signature and expiry and returns the session.
func ParseToken(tokenString string, secretKey []byte) (*Session, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.UserID == "" || !claims.Mode.Valid() {
		return nil, common.ErrInvalidToken
	}

	s := &Session{
		Subject: claims.UserID,
		Mode:    claims.Mode,
		Expiry:  claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		s.IssuedAt = claims.IssuedAt.Time
	}
	return s, nil
}
