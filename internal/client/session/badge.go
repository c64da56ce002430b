package session

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Badge reads the mode claim of an access token without verifying it and
// returns a label for the prompt: "duress" for panic sessions, empty
// otherwise. The claim only shapes output; the server decides access.
func Badge(accessToken string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return "", fmt.Errorf("decode token: %w", err)
	}

	mode, _ := claims["mode"].(string)
	if mode == "panic" {
		return "duress", nil
	}
	return "", nil
}
