package models

import "time"

// RefreshToken is a server-side session row. Mode is copied from the session
// that created it, so a rotation never changes the mode.
type RefreshToken struct {
	ID        string
	AccountID string
	Token     string
	Mode      Mode
	Expires   time.Time
	CreatedAt time.Time
}
