// Package models defines server-side data models persisted in the database.
package models

import "time"

// Mode is the session mode fixed at token issuance by the credential pair
// that authenticated it.
type Mode string

const (
	ModeStandard Mode = "standard"
	ModePanic    Mode = "panic"
)

func (m Mode) Valid() bool {
	return m == ModeStandard || m == ModePanic
}

// Credential is a username and its Argon2id password hash.
type Credential struct {
	Username     string
	PasswordHash string
}

// TravelMode is the per-account masking configuration.
type TravelMode struct {
	Enabled   bool
	HideStats bool
	// Until, when set, switches travel mode off automatically.
	Until *time.Time
}

// Active reports whether travel mode is in force at now.
func (t TravelMode) Active(now time.Time) bool {
	if !t.Enabled {
		return false
	}
	return t.Until == nil || now.Before(*t.Until)
}

// Snapshot returns a copy with Enabled projected to its value at now.
func (t TravelMode) Snapshot(now time.Time) TravelMode {
	out := t
	out.Enabled = t.Active(now)
	return out
}

type Account struct {
	ID         string
	Standard   Credential
	Duress     *Credential
	TravelMode TravelMode
	// Version is bumped by every settings mutation and used for compare-and-swap.
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (a *Account) HasDuress() bool {
	return a.Duress != nil && a.Duress.Username != ""
}
