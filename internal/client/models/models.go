// Package models defines the data the budgetkeeper CLI exchanges with the
// server and keeps locally.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tokens is the current session. An empty AccessToken means logged out.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (t Tokens) Empty() bool {
	return t.AccessToken == "" && t.RefreshToken == ""
}

type TravelMode struct {
	Enabled   bool       `json:"enabled"`
	HideStats bool       `json:"hide_stats"`
	Until     *time.Time `json:"until,omitempty"`
}

type Settings struct {
	TravelMode     TravelMode `json:"travel_mode"`
	DuressUsername string     `json:"duress_username,omitempty"`
}

// Account is the server's account view. Settings is nil when the session
// may not see them.
type Account struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	Settings  *Settings `json:"settings,omitempty"`
}

type CategoryTotal struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

type Summary struct {
	Month        string          `json:"month"`
	Currency     string          `json:"currency"`
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Balance      decimal.Decimal `json:"balance"`
	Categories   []CategoryTotal `json:"categories"`
}

// GateStep is the stealth gate answer: the step to show next and, once the
// phrase matched, the ticket for the credential form.
type GateStep struct {
	Step   string `json:"step"`
	Ticket string `json:"ticket"`
}
