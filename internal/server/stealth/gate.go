// Package stealth implements the trigger-phrase gate in front of the duress
// login form.
package stealth

import (
	"crypto/sha256"
	"crypto/subtle"
	"strings"
	"time"

	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/auth"
)

const DefaultTriggerPhrase = "travel"

// Step is the gate phase the caller is in after a submission.
type Step int

const (
	StepTrigger Step = iota + 1
	StepCredentials
)

func (s Step) String() string {
	switch s {
	case StepTrigger:
		return "trigger"
	case StepCredentials:
		return "credentials"
	default:
		return "unknown"
	}
}

// Result of a successful phase 1 submission.
type Result struct {
	Step   Step
	Ticket string
}

type Gate struct {
	phrase         [sha256.Size]byte
	secretKey      []byte
	ticketValidity time.Duration
}

func NewGate(phrase string, secretKey []byte, ticketValidity time.Duration) *Gate {
	if strings.TrimSpace(phrase) == "" {
		phrase = DefaultTriggerPhrase
	}
	return &Gate{
		phrase:         digest(phrase),
		secretKey:      secretKey,
		ticketValidity: ticketValidity,
	}
}

// digest normalizes input and hashes it so the comparison runs over a fixed
// length regardless of what was typed.
func digest(s string) [sha256.Size]byte {
	return sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(s))))
}

// Submit checks a phase 1 input. Each call is independent; there is no
// lockout and no account is consulted.
func (g *Gate) Submit(input string) (Result, error) {
	got := digest(input)
	if subtle.ConstantTimeCompare(got[:], g.phrase[:]) != 1 {
		return Result{Step: StepTrigger}, common.ErrGateDenied
	}

	ticket, err := auth.GenerateGateTicket(g.secretKey, g.ticketValidity)
	if err != nil {
		return Result{Step: StepTrigger}, err
	}
	return Result{Step: StepCredentials, Ticket: ticket}, nil
}

// Admit reports whether ticket was issued by this gate and is still valid.
func (g *Gate) Admit(ticket string) bool {
	return auth.VerifyGateTicket(ticket, g.secretKey) == nil
}
