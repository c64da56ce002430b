package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/auth"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/models"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/visibility"
)

// Decision is the outcome of one access check.
type Decision struct {
	Verdict visibility.Verdict
	// Session is nil when no valid access token was presented.
	Session *auth.Session
	// Account is set only for an unmasked authenticated decision.
	Account *models.Account
}

func (d *Decision) Authenticated() bool {
	return d.Session != nil
}

// Standard reports whether the decision carries an unmasked standard session.
func (d *Decision) Standard() bool {
	return d.Authenticated() && !d.Verdict.Masked && d.Session.Mode == models.ModeStandard
}

// AccessService applies the visibility rules to a request. The account
// snapshot is read fresh from the store on every call.
type AccessService struct {
	store     CredentialStore
	jwtSecret []byte
}

func NewAccessService(store CredentialStore, jwtSecret []byte) *AccessService {
	return &AccessService{store: store, jwtSecret: jwtSecret}
}

// Check resolves the visibility of a protected resource for the bearer
// token. A missing or invalid token is evaluated as "no session" against the
// public account context. A store failure masks.
func (s *AccessService) Check(ctx context.Context, bearer string) *Decision {
	if bearer == "" {
		return &Decision{Verdict: s.Probe(ctx)}
	}

	session, err := auth.ParseToken(bearer, s.jwtSecret)
	if err != nil {
		return &Decision{Verdict: s.Probe(ctx)}
	}

	account, err := s.store.GetAccount(ctx, session.Subject)
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return &Decision{Verdict: visibility.Resolve(session, nil), Session: session}
	case err != nil:
		return &Decision{Verdict: visibility.FailClosed(), Session: session}
	}

	d := &Decision{Verdict: visibility.Resolve(session, account), Session: session}
	if !d.Verdict.Masked {
		d.Account = account
	}
	return d
}

// Probe is the verdict for a caller without a session.
func (s *AccessService) Probe(ctx context.Context) visibility.Verdict {
	account, err := s.store.FindTravelingAccount(ctx)
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return visibility.Probe(nil)
	case err != nil:
		return visibility.FailClosed()
	}
	return visibility.Probe(account)
}
