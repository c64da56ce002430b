// Package visibility decides whether a caller sees the real application or
// the not-found response.
package visibility

import (
	"github.com/dmitrijs2005/budgetkeeper/internal/server/auth"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/models"
)

// DataScope limits which aggregates an unmasked caller receives.
type DataScope string

const (
	ScopeFull       DataScope = "full"
	ScopeRestricted DataScope = "restricted"
)

// Verdict is the outcome of Resolve. Masked is a normal result, not an error.
type Verdict struct {
	Masked    bool      `json:"masked"`
	DataScope DataScope `json:"data_scope"`
}

var (
	masked = Verdict{Masked: true, DataScope: ScopeRestricted}
	open   = Verdict{Masked: false, DataScope: ScopeFull}
)

// Resolve maps a session and an account snapshot to a verdict. It is pure:
// the account's travel mode must already be projected to the current time
// (see models.TravelMode.Snapshot).
//
//	session   travel mode   verdict
//	none      on            masked
//	none      off           open
//	standard  on            masked
//	standard  off           open, full
//	panic     any           open, restricted if hide_stats
//
// A session with no matching account, or with an unknown mode, is masked.
func Resolve(session *auth.Session, account *models.Account) Verdict {
	if session == nil {
		if account != nil && account.TravelMode.Enabled {
			return masked
		}
		return open
	}

	if account == nil || session.Subject != account.ID {
		return masked
	}

	switch session.Mode {
	case models.ModeStandard:
		if account.TravelMode.Enabled {
			return masked
		}
		return open
	case models.ModePanic:
		if account.TravelMode.HideStats {
			return Verdict{Masked: false, DataScope: ScopeRestricted}
		}
		return open
	default:
		return masked
	}
}

// Probe is the verdict for an unauthenticated caller.
func Probe(account *models.Account) Verdict {
	return Resolve(nil, account)
}

// FailClosed is the verdict used when the account snapshot cannot be read.
func FailClosed() Verdict {
	return masked
}
