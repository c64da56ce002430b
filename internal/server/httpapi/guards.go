package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/services"
)

const gateTicketHeader = common.GateTicketHeaderName

// withPublicSurface hides a nominally public route when the deployment is
// masked for callers without a session.
func (s *Server) withPublicSurface(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.access.Probe(r.Context()).Masked {
			s.writeNotFound(w, r)
			return
		}
		next(w, r)
	}
}

// withLoginSurface is withPublicSurface, except that a valid stealth gate
// ticket opens the login form while the surface is masked.
func (s *Server) withLoginSurface(next http.HandlerFunc) http.HandlerFunc {
	public := s.withPublicSurface(next)
	return func(w http.ResponseWriter, r *http.Request) {
		if ticket := r.Header.Get(gateTicketHeader); ticket != "" && s.gate.Admit(ticket) {
			next(w, r)
			return
		}
		public(w, r)
	}
}

// withAccess resolves the bearer session before the handler runs. The
// handler only ever sees an authenticated, unmasked decision.
func (s *Server) withAccess(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d := s.access.Check(r.Context(), bearerToken(r))
		if d.Verdict.Masked {
			s.writeNotFound(w, r)
			return
		}
		if !d.Authenticated() {
			writeJSON(w, http.StatusUnauthorized, errorBody{Detail: "Not authenticated"})
			return
		}
		ctx := context.WithValue(r.Context(), ctxDecision, d)
		next(w, r.WithContext(ctx))
	}
}

// withStandard additionally requires a standard session. Panic sessions get
// the not-found response.
func (s *Server) withStandard(next http.HandlerFunc) http.HandlerFunc {
	return s.withAccess(func(w http.ResponseWriter, r *http.Request) {
		if !decisionFrom(r).Standard() {
			s.writeNotFound(w, r)
			return
		}
		next(w, r)
	})
}

func decisionFrom(r *http.Request) *services.Decision {
	d, _ := r.Context().Value(ctxDecision).(*services.Decision)
	if d == nil {
		return &services.Decision{}
	}
	return d
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "bearer "
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return strings.TrimSpace(h[len(prefix):])
	}
	return ""
}
