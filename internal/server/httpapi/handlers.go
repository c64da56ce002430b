package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/services"
)

const apiVersion = "1"

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type tokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type gateRequest struct {
	Phrase string `json:"phrase"`
}

type gateResponse struct {
	Step   string `json:"step"`
	Ticket string `json:"ticket"`
}

type travelModeBody struct {
	Enabled   bool       `json:"enabled"`
	HideStats bool       `json:"hide_stats"`
	Until     *time.Time `json:"until,omitempty"`
}

type settingsBody struct {
	TravelMode     travelModeBody `json:"travel_mode"`
	DuressUsername string         `json:"duress_username,omitempty"`
}

type accountResponse struct {
	ID        string        `json:"id"`
	Username  string        `json:"username"`
	CreatedAt time.Time     `json:"created_at"`
	Settings  *settingsBody `json:"settings,omitempty"`
}

func newTokenResponse(p *services.TokenPair) tokenResponse {
	return tokenResponse{AccessToken: p.AccessToken, RefreshToken: p.RefreshToken, TokenType: "bearer"}
}

func newAccountResponse(v *services.AccountView) accountResponse {
	resp := accountResponse{ID: v.ID, Username: v.Username, CreatedAt: v.CreatedAt}
	if v.Settings != nil {
		resp.Settings = &settingsBody{
			TravelMode: travelModeBody{
				Enabled:   v.Settings.TravelMode.Enabled,
				HideStats: v.Settings.TravelMode.HideStats,
				Until:     v.Settings.TravelMode.Until,
			},
			DuressUsername: v.Settings.DuressUsername,
		}
	}
	return resp
}

func (s *Server) handleBanner(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"name": "budgetkeeper", "version": apiVersion})
}

// handleHealth is the probe endpoint: it answers only while the surface is
// visible to callers without a session.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !readJSON(w, r, &req) {
		return
	}

	acc, err := s.accounts.Register(r.Context(), req.Username, req.Password, req.ConfirmPassword)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, accountResponse{ID: acc.ID, Username: acc.Standard.Username, CreatedAt: acc.CreatedAt})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !readJSON(w, r, &req) {
		return
	}

	pair, err := s.sessions.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newTokenResponse(pair))
}

// handleGate answers every failure, a bad body included, with the generic
// denial.
func (s *Server) handleGate(w http.ResponseWriter, r *http.Request) {
	var req gateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeNotFound(w, r)
		return
	}

	res, err := s.gate.Submit(req.Phrase)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, gateResponse{Step: res.Step.String(), Ticket: res.Ticket})
}

// handleRefresh rotates a refresh token. Failures, a bad body included, are
// masked when the surface is masked for callers without a session.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if !s.readJSONUnguarded(w, r, &req) {
		return
	}

	pair, err := s.sessions.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		if s.access.Probe(r.Context()).Masked {
			s.writeNotFound(w, r)
			return
		}
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newTokenResponse(pair))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if !readJSON(w, r, &req) {
		return
	}
	if err := s.sessions.Logout(r.Context(), req.RefreshToken); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	view, err := s.accounts.View(decisionFrom(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newAccountResponse(view))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	d := decisionFrom(r)
	if d.Account == nil {
		s.writeNotFound(w, r)
		return
	}

	month, err := s.ledger.ParseMonth(r.URL.Query().Get("month"))
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: month must be YYYY-MM", common.ErrorValidation))
		return
	}

	summary, err := s.ledger.MonthSummary(r.Context(), d.Account.ID, month, d.Verdict.DataScope)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
