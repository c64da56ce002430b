package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/budgetkeeper/internal/server/models"
)

type duressRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type passwordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

type deleteAccountRequest struct {
	Password string `json:"password"`
}

func (s *Server) handleTravelMode(w http.ResponseWriter, r *http.Request) {
	var req travelModeBody
	if !readJSON(w, r, &req) {
		return
	}

	tm := models.TravelMode{Enabled: req.Enabled, HideStats: req.HideStats, Until: req.Until}
	if err := s.accounts.SetTravelMode(r.Context(), decisionFrom(r), tm); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetDuress(w http.ResponseWriter, r *http.Request) {
	var req duressRequest
	if !readJSON(w, r, &req) {
		return
	}
	if err := s.accounts.SetDuress(r.Context(), decisionFrom(r), req.Username, req.Password); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearDuress(w http.ResponseWriter, r *http.Request) {
	if err := s.accounts.ClearDuress(r.Context(), decisionFrom(r)); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if !readJSON(w, r, &req) {
		return
	}
	err := s.accounts.ChangePassword(r.Context(), decisionFrom(r), req.CurrentPassword, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	var req deleteAccountRequest
	if !readJSON(w, r, &req) {
		return
	}
	if err := s.accounts.DeleteAccount(r.Context(), decisionFrom(r), req.Password); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
