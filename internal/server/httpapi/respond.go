package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/budgetkeeper/internal/common"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := decodeJSON(w, r, v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Detail: "invalid request body"})
		return false
	}
	return true
}

// readJSONUnguarded is readJSON for routes that sit outside the masking
// guards: while the surface is masked a bad body gets the not-found response.
func (s *Server) readJSONUnguarded(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := decodeJSON(w, r, v); err != nil {
		if s.access.Probe(r.Context()).Masked {
			s.writeNotFound(w, r)
			return false
		}
		writeJSON(w, http.StatusBadRequest, errorBody{Detail: "invalid request body"})
		return false
	}
	return true
}

// writeError maps service errors to responses. Anything that could reveal
// masking, a panic session or a store outage renders as not-found.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		writeJSON(w, http.StatusBadRequest, errorBody{Detail: validationDetail(err)})
	case errors.Is(err, common.ErrUsernameTaken):
		writeJSON(w, http.StatusBadRequest, errorBody{Detail: "Username already registered"})
	case errors.Is(err, common.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorBody{Detail: "Incorrect username or password"})
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrRefreshTokenExpired):
		writeJSON(w, http.StatusUnauthorized, errorBody{Detail: "Not authenticated"})
	case errors.Is(err, common.ErrVersionConflict):
		writeJSON(w, http.StatusConflict, errorBody{Detail: "settings changed concurrently, retry"})
	case errors.Is(err, common.ErrorNotFound),
		errors.Is(err, common.ErrPanicModeForbidden),
		errors.Is(err, common.ErrStoreUnavailable),
		errors.Is(err, common.ErrGateDenied):
		s.writeNotFound(w, r)
	default:
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Detail: "server error"})
	}
}

// validationDetail strips the sentinel prefix from a wrapped validation error.
func validationDetail(err error) string {
	msg := err.Error()
	prefix := common.ErrorValidation.Error() + ": "
	if strings.HasPrefix(msg, prefix) {
		return strings.TrimPrefix(msg, prefix)
	}
	return msg
}
