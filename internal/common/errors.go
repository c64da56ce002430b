// Package common defines shared constants and sentinel errors used across
// client and server layers of budgetkeeper. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal      = errors.New("internal error")
	ErrorUnauthorized  = errors.New("unauthorized")
	ErrVersionConflict = errors.New("version conflict")
	ErrUsernameTaken   = errors.New("username is already taken")

	// ErrorValidation wraps malformed settings input; the message after the
	// colon is safe to show to the owner.
	ErrorValidation = errors.New("validation error")

	// ErrInvalidCredentials is the single authentication failure. Unknown
	// user, wrong password and duress mismatch all collapse into it.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrStoreUnavailable means the credential store could not answer in time.
	// Callers fail closed.
	ErrStoreUnavailable = errors.New("credential store unavailable")

	// ErrPanicModeForbidden rejects settings mutations from a panic session.
	ErrPanicModeForbidden = errors.New("operation not permitted in this session")

	// ErrGateDenied is the stealth gate's phase-one rejection.
	ErrGateDenied = errors.New("access denied")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
