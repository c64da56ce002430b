package client

import "errors"

var (
	ErrUnavailable        = errors.New("server unavailable")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNotLoggedIn        = errors.New("not logged in")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrGateDenied         = errors.New("denied")
	ErrRejected           = errors.New("request rejected")
)
